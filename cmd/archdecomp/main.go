// Package main implements the archdecomp CLI: reads a dependency-graph
// artifact, runs the decomposition inference pipeline over it, and
// writes the resulting architecture artifact.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/raalzate/archdecomp/internal/config"
	"github.com/raalzate/archdecomp/internal/ingestfmt"
	"github.com/raalzate/archdecomp/internal/logging"
	"github.com/raalzate/archdecomp/internal/recommend"
)

var (
	verbose    bool
	workspace  string
	configPath string
	timeout    time.Duration

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "archdecomp",
	Short: "Infer candidate microservice decompositions from a class dependency graph",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}

		ws := workspace
		if ws == "" {
			ws, _ = os.Getwd()
		}
		if err := logging.Initialize(ws); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to initialize file logging: %v\n", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <graph-file>",
	Short: "Run the decomposition pipeline over a dependency-graph artifact",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

var (
	outPath string
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file (default: <workspace>/.archdecomp/config.yaml)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Pipeline timeout")

	analyzeCmd.Flags().StringVarP(&outPath, "out", "o", "", "Output path for the architecture artifact (default: stdout)")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	graphPath := args[0]

	ws := workspace
	if ws == "" {
		ws, _ = os.Getwd()
	}
	cfgPath := configPath
	if cfgPath == "" {
		cfgPath = filepath.Join(ws, ".archdecomp", "config.yaml")
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	g, err := ingestfmt.ReadGraphFile(graphPath)
	if err != nil {
		return fmt.Errorf("read graph artifact: %w", err)
	}

	logger.Info("analyzing dependency graph",
		zap.String("graph_file", graphPath),
		zap.Int("components", len(g.Components)),
		zap.Int("edges", len(g.Edges)),
	)

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	artifact, err := recommend.Run(ctx, g, cfg, nil)
	if err != nil {
		return fmt.Errorf("run decomposition pipeline: %w", err)
	}

	logger.Info("decomposition complete",
		zap.Int("proposals", artifact.Summary.TotalProposals),
		zap.Int("support_libraries", artifact.Summary.TotalSupportLibraries),
		zap.Int("high_viability", artifact.Summary.HighViability),
	)

	if outPath == "" {
		return ingestfmt.WriteArchitecture(os.Stdout, artifact)
	}
	return ingestfmt.WriteArchitectureFile(outPath, artifact)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
