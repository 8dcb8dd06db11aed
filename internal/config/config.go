// Package config holds the inference pipeline's configuration surface
// (spec §6): every weight, threshold and closed list the spec requires
// to be adjustable without code changes. Config is YAML-tagged so it can
// be loaded from disk and overlaid with environment overrides, the same
// shape the teacher's internal/config.Config uses for its own settings.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/raalzate/archdecomp/internal/logging"
)

// InterClusterWeights are the four signal weights InterClusterGraph
// combines into an evidence score (§4.4). Must sum to 1.0 within
// weightSumTolerance.
type InterClusterWeights struct {
	Table float64 `yaml:"table_weight"`
	Call  float64 `yaml:"call_weight"`
	Token float64 `yaml:"token_weight"`
	Event float64 `yaml:"event_weight"`
}

// StrongSignalThresholds are the per-signal "strong" bands used by the
// consolidation strong-evidence check (§4.5). The strong-candidate
// definition has its own thresholds in ViabilityConfig.
type StrongSignalThresholds struct {
	Table float64 `yaml:"table"`
	Call  float64 `yaml:"call"`
	Token float64 `yaml:"token"`
}

// ConsolidationConfig holds the §4.5 guardrail knobs.
type ConsolidationConfig struct {
	EvidenceThreshold            float64                `yaml:"evidence_threshold"`
	MinStrongSignals             int                    `yaml:"min_strong_signals"`
	StrongSignalThresholds       StrongSignalThresholds `yaml:"strong_signal_thresholds"`
	MaxSizeWithoutHighSimilarity int                    `yaml:"max_size_without_high_similarity"`
	HighTokenSimilarity          float64                `yaml:"high_token_similarity"`
	SupportRatio                 float64                `yaml:"support_ratio"`
	// SameDomainInfraRatio is the looser 0.3 "significant infrastructure"
	// bar that replaces SupportRatio in Phase 1's support/business
	// separation check when the two clusters share a domain (§4.5, §9 open
	// question: the source keeps both 0.8 and 0.3, deliberately). Phase 0's
	// same-domain rule uses its own fixed 0.3 constant, not this field.
	SameDomainInfraRatio float64 `yaml:"same_domain_infra_ratio"`
}

// ViabilityConfig holds the §4.8 scoring knobs.
type ViabilityConfig struct {
	CohesionWeight    float64 `yaml:"cohesion_weight"`
	CouplingWeight    float64 `yaml:"coupling_weight"`
	DataWeight        float64 `yaml:"data_weight"`
	HighViability     float64 `yaml:"high_viability"`
	MediumViability   float64 `yaml:"medium_viability"`
	SmallSizePenalty  float64 `yaml:"small_size_penalty"`
	LargeSizePenalty  float64 `yaml:"large_size_penalty"`
	StrongCohesion    float64 `yaml:"strong_cohesion"`
	StrongCouplingMax float64 `yaml:"strong_coupling_max"`
	StrongMinSize     int     `yaml:"strong_min_size"`
	NanoMaxSize       int     `yaml:"nano_max_size"`
}

// LayerRules is one layer's closed scoring lists (§4.1).
type LayerRules struct {
	Annotations        []string `yaml:"annotations"`
	NameSubstrings     []string `yaml:"name_substrings"`
	PackageSubstrings  []string `yaml:"package_substrings"`
}

// LoggingConfig is the logging section of the YAML configuration. The
// logging package does not read it: its debug-mode gate is loaded from
// <workspace>/.archdecomp/config.json by logging.Initialize.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	DebugMode  bool   `yaml:"debug_mode"`
	JSONFormat bool   `yaml:"json_format"`
}

// Config is the complete configuration surface of the inference core.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	InterClusterWeights InterClusterWeights `yaml:"inter_cluster_weights"`
	Consolidation       ConsolidationConfig `yaml:"consolidation"`
	Viability           ViabilityConfig     `yaml:"viability"`

	// ExcludeTokens is the closed domain-token exclusion dictionary (§4.7, §6).
	ExcludeTokens []string `yaml:"exclude_tokens"`

	// InfraKeywords maps an infrastructure keyword to its display name (§4.7).
	InfraKeywords map[string]string `yaml:"infra_keywords"`
	// InfraKeywordOrder preserves the priority order used when picking the
	// top-2 keywords for a name (map iteration order is not stable).
	InfraKeywordOrder []string `yaml:"infra_keyword_order"`

	// SupportGenericNames are ignored during the Phase 0 name-collision
	// merge (§4.5 Phase 0) because they are not meaningful collisions.
	SupportGenericNames []string `yaml:"support_generic_names"`

	// RoleKeywords are the role-bearing suffixes used for business function
	// token extraction during clustering (§4.2). Matched longest-first.
	RoleKeywords []string `yaml:"role_keywords"`

	// DomainTokenKeywords are the narrower "contains" role markers used to
	// derive a domain token for inter-cluster token similarity (§4.4.3) and
	// for microservice naming (§4.7). Distinct list from RoleKeywords: this
	// one is matched by substring, not suffix, and has no "serviceimpl" or
	// "api" entries.
	DomainTokenKeywords []string `yaml:"domain_token_keywords"`

	// InfraClassifierKeywords are the simple-name/package substrings that
	// mark a Component as infrastructure for clustering purposes (§4.2).
	InfraClassifierKeywords []string `yaml:"infra_classifier_keywords"`

	Layers map[string]LayerRules `yaml:"layers"`

	Logging LoggingConfig `yaml:"logging"`
}

// weightSumTolerance bounds how far a weight group may drift from 1.0
// before Validate treats it as a fatal configuration error (§7).
const weightSumTolerance = 1e-6

// Load reads configuration from a YAML file, overlaying it onto
// DefaultConfig(); a missing file is not an error (matches the teacher's
// config.Load behavior - ship sensible defaults out of the box).
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	logging.BootDebug("loading config from: %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Boot("config file not found, using defaults: %s", path)
			cfg.applyEnvOverrides()
			return cfg, cfg.Validate()
		}
		logging.BootError("failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		logging.BootError("failed to parse config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logging.Boot("config loaded: evidence_threshold=%.2f high_viability=%.2f", cfg.Consolidation.EvidenceThreshold, cfg.Viability.HighViability)
	return cfg, nil
}

// Save writes the configuration to a YAML file, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides overlays the small set of knobs an operator most
// plausibly wants to tune per-run without editing the YAML file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("ARCHDECOMP_EVIDENCE_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Consolidation.EvidenceThreshold = f
		}
	}
	if v := os.Getenv("ARCHDECOMP_MAX_SIZE_WITHOUT_HIGH_SIMILARITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Consolidation.MaxSizeWithoutHighSimilarity = n
		}
	}
	if v := os.Getenv("ARCHDECOMP_HIGH_VIABILITY"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Viability.HighViability = f
		}
	}
	if v := os.Getenv("ARCHDECOMP_MEDIUM_VIABILITY"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Viability.MediumViability = f
		}
	}
	if v := os.Getenv("ARCHDECOMP_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate enforces the one hard-error path the spec allows (§7):
// weights that don't sum to 1 within tolerance, or thresholds outside
// [0,1], are a fatal setup error — never a mid-pipeline exception.
func (c *Config) Validate() error {
	sum := c.InterClusterWeights.Table + c.InterClusterWeights.Call + c.InterClusterWeights.Token + c.InterClusterWeights.Event
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("inter-cluster weights must sum to 1.0, got %.6f", sum)
	}
	viabilitySum := c.Viability.CohesionWeight + c.Viability.CouplingWeight + c.Viability.DataWeight
	if math.Abs(viabilitySum-1.0) > weightSumTolerance {
		return fmt.Errorf("viability weights must sum to 1.0, got %.6f", viabilitySum)
	}
	for name, v := range map[string]float64{
		"evidence_threshold":    c.Consolidation.EvidenceThreshold,
		"high_token_similarity": c.Consolidation.HighTokenSimilarity,
		"support_ratio":         c.Consolidation.SupportRatio,
		"high_viability":        c.Viability.HighViability,
		"medium_viability":      c.Viability.MediumViability,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be in [0,1], got %.6f", name, v)
		}
	}
	if c.Viability.MediumViability > c.Viability.HighViability {
		return fmt.Errorf("medium_viability (%.2f) must not exceed high_viability (%.2f)", c.Viability.MediumViability, c.Viability.HighViability)
	}
	if c.Consolidation.MinStrongSignals < 0 {
		return fmt.Errorf("min_strong_signals must be >= 0")
	}
	return nil
}
