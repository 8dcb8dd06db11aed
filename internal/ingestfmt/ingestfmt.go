// Package ingestfmt implements the JSON wire-format contracts named in
// spec §6: reading a Graph artifact produced by an external ingester, and
// writing the Architecture artifact an external serializer/consumer
// expects. The core never parses source code itself - this package is
// the only one that reads or writes the pipeline's artifacts
// (internal/config and internal/logging do their own file I/O for
// configuration and debug logs).
package ingestfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/raalzate/archdecomp/internal/graph"
)

// ReadGraph decodes a Graph artifact from r.
func ReadGraph(r io.Reader) (*graph.DependencyGraph, error) {
	var g graph.DependencyGraph
	dec := json.NewDecoder(r)
	if err := dec.Decode(&g); err != nil {
		return nil, fmt.Errorf("decode graph artifact: %w", err)
	}
	g.Index()
	return &g, nil
}

// ReadGraphFile opens and decodes a Graph artifact from disk.
func ReadGraphFile(path string) (*graph.DependencyGraph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open graph artifact: %w", err)
	}
	defer f.Close()
	return ReadGraph(f)
}

// WriteArchitecture encodes an Architecture artifact to w as indented JSON.
func WriteArchitecture(w io.Writer, a graph.ArchitectureArtifact) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a); err != nil {
		return fmt.Errorf("encode architecture artifact: %w", err)
	}
	return nil
}

// WriteArchitectureFile encodes an Architecture artifact to disk.
func WriteArchitectureFile(path string, a graph.ArchitectureArtifact) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create architecture artifact: %w", err)
	}
	defer f.Close()
	return WriteArchitecture(f, a)
}
