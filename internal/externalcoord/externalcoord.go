// Package externalcoord merges caller-supplied external-dependency
// coordinates (e.g. resolved package-manager coordinates for a build file)
// with the raw dependency names every Component references, so the
// Architecture artifact's project_metadata.external_dependencies block
// names every referenced dependency even when the caller could not
// resolve a precise coordinate for it (spec §4.9 step 4, §6).
package externalcoord

import "github.com/raalzate/archdecomp/internal/graph"

// Merge returns known with an entry added, mapped to itself, for every
// external dependency name referenced by g's Components that known does
// not already cover. known is never mutated.
func Merge(known map[string]string, g *graph.DependencyGraph) map[string]string {
	out := make(map[string]string, len(known))
	for k, v := range known {
		out[k] = v
	}
	for _, c := range g.Components {
		for _, dep := range c.ExternalDependencies.Sorted() {
			if _, ok := out[dep]; !ok {
				out[dep] = dep
			}
		}
	}
	return out
}
