// Package metrics implements ClusterMetricsCalculator (spec §4.3): the
// per-cluster cohesion/coupling/shared-table/sensitivity/size figures that
// InterClusterGraph, ClusterConsolidator and ViabilityScorer all build on.
package metrics

import (
	"github.com/raalzate/archdecomp/internal/graph"
	"github.com/raalzate/archdecomp/internal/logging"
)

// Compute fills Metrics on every cluster in place, using g for edge and
// Component lookups.
func Compute(clusters []graph.Cluster, g *graph.DependencyGraph) {
	g.Index()
	for i := range clusters {
		clusters[i].Metrics = computeOne(clusters[i], g)
	}
	logging.MetricsDebug("computed metrics for %d clusters", len(clusters))
}

func computeOne(c graph.Cluster, g *graph.DependencyGraph) graph.ClusterMetrics {
	members := c.MemberSet()

	var internalWeight, outgoingWeight int
	tableCounts := make(map[string]int)
	loc := 0
	sensitive := false

	for _, id := range c.Members {
		comp, ok := g.ComponentByID(id)
		if !ok {
			continue
		}
		loc += comp.LOC
		if comp.SensitiveData {
			sensitive = true
		}
		for _, t := range comp.TablesUsed.Sorted() {
			tableCounts[t]++
		}

		// Cohesion and coupling share one denominator: the weight of
		// every edge whose source is a member of this cluster (§4.3).
		for _, e := range g.EdgesFrom(id) {
			outgoingWeight += e.Weight
			if members.Has(e.To) {
				internalWeight += e.Weight
			}
		}
	}

	cohesion := 0.0
	coupling := 0.0
	if outgoingWeight > 0 {
		cohesion = float64(internalWeight) / float64(outgoingWeight)
		coupling = float64(outgoingWeight-internalWeight) / float64(outgoingWeight)
	}

	shared := graph.NewStringSet()
	for table, count := range tableCounts {
		if count >= 2 {
			shared.Add(table)
		}
	}

	return graph.ClusterMetrics{
		Cohesion:     cohesion,
		Coupling:     coupling,
		TablesShared: shared,
		Sensitive:    sensitive,
		LOC:          loc,
	}
}
