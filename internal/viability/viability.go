// Package viability implements ViabilityScorer (spec §4.8): turns a
// consolidated cluster's metrics into a 0..1 score, a three-tier verdict
// (Alta/Media/Baja), and a human-readable rationale. The average CBO band
// is surfaced in the rationale for context but never affects the score
// itself; LCOM is not reported.
package viability

import (
	"fmt"
	"sort"

	"github.com/raalzate/archdecomp/internal/config"
	"github.com/raalzate/archdecomp/internal/graph"
	"github.com/raalzate/archdecomp/internal/logging"
)

// largeClusterSize and largeClusterDensityFloor gate the large-cluster
// size penalty (§4.8): a cluster bigger than this, with internal edge
// density below this floor, is penalized for likely still being an unrefined monolith
// slice rather than a cohesive service.
const (
	smallClusterSize        = 3
	largeClusterSize        = 50
	largeClusterDensityFloor = 0.5
)

// Result is one cluster's viability verdict.
type Result struct {
	Tier                graph.Viability
	Score               float64
	Rationale           []string
	InternalEdgeDensity float64
}

// Score evaluates a single consolidated cluster. preMergeClusters maps a
// pre-consolidation cluster id (as named by c.SourceClusters) to that
// cluster's own Members/Metrics as they stood before ClusterConsolidator
// merged it - the only place the group's original per-cluster cohesion
// values still exist, since flatten discards the merged clusters
// themselves. A nil map, or an id missing from it, falls back to treating
// c as its own sole pre-merge constituent.
func Score(c graph.Cluster, preMergeClusters map[int]graph.Cluster, g *graph.DependencyGraph, cfg *config.Config) Result {
	if c.Size() == 0 {
		return Result{Tier: graph.ViabilityLow, Score: 0, Rationale: []string{"No se encontraron clusters válidos"}}
	}

	members := membersOf(c, g)
	adjustedCohesion := adjustedCohesionOf(c, preMergeClusters, g)
	externalCoupling := c.Metrics.Coupling
	dataCohesion := dataCohesionOf(c, members)
	density := internalEdgeDensityOf(c, g)

	base := cfg.Viability.CohesionWeight*adjustedCohesion +
		cfg.Viability.CouplingWeight*(1-externalCoupling) +
		cfg.Viability.DataWeight*dataCohesion

	penalty := 1.0
	var penaltyNote string
	switch {
	case c.Size() < smallClusterSize:
		penalty = cfg.Viability.SmallSizePenalty
		penaltyNote = fmt.Sprintf("❌ Cluster muy pequeño (%d miembros): penalización ×%.2f", c.Size(), penalty)
	case c.Size() > largeClusterSize && density < largeClusterDensityFloor:
		penalty = cfg.Viability.LargeSizePenalty
		penaltyNote = fmt.Sprintf("⚠️ Cluster grande y difuso (%d miembros, densidad %.2f): penalización ×%.2f", c.Size(), density, penalty)
	}

	score := base * penalty
	tier := tierOf(score, cfg)

	rationale := rationaleFor(c, members, adjustedCohesion, externalCoupling, dataCohesion, cfg)
	if penaltyNote != "" {
		rationale = append(rationale, penaltyNote)
	}
	if tier == graph.ViabilityLow {
		rationale = append(rationale, failureReason(adjustedCohesion, externalCoupling, dataCohesion, cfg))
	}

	logging.ViabilityDebug("cluster %d: score=%.3f tier=%s", c.ClusterID, score, tier)
	return Result{Tier: tier, Score: score, Rationale: rationale, InternalEdgeDensity: density}
}

// ScoreAll scores every cluster and writes FinalScore back onto it.
func ScoreAll(clusters []graph.Cluster, preMergeClusters map[int]graph.Cluster, g *graph.DependencyGraph, cfg *config.Config) []Result {
	results := make([]Result, len(clusters))
	for i := range clusters {
		r := Score(clusters[i], preMergeClusters, g, cfg)
		clusters[i].FinalScore = r.Score
		results[i] = r
	}
	return results
}

func tierOf(score float64, cfg *config.Config) graph.Viability {
	switch {
	case score >= cfg.Viability.HighViability:
		return graph.ViabilityHigh
	case score >= cfg.Viability.MediumViability:
		return graph.ViabilityMedium
	default:
		return graph.ViabilityLow
	}
}

// adjustedCohesionOf blends a member-size-weighted average of the group's
// pre-merge constituent clusters' own cohesion with an internal-edge-density
// factor over the merged group's full member set (§4.8).
func adjustedCohesionOf(c graph.Cluster, preMergeClusters map[int]graph.Cluster, g *graph.DependencyGraph) float64 {
	weighted := weightedAvgCohesionOf(c, preMergeClusters)
	density := internalEdgeDensityOf(c, g)
	return clamp01(weighted*0.7 + density*0.3)
}

// weightedAvgCohesionOf averages cohesion across c.SourceClusters, each
// weighted by that pre-merge cluster's own member count. A cluster built
// without SourceClusters set (e.g. directly in a test) is treated as its
// own sole constituent.
func weightedAvgCohesionOf(c graph.Cluster, preMergeClusters map[int]graph.Cluster) float64 {
	sourceIDs := c.SourceClusters
	if len(sourceIDs) == 0 {
		sourceIDs = []int{c.ClusterID}
	}

	var weightedSum float64
	var totalSize int
	for _, id := range sourceIDs {
		pre, ok := preMergeClusters[id]
		size, cohesion := pre.Size(), pre.Metrics.Cohesion
		if !ok || size == 0 {
			size, cohesion = 1, c.Metrics.Cohesion
		}
		weightedSum += cohesion * float64(size)
		totalSize += size
	}
	if totalSize == 0 {
		return 0
	}
	return weightedSum / float64(totalSize)
}

// internalEdgeDensityOf is internalCallEdges/(n·(n-1)) over the merged
// group's full member set (§4.8); undefined (n<2) is 0.
func internalEdgeDensityOf(c graph.Cluster, g *graph.DependencyGraph) float64 {
	n := c.Size()
	if n < 2 {
		return 0
	}
	members := c.MemberSet()
	internalCalls := 0
	for _, id := range c.Members {
		for _, e := range g.EdgesFrom(id) {
			if members.Has(e.To) && hasCallType(e.Types) {
				internalCalls++
			}
		}
	}
	return float64(internalCalls) / float64(n*(n-1))
}

func hasCallType(types []graph.EdgeType) bool {
	for _, t := range types {
		if t == graph.EdgeCall {
			return true
		}
	}
	return false
}

func dataCohesionOf(c graph.Cluster, members []graph.Component) float64 {
	union := graph.NewStringSet()
	for _, m := range members {
		for _, t := range m.TablesUsed.Sorted() {
			union.Add(t)
		}
	}
	if len(union) == 0 {
		return 0
	}
	return float64(len(c.Metrics.TablesShared)) / float64(len(union))
}

func rationaleFor(c graph.Cluster, members []graph.Component, cohesion, coupling, data float64, cfg *config.Config) []string {
	var out []string
	out = append(out, cohesionBullet(cohesion, cfg))
	out = append(out, couplingBullet(coupling, cfg))
	out = append(out, fmt.Sprintf("Cohesión de datos (tablas compartidas/total): %.2f", data))
	out = append(out, cboBand(members))
	if c.Metrics.Sensitive {
		out = append(out, "⚠️ Contiene componentes con datos sensibles")
	}
	return out
}

func cohesionBullet(cohesion float64, cfg *config.Config) string {
	switch {
	case cohesion >= cfg.Viability.StrongCohesion:
		return fmt.Sprintf("✅ Cohesión interna fuerte (%.2f)", cohesion)
	case cohesion >= cfg.Viability.MediumViability:
		return fmt.Sprintf("⚠️ Cohesión interna moderada (%.2f)", cohesion)
	default:
		return fmt.Sprintf("❌ Cohesión interna débil (%.2f)", cohesion)
	}
}

func couplingBullet(coupling float64, cfg *config.Config) string {
	switch {
	case coupling <= cfg.Viability.StrongCouplingMax:
		return fmt.Sprintf("✅ Acoplamiento externo bajo (%.2f)", coupling)
	case coupling <= 0.6:
		return fmt.Sprintf("⚠️ Acoplamiento externo moderado (%.2f)", coupling)
	default:
		return fmt.Sprintf("❌ Acoplamiento externo alto (%.2f)", coupling)
	}
}

// cboBand reports the average CBO band as context only - it never
// contributes to the score (§4.8).
func cboBand(members []graph.Component) string {
	if len(members) == 0 {
		return "CBO promedio: n/d"
	}
	sum := 0
	for _, m := range members {
		sum += m.CBO
	}
	avg := float64(sum) / float64(len(members))
	band := "bajo"
	switch {
	case avg > 20:
		band = "alto"
	case avg > 10:
		band = "medio"
	}
	return fmt.Sprintf("CBO promedio: %.1f (%s)", avg, band)
}

func failureReason(cohesion, coupling, data float64, cfg *config.Config) string {
	type factor struct {
		name  string
		worst float64
	}
	factors := []factor{
		{"cohesión interna insuficiente", 1 - cohesion},
		{"acoplamiento externo excesivo", coupling},
		{"baja cohesión de datos", 1 - data},
	}
	sort.Slice(factors, func(i, j int) bool { return factors[i].worst > factors[j].worst })
	return fmt.Sprintf("❌ Razón principal de baja viabilidad: %s", factors[0].name)
}

func membersOf(c graph.Cluster, g *graph.DependencyGraph) []graph.Component {
	out := make([]graph.Component, 0, len(c.Members))
	for _, id := range c.Members {
		if comp, ok := g.ComponentByID(id); ok {
			out = append(out, *comp)
		}
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
