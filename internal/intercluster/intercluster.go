// Package intercluster implements InterClusterGraph (spec §4.4): for every
// pair of clusters, four independent evidence signals - shared-table
// Jaccard, call density, domain-token Jaccard, and event-link density -
// combined into a single weighted evidence score. Only pairs scoring above
// 0.1 become edges; ClusterConsolidator (§4.5) consumes both the combined
// score and the per-signal strong/weak classification.
package intercluster

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/raalzate/archdecomp/internal/config"
	"github.com/raalzate/archdecomp/internal/graph"
	"github.com/raalzate/archdecomp/internal/logging"
	"github.com/raalzate/archdecomp/internal/tokens"
)

// minEvidenceScore is the floor below which a cluster pair is not worth
// recording as an edge at all (§4.4).
const minEvidenceScore = 0.1

// Edge is one scored cluster pair. A and B are always ordered A < B so a
// pair is represented exactly once.
type Edge struct {
	A, B            int
	TableJaccard    float64
	CallDensity     float64
	TokenSimilarity float64
	EventLinks      float64
	Score           float64
}

// StrongSignalCount reports how many of the three guardrail-relevant
// signals (table, call, token) clear their configured "strong" threshold
// (§4.5's strong_evidence check).
func StrongSignalCount(e Edge, cfg *config.Config) int {
	count := 0
	if e.TableJaccard >= cfg.Consolidation.StrongSignalThresholds.Table {
		count++
	}
	if e.CallDensity >= cfg.Consolidation.StrongSignalThresholds.Call {
		count++
	}
	if e.TokenSimilarity >= cfg.Consolidation.StrongSignalThresholds.Token {
		count++
	}
	return count
}

// Build computes every cluster pair's evidence signals, in parallel, and
// returns the edges scoring above minEvidenceScore in deterministic order:
// by (A,B) ascending, then by score descending for any caller that wants
// the strongest edges first within a fixed-id neighborhood.
func Build(ctx context.Context, clusters []graph.Cluster, g *graph.DependencyGraph, cfg *config.Config) ([]Edge, error) {
	g.Index()

	type pair struct{ i, j int }
	var pairs []pair
	for i := 0; i < len(clusters); i++ {
		for j := i + 1; j < len(clusters); j++ {
			pairs = append(pairs, pair{i, j})
		}
	}

	results := make([]Edge, len(pairs))
	var mu sync.Mutex
	grp, gctx := errgroup.WithContext(ctx)
	for idx, p := range pairs {
		idx, p := idx, p
		grp.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			e := scorePair(clusters[p.i], clusters[p.j], g, cfg)
			mu.Lock()
			results[idx] = e
			mu.Unlock()
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	var edges []Edge
	for _, e := range results {
		if e.Score > minEvidenceScore {
			edges = append(edges, e)
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].A != edges[j].A {
			return edges[i].A < edges[j].A
		}
		if edges[i].B != edges[j].B {
			return edges[i].B < edges[j].B
		}
		return edges[i].Score > edges[j].Score
	})
	logging.InterClusterDebug("scored %d cluster pairs, %d above threshold", len(pairs), len(edges))
	return edges, nil
}

func scorePair(a, b graph.Cluster, g *graph.DependencyGraph, cfg *config.Config) Edge {
	aMembers := membersOf(a, g)
	bMembers := membersOf(b, g)

	tableJaccard := tablesOf(aMembers).Jaccard(tablesOf(bMembers))
	callDensity := callDensityOf(a, b, g)
	tokenSim := tokens.DomainTokenSet(aMembers, cfg).Jaccard(tokens.DomainTokenSet(bMembers, cfg))
	eventLinks := eventLinksOf(a, b, g)

	w := cfg.InterClusterWeights
	score := w.Table*tableJaccard + w.Call*callDensity + w.Token*tokenSim + w.Event*eventLinks

	lo, hi := a.ClusterID, b.ClusterID
	if lo > hi {
		lo, hi = hi, lo
	}
	return Edge{
		A: lo, B: hi,
		TableJaccard:    tableJaccard,
		CallDensity:     callDensity,
		TokenSimilarity: tokenSim,
		EventLinks:      eventLinks,
		Score:           score,
	}
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

func tablesOf(members []graph.Component) graph.StringSet {
	set := graph.NewStringSet()
	for _, m := range members {
		for _, t := range m.TablesUsed.Sorted() {
			set.Add(t)
		}
	}
	return set
}

// callDensityOf is min(1.0, cross/(0.5*internal)) where cross counts raw
// call-edge occurrences crossing between a and b and internal counts
// call-edge occurrences staying within either cluster (§4.4 signal 2).
func callDensityOf(a, b graph.Cluster, g *graph.DependencyGraph) float64 {
	aSet, bSet := a.MemberSet(), b.MemberSet()
	cross := 0
	for _, id := range a.Members {
		for _, e := range g.EdgesFrom(id) {
			if bSet.Has(e.To) && hasCallType(e) {
				cross++
			}
		}
	}
	for _, id := range b.Members {
		for _, e := range g.EdgesFrom(id) {
			if aSet.Has(e.To) && hasCallType(e) {
				cross++
			}
		}
	}

	internal := internalCallsOf(a, aSet, g) + internalCallsOf(b, bSet, g)
	if internal == 0 {
		return 0
	}
	density := float64(cross) / (0.5 * float64(internal))
	if density > 1 {
		density = 1
	}
	return density
}

// internalCallsOf counts raw call-edge occurrences whose source and target
// both lie in members.
func internalCallsOf(c graph.Cluster, members graph.StringSet, g *graph.DependencyGraph) int {
	count := 0
	for _, id := range c.Members {
		for _, e := range g.EdgesFrom(id) {
			if members.Has(e.To) && hasCallType(e) {
				count++
			}
		}
	}
	return count
}

func hasCallType(e graph.Edge) bool {
	for _, t := range e.Types {
		if t == graph.EdgeCall {
			return true
		}
	}
	return false
}

// eventLinksOf measures event-driven coupling between two clusters: edges
// whose type multiset includes a Spring-event contribution, normalized
// against a small fixed ceiling rather than cluster size, since two or
// three event links between services is already a strong signal
// regardless of how large either side is.
func eventLinksOf(a, b graph.Cluster, g *graph.DependencyGraph) float64 {
	aSet, bSet := a.MemberSet(), b.MemberSet()
	count := 0
	for _, id := range a.Members {
		for _, e := range g.EdgesFrom(id) {
			if bSet.Has(e.To) && hasEventType(e) {
				count++
			}
		}
	}
	for _, id := range b.Members {
		for _, e := range g.EdgesFrom(id) {
			if aSet.Has(e.To) && hasEventType(e) {
				count++
			}
		}
	}
	const ceiling = 2.0
	links := float64(count) / ceiling
	if links > 1 {
		links = 1
	}
	return links
}

func hasEventType(e graph.Edge) bool {
	for _, t := range e.Types {
		if t == graph.EdgeSpringEvent {
			return true
		}
	}
	return false
}
