// Package consolidate implements ClusterConsolidator (spec §4.5-§4.6): a
// union-find merge over the initial clusters, driven first by a Phase 0
// name-collision pass and then by InterClusterGraph evidence, subject to
// the guardrails that keep the merge from swallowing an already-strong
// cluster or blending unrelated support/business groups.
package consolidate

import (
	"sort"

	"github.com/raalzate/archdecomp/internal/config"
	"github.com/raalzate/archdecomp/internal/graph"
	"github.com/raalzate/archdecomp/internal/intercluster"
	"github.com/raalzate/archdecomp/internal/logging"
	"github.com/raalzate/archdecomp/internal/metrics"
	"github.com/raalzate/archdecomp/internal/naming"
)

// unionFind tracks, per root clusterID, every member id currently merged
// under it, so the size guardrail can be checked without recomputing
// metrics on every union.
type unionFind struct {
	parent  map[int]int
	members map[int][]string
}

func newUnionFind(clusters []graph.Cluster) *unionFind {
	uf := &unionFind{parent: make(map[int]int), members: make(map[int][]string)}
	for _, c := range clusters {
		uf.parent[c.ClusterID] = c.ClusterID
		uf.members[c.ClusterID] = append([]string(nil), c.Members...)
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	uf.parent[rb] = ra
	uf.members[ra] = append(uf.members[ra], uf.members[rb]...)
	delete(uf.members, rb)
}

// Run consolidates clusters using edges (InterClusterGraph's scored pairs)
// and returns the merged clusters, renumbered and with metrics recomputed.
func Run(clusters []graph.Cluster, edges []intercluster.Edge, g *graph.DependencyGraph, cfg *config.Config) []graph.Cluster {
	g.Index()
	byID := make(map[int]graph.Cluster, len(clusters))
	for _, c := range clusters {
		byID[c.ClusterID] = c
	}
	uf := newUnionFind(clusters)

	phaseZeroNameCollisionMerge(clusters, g, cfg, uf)
	phaseOneEvidenceMerge(edges, byID, g, cfg, uf)

	merged := flatten(clusters, uf)
	metrics.Compute(merged, g)
	logging.ConsolidateDebug("consolidated %d initial clusters into %d", len(clusters), len(merged))
	return merged
}

// significantInfraRatio is the "≥30% of members have infra keywords"
// bar the same-domain merge rule checks agreement on (§4.5), distinct
// from the strict 0.8 support_ratio used for final classification.
const significantInfraRatio = 0.3

// maxSameDomainMergeSize is the combined-size ceiling the same-domain
// merge rule enforces (§4.5).
const maxSameDomainMergeSize = 50

// phaseZeroNameCollisionMerge generates a prospective name for every
// singleton cluster, groups collisions on identical non-generic names,
// and attempts to merge consecutive pairs within each group under the
// same-domain rule (§4.5 Phase 0).
func phaseZeroNameCollisionMerge(clusters []graph.Cluster, g *graph.DependencyGraph, cfg *config.Config, uf *unionFind) {
	nameOf := make(map[int]string)
	for _, c := range clusters {
		if c.Size() != 1 {
			continue
		}
		name, generic := naming.Generate(membersOf(c, g), cfg)
		if !generic {
			nameOf[c.ClusterID] = name
		}
	}

	byName := make(map[string][]int)
	for id, name := range nameOf {
		byName[name] = append(byName[name], id)
	}

	names := make([]string, 0, len(byName))
	for n := range byName {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, name := range names {
		ids := byName[name]
		sort.Ints(ids)
		for i := 1; i < len(ids); i++ {
			prev, cur := ids[i-1], ids[i]
			ra, rb := uf.find(prev), uf.find(cur)
			if ra == rb {
				continue
			}
			if !sameDomainMergeOK(uf, ra, rb, g, cfg) {
				continue
			}
			uf.union(prev, cur)
			logging.ConsolidateDebug("phase 0: merged cluster %d into %d on name collision %q", cur, prev, name)
		}
	}
}

// sameDomainMergeOK applies the Phase 0 same-domain merge rule: both
// roots must agree on support-ness, both must agree on "significant
// infrastructure" status, and their combined size must not exceed
// maxSameDomainMergeSize.
func sameDomainMergeOK(uf *unionFind, ra, rb int, g *graph.DependencyGraph, cfg *config.Config) bool {
	membersA := componentsOf(uf.members[ra], g)
	membersB := componentsOf(uf.members[rb], g)

	if len(membersA)+len(membersB) > maxSameDomainMergeSize {
		return false
	}
	if isSupport(membersA, cfg, cfg.Consolidation.SupportRatio) != isSupport(membersB, cfg, cfg.Consolidation.SupportRatio) {
		return false
	}
	return isSupport(membersA, cfg, significantInfraRatio) == isSupport(membersB, cfg, significantInfraRatio)
}

func componentsOf(ids []string, g *graph.DependencyGraph) []graph.Component {
	out := make([]graph.Component, 0, len(ids))
	for _, id := range ids {
		if comp, ok := g.ComponentByID(id); ok {
			out = append(out, *comp)
		}
	}
	return out
}

func phaseOneEvidenceMerge(edges []intercluster.Edge, byID map[int]graph.Cluster, g *graph.DependencyGraph, cfg *config.Config, uf *unionFind) {
	sorted := append([]intercluster.Edge(nil), edges...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		if sorted[i].A != sorted[j].A {
			return sorted[i].A < sorted[j].A
		}
		return sorted[i].B < sorted[j].B
	})

	for _, e := range sorted {
		a, okA := byID[e.A]
		b, okB := byID[e.B]
		if !okA || !okB {
			continue
		}
		if !canMerge(e, a, b, g, cfg) {
			continue
		}
		ra, rb := uf.find(e.A), uf.find(e.B)
		if ra == rb {
			continue
		}
		combined := len(uf.members[ra]) + len(uf.members[rb])
		if combined > cfg.Consolidation.MaxSizeWithoutHighSimilarity && e.TokenSimilarity < cfg.Consolidation.HighTokenSimilarity {
			continue
		}
		uf.union(e.A, e.B)
		logging.ConsolidateDebug("phase 1: merged cluster %d and %d (evidence=%.2f)", e.A, e.B, e.Score)
	}
}

// strongCandidateProtectionCallDensityCeiling and
// strongCandidateProtectionTableJaccardCeiling are the two fixed §4.5
// guardrail ceilings: the protection only fires when evidence is weak on
// both of these signals, not merely when either side is already strong.
const (
	strongCandidateProtectionCallDensityCeiling  = 0.15
	strongCandidateProtectionTableJaccardCeiling = 0.2
)

// canMerge applies the §4.5 guardrails that look only at the two original
// clusters an edge names (not the evolving merged aggregate): strong
// evidence, the strong-candidate protection, and the support/business
// separation rule.
func canMerge(e intercluster.Edge, a, b graph.Cluster, g *graph.DependencyGraph, cfg *config.Config) bool {
	if e.Score < cfg.Consolidation.EvidenceThreshold {
		return false
	}
	if intercluster.StrongSignalCount(e, cfg) < cfg.Consolidation.MinStrongSignals {
		return false
	}
	if isStrongCandidate(a, cfg) && isStrongCandidate(b, cfg) &&
		e.CallDensity < strongCandidateProtectionCallDensityCeiling &&
		e.TableJaccard < strongCandidateProtectionTableJaccardCeiling {
		return false
	}
	return supportBusinessSeparationOK(a, b, g, cfg)
}

func isStrongCandidate(c graph.Cluster, cfg *config.Config) bool {
	return c.Metrics.Cohesion >= cfg.Viability.StrongCohesion &&
		c.Metrics.Coupling <= cfg.Viability.StrongCouplingMax &&
		c.Size() >= cfg.Viability.StrongMinSize
}

func supportBusinessSeparationOK(a, b graph.Cluster, g *graph.DependencyGraph, cfg *config.Config) bool {
	aMembers, bMembers := membersOf(a, g), membersOf(b, g)
	threshold := cfg.Consolidation.SupportRatio
	if domainsOverlap(aMembers, bMembers) {
		threshold = cfg.Consolidation.SameDomainInfraRatio
	}
	return isSupport(aMembers, cfg, threshold) == isSupport(bMembers, cfg, threshold)
}

func isSupport(members []graph.Component, cfg *config.Config, threshold float64) bool {
	if len(members) == 0 {
		return false
	}
	infra := 0
	for _, m := range members {
		if naming.IsInfra(m, cfg) {
			infra++
		}
	}
	return float64(infra)/float64(len(members)) >= threshold
}

func domainsOverlap(a, b []graph.Component) bool {
	domains := graph.NewStringSet()
	for _, m := range a {
		if m.Domain != "" {
			domains.Add(m.Domain)
		}
	}
	for _, m := range b {
		if m.Domain != "" && domains.Has(m.Domain) {
			return true
		}
	}
	return false
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

func flatten(clusters []graph.Cluster, uf *unionFind) []graph.Cluster {
	groups := make(map[int][]string)
	sources := make(map[int][]int)
	for _, c := range clusters {
		root := uf.find(c.ClusterID)
		groups[root] = append(groups[root], c.Members...)
		sources[root] = append(sources[root], c.ClusterID)
	}

	var result []graph.Cluster
	for root, members := range groups {
		sort.Strings(members)
		src := append([]int(nil), sources[root]...)
		sort.Ints(src)
		result = append(result, graph.Cluster{Members: members, RulesFired: graph.NewStringSet(), SourceClusters: src})
	}
	sort.Slice(result, func(i, j int) bool {
		if len(result[i].Members) == 0 || len(result[j].Members) == 0 {
			return len(result[i].Members) > len(result[j].Members)
		}
		return result[i].Members[0] < result[j].Members[0]
	})
	for i := range result {
		result[i].ClusterID = i
	}
	return result
}
