// Package cluster implements ClusteringAlgorithm (spec §4.2): the first
// grouping pass over a DependencyGraph's Components, producing the initial
// clusters that ClusterMetricsCalculator, InterClusterGraph and
// ClusterConsolidator refine in later phases. Two branches - entity-based
// for single-domain projects, business-responsibility otherwise - are tried
// with a fallback cascade back to a domain-based and finally an
// entity-based partition whenever the chosen branch's output fails the
// sanity checks in §4.2's closing paragraph.
package cluster

import (
	"sort"
	"strings"

	"github.com/raalzate/archdecomp/internal/config"
	"github.com/raalzate/archdecomp/internal/graph"
	"github.com/raalzate/archdecomp/internal/logging"
	"github.com/raalzate/archdecomp/internal/tokens"
)

// singleDomainThreshold is the share of Components a single domain must
// hold before the project is treated as single-domain (§4.2 step 2).
const singleDomainThreshold = 0.75

// halfShareLimit bounds how much of the total component count a single
// cluster may hold before the fallback cascade rejects the partition.
const halfShareLimit = 0.5

// workingCluster accumulates full Components during clustering; only at
// the very end is it flattened to the graph.Cluster wire shape (IDs only).
type workingCluster struct {
	Members []graph.Component
}

func (w workingCluster) size() int { return len(w.Members) }

// Run partitions g's Components into initial clusters (§4.2). It assigns
// Domain on any Component missing one, but otherwise treats Components as
// read-only.
func Run(g *graph.DependencyGraph, cfg *config.Config) []graph.Cluster {
	for i := range g.Components {
		if g.Components[i].Domain == "" {
			g.Components[i].Domain = tokens.InferDomain(g.Components[i])
		}
	}
	infra, rest := partitionInfra(g.Components, cfg)

	var working []workingCluster
	if len(rest) > 0 {
		domainGroups := groupByDomain(rest)
		if isSingleDomainProject(domainGroups, len(rest)) {
			logging.Cluster("single-domain project detected (%d components); using entity-based clustering", len(rest))
			working = entityBased(rest, cfg)
		} else {
			working = businessResponsibility(domainGroups, cfg)
			if !passesFallbackChecks(working, len(rest)) {
				logging.ClusterDebug("business-responsibility partition failed fallback checks; retrying domain-based")
				working = domainBased(domainGroups, rest, cfg)
				if len(working) < 2 {
					logging.ClusterDebug("domain-based partition still under 2 clusters; falling back to entity-based")
					working = entityBased(rest, cfg)
				}
			}
		}
	}

	return finalize(working, infra)
}

// --- infrastructure pooling ---

func partitionInfra(components []graph.Component, cfg *config.Config) (infra, rest []graph.Component) {
	for _, c := range components {
		if isInfraComponent(c, cfg) {
			infra = append(infra, c)
		} else {
			rest = append(rest, c)
		}
	}
	return infra, rest
}

func isInfraComponent(c graph.Component, cfg *config.Config) bool {
	simple := strings.ToLower(c.SimpleName())
	pkg := strings.ToLower(c.PackagePath())
	for _, kw := range cfg.InfraClassifierKeywords {
		kw = strings.ToLower(kw)
		if kw == "" {
			continue
		}
		if strings.Contains(simple, kw) || strings.Contains(pkg, "."+kw+".") {
			return true
		}
	}
	return false
}

// --- domain grouping ---

func groupByDomain(components []graph.Component) map[string][]graph.Component {
	groups := make(map[string][]graph.Component)
	for _, c := range components {
		groups[c.Domain] = append(groups[c.Domain], c)
	}
	return groups
}

func isSingleDomainProject(domainGroups map[string][]graph.Component, total int) bool {
	if total == 0 {
		return false
	}
	largest := 0
	for _, members := range domainGroups {
		if len(members) > largest {
			largest = len(members)
		}
	}
	return float64(largest) > singleDomainThreshold*float64(total)
}

func sortedDomainKeys(domainGroups map[string][]graph.Component) []string {
	keys := make([]string, 0, len(domainGroups))
	for k := range domainGroups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// --- entity-based branch ---

func entityBased(components []graph.Component, cfg *config.Config) []workingCluster {
	var entities, others []graph.Component
	for _, c := range components {
		if isEntity(c) {
			entities = append(entities, c)
		} else {
			others = append(others, c)
		}
	}

	if len(entities) == 0 {
		return []workingCluster{{Members: components}}
	}

	sort.Slice(entities, func(i, j int) bool { return entities[i].ID < entities[j].ID })

	clusters := make([]workingCluster, len(entities))
	baseNames := make([]string, len(entities))
	for i, e := range entities {
		clusters[i] = workingCluster{Members: []graph.Component{e}}
		baseNames[i] = entityBaseName(e.SimpleName())
	}

	var unassigned []graph.Component
	for _, o := range others {
		lower := strings.ToLower(o.SimpleName())
		assigned := false
		for i, bn := range baseNames {
			if bn != "" && strings.Contains(lower, bn) {
				clusters[i].Members = append(clusters[i].Members, o)
				assigned = true
				break
			}
		}
		if !assigned {
			unassigned = append(unassigned, o)
		}
	}
	if len(unassigned) > 0 {
		clusters[0].Members = append(clusters[0].Members, unassigned...)
	}
	return clusters
}

func isEntity(c graph.Component) bool {
	lower := strings.ToLower(c.SimpleName())
	if strings.HasSuffix(lower, "entity") {
		return true
	}
	return len(c.TablesUsed) > 0 && !strings.Contains(lower, "repository") && !strings.Contains(lower, "service")
}

func entityBaseName(simpleName string) string {
	lower := strings.ToLower(simpleName)
	for _, suffix := range []string{"entity", "model", "data"} {
		lower = strings.TrimSuffix(lower, suffix)
	}
	return lower
}

// --- business-responsibility branch ---

func businessResponsibility(domainGroups map[string][]graph.Component, cfg *config.Config) []workingCluster {
	var clusters []workingCluster
	for _, domain := range sortedDomainKeys(domainGroups) {
		clusters = append(clusters, clusterDomain(domainGroups[domain], cfg)...)
	}
	return clusters
}

func clusterDomain(members []graph.Component, cfg *config.Config) []workingCluster {
	tokenGroups := make(map[string][]graph.Component)
	var dataObjects []graph.Component

	for _, m := range members {
		if tok, ok := tokens.BusinessFunctionToken(m.SimpleName(), cfg); ok {
			key := strings.ToLower(tok)
			tokenGroups[key] = append(tokenGroups[key], m)
		} else {
			dataObjects = append(dataObjects, m)
		}
	}

	if len(tokenGroups) <= 1 {
		return []workingCluster{{Members: members}}
	}

	tokenKeys := make([]string, 0, len(tokenGroups))
	for k := range tokenGroups {
		tokenKeys = append(tokenKeys, k)
	}
	sort.Strings(tokenKeys)

	domainClusters := make([]workingCluster, len(tokenKeys))
	for i, tok := range tokenKeys {
		domainClusters[i] = workingCluster{Members: tokenGroups[tok]}
	}

	for _, d := range dataObjects {
		lower := strings.ToLower(d.SimpleName())
		assigned := false
		for i, tok := range tokenKeys {
			if tok != "" && strings.Contains(lower, tok) {
				domainClusters[i].Members = append(domainClusters[i].Members, d)
				assigned = true
				break
			}
		}
		if !assigned {
			largest := indexOfLargest(domainClusters)
			domainClusters[largest].Members = append(domainClusters[largest].Members, d)
		}
	}

	return consolidateSingletons(domainClusters, cfg)
}

func indexOfLargest(clusters []workingCluster) int {
	best := 0
	for i, c := range clusters {
		if c.size() > clusters[best].size() {
			best = i
		}
	}
	return best
}

// consolidateSingletons merges a singleton cluster into the domain's
// largest cluster when its sole member is a data-only object, or when the
// largest cluster already has at least three members (§4.2).
func consolidateSingletons(clusters []workingCluster, cfg *config.Config) []workingCluster {
	if len(clusters) < 2 {
		return clusters
	}
	largestIdx := indexOfLargest(clusters)
	largestSize := clusters[largestIdx].size()

	var kept []workingCluster
	for i, cl := range clusters {
		if i == largestIdx {
			continue
		}
		if cl.size() == 1 {
			sole := cl.Members[0]
			if tokens.IsDataObject(sole.SimpleName(), cfg) || largestSize >= 3 {
				clusters[largestIdx].Members = append(clusters[largestIdx].Members, sole)
				continue
			}
		}
		kept = append(kept, cl)
	}
	return append([]workingCluster{clusters[largestIdx]}, kept...)
}

// --- fallback cascade ---

func passesFallbackChecks(clusters []workingCluster, total int) bool {
	if len(clusters) < 2 {
		return false
	}
	for _, cl := range clusters {
		if float64(cl.size()) > halfShareLimit*float64(total) {
			return false
		}
		domains := make(map[string]bool)
		for _, m := range cl.Members {
			if m.Domain != "" {
				domains[m.Domain] = true
			}
		}
		if len(domains) > 1 {
			return false
		}
	}
	return true
}

// domainBased assigns one cluster per domain, routing components with no
// inferred domain to the domain cluster whose members share the longest
// common package-path prefix (§4.2 closing paragraph).
func domainBased(domainGroups map[string][]graph.Component, all []graph.Component, cfg *config.Config) []workingCluster {
	keys := sortedDomainKeys(domainGroups)
	var namedKeys []string
	for _, k := range keys {
		if k != "" {
			namedKeys = append(namedKeys, k)
		}
	}
	if len(namedKeys) == 0 {
		return []workingCluster{{Members: all}}
	}

	clusters := make([]workingCluster, len(namedKeys))
	for i, k := range namedKeys {
		clusters[i] = workingCluster{Members: domainGroups[k]}
	}

	for _, remainder := range domainGroups[""] {
		best := 0
		bestLen := -1
		for i, cl := range clusters {
			for _, m := range cl.Members {
				l := commonPrefixLen(remainder.PackagePath(), m.PackagePath())
				if l > bestLen {
					bestLen = l
					best = i
				}
			}
		}
		clusters[best].Members = append(clusters[best].Members, remainder)
	}
	return clusters
}

func commonPrefixLen(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

// --- finalize ---

func finalize(working []workingCluster, infra []graph.Component) []graph.Cluster {
	all := working
	if len(infra) > 0 {
		all = append(all, workingCluster{Members: infra})
	}

	for i := range all {
		sort.Slice(all[i].Members, func(a, b int) bool { return all[i].Members[a].ID < all[i].Members[b].ID })
	}
	sort.Slice(all, func(i, j int) bool {
		if len(all[i].Members) == 0 || len(all[j].Members) == 0 {
			return len(all[i].Members) > len(all[j].Members)
		}
		return all[i].Members[0].ID < all[j].Members[0].ID
	})

	result := make([]graph.Cluster, 0, len(all))
	for i, wc := range all {
		ids := make([]string, len(wc.Members))
		for j, m := range wc.Members {
			ids[j] = m.ID
		}
		result = append(result, graph.Cluster{
			ClusterID:      i,
			Members:        ids,
			RulesFired:     graph.NewStringSet(),
			SourceClusters: []int{i},
		})
	}
	logging.Cluster("produced %d initial clusters", len(result))
	return result
}
