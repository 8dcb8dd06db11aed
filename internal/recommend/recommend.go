// Package recommend implements RecommendationEngine (spec §4.9): the
// top-level orchestration that runs every earlier phase over a
// DependencyGraph and assembles the final Architecture artifact -
// classifying each consolidated cluster as a support library or a
// business-service proposal, filtering stray infrastructure members out
// of business proposals into a synthetic support library, scoring every
// proposal's viability, and aggregating project-wide metadata.
package recommend

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/raalzate/archdecomp/internal/cluster"
	"github.com/raalzate/archdecomp/internal/config"
	"github.com/raalzate/archdecomp/internal/consolidate"
	"github.com/raalzate/archdecomp/internal/externalcoord"
	"github.com/raalzate/archdecomp/internal/graph"
	"github.com/raalzate/archdecomp/internal/intercluster"
	"github.com/raalzate/archdecomp/internal/layer"
	"github.com/raalzate/archdecomp/internal/logging"
	"github.com/raalzate/archdecomp/internal/metrics"
	"github.com/raalzate/archdecomp/internal/naming"
	"github.com/raalzate/archdecomp/internal/viability"
)

// filteredInfraLibraryName is the synthetic support library every
// business cluster's stray infrastructure members are routed into (§4.9
// step 3).
const filteredInfraLibraryName = "Infraestructura y Configuración Filtrada"

// Run executes the full nine-phase pipeline over g and returns the
// Architecture artifact. knownExternalCoordinates may be nil; it is the
// caller-supplied map of already-resolved external dependency
// coordinates that externalcoord.Merge augments with every unresolved
// dependency name the graph itself references.
func Run(ctx context.Context, g *graph.DependencyGraph, cfg *config.Config, knownExternalCoordinates map[string]string) (graph.ArchitectureArtifact, error) {
	g.Index()
	layer.ClassifyAll(g, cfg)

	initial := cluster.Run(g, cfg)
	metrics.Compute(initial, g)
	preMergeByID := make(map[int]graph.Cluster, len(initial))
	for _, c := range initial {
		preMergeByID[c.ClusterID] = c
	}

	edges, err := intercluster.Build(ctx, initial, g, cfg)
	if err != nil {
		return graph.ArchitectureArtifact{}, fmt.Errorf("build inter-cluster graph: %w", err)
	}

	consolidated := consolidate.Run(initial, edges, g, cfg)

	proposals, supportLibs := classify(consolidated, preMergeByID, g, cfg)

	sort.Slice(proposals, func(i, j int) bool { return proposals[i].sortKey < proposals[j].sortKey })
	sort.Slice(supportLibs, func(i, j int) bool { return supportLibs[i].sortKey < supportLibs[j].sortKey })

	artifact := graph.ArchitectureArtifact{
		ProjectMetadata:  projectMetadata(g, knownExternalCoordinates),
		Proposals:        toProposals(proposals),
		SupportLibraries: toSupportLibraries(supportLibs),
		Summary:          summaryOf(proposals, supportLibs),
	}
	logging.Recommend("produced %d proposals and %d support libraries", len(proposals), len(supportLibs))
	return artifact, nil
}

// orderedProposal/orderedSupportLibrary carry a deterministic sort key
// derived from the originating cluster, independent of the randomly
// generated uuid each carries as its public ID.
type orderedProposal struct {
	sortKey string
	value   graph.Proposal
}

type orderedSupportLibrary struct {
	sortKey string
	value   graph.SupportLibrary
}

func classify(consolidated []graph.Cluster, preMergeByID map[int]graph.Cluster, g *graph.DependencyGraph, cfg *config.Config) ([]orderedProposal, []orderedSupportLibrary) {
	var proposals []orderedProposal
	var supportLibs []orderedSupportLibrary
	var filteredInfraMembers []string
	var filteredInfraClusterIDs []int

	for _, c := range consolidated {
		members := membersOf(c, g)
		srcIDs := sourceClustersOf(c)
		if isSupportGroup(members, cfg) {
			name, _ := naming.Generate(members, cfg)
			supportLibs = append(supportLibs, orderedSupportLibrary{
				sortKey: sortKeyOf(c),
				value: graph.SupportLibrary{
					ID:       uuid.NewString(),
					Name:     name,
					Clusters: srcIDs,
					Members:  append([]string(nil), c.Members...),
				},
			})
			continue
		}

		businessMembers, infraMembers := partitionInfra(members, cfg)
		if len(infraMembers) > 0 {
			for _, m := range infraMembers {
				filteredInfraMembers = append(filteredInfraMembers, m.ID)
			}
			filteredInfraClusterIDs = append(filteredInfraClusterIDs, srcIDs...)
		}

		filtered := filteredCluster(c, businessMembers)
		metrics.Compute([]graph.Cluster{filtered}, g)
		result := viability.Score(filtered, preMergeByID, g, cfg)
		name, _ := naming.Generate(businessMembers, cfg)

		proposals = append(proposals, orderedProposal{
			sortKey: sortKeyOf(c),
			value:   buildProposal(filtered, srcIDs, businessMembers, name, result),
		})
	}

	if len(filteredInfraMembers) > 0 {
		sort.Strings(filteredInfraMembers)
		filteredInfraClusterIDs = dedupeInts(filteredInfraClusterIDs)
		supportLibs = append(supportLibs, orderedSupportLibrary{
			sortKey: filteredInfraMembers[0],
			value: graph.SupportLibrary{
				ID:       uuid.NewString(),
				Name:     filteredInfraLibraryName,
				Clusters: filteredInfraClusterIDs,
				Members:  filteredInfraMembers,
			},
		})
	}

	return proposals, supportLibs
}

func sortKeyOf(c graph.Cluster) string {
	if len(c.Members) == 0 {
		return ""
	}
	return c.Members[0]
}

func isSupportGroup(members []graph.Component, cfg *config.Config) bool {
	if len(members) == 0 {
		return false
	}
	infra := 0
	for _, m := range members {
		if naming.IsInfra(m, cfg) {
			infra++
		}
	}
	return float64(infra)/float64(len(members)) >= cfg.Consolidation.SupportRatio
}

func partitionInfra(members []graph.Component, cfg *config.Config) (business, infra []graph.Component) {
	for _, m := range members {
		if naming.IsInfra(m, cfg) {
			infra = append(infra, m)
		} else {
			business = append(business, m)
		}
	}
	return business, infra
}

// sourceClustersOf returns every pre-consolidation cluster_id absorbed
// into c, falling back to c's own id for a cluster that was never
// touched by ClusterConsolidator (e.g. in tests that build a Cluster by
// hand without going through consolidate.Run).
func sourceClustersOf(c graph.Cluster) []int {
	if len(c.SourceClusters) > 0 {
		return append([]int(nil), c.SourceClusters...)
	}
	return []int{c.ClusterID}
}

func dedupeInts(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

func filteredCluster(original graph.Cluster, members []graph.Component) graph.Cluster {
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	sort.Strings(ids)
	return graph.Cluster{ClusterID: original.ClusterID, Members: ids, RulesFired: original.RulesFired, SourceClusters: original.SourceClusters}
}

func buildProposal(c graph.Cluster, sourceClusters []int, members []graph.Component, name string, result viability.Result) graph.Proposal {
	union := graph.NewStringSet()
	for _, m := range members {
		for _, t := range m.TablesUsed.Sorted() {
			union.Add(t)
		}
	}
	dataJaccard := 0.0
	if len(c.Metrics.TablesShared) > 0 {
		dataJaccard = 0.8
	}

	return graph.Proposal{
		ID:         uuid.NewString(),
		Name:       name,
		Viability:  result.Tier,
		Score:      result.Score,
		Clusters:   sourceClusters,
		Components: c.Members,
		Metrics: graph.ProposalMetrics{
			Size:                c.Size(),
			CohesionAvg:         c.Metrics.Cohesion,
			ExternalCoupling:    c.Metrics.Coupling,
			InternalEdgeDensity: result.InternalEdgeDensity,
			DataJaccard:         dataJaccard,
			Tables:              union.Sorted(),
			Sensitive:           c.Metrics.Sensitive,
		},
		Signals: graph.ProposalSignals{
			ClusterCount:    len(sourceClusters),
			TotalComponents: c.Size(),
			AvgClusterSize:  float64(c.Size()) / float64(maxInt(len(sourceClusters), 1)),
		},
		Rationale: result.Rationale,
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func toProposals(ordered []orderedProposal) []graph.Proposal {
	out := make([]graph.Proposal, len(ordered))
	for i, o := range ordered {
		out[i] = o.value
	}
	return out
}

func toSupportLibraries(ordered []orderedSupportLibrary) []graph.SupportLibrary {
	out := make([]graph.SupportLibrary, len(ordered))
	for i, o := range ordered {
		out[i] = o.value
	}
	return out
}

func summaryOf(proposals []orderedProposal, supportLibs []orderedSupportLibrary) graph.Summary {
	s := graph.Summary{
		TotalProposals:        len(proposals),
		TotalSupportLibraries: len(supportLibs),
	}
	for _, p := range proposals {
		switch p.value.Viability {
		case graph.ViabilityHigh:
			s.HighViability++
		case graph.ViabilityMedium:
			s.MediumViability++
		default:
			s.LowViability++
		}
	}
	return s
}

func projectMetadata(g *graph.DependencyGraph, known map[string]string) graph.ProjectMetadata {
	totalLOC := 0
	secrets := 0
	domains := graph.NewStringSet()
	packageGroups := make(map[string][]graph.Component)

	for _, c := range g.Components {
		totalLOC += c.LOC
		if c.SecretsReferences != "" {
			secrets++
		}
		if c.Domain != "" {
			domains.Add(c.Domain)
		}
		packageGroups[c.PackagePath()] = append(packageGroups[c.PackagePath()], c)
	}

	packageDeps := make(map[string]graph.PackageDependencySummary, len(packageGroups))
	for pkg, members := range packageGroups {
		out := graph.NewStringSet()
		total := 0
		for _, m := range members {
			total += len(m.CallsOut)
			for _, callee := range m.CallsOut.Sorted() {
				if target, ok := g.ComponentByID(callee); ok && target.PackagePath() != pkg {
					out.Add(target.PackagePath())
				}
			}
		}
		packageDeps[pkg] = graph.PackageDependencySummary{
			ComponentsCount:      len(members),
			TotalDependenciesOut: total,
			DependsOnPackages:    out.Sorted(),
		}
	}

	sharedDomain := ""
	if len(domains) == 1 {
		sharedDomain = domains.Sorted()[0]
	}

	return graph.ProjectMetadata{
		ExternalDependencies:  externalcoord.Merge(known, g),
		PackageDependencies:   packageDeps,
		TotalComponents:       len(g.Components),
		TotalLOC:              totalLOC,
		ComponentsWithSecrets: secrets,
		SharedDomain:          sharedDomain,
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
