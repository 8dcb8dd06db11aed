package consolidate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raalzate/archdecomp/internal/config"
	"github.com/raalzate/archdecomp/internal/graph"
	"github.com/raalzate/archdecomp/internal/intercluster"
)

func TestRun_StrongEvidenceMergesTwoClusters(t *testing.T) {
	cfg := config.DefaultConfig()
	g := &graph.DependencyGraph{Components: []graph.Component{
		{ID: "a.ItemService", Domain: "billing"},
		{ID: "b.ItemHelper", Domain: "billing"},
	}}
	clusters := []graph.Cluster{
		{ClusterID: 0, Members: []string{"a.ItemService"}},
		{ClusterID: 1, Members: []string{"b.ItemHelper"}},
	}
	edges := []intercluster.Edge{
		{A: 0, B: 1, TableJaccard: 0.5, CallDensity: 0.5, TokenSimilarity: 0.8, Score: 0.9},
	}
	result := Run(clusters, edges, g, cfg)
	require.Len(t, result, 1)
	assert.ElementsMatch(t, []string{"a.ItemService", "b.ItemHelper"}, result[0].Members)
	assert.ElementsMatch(t, []int{0, 1}, result[0].SourceClusters)
}

func TestRun_WeakEvidenceDoesNotMerge(t *testing.T) {
	cfg := config.DefaultConfig()
	g := &graph.DependencyGraph{Components: []graph.Component{
		{ID: "a.ItemService"},
		{ID: "b.OrderService"},
	}}
	clusters := []graph.Cluster{
		{ClusterID: 0, Members: []string{"a.ItemService"}},
		{ClusterID: 1, Members: []string{"b.OrderService"}},
	}
	edges := []intercluster.Edge{
		{A: 0, B: 1, Score: 0.2},
	}
	result := Run(clusters, edges, g, cfg)
	assert.Len(t, result, 2)
}

func TestRun_StrongCandidateAloneDoesNotBlockMerge(t *testing.T) {
	// Only side A is a strong candidate (size 3, cohesion 0.9, coupling
	// 0.1); the §4.5 protection requires BOTH sides to be strong
	// candidates, so this merge must still go through.
	cfg := config.DefaultConfig()
	g := &graph.DependencyGraph{Components: []graph.Component{
		{ID: "a.ItemService"}, {ID: "a.ItemRepository"}, {ID: "a.ItemValidator"},
		{ID: "b.OrderService"},
	}}
	clusters := []graph.Cluster{
		{ClusterID: 0, Members: []string{"a.ItemService", "a.ItemRepository", "a.ItemValidator"}, Metrics: graph.ClusterMetrics{Cohesion: 0.9, Coupling: 0.1}},
		{ClusterID: 1, Members: []string{"b.OrderService"}},
	}
	edges := []intercluster.Edge{
		{A: 0, B: 1, TableJaccard: 0.5, CallDensity: 0.5, TokenSimilarity: 0.8, Score: 0.9},
	}
	result := Run(clusters, edges, g, cfg)
	require.Len(t, result, 1)
}

func TestRun_BothStrongCandidatesWithWeakSignalsBlocksMerge(t *testing.T) {
	// Both sides are strong candidates AND both callDensity and
	// tableJaccard fall below their ceilings: the §4.5 strong-candidate
	// protection blocks the merge. MinStrongSignals is relaxed to 1 here
	// to isolate this guardrail from the separate strong-evidence gate,
	// since table/call must stay low by construction.
	cfg := config.DefaultConfig()
	cfg.Consolidation.MinStrongSignals = 1
	g := &graph.DependencyGraph{Components: []graph.Component{
		{ID: "a.ItemService"}, {ID: "a.ItemRepository"}, {ID: "a.ItemValidator"},
		{ID: "b.OrderService"}, {ID: "b.OrderRepository"}, {ID: "b.OrderValidator"},
	}}
	clusters := []graph.Cluster{
		{ClusterID: 0, Members: []string{"a.ItemService", "a.ItemRepository", "a.ItemValidator"}, Metrics: graph.ClusterMetrics{Cohesion: 0.9, Coupling: 0.1}},
		{ClusterID: 1, Members: []string{"b.OrderService", "b.OrderRepository", "b.OrderValidator"}, Metrics: graph.ClusterMetrics{Cohesion: 0.8, Coupling: 0.2}},
	}
	edges := []intercluster.Edge{
		{A: 0, B: 1, TableJaccard: 0.1, CallDensity: 0.1, TokenSimilarity: 0.8, Score: 0.9},
	}
	result := Run(clusters, edges, g, cfg)
	assert.Len(t, result, 2)
}

func TestRun_NameCollisionMergesClustersInPhaseZero(t *testing.T) {
	cfg := config.DefaultConfig()
	g := &graph.DependencyGraph{Components: []graph.Component{
		{ID: "a.config.AppConfigOne"},
		{ID: "b.config.AppConfigTwo"},
	}}
	clusters := []graph.Cluster{
		{ClusterID: 0, Members: []string{"a.config.AppConfigOne"}},
		{ClusterID: 1, Members: []string{"b.config.AppConfigTwo"}},
	}
	result := Run(clusters, nil, g, cfg)
	require.Len(t, result, 1)
	assert.ElementsMatch(t, []string{"a.config.AppConfigOne", "b.config.AppConfigTwo"}, result[0].Members)
}
