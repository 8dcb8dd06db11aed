package intercluster

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/raalzate/archdecomp/internal/config"
	"github.com/raalzate/archdecomp/internal/graph"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testGraph() *graph.DependencyGraph {
	return &graph.DependencyGraph{
		Components: []graph.Component{
			{ID: "a.ItemService", TablesUsed: graph.NewStringSet("items")},
			{ID: "a.ItemRepository", TablesUsed: graph.NewStringSet("items")},
			{ID: "b.OrderService", TablesUsed: graph.NewStringSet("items", "orders")},
			{ID: "b.OrderRepository", TablesUsed: graph.NewStringSet("orders")},
		},
		Edges: []graph.Edge{
			{From: "a.ItemService", To: "b.OrderService", Weight: 1, Types: []graph.EdgeType{graph.EdgeCall}},
		},
	}
}

func TestBuild_OnlyPairsAboveThresholdBecomeEdges(t *testing.T) {
	cfg := config.DefaultConfig()
	g := testGraph()
	clusters := []graph.Cluster{
		{ClusterID: 0, Members: []string{"a.ItemService", "a.ItemRepository"}},
		{ClusterID: 1, Members: []string{"b.OrderService", "b.OrderRepository"}},
	}
	edges, err := Build(context.Background(), clusters, g, cfg)
	require.NoError(t, err)
	for _, e := range edges {
		assert.Greater(t, e.Score, minEvidenceScore)
	}
}

func TestBuild_EdgeOrderingIsDeterministic(t *testing.T) {
	cfg := config.DefaultConfig()
	g := testGraph()
	clusters := []graph.Cluster{
		{ClusterID: 0, Members: []string{"a.ItemService", "a.ItemRepository"}},
		{ClusterID: 1, Members: []string{"b.OrderService", "b.OrderRepository"}},
	}
	e1, err1 := Build(context.Background(), clusters, g, cfg)
	e2, err2 := Build(context.Background(), clusters, g, cfg)
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, e1, e2)
}

func TestStrongSignalCount_CountsSignalsAboveThreshold(t *testing.T) {
	cfg := config.DefaultConfig()
	e := Edge{TableJaccard: 0.5, CallDensity: 0.1, TokenSimilarity: 0.7}
	assert.Equal(t, 2, StrongSignalCount(e, cfg))
}

func TestCallDensityOf_MatchesCrossOverHalfInternalFormula(t *testing.T) {
	// 5 internal call edges (4 inside A, 1 inside B) and 1 cross edge:
	// density = 1/(0.5*5) = 0.4.
	g := &graph.DependencyGraph{
		Components: []graph.Component{
			{ID: "a.One"}, {ID: "a.Two"}, {ID: "a.Three"}, {ID: "b.One"}, {ID: "b.Two"},
		},
		Edges: []graph.Edge{
			{From: "a.One", To: "a.Two", Weight: 1, Types: []graph.EdgeType{graph.EdgeCall}},
			{From: "a.Two", To: "a.Three", Weight: 1, Types: []graph.EdgeType{graph.EdgeCall}},
			{From: "a.Three", To: "a.One", Weight: 1, Types: []graph.EdgeType{graph.EdgeCall}},
			{From: "a.One", To: "a.Three", Weight: 1, Types: []graph.EdgeType{graph.EdgeCall}},
			{From: "b.One", To: "b.Two", Weight: 1, Types: []graph.EdgeType{graph.EdgeCall}},
			{From: "a.One", To: "b.One", Weight: 1, Types: []graph.EdgeType{graph.EdgeCall}},
		},
	}
	a := graph.Cluster{ClusterID: 0, Members: []string{"a.One", "a.Two", "a.Three"}}
	b := graph.Cluster{ClusterID: 1, Members: []string{"b.One", "b.Two"}}
	assert.InDelta(t, 0.4, callDensityOf(a, b, g), 1e-9)
}

func TestBuild_ScoresSymmetricRegardlessOfClusterOrder(t *testing.T) {
	cfg := config.DefaultConfig()
	g := testGraph()
	a := graph.Cluster{ClusterID: 0, Members: []string{"a.ItemService", "a.ItemRepository"}}
	b := graph.Cluster{ClusterID: 1, Members: []string{"b.OrderService", "b.OrderRepository"}}

	edgesAB, err := Build(context.Background(), []graph.Cluster{a, b}, g, cfg)
	require.NoError(t, err)
	edgesBA, err := Build(context.Background(), []graph.Cluster{b, a}, g, cfg)
	require.NoError(t, err)

	require.Len(t, edgesAB, 1)
	require.Len(t, edgesBA, 1)
	assert.InDelta(t, edgesAB[0].Score, edgesBA[0].Score, 1e-9)
}
