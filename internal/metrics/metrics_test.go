package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/raalzate/archdecomp/internal/graph"
)

func TestCompute_CohesionIsShareOfOutgoingWeightThatStaysInternal(t *testing.T) {
	g := &graph.DependencyGraph{
		Components: []graph.Component{
			{ID: "a.Foo"}, {ID: "a.Bar"}, {ID: "b.Baz"},
		},
		Edges: []graph.Edge{
			{From: "a.Foo", To: "a.Bar", Weight: 3, Types: []graph.EdgeType{graph.EdgeCall}},
			{From: "a.Foo", To: "b.Baz", Weight: 1, Types: []graph.EdgeType{graph.EdgeCall}},
		},
	}
	clusters := []graph.Cluster{{ClusterID: 0, Members: []string{"a.Foo", "a.Bar"}}}
	Compute(clusters, g)

	assert.Equal(t, 0.75, clusters[0].Metrics.Cohesion)
	assert.Equal(t, 0.25, clusters[0].Metrics.Coupling)
	assert.LessOrEqual(t, clusters[0].Metrics.Cohesion+clusters[0].Metrics.Coupling, 1.0)
}

func TestCompute_CouplingCountsExternalEdges(t *testing.T) {
	g := &graph.DependencyGraph{
		Components: []graph.Component{
			{ID: "a.Foo"}, {ID: "b.Baz"},
		},
		Edges: []graph.Edge{
			{From: "a.Foo", To: "b.Baz", Weight: 1, Types: []graph.EdgeType{graph.EdgeCall}},
		},
	}
	clusters := []graph.Cluster{{ClusterID: 0, Members: []string{"a.Foo"}}}
	Compute(clusters, g)

	assert.Equal(t, 1.0, clusters[0].Metrics.Coupling)
}

func TestCompute_SingletonClusterHasZeroCohesionNotNaN(t *testing.T) {
	g := &graph.DependencyGraph{Components: []graph.Component{{ID: "a.Foo"}}}
	clusters := []graph.Cluster{{ClusterID: 0, Members: []string{"a.Foo"}}}
	Compute(clusters, g)
	assert.Equal(t, 0.0, clusters[0].Metrics.Cohesion)
	assert.Equal(t, 0.0, clusters[0].Metrics.Coupling)
}

func TestCompute_TablesSharedRequiresAtLeastTwoMembers(t *testing.T) {
	g := &graph.DependencyGraph{Components: []graph.Component{
		{ID: "a.Foo", TablesUsed: graph.NewStringSet("items")},
		{ID: "a.Bar", TablesUsed: graph.NewStringSet("items", "orders")},
	}}
	clusters := []graph.Cluster{{ClusterID: 0, Members: []string{"a.Foo", "a.Bar"}}}
	Compute(clusters, g)
	assert.True(t, clusters[0].Metrics.TablesShared.Has("items"))
	assert.False(t, clusters[0].Metrics.TablesShared.Has("orders"))
}

func TestCompute_SensitiveTrueIfAnyMemberIsSensitive(t *testing.T) {
	g := &graph.DependencyGraph{Components: []graph.Component{
		{ID: "a.Foo", SensitiveData: false},
		{ID: "a.Bar", SensitiveData: true},
	}}
	clusters := []graph.Cluster{{ClusterID: 0, Members: []string{"a.Foo", "a.Bar"}}}
	Compute(clusters, g)
	assert.True(t, clusters[0].Metrics.Sensitive)
}
