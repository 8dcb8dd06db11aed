package viability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/raalzate/archdecomp/internal/config"
	"github.com/raalzate/archdecomp/internal/graph"
)

func TestScore_EmptyClusterIsBajaWithFixedRationale(t *testing.T) {
	cfg := config.DefaultConfig()
	g := &graph.DependencyGraph{}
	r := Score(graph.Cluster{}, nil, g, cfg)
	assert.Equal(t, graph.ViabilityLow, r.Tier)
	assert.Equal(t, 0.0, r.Score)
	assert.Equal(t, []string{"No se encontraron clusters válidos"}, r.Rationale)
}

func TestScore_SmallClusterSizePenaltyApplied(t *testing.T) {
	// No internal call edges, so internalEdgeDensity is 0 and
	// weightedAvgCohesion falls back to this cluster's own Cohesion
	// (SourceClusters unset): cohesionAdj = 0.7*1.0 + 0.3*0 = 0.7.
	cfg := config.DefaultConfig()
	g := &graph.DependencyGraph{Components: []graph.Component{
		{ID: "a.Foo"}, {ID: "a.Bar"},
	}}
	c := graph.Cluster{
		ClusterID: 0,
		Members:   []string{"a.Foo", "a.Bar"},
		Metrics:   graph.ClusterMetrics{Cohesion: 1.0, Coupling: 0.0},
	}
	cohesionAdj := 0.7
	withoutPenalty := cfg.Viability.CohesionWeight*cohesionAdj + cfg.Viability.CouplingWeight*1.0
	r := Score(c, nil, g, cfg)
	assert.InDelta(t, withoutPenalty*cfg.Viability.SmallSizePenalty, r.Score, 1e-6)
}

func TestScore_HighCohesionLowCouplingYieldsAltaTier(t *testing.T) {
	cfg := config.DefaultConfig()
	g := &graph.DependencyGraph{Components: []graph.Component{
		{ID: "a.Foo"}, {ID: "a.Bar"}, {ID: "a.Baz"},
	}}
	c := graph.Cluster{
		ClusterID: 0,
		Members:   []string{"a.Foo", "a.Bar", "a.Baz"},
		Metrics:   graph.ClusterMetrics{Cohesion: 1.0, Coupling: 0.0},
	}
	r := Score(c, nil, g, cfg)
	assert.Equal(t, graph.ViabilityHigh, r.Tier)
}

func TestScore_LowTierIncludesFailureReason(t *testing.T) {
	cfg := config.DefaultConfig()
	g := &graph.DependencyGraph{Components: []graph.Component{
		{ID: "a.Foo"}, {ID: "a.Bar"}, {ID: "a.Baz"}, {ID: "a.Qux"},
	}}
	c := graph.Cluster{
		ClusterID: 0,
		Members:   []string{"a.Foo", "a.Bar", "a.Baz", "a.Qux"},
		Metrics:   graph.ClusterMetrics{Cohesion: 0.0, Coupling: 0.9},
	}
	r := Score(c, nil, g, cfg)
	assert.Equal(t, graph.ViabilityLow, r.Tier)
	assert.Contains(t, r.Rationale[len(r.Rationale)-1], "Razón principal")
}

func TestScore_WeightedAvgCohesionUsesPreMergeConstituents(t *testing.T) {
	// A merged group of two pre-merge clusters (sizes 3 and 1, cohesion
	// 0.9 and 0.1) should weight 0.9 three times as heavily as 0.1:
	// weightedAvgCohesion = (0.9*3 + 0.1*1)/4 = 0.7.
	cfg := config.DefaultConfig()
	g := &graph.DependencyGraph{Components: []graph.Component{
		{ID: "a.Foo"}, {ID: "a.Bar"}, {ID: "a.Baz"}, {ID: "b.Qux"},
	}}
	preMerge := map[int]graph.Cluster{
		0: {ClusterID: 0, Members: []string{"a.Foo", "a.Bar", "a.Baz"}, Metrics: graph.ClusterMetrics{Cohesion: 0.9}},
		1: {ClusterID: 1, Members: []string{"b.Qux"}, Metrics: graph.ClusterMetrics{Cohesion: 0.1}},
	}
	c := graph.Cluster{
		ClusterID:      2,
		Members:        []string{"a.Foo", "a.Bar", "a.Baz", "b.Qux"},
		SourceClusters: []int{0, 1},
		Metrics:        graph.ClusterMetrics{Cohesion: 0.5, Coupling: 0.1},
	}
	wantCohesionAdj := 0.7*0.7 + 0.3*0.0
	withoutPenalty := cfg.Viability.CohesionWeight*wantCohesionAdj + cfg.Viability.CouplingWeight*0.9
	r := Score(c, preMerge, g, cfg)
	assert.InDelta(t, withoutPenalty, r.Score, 1e-6)
}

func TestScore_InternalEdgeDensityCountsCallEdgesWithinGroup(t *testing.T) {
	// n=3 members, 2 internal call edges -> density = 2/(3*2) = 1/3.
	cfg := config.DefaultConfig()
	g := &graph.DependencyGraph{
		Components: []graph.Component{{ID: "a.Foo"}, {ID: "a.Bar"}, {ID: "a.Baz"}},
		Edges: []graph.Edge{
			{From: "a.Foo", To: "a.Bar", Weight: 1, Types: []graph.EdgeType{graph.EdgeCall}},
			{From: "a.Bar", To: "a.Baz", Weight: 1, Types: []graph.EdgeType{graph.EdgeCall}},
		},
	}
	g.Index()
	c := graph.Cluster{
		ClusterID: 0,
		Members:   []string{"a.Foo", "a.Bar", "a.Baz"},
		Metrics:   graph.ClusterMetrics{Cohesion: 0.0, Coupling: 0.0},
	}
	wantCohesionAdj := 0.7*0.0 + 0.3*(2.0/6.0)
	withoutPenalty := cfg.Viability.CohesionWeight*wantCohesionAdj + cfg.Viability.CouplingWeight*1.0
	r := Score(c, nil, g, cfg)
	assert.InDelta(t, withoutPenalty, r.Score, 1e-6)
}
