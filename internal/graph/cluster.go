package graph

// ClusterMetrics holds the per-Cluster measurements ClusterMetricsCalculator
// computes (§4.3).
type ClusterMetrics struct {
	Cohesion      float64   `json:"cohesion"`
	Coupling      float64   `json:"coupling"`
	TablesShared  StringSet `json:"tables_shared,omitempty"`
	Sensitive     bool      `json:"sensitive"`
	LOC           int       `json:"loc"`
}

// Cluster is a group of Components produced by the initial partitioning
// algorithm (§4.2) and subsequently annotated with metrics and fired
// guardrail/merge rule names.
type Cluster struct {
	ClusterID  int            `json:"cluster_id"`
	Members    []string       `json:"members"`
	Metrics    ClusterMetrics `json:"metrics"`
	RulesFired StringSet      `json:"rules_fired,omitempty"`
	FinalScore float64        `json:"final_score"`

	// SourceClusters names every pre-consolidation cluster_id absorbed
	// into this one by ClusterConsolidator (§4.5-§4.6). A cluster that
	// was never merged carries only its own id here. RecommendationEngine
	// copies this, not ClusterID alone, into a Proposal/SupportLibrary's
	// plural "clusters" field.
	SourceClusters []int `json:"source_clusters,omitempty"`
}

// Size returns the member count.
func (c Cluster) Size() int { return len(c.Members) }

// MemberSet returns Members as a StringSet for set arithmetic.
func (c Cluster) MemberSet() StringSet {
	return NewStringSet(c.Members...)
}
