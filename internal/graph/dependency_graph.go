package graph

// GraphMeta augments a DependencyGraph with the producer-contract
// metadata named in §6: a source tag, an ISO-8601 collection timestamp,
// and the two accuracy-metric maps the ingester/serializer attach. The
// core never reads or writes these; they pass through untouched.
type GraphMeta struct {
	Source              string             `json:"source"`
	CollectedAt          string             `json:"collected_at"`
	DependencyAccuracy   map[string]float64 `json:"dependency_accuracy,omitempty"`
	DecompositionAccuracy map[string]float64 `json:"decomposition_accuracy,omitempty"`
}

// DependencyGraph is the ordered sequence of Components and Edges the
// core consumes, plus aggregate metadata. The producer contract (§6)
// guarantees referential closure: every from/to id in Edges names a
// Component, and calls_out/calls_in are mutually consistent with Edges.
type DependencyGraph struct {
	Components []Component `json:"components"`
	Edges      []Edge      `json:"edges"`
	Meta       GraphMeta   `json:"meta"`

	byID    map[string]*Component
	outFrom map[string][]Edge
	inTo    map[string][]Edge
}

// Index builds the lookup structures used by every later phase. It is
// idempotent and cheap to call more than once; phases that need O(1)
// lookups call it lazily via the accessor methods below.
func (g *DependencyGraph) Index() {
	g.byID = make(map[string]*Component, len(g.Components))
	for i := range g.Components {
		g.byID[g.Components[i].ID] = &g.Components[i]
	}
	g.outFrom = make(map[string][]Edge, len(g.Components))
	g.inTo = make(map[string][]Edge, len(g.Components))
	for _, e := range g.Edges {
		g.outFrom[e.From] = append(g.outFrom[e.From], e)
		g.inTo[e.To] = append(g.inTo[e.To], e)
	}
}

func (g *DependencyGraph) ensureIndex() {
	if g.byID == nil {
		g.Index()
	}
}

// ComponentByID returns the Component with the given id, or false if
// absent. Per §7, the core assumes referential closure and never needs
// to degrade this lookup, but a caller building a graph by hand (tests)
// may still probe for typos.
func (g *DependencyGraph) ComponentByID(id string) (*Component, bool) {
	g.ensureIndex()
	c, ok := g.byID[id]
	return c, ok
}

// EdgesFrom returns every edge whose source is id.
func (g *DependencyGraph) EdgesFrom(id string) []Edge {
	g.ensureIndex()
	return g.outFrom[id]
}

// EdgesTo returns every edge whose target is id.
func (g *DependencyGraph) EdgesTo(id string) []Edge {
	g.ensureIndex()
	return g.inTo[id]
}
