package externalcoord

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/raalzate/archdecomp/internal/graph"
)

func TestMerge_KeepsKnownCoordinatesAndAddsUnresolved(t *testing.T) {
	g := &graph.DependencyGraph{Components: []graph.Component{
		{ID: "a.Foo", ExternalDependencies: graph.NewStringSet("com.fasterxml.jackson", "org.springframework")},
	}}
	known := map[string]string{"org.springframework": "org.springframework:spring-core:5.3.0"}

	merged := Merge(known, g)
	assert.Equal(t, "org.springframework:spring-core:5.3.0", merged["org.springframework"])
	assert.Equal(t, "com.fasterxml.jackson", merged["com.fasterxml.jackson"])
}

func TestMerge_DoesNotMutateKnown(t *testing.T) {
	g := &graph.DependencyGraph{Components: []graph.Component{
		{ID: "a.Foo", ExternalDependencies: graph.NewStringSet("com.example")},
	}}
	known := map[string]string{}
	_ = Merge(known, g)
	assert.Empty(t, known)
}
