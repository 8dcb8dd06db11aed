// Package layer implements LayerClassifier (spec §4.1): a weighted vote
// over annotations, name patterns and package patterns, followed by a
// fixed sequence of disambiguation rules, written as conditional score
// adjustments in applyDisambiguation rather than as a subclass hierarchy.
package layer

import (
	"regexp"
	"strings"

	"github.com/raalzate/archdecomp/internal/config"
	"github.com/raalzate/archdecomp/internal/graph"
	"github.com/raalzate/archdecomp/internal/logging"
)

// priorityOrder breaks ties among equally-scored layers (§4.1).
var priorityOrder = []graph.Layer{
	graph.LayerWeb,
	graph.LayerController,
	graph.LayerBusiness,
	graph.LayerPersistence,
	graph.LayerDomain,
	graph.LayerTransfer,
	graph.LayerShared,
}

const (
	annotationWeight = 10
	nameWeight       = 5
	packageWeight    = 3
)

var nonControllerClientRe = regexp.MustCompile(`(?i)^(.*)(Consumer|Client|RestClient|HttpClient|FeignClient|WebClient)$`)
var transferNameRe = regexp.MustCompile(`(?i)(dto|request|response|payload)`)

// Classify assigns exactly one Layer to c.
func Classify(c graph.Component, cfg *config.Config) graph.Layer {
	scores := baseScores(c, cfg)
	applyDisambiguation(c, cfg, scores)

	best := graph.LayerShared
	bestScore := 0
	for _, l := range priorityOrder {
		if s := scores[l]; s > bestScore {
			bestScore = s
			best = l
		}
	}
	if bestScore == 0 {
		best = graph.LayerShared
	}
	logging.LayerDebug("classified %s as %s (score=%d)", c.ID, best, bestScore)
	return best
}

// ClassifyAll assigns a Layer to every Component in the graph, in place.
func ClassifyAll(g *graph.DependencyGraph, cfg *config.Config) {
	for i := range g.Components {
		g.Components[i].Layer = Classify(g.Components[i], cfg)
	}
}

func baseScores(c graph.Component, cfg *config.Config) map[graph.Layer]int {
	scores := make(map[graph.Layer]int, len(priorityOrder))
	simple := strings.ToLower(c.SimpleName())
	pkg := strings.ToLower(c.PackagePath())

	for name, rules := range cfg.Layers {
		l := graph.Layer(name)
		score := 0
		for _, ann := range rules.Annotations {
			if c.Annotations.Has(ann) {
				score += annotationWeight
			}
		}
		for _, sub := range rules.NameSubstrings {
			if strings.Contains(simple, strings.ToLower(sub)) {
				score += nameWeight
			}
		}
		for _, sub := range rules.PackageSubstrings {
			if strings.Contains(pkg, strings.ToLower(sub)) {
				score += packageWeight
			}
		}
		scores[l] = score
	}
	return scores
}

// isRESTAnnotated reports whether c carries any Controller/Web annotation,
// the "REST annotation" concept referenced by several disambiguation rules.
func isRESTAnnotated(c graph.Component, cfg *config.Config) bool {
	for _, ann := range cfg.Layers["Controller"].Annotations {
		if c.Annotations.Has(ann) {
			return true
		}
	}
	for _, ann := range cfg.Layers["Web"].Annotations {
		if c.Annotations.Has(ann) {
			return true
		}
	}
	return false
}

func isPersistenceInterface(c graph.Component) bool {
	simple := strings.ToLower(c.SimpleName())
	return c.IsInterface && (strings.Contains(simple, "repository") || strings.Contains(simple, "dao"))
}

func applyDisambiguation(c graph.Component, cfg *config.Config, scores map[graph.Layer]int) {
	simple := strings.ToLower(c.SimpleName())
	pkg := strings.ToLower(c.PackagePath())
	hasTables := len(c.TablesUsed) > 0

	if c.WebRole != "" {
		scores[graph.LayerWeb] += 20
	}

	if nonControllerClientRe.MatchString(c.SimpleName()) {
		scores[graph.LayerController] = 0
		scores[graph.LayerShared] += 8
	}

	if hasTables {
		scores[graph.LayerPersistence] += 15
		scores[graph.LayerDomain] -= 10
	}

	if strings.Contains(simple, "provider") && hasTables {
		scores[graph.LayerPersistence] += 20
		scores[graph.LayerShared] -= 10
		scores[graph.LayerBusiness] -= 5
	}

	if c.Annotations.Has("Entity") || c.Annotations.Has("Table") {
		scores[graph.LayerPersistence] += 10
		scores[graph.LayerDomain] = 0
	}

	if isPersistenceInterface(c) {
		scores[graph.LayerPersistence] += 10
		scores[graph.LayerBusiness] -= 5
	}

	if transferNameRe.MatchString(simple) && (strings.Contains(pkg, ".controller.") || strings.Contains(pkg, ".rest.") || strings.Contains(pkg, ".api.")) {
		scores[graph.LayerTransfer] += 8
		scores[graph.LayerDomain] -= 5
	}

	if (strings.Contains(simple, "model") || strings.Contains(simple, "domain") || strings.Contains(pkg, ".domain.")) && !hasTables {
		scores[graph.LayerDomain] += 5
	}

	if strings.Contains(pkg, ".services.") && !isRESTAnnotated(c, cfg) {
		scores[graph.LayerController] -= 3
		scores[graph.LayerBusiness] += 3
	}

	if c.IsInterface && !isRESTAnnotated(c, cfg) && !isPersistenceInterface(c) {
		scores[graph.LayerBusiness] += 5
		scores[graph.LayerController] -= 5
	}
}
