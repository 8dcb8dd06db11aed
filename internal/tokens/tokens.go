// Package tokens implements the two related but distinct token-extraction
// procedures the spec uses in several phases: a business function token
// (suffix-anchored, used by ClusteringAlgorithm, §4.2) and a domain token
// (substring-anchored, used by InterClusterGraph's token-similarity signal
// and by MicroserviceNameGenerator, §4.4.3 and §4.7). Keeping both in one
// package avoids three divergent reimplementations of "strip a role word
// off a class name".
package tokens

import (
	"sort"
	"strings"

	"github.com/raalzate/archdecomp/internal/config"
	"github.com/raalzate/archdecomp/internal/graph"
)

// BusinessFunctionToken extracts the prefix of simpleName before the first
// (longest-suffix-first) role keyword it ends with, e.g. "ItemServiceImpl"
// -> "Item". Components that end with no configured role keyword - data
// objects such as entities, DTOs and events - yield ok=false (§4.2).
func BusinessFunctionToken(simpleName string, cfg *config.Config) (token string, ok bool) {
	lower := strings.ToLower(simpleName)

	keywords := make([]string, len(cfg.RoleKeywords))
	copy(keywords, cfg.RoleKeywords)
	sort.SliceStable(keywords, func(i, j int) bool {
		return len(keywords[i]) > len(keywords[j])
	})

	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if kw == "" || !strings.HasSuffix(lower, kw) {
			continue
		}
		prefix := simpleName[:len(simpleName)-len(kw)]
		if prefix == "" {
			continue
		}
		return prefix, true
	}
	return "", false
}

// IsDataObject reports whether simpleName carries no business function
// token and therefore denotes a data-only type (entity, DTO, event,
// command, query, ...) for clustering purposes (§4.2).
func IsDataObject(simpleName string, cfg *config.Config) bool {
	_, ok := BusinessFunctionToken(simpleName, cfg)
	return !ok
}

// DomainTokens extracts the domain token(s) a Component contributes to
// inter-cluster token similarity and to microservice naming (§4.4.3, §4.7):
// the prefix before the first (leftmost, longest-tiebreak) contained role
// keyword, with a trailing "repository"/"impl" trimmed, plus the component's
// last package segment - each kept only if non-empty, not in the exclusion
// dictionary, and longer than two characters.
func DomainTokens(c graph.Component, cfg *config.Config) []string {
	var out []string
	simple := c.SimpleName()
	lower := strings.ToLower(simple)

	if tok, ok := leftmostRoleToken(lower, cfg.DomainTokenKeywords); ok {
		tok = strings.TrimSuffix(tok, "repository")
		tok = strings.TrimSuffix(tok, "impl")
		if t := cleanToken(tok, cfg); t != "" {
			out = append(out, t)
		}
	}

	if pkg := c.PackagePath(); pkg != "" {
		segs := strings.Split(strings.TrimSuffix(pkg, "."), ".")
		if last := segs[len(segs)-1]; last != "" {
			if t := cleanToken(last, cfg); t != "" {
				out = append(out, t)
			}
		}
	}
	return out
}

// leftmostRoleToken finds the earliest-starting contained keyword (ties
// broken by longest match) and returns the prefix before it.
func leftmostRoleToken(lower string, keywords []string) (string, bool) {
	bestIdx := -1
	bestLen := 0
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if kw == "" {
			continue
		}
		idx := strings.Index(lower, kw)
		if idx < 0 {
			continue
		}
		if bestIdx == -1 || idx < bestIdx || (idx == bestIdx && len(kw) > bestLen) {
			bestIdx = idx
			bestLen = len(kw)
		}
	}
	if bestIdx < 0 {
		return "", false
	}
	return lower[:bestIdx], true
}

func cleanToken(tok string, cfg *config.Config) string {
	tok = strings.ToLower(strings.TrimSpace(tok))
	if len(tok) <= 2 {
		return ""
	}
	for _, ex := range cfg.ExcludeTokens {
		if tok == strings.ToLower(ex) {
			return ""
		}
	}
	return tok
}

// DomainTokenSet builds the aggregate set of domain tokens contributed by a
// group of Components, for Jaccard-style comparison (§4.4.3).
func DomainTokenSet(members []graph.Component, cfg *config.Config) graph.StringSet {
	set := graph.NewStringSet()
	for _, m := range members {
		for _, t := range DomainTokens(m, cfg) {
			set.Add(t)
		}
	}
	return set
}

// DomainTokenCounts tallies domain token frequency across a group of
// Components, for the top-2 naming step (§4.7).
func DomainTokenCounts(members []graph.Component, cfg *config.Config) map[string]int {
	counts := make(map[string]int)
	for _, m := range members {
		for _, t := range DomainTokens(m, cfg) {
			counts[t]++
		}
	}
	return counts
}

// InferDomain derives a Component's business domain from its package path
// (§4.2 step 1): the organizational reverse-DNS prefix (conventionally the
// first two dotted segments, e.g. "com.acme") is skipped, then any
// remaining framework/layer token is skipped, and the first segment left is
// the domain. Falls back to the last package segment if every segment was
// a framework token, and to "" if the Component has no package at all.
func InferDomain(c graph.Component) string {
	pkg := strings.TrimSuffix(c.PackagePath(), ".")
	if pkg == "" {
		return ""
	}
	segs := strings.Split(pkg, ".")
	if len(segs) > 2 {
		segs = segs[2:]
	}

	for _, s := range segs {
		if !frameworkTokens[strings.ToLower(s)] {
			return s
		}
	}
	return segs[len(segs)-1]
}

var frameworkTokens = map[string]bool{
	"service": true, "services": true, "controller": true, "controllers": true,
	"repository": true, "repositories": true, "persistence": true, "domain": true,
	"model": true, "models": true, "dto": true, "api": true, "rest": true,
	"web": true, "config": true, "security": true, "impl": true, "entity": true,
	"entities": true, "adapter": true, "adapters": true, "usecase": true,
	"usecases": true, "infrastructure": true, "application": true,
	"exception": true, "exceptions": true, "util": true, "utils": true,
	"common": true, "shared": true,
}
