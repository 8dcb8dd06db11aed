// Package naming implements MicroserviceNameGenerator (spec §4.7): given a
// finished cluster's members, decide whether it reads as an infrastructure
// group or a business group, then derive a Spanish-language display name
// from the group's two most frequent keywords/tokens. Falls back to one of
// the three closed generic names when no keyword or token survives
// filtering.
package naming

import (
	"sort"
	"strings"

	"github.com/raalzate/archdecomp/internal/config"
	"github.com/raalzate/archdecomp/internal/graph"
	"github.com/raalzate/archdecomp/internal/logging"
	"github.com/raalzate/archdecomp/internal/tokens"
)

// infraMajorityThreshold is the share of infrastructure-flagged members a
// group needs before it is named as infrastructure rather than business
// (§4.7).
const infraMajorityThreshold = 0.8

// Generate derives a display name for a group of Components. The second
// return value reports whether the name is one of the three closed
// generic fallbacks (§4.7), information ClusterConsolidator's Phase 0 uses
// to know a "collision" on a generic name is not a meaningful collision.
func Generate(members []graph.Component, cfg *config.Config) (name string, generic bool) {
	if len(members) == 0 {
		return cfg.SupportGenericNames[2], true
	}

	infraCount := 0
	for _, m := range members {
		if IsInfra(m, cfg) {
			infraCount++
		}
	}
	if float64(infraCount)/float64(len(members)) >= infraMajorityThreshold {
		return infraName(members, cfg)
	}
	return businessName(members, cfg)
}

// IsInfra reports whether a Component reads as infrastructure by the
// same closed keyword list ClusteringAlgorithm uses to pool infrastructure
// components (§4.2, §4.7).
func IsInfra(c graph.Component, cfg *config.Config) bool {
	simple := strings.ToLower(c.SimpleName())
	pkg := strings.ToLower(c.PackagePath())
	for _, kw := range cfg.InfraClassifierKeywords {
		kw = strings.ToLower(kw)
		if kw == "" {
			continue
		}
		if strings.Contains(simple, kw) || strings.Contains(pkg, "."+kw+".") {
			return true
		}
	}
	return false
}

func infraName(members []graph.Component, cfg *config.Config) (string, bool) {
	counts := make(map[string]int)
	for _, m := range members {
		simple := strings.ToLower(m.SimpleName())
		pkg := strings.ToLower(m.PackagePath())
		for _, kw := range cfg.InfraKeywordOrder {
			lkw := strings.ToLower(kw)
			if strings.Contains(simple, lkw) || strings.Contains(pkg, lkw) {
				counts[kw]++
			}
		}
	}

	top := topKeywords(counts, cfg.InfraKeywordOrder, 2)
	if len(top) == 0 {
		logging.NamingDebug("infra-majority group had no matching infra keyword, using generic name")
		return cfg.SupportGenericNames[0], true
	}

	names := make([]string, 0, len(top))
	for _, kw := range top {
		names = append(names, cfg.InfraKeywords[kw])
	}
	return "Componente de " + strings.Join(names, " & "), false
}

func topKeywords(counts map[string]int, order []string, n int) []string {
	type scored struct {
		keyword string
		count   int
		rank    int
	}
	var items []scored
	for rank, kw := range order {
		if c := counts[kw]; c > 0 {
			items = append(items, scored{kw, c, rank})
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].count != items[j].count {
			return items[i].count > items[j].count
		}
		return items[i].rank < items[j].rank
	})
	if len(items) > n {
		items = items[:n]
	}
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.keyword
	}
	return out
}

func businessName(members []graph.Component, cfg *config.Config) (string, bool) {
	counts := tokens.DomainTokenCounts(members, cfg)
	if len(counts) == 0 {
		logging.NamingDebug("business-majority group had no surviving domain token, using generic name")
		return cfg.SupportGenericNames[1], true
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > 2 {
		keys = keys[:2]
	}

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = capitalize(k)
	}
	return "Componente de " + strings.Join(parts, " y "), false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
