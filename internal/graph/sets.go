package graph

import "sort"

// StringSet is a deduplicated, unordered collection of strings. The data
// model treats tables_used, annotations, implements_interfaces, calls_out,
// calls_in and external_dependencies all as sets (§3); a map gives us
// dedup for free and Sorted() gives every consumer a deterministic view.
type StringSet map[string]struct{}

// NewStringSet builds a StringSet from a (possibly unsorted, possibly
// duplicated) slice.
func NewStringSet(items ...string) StringSet {
	s := make(StringSet, len(items))
	for _, it := range items {
		if it == "" {
			continue
		}
		s[it] = struct{}{}
	}
	return s
}

// Add inserts an item, no-op if already present or empty.
func (s StringSet) Add(item string) {
	if item == "" {
		return
	}
	s[item] = struct{}{}
}

// Has reports set membership.
func (s StringSet) Has(item string) bool {
	_, ok := s[item]
	return ok
}

// Sorted returns the set's members in ascending lexical order.
func (s StringSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Union returns a new set containing every member of s and other.
func (s StringSet) Union(other StringSet) StringSet {
	out := make(StringSet, len(s)+len(other))
	for k := range s {
		out[k] = struct{}{}
	}
	for k := range other {
		out[k] = struct{}{}
	}
	return out
}

// Intersect returns a new set containing members present in both s and other.
func (s StringSet) Intersect(other StringSet) StringSet {
	small, big := s, other
	if len(big) < len(small) {
		small, big = big, small
	}
	out := make(StringSet)
	for k := range small {
		if big.Has(k) {
			out[k] = struct{}{}
		}
	}
	return out
}

// Jaccard returns |s ∩ other| / |s ∪ other|, 0 when both sets are empty.
func (s StringSet) Jaccard(other StringSet) float64 {
	union := len(s.Union(other))
	if union == 0 {
		return 0
	}
	inter := len(s.Intersect(other))
	return float64(inter) / float64(union)
}
