/*
 * plugin-verifier - a binary-compatibility verifier for class-file plugins
 * Licensed under the Mozilla Public License 2.0 (MPL 2.0)
 */

package problem

import "path"

// GlobFilter suppresses problems whose enclosing class matches a
// `/`-delimited glob pattern (e.g. "com/acme/internal/*" or an exact
// class name), per spec.md §6's problem_filters configuration. Matching
// uses the standard library's path.Match: no example repo in the corpus
// wires a third-party glob library, and path.Match already understands
// `/`-delimited paths, so reaching for one here would add a dependency
// with nothing it does better.
type GlobFilter struct {
	Pattern string
}

func (f GlobFilter) Matches(enclosingClass string) bool {
	ok, err := path.Match(f.Pattern, enclosingClass)
	if err != nil {
		return false
	}
	if ok {
		return true
	}
	// Package-prefix shorthand: "com/acme/*" also suppresses classes
	// nested deeper than one segment, matching the teacher's own
	// package-prefix comparisons in CPutils.go rather than requiring
	// callers to write "com/acme/**".
	if len(f.Pattern) > 0 && f.Pattern[len(f.Pattern)-1] == '*' {
		prefix := f.Pattern[:len(f.Pattern)-1]
		return len(enclosingClass) >= len(prefix) && enclosingClass[:len(prefix)] == prefix
	}
	return false
}

// NewGlobFilters builds one GlobFilter per pattern, for wiring a
// configuration layer's []string of patterns directly into a Registrar.
func NewGlobFilters(patterns ...string) []Filter {
	filters := make([]Filter, 0, len(patterns))
	for _, p := range patterns {
		filters = append(filters, GlobFilter{Pattern: p})
	}
	return filters
}
