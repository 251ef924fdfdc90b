/*
 * plugin-verifier - a binary-compatibility verifier for class-file plugins
 * Licensed under the Mozilla Public License 2.0 (MPL 2.0)
 */

package problem

import (
	"strings"

	"github.com/Ololoshechkin/plugin-verifier/reference"
)

// Filter decides whether a problem should be suppressed before it is
// ever stored, given the enclosing class/package it was found in
// (spec.md §6, problem_filters). GlobFilter, in filter.go, is the
// concrete implementation the configuration layer produces.
type Filter interface {
	// Matches reports whether the filter applies to a problem located in
	// enclosingClass. A matching filter suppresses the problem.
	Matches(enclosingClass string) bool
}

// DefaultPackageNotFoundThreshold is the minimum number of ClassNotFound
// problems sharing a package prefix that triggers aggregation into one
// PackageNotFound (spec.md §4.9, §8 scenario 3: 15 classes -> one
// rollup).
const DefaultPackageNotFoundThreshold = 10

// Registrar buffers problems in an insertion-ordered, deduplicated set
// keyed by CanonicalKey, applies user filters before storing, and
// aggregates a large batch of same-package ClassNotFound problems into a
// single PackageNotFound (spec.md §4.9). The teacher's own MethArea
// (name -> *Klass, inserted once and fetched by name) is the ancestor of
// this insertion-ordered-by-key registry.
type Registrar struct {
	filters   []Filter
	threshold int

	order []string
	byKey map[string]Problem
	// ignored records problems a filter suppressed, with the reason, for
	// the VerificationResult's "ignored problems" set (spec.md §6).
	ignored []IgnoredProblem
}

// IgnoredProblem pairs a suppressed Problem with why it was suppressed.
type IgnoredProblem struct {
	Problem Problem
	Reason  string
}

// NewRegistrar builds a Registrar applying filters, with the default
// package-rollup threshold.
func NewRegistrar(filters ...Filter) *Registrar {
	return &Registrar{
		filters:   filters,
		threshold: DefaultPackageNotFoundThreshold,
		byKey:     make(map[string]Problem),
	}
}

// SetPackageNotFoundThreshold overrides DefaultPackageNotFoundThreshold,
// mainly so tests can exercise aggregation without constructing dozens
// of fixtures.
func (r *Registrar) SetPackageNotFoundThreshold(n int) {
	r.threshold = n
}

// Register stores p unless a filter suppresses it or an equal-canonical
// problem was already stored (spec.md §3, dedup invariant).
// enclosingClass is the class the problem was discovered analyzing, used
// only to evaluate filters.
func (r *Registrar) Register(p Problem, enclosingClass string) {
	for _, f := range r.filters {
		if f.Matches(enclosingClass) {
			r.ignored = append(r.ignored, IgnoredProblem{Problem: p, Reason: "suppressed by problem filter"})
			return
		}
	}
	key := p.CanonicalKey()
	if _, exists := r.byKey[key]; exists {
		return
	}
	r.byKey[key] = p
	r.order = append(r.order, key)
}

// Problems returns every stored problem, with ClassNotFound problems
// sharing a common package prefix collapsed into PackageNotFound rollups
// (spec.md §4.9). Order is insertion order among the problems that
// survive aggregation.
func (r *Registrar) Problems() []Problem {
	raw := make([]Problem, 0, len(r.order))
	for _, key := range r.order {
		raw = append(raw, r.byKey[key])
	}
	return aggregatePackageNotFound(raw, r.threshold)
}

// Ignored returns every problem a filter suppressed, with its reason.
func (r *Registrar) Ignored() []IgnoredProblem {
	return append([]IgnoredProblem(nil), r.ignored...)
}

// Count returns the number of distinct (post-dedup, pre-aggregation)
// problems stored -- the cardinality the "Dedup" property test in
// spec.md §8 checks against the canonical-form set.
func (r *Registrar) Count() int {
	return len(r.order)
}

// aggregatePackageNotFound groups ClassNotFound problems by package
// prefix (the package of their sole class reference) and, for any group
// at or above threshold, replaces its members with one PackageNotFound
// carrying them as Children. Non-ClassNotFound problems, and groups
// below threshold, pass through unchanged and keep their relative order.
func aggregatePackageNotFound(problems []Problem, threshold int) []Problem {
	groups := make(map[string][]Problem)
	var groupOrder []string
	for _, p := range problems {
		if p.Kind != ClassNotFound || len(p.References) == 0 {
			continue
		}
		pkg := packageOf(p.References[0].ClassName)
		if _, seen := groups[pkg]; !seen {
			groupOrder = append(groupOrder, pkg)
		}
		groups[pkg] = append(groups[pkg], p)
	}

	rollup := make(map[string]Problem)
	for _, pkg := range groupOrder {
		members := groups[pkg]
		if len(members) >= threshold {
			rollup[pkg] = Problem{
				Kind:          PackageNotFound,
				PackagePrefix: pkg,
				Children:      members,
			}
		}
	}

	out := make([]Problem, 0, len(problems))
	emittedPkg := make(map[string]bool)
	for _, p := range problems {
		if p.Kind == ClassNotFound && len(p.References) > 0 {
			pkg := packageOf(p.References[0].ClassName)
			if rolled, ok := rollup[pkg]; ok {
				if !emittedPkg[pkg] {
					out = append(out, rolled)
					emittedPkg[pkg] = true
				}
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

func packageOf(internalName string) string {
	i := strings.LastIndexByte(internalName, '/')
	if i < 0 {
		return ""
	}
	return internalName[:i]
}

// NewClassNotFound is a convenience constructor used throughout verify,
// keeping the SymbolicReference/Location pairing consistent.
func NewClassNotFound(className string, at reference.Location) Problem {
	return Problem{
		Kind:       ClassNotFound,
		References: []reference.SymbolicReference{reference.ClassRef(className)},
		Locations:  []reference.Location{at},
	}
}
