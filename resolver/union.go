/*
 * plugin-verifier - a binary-compatibility verifier for class-file plugins
 * Licensed under the Mozilla Public License 2.0 (MPL 2.0)
 */

package resolver

import "context"

// UnionResolver holds an ordered list of child resolvers and resolves to
// the first Found among them (spec.md §4.1). An Invalid or FailedToRead
// from any child short-circuits the search immediately -- it is a real
// defect and must never be silently shadowed by a later child that
// happens not to contain the class either.
type UnionResolver struct {
	children []Resolver
}

// NewUnionResolver composes children in lookup-priority order: the first
// child to answer Found (or to fail) wins. See classpath.go for the
// canonical ordering contract this repository uses to build the
// verification classpath.
func NewUnionResolver(children ...Resolver) *UnionResolver {
	return &UnionResolver{children: children}
}

func (u *UnionResolver) Contains(ctx context.Context, name string) bool {
	for _, c := range u.children {
		if c.Contains(ctx, name) {
			return true
		}
	}
	return false
}

func (u *UnionResolver) Find(ctx context.Context, name string) Resolution {
	for _, c := range u.children {
		r := c.Find(ctx, name)
		switch r.Kind {
		case Found, FailedToRead, Invalid:
			return r
		case NotFound:
			continue
		}
	}
	return NotFoundResolution()
}

// IterateAllClasses returns the ordered union of every child's
// enumeration, deduplicated by name; the first resolver to mention a
// name wins, matching Find's precedence.
func (u *UnionResolver) IterateAllClasses(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, c := range u.children {
		names, err := c.IterateAllClasses(ctx)
		if err != nil {
			return nil, err
		}
		for _, n := range names {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	return out, nil
}

func (u *UnionResolver) ClassPath() []string {
	var out []string
	for _, c := range u.children {
		out = append(out, c.ClassPath()...)
	}
	return out
}

// Close closes every child, collecting the first error but still
// attempting to close the rest (spec.md §5, Resource discipline: a
// partial acquisition/release failure must not leak the remaining
// children).
func (u *UnionResolver) Close() error {
	var firstErr error
	for _, c := range u.children {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Children exposes the composed resolvers, read-only, for callers (the
// dependency graph) that need to append more layers after construction.
func (u *UnionResolver) Children() []Resolver {
	out := make([]Resolver, len(u.children))
	copy(out, u.children)
	return out
}
