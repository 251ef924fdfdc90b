/*
 * plugin-verifier - a binary-compatibility verifier for class-file plugins
 * Licensed under the Mozilla Public License 2.0 (MPL 2.0)
 */

// Package resolver implements the layered class-lookup abstraction
// described in spec.md §4.1: a Resolver is a total function from class
// name to Resolution, and resolvers compose (union, cache,
// external-filter) to build the ordered, cached classpath a verification
// job runs against.
//
// The teacher's own Classloader (classloader.Classloader, with its
// AppCL/ExtensionCL/BootstrapCL chain of named loaders delegating to a
// parent) is the direct ancestor of the layering here; this package
// replaces its inheritance-flavored "Parent" chase with an explicit,
// composable slice of child Resolvers, per spec.md §9's tagged-union
// redesign note.
package resolver

import (
	"context"

	"github.com/Ololoshechkin/plugin-verifier/classfile"
)

// Resolution is the tagged result of looking up one class name. Exactly
// one of its accessors is meaningful; callers branch on Kind.
type Resolution struct {
	Kind  ResolutionKind
	Class *classfile.ClassNode // valid iff Kind == Found
	Err   error                // valid iff Kind == FailedToRead or Kind == Invalid
}

type ResolutionKind int

const (
	NotFound ResolutionKind = iota
	Found
	FailedToRead
	Invalid
)

func FoundResolution(c *classfile.ClassNode) Resolution { return Resolution{Kind: Found, Class: c} }
func NotFoundResolution() Resolution                     { return Resolution{Kind: NotFound} }
func FailedToReadResolution(err error) Resolution        { return Resolution{Kind: FailedToRead, Err: err} }
func InvalidResolution(err error) Resolution             { return Resolution{Kind: Invalid, Err: err} }

// Resolver is the abstract class source of spec.md §4.1. Every method
// must be safe to call after a previous Close from an unrelated job (a
// Resolver instance is owned by exactly one job and never shared), but
// within a single job is only ever driven single-threaded (spec.md §5).
type Resolver interface {
	// Contains reports whether name is present in this resolver without
	// necessarily reading/parsing it.
	Contains(ctx context.Context, name string) bool
	// Find resolves name to a Resolution. It never panics and never
	// returns a transient ambiguity: for any name, repeated calls (absent
	// a Close) return equivalent Resolutions.
	Find(ctx context.Context, name string) Resolution
	// IterateAllClasses yields every class name this resolver can
	// enumerate, without forcing Find on each.
	IterateAllClasses(ctx context.Context) ([]string, error)
	// ClassPath returns the on-disk locations backing this resolver, for
	// diagnostic reporting. May be empty for synthetic/in-memory resolvers.
	ClassPath() []string
	// Close releases any resources held and propagates to composed
	// children. Close is idempotent.
	Close() error
}
