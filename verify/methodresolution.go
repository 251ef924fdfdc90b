/*
 * plugin-verifier - a binary-compatibility verifier for class-file plugins
 * Licensed under the Mozilla Public License 2.0 (MPL 2.0)
 */

package verify

import (
	"context"

	"github.com/Ololoshechkin/plugin-verifier/classfile"
	"github.com/Ololoshechkin/plugin-verifier/problem"
	"github.com/Ololoshechkin/plugin-verifier/reference"
	"github.com/Ololoshechkin/plugin-verifier/resolver"
)

// LookupKind tags the outcome of a method or field resolution attempt.
type LookupKind int

const (
	LookupNotFound LookupKind = iota
	LookupFound
	LookupFailed // a prerequisite class resolution raised a problem; abandon this invocation
)

// MethodLookup is the result of resolving a (name, desc) against a
// class or interface (spec.md §4.4).
type MethodLookup struct {
	Kind     LookupKind
	Owner    *classfile.ClassNode
	Method   *classfile.MethodNode
}

// MethodResolver implements the class-method and interface-method
// lookup algorithms of spec.md §4.4, grounded in the walk structure of
// Hierarchy but adding the signature-polymorphic short-circuit and the
// maximally-specific-superinterface search the teacher's own method
// dispatch (methodArea lookups keyed by name+desc in classloader.go)
// never needed, since the teacher always executes concrete bytecode
// rather than verifying a binary against a possibly-different host.
type MethodResolver struct {
	Resolver  resolver.Resolver
	Hierarchy *Hierarchy
}

func NewMethodResolver(r resolver.Resolver) *MethodResolver {
	h := NewHierarchy(r)
	return &MethodResolver{Resolver: r, Hierarchy: h}
}

// ResolveClassMethod implements spec.md §4.4's class-method lookup.
func (mr *MethodResolver) ResolveClassMethod(ctx context.Context, c *classfile.ClassNode, name, desc string, report func(problem.Problem)) MethodLookup {
	if c.IsInterface() {
		report(problem.Problem{
			Kind:       problem.IncompatibleClassToInterfaceChange,
			References: []reference.SymbolicReference{reference.ClassRef(c.Name)},
		})
		return MethodLookup{Kind: LookupFailed}
	}

	visited := map[string]bool{}
	current := c
	for {
		if visited[current.Name] {
			break
		}
		visited[current.Name] = true

		if polys := current.FindMethodsByName(name); len(polys) == 1 && classfile.IsSignaturePolymorphic(current.Name, polys[0]) {
			return MethodLookup{Kind: LookupFound, Owner: current, Method: polys[0]}
		}
		if m := current.FindMethod(name, desc); m != nil {
			return MethodLookup{Kind: LookupFound, Owner: current, Method: m}
		}

		if !current.HasSuper() {
			break
		}
		res := mr.Resolver.Find(ctx, current.Super)
		if res.Kind != resolver.Found {
			report(problem.NewClassNotFound(current.Super, reference.ClassLocation(current.Name)))
			return MethodLookup{Kind: LookupFailed}
		}
		current = res.Class
	}

	if found := mr.maximallySpecificNonAbstract(ctx, c, name, desc, report); found.Kind == LookupFound {
		return found
	}
	if found := mr.anyNonPrivateNonStaticSuperinterfaceMethod(ctx, c, name, desc, report); found.Kind == LookupFound {
		return found
	}
	return MethodLookup{Kind: LookupNotFound}
}

// ResolveInterfaceMethod implements spec.md §4.4's interface-method
// lookup.
func (mr *MethodResolver) ResolveInterfaceMethod(ctx context.Context, c *classfile.ClassNode, name, desc string, report func(problem.Problem)) MethodLookup {
	if !c.IsInterface() {
		report(problem.Problem{
			Kind:       problem.IncompatibleInterfaceToClassChange,
			References: []reference.SymbolicReference{reference.ClassRef(c.Name)},
		})
		return MethodLookup{Kind: LookupFailed}
	}
	if m := c.FindMethod(name, desc); m != nil {
		return MethodLookup{Kind: LookupFound, Owner: c, Method: m}
	}

	objRes := mr.Resolver.Find(ctx, objectClassName)
	if objRes.Kind == resolver.Found {
		if m := objRes.Class.FindMethod(name, desc); m != nil && m.IsPublic() && !m.IsStatic() {
			return MethodLookup{Kind: LookupFound, Owner: objRes.Class, Method: m}
		}
	}

	if found := mr.maximallySpecificNonAbstract(ctx, c, name, desc, report); found.Kind == LookupFound {
		return found
	}
	if found := mr.anyNonPrivateNonStaticSuperinterfaceMethod(ctx, c, name, desc, report); found.Kind == LookupFound {
		return found
	}
	return MethodLookup{Kind: LookupNotFound}
}

// candidateMatch is one (name, desc) match found on a superinterface
// during the maximally-specific search, remembering which interface
// declared it so subinterface-shadowing can be computed afterward.
type candidateMatch struct {
	declaredIn *classfile.ClassNode
	method     *classfile.MethodNode
}

// maximallySpecificNonAbstract implements spec.md §4.4's "maximally
// specific superinterface methods" search, returning it only when
// exactly one survivor is non-abstract.
func (mr *MethodResolver) maximallySpecificNonAbstract(ctx context.Context, c *classfile.ClassNode, name, desc string, report func(problem.Problem)) MethodLookup {
	candidates := mr.matchingSuperinterfaceMethods(ctx, c, name, desc, report)
	survivors := mr.dropShadowedBySubinterface(ctx, candidates)

	var nonAbstract []candidateMatch
	for _, cand := range survivors {
		if !cand.method.IsAbstract() {
			nonAbstract = append(nonAbstract, cand)
		}
	}
	if len(nonAbstract) == 1 {
		return MethodLookup{Kind: LookupFound, Owner: nonAbstract[0].declaredIn, Method: nonAbstract[0].method}
	}
	return MethodLookup{Kind: LookupNotFound}
}

// anyNonPrivateNonStaticSuperinterfaceMethod implements step 4 of
// spec.md §4.4's class-method lookup: any superinterface method that is
// neither private nor static, chosen deterministically (first BFS hit).
func (mr *MethodResolver) anyNonPrivateNonStaticSuperinterfaceMethod(ctx context.Context, c *classfile.ClassNode, name, desc string, report func(problem.Problem)) MethodLookup {
	for _, cand := range mr.matchingSuperinterfaceMethods(ctx, c, name, desc, report) {
		if !cand.method.IsPrivate() && !cand.method.IsStatic() {
			return MethodLookup{Kind: LookupFound, Owner: cand.declaredIn, Method: cand.method}
		}
	}
	return MethodLookup{Kind: LookupNotFound}
}

// matchingSuperinterfaceMethods BFS-collects every (name, desc) match
// declared directly on a direct or indirect superinterface of c,
// neither private nor static (spec.md §4.4).
func (mr *MethodResolver) matchingSuperinterfaceMethods(ctx context.Context, c *classfile.ClassNode, name, desc string, report func(problem.Problem)) []candidateMatch {
	var out []candidateMatch
	for _, iface := range mr.Hierarchy.AllSuperinterfaces(ctx, c.Name, report) {
		if m := iface.FindMethod(name, desc); m != nil && !m.IsPrivate() && !m.IsStatic() {
			out = append(out, candidateMatch{declaredIn: iface, method: m})
		}
	}
	return out
}

// dropShadowedBySubinterface removes candidate m declared in I whenever
// another candidate m' is declared in a strict subinterface of I
// (spec.md §4.4). The subinterface relationship is resolved
// transitively through mr.Resolver, since two candidates' declaring
// interfaces may be separated by intermediate interfaces neither
// candidate was declared on.
func (mr *MethodResolver) dropShadowedBySubinterface(ctx context.Context, candidates []candidateMatch) []candidateMatch {
	isStrictSubinterfaceOf := func(sub, super *classfile.ClassNode) bool {
		seen := map[string]bool{}
		queue := append([]string(nil), sub.Interfaces...)
		for len(queue) > 0 {
			n := queue[0]
			queue = queue[1:]
			if n == super.Name {
				return true
			}
			if seen[n] {
				continue
			}
			seen[n] = true
			res := mr.Resolver.Find(ctx, n)
			if res.Kind != resolver.Found {
				continue
			}
			queue = append(queue, res.Class.Interfaces...)
		}
		return false
	}

	var survivors []candidateMatch
	for i, cand := range candidates {
		shadowed := false
		for j, other := range candidates {
			if i == j {
				continue
			}
			if isStrictSubinterfaceOf(other.declaredIn, cand.declaredIn) {
				shadowed = true
				break
			}
		}
		if !shadowed {
			survivors = append(survivors, cand)
		}
	}
	return survivors
}
