/*
 * plugin-verifier - a binary-compatibility verifier for class-file plugins
 * Licensed under the Mozilla Public License 2.0 (MPL 2.0)
 */

// Package verify implements the class/method/field resolution
// algorithms and the structural checks of spec.md §4.3-§4.7. It is the
// one package allowed to depend on both classfile and resolver: the
// Hierarchy Walker needs to fetch classes through a Resolver while
// reporting ClassNotFound problems, so it cannot live in classfile
// (which resolver itself depends on) without creating an import cycle.
package verify

import (
	"context"

	"github.com/Ololoshechkin/plugin-verifier/classfile"
	"github.com/Ololoshechkin/plugin-verifier/problem"
	"github.com/Ololoshechkin/plugin-verifier/reference"
	"github.com/Ololoshechkin/plugin-verifier/resolver"
)

const objectClassName = "java/lang/Object"

// Hierarchy answers subclass/superinterface questions against a
// Resolver, reporting ClassNotFound on any resolution failure that
// blocks the walk (spec.md §4.3). Grounded in the teacher's
// classloader.go superclass-chase inside instantiateClass/MethAreaFetch,
// generalized from a single fixed chain to an arbitrary Resolver and
// made cycle-safe with an explicit visited set (the teacher trusts
// well-formed JDK class files and never guards against a cycle).
type Hierarchy struct {
	Resolver resolver.Resolver
}

func NewHierarchy(r resolver.Resolver) *Hierarchy {
	return &Hierarchy{Resolver: r}
}

// Superclasses walks from className up its superclass chain, calling
// visit with each superclass's ClassNode in order, java/lang/Object
// included when the chain reaches it and it resolves. It stops and
// reports a ClassNotFound via reporter if a superclass cannot be
// resolved; it stops silently if a cycle is detected (a malformed class
// graph an adversarial or corrupt plugin could construct).
func (h *Hierarchy) Superclasses(ctx context.Context, className string, reporter func(problem.Problem), visit func(*classfile.ClassNode)) {
	visited := map[string]bool{className: true}
	current := className
	for {
		res := h.Resolver.Find(ctx, current)
		switch res.Kind {
		case resolver.Found:
			class := res.Class
			if !class.HasSuper() {
				return
			}
			if visited[class.Super] {
				return // cycle; malformed hierarchy, stop rather than loop forever
			}
			visited[class.Super] = true
			superRes := h.Resolver.Find(ctx, class.Super)
			if superRes.Kind != resolver.Found {
				h.reportUnresolvedLink(reporter, class.Super, className)
				return
			}
			visit(superRes.Class)
			current = class.Super
		default:
			h.reportUnresolvedLink(reporter, current, className)
			return
		}
	}
}

// IsSubclassOrSelf reports whether child is class-identical to, a
// transitive subclass of, or a transitive implementor of parent
// (spec.md §4.3: "BFS over superName plus interfaces"). Resolution
// failures along the walk are reported through reporter; a node that
// fails to resolve simply cannot contribute a path to parent, it does
// not abort branches reached some other way -- a missing link must
// never silently grant access (spec.md §4.2, accessibility depends on
// this), but it also must not produce a false negative when parent is
// reachable through an unrelated, resolvable branch.
func (h *Hierarchy) IsSubclassOrSelf(ctx context.Context, child, parent string, reporter func(problem.Problem)) bool {
	if child == parent {
		return true
	}
	if parent == objectClassName {
		// every class is a (direct or transitive) subclass of Object,
		// even if Object itself is not on the supplied classpath.
		return true
	}

	visited := map[string]bool{child: true}
	queue := []string{child}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		res := h.Resolver.Find(ctx, current)
		if res.Kind != resolver.Found {
			h.reportUnresolvedLink(reporter, current, child)
			continue
		}
		class := res.Class

		for _, iface := range class.Interfaces {
			if iface == parent {
				return true
			}
			if !visited[iface] {
				visited[iface] = true
				queue = append(queue, iface)
			}
		}

		if class.HasSuper() {
			if class.Super == parent {
				return true
			}
			if !visited[class.Super] {
				visited[class.Super] = true
				queue = append(queue, class.Super)
			}
		}
	}
	return false
}

// AllSuperinterfaces returns every interface className implements,
// transitively, walking both its own Interfaces and its superclass
// chain's Interfaces (JVMS §5.4.3.1). Order is breadth-first and stable;
// duplicates (diamond interface inheritance) are collapsed to their
// first occurrence.
func (h *Hierarchy) AllSuperinterfaces(ctx context.Context, className string, reporter func(problem.Problem)) []*classfile.ClassNode {
	var out []*classfile.ClassNode
	seen := map[string]bool{}
	var queue []string

	res := h.Resolver.Find(ctx, className)
	if res.Kind != resolver.Found {
		h.reportUnresolvedLink(reporter, className, className)
		return nil
	}
	queue = append(queue, res.Class.Interfaces...)
	if res.Class.HasSuper() {
		queue = append(queue, "super:"+res.Class.Super)
	}

	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		isSuper := false
		if len(name) > 6 && name[:6] == "super:" {
			name = name[6:]
			isSuper = true
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		r := h.Resolver.Find(ctx, name)
		if r.Kind != resolver.Found {
			h.reportUnresolvedLink(reporter, name, className)
			continue
		}
		if !isSuper {
			out = append(out, r.Class)
		}
		queue = append(queue, r.Class.Interfaces...)
		if r.Class.HasSuper() {
			queue = append(queue, "super:"+r.Class.Super)
		}
	}
	return out
}

func (h *Hierarchy) reportUnresolvedLink(reporter func(problem.Problem), missing, enclosing string) {
	if reporter == nil {
		return
	}
	reporter(problem.NewClassNotFound(missing, reference.ClassLocation(enclosing)))
}
