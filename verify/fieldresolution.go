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

// FieldLookup is the result of resolving a field by (owner, name).
type FieldLookup struct {
	Kind  LookupKind
	Owner *classfile.ClassNode
	Field *classfile.FieldNode
}

// FieldResolver implements spec.md §4.5's field resolution algorithm:
// class itself, then each direct superinterface in declaration order
// (searched recursively, depth-first), then superclass, repeated up the
// chain.
type FieldResolver struct {
	Resolver resolver.Resolver
}

func NewFieldResolver(r resolver.Resolver) *FieldResolver {
	return &FieldResolver{Resolver: r}
}

// ResolveField resolves (owner, name) starting from ownerClass.
func (fr *FieldResolver) ResolveField(ctx context.Context, ownerClass *classfile.ClassNode, name string, report func(problem.Problem)) FieldLookup {
	visited := map[string]bool{}
	return fr.resolveFrom(ctx, ownerClass, name, visited, report)
}

func (fr *FieldResolver) resolveFrom(ctx context.Context, class *classfile.ClassNode, name string, visited map[string]bool, report func(problem.Problem)) FieldLookup {
	if visited[class.Name] {
		return FieldLookup{Kind: LookupNotFound}
	}
	visited[class.Name] = true

	if f := class.FindField(name); f != nil {
		return FieldLookup{Kind: LookupFound, Owner: class, Field: f}
	}

	for _, ifaceName := range class.Interfaces {
		res := fr.Resolver.Find(ctx, ifaceName)
		if res.Kind != resolver.Found {
			report(problem.NewClassNotFound(ifaceName, reference.ClassLocation(class.Name)))
			continue
		}
		if found := fr.resolveFrom(ctx, res.Class, name, visited, report); found.Kind == LookupFound {
			return found
		}
	}

	if class.HasSuper() {
		res := fr.Resolver.Find(ctx, class.Super)
		if res.Kind != resolver.Found {
			report(problem.NewClassNotFound(class.Super, reference.ClassLocation(class.Name)))
			return FieldLookup{Kind: LookupNotFound}
		}
		return fr.resolveFrom(ctx, res.Class, name, visited, report)
	}

	return FieldLookup{Kind: LookupNotFound}
}

// FieldAccessKind distinguishes the four field-instruction opcodes,
// used by the post-resolution static/instance checks (spec.md §4.5).
type FieldAccessKind int

const (
	GetStatic FieldAccessKind = iota
	PutStatic
	GetField
	PutField
)

func (k FieldAccessKind) isStatic() bool { return k == GetStatic || k == PutStatic }
func (k FieldAccessKind) isWrite() bool  { return k == PutStatic || k == PutField }

// CheckFieldAccessKind emits StaticAccessOfInstanceField or
// InstanceAccessOfStaticField when the opcode's static-ness disagrees
// with the resolved field's own static-ness.
func CheckFieldAccessKind(kind FieldAccessKind, field *classfile.FieldNode, owner *classfile.ClassNode, at reference.Location) *problem.Problem {
	ref := reference.FieldRef(owner.Name, field.Name, field.Desc)
	switch {
	case kind.isStatic() && !field.IsStatic():
		return &problem.Problem{Kind: problem.StaticAccessOfInstanceField, References: []reference.SymbolicReference{ref}, Locations: []reference.Location{at}}
	case !kind.isStatic() && field.IsStatic():
		return &problem.Problem{Kind: problem.InstanceAccessOfStaticField, References: []reference.SymbolicReference{ref}, Locations: []reference.Location{at}}
	}
	return nil
}

// CheckChangeFinalField implements spec.md §4.5's final-field write
// check: a put against a final field is only legal from the declaring
// class's own constructor (instance fields) or <clinit> (static fields).
func CheckChangeFinalField(kind FieldAccessKind, field *classfile.FieldNode, owner *classfile.ClassNode, writingClass string, writingMethod *classfile.MethodNode, at reference.Location) *problem.Problem {
	if !kind.isWrite() || !field.IsFinal() {
		return nil
	}
	if writingClass == owner.Name {
		if field.IsStatic() && writingMethod.IsClinit() {
			return nil
		}
		if !field.IsStatic() && writingMethod.IsConstructor() {
			return nil
		}
	}
	ref := reference.FieldRef(owner.Name, field.Name, field.Desc)
	return &problem.Problem{Kind: problem.ChangeFinalField, References: []reference.SymbolicReference{ref}, Locations: []reference.Location{at}}
}
