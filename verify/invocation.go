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

// InstructionVerifier checks one call-site or field-access instruction
// against the resolved classpath, the way the teacher's own codeCheck
// tests walk an instruction stream opcode by opcode -- generalized here
// from "does this bytecode pass the verifier's local type rules" to
// "is this symbolic reference still satisfiable against the host".
type InstructionVerifier struct {
	Resolver  resolver.Resolver
	Hierarchy *Hierarchy
	Methods   *MethodResolver
	Fields    *FieldResolver
}

func NewInstructionVerifier(r resolver.Resolver) *InstructionVerifier {
	return &InstructionVerifier{
		Resolver:  r,
		Hierarchy: NewHierarchy(r),
		Methods:   NewMethodResolver(r),
		Fields:    NewFieldResolver(r),
	}
}

// CheckInvoke verifies one invoke* instruction found in method m of
// class caller, reporting every problem spec.md §4.4 names through
// report. at is the precomputed instruction Location.
func (iv *InstructionVerifier) CheckInvoke(ctx context.Context, caller *classfile.ClassNode, m *classfile.MethodNode, ins classfile.Instruction, at reference.Location, report func(problem.Problem)) {
	ownerRes := iv.Resolver.Find(ctx, ins.Owner)
	if ownerRes.Kind != resolver.Found {
		report(problem.NewClassNotFound(ins.Owner, at))
		return
	}

	useInterfaceResolution := ins.Opcode == classfile.InvokeInterface ||
		(ins.Opcode == classfile.InvokeSpecial && ins.IsItf)

	var lookup MethodLookup
	if useInterfaceResolution {
		lookup = iv.Methods.ResolveInterfaceMethod(ctx, ownerRes.Class, ins.Name, ins.Desc, func(p problem.Problem) { report(p) })
	} else {
		lookup = iv.Methods.ResolveClassMethod(ctx, ownerRes.Class, ins.Name, ins.Desc, func(p problem.Problem) { report(p) })
	}

	switch lookup.Kind {
	case LookupFailed:
		return
	case LookupNotFound:
		report(problem.Problem{
			Kind:       problem.MethodNotFound,
			References: []reference.SymbolicReference{reference.MethodRef(ins.Owner, ins.Name, ins.Desc)},
			Locations:  []reference.Location{at},
		})
		return
	}

	method := lookup.Method
	owner := lookup.Owner
	ref := reference.MethodRef(owner.Name, method.Name, method.Desc)

	switch ins.Opcode {
	case classfile.InvokeVirtual:
		if method.IsStatic() {
			report(problem.Problem{Kind: problem.InvokeVirtualOnStaticMethod, References: []reference.SymbolicReference{ref}, Locations: []reference.Location{at}})
			return
		}
	case classfile.InvokeSpecial:
		if method.IsStatic() {
			report(problem.Problem{Kind: problem.InvokeSpecialOnStaticMethod, References: []reference.SymbolicReference{ref}, Locations: []reference.Location{at}})
			return
		}
		if method.IsAbstract() {
			report(problem.Problem{Kind: problem.AbstractMethodInvocation, References: []reference.SymbolicReference{ref}, Locations: []reference.Location{at}})
		}
	case classfile.InvokeStatic:
		if !method.IsStatic() {
			report(problem.Problem{Kind: problem.InvokeStaticOnInstanceMethod, References: []reference.SymbolicReference{ref}, Locations: []reference.Location{at}})
			return
		}
	case classfile.InvokeInterface:
		if method.IsPrivate() {
			report(problem.Problem{Kind: problem.InvokeInterfaceOnPrivateMethod, References: []reference.SymbolicReference{ref}, Locations: []reference.Location{at}})
			return
		}
		if method.IsStatic() {
			report(problem.Problem{Kind: problem.InvokeInterfaceOnStaticMethod, References: []reference.SymbolicReference{ref}, Locations: []reference.Location{at}})
			return
		}
	}

	accessible, level := classfile.Accessible(owner.Name, method.Access, caller.Name, func(child, parent string) bool {
		return iv.Hierarchy.IsSubclassOrSelf(ctx, child, parent, report)
	})
	if !accessible {
		report(problem.Problem{
			Kind:        problem.IllegalMethodAccess,
			References:  []reference.SymbolicReference{ref},
			Locations:   []reference.Location{at},
			AccessLevel: level,
		})
	}
}

// CheckFieldInstruction verifies one get*/put* instruction (spec.md
// §4.5). writingMethod is the enclosing method, used for the
// final-field-write exception.
func (iv *InstructionVerifier) CheckFieldInstruction(ctx context.Context, caller *classfile.ClassNode, writingMethod *classfile.MethodNode, ins classfile.Instruction, at reference.Location, report func(problem.Problem)) {
	ownerRes := iv.Resolver.Find(ctx, ins.Owner)
	if ownerRes.Kind != resolver.Found {
		report(problem.NewClassNotFound(ins.Owner, at))
		return
	}

	lookup := iv.Fields.ResolveField(ctx, ownerRes.Class, ins.Name, report)
	if lookup.Kind == LookupNotFound {
		report(problem.Problem{
			Kind:       problem.FieldNotFound,
			References: []reference.SymbolicReference{reference.FieldRef(ins.Owner, ins.Name, ins.Desc)},
			Locations:  []reference.Location{at},
		})
		return
	}
	if lookup.Kind == LookupFailed {
		return
	}

	field := lookup.Field
	owner := lookup.Owner
	kind := fieldAccessKindOf(ins.Opcode)

	if p := CheckFieldAccessKind(kind, field, owner, at); p != nil {
		report(*p)
	}
	if p := CheckChangeFinalField(kind, field, owner, caller.Name, writingMethod, at); p != nil {
		report(*p)
	}

	accessible, level := classfile.Accessible(owner.Name, field.Access, caller.Name, func(child, parent string) bool {
		return iv.Hierarchy.IsSubclassOrSelf(ctx, child, parent, report)
	})
	if !accessible {
		report(problem.Problem{
			Kind:        problem.IllegalFieldAccess,
			References:  []reference.SymbolicReference{reference.FieldRef(owner.Name, field.Name, field.Desc)},
			Locations:   []reference.Location{at},
			AccessLevel: level,
		})
	}
}

func fieldAccessKindOf(op classfile.Opcode) FieldAccessKind {
	switch op {
	case classfile.GetStatic:
		return GetStatic
	case classfile.PutStatic:
		return PutStatic
	case classfile.PutField:
		return PutField
	default:
		return GetField
	}
}
