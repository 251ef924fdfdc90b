/*
 * plugin-verifier - a binary-compatibility verifier for class-file plugins
 * Licensed under the Mozilla Public License 2.0 (MPL 2.0)
 */

package verify

import (
	"context"
	"sort"

	"github.com/Ololoshechkin/plugin-verifier/classfile"
	"github.com/Ololoshechkin/plugin-verifier/problem"
	"github.com/Ololoshechkin/plugin-verifier/reference"
	"github.com/Ololoshechkin/plugin-verifier/resolver"
	"github.com/Ololoshechkin/plugin-verifier/tracelog"
)

// Job is one complete verification run: the layered classpath, the
// set of plugin classes to actually walk, and the filters/flags shaping
// what gets reported (spec.md §6, §4.9). Job is single-use and
// single-threaded (spec.md §5, Scheduling model) -- a caller running
// several plugins in parallel constructs one Job per plugin.
type Job struct {
	Resolver          resolver.Resolver
	ClassesToCheck    []string
	ExternalFilter    *resolver.ExternalFilter
	Registrar         *problem.Registrar
	FindDeprecatedAPI bool

	instructionVerifier *InstructionVerifier
	structuralVerifier  *StructuralVerifier
}

// Outcome is the terminal state of a Job run.
type Outcome int

const (
	Completed Outcome = iota
	Cancelled
)

// Result is everything a Job run produced.
type Result struct {
	Outcome  Outcome
	Problems []problem.Problem
	Usages   []Usage
}

// Usage mirrors target.Usage without importing target (verify sits
// below target in the import graph).
type Usage struct {
	ClassName  string
	MemberName string
	MemberDesc string
}

// NewJob builds a Job over r, restricted to checking the classes named
// in classesToCheck, suppressing ClassNotFound for anything external
// reports as acceptable, applying registrar's filters.
func NewJob(r resolver.Resolver, classesToCheck []string, external *resolver.ExternalFilter, registrar *problem.Registrar, findDeprecatedAPI bool) *Job {
	return &Job{
		Resolver:            r,
		ClassesToCheck:      classesToCheck,
		ExternalFilter:      external,
		Registrar:           registrar,
		FindDeprecatedAPI:   findDeprecatedAPI,
		instructionVerifier: NewInstructionVerifier(r),
		structuralVerifier:  NewStructuralVerifier(r),
	}
}

// Run walks every class in ClassesToCheck, in sorted order (spec.md §5,
// Ordering guarantees: determinism must not depend on input iteration
// order), reporting problems into Registrar. It checks ctx between
// classes for cooperative cancellation (spec.md §5).
func (j *Job) Run(ctx context.Context) Result {
	classNames := append([]string(nil), j.ClassesToCheck...)
	sort.Strings(classNames)

	var usages []Usage

	for i, name := range classNames {
		select {
		case <-ctx.Done():
			tracelog.Warn("verification job cancelled", map[string]any{"remaining": len(classNames) - i})
			return Result{Outcome: Cancelled, Problems: j.Registrar.Problems(), Usages: usages}
		default:
		}

		res := j.Resolver.Find(ctx, name)
		switch res.Kind {
		case resolver.NotFound:
			j.report(problem.NewClassNotFound(name, reference.ClassLocation(name)), name)
			continue
		case resolver.FailedToRead:
			j.report(problem.Problem{
				Kind:       problem.FailedToReadClassFile,
				References: []reference.SymbolicReference{reference.ClassRef(name)},
				Locations:  []reference.Location{reference.ClassLocation(name)},
				Detail:     res.Err.Error(),
			}, name)
			continue
		case resolver.Invalid:
			j.report(problem.Problem{
				Kind:       problem.InvalidClassFile,
				References: []reference.SymbolicReference{reference.ClassRef(name)},
				Locations:  []reference.Location{reference.ClassLocation(name)},
				Detail:     res.Err.Error(),
			}, name)
			continue
		}

		class := res.Class
		tracelog.Trace("verifying class", map[string]any{"class": class.Name})

		if class.Deprecated && j.FindDeprecatedAPI {
			usages = append(usages, Usage{ClassName: class.Name})
		}

		j.structuralVerifier.CheckClass(ctx, class, func(p problem.Problem) { j.report(p, class.Name) })

		for _, m := range class.Methods {
			j.structuralVerifier.CheckMethod(ctx, class, m, func(p problem.Problem) { j.report(p, class.Name) })
			for _, ins := range m.Instructions {
				j.checkInstruction(ctx, class, m, ins, &usages)
			}
		}
	}

	return Result{Outcome: Completed, Problems: j.Registrar.Problems(), Usages: usages}
}

func (j *Job) checkInstruction(ctx context.Context, class *classfile.ClassNode, m *classfile.MethodNode, ins classfile.Instruction, usages *[]Usage) {
	report := func(p problem.Problem) { j.report(p, class.Name) }

	switch {
	case ins.IsMethodInvoke():
		if j.isExternal(ins.Owner) {
			return
		}
		at := reference.InstructionLocation(class.Name, m.Name, m.Desc, ins.Index, opcodeName(ins.Opcode))
		j.instructionVerifier.CheckInvoke(ctx, class, m, ins, at, report)
	case ins.IsFieldAccess():
		if j.isExternal(ins.Owner) {
			return
		}
		at := reference.InstructionLocation(class.Name, m.Name, m.Desc, ins.Index, opcodeName(ins.Opcode))
		j.instructionVerifier.CheckFieldInstruction(ctx, class, m, ins, at, report)
	case ins.IsTypeReference():
		if ins.TypeName == "" || classfile.IsPrimitiveDescriptor(ins.TypeName) || j.isExternal(ins.TypeName) {
			return
		}
		at := reference.InstructionLocation(class.Name, m.Name, m.Desc, ins.Index, opcodeName(ins.Opcode))
		if res := j.Resolver.Find(ctx, ins.TypeName); res.Kind == resolver.NotFound {
			j.report(problem.NewClassNotFound(ins.TypeName, at), class.Name)
		}
	}
}

func (j *Job) isExternal(className string) bool {
	return j.ExternalFilter != nil && j.ExternalFilter.IsExternal(className)
}

func (j *Job) report(p problem.Problem, enclosingClass string) {
	if p.Kind == problem.ClassNotFound && len(p.References) > 0 && j.isExternal(p.References[0].ClassName) {
		return
	}
	j.Registrar.Register(p, enclosingClass)
}

func opcodeName(op classfile.Opcode) string {
	switch op {
	case classfile.InvokeVirtual:
		return "invokevirtual"
	case classfile.InvokeSpecial:
		return "invokespecial"
	case classfile.InvokeStatic:
		return "invokestatic"
	case classfile.InvokeInterface:
		return "invokeinterface"
	case classfile.GetField:
		return "getfield"
	case classfile.PutField:
		return "putfield"
	case classfile.GetStatic:
		return "getstatic"
	case classfile.PutStatic:
		return "putstatic"
	case classfile.Ldc:
		return "ldc"
	case classfile.New:
		return "new"
	case classfile.CheckCast:
		return "checkcast"
	case classfile.InstanceOf:
		return "instanceof"
	case classfile.ANewArray:
		return "anewarray"
	case classfile.MultiANewArray:
		return "multianewarray"
	default:
		return "?"
	}
}
