/*
 * plugin-verifier - a binary-compatibility verifier for class-file plugins
 * Licensed under the Mozilla Public License 2.0 (MPL 2.0)
 */

package verify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ololoshechkin/plugin-verifier/classfile"
	"github.com/Ololoshechkin/plugin-verifier/problem"
	"github.com/Ololoshechkin/plugin-verifier/resolver"
)

func TestCheckClassSuperClassBecameInterface(t *testing.T) {
	ctx := context.Background()
	super := &classfile.ClassNode{Name: "p/A", Access: classfile.AccInterface}
	n := &classfile.ClassNode{Name: "q/B", Super: "p/A"}
	sv := NewStructuralVerifier(resolver.NewMapResolver("t", super, n))

	var reported []problem.Problem
	sv.CheckClass(ctx, n, func(p problem.Problem) { reported = append(reported, p) })
	assertContainsKind(t, reported, problem.SuperClassBecameInterface)
}

func TestCheckClassInheritFromFinalClass(t *testing.T) {
	ctx := context.Background()
	super := &classfile.ClassNode{Name: "p/A", Access: classfile.AccFinal}
	n := &classfile.ClassNode{Name: "q/B", Super: "p/A"}
	sv := NewStructuralVerifier(resolver.NewMapResolver("t", super, n))

	var reported []problem.Problem
	sv.CheckClass(ctx, n, func(p problem.Problem) { reported = append(reported, p) })
	assertContainsKind(t, reported, problem.InheritFromFinalClass)
}

func TestCheckClassSuperInterfaceBecameClass(t *testing.T) {
	ctx := context.Background()
	iface := &classfile.ClassNode{Name: "p/Iface"} // no longer an interface
	n := &classfile.ClassNode{Name: "q/Impl", Interfaces: []string{"p/Iface"}}
	sv := NewStructuralVerifier(resolver.NewMapResolver("t", iface, n))

	var reported []problem.Problem
	sv.CheckClass(ctx, n, func(p problem.Problem) { reported = append(reported, p) })
	assertContainsKind(t, reported, problem.SuperInterfaceBecameClass)
}

func TestCheckClassMissingImplementation(t *testing.T) {
	ctx := context.Background()
	abstractBase := &classfile.ClassNode{
		Name: "p/Base", Access: classfile.AccAbstract,
		Methods: []*classfile.MethodNode{{Name: "m", Desc: "()V", Access: classfile.AccPublic | classfile.AccAbstract}},
	}
	n := &classfile.ClassNode{Name: "q/Concrete", Super: "p/Base"} // does not override m
	sv := NewStructuralVerifier(resolver.NewMapResolver("t", abstractBase, n))

	var reported []problem.Problem
	sv.CheckClass(ctx, n, func(p problem.Problem) { reported = append(reported, p) })
	assertContainsKind(t, reported, problem.MethodNotImplemented)
}

func TestCheckClassMultipleDefaultImplementations(t *testing.T) {
	ctx := context.Background()
	i1 := &classfile.ClassNode{Name: "p/I1", Access: classfile.AccInterface,
		Methods: []*classfile.MethodNode{{Name: "m", Desc: "()V", Access: classfile.AccPublic}}}
	i2 := &classfile.ClassNode{Name: "p/I2", Access: classfile.AccInterface,
		Methods: []*classfile.MethodNode{{Name: "m", Desc: "()V", Access: classfile.AccPublic}}}
	n := &classfile.ClassNode{Name: "q/C", Interfaces: []string{"p/I1", "p/I2"}}
	sv := NewStructuralVerifier(resolver.NewMapResolver("t", i1, i2, n))

	var reported []problem.Problem
	sv.CheckClass(ctx, n, func(p problem.Problem) { reported = append(reported, p) })
	assertContainsKind(t, reported, problem.MultipleDefaultImplementations)
}

func TestCheckClassInstantiationOfAbstractAndInterface(t *testing.T) {
	ctx := context.Background()
	abstractClass := &classfile.ClassNode{Name: "p/Abstract", Access: classfile.AccAbstract}
	iface := &classfile.ClassNode{Name: "p/Iface", Access: classfile.AccInterface}
	n := &classfile.ClassNode{
		Name: "q/C",
		Methods: []*classfile.MethodNode{
			{Name: "run", Desc: "()V", Instructions: []classfile.Instruction{
				{Index: 0, Opcode: classfile.New, TypeName: "p/Abstract"},
				{Index: 1, Opcode: classfile.New, TypeName: "p/Iface"},
			}},
		},
	}
	sv := NewStructuralVerifier(resolver.NewMapResolver("t", abstractClass, iface, n))

	var reported []problem.Problem
	sv.CheckClass(ctx, n, func(p problem.Problem) { reported = append(reported, p) })
	assertContainsKind(t, reported, problem.AbstractClassInstantiation)
	assertContainsKind(t, reported, problem.InterfaceInstantiation)
}

func TestCheckMethodOverridingFinal(t *testing.T) {
	ctx := context.Background()
	base := &classfile.ClassNode{Name: "p/A", Methods: []*classfile.MethodNode{
		{Name: "m", Desc: "()V", Access: classfile.AccPublic | classfile.AccFinal},
	}}
	sub := &classfile.ClassNode{Name: "q/B", Super: "p/A", Methods: []*classfile.MethodNode{
		{Name: "m", Desc: "()V", Access: classfile.AccPublic},
	}}
	sv := NewStructuralVerifier(resolver.NewMapResolver("t", base, sub))

	var reported []problem.Problem
	sv.CheckMethod(ctx, sub, sub.Methods[0], func(p problem.Problem) { reported = append(reported, p) })
	assertContainsKind(t, reported, problem.OverridingFinalMethod)
}

func TestCheckMethodPrivateMethodsSkipped(t *testing.T) {
	ctx := context.Background()
	base := &classfile.ClassNode{Name: "p/A", Methods: []*classfile.MethodNode{
		{Name: "m", Desc: "()V", Access: classfile.AccPublic | classfile.AccFinal},
	}}
	sub := &classfile.ClassNode{Name: "q/B", Super: "p/A", Methods: []*classfile.MethodNode{
		{Name: "m", Desc: "()V", Access: classfile.AccPrivate},
	}}
	sv := NewStructuralVerifier(resolver.NewMapResolver("t", base, sub))

	var reported []problem.Problem
	sv.CheckMethod(ctx, sub, sub.Methods[0], func(p problem.Problem) { reported = append(reported, p) })
	assert.Empty(t, reported)
}

func assertContainsKind(t *testing.T, problems []problem.Problem, want problem.Kind) {
	t.Helper()
	for _, p := range problems {
		if p.Kind == want {
			return
		}
	}
	require.Failf(t, "missing expected problem kind", "%v not found in %v", want, problems)
}
