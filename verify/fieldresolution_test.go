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
	"github.com/Ololoshechkin/plugin-verifier/reference"
	"github.com/Ololoshechkin/plugin-verifier/resolver"
)

func TestResolveFieldOnClassItself(t *testing.T) {
	ctx := context.Background()
	c := &classfile.ClassNode{Name: "p/A", Fields: []*classfile.FieldNode{{Name: "x", Desc: "I", Access: classfile.AccPublic}}}
	fr := NewFieldResolver(resolver.NewMapResolver("t", c))
	lookup := fr.ResolveField(ctx, c, "x", func(problem.Problem) {})
	require.Equal(t, LookupFound, lookup.Kind)
	assert.Equal(t, "p/A", lookup.Owner.Name)
}

func TestResolveFieldViaSuperinterfaceBeforeSuperclass(t *testing.T) {
	ctx := context.Background()
	iface := &classfile.ClassNode{Name: "p/I", Access: classfile.AccInterface, Fields: []*classfile.FieldNode{
		{Name: "x", Desc: "I", Access: classfile.AccPublic | classfile.AccStatic | classfile.AccFinal},
	}}
	super := &classfile.ClassNode{Name: "p/Super", Fields: []*classfile.FieldNode{
		{Name: "x", Desc: "I", Access: classfile.AccPublic},
	}}
	class := &classfile.ClassNode{Name: "p/Sub", Super: "p/Super", Interfaces: []string{"p/I"}}
	r := resolver.NewMapResolver("t", iface, super, class)
	fr := NewFieldResolver(r)

	lookup := fr.ResolveField(ctx, class, "x", func(problem.Problem) {})
	require.Equal(t, LookupFound, lookup.Kind)
	assert.Equal(t, "p/I", lookup.Owner.Name)
}

func TestResolveFieldNotFound(t *testing.T) {
	ctx := context.Background()
	c := &classfile.ClassNode{Name: "p/A"}
	fr := NewFieldResolver(resolver.NewMapResolver("t", c))
	lookup := fr.ResolveField(ctx, c, "missing", func(problem.Problem) {})
	assert.Equal(t, LookupNotFound, lookup.Kind)
}

func TestCheckFieldAccessKindStaticOnInstance(t *testing.T) {
	field := &classfile.FieldNode{Name: "x", Desc: "I", Access: classfile.AccPublic}
	owner := &classfile.ClassNode{Name: "p/A"}
	p := CheckFieldAccessKind(GetStatic, field, owner, reference.ClassLocation("q/Caller"))
	require.NotNil(t, p)
	assert.Equal(t, problem.StaticAccessOfInstanceField, p.Kind)
}

func TestCheckFieldAccessKindInstanceOnStatic(t *testing.T) {
	field := &classfile.FieldNode{Name: "x", Desc: "I", Access: classfile.AccPublic | classfile.AccStatic}
	owner := &classfile.ClassNode{Name: "p/A"}
	p := CheckFieldAccessKind(GetField, field, owner, reference.ClassLocation("q/Caller"))
	require.NotNil(t, p)
	assert.Equal(t, problem.InstanceAccessOfStaticField, p.Kind)
}

func TestCheckFieldAccessKindConsistentReturnsNil(t *testing.T) {
	field := &classfile.FieldNode{Name: "x", Desc: "I", Access: classfile.AccPublic}
	owner := &classfile.ClassNode{Name: "p/A"}
	assert.Nil(t, CheckFieldAccessKind(GetField, field, owner, reference.ClassLocation("q/Caller")))
}

func TestCheckChangeFinalFieldAllowedFromOwnConstructor(t *testing.T) {
	field := &classfile.FieldNode{Name: "x", Desc: "I", Access: classfile.AccPublic | classfile.AccFinal}
	owner := &classfile.ClassNode{Name: "p/A"}
	ctor := &classfile.MethodNode{Name: "<init>", Desc: "()V"}
	p := CheckChangeFinalField(PutField, field, owner, "p/A", ctor, reference.ClassLocation("p/A"))
	assert.Nil(t, p)
}

func TestCheckChangeFinalFieldRejectedFromOtherClass(t *testing.T) {
	field := &classfile.FieldNode{Name: "x", Desc: "I", Access: classfile.AccPublic | classfile.AccFinal}
	owner := &classfile.ClassNode{Name: "p/A"}
	other := &classfile.MethodNode{Name: "tamper", Desc: "()V"}
	p := CheckChangeFinalField(PutField, field, owner, "q/B", other, reference.ClassLocation("q/B"))
	require.NotNil(t, p)
	assert.Equal(t, problem.ChangeFinalField, p.Kind)
}

func TestCheckChangeFinalFieldStaticRequiresClinit(t *testing.T) {
	field := &classfile.FieldNode{Name: "x", Desc: "I", Access: classfile.AccPublic | classfile.AccStatic | classfile.AccFinal}
	owner := &classfile.ClassNode{Name: "p/A"}
	notClinit := &classfile.MethodNode{Name: "mutate", Desc: "()V"}
	p := CheckChangeFinalField(PutStatic, field, owner, "p/A", notClinit, reference.ClassLocation("p/A"))
	require.NotNil(t, p)
	assert.Equal(t, problem.ChangeFinalField, p.Kind)
}
