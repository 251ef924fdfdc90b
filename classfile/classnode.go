/*
 * plugin-verifier - a binary-compatibility verifier for class-file plugins
 * Licensed under the Mozilla Public License 2.0 (MPL 2.0)
 */

// Package classfile holds the immutable, already-parsed view of a class
// file that the rest of the engine operates on. It presupposes a bytecode
// reader has already produced a class-file AST (see spec.md §1, Out of
// scope) -- this package never reads bytes off disk or out of a jar.
package classfile

// AccessFlags mirrors the access_flags bitmask of the JVM class file
// format (JVMS §4.1, §4.5, §4.6). It is shared by classes, fields and
// methods; not every bit is meaningful for every owner kind.
type AccessFlags uint16

const (
	AccPublic       AccessFlags = 0x0001
	AccPrivate      AccessFlags = 0x0002
	AccProtected    AccessFlags = 0x0004
	AccStatic       AccessFlags = 0x0008
	AccFinal        AccessFlags = 0x0010
	AccSuper        AccessFlags = 0x0020
	AccSynchronized AccessFlags = 0x0020
	AccBridge       AccessFlags = 0x0040
	AccVarargs      AccessFlags = 0x0080
	AccVolatile     AccessFlags = 0x0040
	AccTransient    AccessFlags = 0x0080
	AccNative       AccessFlags = 0x0100
	AccInterface    AccessFlags = 0x0200
	AccAbstract     AccessFlags = 0x0400
	AccStrict       AccessFlags = 0x0800
	AccSynthetic    AccessFlags = 0x1000
	AccAnnotation   AccessFlags = 0x2000
	AccEnum         AccessFlags = 0x4000
	AccModule       AccessFlags = 0x8000
)

// ClassNode is one loaded class: name, access, superclass, interfaces,
// fields, methods. It is produced lazily by a Resolver and, once
// returned, must remain valid and unmodified for the life of the
// verification run (spec.md §3, Invariants).
type ClassNode struct {
	Name       string // internal name, e.g. "pkg/Sub/Name"
	Access     AccessFlags
	Super      string   // "" for java/lang/Object
	Interfaces []string // ordered, as declared
	Fields     []*FieldNode
	Methods    []*MethodNode

	Deprecated   bool
	Experimental bool
	Internal     bool
}

func (c *ClassNode) IsPublic() bool    { return c.Access&AccPublic != 0 }
func (c *ClassNode) IsFinal() bool     { return c.Access&AccFinal != 0 }
func (c *ClassNode) IsInterface() bool { return c.Access&AccInterface != 0 }
func (c *ClassNode) IsAbstract() bool  { return c.Access&AccAbstract != 0 }
func (c *ClassNode) IsAnnotation() bool { return c.Access&AccAnnotation != 0 }
func (c *ClassNode) IsSynthetic() bool { return c.Access&AccSynthetic != 0 }
func (c *ClassNode) IsEnum() bool      { return c.Access&AccEnum != 0 }

// HasSuper reports whether this class declares a superclass. Only
// java/lang/Object legitimately has none.
func (c *ClassNode) HasSuper() bool { return c.Super != "" }

// FindMethod returns the method declared directly on c matching
// (name, desc), or nil. Declaration order is preserved so callers that
// need deterministic iteration (spec.md §5, Ordering guarantees) can rely
// on slice order rather than map order.
func (c *ClassNode) FindMethod(name, desc string) *MethodNode {
	for _, m := range c.Methods {
		if m.Name == name && m.Desc == desc {
			return m
		}
	}
	return nil
}

// FindMethodsByName returns every method declared directly on c with the
// given name, regardless of descriptor. Used by signature-polymorphic
// detection (spec.md §4.4), which matches by name only.
func (c *ClassNode) FindMethodsByName(name string) []*MethodNode {
	var out []*MethodNode
	for _, m := range c.Methods {
		if m.Name == name {
			out = append(out, m)
		}
	}
	return out
}

// FindField returns the field declared directly on c named name, or nil.
func (c *ClassNode) FindField(name string) *FieldNode {
	for _, f := range c.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// MethodNode is one method or constructor of an owning ClassNode.
type MethodNode struct {
	Name         string
	Desc         string
	Access       AccessFlags
	Instructions []Instruction
	Deprecated   bool
}

func (m *MethodNode) IsStatic() bool     { return m.Access&AccStatic != 0 }
func (m *MethodNode) IsFinal() bool      { return m.Access&AccFinal != 0 }
func (m *MethodNode) IsAbstract() bool   { return m.Access&AccAbstract != 0 }
func (m *MethodNode) IsPrivate() bool    { return m.Access&AccPrivate != 0 }
func (m *MethodNode) IsPublic() bool     { return m.Access&AccPublic != 0 }
func (m *MethodNode) IsProtected() bool  { return m.Access&AccProtected != 0 }
func (m *MethodNode) IsNative() bool     { return m.Access&AccNative != 0 }
func (m *MethodNode) IsVarargs() bool    { return m.Access&AccVarargs != 0 }
func (m *MethodNode) IsBridge() bool     { return m.Access&AccBridge != 0 }
func (m *MethodNode) IsConstructor() bool {
	return m.Name == "<init>"
}
func (m *MethodNode) IsClinit() bool { return m.Name == "<clinit>" }

// IsDefault reports whether m is a default (interface, concrete) method:
// declared on an interface, not abstract, not static.
func (m *MethodNode) IsDefault(owner *ClassNode) bool {
	return owner.IsInterface() && !m.IsAbstract() && !m.IsStatic()
}

// FieldNode is one field of an owning ClassNode.
type FieldNode struct {
	Name          string
	Desc          string
	Access        AccessFlags
	ConstantValue interface{} // non-nil only for static final primitives/String
	Deprecated    bool
}

func (f *FieldNode) IsStatic() bool    { return f.Access&AccStatic != 0 }
func (f *FieldNode) IsFinal() bool     { return f.Access&AccFinal != 0 }
func (f *FieldNode) IsPrivate() bool   { return f.Access&AccPrivate != 0 }
func (f *FieldNode) IsPublic() bool    { return f.Access&AccPublic != 0 }
func (f *FieldNode) IsProtected() bool { return f.Access&AccProtected != 0 }
