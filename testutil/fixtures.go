/*
 * plugin-verifier - a binary-compatibility verifier for class-file plugins
 * Licensed under the Mozilla Public License 2.0 (MPL 2.0)
 */

// Package testutil provides synthetic JDK/host ClassNode fixtures for
// verifier tests, so a test can build a resolver without a real JDK
// archive on disk. The registry-by-signature shape mirrors the
// teacher's own MethodSignatures map (gfunction's Load_Lang_String,
// keyed "owner.name(desc)" -> method descriptor), repurposed here from
// dispatching native implementations to describing fixture method
// shapes declaratively.
package testutil

import "github.com/Ololoshechkin/plugin-verifier/classfile"

// MethodShape is what a fixture registry entry records about one
// method: just enough to build a classfile.MethodNode.
type MethodShape struct {
	Name     string
	Desc     string
	Public   bool
	Static   bool
	Final    bool
	Abstract bool
}

// ClassFixtures is a registry of class-name -> declarative class shape,
// keyed the way the teacher keys MethodSignatures by a qualified
// string, so a test reads "java/lang/Object" rather than constructing
// a ClassNode literal inline every time.
var ClassFixtures = map[string]func() *classfile.ClassNode{
	"java/lang/Object": func() *classfile.ClassNode {
		return &classfile.ClassNode{
			Name:   "java/lang/Object",
			Access: classfile.AccPublic,
			Methods: []*classfile.MethodNode{
				{Name: "toString", Desc: "()Ljava/lang/String;", Access: classfile.AccPublic},
				{Name: "equals", Desc: "(Ljava/lang/Object;)Z", Access: classfile.AccPublic},
				{Name: "hashCode", Desc: "()I", Access: classfile.AccPublic},
				{Name: "<init>", Desc: "()V", Access: classfile.AccPublic},
			},
		}
	},
	"java/lang/String": func() *classfile.ClassNode {
		return &classfile.ClassNode{
			Name:   "java/lang/String",
			Access: classfile.AccPublic | classfile.AccFinal,
			Super:  "java/lang/Object",
			Methods: []*classfile.MethodNode{
				{Name: "length", Desc: "()I", Access: classfile.AccPublic | classfile.AccFinal},
				{Name: "charAt", Desc: "(I)C", Access: classfile.AccPublic | classfile.AccFinal},
				{Name: "<init>", Desc: "()V", Access: classfile.AccPublic},
			},
		}
	},
}

// NewFixtureClass builds the ClassNode registered under name, or nil if
// no such fixture exists.
func NewFixtureClass(name string) *classfile.ClassNode {
	if f, ok := ClassFixtures[name]; ok {
		return f()
	}
	return nil
}

// BuildClass is a small builder for ad hoc test classes beyond the
// fixed ClassFixtures registry.
func BuildClass(name string, access classfile.AccessFlags, super string, interfaces ...string) *classfile.ClassNode {
	return &classfile.ClassNode{Name: name, Access: access, Super: super, Interfaces: interfaces}
}

// AddMethod appends a method built from shape to c and returns it, for
// fluent construction in table-driven tests.
func AddMethod(c *classfile.ClassNode, shape MethodShape) *classfile.ClassNode {
	access := classfile.AccessFlags(0)
	if shape.Public {
		access |= classfile.AccPublic
	}
	if shape.Static {
		access |= classfile.AccStatic
	}
	if shape.Final {
		access |= classfile.AccFinal
	}
	if shape.Abstract {
		access |= classfile.AccAbstract
	}
	c.Methods = append(c.Methods, &classfile.MethodNode{Name: shape.Name, Desc: shape.Desc, Access: access})
	return c
}
