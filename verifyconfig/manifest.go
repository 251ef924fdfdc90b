/*
 * plugin-verifier - a binary-compatibility verifier for class-file plugins
 * Licensed under the Mozilla Public License 2.0 (MPL 2.0)
 */

package verifyconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Ololoshechkin/plugin-verifier/classfile"
)

// Manifest is a declarative, on-disk stand-in for the bytecode reader
// this repository assumes but does not implement (spec.md §1, Out of
// scope: "the bytecode reader library itself... assumed to produce a
// class-file AST"). It lets the CLI and tests build a verification job
// from plain YAML instead of a jar or directory of .class files.
type Manifest struct {
	Plugin   []ManifestClass `yaml:"plugin"`
	Host     []ManifestClass `yaml:"host"`
	JDK      []ManifestClass `yaml:"jdk"`
	Check    []string        `yaml:"classes_to_check"`
	PluginID string          `yaml:"plugin_id"`

	// Dependencies is the plugin's declared dependency edges (spec.md
	// §4.8); Plugins is the set of dependency plugin ids this manifest
	// can resolve, each with its own class set, standing in for the
	// external DependencyFinder a real deployment would consult.
	Dependencies []ManifestDependency    `yaml:"dependencies"`
	Plugins      map[string]ManifestPlugin `yaml:"plugins"`
}

// ManifestDependency is one declared dependency edge of the plugin under
// verification.
type ManifestDependency struct {
	ID       string `yaml:"id"`
	Optional bool   `yaml:"optional"`
}

// ManifestPlugin is a resolvable dependency plugin: its own class set
// and, transitively, its own declared dependencies.
type ManifestPlugin struct {
	Classes      []ManifestClass       `yaml:"classes"`
	Dependencies []ManifestDependency  `yaml:"dependencies"`
}

// ManifestClass is the YAML shape of one classfile.ClassNode.
type ManifestClass struct {
	Name       string            `yaml:"name"`
	Super      string            `yaml:"super"`
	Interfaces []string          `yaml:"interfaces"`
	Public     bool              `yaml:"public"`
	Final      bool              `yaml:"final"`
	Abstract   bool              `yaml:"abstract"`
	Interface  bool              `yaml:"interface"`
	Methods    []ManifestMethod  `yaml:"methods"`
	Fields     []ManifestField   `yaml:"fields"`
}

// ManifestMethod is the YAML shape of one classfile.MethodNode,
// including its instruction stream.
type ManifestMethod struct {
	Name         string                `yaml:"name"`
	Desc         string                `yaml:"desc"`
	Public       bool                  `yaml:"public"`
	Static       bool                  `yaml:"static"`
	Final        bool                  `yaml:"final"`
	Abstract     bool                  `yaml:"abstract"`
	Private      bool                  `yaml:"private"`
	Native       bool                  `yaml:"native"`
	Varargs      bool                  `yaml:"varargs"`
	Instructions []ManifestInstruction `yaml:"instructions"`
}

// ManifestInstruction is the YAML shape of one classfile.Instruction.
type ManifestInstruction struct {
	Opcode     string `yaml:"opcode"`
	Owner      string `yaml:"owner"`
	Name       string `yaml:"name"`
	Desc       string `yaml:"desc"`
	IsItf      bool   `yaml:"is_itf"`
	TypeName   string `yaml:"type_name"`
	Dimensions int    `yaml:"dimensions"`
}

// ManifestField is the YAML shape of one classfile.FieldNode.
type ManifestField struct {
	Name     string `yaml:"name"`
	Desc     string `yaml:"desc"`
	Public   bool   `yaml:"public"`
	Static   bool   `yaml:"static"`
	Final    bool   `yaml:"final"`
	Private  bool   `yaml:"private"`
}

// LoadManifest reads and parses a Manifest from path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}

var opcodeByName = map[string]classfile.Opcode{
	"invokevirtual":   classfile.InvokeVirtual,
	"invokespecial":   classfile.InvokeSpecial,
	"invokestatic":    classfile.InvokeStatic,
	"invokeinterface": classfile.InvokeInterface,
	"getfield":        classfile.GetField,
	"putfield":        classfile.PutField,
	"getstatic":       classfile.GetStatic,
	"putstatic":       classfile.PutStatic,
	"ldc":             classfile.Ldc,
	"new":             classfile.New,
	"checkcast":       classfile.CheckCast,
	"instanceof":      classfile.InstanceOf,
	"anewarray":       classfile.ANewArray,
	"multianewarray":  classfile.MultiANewArray,
}

// ToClassNodes converts every ManifestClass in classes to a
// *classfile.ClassNode, in the order given.
func ToClassNodes(classes []ManifestClass) []*classfile.ClassNode {
	out := make([]*classfile.ClassNode, 0, len(classes))
	for _, mc := range classes {
		out = append(out, mc.toClassNode())
	}
	return out
}

func (mc ManifestClass) toClassNode() *classfile.ClassNode {
	access := classfile.AccessFlags(0)
	if mc.Public {
		access |= classfile.AccPublic
	}
	if mc.Final {
		access |= classfile.AccFinal
	}
	if mc.Abstract {
		access |= classfile.AccAbstract
	}
	if mc.Interface {
		access |= classfile.AccInterface
	}

	c := &classfile.ClassNode{
		Name:       mc.Name,
		Access:     access,
		Super:      mc.Super,
		Interfaces: mc.Interfaces,
	}
	for _, mm := range mc.Methods {
		c.Methods = append(c.Methods, mm.toMethodNode())
	}
	for _, mf := range mc.Fields {
		c.Fields = append(c.Fields, mf.toFieldNode())
	}
	return c
}

func (mm ManifestMethod) toMethodNode() *classfile.MethodNode {
	access := classfile.AccessFlags(0)
	if mm.Public {
		access |= classfile.AccPublic
	}
	if mm.Static {
		access |= classfile.AccStatic
	}
	if mm.Final {
		access |= classfile.AccFinal
	}
	if mm.Abstract {
		access |= classfile.AccAbstract
	}
	if mm.Private {
		access |= classfile.AccPrivate
	}
	if mm.Native {
		access |= classfile.AccNative
	}
	if mm.Varargs {
		access |= classfile.AccVarargs
	}

	m := &classfile.MethodNode{Name: mm.Name, Desc: mm.Desc, Access: access}
	for i, mi := range mm.Instructions {
		m.Instructions = append(m.Instructions, classfile.Instruction{
			Index:      i,
			Opcode:     opcodeByName[mi.Opcode],
			Owner:      mi.Owner,
			Name:       mi.Name,
			Desc:       mi.Desc,
			IsItf:      mi.IsItf,
			TypeName:   mi.TypeName,
			Dimensions: mi.Dimensions,
		})
	}
	return m
}

func (mf ManifestField) toFieldNode() *classfile.FieldNode {
	access := classfile.AccessFlags(0)
	if mf.Public {
		access |= classfile.AccPublic
	}
	if mf.Static {
		access |= classfile.AccStatic
	}
	if mf.Final {
		access |= classfile.AccFinal
	}
	if mf.Private {
		access |= classfile.AccPrivate
	}
	return &classfile.FieldNode{Name: mf.Name, Desc: mf.Desc, Access: access}
}
