/*
 * plugin-verifier - a binary-compatibility verifier for class-file plugins
 * Licensed under the Mozilla Public License 2.0 (MPL 2.0)
 */

// Package reference holds the symbolic reference and location value
// types spec.md §3 defines: the data a Problem carries to describe what
// was referenced and where the reference occurred. Both are plain value
// types with equality by fields, grounded in the teacher's own
// CPutils.go convention of passing (className, methodName, methodDesc)
// triples around rather than wrapping them in a class hierarchy.
package reference

import "fmt"

// SymbolicReferenceKind tags which flavor of reference a SymbolicReference
// carries.
type SymbolicReferenceKind int

const (
	ClassReferenceKind SymbolicReferenceKind = iota
	MethodReferenceKind
	FieldReferenceKind
)

// SymbolicReference is a (name[, name, descriptor]) tuple naming a
// class/method/field in bytecode, prior to resolution (spec.md GLOSSARY).
// Two SymbolicReferences with equal fields are equal (it is a plain
// struct, safe to use as a map key).
type SymbolicReference struct {
	Kind SymbolicReferenceKind

	// ClassName is populated for every kind: for a class reference it IS
	// the reference; for a method/field reference it is the owner.
	ClassName string

	// Member name/descriptor, populated for Method/Field references.
	Name string
	Desc string
}

func ClassRef(name string) SymbolicReference {
	return SymbolicReference{Kind: ClassReferenceKind, ClassName: name}
}

func MethodRef(owner, name, desc string) SymbolicReference {
	return SymbolicReference{Kind: MethodReferenceKind, ClassName: owner, Name: name, Desc: desc}
}

func FieldRef(owner, name, desc string) SymbolicReference {
	return SymbolicReference{Kind: FieldReferenceKind, ClassName: owner, Name: name, Desc: desc}
}

// String renders a SymbolicReference the way a report would: "owner" for
// a class, "owner.name:desc" for a member.
func (r SymbolicReference) String() string {
	switch r.Kind {
	case MethodReferenceKind:
		return fmt.Sprintf("%s.%s%s", r.ClassName, r.Name, r.Desc)
	case FieldReferenceKind:
		return fmt.Sprintf("%s.%s:%s", r.ClassName, r.Name, r.Desc)
	default:
		return r.ClassName
	}
}

// LocationKind tags which flavor of concrete source a Location names.
type LocationKind int

const (
	ClassLocationKind LocationKind = iota
	MethodLocationKind
	FieldLocationKind
	InstructionLocationKind
)

// Location is the concrete source of a finding (spec.md §3): a class, a
// method on a class, a field on a class, or one instruction inside a
// method. Value semantics; equal fields compare equal.
type Location struct {
	Kind LocationKind

	ClassName string

	// Populated for Method/Instruction locations.
	MethodName string
	MethodDesc string

	// Populated for Field locations.
	FieldName string
	FieldDesc string

	// Populated for Instruction locations.
	InstructionIndex int
	Opcode           string
}

func ClassLocation(className string) Location {
	return Location{Kind: ClassLocationKind, ClassName: className}
}

func MethodLocation(className, methodName, methodDesc string) Location {
	return Location{Kind: MethodLocationKind, ClassName: className, MethodName: methodName, MethodDesc: methodDesc}
}

func FieldLocation(className, fieldName, fieldDesc string) Location {
	return Location{Kind: FieldLocationKind, ClassName: className, FieldName: fieldName, FieldDesc: fieldDesc}
}

func InstructionLocation(className, methodName, methodDesc string, index int, opcode string) Location {
	return Location{
		Kind: InstructionLocationKind, ClassName: className,
		MethodName: methodName, MethodDesc: methodDesc,
		InstructionIndex: index, Opcode: opcode,
	}
}

// String renders a Location for reports and canonical dedup keys.
func (l Location) String() string {
	switch l.Kind {
	case MethodLocationKind:
		return fmt.Sprintf("%s.%s%s", l.ClassName, l.MethodName, l.MethodDesc)
	case FieldLocationKind:
		return fmt.Sprintf("%s.%s:%s", l.ClassName, l.FieldName, l.FieldDesc)
	case InstructionLocationKind:
		return fmt.Sprintf("%s.%s%s#%d(%s)", l.ClassName, l.MethodName, l.MethodDesc, l.InstructionIndex, l.Opcode)
	default:
		return l.ClassName
	}
}
