/*
 * plugin-verifier - a binary-compatibility verifier for class-file plugins
 * Licensed under the Mozilla Public License 2.0 (MPL 2.0)
 */

// Package problem implements the tagged defect model of spec.md §3 and
// §9: problems are a closed set of kinds, each carrying exactly the
// references and locations its rendering needs, rather than a class
// hierarchy dispatching on shortDescription/fullDescription.
package problem

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Ololoshechkin/plugin-verifier/classfile"
	"github.com/Ololoshechkin/plugin-verifier/reference"
)

// Kind enumerates every defect category the engine can report. This
// enumeration is the system's public contract (spec.md §3) -- a
// rendering layer pattern-matches on Kind, never on Go's dynamic type.
type Kind int

const (
	ClassNotFound Kind = iota
	PackageNotFound
	InvalidClassFile
	FailedToReadClassFile
	IllegalClassAccess
	MethodNotFound
	IllegalMethodAccess
	AbstractMethodInvocation
	OverridingFinalMethod
	MethodNotImplemented
	MultipleDefaultImplementations
	InvokeStaticOnInstanceMethod
	InvokeVirtualOnStaticMethod
	InvokeSpecialOnStaticMethod
	InvokeInterfaceOnStaticMethod
	InvokeInterfaceOnPrivateMethod
	InvokeClassMethodOnInterface
	IncompatibleClassToInterfaceChange
	IncompatibleInterfaceToClassChange
	InheritFromFinalClass
	SuperClassBecameInterface
	SuperInterfaceBecameClass
	InterfaceInstantiation
	AbstractClassInstantiation
	FieldNotFound
	IllegalFieldAccess
	StaticAccessOfInstanceField
	InstanceAccessOfStaticField
	ChangeFinalField
)

var kindNames = map[Kind]string{
	ClassNotFound:                      "ClassNotFound",
	PackageNotFound:                    "PackageNotFound",
	InvalidClassFile:                   "InvalidClassFile",
	FailedToReadClassFile:              "FailedToReadClassFile",
	IllegalClassAccess:                 "IllegalClassAccess",
	MethodNotFound:                     "MethodNotFound",
	IllegalMethodAccess:                "IllegalMethodAccess",
	AbstractMethodInvocation:           "AbstractMethodInvocation",
	OverridingFinalMethod:              "OverridingFinalMethod",
	MethodNotImplemented:               "MethodNotImplemented",
	MultipleDefaultImplementations:     "MultipleDefaultImplementations",
	InvokeStaticOnInstanceMethod:       "InvokeStaticOnInstanceMethod",
	InvokeVirtualOnStaticMethod:        "InvokeVirtualOnStaticMethod",
	InvokeSpecialOnStaticMethod:        "InvokeSpecialOnStaticMethod",
	InvokeInterfaceOnStaticMethod:      "InvokeInterfaceOnStaticMethod",
	InvokeInterfaceOnPrivateMethod:     "InvokeInterfaceOnPrivateMethod",
	InvokeClassMethodOnInterface:       "InvokeClassMethodOnInterface",
	IncompatibleClassToInterfaceChange: "IncompatibleClassToInterfaceChange",
	IncompatibleInterfaceToClassChange: "IncompatibleInterfaceToClassChange",
	InheritFromFinalClass:              "InheritFromFinalClass",
	SuperClassBecameInterface:          "SuperClassBecameInterface",
	SuperInterfaceBecameClass:          "SuperInterfaceBecameClass",
	InterfaceInstantiation:             "InterfaceInstantiation",
	AbstractClassInstantiation:         "AbstractClassInstantiation",
	FieldNotFound:                      "FieldNotFound",
	IllegalFieldAccess:                 "IllegalFieldAccess",
	StaticAccessOfInstanceField:        "StaticAccessOfInstanceField",
	InstanceAccessOfStaticField:        "InstanceAccessOfStaticField",
	ChangeFinalField:                   "ChangeFinalField",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Problem is one reported defect. References and Locations hold whatever
// subset of data the Kind's rendering needs; most kinds populate exactly
// one of each. AccessLevel is only meaningful for the three
// Illegal*Access kinds. Children is only populated for PackageNotFound,
// which aggregates a batch of ClassNotFound problems sharing a package
// prefix (spec.md §4.9).
type Problem struct {
	Kind Kind

	References []reference.SymbolicReference
	Locations  []reference.Location

	AccessLevel classfile.AccessLevel

	// PackagePrefix is populated only for PackageNotFound.
	PackagePrefix string
	// Children is populated only for PackageNotFound: the ClassNotFound
	// problems it aggregates, retained for detail views (spec.md §7).
	Children []Problem

	// Detail carries kind-specific free text (e.g. an I/O error or an
	// ASM parse error message) for FailedToReadClassFile/InvalidClassFile.
	Detail string
}

// ShortDescription is a one-line rendering of the problem kind and its
// primary reference, for list views.
func (p Problem) ShortDescription() string {
	switch p.Kind {
	case PackageNotFound:
		return fmt.Sprintf("package %s not found (%d classes)", p.PackagePrefix, len(p.Children))
	case ClassNotFound:
		return fmt.Sprintf("class %s not found", p.refString(0))
	default:
		return fmt.Sprintf("%s: %s", p.Kind, p.refString(0))
	}
}

// FullDescription is a multi-line rendering including every reference,
// location and the access level (when relevant), for detail views.
func (p Problem) FullDescription() string {
	var b strings.Builder
	b.WriteString(p.ShortDescription())
	if p.Kind == IllegalClassAccess || p.Kind == IllegalMethodAccess || p.Kind == IllegalFieldAccess {
		fmt.Fprintf(&b, " (%s access)", p.AccessLevel)
	}
	for _, l := range p.Locations {
		fmt.Fprintf(&b, "\n  at %s", l)
	}
	if p.Detail != "" {
		fmt.Fprintf(&b, "\n  %s", p.Detail)
	}
	return b.String()
}

func (p Problem) refString(i int) string {
	if i >= len(p.References) {
		return "?"
	}
	return p.References[i].String()
}

// CanonicalKey is the deduplication key of spec.md §3's invariant: a
// Problem is produced at most once per (kind, references, enclosing
// location) tuple within a single run. Two Problems with equal
// CanonicalKey are considered the same finding.
func (p Problem) CanonicalKey() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d|", p.Kind)
	for _, r := range p.References {
		fmt.Fprintf(&b, "%d:%s|", r.Kind, r)
	}
	for _, l := range p.Locations {
		fmt.Fprintf(&b, "%d:%s|", l.Kind, l)
	}
	if p.Kind == PackageNotFound {
		fmt.Fprintf(&b, "%s|", p.PackagePrefix)
	}
	return b.String()
}

// SortByCanonicalKey orders problems deterministically for reporting
// (spec.md §5, Ordering guarantees) independent of the order they were
// discovered or registered in.
func SortByCanonicalKey(problems []Problem) {
	sort.Slice(problems, func(i, j int) bool {
		return problems[i].CanonicalKey() < problems[j].CanonicalKey()
	})
}
