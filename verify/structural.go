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

// StructuralVerifier implements the class-level (spec.md §4.6) and
// method-level (spec.md §4.7) checks: hierarchy-shape regressions
// (interface/class swaps, final inheritance), missing abstract-method
// implementations, conflicting default methods, illegal instantiation,
// and final-method overrides. Grounded in the teacher's
// instantiateClass (jvm/instantiate.go), which already special-cases
// "cannot instantiate an abstract class or interface" before
// allocating -- generalized here from a runtime guard raising
// InstantiationError into a static, pre-execution problem report.
type StructuralVerifier struct {
	Resolver  resolver.Resolver
	Hierarchy *Hierarchy
}

func NewStructuralVerifier(r resolver.Resolver) *StructuralVerifier {
	return &StructuralVerifier{Resolver: r, Hierarchy: NewHierarchy(r)}
}

// CheckClass runs every class-level check of spec.md §4.6 against n,
// reporting results through report.
func (sv *StructuralVerifier) CheckClass(ctx context.Context, n *classfile.ClassNode, report func(problem.Problem)) {
	loc := reference.ClassLocation(n.Name)

	if n.HasSuper() {
		if res := sv.Resolver.Find(ctx, n.Super); res.Kind == resolver.Found {
			switch {
			case res.Class.IsInterface():
				report(problem.Problem{Kind: problem.SuperClassBecameInterface, References: []reference.SymbolicReference{reference.ClassRef(n.Super)}, Locations: []reference.Location{loc}})
			case res.Class.IsFinal():
				report(problem.Problem{Kind: problem.InheritFromFinalClass, References: []reference.SymbolicReference{reference.ClassRef(n.Super)}, Locations: []reference.Location{loc}})
			}
		} else if res.Kind == resolver.NotFound {
			report(problem.NewClassNotFound(n.Super, loc))
		}
	}

	for _, ifaceName := range n.Interfaces {
		res := sv.Resolver.Find(ctx, ifaceName)
		switch res.Kind {
		case resolver.Found:
			if !res.Class.IsInterface() {
				report(problem.Problem{Kind: problem.SuperInterfaceBecameClass, References: []reference.SymbolicReference{reference.ClassRef(ifaceName)}, Locations: []reference.Location{loc}})
			}
		case resolver.NotFound:
			report(problem.NewClassNotFound(ifaceName, loc))
		}
	}

	if !n.IsAbstract() && !n.IsInterface() {
		sv.checkMissingImplementations(ctx, n, report)
	}
	sv.checkMultipleDefaults(ctx, n, report)
	sv.checkInstantiations(ctx, n, report)
}

// abstractSignature is a (name, desc) pair used as a set key when
// collecting abstract methods inherited without a concrete override.
type abstractSignature struct{ name, desc string }

// checkMissingImplementations walks every supertype of n collecting
// abstract method signatures, then subtracts any signature that has a
// concrete (non-abstract) override somewhere along the chain,
// including on n itself (spec.md §4.6).
func (sv *StructuralVerifier) checkMissingImplementations(ctx context.Context, n *classfile.ClassNode, report func(problem.Problem)) {
	abstractOwners := map[abstractSignature]*classfile.ClassNode{}
	concrete := map[abstractSignature]bool{}

	record := func(class *classfile.ClassNode) {
		for _, m := range class.Methods {
			sig := abstractSignature{m.Name, m.Desc}
			if m.IsAbstract() {
				if _, exists := abstractOwners[sig]; !exists {
					abstractOwners[sig] = class
				}
			} else if !m.IsStatic() {
				concrete[sig] = true
			}
		}
	}

	record(n)
	sv.Hierarchy.Superclasses(ctx, n.Name, report, record)
	for _, iface := range sv.Hierarchy.AllSuperinterfaces(ctx, n.Name, report) {
		record(iface)
	}

	for sig, owner := range abstractOwners {
		if concrete[sig] {
			continue
		}
		report(problem.Problem{
			Kind:       problem.MethodNotImplemented,
			References: []reference.SymbolicReference{reference.MethodRef(owner.Name, sig.name, sig.desc)},
			Locations:  []reference.Location{reference.ClassLocation(n.Name)},
		})
	}
}

// checkMultipleDefaults implements spec.md §4.6's
// MultipleDefaultImplementations check: two or more unrelated
// superinterfaces declare a non-abstract default method with the same
// (name, desc), and n provides no overriding concrete method.
func (sv *StructuralVerifier) checkMultipleDefaults(ctx context.Context, n *classfile.ClassNode, report func(problem.Problem)) {
	bySig := map[abstractSignature][]*classfile.ClassNode{}
	for _, iface := range sv.Hierarchy.AllSuperinterfaces(ctx, n.Name, report) {
		for _, m := range iface.Methods {
			if m.IsDefault(iface) {
				sig := abstractSignature{m.Name, m.Desc}
				bySig[sig] = append(bySig[sig], iface)
			}
		}
	}
	for sig, owners := range bySig {
		// a default declared in I is overridden by one declared in a
		// subinterface of I, so only unrelated declarers conflict
		var unrelated []*classfile.ClassNode
		for _, o := range owners {
			shadowed := false
			for _, other := range owners {
				if other != o && sv.Hierarchy.IsSubclassOrSelf(ctx, other.Name, o.Name, nil) {
					shadowed = true
					break
				}
			}
			if !shadowed {
				unrelated = append(unrelated, o)
			}
		}
		if len(unrelated) < 2 {
			continue
		}
		if n.FindMethod(sig.name, sig.desc) != nil {
			continue // n overrides directly, conflict resolved
		}
		refs := make([]reference.SymbolicReference, 0, len(unrelated))
		for _, o := range unrelated {
			refs = append(refs, reference.MethodRef(o.Name, sig.name, sig.desc))
		}
		report(problem.Problem{
			Kind:       problem.MultipleDefaultImplementations,
			References: refs,
			Locations:  []reference.Location{reference.ClassLocation(n.Name)},
		})
	}
}

// checkInstantiations scans every method body of n for `new T`
// instructions, reporting AbstractClassInstantiation/
// InterfaceInstantiation when T no longer permits instantiation
// (spec.md §4.6).
func (sv *StructuralVerifier) checkInstantiations(ctx context.Context, n *classfile.ClassNode, report func(problem.Problem)) {
	for _, m := range n.Methods {
		for _, ins := range m.Instructions {
			if ins.Opcode != classfile.New {
				continue
			}
			at := reference.InstructionLocation(n.Name, m.Name, m.Desc, ins.Index, "new")
			res := sv.Resolver.Find(ctx, ins.TypeName)
			switch res.Kind {
			case resolver.NotFound:
				report(problem.NewClassNotFound(ins.TypeName, at))
			case resolver.Found:
				switch {
				case res.Class.IsInterface():
					report(problem.Problem{Kind: problem.InterfaceInstantiation, References: []reference.SymbolicReference{reference.ClassRef(ins.TypeName)}, Locations: []reference.Location{at}})
				case res.Class.IsAbstract():
					report(problem.Problem{Kind: problem.AbstractClassInstantiation, References: []reference.SymbolicReference{reference.ClassRef(ins.TypeName)}, Locations: []reference.Location{at}})
				}
			}
		}
	}
}

// CheckMethod runs the method-level check of spec.md §4.7 for
// non-private method m declared on n: if an ancestor declares the same
// (name, desc) and that ancestor method is final and concrete, report
// OverridingFinalMethod.
func (sv *StructuralVerifier) CheckMethod(ctx context.Context, n *classfile.ClassNode, m *classfile.MethodNode, report func(problem.Problem)) {
	if m.IsPrivate() || m.IsStatic() || m.IsConstructor() || m.IsClinit() {
		return
	}
	var ancestorMatch *classfile.MethodNode
	var ancestorOwner *classfile.ClassNode
	sv.Hierarchy.Superclasses(ctx, n.Name, report, func(ancestor *classfile.ClassNode) {
		if ancestorMatch != nil {
			return
		}
		if found := ancestor.FindMethod(m.Name, m.Desc); found != nil {
			ancestorMatch = found
			ancestorOwner = ancestor
		}
	})
	if ancestorMatch != nil && ancestorMatch.IsFinal() && !ancestorMatch.IsAbstract() {
		report(problem.Problem{
			Kind:       problem.OverridingFinalMethod,
			References: []reference.SymbolicReference{reference.MethodRef(ancestorOwner.Name, ancestorMatch.Name, ancestorMatch.Desc)},
			Locations:  []reference.Location{reference.MethodLocation(n.Name, m.Name, m.Desc)},
		})
	}
}
