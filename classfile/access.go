/*
 * plugin-verifier - a binary-compatibility verifier for class-file plugins
 * Licensed under the Mozilla Public License 2.0 (MPL 2.0)
 */

package classfile

import "strings"

// AccessLevel names the access level a failed accessibility check was
// evaluated against, for IllegalMethodAccess/IllegalFieldAccess/
// IllegalClassAccess problem reporting (spec.md §3).
type AccessLevel int

const (
	LevelPrivate AccessLevel = iota
	LevelProtected
	LevelPackagePrivate
)

func (l AccessLevel) String() string {
	switch l {
	case LevelPrivate:
		return "private"
	case LevelProtected:
		return "protected"
	case LevelPackagePrivate:
		return "package-private"
	default:
		return "unknown"
	}
}

// SamePackage reports whether two internal class names share a package,
// by stripping the last '/'-delimited segment of each and comparing
// (spec.md §4.2).
func SamePackage(a, b string) bool {
	return packageOf(a) == packageOf(b)
}

func packageOf(internalName string) string {
	i := strings.LastIndexByte(internalName, '/')
	if i < 0 {
		return ""
	}
	return internalName[:i]
}

// Accessible implements the "R accessible from D" rule of spec.md §4.2.
// declaring is R's declaring class; accessFlags is R's own access flags;
// d is the class attempting the access; subclassOrSelf reports whether
// its first argument is a subclass-or-self of its second (callers pass
// a Hierarchy-backed closure so this package stays free of Resolver
// dependencies).
func Accessible(declaring string, accessFlags AccessFlags, d string, subclassOrSelf func(child, parent string) bool) (bool, AccessLevel) {
	switch {
	case accessFlags&AccPublic != 0:
		return true, 0
	case accessFlags&AccProtected != 0:
		if SamePackage(d, declaring) {
			return true, 0
		}
		if subclassOrSelf(d, declaring) {
			return true, 0
		}
		return false, LevelProtected
	case accessFlags&AccPrivate != 0:
		if d == declaring {
			return true, 0
		}
		return false, LevelPrivate
	default: // default (package-private) access
		if SamePackage(d, declaring) {
			return true, 0
		}
		return false, LevelPackagePrivate
	}
}

// signaturePolymorphicOwners are the only two classes whose methods can
// be signature-polymorphic (JVMS §2.9.3; spec.md §4.4 and §9 Open
// Questions -- detection is deliberately narrow and must not be
// broadened beyond this exact shape).
var signaturePolymorphicOwners = map[string]bool{
	"java/lang/invoke/MethodHandle": true,
	"java/lang/invoke/VarHandle":    true,
}

// IsSignaturePolymorphic reports whether m, declared on a class named
// ownerName, qualifies as a signature-polymorphic method: owner is
// MethodHandle or VarHandle, the method is both varargs and native, and
// its descriptor has exactly one parameter of type Object[].
func IsSignaturePolymorphic(ownerName string, m *MethodNode) bool {
	if !signaturePolymorphicOwners[ownerName] {
		return false
	}
	if !m.IsVarargs() || !m.IsNative() {
		return false
	}
	params, err := DescriptorParameterTypes(m.Desc)
	if err != nil || len(params) != 1 {
		return false
	}
	return params[0] == "[Ljava/lang/Object;"
}
