/*
 * plugin-verifier - a binary-compatibility verifier for class-file plugins
 * Licensed under the Mozilla Public License 2.0 (MPL 2.0)
 */

package classfile

import "testing"

func alwaysSubclass(_, _ string) bool { return true }
func neverSubclass(_, _ string) bool  { return false }

func TestAccessiblePublic(t *testing.T) {
	ok, _ := Accessible("p/A", AccPublic, "q/B", neverSubclass)
	if !ok {
		t.Error("public member must always be accessible")
	}
}

func TestAccessiblePrivateSameClass(t *testing.T) {
	ok, _ := Accessible("p/A", AccPrivate, "p/A", neverSubclass)
	if !ok {
		t.Error("private member must be accessible from its own declaring class")
	}
}

func TestAccessiblePrivateOtherClass(t *testing.T) {
	ok, level := Accessible("p/A", AccPrivate, "p/B", neverSubclass)
	if ok || level != LevelPrivate {
		t.Errorf("private member must not be accessible from another class, got ok=%v level=%v", ok, level)
	}
}

func TestAccessibleProtectedSamePackage(t *testing.T) {
	ok, _ := Accessible("p/A", AccProtected, "p/B", neverSubclass)
	if !ok {
		t.Error("protected member must be accessible from the same package even without subclassing")
	}
}

func TestAccessibleProtectedSubclassDifferentPackage(t *testing.T) {
	ok, _ := Accessible("p/A", AccProtected, "q/B", alwaysSubclass)
	if !ok {
		t.Error("protected member must be accessible from a subclass in another package")
	}
}

func TestAccessibleProtectedUnrelatedDifferentPackage(t *testing.T) {
	ok, level := Accessible("p/A", AccProtected, "q/B", neverSubclass)
	if ok || level != LevelProtected {
		t.Errorf("protected member must not be accessible from an unrelated class in another package, got ok=%v level=%v", ok, level)
	}
}

func TestAccessibleDefaultSamePackage(t *testing.T) {
	ok, _ := Accessible("p/A", 0, "p/B", neverSubclass)
	if !ok {
		t.Error("default-access member must be accessible from the same package")
	}
}

func TestAccessibleDefaultDifferentPackage(t *testing.T) {
	ok, level := Accessible("p/A", 0, "q/B", alwaysSubclass)
	if ok || level != LevelPackagePrivate {
		t.Errorf("default-access member must not be accessible across packages even via subclassing, got ok=%v level=%v", ok, level)
	}
}

func TestSamePackage(t *testing.T) {
	if !SamePackage("p/q/A", "p/q/B") {
		t.Error("expected p/q/A and p/q/B to share a package")
	}
	if SamePackage("p/A", "q/B") {
		t.Error("expected p/A and q/B to be in different packages")
	}
}

func TestIsSignaturePolymorphic(t *testing.T) {
	m := &MethodNode{Name: "invoke", Desc: "([Ljava/lang/Object;)Ljava/lang/Object;", Access: AccVarargs | AccNative}
	if !IsSignaturePolymorphic("java/lang/invoke/MethodHandle", m) {
		t.Error("expected MethodHandle.invoke to be signature-polymorphic")
	}
	if IsSignaturePolymorphic("java/lang/Object", m) {
		t.Error("non-MethodHandle/VarHandle owners must never be signature-polymorphic")
	}
	notVarargs := &MethodNode{Name: "invoke", Desc: "([Ljava/lang/Object;)Ljava/lang/Object;", Access: AccNative}
	if IsSignaturePolymorphic("java/lang/invoke/MethodHandle", notVarargs) {
		t.Error("a non-varargs method must not be treated as signature-polymorphic")
	}
}
