/*
 * plugin-verifier - a binary-compatibility verifier for class-file plugins
 * Licensed under the Mozilla Public License 2.0 (MPL 2.0)
 */

package classfile

import "testing"

func TestIsPrimitiveDescriptor(t *testing.T) {
	for _, d := range []string{"B", "C", "D", "F", "I", "J", "S", "Z", "V"} {
		if !IsPrimitiveDescriptor(d) {
			t.Errorf("expected %q to be primitive", d)
		}
	}
	if IsPrimitiveDescriptor("Ljava/lang/String;") {
		t.Error("class descriptor misreported as primitive")
	}
}

func TestExtractClassNameFromTypeDescriptor(t *testing.T) {
	cases := map[string]string{
		"Ljava/lang/String;":   "java/lang/String",
		"[Ljava/lang/String;":  "java/lang/String",
		"[[Ljava/lang/Object;": "java/lang/Object",
		"I":                    "",
		"[I":                   "",
	}
	for d, want := range cases {
		if got := ExtractClassNameFromTypeDescriptor(d); got != want {
			t.Errorf("ExtractClassNameFromTypeDescriptor(%q) = %q, want %q", d, got, want)
		}
	}
}

func TestArrayDimensions(t *testing.T) {
	if ArrayDimensions("[[I") != 2 {
		t.Error("expected dimension 2")
	}
	if ArrayDimensions("I") != 0 {
		t.Error("expected dimension 0")
	}
}

func TestDescriptorParameterTypes(t *testing.T) {
	params, err := DescriptorParameterTypes("(Lx/Y;I[[Lx/Z;)V")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Lx/Y;", "I", "[[Lx/Z;"}
	if len(params) != len(want) {
		t.Fatalf("got %v, want %v", params, want)
	}
	for i := range want {
		if params[i] != want[i] {
			t.Errorf("param %d: got %q, want %q", i, params[i], want[i])
		}
	}
}

func TestDescriptorParameterTypesNoParams(t *testing.T) {
	params, err := DescriptorParameterTypes("()V")
	if err != nil {
		t.Fatal(err)
	}
	if len(params) != 0 {
		t.Errorf("expected no params, got %v", params)
	}
}

func TestDescriptorParameterTypesMalformed(t *testing.T) {
	if _, err := DescriptorParameterTypes("Lx/Y;I)V"); err == nil {
		t.Error("expected an error for a descriptor missing '('")
	}
}

func TestDescriptorReturnType(t *testing.T) {
	ret, err := DescriptorReturnType("(I)Lx/Z;")
	if err != nil {
		t.Fatal(err)
	}
	if ret != "Lx/Z;" {
		t.Errorf("got %q, want Lx/Z;", ret)
	}
}

func TestReferencedClassNames(t *testing.T) {
	names := ReferencedClassNames("(Lx/Y;I)Lx/Z;")
	want := map[string]bool{"x/Y": true, "x/Z": true}
	if len(names) != 2 {
		t.Fatalf("got %v", names)
	}
	for _, n := range names {
		if !want[n] {
			t.Errorf("unexpected class name %q", n)
		}
	}
}

func TestReferencedClassNamesFieldDescriptor(t *testing.T) {
	names := ReferencedClassNames("[Lx/Y;")
	if len(names) != 1 || names[0] != "x/Y" {
		t.Errorf("got %v, want [x/Y]", names)
	}
}
