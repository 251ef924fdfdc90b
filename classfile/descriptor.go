/*
 * plugin-verifier - a binary-compatibility verifier for class-file plugins
 * Licensed under the Mozilla Public License 2.0 (MPL 2.0)
 */

package classfile

import (
	"fmt"
	"strings"
)

// Descriptor parsing is centralized here per spec.md §9: nested array
// markers ([[...) and the full field/method descriptor grammar are easy
// to get subtly wrong, so every caller in this repository goes through
// these functions rather than hand-rolling its own parse.

// IsPrimitiveDescriptor reports whether d is one of the nine primitive
// field-descriptor characters (B C D F I J S Z V). Primitive types are
// never reported as missing classes (spec.md §4.2).
func IsPrimitiveDescriptor(d string) bool {
	switch d {
	case "B", "C", "D", "F", "I", "J", "S", "Z", "V":
		return true
	default:
		return false
	}
}

// ExtractClassNameFromTypeDescriptor converts a single field-type
// descriptor into the internal class name it refers to, or "" if d
// names a primitive or is malformed. Array descriptors resolve to their
// element type, peeling off every leading '[' (spec.md §4.2).
func ExtractClassNameFromTypeDescriptor(d string) string {
	for strings.HasPrefix(d, "[") {
		d = d[1:]
	}
	if strings.HasPrefix(d, "L") && strings.HasSuffix(d, ";") {
		return d[1 : len(d)-1]
	}
	return ""
}

// ArrayDimensions returns the number of leading '[' markers in d.
func ArrayDimensions(d string) int {
	n := 0
	for n < len(d) && d[n] == '[' {
		n++
	}
	return n
}

// DescriptorParameterTypes parses a method descriptor's parenthesized
// parameter list into individual field-type descriptor strings, in
// declaration order.
func DescriptorParameterTypes(methodDesc string) ([]string, error) {
	if !strings.HasPrefix(methodDesc, "(") {
		return nil, fmt.Errorf("descriptor: missing '(' in %q", methodDesc)
	}
	close := strings.IndexByte(methodDesc, ')')
	if close < 0 {
		return nil, fmt.Errorf("descriptor: missing ')' in %q", methodDesc)
	}
	params := methodDesc[1:close]

	var out []string
	for i := 0; i < len(params); {
		start := i
		for i < len(params) && params[i] == '[' {
			i++
		}
		if i >= len(params) {
			return nil, fmt.Errorf("descriptor: truncated parameter in %q", methodDesc)
		}
		switch params[i] {
		case 'L':
			end := strings.IndexByte(params[i:], ';')
			if end < 0 {
				return nil, fmt.Errorf("descriptor: unterminated class type in %q", methodDesc)
			}
			i += end + 1
		case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z':
			i++
		default:
			return nil, fmt.Errorf("descriptor: invalid type char %q in %q", params[i], methodDesc)
		}
		out = append(out, params[start:i])
	}
	return out, nil
}

// DescriptorReturnType returns the field-type descriptor after the
// closing ')' of a method descriptor, e.g. "V" or "Ljava/lang/String;".
func DescriptorReturnType(methodDesc string) (string, error) {
	close := strings.IndexByte(methodDesc, ')')
	if close < 0 || close+1 > len(methodDesc) {
		return "", fmt.Errorf("descriptor: malformed method descriptor %q", methodDesc)
	}
	return methodDesc[close+1:], nil
}

// ReferencedClassNames returns every concrete (non-primitive) class name
// mentioned in a field or method descriptor -- parameters, return type,
// or the field type itself. Used by verifiers that need to confirm every
// type a descriptor mentions is resolvable.
func ReferencedClassNames(desc string) []string {
	var out []string
	if strings.HasPrefix(desc, "(") {
		params, err := DescriptorParameterTypes(desc)
		if err == nil {
			for _, p := range params {
				if cn := ExtractClassNameFromTypeDescriptor(p); cn != "" {
					out = append(out, cn)
				}
			}
		}
		ret, err := DescriptorReturnType(desc)
		if err == nil {
			if cn := ExtractClassNameFromTypeDescriptor(ret); cn != "" {
				out = append(out, cn)
			}
		}
		return out
	}
	if cn := ExtractClassNameFromTypeDescriptor(desc); cn != "" {
		out = append(out, cn)
	}
	return out
}
