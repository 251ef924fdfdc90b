/*
 * plugin-verifier - a binary-compatibility verifier for class-file plugins
 * Licensed under the Mozilla Public License 2.0 (MPL 2.0)
 */

package resolver

import (
	"context"
	"sort"

	"github.com/Ololoshechkin/plugin-verifier/classfile"
)

// MapResolver is an in-memory class pool, the synthetic stand-in for a
// single archive or directory (spec.md GLOSSARY, "class pool"). It backs
// unit tests throughout this repository and a real DirResolver/JarResolver
// would satisfy the same Resolver interface for production jobs (the
// archive/jar reading itself is out of scope, per spec.md §1).
type MapResolver struct {
	name    string
	classes map[string]*classfile.ClassNode
	// broken holds names that must resolve to a read failure rather than
	// NotFound, so tests can exercise FailedToReadClassFile/InvalidClassFile.
	broken map[string]error
	// invalid holds names that are present but malformed (InvalidClassFile).
	invalid map[string]error
	closed  bool
}

// NewMapResolver builds a MapResolver named name (used only in
// diagnostics/ClassPath()) over the given classes.
func NewMapResolver(name string, classes ...*classfile.ClassNode) *MapResolver {
	m := &MapResolver{name: name, classes: make(map[string]*classfile.ClassNode)}
	for _, c := range classes {
		m.classes[c.Name] = c
	}
	return m
}

// MarkFailedToRead causes future Find(name) calls to return FailedToRead
// with err, simulating an I/O error on an otherwise-present archive entry.
func (m *MapResolver) MarkFailedToRead(name string, err error) {
	if m.broken == nil {
		m.broken = make(map[string]error)
	}
	m.broken[name] = err
}

// MarkInvalid causes future Find(name) calls to return Invalid with err,
// simulating a class-file-format error the underlying reader surfaced.
func (m *MapResolver) MarkInvalid(name string, err error) {
	if m.invalid == nil {
		m.invalid = make(map[string]error)
	}
	m.invalid[name] = err
}

func (m *MapResolver) Contains(_ context.Context, name string) bool {
	if _, ok := m.classes[name]; ok {
		return true
	}
	if _, ok := m.broken[name]; ok {
		return true
	}
	if _, ok := m.invalid[name]; ok {
		return true
	}
	return false
}

func (m *MapResolver) Find(_ context.Context, name string) Resolution {
	if err, ok := m.invalid[name]; ok {
		return InvalidResolution(err)
	}
	if err, ok := m.broken[name]; ok {
		return FailedToReadResolution(err)
	}
	if c, ok := m.classes[name]; ok {
		return FoundResolution(c)
	}
	return NotFoundResolution()
}

func (m *MapResolver) IterateAllClasses(_ context.Context) ([]string, error) {
	names := make([]string, 0, len(m.classes))
	for n := range m.classes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

func (m *MapResolver) ClassPath() []string { return []string{"<in-memory:" + m.name + ">"} }

func (m *MapResolver) Close() error {
	m.closed = true
	return nil
}

func (m *MapResolver) Closed() bool { return m.closed }
