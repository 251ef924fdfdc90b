/*
 * plugin-verifier - a binary-compatibility verifier for class-file plugins
 * Licensed under the Mozilla Public License 2.0 (MPL 2.0)
 */

// Package dependency builds the plugin dependency graph of spec.md
// §4.8: BFS from the plugin under test, resolving each declared
// dependency id through an external DependencyFinder collaborator,
// detecting cycles, and exposing the union of every resolved vertex's
// class pool as one Resolver layer.
package dependency

import (
	"github.com/Ololoshechkin/plugin-verifier/resolver"
)

// FindResultKind tags the outcome of looking up one plugin id.
type FindResultKind int

const (
	FoundPlugin FindResultKind = iota
	NotFoundPlugin
	FailedToFind
)

// FindResult is the tagged result of resolving one dependency id.
type FindResult struct {
	Kind    FindResultKind
	Details *ResolvedPlugin // valid iff Kind == FoundPlugin
	Reason  string          // valid iff Kind != FoundPlugin
}

// ResolvedPlugin is what a DependencyFinder hands back for a found
// plugin id: enough to keep walking the graph and to contribute a
// class-pool layer.
type ResolvedPlugin struct {
	PluginID             string
	DeclaredDependencies []Edge
	ClassResolver        resolver.Resolver
}

// Edge is one declared dependency, mirroring target.Dependency without
// importing the target package (dependency must stay below target in
// the import graph: target.VerificationResult embeds *dependency.Graph).
type Edge struct {
	ID         string
	IsOptional bool
}

// Finder is the external collaborator spec.md §4.8 calls `DependencyFinder`.
type Finder interface {
	Find(pluginID string) FindResult
}
