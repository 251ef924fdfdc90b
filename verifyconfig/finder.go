/*
 * plugin-verifier - a binary-compatibility verifier for class-file plugins
 * Licensed under the Mozilla Public License 2.0 (MPL 2.0)
 */

package verifyconfig

import (
	"fmt"

	"github.com/Ololoshechkin/plugin-verifier/dependency"
	"github.com/Ololoshechkin/plugin-verifier/resolver"
)

// manifestFinder resolves dependency ids against a Manifest's own
// Plugins table -- the declarative stand-in for a real plugin repository
// lookup (spec.md §4.8's external DependencyFinder collaborator).
type manifestFinder struct {
	plugins map[string]ManifestPlugin
}

// NewManifestFinder builds a dependency.Finder backed by manifest's
// Plugins table.
func NewManifestFinder(manifest *Manifest) dependency.Finder {
	return &manifestFinder{plugins: manifest.Plugins}
}

func (f *manifestFinder) Find(pluginID string) dependency.FindResult {
	mp, ok := f.plugins[pluginID]
	if !ok {
		return dependency.FindResult{
			Kind:   dependency.NotFoundPlugin,
			Reason: fmt.Sprintf("no manifest entry for dependency plugin %q", pluginID),
		}
	}

	edges := make([]dependency.Edge, 0, len(mp.Dependencies))
	for _, d := range mp.Dependencies {
		edges = append(edges, dependency.Edge{ID: d.ID, IsOptional: d.Optional})
	}

	return dependency.FindResult{
		Kind: dependency.FoundPlugin,
		Details: &dependency.ResolvedPlugin{
			PluginID:             pluginID,
			DeclaredDependencies: edges,
			ClassResolver:        resolver.NewMapResolver(pluginID, ToClassNodes(mp.Classes)...),
		},
	}
}
