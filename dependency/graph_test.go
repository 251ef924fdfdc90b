/*
 * plugin-verifier - a binary-compatibility verifier for class-file plugins
 * Licensed under the Mozilla Public License 2.0 (MPL 2.0)
 */

package dependency

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ololoshechkin/plugin-verifier/classfile"
	"github.com/Ololoshechkin/plugin-verifier/resolver"
)

// stubFinder resolves plugin ids from a fixed in-memory map, the test
// double for the external DependencyFinder collaborator.
type stubFinder struct {
	plugins map[string]*ResolvedPlugin
}

func (f *stubFinder) Find(pluginID string) FindResult {
	if p, ok := f.plugins[pluginID]; ok {
		return FindResult{Kind: FoundPlugin, Details: p}
	}
	return FindResult{Kind: NotFoundPlugin, Reason: "no such plugin: " + pluginID}
}

func resolverFor(className string) resolver.Resolver {
	return resolver.NewMapResolver(className, &classfile.ClassNode{Name: className})
}

func TestBuildGraphDiscoversTransitiveDependencies(t *testing.T) {
	finder := &stubFinder{plugins: map[string]*ResolvedPlugin{
		"b": {PluginID: "b", ClassResolver: resolverFor("pkg/B"), DeclaredDependencies: []Edge{{ID: "c"}}},
		"c": {PluginID: "c", ClassResolver: resolverFor("pkg/C")},
	}}

	g := BuildGraph("a", resolverFor("pkg/A"), []Edge{{ID: "b"}}, finder)

	ids := make([]string, 0, len(g.Vertices()))
	for _, v := range g.Vertices() {
		ids = append(ids, v.PluginID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
	assert.Empty(t, g.Missing)
	assert.Empty(t, g.Warnings)
}

func TestBuildGraphRecordsMissingMandatoryDependency(t *testing.T) {
	finder := &stubFinder{plugins: map[string]*ResolvedPlugin{}}

	g := BuildGraph("a", resolverFor("pkg/A"), []Edge{{ID: "missing"}}, finder)

	require.Len(t, g.Missing, 1)
	assert.Equal(t, "a", g.Missing[0].FromPluginID)
	assert.Equal(t, "missing", g.Missing[0].ToPluginID)
	assert.Empty(t, g.Warnings)
}

func TestBuildGraphRecordsWarningForMissingOptionalDependency(t *testing.T) {
	finder := &stubFinder{plugins: map[string]*ResolvedPlugin{}}

	g := BuildGraph("a", resolverFor("pkg/A"), []Edge{{ID: "missing", IsOptional: true}}, finder)

	assert.Empty(t, g.Missing)
	require.Len(t, g.Warnings, 1)
}

func TestBuildGraphDetectsCycles(t *testing.T) {
	finder := &stubFinder{plugins: map[string]*ResolvedPlugin{
		"b": {PluginID: "b", ClassResolver: resolverFor("pkg/B"), DeclaredDependencies: []Edge{{ID: "c"}}},
		"c": {PluginID: "c", ClassResolver: resolverFor("pkg/C"), DeclaredDependencies: []Edge{{ID: "b"}}},
	}}

	g := BuildGraph("a", resolverFor("pkg/A"), []Edge{{ID: "b"}}, finder)

	require.Len(t, g.Cycles, 1)
	assert.ElementsMatch(t, []string{"b", "c"}, g.Cycles[0].PluginIDs)
}

func TestBuildGraphDoesNotReportSelfLoopOfSizeOne(t *testing.T) {
	finder := &stubFinder{plugins: map[string]*ResolvedPlugin{
		"b": {PluginID: "b", ClassResolver: resolverFor("pkg/B"), DeclaredDependencies: []Edge{{ID: "b"}}},
	}}

	g := BuildGraph("a", resolverFor("pkg/A"), []Edge{{ID: "b"}}, finder)
	assert.Empty(t, g.Cycles)
}

func TestGraphClassResolverUnionsAllVertices(t *testing.T) {
	finder := &stubFinder{plugins: map[string]*ResolvedPlugin{
		"b": {PluginID: "b", ClassResolver: resolverFor("pkg/B")},
	}}
	g := BuildGraph("a", resolverFor("pkg/A"), []Edge{{ID: "b"}}, finder)

	union := g.ClassResolver()
	ctx := context.Background()
	for _, name := range []string{"pkg/A", "pkg/B"} {
		res := union.Find(ctx, name)
		assert.Equal(t, resolver.Found, res.Kind, "expected %s to resolve", name)
	}
}

func TestGraphCloseSkipsRootVertex(t *testing.T) {
	root := resolver.NewMapResolver("root", &classfile.ClassNode{Name: "pkg/A"})
	dep := resolver.NewMapResolver("dep", &classfile.ClassNode{Name: "pkg/B"})
	finder := &stubFinder{plugins: map[string]*ResolvedPlugin{
		"b": {PluginID: "b", ClassResolver: dep},
	}}
	g := BuildGraph("a", root, []Edge{{ID: "b"}}, finder)

	require.NoError(t, g.Close())

	assert.True(t, dep.Closed(), "dependency resolver should be closed by the graph")
	assert.False(t, root.Closed(), "root resolver is owned by the caller and must be left open")
}
