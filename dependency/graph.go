/*
 * plugin-verifier - a binary-compatibility verifier for class-file plugins
 * Licensed under the Mozilla Public License 2.0 (MPL 2.0)
 */

package dependency

import (
	"sort"

	"github.com/Ololoshechkin/plugin-verifier/resolver"
)

// Vertex is one plugin in the dependency graph, addressed by index
// rather than pointer (spec.md §9: "arena-or-index allocation... so
// ownership is the arena and vertices hold no back-references").
type Vertex struct {
	PluginID string
	Resolver resolver.Resolver
}

// MissingDependency records a mandatory dependency edge that could not
// be resolved.
type MissingDependency struct {
	FromPluginID string
	ToPluginID   string
	Reason       string
}

// CycleWarning records one strongly connected component of size >1
// found in the graph (spec.md §4.8: one warning per SCC, not per edge).
type CycleWarning struct {
	PluginIDs []string
}

// Graph is the built dependency graph: vertices indexed by id, directed
// edges, missing-dependency markers, and cycle warnings.
type Graph struct {
	vertices  []Vertex
	indexByID map[string]int
	edges     map[int][]int

	Missing  []MissingDependency
	Warnings []string
	Cycles   []CycleWarning
}

// pendingEdge is a not-yet-resolved (from, id) pair awaiting a finder
// lookup during the BFS.
type pendingEdge struct {
	fromIdx    int
	fromID     string
	toID       string
	isOptional bool
}

// BuildGraph performs the BFS of spec.md §4.8 starting from rootID with
// rootEdges as its declared dependencies, using finder to resolve every
// subsequent id. Optional edges that fail to resolve produce a warning;
// mandatory edges that fail to resolve produce a MissingDependency.
func BuildGraph(rootID string, rootResolver resolver.Resolver, rootEdges []Edge, finder Finder) *Graph {
	g := &Graph{
		indexByID: make(map[string]int),
		edges:     make(map[int][]int),
	}

	rootIdx := g.addVertex(rootID, rootResolver)

	var queue []pendingEdge
	for _, e := range rootEdges {
		queue = append(queue, pendingEdge{fromIdx: rootIdx, fromID: rootID, toID: e.ID, isOptional: e.IsOptional})
	}

	for len(queue) > 0 {
		edge := queue[0]
		queue = queue[1:]

		if idx, seen := g.indexByID[edge.toID]; seen {
			g.edges[edge.fromIdx] = append(g.edges[edge.fromIdx], idx)
			continue
		}

		res := finder.Find(edge.toID)
		switch res.Kind {
		case FoundPlugin:
			idx := g.addVertex(edge.toID, res.Details.ClassResolver)
			g.edges[edge.fromIdx] = append(g.edges[edge.fromIdx], idx)
			for _, e := range res.Details.DeclaredDependencies {
				queue = append(queue, pendingEdge{fromIdx: idx, fromID: edge.toID, toID: e.ID, isOptional: e.IsOptional})
			}
		case NotFoundPlugin, FailedToFind:
			if edge.isOptional {
				g.Warnings = append(g.Warnings, "optional dependency "+edge.toID+" of "+edge.fromID+" could not be resolved: "+res.Reason)
			} else {
				g.Missing = append(g.Missing, MissingDependency{FromPluginID: edge.fromID, ToPluginID: edge.toID, Reason: res.Reason})
			}
		}
	}

	g.detectCycles()
	return g
}

func (g *Graph) addVertex(pluginID string, r resolver.Resolver) int {
	idx := len(g.vertices)
	g.vertices = append(g.vertices, Vertex{PluginID: pluginID, Resolver: r})
	g.indexByID[pluginID] = idx
	return idx
}

// Vertices returns every resolved vertex in discovery order.
func (g *Graph) Vertices() []Vertex { return g.vertices }

// ClassResolver returns the union of every resolved vertex's class pool
// (spec.md §4.8): "The graph exposes a Resolver layer: the union of all
// resolved vertices' class pools."
func (g *Graph) ClassResolver() resolver.Resolver {
	resolvers := make([]resolver.Resolver, 0, len(g.vertices))
	for _, v := range g.vertices {
		if v.Resolver != nil {
			resolvers = append(resolvers, v.Resolver)
		}
	}
	return resolver.NewUnionResolver(resolvers...)
}

// Close closes every resolved vertex's resolver, collecting the first
// error (spec.md §5, Resource discipline: "The dependency graph owns the
// resolvers of resolved dependencies and closes them on job completion").
// The root plugin's own resolver is owned by the caller, not the graph,
// so Close skips it and leaves it open.
func (g *Graph) Close() error {
	var first error
	for i, v := range g.vertices {
		if i == 0 || v.Resolver == nil {
			continue // index 0 is the root plugin; its resolver is owned by the caller
		}
		if err := v.Resolver.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// detectCycles runs Tarjan's SCC algorithm over the graph and records
// one CycleWarning per strongly connected component with more than one
// vertex (spec.md §4.8).
func (g *Graph) detectCycles() {
	n := len(g.vertices)
	index := make([]int, n)
	low := make([]int, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = -1
	}
	var stack []int
	counter := 0
	var sccs [][]int

	var strongconnect func(v int)
	strongconnect = func(v int) {
		index[v] = counter
		low[v] = counter
		counter++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g.edges[v] {
			if index[w] == -1 {
				strongconnect(w)
				if low[w] < low[v] {
					low[v] = low[w]
				}
			} else if onStack[w] {
				if index[w] < low[v] {
					low[v] = index[w]
				}
			}
		}

		if low[v] == index[v] {
			var scc []int
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for v := 0; v < n; v++ {
		if index[v] == -1 {
			strongconnect(v)
		}
	}

	for _, scc := range sccs {
		if len(scc) <= 1 {
			continue
		}
		ids := make([]string, 0, len(scc))
		for _, idx := range scc {
			ids = append(ids, g.vertices[idx].PluginID)
		}
		sort.Strings(ids)
		g.Cycles = append(g.Cycles, CycleWarning{PluginIDs: ids})
	}
}
