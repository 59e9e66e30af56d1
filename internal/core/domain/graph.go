package domain

import (
	"iter"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// BufferGraph records which named buffers reference which others through Secondary steps.
// It is used to reject reference cycles and to order buffer construction so that
// every referenced buffer exists before the buffers that nest it.
type BufferGraph struct {
	refs  map[string][]string
	order []string
}

// NewBufferGraph creates a new empty BufferGraph.
func NewBufferGraph() *BufferGraph {
	return &BufferGraph{
		refs: make(map[string][]string),
	}
}

// AddBuffer adds a buffer and the names of the buffers it nests.
// It returns an error if a buffer with the same name already exists.
func (g *BufferGraph) AddBuffer(name string, refs []string) error {
	if _, exists := g.refs[name]; exists {
		return zerr.With(ErrBufferAlreadyExists, "buffer", name)
	}
	g.refs[name] = slices.Clone(refs)
	return nil
}

// Validate checks for missing references and cycles using a depth-first topological sort.
// Buffers are visited in name order so the resulting order is deterministic.
func (g *BufferGraph) Validate() error {
	g.order = make([]string, 0, len(g.refs))
	visited := make(map[string]int) // 0: unvisited, 1: visiting, 2: visited
	var path []string

	var visit func(u string) error
	visit = func(u string) error {
		visited[u] = 1
		path = append(path, u)

		for _, ref := range g.refs[u] {
			if _, exists := g.refs[ref]; !exists {
				return zerr.With(zerr.With(ErrBufferNotFound, "buffer", ref), "referenced_by", u)
			}
			if visited[ref] == 1 {
				return cycleError(path, ref)
			}
			if visited[ref] == 0 {
				if err := visit(ref); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		g.order = append(g.order, u)
		return nil
	}

	names := make([]string, 0, len(g.refs))
	for name := range g.refs {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		if visited[name] == 0 {
			if err := visit(name); err != nil {
				return err
			}
		}
	}

	return nil
}

func cycleError(path []string, ref string) error {
	start := slices.Index(path, ref)
	cycle := append(slices.Clone(path[start:]), ref)
	return zerr.With(ErrCycleDetected, "cycle", strings.Join(cycle, " -> "))
}

// Walk yields buffer names so that every buffer comes after the buffers it references.
// It assumes Validate() has been called and returned nil.
func (g *BufferGraph) Walk() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, name := range g.order {
			if !yield(name) {
				return
			}
		}
	}
}
