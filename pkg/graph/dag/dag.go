// Copyright 2025 The lambda-kube Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package dag provides a directed acyclic graph with a deterministic
// topological sort. Vertices carry an insertion order that is used to break
// ties between independent vertices, so two graphs built from the same
// sequence of calls always sort identically.
package dag

import (
	"errors"
	"fmt"
	"slices"
)

// Vertex is a node in the graph, parameterized over the vertex identifier
// type.
type Vertex[T comparable] struct {
	// ID is the unique identifier of the vertex.
	ID T

	// Order records the insertion position of the vertex. It is used as the
	// tie-breaker during topological sorting.
	Order int

	// DependsOn is the set of vertices this vertex depends on. Every entry
	// must be sorted before this vertex.
	DependsOn map[T]struct{}
}

// DirectedAcyclicGraph holds the vertex set. Edges live on the vertices
// themselves, in DependsOn.
type DirectedAcyclicGraph[T comparable] struct {
	// Vertices maps vertex identifiers to vertices.
	Vertices map[T]*Vertex[T]
}

// NewDirectedAcyclicGraph creates a new empty graph.
func NewDirectedAcyclicGraph[T comparable]() *DirectedAcyclicGraph[T] {
	return &DirectedAcyclicGraph[T]{
		Vertices: make(map[T]*Vertex[T]),
	}
}

// CycleError is returned when an operation would make the graph cyclic, or
// when a cyclic graph is topologically sorted. Cycle holds one offending
// path, starting and ending at the same vertex.
type CycleError[T comparable] struct {
	Cycle []T
}

func (e *CycleError[T]) Error() string {
	if len(e.Cycle) == 0 {
		return "graph contains a cycle"
	}
	return fmt.Sprintf("graph contains a cycle: %v", e.Cycle)
}

// AsCycleError returns the *CycleError in err's chain, or nil.
func AsCycleError[T comparable](err error) *CycleError[T] {
	var ce *CycleError[T]
	if errors.As(err, &ce) {
		return ce
	}
	return nil
}

// AddVertex adds a new vertex to the graph. The order is recorded and used
// to break sorting ties; callers typically pass a monotonically increasing
// counter.
func (d *DirectedAcyclicGraph[T]) AddVertex(id T, order int) error {
	if _, exists := d.Vertices[id]; exists {
		return fmt.Errorf("vertex %v already exists", id)
	}
	d.Vertices[id] = &Vertex[T]{
		ID:        id,
		Order:     order,
		DependsOn: make(map[T]struct{}),
	}
	return nil
}

// AddDependencies marks `from` as depending on each vertex in dependencies.
// Both endpoints must already exist. Self references are rejected, as is any
// edge that would introduce a cycle; in the cycle case the edges are rolled
// back and a *CycleError is returned.
func (d *DirectedAcyclicGraph[T]) AddDependencies(from T, dependencies []T) error {
	fromVertex, ok := d.Vertices[from]
	if !ok {
		return fmt.Errorf("vertex %v not found", from)
	}

	for _, dep := range dependencies {
		if from == dep {
			return fmt.Errorf("vertex %v cannot depend on itself", from)
		}
		if _, ok := d.Vertices[dep]; !ok {
			return fmt.Errorf("dependency %v of vertex %v not found", dep, from)
		}
		fromVertex.DependsOn[dep] = struct{}{}
	}

	if cyclic, cycle := d.hasCycle(); cyclic {
		for _, dep := range dependencies {
			delete(fromVertex.DependsOn, dep)
		}
		return &CycleError[T]{Cycle: cycle}
	}
	return nil
}

// TopologicalSort returns the vertices in dependency order: every vertex
// appears after all vertices it depends on. Independent vertices keep their
// insertion order. A *CycleError is returned if the graph is not acyclic.
//
// The sort runs repeated passes over the vertices in insertion order,
// emitting every vertex whose dependencies have already been emitted. A
// vertex may consume vertices emitted earlier in the same pass, so a chain
// that happens to be registered in dependency order sorts in a single pass
// without reordering.
func (d *DirectedAcyclicGraph[T]) TopologicalSort() ([]T, error) {
	if cyclic, cycle := d.hasCycle(); cyclic {
		return nil, &CycleError[T]{Cycle: cycle}
	}

	order := d.insertionOrder()
	emitted := make(map[T]struct{}, len(d.Vertices))
	sorted := make([]T, 0, len(d.Vertices))

	for len(sorted) < len(d.Vertices) {
		progressed := false
		for _, id := range order {
			if _, done := emitted[id]; done {
				continue
			}
			if !d.allEmitted(id, emitted) {
				continue
			}
			emitted[id] = struct{}{}
			sorted = append(sorted, id)
			progressed = true
		}
		if !progressed {
			// Unreachable once hasCycle passed; kept so a corrupted graph
			// cannot loop forever.
			return nil, &CycleError[T]{}
		}
	}
	return sorted, nil
}

// TopologicalSortLevels groups the vertices into levels: every vertex's
// dependencies live in strictly earlier levels, and vertices within a level
// keep their insertion order. Vertices in the same level are mutually
// independent.
func (d *DirectedAcyclicGraph[T]) TopologicalSortLevels() ([][]T, error) {
	if cyclic, cycle := d.hasCycle(); cyclic {
		return nil, &CycleError[T]{Cycle: cycle}
	}

	order := d.insertionOrder()
	emitted := make(map[T]struct{}, len(d.Vertices))
	var levels [][]T

	for len(emitted) < len(d.Vertices) {
		var level []T
		for _, id := range order {
			if _, done := emitted[id]; done {
				continue
			}
			if d.allEmitted(id, emitted) {
				level = append(level, id)
			}
		}
		if len(level) == 0 {
			return nil, &CycleError[T]{}
		}
		// Mark after collecting the whole level, so that vertices in the
		// same level never see each other as satisfied dependencies.
		for _, id := range level {
			emitted[id] = struct{}{}
		}
		levels = append(levels, level)
	}
	return levels, nil
}

// allEmitted reports whether every dependency of id is in emitted.
func (d *DirectedAcyclicGraph[T]) allEmitted(id T, emitted map[T]struct{}) bool {
	for dep := range d.Vertices[id].DependsOn {
		if _, done := emitted[dep]; !done {
			return false
		}
	}
	return true
}

// insertionOrder returns the vertex identifiers sorted by insertion order.
func (d *DirectedAcyclicGraph[T]) insertionOrder() []T {
	ids := make([]T, 0, len(d.Vertices))
	for id := range d.Vertices {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b T) int {
		return d.Vertices[a].Order - d.Vertices[b].Order
	})
	return ids
}

// hasCycle runs a depth-first search over the graph and reports whether it
// contains a cycle. When it does, the second return value holds one cycle
// path, starting and ending at the same vertex.
func (d *DirectedAcyclicGraph[T]) hasCycle() (bool, []T) {
	visited := make(map[T]struct{}, len(d.Vertices))
	inStack := make(map[T]struct{})
	var stack []T
	var cycle []T

	var visit func(id T) bool
	visit = func(id T) bool {
		visited[id] = struct{}{}
		inStack[id] = struct{}{}
		stack = append(stack, id)

		for dep := range d.Vertices[id].DependsOn {
			if _, ok := inStack[dep]; ok {
				// Found a back edge; slice the current stack into a cycle.
				start := slices.Index(stack, dep)
				cycle = append(slices.Clone(stack[start:]), dep)
				return true
			}
			if _, ok := visited[dep]; !ok {
				if visit(dep) {
					return true
				}
			}
		}

		delete(inStack, id)
		stack = stack[:len(stack)-1]
		return false
	}

	for id := range d.Vertices {
		if _, ok := visited[id]; ok {
			continue
		}
		if visit(id) {
			return true, cycle
		}
	}
	return false, nil
}
