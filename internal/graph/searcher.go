package graph

import (
	"fmt"
	"sort"

	"github.com/dominikbraun/graph"
)

// Traversal defaults and limits.
const (
	DefaultDepth = 1
	MaxDepth     = 10
)

// Neighbor is one function reached during a transitive traversal.
type Neighbor struct {
	ID    FunctionID
	Depth int // 1 = direct neighbor
}

// Searcher answers depth-limited transitive caller/callee queries over a
// knowledge base. The adjacency is materialized as a directed graph once at
// construction; parallel call edges collapse, which is what traversal wants
// ("which identities", not "how many call sites").
type Searcher struct {
	kb   *KnowledgeBase
	g    graph.Graph[int, FunctionID]
	adj  map[int]map[int]graph.Edge[int]
	pred map[int]map[int]graph.Edge[int]
}

// NewSearcher builds a searcher over kb. The knowledge base must not be
// mutated while the searcher is in use.
func NewSearcher(kb *KnowledgeBase) (*Searcher, error) {
	g := graph.New(func(id FunctionID) int { return int(id) }, graph.Directed())

	for id := range kb.functionKeys {
		if err := g.AddVertex(FunctionID(id)); err != nil {
			return nil, fmt.Errorf("failed to add vertex %d: %w", id, err)
		}
	}
	for id := range kb.functionKeys {
		caller := FunctionID(id)
		for _, callee := range kb.callees[caller] {
			// Parallel edges are expected; only the first insert matters.
			if err := g.AddEdge(int(caller), int(callee)); err != nil && err != graph.ErrEdgeAlreadyExists {
				return nil, fmt.Errorf("failed to add edge %d->%d: %w", caller, callee, err)
			}
		}
	}

	adj, err := g.AdjacencyMap()
	if err != nil {
		return nil, fmt.Errorf("failed to build adjacency map: %w", err)
	}
	pred, err := g.PredecessorMap()
	if err != nil {
		return nil, fmt.Errorf("failed to build predecessor map: %w", err)
	}

	return &Searcher{kb: kb, g: g, adj: adj, pred: pred}, nil
}

// TransitiveCallers returns the functions that reach fn through call edges,
// up to the given depth.
func (s *Searcher) TransitiveCallers(fn FunctionID, depth int) []Neighbor {
	return s.traverse(fn, depth, s.pred)
}

// TransitiveCallees returns the functions fn reaches through call edges, up
// to the given depth.
func (s *Searcher) TransitiveCallees(fn FunctionID, depth int) []Neighbor {
	return s.traverse(fn, depth, s.adj)
}

func (s *Searcher) traverse(start FunctionID, depth int, edges map[int]map[int]graph.Edge[int]) []Neighbor {
	if depth <= 0 {
		depth = DefaultDepth
	}
	if depth > MaxDepth {
		depth = MaxDepth
	}

	visited := map[int]int{} // id -> shallowest depth seen
	var walk func(id, currentDepth int)
	walk = func(id, currentDepth int) {
		if currentDepth > depth {
			return
		}
		for next := range edges[id] {
			if prev, seen := visited[next]; seen && prev <= currentDepth {
				continue
			}
			visited[next] = currentDepth
			if currentDepth < depth {
				walk(next, currentDepth+1)
			}
		}
	}
	walk(int(start), 1)

	results := make([]Neighbor, 0, len(visited))
	for id, d := range visited {
		results = append(results, Neighbor{ID: FunctionID(id), Depth: d})
	}

	// Map iteration order is random; sort for deterministic output.
	sort.Slice(results, func(i, j int) bool {
		if results[i].Depth != results[j].Depth {
			return results[i].Depth < results[j].Depth
		}
		return results[i].ID < results[j].ID
	})
	return results
}
