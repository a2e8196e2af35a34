package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Searcher:
// - Direct neighbors come back at depth 1
// - Deeper neighbors are annotated with their shallowest depth
// - Traversal is depth-limited
// - Parallel call edges collapse to one neighbor
// - Cycles terminate

func chainKB(t *testing.T) (*KnowledgeBase, []FunctionID) {
	t.Helper()
	// a -> b -> c -> d
	kb := NewKnowledgeBase()
	var ids []FunctionID
	for _, name := range []string{"a", "b", "c", "d"} {
		ids = append(ids, kb.InternFunction(GlobalKey(name)))
	}
	kb.AddCall(ids[0], ids[1])
	kb.AddCall(ids[1], ids[2])
	kb.AddCall(ids[2], ids[3])
	return kb, ids
}

func TestSearcher_TransitiveCallees(t *testing.T) {
	t.Parallel()

	kb, ids := chainKB(t)
	s, err := NewSearcher(kb)
	require.NoError(t, err)

	direct := s.TransitiveCallees(ids[0], 1)
	require.Len(t, direct, 1)
	assert.Equal(t, Neighbor{ID: ids[1], Depth: 1}, direct[0])

	deep := s.TransitiveCallees(ids[0], 3)
	assert.Equal(t, []Neighbor{
		{ID: ids[1], Depth: 1},
		{ID: ids[2], Depth: 2},
		{ID: ids[3], Depth: 3},
	}, deep)
}

func TestSearcher_TransitiveCallers(t *testing.T) {
	t.Parallel()

	kb, ids := chainKB(t)
	s, err := NewSearcher(kb)
	require.NoError(t, err)

	callers := s.TransitiveCallers(ids[3], 2)
	assert.Equal(t, []Neighbor{
		{ID: ids[2], Depth: 1},
		{ID: ids[1], Depth: 2},
	}, callers)
}

func TestSearcher_ParallelEdgesCollapse(t *testing.T) {
	t.Parallel()

	kb := NewKnowledgeBase()
	f := kb.InternFunction(GlobalKey("f"))
	g := kb.InternFunction(GlobalKey("g"))
	kb.AddCall(f, g)
	kb.AddCall(f, g)

	s, err := NewSearcher(kb)
	require.NoError(t, err)

	callees := s.TransitiveCallees(f, 1)
	assert.Len(t, callees, 1, "traversal answers which identities, not how many call sites")
}

func TestSearcher_CycleTerminates(t *testing.T) {
	t.Parallel()

	kb := NewKnowledgeBase()
	f := kb.InternFunction(GlobalKey("f"))
	g := kb.InternFunction(GlobalKey("g"))
	kb.AddCall(f, g)
	kb.AddCall(g, f)

	s, err := NewSearcher(kb)
	require.NoError(t, err)

	callees := s.TransitiveCallees(f, MaxDepth)
	require.Len(t, callees, 2)
	assert.Equal(t, Neighbor{ID: g, Depth: 1}, callees[0])
	assert.Equal(t, Neighbor{ID: f, Depth: 2}, callees[1], "the start shows up again through the cycle")
}
