package graph

import (
	"errors"
	"sort"
)

// ErrNotFound is returned by queries referencing an identity that was never
// interned.
var ErrNotFound = errors.New("function not found")

// RankedFunction is one entry of the instruction-count ranking.
type RankedFunction struct {
	ID           FunctionID
	Key          FunctionKey
	Instructions int
}

// TopByInstructions returns functions with a positive instruction count,
// ordered by count descending. Ties break by id ascending, which is insertion
// order, so the ranking is deterministic. A limit <= 0 returns all entries.
// Functions that were only referenced, never defined, have count zero and are
// excluded.
func (kb *KnowledgeBase) TopByInstructions(limit int) []RankedFunction {
	ranked := make([]RankedFunction, 0, len(kb.instructions))
	for id, key := range kb.functionKeys {
		fn := FunctionID(id)
		if n := kb.instructions[fn]; n > 0 {
			ranked = append(ranked, RankedFunction{ID: fn, Key: key, Instructions: n})
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Instructions != ranked[j].Instructions {
			return ranked[i].Instructions > ranked[j].Instructions
		}
		return ranked[i].ID < ranked[j].ID
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// DefinedInAllObjects returns the functions whose defining-object set covers
// every object parsed so far, in id order. With zero parsed objects the
// result is empty: nothing vacuously qualifies.
func (kb *KnowledgeBase) DefinedInAllObjects() []FunctionID {
	total := len(kb.objectPaths)
	if total == 0 {
		return nil
	}
	var ids []FunctionID
	for id := range kb.functionKeys {
		fn := FunctionID(id)
		if len(kb.definedIn[fn]) == total {
			ids = append(ids, fn)
		}
	}
	return ids
}

// FunctionReport is the full neighbor view of one function.
type FunctionReport struct {
	ID           FunctionID
	Key          FunctionKey
	Instructions int
	Objects      []string // output paths the function is defined in
	Callers      []FunctionID
	Callees      []FunctionID
}

// Report returns the defining objects and direct neighbors of the function
// interned under key, or ErrNotFound if the key was never interned.
func (kb *KnowledgeBase) Report(key FunctionKey) (*FunctionReport, error) {
	id, ok := kb.functionIDs[key]
	if !ok {
		return nil, ErrNotFound
	}
	report := &FunctionReport{
		ID:           id,
		Key:          key,
		Instructions: kb.instructions[id],
		Callers:      kb.callers[id],
		Callees:      kb.callees[id],
	}
	for _, obj := range kb.definedIn[id] {
		report.Objects = append(report.Objects, kb.objectPaths[obj])
	}
	return report, nil
}
