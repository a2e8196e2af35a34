package graph

import (
	"fmt"
	"time"
)

// SnapshotData is the serialized form of a complete knowledge base.
type SnapshotData struct {
	Metadata  SnapshotMetadata `json:"_metadata"`
	Objects   []ObjectRecord   `json:"objects"`
	Functions []FunctionRecord `json:"functions"`
	Edges     []EdgeRecord     `json:"edges"`
}

// SnapshotMetadata describes when and by which analysis run a snapshot was
// produced.
type SnapshotMetadata struct {
	Version       string    `json:"version"`
	AnalysisID    string    `json:"analysis_id"`
	GeneratedAt   time.Time `json:"generated_at"`
	ObjectCount   int       `json:"object_count"`
	FunctionCount int       `json:"function_count"`
	EdgeCount     int       `json:"edge_count"`
}

// ObjectRecord is one translation unit's output.
type ObjectRecord struct {
	ID   int    `json:"id"`
	Path string `json:"path"`
}

// FunctionRecord is one function identity with its membership and count.
type FunctionRecord struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Local        bool   `json:"local,omitempty"`
	Object       int    `json:"object,omitempty"` // owning object, local symbols only
	Instructions int    `json:"instructions,omitempty"`
	DefinedIn    []int  `json:"defined_in,omitempty"`
}

// EdgeRecord is one call edge. Edges are a multiset: the same caller/callee
// pair appears once per call site.
type EdgeRecord struct {
	Caller int `json:"caller"`
	Callee int `json:"callee"`
}

// Snapshot serializes the knowledge base. Records are emitted in id order so
// the output is deterministic for a given parse sequence.
func (kb *KnowledgeBase) Snapshot() *SnapshotData {
	data := &SnapshotData{}
	for id, path := range kb.objectPaths {
		data.Objects = append(data.Objects, ObjectRecord{ID: id, Path: path})
	}
	for id, key := range kb.functionKeys {
		fn := FunctionID(id)
		rec := FunctionRecord{
			ID:           id,
			Name:         key.Name,
			Local:        key.Local,
			Instructions: kb.instructions[fn],
		}
		if key.Local {
			rec.Object = int(key.Object)
		}
		for _, obj := range kb.definedIn[fn] {
			rec.DefinedIn = append(rec.DefinedIn, int(obj))
		}
		data.Functions = append(data.Functions, rec)
	}
	for id := range kb.functionKeys {
		caller := FunctionID(id)
		for _, callee := range kb.callees[caller] {
			data.Edges = append(data.Edges, EdgeRecord{Caller: id, Callee: int(callee)})
		}
	}
	return data
}

// FromSnapshot reconstructs a knowledge base from serialized form. Records
// must be listed in id order (Snapshot emits them that way); re-interning in
// that order reproduces the original ids.
func FromSnapshot(data *SnapshotData) (*KnowledgeBase, error) {
	kb := NewKnowledgeBase()
	for _, rec := range data.Objects {
		if id := kb.InternObject(rec.Path); int(id) != rec.ID {
			return nil, fmt.Errorf("object %q has id %d, expected %d", rec.Path, rec.ID, id)
		}
	}
	for _, rec := range data.Functions {
		key := GlobalKey(rec.Name)
		if rec.Local {
			key = LocalKey(ObjectID(rec.Object), rec.Name)
		}
		id := kb.InternFunction(key)
		if int(id) != rec.ID {
			return nil, fmt.Errorf("function %q has id %d, expected %d", rec.Name, rec.ID, id)
		}
		if rec.Instructions > 0 {
			kb.AddInstructions(id, rec.Instructions)
		}
		for _, obj := range rec.DefinedIn {
			if obj < 0 || obj >= kb.ObjectCount() {
				return nil, fmt.Errorf("function %q defined in unknown object %d", rec.Name, obj)
			}
			kb.MarkDefined(id, ObjectID(obj))
		}
	}
	for _, edge := range data.Edges {
		if edge.Caller < 0 || edge.Caller >= kb.FunctionCount() ||
			edge.Callee < 0 || edge.Callee >= kb.FunctionCount() {
			return nil, fmt.Errorf("edge %d->%d references unknown function", edge.Caller, edge.Callee)
		}
		kb.AddCall(FunctionID(edge.Caller), FunctionID(edge.Callee))
	}
	return kb, nil
}
