package graph

// KnowledgeBase is the mutable aggregate built up by parsing translation
// units. It owns all names and identities independently of the source text
// buffers they were scanned from, and is only ever extended: repeated
// registration of the same key returns the same id, and no operation removes
// data. Not safe for concurrent use; callers parsing translation units in
// parallel must serialize the merge into one KnowledgeBase.
type KnowledgeBase struct {
	objectIDs   map[string]ObjectID
	objectPaths []string // index is ObjectID

	functionIDs  map[FunctionKey]FunctionID
	functionKeys []FunctionKey // index is FunctionID

	definedIn    map[FunctionID][]ObjectID
	callees      map[FunctionID][]FunctionID
	callers      map[FunctionID][]FunctionID
	instructions map[FunctionID]int
}

// NewKnowledgeBase returns an empty knowledge base.
func NewKnowledgeBase() *KnowledgeBase {
	return &KnowledgeBase{
		objectIDs:    make(map[string]ObjectID),
		functionIDs:  make(map[FunctionKey]FunctionID),
		definedIn:    make(map[FunctionID][]ObjectID),
		callees:      make(map[FunctionID][]FunctionID),
		callers:      make(map[FunctionID][]FunctionID),
		instructions: make(map[FunctionID]int),
	}
}

// InternObject returns the id for the given output path, allocating one the
// first time the path is seen.
func (kb *KnowledgeBase) InternObject(path string) ObjectID {
	if id, ok := kb.objectIDs[path]; ok {
		return id
	}
	id := ObjectID(len(kb.objectPaths))
	kb.objectIDs[path] = id
	kb.objectPaths = append(kb.objectPaths, path)
	return id
}

// InternFunction returns the id for the given key, allocating one the first
// time the key is seen. Lookup always precedes allocation, so a global symbol
// first seen as a callee keeps its id when it is later defined.
func (kb *KnowledgeBase) InternFunction(key FunctionKey) FunctionID {
	if id, ok := kb.functionIDs[key]; ok {
		return id
	}
	id := FunctionID(len(kb.functionKeys))
	kb.functionIDs[key] = id
	kb.functionKeys = append(kb.functionKeys, key)
	return id
}

// LookupFunction returns the id for a key without allocating.
func (kb *KnowledgeBase) LookupFunction(key FunctionKey) (FunctionID, bool) {
	id, ok := kb.functionIDs[key]
	return id, ok
}

// LookupObject returns the id for an output path without allocating.
func (kb *KnowledgeBase) LookupObject(path string) (ObjectID, bool) {
	id, ok := kb.objectIDs[path]
	return id, ok
}

// MarkDefined records that fn's body was scanned in obj. Idempotent.
func (kb *KnowledgeBase) MarkDefined(fn FunctionID, obj ObjectID) {
	for _, o := range kb.definedIn[fn] {
		if o == obj {
			return
		}
	}
	kb.definedIn[fn] = append(kb.definedIn[fn], obj)
}

// AddCall records a call edge in both adjacency directions. Multiplicity is
// preserved: calling the same target twice in one body yields two entries.
func (kb *KnowledgeBase) AddCall(caller, callee FunctionID) {
	kb.callees[caller] = append(kb.callees[caller], callee)
	kb.callers[callee] = append(kb.callers[callee], caller)
}

// AddInstructions adds n to fn's instruction count.
func (kb *KnowledgeBase) AddInstructions(fn FunctionID, n int) {
	kb.instructions[fn] += n
}

// FunctionKeyOf returns the interning key for an id.
func (kb *KnowledgeBase) FunctionKeyOf(id FunctionID) FunctionKey {
	return kb.functionKeys[id]
}

// FunctionName returns the raw symbol name for an id.
func (kb *KnowledgeBase) FunctionName(id FunctionID) string {
	return kb.functionKeys[id].Name
}

// ObjectPath returns the output path backing an object id.
func (kb *KnowledgeBase) ObjectPath(id ObjectID) string {
	return kb.objectPaths[id]
}

// ObjectCount returns the number of distinct objects interned so far.
func (kb *KnowledgeBase) ObjectCount() int {
	return len(kb.objectPaths)
}

// FunctionCount returns the number of distinct function identities.
func (kb *KnowledgeBase) FunctionCount() int {
	return len(kb.functionKeys)
}

// Callers returns the ids whose bodies contain a call to fn.
func (kb *KnowledgeBase) Callers(fn FunctionID) []FunctionID {
	return kb.callers[fn]
}

// Callees returns the ids fn's body calls.
func (kb *KnowledgeBase) Callees(fn FunctionID) []FunctionID {
	return kb.callees[fn]
}

// DefinedObjects returns the objects fn's body was scanned in.
func (kb *KnowledgeBase) DefinedObjects(fn FunctionID) []ObjectID {
	return kb.definedIn[fn]
}

// Instructions returns fn's accumulated instruction count.
func (kb *KnowledgeBase) Instructions(fn FunctionID) int {
	return kb.instructions[fn]
}

// FindByName returns every identity carrying the given raw name: the external
// identity if one exists, followed by local identities in id order.
func (kb *KnowledgeBase) FindByName(name string) []FunctionID {
	var ids []FunctionID
	if id, ok := kb.functionIDs[GlobalKey(name)]; ok {
		ids = append(ids, id)
	}
	for id, key := range kb.functionKeys {
		if key.Local && key.Name == name {
			ids = append(ids, FunctionID(id))
		}
	}
	return ids
}
