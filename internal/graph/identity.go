package graph

// Linkage classifies how a symbol is visible outside its translation unit.
type Linkage int

const (
	// LinkageLocal means the symbol is private to one translation unit.
	LinkageLocal Linkage = iota
	// LinkageWeak means the symbol is externally visible but overridable.
	LinkageWeak
	// LinkageGlobal means the symbol is externally visible.
	LinkageGlobal
)

// External reports whether symbols with this linkage share one identity
// across translation units. Weak symbols behave like globals here: both are
// resolved by name alone.
func (l Linkage) External() bool {
	return l != LinkageLocal
}

func (l Linkage) String() string {
	switch l {
	case LinkageWeak:
		return "weak"
	case LinkageGlobal:
		return "global"
	default:
		return "local"
	}
}

// ObjectID identifies one translation unit's compiled output, backed by its
// build output path. Allocated once per distinct path, never reclaimed.
type ObjectID int

// FunctionID identifies a function across all parsed objects. Allocation is
// monotonic: an id minted while resolving a callee stays valid when the same
// symbol is later defined in another object.
type FunctionID int

// FunctionKey is the interning key for a function identity. External (global
// or weak) symbols are keyed by name alone. Local symbols are keyed by name
// plus owning object, so two objects each defining an unrelated local symbol
// with the same name never collapse onto one identity.
type FunctionKey struct {
	Name   string
	Object ObjectID // owning object, meaningful only when Local is true
	Local  bool
}

// GlobalKey returns the key for an external symbol, or for a callee whose
// linkage is not locally known (forward references resolve externally).
func GlobalKey(name string) FunctionKey {
	return FunctionKey{Name: name}
}

// LocalKey returns the key for a symbol private to one object.
func LocalKey(object ObjectID, name string) FunctionKey {
	return FunctionKey{Name: name, Object: object, Local: true}
}

func (k FunctionKey) String() string {
	if k.Local {
		return k.Name + " (local)"
	}
	return k.Name
}
