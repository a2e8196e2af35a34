package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asmscope/asmscope/internal/graph"
)

// Test Plan for ParseObject:
// - Local function calling a global: identities, count, and edge match
// - Instruction count equals non-directive lines between label and .size
// - Same-named locals in two objects stay distinct identities
// - Global/weak symbols in two objects share one identity
// - Callee-first interning reuses the id when the symbol is later defined
// - Alias rewriting points edges at the target identity
// - Indirect calls are dropped, tallied in the summary
// - Call multiplicity is preserved in adjacency
// - Unparseable call lines are recovered, not fatal
// - Non-UTF-8 input is the one fatal input condition
// - Parsing the same text twice into fresh knowledge bases is isomorphic

const fooCallsBar = "\t.text\n" +
	"\t.globl\tbar\n" +
	"\t.type\tfoo,@function\n" +
	"foo:\n" +
	"\tpushq\t%rbp\n" +
	"\tcall\tbar@PLT\n" +
	"\tpopq\t%rbp\n" +
	"\t.size\tfoo, .-foo\n"

func TestParseObject_LocalCallingGlobal(t *testing.T) {
	t.Parallel()

	kb := graph.NewKnowledgeBase()
	summary, err := ParseObject(kb, "a.o", fooCallsBar)
	require.NoError(t, err)

	obj, ok := kb.LookupObject("a.o")
	require.True(t, ok)

	foo, ok := kb.LookupFunction(graph.LocalKey(obj, "foo"))
	require.True(t, ok, "foo has no linkage directive, so it interns locally")
	_, ok = kb.LookupFunction(graph.GlobalKey("foo"))
	assert.False(t, ok, "foo must not also intern globally")

	bar, ok := kb.LookupFunction(graph.GlobalKey("bar"))
	require.True(t, ok, "bar is declared .globl")

	assert.Equal(t, 3, kb.Instructions(foo), "three non-directive body lines")
	assert.Equal(t, []graph.FunctionID{bar}, kb.Callees(foo))
	assert.Equal(t, []graph.FunctionID{foo}, kb.Callers(bar))
	assert.Equal(t, []graph.ObjectID{obj}, kb.DefinedObjects(foo))
	assert.Empty(t, kb.DefinedObjects(bar), "bar was referenced, never defined")

	assert.Equal(t, []graph.FunctionID{foo}, summary.Functions)
	assert.Equal(t, 3, summary.Instructions)
}

func TestParseObject_CountStopsAtSize(t *testing.T) {
	t.Parallel()

	src := "\t.type\tf,@function\n" +
		"f:\n" +
		"\tmovl\t$0, %eax\n" +
		"\t.cfi_def_cfa_offset 16\n" + // directive inside body, not counted
		"\tretq\n" +
		"\t.size\tf, .-f\n" +
		"\tnop\n" // after the body closed, not counted

	kb := graph.NewKnowledgeBase()
	_, err := ParseObject(kb, "a.o", src)
	require.NoError(t, err)

	obj, _ := kb.LookupObject("a.o")
	f, ok := kb.LookupFunction(graph.LocalKey(obj, "f"))
	require.True(t, ok)
	assert.Equal(t, 2, kb.Instructions(f))
}

func TestParseObject_SameNamedLocalsStayDistinct(t *testing.T) {
	t.Parallel()

	src := "\t.type\thelper,@function\n" +
		"helper:\n" +
		"\tretq\n" +
		"\t.size\thelper, .-helper\n"

	kb := graph.NewKnowledgeBase()
	_, err := ParseObject(kb, "a.o", src)
	require.NoError(t, err)
	_, err = ParseObject(kb, "b.o", src)
	require.NoError(t, err)

	objA, _ := kb.LookupObject("a.o")
	objB, _ := kb.LookupObject("b.o")
	helperA, okA := kb.LookupFunction(graph.LocalKey(objA, "helper"))
	helperB, okB := kb.LookupFunction(graph.LocalKey(objB, "helper"))
	require.True(t, okA)
	require.True(t, okB)

	assert.NotEqual(t, helperA, helperB, "local symbols must never collapse across objects")
	assert.Equal(t, 1, kb.Instructions(helperA))
	assert.Equal(t, 1, kb.Instructions(helperB))
}

func TestParseObject_GlobalSharedAcrossObjects(t *testing.T) {
	t.Parallel()

	src := "\t.globl\tshared\n" +
		"\t.type\tshared,@function\n" +
		"shared:\n" +
		"\tretq\n" +
		"\t.size\tshared, .-shared\n"

	weakSrc := "\t.weak\tshared\n" +
		"\t.type\tshared,@function\n" +
		"shared:\n" +
		"\tnop\n" +
		"\tretq\n" +
		"\t.size\tshared, .-shared\n"

	kb := graph.NewKnowledgeBase()
	_, err := ParseObject(kb, "a.o", src)
	require.NoError(t, err)
	_, err = ParseObject(kb, "b.o", weakSrc)
	require.NoError(t, err)

	shared, ok := kb.LookupFunction(graph.GlobalKey("shared"))
	require.True(t, ok)

	objA, _ := kb.LookupObject("a.o")
	objB, _ := kb.LookupObject("b.o")
	assert.ElementsMatch(t, []graph.ObjectID{objA, objB}, kb.DefinedObjects(shared),
		"weak resolves like global: one identity, defined in both objects")
	assert.Equal(t, 3, kb.Instructions(shared), "counts accumulate across definitions")
}

func TestParseObject_CalleeFirstThenDefined(t *testing.T) {
	t.Parallel()

	caller := "\t.type\tmain,@function\n" +
		"main:\n" +
		"\tcall\tutil\n" +
		"\t.size\tmain, .-main\n"
	definer := "\t.globl\tutil\n" +
		"\t.type\tutil,@function\n" +
		"util:\n" +
		"\tretq\n" +
		"\t.size\tutil, .-util\n"

	kb := graph.NewKnowledgeBase()
	_, err := ParseObject(kb, "main.o", caller)
	require.NoError(t, err)

	util, ok := kb.LookupFunction(graph.GlobalKey("util"))
	require.True(t, ok, "callee identity allocated lazily at the call site")
	assert.Empty(t, kb.DefinedObjects(util))

	_, err = ParseObject(kb, "util.o", definer)
	require.NoError(t, err)

	utilAfter, ok := kb.LookupFunction(graph.GlobalKey("util"))
	require.True(t, ok)
	assert.Equal(t, util, utilAfter, "defining the symbol later must reuse the id")

	objUtil, _ := kb.LookupObject("util.o")
	assert.Equal(t, []graph.ObjectID{objUtil}, kb.DefinedObjects(util))
}

func TestParseObject_AliasRewritesCallTarget(t *testing.T) {
	t.Parallel()

	src := "\t.set\told_impl, new_impl\n" +
		"\t.type\tcaller,@function\n" +
		"caller:\n" +
		"\tcall\told_impl\n" +
		"\t.size\tcaller, .-caller\n"

	kb := graph.NewKnowledgeBase()
	_, err := ParseObject(kb, "a.o", src)
	require.NoError(t, err)

	_, ok := kb.LookupFunction(graph.GlobalKey("old_impl"))
	assert.False(t, ok, "the aliased name must never get an identity")

	newImpl, ok := kb.LookupFunction(graph.GlobalKey("new_impl"))
	require.True(t, ok)

	obj, _ := kb.LookupObject("a.o")
	caller, _ := kb.LookupFunction(graph.LocalKey(obj, "caller"))
	assert.Equal(t, []graph.FunctionID{newImpl}, kb.Callees(caller))
}

func TestParseObject_IndirectCallsDropped(t *testing.T) {
	t.Parallel()

	src := "\t.type\tf,@function\n" +
		"f:\n" +
		"\tcall\t*%rax\n" +
		"\tcall\t*16(%rdi)\n" +
		"\tcall\tdirect\n" +
		"\t.size\tf, .-f\n"

	kb := graph.NewKnowledgeBase()
	summary, err := ParseObject(kb, "a.o", src)
	require.NoError(t, err)

	obj, _ := kb.LookupObject("a.o")
	f, _ := kb.LookupFunction(graph.LocalKey(obj, "f"))

	assert.Equal(t, 2, summary.DroppedIndirect)
	assert.Len(t, kb.Callees(f), 1, "only the direct call becomes an edge")
	assert.Equal(t, 3, kb.Instructions(f), "indirect calls still count as instructions")
}

func TestParseObject_CallMultiplicityPreserved(t *testing.T) {
	t.Parallel()

	src := "\t.type\tf,@function\n" +
		"f:\n" +
		"\tcall\tg\n" +
		"\tcall\tg\n" +
		"\t.size\tf, .-f\n"

	kb := graph.NewKnowledgeBase()
	_, err := ParseObject(kb, "a.o", src)
	require.NoError(t, err)

	obj, _ := kb.LookupObject("a.o")
	f, _ := kb.LookupFunction(graph.LocalKey(obj, "f"))
	g, _ := kb.LookupFunction(graph.GlobalKey("g"))

	assert.Equal(t, []graph.FunctionID{g, g}, kb.Callees(f))
	assert.Equal(t, []graph.FunctionID{f, f}, kb.Callers(g))
}

func TestParseObject_UnparseableCallRecovered(t *testing.T) {
	t.Parallel()

	src := "\t.type\tf,@function\n" +
		"f:\n" +
		"\tcall\n" +
		"\tretq\n" +
		"\t.size\tf, .-f\n"

	kb := graph.NewKnowledgeBase()
	summary, err := ParseObject(kb, "a.o", src)
	require.NoError(t, err, "a bad call line drops the edge, not the parse")

	assert.Equal(t, 1, summary.UnresolvedCalls)
	obj, _ := kb.LookupObject("a.o")
	f, _ := kb.LookupFunction(graph.LocalKey(obj, "f"))
	assert.Empty(t, kb.Callees(f))
	assert.Equal(t, 2, kb.Instructions(f))
}

func TestParseObject_InvalidUTF8Fatal(t *testing.T) {
	t.Parallel()

	kb := graph.NewKnowledgeBase()
	_, err := ParseObject(kb, "a.o", "f:\n\xff\xfe\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UTF-8")
}

func TestParseObject_UntypedLabelsIgnored(t *testing.T) {
	t.Parallel()

	// A label without a function type directive is not tracked, so its body
	// is not attributed to anything.
	src := "untyped:\n" +
		"\tretq\n" +
		"\t.size\tuntyped, .-untyped\n"

	kb := graph.NewKnowledgeBase()
	summary, err := ParseObject(kb, "a.o", src)
	require.NoError(t, err)

	assert.Empty(t, summary.Functions)
	assert.Zero(t, kb.FunctionCount())
}

func TestParseObject_Idempotence(t *testing.T) {
	t.Parallel()

	kb1 := graph.NewKnowledgeBase()
	kb2 := graph.NewKnowledgeBase()
	_, err := ParseObject(kb1, "a.o", fooCallsBar)
	require.NoError(t, err)
	_, err = ParseObject(kb2, "a.o", fooCallsBar)
	require.NoError(t, err)

	assert.Equal(t, kb1.Snapshot(), kb2.Snapshot(),
		"parsing the same text into fresh knowledge bases is isomorphic")
}
