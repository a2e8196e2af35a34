package asm

import (
	"strings"

	"github.com/asmscope/asmscope/internal/graph"
)

// Summary reports what one parsed translation unit touched.
type Summary struct {
	Object       graph.ObjectID
	Functions    []graph.FunctionID // functions defined in this object, in scan order
	Instructions int                // total instructions counted across all bodies

	// Recovered defects. Neither aborts the parse: assembler output routinely
	// contains constructs the scanner does not need to understand.
	DroppedIndirect int // register-indirect calls, unrepresentable as edges
	UnresolvedCalls int // call lines whose operand could not be tokenized
}

// scan walks the text a second time, attributing instruction counts and call
// edges to the enclosing function. At most one body is open at a time: a
// label matching a classified function opens it, the size directive closes
// it. The cursor is plain local state threaded through the pass.
func scan(kb *graph.KnowledgeBase, obj graph.ObjectID, src string, cls *classification) *Summary {
	summary := &Summary{Object: obj}

	current := graph.FunctionID(-1)
	open := false

	for _, line := range strings.Split(src, "\n") {
		if name, ok := labelName(line); ok && cls.functions[name] {
			fn := internDeclared(kb, obj, name, cls)
			kb.MarkDefined(fn, obj)
			summary.Functions = append(summary.Functions, fn)
			current = fn
			open = true
			continue
		}
		if !open {
			continue
		}

		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, ".") {
			if strings.HasPrefix(trimmed, ".size") {
				open = false
			}
			continue
		}

		kb.AddInstructions(current, 1)
		summary.Instructions++

		if strings.HasPrefix(trimmed, "call") {
			scanCall(kb, current, obj, trimmed, cls, summary)
		}
	}
	return summary
}

// scanCall extracts the operand of a call instruction and records the edge.
func scanCall(kb *graph.KnowledgeBase, caller graph.FunctionID, obj graph.ObjectID, line string, cls *classification, summary *Summary) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		summary.UnresolvedCalls++
		return
	}
	operand := fields[1]

	// Register-indirect calls (call *%rax, call *16(%rdi)) have no symbolic
	// target; the edge is unrepresentable and dropped.
	if strings.HasPrefix(operand, "*") {
		summary.DroppedIndirect++
		return
	}

	// Strip dynamic-linkage decoration (bar@PLT, memcpy@GOTPCREL).
	if i := strings.IndexByte(operand, '@'); i >= 0 {
		operand = operand[:i]
	}
	if operand == "" {
		summary.UnresolvedCalls++
		return
	}

	target := cls.resolveAlias(operand)
	callee := internDeclared(kb, obj, target, cls)
	kb.AddCall(caller, callee)
}

// internDeclared resolves a name against this unit's classification. A name
// declared local here is keyed to this object; anything else, including
// callees never declared in this unit, resolves externally by name.
func internDeclared(kb *graph.KnowledgeBase, obj graph.ObjectID, name string, cls *classification) graph.FunctionID {
	if cls.functions[name] && cls.linkageOf(name) == graph.LinkageLocal {
		return kb.InternFunction(graph.LocalKey(obj, name))
	}
	return kb.InternFunction(graph.GlobalKey(name))
}

// labelName reports whether line is a bare label definition: no leading
// whitespace, ending in the label terminator.
func labelName(line string) (string, bool) {
	if line == "" || line[0] == ' ' || line[0] == '\t' {
		return "", false
	}
	trimmed := strings.TrimRight(line, " \t\r")
	if !strings.HasSuffix(trimmed, ":") {
		return "", false
	}
	name := trimmed[:len(trimmed)-1]
	if name == "" {
		return "", false
	}
	return name, true
}
