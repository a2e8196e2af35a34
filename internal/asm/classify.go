// Package asm parses compiler-emitted assembly listings into a knowledge
// base of function identities and call edges. Parsing is two-pass: linkage
// directives may appear anywhere in the file relative to the call sites that
// need them, so classification must finish before any identity is minted.
package asm

import (
	"strings"

	"github.com/asmscope/asmscope/internal/graph"
)

// classification holds the first-pass results for one translation unit:
// which symbols are function-typed, what linkage each symbol carries, and
// which names are declared equivalent to another name.
type classification struct {
	functions map[string]bool
	linkage   map[string]graph.Linkage
	aliases   map[string]string // old name -> bare target name
}

// linkageOf returns a symbol's linkage. Symbols without an explicit
// directive default to local.
func (c *classification) linkageOf(name string) graph.Linkage {
	return c.linkage[name]
}

// resolveAlias rewrites a call target through the alias table.
func (c *classification) resolveAlias(name string) string {
	if target, ok := c.aliases[name]; ok {
		return target
	}
	return name
}

// classify scans directive lines only. Directive variants it does not
// understand are skipped: assembler dialects differ across toolchain
// versions and anything irrelevant to call-graph extraction must not block
// progress.
func classify(src string) *classification {
	c := &classification{
		functions: make(map[string]bool),
		linkage:   make(map[string]graph.Linkage),
		aliases:   make(map[string]string),
	}

	for _, line := range strings.Split(src, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, ".") {
			continue
		}
		directive := trimmed
		rest := ""
		if i := strings.IndexAny(trimmed, " \t"); i >= 0 {
			directive = trimmed[:i]
			rest = strings.TrimSpace(trimmed[i+1:])
		}

		switch directive {
		case ".type":
			name, typ, ok := strings.Cut(rest, ",")
			if !ok {
				continue // malformed, skip
			}
			name = strings.TrimSpace(name)
			typ = strings.TrimSpace(typ)
			if name != "" && (typ == "@function" || typ == "%function") {
				c.functions[name] = true
			}
		case ".globl", ".global":
			if name := strings.TrimSpace(rest); name != "" {
				c.linkage[name] = graph.LinkageGlobal
			}
		case ".weak":
			if name := strings.TrimSpace(rest); name != "" {
				c.linkage[name] = graph.LinkageWeak
			}
		case ".set", ".equiv":
			old, target, ok := strings.Cut(rest, ",")
			if !ok {
				continue
			}
			old = strings.TrimSpace(old)
			// The target side may retain linkage decoration; strip it down
			// to a bare resolvable name.
			target = strings.TrimLeft(strings.TrimSpace(target), ",@%")
			if old == "" || target == "" {
				continue
			}
			c.aliases[old] = target
		}
	}
	return c
}
