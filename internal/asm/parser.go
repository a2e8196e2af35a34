package asm

import (
	"fmt"
	"unicode/utf8"

	"github.com/asmscope/asmscope/internal/graph"
)

// ParseObject folds one translation unit's assembly listing into kb. The
// object is identified by its build output path; parsing the same path again
// reuses the existing object identity. The returned summary is a standalone
// per-object view; the cross-object state lives in kb.
//
// Parsing is best-effort: malformed directives and untokenizable call
// operands are skipped and tallied in the summary. The only fatal input
// condition is text that is not valid UTF-8.
func ParseObject(kb *graph.KnowledgeBase, objectPath, src string) (*Summary, error) {
	if !utf8.ValidString(src) {
		return nil, fmt.Errorf("assembly listing for %s is not valid UTF-8 text", objectPath)
	}
	obj := kb.InternObject(objectPath)
	cls := classify(src)
	return scan(kb, obj, src, cls), nil
}
