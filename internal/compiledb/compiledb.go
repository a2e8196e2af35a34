// Package compiledb loads a build's compile-command database and turns
// selected entries into assembly-emitting compiler invocations. It is the
// thin I/O layer in front of the parser: the parser only ever sees the
// generated text plus the entry's output path.
package compiledb

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/gobwas/glob"
)

// CompileCommand is one entry of a compile_commands.json database. Either
// Command (a shell-quoted string) or Arguments (a pre-split argv) is set,
// depending on the generator.
type CompileCommand struct {
	Directory string   `json:"directory"`
	Command   string   `json:"command,omitempty"`
	Arguments []string `json:"arguments,omitempty"`
	File      string   `json:"file"`
	Output    string   `json:"output"`
}

// Database is a compile-command database indexed by output path.
type Database struct {
	commands []CompileCommand
	byOutput map[string]*CompileCommand
}

// Load reads and indexes a compile_commands.json file.
func Load(path string) (*Database, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read compile commands: %w", err)
	}

	var commands []CompileCommand
	if err := json.Unmarshal(raw, &commands); err != nil {
		return nil, fmt.Errorf("failed to parse compile commands: %w", err)
	}

	db := &Database{
		commands: commands,
		byOutput: make(map[string]*CompileCommand, len(commands)),
	}
	for i := range commands {
		if commands[i].Output != "" {
			db.byOutput[commands[i].Output] = &commands[i]
		}
	}
	return db, nil
}

// Len returns the number of entries in the database.
func (db *Database) Len() int {
	return len(db.commands)
}

// ByOutput returns the entry whose output path matches exactly.
func (db *Database) ByOutput(output string) (*CompileCommand, bool) {
	cmd, ok := db.byOutput[output]
	return cmd, ok
}

// MatchOutputs returns the entries whose output paths match the glob
// pattern, sorted by output path for deterministic processing order.
func (db *Database) MatchOutputs(pattern string) ([]*CompileCommand, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid output pattern %q: %w", pattern, err)
	}

	var matched []*CompileCommand
	for i := range db.commands {
		if db.commands[i].Output != "" && g.Match(db.commands[i].Output) {
			matched = append(matched, &db.commands[i])
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Output < matched[j].Output
	})
	return matched, nil
}
