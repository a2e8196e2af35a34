package compiledb

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/shlex"
)

// AssemblyCommand is a compiler invocation rewritten to emit an assembly
// listing instead of an object file.
type AssemblyCommand struct {
	Program string
	Args    []string
	Dir     string // working directory of the original compile
	Output  string // absolute path of the listing the invocation will write
}

// AdaptToAssembly rewrites a compile command so the compiler emits assembly:
// the `-o` target is redirected to a `.s` sibling of the original output,
// resolved against the entry's directory, and `-S` is inserted so compilation
// stops after code generation.
func AdaptToAssembly(cmd *CompileCommand) (*AssemblyCommand, error) {
	argv, err := splitArgs(cmd)
	if err != nil {
		return nil, err
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("compile command for %s is empty", cmd.File)
	}

	outputIndex := -1
	for i, arg := range argv {
		if arg == "-o" {
			outputIndex = i
			break
		}
	}
	if outputIndex < 0 || outputIndex+1 >= len(argv) {
		return nil, fmt.Errorf("compile command for %s has no -o argument", cmd.File)
	}

	listing := argv[outputIndex+1]
	listing = strings.TrimSuffix(listing, filepath.Ext(listing)) + ".s"
	if !filepath.IsAbs(listing) {
		listing = filepath.Join(cmd.Directory, listing)
	}
	argv[outputIndex+1] = listing

	// Insert -S before -o.
	argv = append(argv[:outputIndex], append([]string{"-S"}, argv[outputIndex:]...)...)

	return &AssemblyCommand{
		Program: argv[0],
		Args:    argv[1:],
		Dir:     cmd.Directory,
		Output:  listing,
	}, nil
}

// splitArgs returns the entry's argv, shell-splitting the command string when
// the generator did not provide a pre-split arguments array.
func splitArgs(cmd *CompileCommand) ([]string, error) {
	if len(cmd.Arguments) > 0 {
		argv := make([]string, len(cmd.Arguments))
		copy(argv, cmd.Arguments)
		return argv, nil
	}
	argv, err := shlex.Split(cmd.Command)
	if err != nil {
		return nil, fmt.Errorf("failed to split compile command for %s: %w", cmd.File, err)
	}
	return argv, nil
}
