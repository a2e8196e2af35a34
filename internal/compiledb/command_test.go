package compiledb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for AdaptToAssembly:
// - -S is inserted and -o redirected to a .s path under the entry directory
// - Pre-split arguments arrays are adapted without shell splitting
// - Absolute output paths stay absolute
// - Missing -o errors
// - Quoted command strings split correctly

func TestAdaptToAssembly_CommandString(t *testing.T) {
	t.Parallel()

	cmd := &CompileCommand{
		Directory: "/build",
		Command:   "clang++ -O2 -c /src/draw.cc -o render/draw.cc.o",
		File:      "/src/draw.cc",
		Output:    "render/draw.cc.o",
	}

	adapted, err := AdaptToAssembly(cmd)
	require.NoError(t, err)

	assert.Equal(t, "clang++", adapted.Program)
	assert.Equal(t, "/build", adapted.Dir)
	assert.Equal(t, "/build/render/draw.cc.s", adapted.Output)
	assert.Equal(t, []string{"-O2", "-c", "/src/draw.cc", "-S", "-o", "/build/render/draw.cc.s"}, adapted.Args)
}

func TestAdaptToAssembly_ArgumentsArray(t *testing.T) {
	t.Parallel()

	cmd := &CompileCommand{
		Directory: "/build",
		Arguments: []string{"gcc", "-c", "main.c", "-o", "main.o"},
		File:      "main.c",
		Output:    "main.o",
	}

	adapted, err := AdaptToAssembly(cmd)
	require.NoError(t, err)

	assert.Equal(t, "gcc", adapted.Program)
	assert.Equal(t, []string{"-c", "main.c", "-S", "-o", "/build/main.s"}, adapted.Args)
	assert.Equal(t, []string{"gcc", "-c", "main.c", "-o", "main.o"}, cmd.Arguments,
		"the database entry must not be mutated")
}

func TestAdaptToAssembly_AbsoluteOutput(t *testing.T) {
	t.Parallel()

	cmd := &CompileCommand{
		Directory: "/build",
		Arguments: []string{"gcc", "-c", "main.c", "-o", "/build/out/main.o"},
		File:      "main.c",
		Output:    "/build/out/main.o",
	}

	adapted, err := AdaptToAssembly(cmd)
	require.NoError(t, err)
	assert.Equal(t, "/build/out/main.s", adapted.Output)
}

func TestAdaptToAssembly_MissingOutput(t *testing.T) {
	t.Parallel()

	cmd := &CompileCommand{
		Directory: "/build",
		Command:   "gcc -c main.c",
		File:      "main.c",
	}
	_, err := AdaptToAssembly(cmd)
	assert.Error(t, err)

	cmd = &CompileCommand{
		Directory: "/build",
		Command:   "gcc -c main.c -o",
		File:      "main.c",
	}
	_, err = AdaptToAssembly(cmd)
	assert.Error(t, err, "-o as the last argument has no target")
}

func TestAdaptToAssembly_QuotedCommand(t *testing.T) {
	t.Parallel()

	cmd := &CompileCommand{
		Directory: "/build",
		Command:   `gcc "-DNAME=\"quoted value\"" -c main.c -o main.o`,
		File:      "main.c",
		Output:    "main.o",
	}

	adapted, err := AdaptToAssembly(cmd)
	require.NoError(t, err)
	assert.Contains(t, adapted.Args, `-DNAME="quoted value"`)
}
