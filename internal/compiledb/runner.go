package compiledb

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// Generate runs the adapted compiler invocation and waits for it to finish.
// Compiler diagnostics pass through to stderr.
func Generate(ctx context.Context, cmd *AssemblyCommand) error {
	c := exec.CommandContext(ctx, cmd.Program, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("assembly generation for %s failed: %w", cmd.Output, err)
	}
	return nil
}

// ReadListing reads the assembly listing the invocation produced.
func ReadListing(cmd *AssemblyCommand) (string, error) {
	raw, err := os.ReadFile(cmd.Output)
	if err != nil {
		return "", fmt.Errorf("failed to read assembly listing: %w", err)
	}
	return string(raw), nil
}

// RemoveListing deletes the generated listing.
func RemoveListing(cmd *AssemblyCommand) error {
	if err := os.Remove(cmd.Output); err != nil {
		return fmt.Errorf("failed to remove assembly listing: %w", err)
	}
	return nil
}
