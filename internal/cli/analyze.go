package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/asmscope/asmscope/internal/asm"
	"github.com/asmscope/asmscope/internal/compiledb"
	"github.com/asmscope/asmscope/internal/config"
	"github.com/asmscope/asmscope/internal/graph"
)

var (
	compileCommandsFlag string
	matchFlag           []string
	keepAsmFlag         bool
	quietFlag           bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [output-path ...]",
	Short: "Regenerate assembly for translation units and build the call graph",
	Long: `Analyze reads the build's compile_commands.json, rewrites the selected
compile invocations to emit assembly listings, parses each listing into the
shared knowledge base, and saves the resulting call-graph snapshot.

Translation units are selected by exact output path arguments, by --match
glob patterns, or (with neither) every entry in the database.

Examples:
  # Analyze two specific objects
  asmscope analyze CMakeFiles/core.dir/a.cc.o CMakeFiles/core.dir/b.cc.o

  # Analyze everything under one target
  asmscope analyze --match 'source/render/**'

  # Analyze the whole build, keeping the generated listings
  asmscope analyze --keep-asm
`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&compileCommandsFlag, "compile-commands", "c", "", "path to compile_commands.json")
	analyzeCmd.Flags().StringArrayVarP(&matchFlag, "match", "m", nil, "glob pattern selecting translation units by output path (repeatable)")
	analyzeCmd.Flags().BoolVar(&keepAsmFlag, "keep-asm", false, "keep generated assembly listings on disk")
	analyzeCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "disable progress bars and non-error output")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	// Set up context with cancellation for Ctrl+C
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nInterrupted! Cancelling analysis...")
		cancel()
	}()

	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if compileCommandsFlag != "" {
		cfg.CompileCommands = compileCommandsFlag
	}
	if len(matchFlag) > 0 {
		cfg.Match = matchFlag
	}
	if keepAsmFlag {
		cfg.KeepAsm = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	db, err := compiledb.Load(cfg.CompileCommands)
	if err != nil {
		return fmt.Errorf("failed to load compile commands: %w", err)
	}

	selected, err := selectCommands(db, args, cfg.Match)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		return fmt.Errorf("no translation units matched")
	}

	progress := NewAnalyzeProgressReporter(quietFlag)
	progress.OnAnalysisStart(len(selected))

	kb := graph.NewKnowledgeBase()
	parsed := 0
	for _, command := range selected {
		select {
		case <-ctx.Done():
			return fmt.Errorf("analysis cancelled")
		default:
		}

		summary, err := analyzeOne(ctx, kb, command, cfg.KeepAsm)
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("analysis cancelled")
			}
			log.Printf("Warning: skipping %s: %v", command.Output, err)
			progress.OnUnitProcessed(command.Output)
			continue
		}
		parsed++
		if verbose {
			log.Printf("%s: %d functions, %d instructions, %d indirect calls dropped",
				command.Output, len(summary.Functions), summary.Instructions, summary.DroppedIndirect)
		}
		progress.OnUnitProcessed(command.Output)
	}
	progress.OnAnalysisComplete(parsed, kb.FunctionCount())

	if parsed == 0 {
		return fmt.Errorf("no translation units could be analyzed")
	}

	store, err := graph.NewStorage(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open snapshot storage: %w", err)
	}
	if err := store.Save(kb.Snapshot()); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	if quietFlag {
		fmt.Printf("Analyzed %d translation units: %d functions, %d objects\n",
			parsed, kb.FunctionCount(), kb.ObjectCount())
	}
	return nil
}

// analyzeOne regenerates assembly for one translation unit and folds it into kb.
func analyzeOne(ctx context.Context, kb *graph.KnowledgeBase, command *compiledb.CompileCommand, keepAsm bool) (*asm.Summary, error) {
	asmCmd, err := compiledb.AdaptToAssembly(command)
	if err != nil {
		return nil, err
	}
	if err := compiledb.Generate(ctx, asmCmd); err != nil {
		return nil, err
	}
	if !keepAsm {
		defer func() {
			if err := compiledb.RemoveListing(asmCmd); err != nil {
				log.Printf("Warning: %v", err)
			}
		}()
	}

	listing, err := compiledb.ReadListing(asmCmd)
	if err != nil {
		return nil, err
	}
	return asm.ParseObject(kb, command.Output, listing)
}

// selectCommands resolves the analyzed set: exact output paths first, then
// match patterns, then the whole database.
func selectCommands(db *compiledb.Database, outputs, patterns []string) ([]*compiledb.CompileCommand, error) {
	if len(outputs) > 0 {
		var selected []*compiledb.CompileCommand
		for _, output := range outputs {
			command, ok := db.ByOutput(output)
			if !ok {
				return nil, fmt.Errorf("no compile command for output %q", output)
			}
			selected = append(selected, command)
		}
		return selected, nil
	}

	if len(patterns) > 0 {
		var selected []*compiledb.CompileCommand
		seen := make(map[string]bool)
		for _, pattern := range patterns {
			matched, err := db.MatchOutputs(pattern)
			if err != nil {
				return nil, err
			}
			for _, command := range matched {
				if !seen[command.Output] {
					seen[command.Output] = true
					selected = append(selected, command)
				}
			}
		}
		return selected, nil
	}

	return db.MatchOutputs("**")
}
