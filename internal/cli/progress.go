package cli

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
)

// AnalyzeProgressReporter renders per-translation-unit progress during
// analysis.
type AnalyzeProgressReporter struct {
	quiet     bool
	bar       *progressbar.ProgressBar
	startTime time.Time
}

// NewAnalyzeProgressReporter creates a new progress reporter.
func NewAnalyzeProgressReporter(quiet bool) *AnalyzeProgressReporter {
	return &AnalyzeProgressReporter{
		quiet:     quiet,
		startTime: time.Now(),
	}
}

func (a *AnalyzeProgressReporter) OnAnalysisStart(totalUnits int) {
	if a.quiet {
		return
	}
	a.bar = progressbar.NewOptions(totalUnits,
		progressbar.OptionSetDescription("Analyzing translation units"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("units/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)
}

func (a *AnalyzeProgressReporter) OnUnitProcessed(output string) {
	if a.quiet || a.bar == nil {
		return
	}
	a.bar.Add(1)
}

func (a *AnalyzeProgressReporter) OnAnalysisComplete(units, functions int) {
	if a.quiet {
		return
	}
	if a.bar != nil {
		a.bar.Finish()
		a.bar = nil
	}
	fmt.Printf("✓ Analysis complete: %d units, %d functions (took %.1fs)\n",
		units, functions, time.Since(a.startTime).Seconds())
}
