// Package controller provides output adapters for displaying mutation
// testing progress and results.
package controller

import (
	"os"

	"github.com/mattn/go-isatty"

	m "sabot.dev/pkg/sabot/internal/model"
)

// UI abstracts result presentation so the run command can switch between the
// plain console renderer and the interactive TUI.
type UI interface {
	// Start is called once before the first mutation run begins.
	Start(total, workers int) error

	// Progress is called after each completed run. Calls are serialized by
	// the workflow but may arrive in any rule order when workers > 1.
	Progress(run m.Run, done, total int)

	// Summary renders the final aggregated report. Call after Close.
	Summary(report *m.Report) error

	// Close shuts the UI down and waits for it to finish rendering.
	Close()
}

// IsTTY reports whether the file is an interactive terminal.
func IsTTY(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
