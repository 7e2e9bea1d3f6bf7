package domain

import (
	"context"
	"log/slog"
	"time"

	"github.com/pmezard/go-difflib/difflib"

	"sabot.dev/pkg/sabot/internal/adapter"
	m "sabot.dev/pkg/sabot/internal/model"
)

// RunDefaults carries document-level settings applied when a rule omits them.
type RunDefaults struct {
	Timeout     time.Duration
	TestCommand []string
}

// Orchestrator drives one mutation through its full lifecycle against a
// workspace: resolve the site, back up the file, write the mutated text, run
// the tests, classify the outcome and restore the original bytes.
//
// A non-nil error from RunMutation is always a restore failure. The file may
// still hold mutated bytes at that point, so the caller must stop issuing
// further mutations; every other failure mode is folded into the returned
// run's status instead.
type Orchestrator interface {
	RunMutation(ctx context.Context, workspace m.Path, spec m.MutationSpec, defaults RunDefaults) (m.Run, error)
}

type orchestrator struct {
	fs       adapter.SourceFSAdapter
	runner   adapter.TestRunnerAdapter
	preparer Preparer
}

// NewOrchestrator constructs an Orchestrator backed by the provided
// filesystem and test runner adapters.
func NewOrchestrator(fs adapter.SourceFSAdapter, runner adapter.TestRunnerAdapter, preparer Preparer) Orchestrator {
	return &orchestrator{
		fs:       fs,
		runner:   runner,
		preparer: preparer,
	}
}

// maxDetailBytes bounds the diagnostic output kept per run so one noisy test
// command cannot bloat the report.
const maxDetailBytes = 16 * 1024

func (o *orchestrator) RunMutation(ctx context.Context, workspace m.Path, spec m.MutationSpec, defaults RunDefaults) (run m.Run, err error) {
	start := time.Now()
	run = m.Run{Spec: spec}

	target := o.fs.JoinPath(string(workspace), string(spec.File))

	if _, statErr := o.fs.FileInfo(target); statErr != nil {
		return o.configError(run, start, &FileNotFoundError{File: spec.File}), nil
	}

	originalBytes, readErr := o.fs.ReadFile(target)
	if readErr != nil {
		return o.configError(run, start, readErr), nil
	}

	prepared, prepErr := o.preparer.Prepare(originalBytes, spec)
	if prepErr != nil {
		// Validation failed: the run terminates without touching the disk.
		return o.configError(run, start, prepErr), nil
	}

	run.Site = &prepared.Site
	run.Diff = unifiedDiff(spec.File, originalBytes, prepared.MutatedSource)

	slog.Debug("applying mutation", "id", spec.ID, "file", spec.File, "line", prepared.Site.Line)

	// From here on the file is presumed dirty: restore runs on every exit
	// path, including panics in the test runner.
	defer func() {
		if restoreErr := o.fs.WriteFile(target, originalBytes, 0o600); restoreErr != nil {
			slog.Error("failed to restore original file", "file", target, "error", restoreErr)
			err = &RestoreError{File: spec.File, Err: restoreErr}
		}
	}()

	if writeErr := o.fs.WriteFile(target, prepared.MutatedSource, 0o600); writeErr != nil {
		return o.configError(run, start, writeErr), nil
	}

	timeout := defaults.Timeout
	if spec.Timeout > 0 {
		timeout = time.Duration(spec.Timeout) * time.Second
	}

	verdict, output, testErr := o.runner.RunTests(ctx, string(workspace), defaults.TestCommand, timeout)

	run.Duration = time.Since(start)

	if testErr != nil {
		run.Status = m.ConfigError
		run.Details = truncate(testErr.Error())

		return run, nil
	}

	switch verdict {
	case adapter.TestsPassed:
		run.Status = m.Survived
	case adapter.TestsFailed:
		run.Status = m.Killed
		run.Details = truncate(output)
	case adapter.TestsBuildFailed:
		run.Status = m.BuildFailed
		run.Details = truncate(output)
	case adapter.TestsTimedOut:
		run.Status = m.Timeout
	}

	return run, nil
}

func (o *orchestrator) configError(run m.Run, start time.Time, cause error) m.Run {
	slog.Warn("mutation rejected", "id", run.Spec.ID, "error", cause)

	run.Status = m.ConfigError
	run.Details = cause.Error()
	run.Duration = time.Since(start)

	return run
}

func truncate(s string) string {
	if len(s) <= maxDetailBytes {
		return s
	}

	return s[:maxDetailBytes] + "\n... (truncated)"
}

// unifiedDiff renders the original -> mutated change for the report. It has
// to happen before restore, since the mutated text is gone afterwards.
func unifiedDiff(file m.Path, original, mutated []byte) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(original)),
		B:        difflib.SplitLines(string(mutated)),
		FromFile: string(file),
		ToFile:   string(file) + " (mutated)",
		Context:  3,
	})
	if err != nil {
		return ""
	}

	return diff
}
