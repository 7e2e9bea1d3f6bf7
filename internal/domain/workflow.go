package domain

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"sabot.dev/pkg/sabot/internal/adapter"
	m "sabot.dev/pkg/sabot/internal/model"
)

// TestArgs carries the run-level options for RunAll.
type TestArgs struct {
	// Project is the root of the module under test.
	Project m.Path

	// Workers is the number of isolated workspace replicas to run mutation
	// pipelines in. 1 (or less) means strictly sequential in Project itself.
	Workers int

	// FailFast aborts the run on the first ConfigError outcome instead of
	// recording it and continuing.
	FailFast bool

	// Timeout is the test deadline applied when a rule does not set its own.
	Timeout time.Duration

	// TestCommand is the build/test command argv run against the workspace.
	TestCommand []string

	// Progress, when non-nil, is invoked after each completed run. Calls are
	// serialized; runs may complete in any order across workers.
	Progress func(run m.Run, done, total int)
}

// Workflow exposes the two boundary operations of the engine: dry-run
// validation of every rule and the full mutate-test-restore lifecycle.
type Workflow interface {
	// Validate resolves every rule's match site without writing any file.
	// The returned slice is parallel to specs; a nil entry means the rule is
	// valid.
	Validate(specs []m.MutationSpec, project m.Path) []error

	// RunAll executes the full lifecycle for every rule and returns the
	// aggregated report. A non-nil error means the run was aborted; the
	// report is not meaningful in that case.
	RunAll(ctx context.Context, specs []m.MutationSpec, args TestArgs) (*m.Report, error)
}

type workflow struct {
	fs           adapter.SourceFSAdapter
	preparer     Preparer
	orchestrator Orchestrator
}

// NewWorkflow creates a Workflow instance with the provided dependencies.
func NewWorkflow(fs adapter.SourceFSAdapter, preparer Preparer, orchestrator Orchestrator) Workflow {
	return &workflow{
		fs:           fs,
		preparer:     preparer,
		orchestrator: orchestrator,
	}
}

func (w *workflow) Validate(specs []m.MutationSpec, project m.Path) []error {
	issues := make([]error, len(specs))

	for i, spec := range specs {
		target := w.fs.JoinPath(string(project), string(spec.File))

		if _, err := w.fs.FileInfo(target); err != nil {
			issues[i] = &FileNotFoundError{File: spec.File}
			continue
		}

		content, err := w.fs.ReadFile(target)
		if err != nil {
			issues[i] = fmt.Errorf("read %s: %w", spec.File, err)
			continue
		}

		if _, err := w.preparer.Prepare(content, spec); err != nil {
			issues[i] = err
		}
	}

	return issues
}

func (w *workflow) RunAll(ctx context.Context, specs []m.MutationSpec, args TestArgs) (*m.Report, error) {
	report := &m.Report{Runs: make([]m.Run, len(specs))}
	if len(specs) == 0 {
		return report, nil
	}

	workers := args.Workers
	if workers < 1 {
		workers = 1
	}

	if workers > len(specs) {
		workers = len(specs)
	}

	defaults := RunDefaults{Timeout: args.Timeout, TestCommand: args.TestCommand}

	var (
		mu   sync.Mutex
		done int
	)

	group, groupCtx := errgroup.WithContext(ctx)

	for worker := 0; worker < workers; worker++ {
		group.Go(func() error {
			workspace, cleanup, err := w.workerWorkspace(args.Project, workers)
			if err != nil {
				return err
			}
			defer cleanup()

			// Each worker owns a disjoint slice of rules and runs them
			// strictly in order: restore of mutation k happens before the
			// write of mutation k+1 within this workspace.
			for i := worker; i < len(specs); i += workers {
				if err := groupCtx.Err(); err != nil {
					return err
				}

				run, err := w.orchestrator.RunMutation(groupCtx, workspace, specs[i], defaults)
				if err != nil {
					// Restore failure: the baseline may be corrupted, stop
					// the whole run.
					return err
				}

				mu.Lock()
				report.Runs[i] = run
				done++

				if args.Progress != nil {
					args.Progress(run, done, len(specs))
				}
				mu.Unlock()

				if args.FailFast && run.Status == m.ConfigError {
					return fmt.Errorf("rule %s: %s", run.Spec.ID, run.Details)
				}
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return report, err
	}

	return report, nil
}

// workerWorkspace returns the directory a worker mutates in. With a single
// worker that is the project itself; otherwise each worker gets a private
// replica so no two pipelines ever write to the same file.
func (w *workflow) workerWorkspace(project m.Path, workers int) (m.Path, func(), error) {
	if workers <= 1 {
		return project, func() {}, nil
	}

	tmp, err := w.fs.CreateTempDir("sabot-workspace-*")
	if err != nil {
		return "", nil, fmt.Errorf("create workspace replica: %w", err)
	}

	cleanup := func() {
		if err := w.fs.RemoveAll(tmp); err != nil {
			slog.Error("failed to clean up workspace replica", "dir", tmp, "error", err)
		}
	}

	if err := w.fs.CopyDir(project, tmp); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("replicate project into %s: %w", tmp, err)
	}

	return tmp, cleanup, nil
}
