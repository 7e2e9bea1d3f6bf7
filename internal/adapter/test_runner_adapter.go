package adapter

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"syscall"
	"time"
)

// TestVerdict classifies the exit of one test command invocation.
type TestVerdict int

const (
	// TestsPassed means the command exited zero: the mutation survived.
	TestsPassed TestVerdict = iota
	// TestsFailed means tests ran and at least one failed: the mutation was killed.
	TestsFailed
	// TestsBuildFailed means the mutated code did not compile.
	TestsBuildFailed
	// TestsTimedOut means the deadline fired and the process group was killed.
	TestsTimedOut
)

// TestRunnerAdapter abstracts test execution for mutation testing.
type TestRunnerAdapter interface {
	// RunTests executes command in workDir under the given deadline and
	// classifies the process outcome. output is the combined stdout/stderr.
	// err is only non-nil when the command could not be started at all.
	RunTests(ctx context.Context, workDir string, command []string, timeout time.Duration) (TestVerdict, string, error)
}

// killGracePeriod bounds how long we wait for the child to exit after the
// process group has been signalled.
const killGracePeriod = 5 * time.Second

// LocalTestRunnerAdapter provides a concrete implementation using os/exec.
type LocalTestRunnerAdapter struct{}

// NewLocalTestRunnerAdapter constructs a LocalTestRunnerAdapter.
func NewLocalTestRunnerAdapter() *LocalTestRunnerAdapter {
	return &LocalTestRunnerAdapter{}
}

// RunTests runs the configured test command under a wall-clock deadline.
//
// The child is placed in its own process group so that on expiry the whole
// group is killed, not just the direct child; `go test` spawns compiled test
// binaries that would otherwise keep running.
func (a *LocalTestRunnerAdapter) RunTests(ctx context.Context, workDir string, command []string, timeout time.Duration) (TestVerdict, string, error) {
	if len(command) == 0 {
		return TestsFailed, "", errors.New("empty test command")
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, command[0], command[1:]...)
	cmd.Dir = workDir
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.WaitDelay = killGracePeriod
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	output := stdout.String() + stderr.String()

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return TestsTimedOut, output, nil
	}

	if runErr == nil {
		return TestsPassed, output, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(runErr, &exitErr) {
		// The command never ran (e.g. binary not found).
		return TestsFailed, output, runErr
	}

	if looksLikeBuildFailure(output) {
		return TestsBuildFailed, output, nil
	}

	return TestsFailed, output, nil
}

// buildFailureMarkers are the `go test` output fragments that distinguish a
// compilation failure from a genuine test failure.
var buildFailureMarkers = []string{
	"[build failed]",
	"build failed",
	"setup failed",
	"cannot load package",
	"could not import",
}

func looksLikeBuildFailure(output string) bool {
	for _, marker := range buildFailureMarkers {
		if strings.Contains(output, marker) {
			return true
		}
	}

	return false
}
