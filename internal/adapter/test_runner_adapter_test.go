package adapter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunTestsPassed(t *testing.T) {
	runner := NewLocalTestRunnerAdapter()

	verdict, output, err := runner.RunTests(context.Background(), t.TempDir(),
		[]string{"sh", "-c", "echo ok"}, 10*time.Second)

	require.NoError(t, err)
	assert.Equal(t, TestsPassed, verdict)
	assert.Contains(t, output, "ok")
}

func TestRunTestsFailed(t *testing.T) {
	runner := NewLocalTestRunnerAdapter()

	verdict, output, err := runner.RunTests(context.Background(), t.TempDir(),
		[]string{"sh", "-c", "echo 'FAIL: TestAdd'; exit 1"}, 10*time.Second)

	require.NoError(t, err)
	assert.Equal(t, TestsFailed, verdict)
	assert.Contains(t, output, "FAIL: TestAdd")
}

func TestRunTestsBuildFailure(t *testing.T) {
	runner := NewLocalTestRunnerAdapter()

	for _, marker := range buildFailureMarkers {
		verdict, _, err := runner.RunTests(context.Background(), t.TempDir(),
			[]string{"sh", "-c", "echo '" + marker + "'; exit 1"}, 10*time.Second)

		require.NoError(t, err)
		assert.Equal(t, TestsBuildFailed, verdict, "marker %q", marker)
	}
}

func TestRunTestsBuildMarkerWithZeroExitIsPassed(t *testing.T) {
	runner := NewLocalTestRunnerAdapter()

	// Marker text in the output of a passing command is not a build failure.
	verdict, _, err := runner.RunTests(context.Background(), t.TempDir(),
		[]string{"sh", "-c", "echo 'build failed'"}, 10*time.Second)

	require.NoError(t, err)
	assert.Equal(t, TestsPassed, verdict)
}

func TestRunTestsTimeout(t *testing.T) {
	runner := NewLocalTestRunnerAdapter()

	start := time.Now()
	verdict, _, err := runner.RunTests(context.Background(), t.TempDir(),
		[]string{"sh", "-c", "sleep 30"}, 200*time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, TestsTimedOut, verdict)
	assert.Less(t, time.Since(start), 10*time.Second, "process group killed promptly")
}

func TestRunTestsKillsChildProcesses(t *testing.T) {
	runner := NewLocalTestRunnerAdapter()

	// The shell spawns a grandchild; the whole process group must die with it.
	start := time.Now()
	verdict, _, err := runner.RunTests(context.Background(), t.TempDir(),
		[]string{"sh", "-c", "sh -c 'sleep 30' & wait"}, 200*time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, TestsTimedOut, verdict)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestRunTestsInvocationError(t *testing.T) {
	runner := NewLocalTestRunnerAdapter()

	_, _, err := runner.RunTests(context.Background(), t.TempDir(),
		[]string{"definitely-not-a-real-binary-xyz"}, time.Second)

	require.Error(t, err)
}

func TestRunTestsEmptyCommand(t *testing.T) {
	runner := NewLocalTestRunnerAdapter()

	_, _, err := runner.RunTests(context.Background(), t.TempDir(), nil, time.Second)
	require.Error(t, err)
}

func TestRunTestsRunsInWorkDir(t *testing.T) {
	runner := NewLocalTestRunnerAdapter()
	dir := t.TempDir()

	verdict, output, err := runner.RunTests(context.Background(), dir,
		[]string{"pwd"}, 10*time.Second)

	require.NoError(t, err)
	assert.Equal(t, TestsPassed, verdict)
	assert.Contains(t, output, dir)
}
