package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "sabot.dev/pkg/sabot/internal/model"
)

const fixtureSource = `package main

func Add(a, b int) int {
	return a + b
}
`

// writeFixtureProject lays out a minimal project plus a rules file whose test
// command is a plain shell exit, so runs are hermetic and fast.
func writeFixtureProject(t *testing.T, testCommand string) (projectDir, rulesPath string) {
	t.Helper()

	projectDir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, "main.go"), []byte(fixtureSource), 0o644))

	rules := `version: "1"
settings:
  timeout: 10
  test_command: ["sh", "-c", "` + testCommand + `"]
mutations:
  - id: add_to_sub
    file: main.go
    function: Add
    original: "a + b"
    replacement: "a - b"
`
	rulesPath = filepath.Join(t.TempDir(), "mutations.yaml")
	require.NoError(t, os.WriteFile(rulesPath, []byte(rules), 0o644))

	return projectDir, rulesPath
}

func executeRun(t *testing.T, args ...string) (string, error) {
	t.Helper()

	chdirTemp(t)

	root := baseRootCmd()
	configureRootFlags(root)
	root.AddCommand(newRunCmd())

	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(append([]string{"run", "--no-tui"}, args...))

	err := root.Execute()

	return out.String(), err
}

func TestRunCmd_KilledMutationExitsClean(t *testing.T) {
	projectDir, rulesPath := writeFixtureProject(t, "exit 1")
	outputDir := filepath.Join(t.TempDir(), "reports")

	out, err := executeRun(t, "-c", rulesPath, "-p", projectDir, "-o", outputDir)
	require.NoError(t, err)

	assert.Contains(t, out, "KILLED")
	assert.Contains(t, out, "Mutation score:    100.0%")

	// The project file is back to its original content.
	content, readErr := os.ReadFile(filepath.Join(projectDir, "main.go"))
	require.NoError(t, readErr)
	assert.Equal(t, fixtureSource, string(content))

	// A report was persisted.
	_, statErr := os.Stat(filepath.Join(outputDir, "report.yaml"))
	assert.NoError(t, statErr)
}

func TestRunCmd_SurvivedMutationExits1(t *testing.T) {
	projectDir, rulesPath := writeFixtureProject(t, "exit 0")
	outputDir := filepath.Join(t.TempDir(), "reports")

	out, err := executeRun(t, "-c", rulesPath, "-p", projectDir, "-o", outputDir)
	require.Error(t, err)

	var exit *exitError
	require.True(t, errors.As(err, &exit))
	assert.Equal(t, 1, exit.code)

	assert.Contains(t, out, "SURVIVED")

	content, readErr := os.ReadFile(filepath.Join(projectDir, "main.go"))
	require.NoError(t, readErr)
	assert.Equal(t, fixtureSource, string(content), "restored even when the mutation survives")
}

func TestRunCmd_MissingRulesFile(t *testing.T) {
	_, err := executeRun(t, "-c", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestExitStatus(t *testing.T) {
	t.Run("clean report exits zero", func(t *testing.T) {
		report := &m.Report{Runs: []m.Run{{Status: m.Killed}}}
		assert.NoError(t, exitStatus(report))
	})

	t.Run("survivors exit 1", func(t *testing.T) {
		report := &m.Report{Runs: []m.Run{{Status: m.Killed}, {Status: m.Survived}}}

		var exit *exitError
		require.ErrorAs(t, exitStatus(report), &exit)
		assert.Equal(t, 1, exit.code)
	})

	t.Run("untestable rules exit 2", func(t *testing.T) {
		for _, status := range []m.Status{m.ConfigError, m.BuildFailed, m.Timeout} {
			report := &m.Report{Runs: []m.Run{{Status: status}}}

			var exit *exitError
			require.ErrorAs(t, exitStatus(report), &exit)
			assert.Equal(t, 2, exit.code)
		}
	})

	t.Run("survivors take precedence over untestable", func(t *testing.T) {
		report := &m.Report{Runs: []m.Run{{Status: m.Survived}, {Status: m.ConfigError}}}

		var exit *exitError
		require.ErrorAs(t, exitStatus(report), &exit)
		assert.Equal(t, 1, exit.code)
	})
}
