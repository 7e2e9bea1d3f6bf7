package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()

	tempDir := t.TempDir()
	originalWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tempDir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(originalWD)) })

	return tempDir
}

func TestInitCmd_WritesConfigAndRulesFile(t *testing.T) {
	tempDir := chdirTemp(t)

	cmd := baseRootCmd()
	cmd.AddCommand(newInitCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"init"})

	err := cmd.Execute()
	require.NoError(t, err)

	configPath := filepath.Join(tempDir, configFileName)
	t.Cleanup(func() { _ = os.Remove(configPath) })
	info, err := os.Stat(configPath)
	require.NoError(t, err)
	require.False(t, info.IsDir())

	rulesPath := filepath.Join(tempDir, "mutations.yaml")
	contents, err := os.ReadFile(rulesPath)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "mutations:")
	assert.Contains(t, string(contents), "replacement:")
}

func TestInitCmd_ErrorsWhenConfigExists(t *testing.T) {
	tempDir := chdirTemp(t)

	configPath := filepath.Join(tempDir, configFileName)
	require.NoError(t, os.WriteFile(configPath, []byte("existing: true\n"), 0o644))
	t.Cleanup(func() { _ = os.Remove(configPath) })

	cmd := baseRootCmd()
	cmd.AddCommand(newInitCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"init"})

	err := cmd.Execute()
	require.Error(t, err)
}

func TestInitCmd_ErrorsWhenRulesFileExists(t *testing.T) {
	tempDir := chdirTemp(t)

	rulesPath := filepath.Join(tempDir, "mutations.yaml")
	require.NoError(t, os.WriteFile(rulesPath, []byte("mutations: []\n"), 0o644))

	cmd := baseRootCmd()
	cmd.AddCommand(newInitCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"init"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}
