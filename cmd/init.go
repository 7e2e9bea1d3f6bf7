package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// exampleRulesFile seeds a new project with a commented rules file.
const exampleRulesFile = `version: "1"

settings:
  # Seconds each mutant's test run may take before it is marked TIMEOUT.
  timeout: 30
  # Command run against every mutant. Defaults to the full test suite.
  # test_command: ["go", "test", "./..."]

mutations:
  - file: main.go
    function: Add
    original: "a + b"
    replacement: "a - b"
    description: "addition becomes subtraction"

  - file: main.go
    function: IsAdult
    original: "age >= 18"
    replacement: "age > 18"
    description: "off-by-one on the age boundary"
`

var initRulesFlag string

// initCmd represents the init command.
var initCmd = newInitCmd()

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a default sabot.yaml and an example rules file",
		Long: `Create a sabot.yaml in the current working directory populated with the
current CLI defaults, plus an example mutation rules file to edit.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			targetPath := filepath.Join(configFolderPath, configFileName)

			err := viper.SafeWriteConfigAs(targetPath)
			if err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			return writeExampleRules(initRulesFlag)
		},
	}

	cmd.Flags().StringVarP(&initRulesFlag, "config", "c", "mutations.yaml", "path of the rules file to create")

	return cmd
}

func writeExampleRules(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("rules file %q already exists", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to check rules file: %w", err)
	}

	if err := os.WriteFile(path, []byte(exampleRulesFile), 0o600); err != nil {
		return fmt.Errorf("failed to write rules file: %w", err)
	}

	return nil
}

func init() {
	rootCmd.AddCommand(initCmd)
}
