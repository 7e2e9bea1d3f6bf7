package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"sabot.dev/pkg/sabot/internal/rules"
)

var (
	validateRulesFlag   string
	validateProjectFlag string
)

// validateCmd represents the validate command.
var validateCmd = newValidateCmd()

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check every mutation rule without running tests",
		Long: `Parse the rules file and resolve every rule against the project sources:
each rule must name an existing file and function and match exactly one
expression. No file is modified and no test is run.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := rules.Load(validateRulesFlag)
			if err != nil {
				return err
			}

			project := resolveProject(validateProjectFlag, cmd.Flags().Changed("project"))
			results := workflow.Validate(doc.Mutations, project)

			invalid := 0
			for i, spec := range doc.Mutations {
				if results[i] == nil {
					cmd.Printf("ok   %s: %s\n", spec.ID, spec.Label())
					continue
				}

				invalid++
				cmd.Printf("FAIL %s: %s\n     %v\n", spec.ID, spec.Label(), results[i])
			}

			cmd.Printf("\n%d rule(s), %d invalid\n", len(doc.Mutations), invalid)

			if invalid > 0 {
				return &exitError{code: 2, msg: fmt.Sprintf("%d invalid rule(s)", invalid)}
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&validateRulesFlag, "config", "c", "mutations.yaml", "path of the mutation rules file")
	cmd.Flags().StringVarP(&validateProjectFlag, "project", "p", ".", "root directory of the project under test")

	return cmd
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
