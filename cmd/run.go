package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"sabot.dev/pkg/sabot/internal/controller"
	"sabot.dev/pkg/sabot/internal/domain"
	m "sabot.dev/pkg/sabot/internal/model"
	"sabot.dev/pkg/sabot/internal/rules"
)

var (
	runRulesFlag    string
	runProjectFlag  string
	runParallelFlag int
	runTimeoutFlag  int
	runFailFastFlag bool
	runNoTUIFlag    bool
)

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run mutation testing",
		Long: `Apply every mutation rule from the rules file, run the project's test
command against each mutant and report which mutations were killed.

Exit codes: 0 when every mutation was killed, 1 when any survived, 2 when
any rule produced a configuration error, build failure or timeout.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := rules.Load(runRulesFlag)
			if err != nil {
				return err
			}

			timeout := doc.Timeout()
			if runTimeoutFlag > 0 {
				timeout = time.Duration(runTimeoutFlag) * time.Second
			}

			workers := viper.GetInt(runParallelConfigKey)
			ui := selectUI(cmd, runNoTUIFlag)

			if err := ui.Start(len(doc.Mutations), workers); err != nil {
				return err
			}

			report, runErr := workflow.RunAll(cmd.Context(), doc.Mutations, domain.TestArgs{
				Project:     resolveProject(runProjectFlag, cmd.Flags().Changed("project")),
				Workers:     workers,
				FailFast:    runFailFastFlag,
				Timeout:     timeout,
				TestCommand: doc.TestCommand(),
				Progress:    ui.Progress,
			})

			ui.Close()

			if runErr != nil {
				return runErr
			}

			if err := ui.Summary(report); err != nil {
				return err
			}

			if dir := viper.GetString(outputFlagName); dir != "" {
				if err := reportStore.SaveReport(m.Path(dir), report); err != nil {
					slog.Error("failed to save report", "dir", dir, "error", err)
					return err
				}
			}

			return exitStatus(report)
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&runRulesFlag, "config", "c", "mutations.yaml", "path of the mutation rules file")
	cmd.Flags().StringVarP(&runProjectFlag, "project", "p", ".", "root directory of the project under test")
	cmd.Flags().IntVarP(&runParallelFlag, runParallelFlagName, "w", viper.GetInt(runParallelConfigKey), "number of isolated parallel workers")
	bindFlagToConfig(cmd.Flags().Lookup(runParallelFlagName), runParallelConfigKey)
	cmd.Flags().IntVar(&runTimeoutFlag, "timeout", 0, "per-mutation test deadline in seconds (overrides the rules file default)")
	cmd.Flags().BoolVar(&runFailFastFlag, "fail-fast", false, "abort on the first configuration error")
	cmd.Flags().BoolVar(&runNoTUIFlag, "no-tui", false, "disable the live progress view")
}

// exitStatus maps the aggregated report onto the exit-code contract.
func exitStatus(report *m.Report) error {
	if survived := report.Count(m.Survived); survived > 0 {
		return &exitError{code: 1, msg: fmt.Sprintf("%d mutation(s) survived", survived)}
	}

	untestable := report.Count(m.ConfigError) + report.Count(m.BuildFailed) + report.Count(m.Timeout)
	if untestable > 0 {
		return &exitError{code: 2, msg: fmt.Sprintf("%d mutation(s) could not be tested", untestable)}
	}

	return nil
}

func selectUI(cmd *cobra.Command, noTUI bool) controller.UI {
	if !noTUI && controller.IsTTY(os.Stdout) {
		return controller.NewTUI(cmd.OutOrStdout())
	}

	return controller.NewSimpleUI(cmd.OutOrStdout())
}
