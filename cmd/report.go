package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"sabot.dev/pkg/sabot/internal/controller"
	m "sabot.dev/pkg/sabot/internal/model"
)

// reportCmd represents the report command.
var reportCmd = newReportCmd()

func newReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Show the report saved by the last run",
		Long: `Load the mutation testing report persisted in the output directory and
render it again, without re-running any tests.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := reportStore.LoadReport(m.Path(viper.GetString(outputFlagName)))
			if err != nil {
				return err
			}

			return controller.NewSimpleUI(cmd.OutOrStdout()).Summary(report)
		},
	}
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
