// Package cmd provides the root command and CLI setup for sabot.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"sabot.dev/pkg/sabot/internal/adapter"
	"sabot.dev/pkg/sabot/internal/domain"
	m "sabot.dev/pkg/sabot/internal/model"
)

var goFileAdapter adapter.GoFileAdapter
var fsAdapter adapter.SourceFSAdapter
var testAdapter adapter.TestRunnerAdapter
var reportStore adapter.ReportStore
var preparer domain.Preparer
var orchestrator domain.Orchestrator
var workflow domain.Workflow

// reportsOutputDirFlag is a root-level flag shared by commands that read/write reports.
var reportsOutputDirFlag string

// verboseFlag switches the log level to debug.
var verboseFlag bool

// logFileFlag overrides the rotating log file location.
var logFileFlag string

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	goFileAdapter = adapter.NewLocalGoFileAdapter()
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	testAdapter = adapter.NewLocalTestRunnerAdapter()
	reportStore = adapter.NewReportStore()
	preparer = domain.NewPreparer(goFileAdapter)
	orchestrator = domain.NewOrchestrator(fsAdapter, testAdapter, preparer)
	workflow = domain.NewWorkflow(fsAdapter, preparer, orchestrator)
}

const rootLongDescription = `Sabot is a mutation testing tool for Go driven by declarative rules: each
rule names a file, a function and an expression to replace, and sabot checks
whether your test suite notices the change.

Rules match structurally rather than textually, so formatting differences
never matter, and every rule must resolve to exactly one site in its
function or it is rejected.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sabot",
		Short: "Rule-driven mutation testing for Go",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(logFileFlag, verboseFlag)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for mutation testing reports",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "path of the rotating log file")
}

// resolveProject returns the directory mutations run against. An explicit
// --project wins unchanged; otherwise the nearest enclosing go.mod directory
// is used, so the tool can be invoked from a package subdirectory. Projects
// without a go.mod fall back to the flag's default.
func resolveProject(flag string, explicit bool) m.Path {
	if explicit {
		return m.Path(flag)
	}

	abs, err := filepath.Abs(flag)
	if err != nil {
		return m.Path(flag)
	}

	root, err := fsAdapter.FindProjectRoot(fsAdapter.JoinPath(abs, "go.mod"))
	if err != nil {
		return m.Path(flag)
	}

	return root
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// exitError carries a specific process exit code through RunE so Execute can
// map run outcomes onto the documented exit-code contract.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}

		os.Exit(1)
	}
}
