package controller

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	m "sabot.dev/pkg/sabot/internal/model"
)

// SimpleUI renders plain text to a writer, suitable for CI logs and pipes.
type SimpleUI struct {
	out io.Writer
}

// NewSimpleUI creates a new SimpleUI writing to out.
func NewSimpleUI(out io.Writer) *SimpleUI {
	return &SimpleUI{out: out}
}

// Start prints the run header.
func (s *SimpleUI) Start(total, workers int) error {
	s.printf("Running %d mutation(s) with %d worker(s)\n\n", total, workers)
	return nil
}

// Progress prints one line per completed mutation run.
func (s *SimpleUI) Progress(run m.Run, done, total int) {
	s.printf("[%d/%d] [%s] %s: %s (%s in %q)\n",
		done, total, run.Status, run.Spec.ID, run.Spec.Label(), runLocation(run), run.Spec.Function)
}

// Summary renders the aggregated report: a per-rule table, outcome counts,
// the mutation score and the diffs of surviving mutations.
func (s *SimpleUI) Summary(report *m.Report) error {
	s.printf("\nMutation Testing Report\n")
	s.printf("%s\n\n", strings.Repeat("=", 60))

	s.printf("%s\n", renderRunsTable(report))

	s.printf("Total mutations:   %d\n", len(report.Runs))
	s.printf("Killed:            %d (tests caught the mutation)\n", report.Count(m.Killed))
	s.printf("Survived:          %d (tests missed the mutation)\n", report.Count(m.Survived))

	if n := report.Count(m.Timeout); n > 0 {
		s.printf("Timeouts:          %d\n", n)
	}

	if n := report.Count(m.BuildFailed); n > 0 {
		s.printf("Build failures:    %d\n", n)
	}

	if n := report.Count(m.ConfigError); n > 0 {
		s.printf("Config errors:     %d\n", n)
	}

	s.printf("\nMutation score:    %.1f%%\n", report.Score())
	s.printf("Duration:          %.2fs\n", report.TotalDuration().Seconds())

	s.printSurvivors(report)
	s.printConfigErrors(report)

	return nil
}

// Close finalizes the UI (no-op for SimpleUI).
func (s *SimpleUI) Close() {}

func (s *SimpleUI) printSurvivors(report *m.Report) {
	survivors := report.Surviving()
	if len(survivors) == 0 {
		return
	}

	s.printf("\nSurviving mutations (improve your tests!)\n")
	s.printf("%s\n", strings.Repeat("-", 40))

	for _, run := range survivors {
		s.printf("  %s: %s in %q at %s\n", run.Spec.ID, run.Spec.Label(), run.Spec.Function, runLocation(run))

		if run.Diff != "" {
			s.printf("%s\n", indent(run.Diff, "    "))
		}
	}
}

func (s *SimpleUI) printConfigErrors(report *m.Report) {
	printedHeader := false

	for _, run := range report.Runs {
		if run.Status != m.ConfigError {
			continue
		}

		if !printedHeader {
			s.printf("\nConfiguration errors\n")
			s.printf("%s\n", strings.Repeat("-", 40))

			printedHeader = true
		}

		s.printf("  %s: %s\n", run.Spec.ID, indentTail(run.Details, "    "))
	}
}

func renderRunsTable(report *m.Report) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"ID", "Mutation", "Function", "Location", "Status", "Time"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_RIGHT,
	})

	for _, run := range report.Runs {
		table.Append([]string{
			run.Spec.ID,
			run.Spec.Label(),
			run.Spec.Function,
			runLocation(run),
			run.Status.String(),
			fmt.Sprintf("%.2fs", run.Duration.Seconds()),
		})
	}

	table.Render()

	return tableBuffer.String()
}

func runLocation(run m.Run) string {
	if run.Site == nil {
		return string(run.Spec.File)
	}

	return fmt.Sprintf("%s:%d:%d", run.Spec.File, run.Site.Line, run.Site.Column)
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}

	return strings.Join(lines, "\n")
}

// indentTail indents every line except the first, for messages printed after
// an inline label.
func indentTail(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = prefix + lines[i]
	}

	return strings.Join(lines, "\n")
}

func (s *SimpleUI) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}
