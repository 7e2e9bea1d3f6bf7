package controller

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "sabot.dev/pkg/sabot/internal/model"
)

// TUI renders a live progress view while mutations execute, then prints the
// final report through the plain renderer once the program has exited.
type TUI struct {
	out      io.Writer
	simple   *SimpleUI
	program  *tea.Program
	finished chan struct{}
}

// NewTUI creates a new TUI writing to out.
func NewTUI(out io.Writer) *TUI {
	return &TUI{
		out:      out,
		simple:   NewSimpleUI(out),
		finished: make(chan struct{}),
	}
}

// Start launches the Bubble Tea program in the background.
func (t *TUI) Start(total, workers int) error {
	t.program = tea.NewProgram(newRunView(total, workers), tea.WithOutput(t.out))

	go func() {
		_, _ = t.program.Run()
		close(t.finished)
	}()

	return nil
}

// Progress forwards a completed run into the live view.
func (t *TUI) Progress(run m.Run, done, total int) {
	if t.program != nil {
		t.program.Send(runCompletedMsg{run: run, done: done, total: total})
	}
}

// Summary prints the final report. Only meaningful after Close, once the
// live view has released the terminal.
func (t *TUI) Summary(report *m.Report) error {
	return t.simple.Summary(report)
}

// Close stops the live view and waits for the terminal to be released.
func (t *TUI) Close() {
	if t.program == nil {
		return
	}

	t.program.Send(shutdownMsg{})
	<-t.finished
}

type runCompletedMsg struct {
	run   m.Run
	done  int
	total int
}

type shutdownMsg struct{}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	killedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	survivedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dimStyle      = lipgloss.NewStyle().Faint(true)
)

// maxRecentRuns bounds the rolling window of completed runs shown below the
// progress bar.
const maxRecentRuns = 8

type runView struct {
	spinner spinner.Model
	bar     progress.Model
	total   int
	workers int
	done    int
	counts  map[m.Status]int
	recent  []string
	closing bool
}

func newRunView(total, workers int) runView {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	return runView{
		spinner: sp,
		bar:     progress.New(progress.WithDefaultGradient()),
		total:   total,
		workers: workers,
		counts:  make(map[m.Status]int),
	}
}

func (v runView) Init() tea.Cmd {
	return v.spinner.Tick
}

func (v runView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)

		return v, cmd

	case runCompletedMsg:
		v.done = msg.done
		v.counts[msg.run.Status]++

		v.recent = append(v.recent, formatRecentRun(msg.run))
		if len(v.recent) > maxRecentRuns {
			v.recent = v.recent[len(v.recent)-maxRecentRuns:]
		}

		return v, nil

	case shutdownMsg:
		v.closing = true
		return v, tea.Quit

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			v.closing = true
			return v, tea.Quit
		}

		return v, nil
	}

	return v, nil
}

func (v runView) View() string {
	if v.closing {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("sabot: mutation testing"))
	b.WriteString("\n\n")

	percent := 0.0
	if v.total > 0 {
		percent = float64(v.done) / float64(v.total)
	}

	b.WriteString(fmt.Sprintf("%s %d/%d mutations  %s\n\n",
		v.spinner.View(), v.done, v.total, v.bar.ViewAs(percent)))

	b.WriteString(fmt.Sprintf("%s  %s  %s\n",
		killedStyle.Render(fmt.Sprintf("killed %d", v.counts[m.Killed])),
		survivedStyle.Render(fmt.Sprintf("survived %d", v.counts[m.Survived])),
		warnStyle.Render(fmt.Sprintf("other %d",
			v.counts[m.Timeout]+v.counts[m.BuildFailed]+v.counts[m.ConfigError]))))

	if len(v.recent) > 0 {
		b.WriteString("\n")

		for _, line := range v.recent {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString(dimStyle.Render(fmt.Sprintf("\n%d worker(s) · ctrl+c to abort the view", v.workers)))
	b.WriteString("\n")

	return b.String()
}

func formatRecentRun(run m.Run) string {
	status := run.Status.String()

	switch run.Status {
	case m.Killed:
		status = killedStyle.Render(status)
	case m.Survived:
		status = survivedStyle.Render(status)
	case m.Timeout, m.BuildFailed, m.ConfigError:
		status = warnStyle.Render(status)
	}

	return fmt.Sprintf("  [%s] %s %s", status, run.Spec.ID, dimStyle.Render(run.Spec.Label()))
}
