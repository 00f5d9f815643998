package main

import (
	"context"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sakshisonawane10/Blast-Radius/internal/application/session"
	"github.com/sakshisonawane10/Blast-Radius/internal/domain/blast"
)

type analysisDoneMsg struct {
	analysis *blast.BlastAnalysis
	err      error
}

// spinnerModel shows the loading state while one assessment runs.
type spinnerModel struct {
	spinner spinner.Model
	run     tea.Cmd
	cancel  context.CancelFunc

	done     bool
	analysis *blast.BlastAnalysis
	err      error
}

func newSpinnerModel(ctx context.Context, analyzer session.Analyzer, in blast.RiskInput) spinnerModel {
	ctx, cancel := context.WithCancel(ctx)
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return spinnerModel{
		spinner: s,
		cancel:  cancel,
		run: func() tea.Msg {
			a, err := analyzer.Analyze(ctx, in)
			return analysisDoneMsg{analysis: a, err: err}
		},
	}
}

func (m spinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run)
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case analysisDoneMsg:
		m.done = true
		m.analysis, m.err = msg.analysis, msg.err
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
			m.cancel()
			m.done = true
			m.err = context.Canceled
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " Analyzing risk vectors...\n"
}

func runWithSpinner(ctx context.Context, out io.Writer, analyzer session.Analyzer, in blast.RiskInput) (*blast.BlastAnalysis, error) {
	m := newSpinnerModel(ctx, analyzer, in)
	defer m.cancel()

	final, err := tea.NewProgram(m, tea.WithOutput(out), tea.WithContext(ctx)).Run()
	if err != nil {
		return nil, err
	}
	fm := final.(spinnerModel)
	return fm.analysis, fm.err
}
