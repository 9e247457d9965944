package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/slumber/internal/analysis"
	"github.com/balkashynov/slumber/internal/sleep"
)

// Analyzer turns a stats window into a text analysis
type Analyzer interface {
	Analyze(ctx context.Context, sum sleep.Summary) (*analysis.Result, error)
}

type analysisState int

const (
	analysisIdle analysisState = iota
	analysisLoading
	analysisDone
	analysisFailed
)

// analysisResultMsg carries the outcome of one request. attempt lets the
// model drop results of requests it no longer waits for.
type analysisResultMsg struct {
	attempt int
	result  *analysis.Result
	err     error
}

// AnalysisModel shows the loading, result and error states of an analysis
type AnalysisModel struct {
	analyzer Analyzer
	timeout  time.Duration
	spinner  spinner.Model

	summary sleep.Summary
	state   analysisState
	attempt int
	result  *analysis.Result
	err     error

	width  int
	height int
}

// NewAnalysisModel creates the analysis screen
func NewAnalysisModel(analyzer Analyzer, timeout time.Duration) AnalysisModel {
	s := spinner.New()
	s.Spinner = spinner.Moon
	return AnalysisModel{
		analyzer: analyzer,
		timeout:  timeout,
		spinner:  s,
	}
}

// start requests an analysis of sum
func (m AnalysisModel) start(sum sleep.Summary) (AnalysisModel, tea.Cmd) {
	m.summary = sum
	m.state = analysisLoading
	m.attempt++
	m.result = nil
	m.err = nil
	return m, tea.Batch(m.spinner.Tick, m.request())
}

// cancel makes any in-flight result stale
func (m AnalysisModel) cancel() AnalysisModel {
	m.attempt++
	if m.state == analysisLoading {
		m.state = analysisIdle
	}
	return m
}

func (m AnalysisModel) request() tea.Cmd {
	analyzer, sum, attempt, timeout := m.analyzer, m.summary, m.attempt, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		res, err := analyzer.Analyze(ctx, sum)
		return analysisResultMsg{attempt: attempt, result: res, err: err}
	}
}

func (m AnalysisModel) Update(msg tea.Msg) (AnalysisModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if m.state != analysisLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case analysisResultMsg:
		if msg.attempt != m.attempt || m.state != analysisLoading {
			return m, nil
		}
		if msg.err != nil {
			m.state = analysisFailed
			m.err = msg.err
			return m, nil
		}
		m.state = analysisDone
		m.result = msg.result
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			m = m.cancel()
			return m, switchTo(ScreenStats)
		case "r":
			if m.state == analysisFailed {
				return m.start(m.summary)
			}
		}
	}
	return m, nil
}

func (m AnalysisModel) View() string {
	width := min(max(m.width-2, 20), 100)
	var b strings.Builder

	title := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Bold(true)
	b.WriteString(title.Render("✨ Sleep analysis"))
	b.WriteString("\n\n")

	help := "esc back · q quit"
	switch m.state {
	case analysisLoading:
		b.WriteString(m.spinner.View())
		b.WriteString(" Analyzing ")
		b.WriteString(pluralNights(m.summary.Nights))
		b.WriteString("...")
	case analysisFailed:
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError)).Width(width - 6).
			Render("❌ " + m.err.Error()))
		help = "r retry · " + help
	case analysisDone:
		b.WriteString(renderSections(m.result.Sections, width-6))
	default:
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Italic(true).
			Render("Press a on the stats screen to analyze a window"))
	}

	body := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(1, 2).
		Width(width).
		Render(b.String())
	helpBar := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Render(help)
	return lipgloss.JoinVertical(lipgloss.Left, body, "", helpBar)
}

func renderSections(sections []analysis.Section, width int) string {
	headingStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentMain)).Bold(true)
	bodyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText)).Width(width)

	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		var part strings.Builder
		if s.Heading != "" {
			part.WriteString(headingStyle.Render(s.Heading))
			part.WriteString("\n")
		}
		part.WriteString(bodyStyle.Render(s.Body))
		parts = append(parts, part.String())
	}
	return strings.Join(parts, "\n\n")
}

func pluralNights(n int) string {
	if n == 1 {
		return "1 night"
	}
	return fmt.Sprintf("%d nights", n)
}
