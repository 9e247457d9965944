package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/slumber/internal/parser"
	"github.com/balkashynov/slumber/internal/sleep"
)

// startAnalysisMsg asks the app to open the analysis screen for a window
type startAnalysisMsg struct {
	summary sleep.Summary
}

// StatsModel shows averages and a chart over a 7, 14 or 30 day window
type StatsModel struct {
	tracker *sleep.Tracker
	window  int // index into sleep.SupportedWindows
	summary sleep.Summary
	width   int
	height  int
}

// NewStatsModel creates the stats screen. days picks the initial window and
// falls back to the first supported one.
func NewStatsModel(tracker *sleep.Tracker, days int) StatsModel {
	m := StatsModel{tracker: tracker}
	for i, w := range sleep.SupportedWindows {
		if w == days {
			m.window = i
		}
	}
	return m.reload()
}

// Days is the selected window length
func (m StatsModel) Days() int {
	return sleep.SupportedWindows[m.window]
}

func (m StatsModel) reload() StatsModel {
	m.summary = sleep.Aggregate(m.tracker.History(), m.Days(), m.tracker.Now())
	return m
}

func (m StatsModel) Update(msg tea.Msg) (StatsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			return m, switchTo(ScreenTracker)
		case "h":
			return m, switchTo(ScreenHistory)
		case "left":
			if m.window > 0 {
				m.window--
			}
			return m.reload(), nil
		case "right", "tab":
			m.window = (m.window + 1) % len(sleep.SupportedWindows)
			return m.reload(), nil
		case "1", "2", "3":
			m.window = int(msg.String()[0] - '1')
			return m.reload(), nil
		case "a":
			sum := m.summary
			return m, func() tea.Msg { return startAnalysisMsg{summary: sum} }
		}
	}
	return m, nil
}

func (m StatsModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if !m.summary.HasData {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true).
			Render(fmt.Sprintf("No finished nights in the last %d days", m.Days())))
	} else {
		cardWidth := min(m.width-4, 100)
		b.WriteString(m.renderAverages())
		b.WriteString("\n\n")
		b.WriteString(renderChart(m.summary.Bars, cardWidth-24))
	}

	help := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(m.width).
		Render("←/→ window · 1/2/3 7d/14d/30d · a analyze · h history · esc tracker · q quit")

	body := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(1, 2).
		Width(min(m.width-2, 104)).
		Render(b.String())

	return lipgloss.JoinVertical(lipgloss.Left, body, "", help)
}

func (m StatsModel) renderTabs() string {
	active := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Background(lipgloss.Color(ColorAccentMain)).
		Bold(true).
		Padding(0, 2)
	inactive := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Padding(0, 2)

	tabs := make([]string, len(sleep.SupportedWindows))
	for i, w := range sleep.SupportedWindows {
		label := fmt.Sprintf("%d days", w)
		if i == m.window {
			tabs[i] = active.Render(label)
		} else {
			tabs[i] = inactive.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m StatsModel) renderAverages() string {
	sum := m.summary
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Width(22)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText)).Bold(true)
	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value)
	}

	effText := valueStyle.Render(parser.FormatPercent(sum.AvgEfficiency, sum.HasEfficiency))
	if sum.HasEfficiency {
		grade := sleep.EfficiencyGrade(sum.AvgEfficiency)
		effText += " " + lipgloss.NewStyle().Foreground(gradeColor(grade)).Render(grade)
	}

	rows := []string{
		row("Nights", fmt.Sprintf("%d", sum.Nights)),
		row("Avg total sleep", parser.FormatDuration(sum.AvgTotalSleep)),
		row("Avg time in bed", parser.FormatDuration(sum.AvgTimeInBed)),
		labelStyle.Render("Avg efficiency") + effText,
		row("Avg onset latency", parser.FormatOptionalDuration(sum.AvgOnsetLatency, sum.HasOnsetLatency)),
		row("Avg awakenings", fmt.Sprintf("%.1f", sum.AvgAwakenings)),
		row("Avg toilet trips", fmt.Sprintf("%.1f", sum.AvgToiletTrips)),
		row("Nights without sleep", fmt.Sprintf("%d", sum.InsomniaNights)),
	}
	return strings.Join(rows, "\n")
}

// renderChart draws one horizontal bar per night, oldest first. The dark
// part is time in bed, the bright part time asleep.
func renderChart(bars []sleep.Bar, width int) string {
	if width < 10 {
		width = 10
	}
	asleepStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAsleepBar))
	inBedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorInBedBar))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))

	lines := make([]string, 0, len(bars))
	for _, bar := range bars {
		inBed := bar.InBedPct * width / 100
		asleep := min(bar.AsleepPct*width/100, inBed)
		line := labelStyle.Render(parser.FormatDate(bar.Night)) + " " +
			asleepStyle.Render(strings.Repeat("█", asleep)) +
			inBedStyle.Render(strings.Repeat("░", inBed-asleep)) +
			strings.Repeat(" ", width-inBed) +
			labelStyle.Render(fmt.Sprintf(" %s %d%%", parser.FormatDuration(bar.Asleep), bar.SleepShare))
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
