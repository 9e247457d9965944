package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/balkashynov/slumber/internal/sleep"
)

// Screen identifies one of the app's screens
type Screen int

const (
	ScreenTracker Screen = iota
	ScreenHistory
	ScreenStats
	ScreenAnalysis
)

type switchScreenMsg struct {
	screen Screen
}

func switchTo(s Screen) tea.Cmd {
	return func() tea.Msg { return switchScreenMsg{screen: s} }
}

// Options configures the interactive app
type Options struct {
	Tracker         *sleep.Tracker
	Analyzer        Analyzer
	Refresh         time.Duration
	StatsDays       int
	AnalysisTimeout time.Duration
}

// AppModel routes messages to the visible screen
type AppModel struct {
	screen   Screen
	tracker  TrackerModel
	history  HistoryModel
	stats    StatsModel
	analysis AnalysisModel
	size     tea.WindowSizeMsg
}

// NewAppModel builds every screen and starts on start
func NewAppModel(opts Options, start Screen) AppModel {
	if opts.Refresh <= 0 {
		opts.Refresh = time.Second
	}
	if opts.AnalysisTimeout <= 0 {
		opts.AnalysisTimeout = time.Minute
	}
	return AppModel{
		screen:   start,
		tracker:  NewTrackerModel(opts.Tracker, opts.Refresh),
		history:  NewHistoryModel(opts.Tracker),
		stats:    NewStatsModel(opts.Tracker, opts.StatsDays),
		analysis: NewAnalysisModel(opts.Analyzer, opts.AnalysisTimeout),
	}
}

// Screen is the visible screen
func (m AppModel) Screen() Screen {
	return m.screen
}

func (m AppModel) Init() tea.Cmd {
	if m.screen == ScreenTracker {
		return func() tea.Msg { return switchScreenMsg{screen: ScreenTracker} }
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.size = msg
		var cmds [4]tea.Cmd
		m.tracker, cmds[0] = m.tracker.Update(msg)
		m.history, cmds[1] = m.history.Update(msg)
		m.stats, cmds[2] = m.stats.Update(msg)
		m.analysis, cmds[3] = m.analysis.Update(msg)
		return m, tea.Batch(cmds[:]...)

	case switchScreenMsg:
		return m.switchScreen(msg.screen)

	case startAnalysisMsg:
		m.screen = ScreenAnalysis
		var cmd tea.Cmd
		m.analysis, cmd = m.analysis.start(msg.summary)
		return m, cmd

	case elapsedTickMsg:
		// ticks are owned by the tracker screen even when it is hidden
		var cmd tea.Cmd
		m.tracker, cmd = m.tracker.Update(msg)
		return m, cmd

	case analysisResultMsg:
		var cmd tea.Cmd
		m.analysis, cmd = m.analysis.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	switch m.screen {
	case ScreenTracker:
		m.tracker, cmd = m.tracker.Update(msg)
	case ScreenHistory:
		m.history, cmd = m.history.Update(msg)
	case ScreenStats:
		m.stats, cmd = m.stats.Update(msg)
	case ScreenAnalysis:
		m.analysis, cmd = m.analysis.Update(msg)
	}
	return m, cmd
}

func (m AppModel) switchScreen(to Screen) (AppModel, tea.Cmd) {
	if m.screen == ScreenTracker && to != ScreenTracker {
		m.tracker = m.tracker.leave()
	}
	if m.screen == ScreenAnalysis && to != ScreenAnalysis {
		m.analysis = m.analysis.cancel()
	}
	m.screen = to

	var cmd tea.Cmd
	switch to {
	case ScreenTracker:
		m.tracker, cmd = m.tracker.enter()
	case ScreenHistory:
		m.history = m.history.reload()
	case ScreenStats:
		m.stats = m.stats.reload()
	}
	return m, cmd
}

func (m AppModel) View() string {
	switch m.screen {
	case ScreenHistory:
		return m.history.View()
	case ScreenStats:
		return m.stats.View()
	case ScreenAnalysis:
		return m.analysis.View()
	default:
		return m.tracker.View()
	}
}

// Run starts the interactive app on the given screen
func Run(opts Options, start Screen) error {
	p := tea.NewProgram(NewAppModel(opts, start), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
