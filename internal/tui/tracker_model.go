package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/slumber/internal/models"
	"github.com/balkashynov/slumber/internal/parser"
	"github.com/balkashynov/slumber/internal/sleep"
)

// summaryCardWindow is how long after getting up last night's card is shown
const summaryCardWindow = 12 * time.Hour

type trackerKeys struct {
	Bed      key.Binding
	Sleep    key.Binding
	Wake     key.Binding
	Toilet   key.Binding
	Out      key.Binding
	Fix      key.Binding
	Timeline key.Binding
	History  key.Binding
	Stats    key.Binding
	Quit     key.Binding
}

func newTrackerKeys() trackerKeys {
	return trackerKeys{
		Bed:      key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "bed")),
		Sleep:    key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "asleep")),
		Wake:     key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "woke")),
		Toilet:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toilet")),
		Out:      key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "out of bed")),
		Fix:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "fix estimate")),
		Timeline: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "edit timeline")),
		History:  key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "history")),
		Stats:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stats")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k trackerKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Bed, k.Sleep, k.Wake, k.Toilet, k.Out, k.Fix, k.Timeline, k.History, k.Stats, k.Quit}
}

func (k trackerKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// TrackerModel is the live tracker screen
type TrackerModel struct {
	tracker *sleep.Tracker
	clock   ElapsedClock
	refresh time.Duration
	keys    trackerKeys
	help    help.Model
	input   textinput.Model

	width  int
	height int
	now    time.Time

	// UI state
	confirmOut bool        // waiting for y/n on "out without sleeping"
	hint       *sleep.Hint // placeholder onset that can be corrected
	fixing     bool        // editing the hint's timestamp
	timeline   TimelineEditor
	browsing   bool // timeline editor has the keys
	notice     string
	noticeErr  bool
}

// NewTrackerModel creates the tracker screen for a loaded tracker
func NewTrackerModel(tracker *sleep.Tracker, refresh time.Duration) TrackerModel {
	input := textinput.New()
	input.Placeholder = "23:40, 30m ago, 10/03/2026 23:40"
	input.CharLimit = 32
	input.Width = 32

	return TrackerModel{
		tracker:  tracker,
		refresh:  refresh,
		keys:     newTrackerKeys(),
		help:     help.New(),
		input:    input,
		timeline: newTimelineEditor(tracker),
		now:      tracker.Now(),
	}
}

// enter is called whenever the screen becomes visible
func (m TrackerModel) enter() (TrackerModel, tea.Cmd) {
	m.now = m.tracker.Now()
	m.browsing = false
	return m.syncClock()
}

// leave releases the elapsed clock
func (m TrackerModel) leave() TrackerModel {
	m.clock.Stop()
	return m
}

// syncClock runs the clock only while a session is active
func (m TrackerModel) syncClock() (TrackerModel, tea.Cmd) {
	active := m.tracker.State() != sleep.Idle
	switch {
	case active && !m.clock.Running():
		var cmd tea.Cmd
		m.clock, cmd = StartElapsed(m.refresh)
		return m, cmd
	case !active && m.clock.Running():
		m.clock.Stop()
	}
	return m, nil
}

func (m TrackerModel) Update(msg tea.Msg) (TrackerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case elapsedTickMsg:
		cmd, ok := m.clock.Accept(msg)
		if !ok {
			return m, nil
		}
		m.now = m.tracker.Now()
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.confirmOut {
			return m.handleConfirmKeys(msg)
		}
		if m.fixing {
			return m.handleFixKeys(msg)
		}
		if m.browsing {
			return m.handleTimelineKeys(msg)
		}
		return m.handleKeys(msg)
	}
	return m, nil
}

func (m TrackerModel) handleKeys(msg tea.KeyMsg) (TrackerModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m = m.leave()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Bed):
		out, err := m.tracker.StartBed()
		return m.apply(out, err, "🛏️  In bed. Sleep well.")

	case key.Matches(msg, m.keys.Sleep):
		out, err := m.tracker.FallAsleep()
		return m.apply(out, err, "😴 Falling asleep")

	case key.Matches(msg, m.keys.Wake):
		out, err := m.tracker.WakeUp()
		return m.apply(out, err, "👀 Awake")

	case key.Matches(msg, m.keys.Toilet):
		out, err := m.tracker.RecordToilet()
		return m.apply(out, err, "🚽 Toilet trip recorded")

	case key.Matches(msg, m.keys.Out):
		if m.tracker.NeedsNoSleepConfirmation() {
			m.confirmOut = true
			m.notice = ""
			return m, nil
		}
		out, err := m.tracker.LeaveBed(false)
		return m.apply(out, err, "🌅 Good morning. Night saved.")

	case key.Matches(msg, m.keys.Fix):
		if m.hint == nil {
			return m, nil
		}
		m.fixing = true
		if current, ok := m.tracker.CurrentValue(m.hint.Edit); ok {
			m.input.SetValue(parser.FormatClock(current))
		}
		m.input.CursorEnd()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Timeline):
		if m.tracker.Active() == nil {
			return m, nil
		}
		m.browsing = true
		m.timeline = m.timeline.Open(sleep.ActiveSession)
		return m, nil

	case key.Matches(msg, m.keys.History):
		m = m.leave()
		return m, switchTo(ScreenHistory)

	case key.Matches(msg, m.keys.Stats):
		m = m.leave()
		return m, switchTo(ScreenStats)
	}
	return m, nil
}

func (m TrackerModel) handleConfirmKeys(msg tea.KeyMsg) (TrackerModel, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.confirmOut = false
		out, err := m.tracker.LeaveBed(true)
		return m.apply(out, err, "🌅 Night saved without sleep")
	case "n", "N", "esc":
		m.confirmOut = false
		m.notice = "Still in bed"
		m.noticeErr = false
	case "ctrl+c":
		m = m.leave()
		return m, tea.Quit
	}
	return m, nil
}

func (m TrackerModel) handleFixKeys(msg tea.KeyMsg) (TrackerModel, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.fixing = false
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		at, err := parser.ParseEventTime(m.input.Value(), m.tracker.Now())
		if err != nil {
			m.notice = "❌ " + err.Error()
			m.noticeErr = true
			return m, nil
		}
		out, err := m.tracker.EditTimestamp(m.hint.Edit, at)
		m.fixing = false
		m.input.Blur()
		m.input.SetValue("")
		if out.Applied {
			m.hint = nil
		}
		return m.apply(out, err, fmt.Sprintf("✏️  Fell asleep at %s", parser.FormatClock(at)))
	case tea.KeyCtrlC:
		m = m.leave()
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m TrackerModel) handleTimelineKeys(msg tea.KeyMsg) (TrackerModel, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m = m.leave()
		return m, tea.Quit
	}
	var (
		cmd    tea.Cmd
		result timelineResult
	)
	m.timeline, cmd, result = m.timeline.Update(msg)
	switch result {
	case timelineChanged:
		m.now = m.tracker.Now()
		if m.hint != nil && m.timeline.applied != nil && *m.timeline.applied == m.hint.Edit {
			m.hint = nil
		}
	case timelineClosed:
		m.browsing = false
	}
	return m, cmd
}

// apply turns an action outcome into a notice and keeps the clock in step
// with the new state
func (m TrackerModel) apply(out sleep.Outcome, err error, done string) (TrackerModel, tea.Cmd) {
	m.now = m.tracker.Now()
	switch {
	case err != nil:
		m.notice = "⚠️  " + err.Error()
		m.noticeErr = true
	case !out.Applied:
		m.notice = fmt.Sprintf("Nothing to do while %s", out.State)
		m.noticeErr = false
	default:
		m.notice = done
		m.noticeErr = false
	}
	if out.Hint != nil {
		m.hint = out.Hint
	}
	if out.State == sleep.Idle {
		m.hint = nil
	}
	return m.syncClock()
}

func (m TrackerModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	helpBar := lipgloss.NewStyle().Align(lipgloss.Center).Width(m.width).Render(m.help.View(m.keys))
	contentHeight := m.height - 2

	// Narrow view: just the clock panel, or the timeline while editing it
	if m.width < 90 {
		if m.browsing {
			return lipgloss.JoinVertical(lipgloss.Left, m.renderDetailsPanel(m.width, contentHeight), helpBar)
		}
		return lipgloss.JoinVertical(lipgloss.Left, m.renderClockPanel(m.width, contentHeight), helpBar)
	}

	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth - 2
	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderClockPanel(leftWidth, contentHeight),
		"  ",
		m.renderDetailsPanel(rightWidth, contentHeight),
	)
	return lipgloss.JoinVertical(lipgloss.Left, content, helpBar)
}

func (m TrackerModel) renderClockPanel(width, height int) string {
	state := m.tracker.State()
	center := lipgloss.NewStyle().Align(lipgloss.Center).Width(width)

	var components []string
	header := lipgloss.NewStyle().
		Foreground(stateColor(state)).
		Bold(true).
		Align(lipgloss.Center).
		Width(width).
		Render(strings.ToUpper(state.String()))
	components = append(components, header)

	if active := m.tracker.Active(); active != nil {
		clock := renderBigClock(sleep.Elapsed(active, m.now), stateColor(state))
		var lines []string
		for _, line := range strings.Split(clock, "\n") {
			lines = append(lines, center.Render(line))
		}
		components = append(components, strings.Join(lines, "\n"))
		components = append(components, lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true).
			Align(lipgloss.Center).
			Width(width).
			Render(elapsedCaption(state)))
	} else {
		components = append(components, center.Render(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Render("Press b when you get into bed")))
	}

	if m.confirmOut {
		components = append(components, center.Render(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorWarning)).
			Bold(true).
			Render("No sleep recorded. Get up anyway? (y/n)")))
	}
	if m.hint != nil && !m.fixing {
		components = append(components, center.Render(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorAccentBright)).
			Render("💡 "+m.hint.Message+" (e)")))
	}
	if m.fixing {
		components = append(components, center.Render("Fell asleep at: "+m.input.View()))
	}
	if m.notice != "" {
		color := ColorSuccess
		if m.noticeErr {
			color = ColorError
		}
		components = append(components, center.Render(lipgloss.NewStyle().
			Foreground(lipgloss.Color(color)).
			Render(m.notice)))
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(strings.Join(components, "\n\n"))
}

func elapsedCaption(s sleep.State) string {
	switch s {
	case sleep.Asleep:
		return "asleep for"
	case sleep.AwakeInBed:
		return "awake for"
	default:
		return "in bed for"
	}
}

func (m TrackerModel) renderDetailsPanel(width, height int) string {
	var b strings.Builder
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Bold(true)

	if active := m.tracker.Active(); active != nil {
		b.WriteString(titleStyle.Render("Tonight"))
		b.WriteString("\n\n")
		if m.browsing {
			b.WriteString(m.timeline.View())
		} else {
			b.WriteString(renderTimeline(sleep.BuildTimeline(active, sleep.ActiveSession, true), -1))
		}
		b.WriteString("\n\n")
		b.WriteString(renderSessionMetrics(active, m.now))
	} else if last := m.lastNight(); last != nil {
		b.WriteString(titleStyle.Render("Last night · " + parser.FormatDate(last.BedTime)))
		b.WriteString("\n\n")
		b.WriteString(renderSessionMetrics(last, m.now))
	} else {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true).
			Render("No recent night to show"))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(1, 2).
		Width(width - 2).
		Height(height - 2).
		Render(b.String())
}

// lastNight returns the most recent session if it ended less than
// summaryCardWindow ago
func (m TrackerModel) lastNight() *models.Session {
	history := m.tracker.History()
	if len(history) == 0 || history[0].OutOfBedTime == nil {
		return nil
	}
	if m.now.Sub(*history[0].OutOfBedTime) >= summaryCardWindow {
		return nil
	}
	return history[0]
}
