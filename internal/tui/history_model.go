package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/slumber/internal/models"
	"github.com/balkashynov/slumber/internal/parser"
	"github.com/balkashynov/slumber/internal/sleep"
)

// Focus represents what UI element has focus
type Focus int

const (
	FocusTable Focus = iota
	FocusSearch
	FocusNotes
	FocusConfirmDelete
	FocusTimeline
)

// HistoryModel lists finished nights, most recent first
type HistoryModel struct {
	tracker *sleep.Tracker
	width   int
	height  int

	sessions []*models.Session
	rows     []int // indices into sessions that match the search
	selected int   // index into rows

	focus       Focus
	searchQuery string
	notes       NotesEditor
	timeline    TimelineEditor
	notice      string

	currentPage int
	perPage     int
}

// NewHistoryModel creates the history screen
func NewHistoryModel(tracker *sleep.Tracker) HistoryModel {
	m := HistoryModel{
		tracker: tracker,
		notes:    newNotesEditor(),
		timeline: newTimelineEditor(tracker),
		perPage:  10,
	}
	return m.reload()
}

// reload pulls a fresh copy of the history from the tracker
func (m HistoryModel) reload() HistoryModel {
	m.sessions = m.tracker.History()
	m.rows = nil
	query := strings.ToLower(strings.TrimSpace(m.searchQuery))
	for i, s := range m.sessions {
		if query == "" || strings.Contains(strings.ToLower(s.Notes), query) {
			m.rows = append(m.rows, i)
		}
	}
	if m.selected >= len(m.rows) {
		m.selected = max(len(m.rows)-1, 0)
	}
	m.currentPage = m.selected / max(m.perPage, 1)
	return m
}

// selectedIndex is the history index of the selected row, -1 if none
func (m HistoryModel) selectedIndex() int {
	if m.selected < 0 || m.selected >= len(m.rows) {
		return -1
	}
	return m.rows[m.selected]
}

func (m HistoryModel) Update(msg tea.Msg) (HistoryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// header, column headers, pagination, help and borders
		m.perPage = max(m.height-12, 3)
		m.currentPage = m.selected / m.perPage
		return m, nil

	case tea.KeyMsg:
		switch m.focus {
		case FocusSearch:
			return m.handleSearchKeys(msg)
		case FocusNotes:
			return m.handleNotesKeys(msg)
		case FocusConfirmDelete:
			return m.handleDeleteKeys(msg)
		case FocusTimeline:
			return m.handleTimelineKeys(msg)
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			if m.searchQuery != "" {
				m.searchQuery = ""
				return m.reload(), nil
			}
			return m, switchTo(ScreenTracker)
		case "up", "k":
			return m.moveSelection(-1), nil
		case "down", "j":
			return m.moveSelection(1), nil
		case "left", "h":
			return m.changePage(-1), nil
		case "right", "l":
			return m.changePage(1), nil
		case "/":
			m.focus = FocusSearch
			return m, nil
		case "n":
			idx := m.selectedIndex()
			if idx < 0 {
				return m, nil
			}
			m.focus = FocusNotes
			var cmd tea.Cmd
			m.notes, cmd = m.notes.Open(sleep.HistorySession(idx), m.sessions[idx].Notes, m.width/2)
			return m, cmd
		case "enter", "e":
			idx := m.selectedIndex()
			if idx < 0 {
				return m, nil
			}
			m.focus = FocusTimeline
			m.notice = ""
			m.timeline = m.timeline.Open(sleep.HistorySession(idx))
			return m, nil
		case "d":
			if m.selectedIndex() < 0 {
				return m, nil
			}
			m.focus = FocusConfirmDelete
			return m, nil
		case "s":
			return m, switchTo(ScreenStats)
		}
	}
	return m, nil
}

func (m HistoryModel) handleSearchKeys(msg tea.KeyMsg) (HistoryModel, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.focus = FocusTable
		m.searchQuery = ""
		return m.reload(), nil
	case tea.KeyEnter:
		m.focus = FocusTable
		return m, nil
	case tea.KeyBackspace:
		if r := []rune(m.searchQuery); len(r) > 0 {
			m.searchQuery = string(r[:len(r)-1])
		}
	case tea.KeyRunes:
		m.searchQuery += string(msg.Runes)
	case tea.KeySpace:
		m.searchQuery += " "
	default:
		return m, nil
	}
	m.selected = 0
	return m.reload(), nil
}

func (m HistoryModel) handleNotesKeys(msg tea.KeyMsg) (HistoryModel, tea.Cmd) {
	var (
		cmd    tea.Cmd
		result notesResult
	)
	m.notes, cmd, result = m.notes.Update(msg)
	switch result {
	case notesSaved:
		m.focus = FocusTable
		out, err := m.tracker.SetNotes(m.notes.ref, strings.TrimSpace(m.notes.Value()))
		m.notice = outcomeNotice(out, err, "📝 Notes saved")
		return m.reload(), nil
	case notesCancelled:
		m.focus = FocusTable
		return m, nil
	}
	return m, cmd
}

func (m HistoryModel) handleTimelineKeys(msg tea.KeyMsg) (HistoryModel, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	var (
		cmd    tea.Cmd
		result timelineResult
	)
	m.timeline, cmd, result = m.timeline.Update(msg)
	switch result {
	case timelineChanged:
		return m.reload(), cmd
	case timelineClosed:
		m.focus = FocusTable
	}
	return m, cmd
}

func (m HistoryModel) handleDeleteKeys(msg tea.KeyMsg) (HistoryModel, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.focus = FocusTable
		out, err := m.tracker.DeleteSession(m.selectedIndex(), true)
		m.notice = outcomeNotice(out, err, "🗑️  Night deleted")
		return m.reload(), nil
	case "n", "N", "esc":
		m.focus = FocusTable
		m.notice = ""
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m HistoryModel) moveSelection(delta int) HistoryModel {
	next := m.selected + delta
	if next < 0 || next >= len(m.rows) {
		return m
	}
	m.selected = next
	m.currentPage = m.selected / max(m.perPage, 1)
	return m
}

func (m HistoryModel) changePage(delta int) HistoryModel {
	perPage := max(m.perPage, 1)
	pages := (len(m.rows) + perPage - 1) / perPage
	page := m.currentPage + delta
	if page < 0 || page >= pages {
		return m
	}
	m.currentPage = page
	m.selected = min(page*perPage, len(m.rows)-1)
	return m
}

// outcomeNotice renders the result of a tracker action for a status line
func outcomeNotice(out sleep.Outcome, err error, done string) string {
	switch {
	case err != nil:
		return "⚠️  " + err.Error()
	case !out.Applied:
		return "Nothing changed"
	default:
		return done
	}
}

func (m HistoryModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	leftWidth := m.width * 55 / 100
	rightWidth := m.width - leftWidth - 1

	right := m.renderDetails(rightWidth)
	if m.focus == FocusNotes {
		right = m.notes.View()
	}
	content := lipgloss.JoinHorizontal(lipgloss.Top, m.renderTable(leftWidth), " ", right)

	return lipgloss.JoinVertical(lipgloss.Left, "", content, "", m.renderBottomBar())
}

func (m HistoryModel) renderTable(width int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright)).Render("🌙 Nights"))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		empty := "No nights recorded yet"
		if m.searchQuery != "" {
			empty = fmt.Sprintf("No notes match %q", m.searchQuery)
		}
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Italic(true).Render(empty))
		return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(ColorBorder)).Width(width).Render(b.String())
	}

	header := fmt.Sprintf("%-4s %-10s %-6s %-6s %-8s %-5s", "#", "NIGHT", "BED", "OUT", "SLEPT", "EFF")
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright)).Padding(0, 1).Render(header))
	b.WriteString("\n\n")

	perPage := max(m.perPage, 1)
	start := m.currentPage * perPage
	end := min(start+perPage, len(m.rows))
	for r := start; r < end; r++ {
		idx := m.rows[r]
		s := m.sessions[idx]
		until := s.BedTime
		out := "-"
		if s.OutOfBedTime != nil {
			until = *s.OutOfBedTime
			out = parser.FormatClock(until)
		}
		eff, ok := sleep.Efficiency(s, until)

		row := fmt.Sprintf("%-4s %-10s %-6s %-6s %-8s %-5s",
			fmt.Sprintf("%d", idx+1),
			parser.FormatDate(s.BedTime),
			parser.FormatClock(s.BedTime),
			out,
			parser.FormatDuration(sleep.TotalSleep(s, until)),
			parser.FormatPercent(eff, ok),
		)
		if r == m.selected {
			b.WriteString(lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(ColorAccentMain)).
				Bold(true).
				Padding(0, 1).
				Render(row))
		} else {
			b.WriteString(" " + row)
		}
		b.WriteString("\n")
	}

	if perPage < len(m.rows) {
		pages := (len(m.rows) + perPage - 1) / perPage
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorHelpText)).
			Align(lipgloss.Center).
			Width(width - 2).
			MarginTop(1).
			Render(fmt.Sprintf("Page %d/%d (%d nights)", m.currentPage+1, pages, len(m.rows))))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Width(width).
		Render(b.String())
}

func (m HistoryModel) renderDetails(width int) string {
	var b strings.Builder
	idx := m.selectedIndex()
	if idx < 0 {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true).
			Render("Select a night to view details"))
	} else {
		s := m.sessions[idx]
		end := s.BedTime
		if s.OutOfBedTime != nil {
			end = *s.OutOfBedTime
		}
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorPrimaryText)).
			Render("🌙 Night of " + s.BedTime.Local().Format("Mon 02 Jan 2006")))
		b.WriteString("\n\n")
		if m.focus == FocusTimeline {
			b.WriteString(m.timeline.View())
		} else {
			b.WriteString(renderTimeline(sleep.BuildTimeline(s, sleep.HistorySession(idx), true), -1))
		}
		b.WriteString("\n\n")
		b.WriteString(renderSessionMetrics(s, end))
		if s.Notes != "" {
			b.WriteString("\n\nNotes:\n")
			b.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(ColorSecondaryText)).
				Italic(true).
				Width(width - 4).
				Render(s.Notes))
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(0, 1).
		Width(width).
		Render(b.String())
}

func (m HistoryModel) renderBottomBar() string {
	switch m.focus {
	case FocusSearch:
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorPrimaryText)).
			Background(lipgloss.Color(ColorBorder)).
			Padding(0, 1).
			Width(m.width - 2).
			Render("Search notes: " + m.searchQuery + "█")
	case FocusConfirmDelete:
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorWarning)).
			Bold(true).
			Align(lipgloss.Center).
			Width(m.width).
			Render(fmt.Sprintf("Delete night #%d? This can't be undone. (y/n)", m.selectedIndex()+1))
	}

	help := "↑/↓ nav · ←/→ page · enter timeline · / search notes · n notes · d delete · s stats · esc tracker · q quit"
	if m.notice != "" {
		help = m.notice + "  ·  " + help
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(m.width).
		Render(truncate(help, m.width))
}
