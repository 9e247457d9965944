package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/slumber/internal/parser"
	"github.com/balkashynov/slumber/internal/sleep"
)

// timelineResult tells the owner of a TimelineEditor what the last key did
type timelineResult int

const (
	timelineBrowsing timelineResult = iota
	timelineChanged
	timelineClosed
)

// TimelineEditor walks the entries of one session and corrects or deletes
// them in place
type TimelineEditor struct {
	tracker *sleep.Tracker
	ref     sleep.SessionRef
	entries []sleep.Entry
	cursor  int
	input   textinput.Model

	editing       *sleep.EditCommand
	confirmDelete bool
	applied       *sleep.EditCommand // last edit that went through
	notice        string
	noticeErr     bool
}

func newTimelineEditor(tracker *sleep.Tracker) TimelineEditor {
	input := textinput.New()
	input.Placeholder = "23:40, 30m ago, 10/03/2026 23:40"
	input.CharLimit = 32
	input.Width = 32
	return TimelineEditor{tracker: tracker, input: input}
}

// Open loads the timeline of ref with the cursor on the last entry
func (e TimelineEditor) Open(ref sleep.SessionRef) TimelineEditor {
	e.ref = ref
	e.editing = nil
	e.confirmDelete = false
	e.applied = nil
	e.notice = ""
	e.noticeErr = false
	e = e.rebuild()
	e.cursor = max(len(e.entries)-1, 0)
	return e
}

func (e TimelineEditor) rebuild() TimelineEditor {
	e.entries = nil
	if s, ok := e.tracker.Session(e.ref); ok {
		e.entries = sleep.BuildTimeline(s, e.ref, true)
	}
	if e.cursor >= len(e.entries) {
		e.cursor = max(len(e.entries)-1, 0)
	}
	return e
}

// selected returns the entry under the cursor
func (e TimelineEditor) selected() (sleep.Entry, bool) {
	if e.cursor < 0 || e.cursor >= len(e.entries) {
		return sleep.Entry{}, false
	}
	return e.entries[e.cursor], true
}

func (e TimelineEditor) Update(msg tea.KeyMsg) (TimelineEditor, tea.Cmd, timelineResult) {
	switch {
	case e.editing != nil:
		return e.handleEditKeys(msg)
	case e.confirmDelete:
		return e.handleDeleteKeys(msg)
	}

	switch msg.String() {
	case "esc", "tab":
		return e, nil, timelineClosed
	case "up", "k":
		if e.cursor > 0 {
			e.cursor--
		}
	case "down", "j":
		if e.cursor < len(e.entries)-1 {
			e.cursor++
		}
	case "enter", "e":
		entry, ok := e.selected()
		if !ok || entry.Edit == nil {
			return e, nil, timelineBrowsing
		}
		cmd := *entry.Edit
		e.editing = &cmd
		e.notice = ""
		e.input.SetValue("")
		if current, ok := e.tracker.CurrentValue(cmd); ok {
			e.input.SetValue(parser.FormatClock(current))
		}
		e.input.CursorEnd()
		return e, e.input.Focus(), timelineBrowsing
	case "x", "d":
		if entry, ok := e.selected(); ok && entry.Delete != nil {
			e.confirmDelete = true
			e.notice = ""
		}
	}
	return e, nil, timelineBrowsing
}

func (e TimelineEditor) handleEditKeys(msg tea.KeyMsg) (TimelineEditor, tea.Cmd, timelineResult) {
	switch msg.Type {
	case tea.KeyEsc:
		e.editing = nil
		e.input.Blur()
		return e, nil, timelineBrowsing
	case tea.KeyEnter:
		at, err := parser.ParseEventTime(e.input.Value(), e.tracker.Now())
		if err != nil {
			e.notice = "❌ " + err.Error()
			e.noticeErr = true
			return e, nil, timelineBrowsing
		}
		cmd := *e.editing
		out, err := e.tracker.EditTimestamp(cmd, at)
		e.editing = nil
		e.input.Blur()
		e.input.SetValue("")
		switch {
		case err != nil:
			e.notice = "⚠️  " + err.Error()
			e.noticeErr = true
			return e, nil, timelineBrowsing
		case !out.Applied:
			e.notice = "❌ Times in the future are not allowed"
			e.noticeErr = true
			return e, nil, timelineBrowsing
		}
		e.notice = fmt.Sprintf("✏️  %s set to %s", fieldLabel(cmd.Field), parser.FormatClock(at))
		e.noticeErr = false
		e.applied = &cmd
		return e.rebuild(), nil, timelineChanged
	}

	var cmd tea.Cmd
	e.input, cmd = e.input.Update(msg)
	return e, cmd, timelineBrowsing
}

func (e TimelineEditor) handleDeleteKeys(msg tea.KeyMsg) (TimelineEditor, tea.Cmd, timelineResult) {
	switch msg.String() {
	case "y", "Y":
		e.confirmDelete = false
		entry, ok := e.selected()
		if !ok || entry.Delete == nil {
			return e, nil, timelineBrowsing
		}
		out, err := e.tracker.DeleteToiletTrip(*entry.Delete)
		e.notice = outcomeNotice(out, err, fmt.Sprintf("🗑️  Toilet trip #%d deleted", entry.Trip+1))
		e.noticeErr = err != nil || !out.Applied
		if e.noticeErr {
			return e, nil, timelineBrowsing
		}
		e.applied = nil
		return e.rebuild(), nil, timelineChanged
	case "n", "N", "esc":
		e.confirmDelete = false
	}
	return e, nil, timelineBrowsing
}

func fieldLabel(f sleep.Field) string {
	switch f {
	case sleep.BedTime:
		return "Bed time"
	case sleep.SleepTime:
		return "Sleep onset"
	case sleep.WakeTime:
		return "Wake time"
	case sleep.OutOfBedTime:
		return "Out of bed"
	}
	return f.String()
}

func (e TimelineEditor) View() string {
	var b strings.Builder
	b.WriteString(renderTimeline(e.entries, e.cursor))

	if e.editing != nil {
		b.WriteString("\n\n")
		b.WriteString(fieldLabel(e.editing.Field) + ": " + e.input.View())
	}
	if e.confirmDelete {
		if entry, ok := e.selected(); ok {
			b.WriteString("\n\n")
			b.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(ColorWarning)).
				Bold(true).
				Render(fmt.Sprintf("Delete toilet trip #%d? (y/n)", entry.Trip+1)))
		}
	}
	if e.notice != "" {
		color := ColorSuccess
		if e.noticeErr {
			color = ColorError
		}
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(e.notice))
	}

	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Render("↑/↓ select · enter edit · x delete trip · esc done"))
	return b.String()
}
