package tui

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/slumber/internal/sleep"
)

// notesResult tells the owner of a NotesEditor what the last key did
type notesResult int

const (
	notesEditing notesResult = iota
	notesSaved
	notesCancelled
)

// NotesEditor edits the free-text notes of one session
type NotesEditor struct {
	area   textarea.Model
	ref    sleep.SessionRef
	active bool
}

func newNotesEditor() NotesEditor {
	area := textarea.New()
	area.Placeholder = "Caffeine, late dinner, noisy neighbours..."
	area.CharLimit = 1000
	area.ShowLineNumbers = false
	area.SetHeight(5)
	return NotesEditor{area: area}
}

// Open starts editing the notes of ref
func (e NotesEditor) Open(ref sleep.SessionRef, notes string, width int) (NotesEditor, tea.Cmd) {
	e.ref = ref
	e.active = true
	if width > 10 {
		e.area.SetWidth(width - 4)
	}
	e.area.SetValue(notes)
	e.area.CursorEnd()
	return e, e.area.Focus()
}

// Value is the edited text
func (e NotesEditor) Value() string {
	return e.area.Value()
}

func (e NotesEditor) Update(msg tea.Msg) (NotesEditor, tea.Cmd, notesResult) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "ctrl+s":
			e.active = false
			e.area.Blur()
			return e, nil, notesSaved
		case "esc":
			e.active = false
			e.area.Blur()
			return e, nil, notesCancelled
		}
	}
	var cmd tea.Cmd
	e.area, cmd = e.area.Update(msg)
	return e, cmd, notesEditing
}

func (e NotesEditor) View() string {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentBright)).
		Bold(true).
		Render("📝 Notes for " + e.ref.String())
	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Render("ctrl+s save · esc cancel")
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentMain)).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, "", e.area.View(), "", hint))
}
