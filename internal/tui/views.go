package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/slumber/internal/models"
	"github.com/balkashynov/slumber/internal/parser"
	"github.com/balkashynov/slumber/internal/sleep"
)

// ASCII art for digits (5x5 characters each)
var bigDigits = map[rune][5]string{
	'0': {" ███ ", "█   █", "█   █", "█   █", " ███ "},
	'1': {"  █  ", " ██  ", "  █  ", "  █  ", "█████"},
	'2': {" ███ ", "█   █", "   █ ", "  █  ", "█████"},
	'3': {" ███ ", "█   █", "  ██ ", "█   █", " ███ "},
	'4': {"█   █", "█   █", "█████", "    █", "    █"},
	'5': {"█████", "█    ", "████ ", "    █", "████ "},
	'6': {" ███ ", "█    ", "████ ", "█   █", " ███ "},
	'7': {"█████", "    █", "   █ ", "  █  ", " █   "},
	'8': {" ███ ", "█   █", " ███ ", "█   █", " ███ "},
	'9': {" ███ ", "█   █", " ████", "    █", " ███ "},
	':': {"     ", "  █  ", "     ", "  █  ", "     "},
}

// renderBigClock renders an elapsed duration as H:MM:SS in block digits
func renderBigClock(d time.Duration, color lipgloss.Color) string {
	var lines [5]strings.Builder
	for _, char := range parser.FormatElapsed(d) {
		art, ok := bigDigits[char]
		if !ok {
			continue
		}
		for i := range lines {
			lines[i].WriteString(art[i])
			lines[i].WriteString(" ")
		}
	}

	clockStyle := lipgloss.NewStyle().Foreground(color).Bold(true)
	rendered := make([]string, len(lines))
	for i := range lines {
		rendered[i] = clockStyle.Render(lines[i].String())
	}
	return strings.Join(rendered, "\n")
}

// renderTimeline lists the entries of a session timeline, one per line. The
// entry at selected gets a cursor; pass -1 for none.
func renderTimeline(entries []sleep.Entry, selected int) string {
	if len(entries) == 0 {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText)).Italic(true).Render("No events yet")
	}

	timeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Italic(true)

	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		switch {
		case selected < 0:
		case i == selected:
			b.WriteString(timeStyle.Render("▸ "))
		default:
			b.WriteString("  ")
		}
		b.WriteString(timeStyle.Render(parser.FormatClock(e.At)))
		b.WriteString("  ")
		b.WriteString(entryIcon(e.Kind))
		b.WriteString(" ")
		b.WriteString(labelStyle.Render(e.Label()))
		switch e.Kind {
		case sleep.KindWakeEnd:
			b.WriteString(mutedStyle.Render(fmt.Sprintf(" (slept %s)", parser.FormatDuration(e.Slept))))
		case sleep.KindToilet:
			b.WriteString(mutedStyle.Render(fmt.Sprintf(" #%d", e.Trip+1)))
		}
	}
	return b.String()
}

func entryIcon(k sleep.Kind) string {
	switch k {
	case sleep.KindBed:
		return "🛏️"
	case sleep.KindSleepStart:
		return "😴"
	case sleep.KindWakeEnd:
		return "👀"
	case sleep.KindToilet:
		return "🚽"
	case sleep.KindOutOfBed:
		return "🌅"
	default:
		return "•"
	}
}

// renderSessionMetrics renders the derived metrics of one session
func renderSessionMetrics(s *models.Session, now time.Time) string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Width(16)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText)).Bold(true)

	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value)
	}

	eff, effOK := sleep.Efficiency(s, now)
	effText := parser.FormatPercent(eff, effOK)
	if effOK {
		grade := sleep.EfficiencyGrade(eff)
		effText = valueStyle.Render(effText) + " " + lipgloss.NewStyle().Foreground(gradeColor(grade)).Render(grade)
	} else {
		effText = valueStyle.Render(effText)
	}
	onset, onsetOK := sleep.OnsetLatency(s)

	rows := []string{
		row("Total sleep", parser.FormatDuration(sleep.TotalSleep(s, now))),
		row("Time in bed", parser.FormatDuration(sleep.TimeInBed(s, now))),
		labelStyle.Render("Efficiency") + effText,
		row("Onset latency", parser.FormatOptionalDuration(onset, onsetOK)),
		row("Awake after onset", parser.FormatDuration(sleep.WASO(s))),
		row("Awakenings", fmt.Sprintf("%d", sleep.AwakeningCount(s))),
		row("Toilet trips", fmt.Sprintf("%d", sleep.ToiletCount(s))),
	}
	if sleep.LateCircadian(s) {
		rows = append(rows, lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning)).Render("⚠️  Late bed time (after 3am)"))
	}
	if sleep.IsInsomniaNight(s) && s.Finalized() {
		rows = append(rows, lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning)).Render("🌙 No sleep recorded"))
	}
	return strings.Join(rows, "\n")
}

// truncate shortens text to width runes with an ellipsis
func truncate(text string, width int) string {
	r := []rune(text)
	if width <= 0 || len(r) <= width {
		return text
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}
