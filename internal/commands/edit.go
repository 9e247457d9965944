package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/slumber/internal/parser"
	"github.com/balkashynov/slumber/internal/sleep"
)

var editCmd = &cobra.Command{
	Use:   "edit <field> <time>",
	Short: "Correct a timestamp of a night",
	Long: `Correct one timestamp of tonight's session or of a night from the history.

Fields: bed, sleep, wake, out
Times:  now, 23:40, 10/03/2026 23:40, 2026-03-10T23:40, 30m ago

sleep and wake refer to a sleep cycle; the last one unless --cycle is given.

Usage:
  slumber edit sleep 23:40             - Fell asleep at 23:40 tonight
  slumber edit bed 22:50 --session 2   - Bed time of the night before last
  slumber edit wake "30m ago" --cycle 1`,
	Args: cobra.MinimumNArgs(2),
	RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
		field, err := sleep.ParseField(args[0])
		if err != nil {
			return err
		}
		at, err := parser.ParseEventTime(strings.Join(args[1:], " "), a.tracker.Now())
		if err != nil {
			return err
		}

		n, _ := cmd.Flags().GetInt("session")
		ref, err := resolveSession(a.tracker, n)
		if err != nil {
			return err
		}
		cycle, _ := cmd.Flags().GetInt("cycle")
		edit, err := editTarget(a.tracker, ref, field, cycle)
		if err != nil {
			return err
		}

		previous, ok := a.tracker.CurrentValue(edit)
		if !ok {
			return fmt.Errorf("%s has no %s time to correct", ref, field)
		}
		out, err := a.tracker.EditTimestamp(edit, at)
		report(cmd.OutOrStdout(), out, err, fmt.Sprintf("✏️  %s time changed from %s to %s",
			field, parser.FormatClock(previous), parser.FormatClock(at)))
		return nil
	}),
}

var noteCmd = &cobra.Command{
	Use:   "note <text>",
	Short: "Set the notes of a night",
	Long: `Replace the notes of tonight's session, or of night N with --session.
An empty text clears the notes.`,
	Args: cobra.MinimumNArgs(1),
	RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
		n, _ := cmd.Flags().GetInt("session")
		ref, err := resolveSession(a.tracker, n)
		if err != nil {
			return err
		}
		out, err := a.tracker.SetNotes(ref, strings.TrimSpace(strings.Join(args, " ")))
		report(cmd.OutOrStdout(), out, err, "📝 Notes saved")
		return nil
	}),
}

var untoiletCmd = &cobra.Command{
	Use:   "untoilet <k>",
	Short: "Delete toilet trip k of a night",
	Long:  `Delete a toilet trip recorded by mistake. k is the trip number shown by 'slumber timeline'.`,
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
		k, err := parseNight(args[0])
		if err != nil {
			return fmt.Errorf("invalid trip number '%s'", args[0])
		}
		n, _ := cmd.Flags().GetInt("session")
		ref, err := resolveSession(a.tracker, n)
		if err != nil {
			return err
		}
		out, err := a.tracker.DeleteToiletTrip(sleep.DeleteToiletCommand{Session: ref, Trip: k - 1})
		if !out.Applied && err == nil {
			return fmt.Errorf("%s has no toilet trip #%d", ref, k)
		}
		report(cmd.OutOrStdout(), out, err, fmt.Sprintf("🗑️  Toilet trip #%d deleted", k))
		return nil
	}),
}

// editTarget builds the edit command for a field. cycle is 1-based; 0 picks
// the last cycle of the session.
func editTarget(tr *sleep.Tracker, ref sleep.SessionRef, field sleep.Field, cycle int) (sleep.EditCommand, error) {
	edit := sleep.EditCommand{Session: ref, Field: field}
	if field != sleep.SleepTime && field != sleep.WakeTime {
		return edit, nil
	}
	s, ok := tr.Session(ref)
	if !ok {
		return edit, fmt.Errorf("%s not found", ref)
	}
	switch {
	case len(s.Cycles) == 0:
		return edit, fmt.Errorf("%s has no sleep recorded", ref)
	case cycle == 0:
		edit.Cycle = len(s.Cycles) - 1
	case cycle < 0 || cycle > len(s.Cycles):
		return edit, fmt.Errorf("%s has %d sleep cycles, no cycle %d", ref, len(s.Cycles), cycle)
	default:
		edit.Cycle = cycle - 1
	}
	return edit, nil
}

func init() {
	for _, c := range []*cobra.Command{editCmd, noteCmd, untoiletCmd} {
		c.Flags().IntP("session", "s", 0, "Night number from 'slumber ls' (default: tonight, else last night)")
	}
	editCmd.Flags().IntP("cycle", "c", 0, "Sleep cycle number (default: the last one)")
}
