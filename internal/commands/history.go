package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/slumber/internal/models"
	"github.com/balkashynov/slumber/internal/parser"
	"github.com/balkashynov/slumber/internal/sleep"
	"github.com/balkashynov/slumber/internal/tui"
)

var listCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"history"},
	Short:   "List finished nights",
	Long:    "List finished nights, most recent first. Opens the interactive history unless --no-ui is given.",
	Args:    cobra.NoArgs,
	RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
		noUI, _ := cmd.Flags().GetBool("no-ui")
		if !noUI {
			return tui.Run(a.tuiOptions(a.cfg.Stats.DefaultDays), tui.ScreenHistory)
		}

		w := cmd.OutOrStdout()
		history := a.tracker.History()
		if len(history) == 0 {
			fmt.Fprintln(w, "No nights recorded yet. Use 'slumber bed' to start your first one.")
			return nil
		}
		printNightTable(w, history, nil, a.tracker.Now())
		return nil
	}),
}

var showCmd = &cobra.Command{
	Use:   "show <N>",
	Short: "Show one night in detail",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
		n, err := parseNight(args[0])
		if err != nil {
			return err
		}
		ref, err := resolveSession(a.tracker, n)
		if err != nil {
			return err
		}
		s, _ := a.tracker.Session(ref)

		w := cmd.OutOrStdout()
		printTimeline(w, s, ref)
		fmt.Fprintln(w)
		printMetrics(w, s, a.tracker.Now())
		if s.Notes != "" {
			fmt.Fprintf(w, "\nNotes: %s\n", s.Notes)
		}
		return nil
	}),
}

var rmCmd = &cobra.Command{
	Use:   "rm <N>",
	Short: "Delete a night from the history",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
		n, err := parseNight(args[0])
		if err != nil {
			return err
		}
		ref, err := resolveSession(a.tracker, n)
		if err != nil {
			return err
		}
		s, _ := a.tracker.Session(ref)

		w := cmd.OutOrStdout()
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			fmt.Fprintf(w, "This deletes night #%d (%s). Run 'slumber rm %d --yes' to confirm.\n",
				n, parser.FormatDate(s.BedTime), n)
			return nil
		}
		out, err := a.tracker.DeleteSession(ref.Index(), true)
		report(w, out, err, fmt.Sprintf("🗑️  Night #%d (%s) deleted", n, parser.FormatDate(s.BedTime)))
		return nil
	}),
}

func init() {
	listCmd.Flags().Bool("no-ui", false, "Plain text output")
	rmCmd.Flags().BoolP("yes", "y", false, "Delete without asking")
}

// printNightTable prints history rows. numbers holds the 1-based night
// numbers of the rows; nil numbers them in order.
func printNightTable(w io.Writer, nights []*models.Session, numbers []int, now time.Time) {
	fmt.Fprintf(w, "%-4s %-10s %-6s %-6s %-8s %-8s %-5s %-5s %-6s %s\n",
		"#", "NIGHT", "BED", "OUT", "SLEPT", "IN BED", "EFF", "WAKES", "TOILET", "NOTES")
	fmt.Fprintln(w, strings.Repeat("-", 80))

	for i, s := range nights {
		number := i + 1
		if numbers != nil {
			number = numbers[i]
		}
		out := "-"
		if s.OutOfBedTime != nil {
			out = parser.FormatClock(*s.OutOfBedTime)
		}
		eff, ok := sleep.Efficiency(s, now)

		notes := strings.Join(strings.Fields(s.Notes), " ")
		if r := []rune(notes); len(r) > 30 {
			notes = string(r[:27]) + "..."
		}

		fmt.Fprintf(w, "%-4d %-10s %-6s %-6s %-8s %-8s %-5s %-5d %-6d %s\n",
			number,
			parser.FormatDate(s.BedTime),
			parser.FormatClock(s.BedTime),
			out,
			parser.FormatDuration(sleep.TotalSleep(s, now)),
			parser.FormatDuration(sleep.TimeInBed(s, now)),
			parser.FormatPercent(eff, ok),
			sleep.AwakeningCount(s),
			sleep.ToiletCount(s),
			notes)
	}
}
