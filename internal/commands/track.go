package commands

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/slumber/internal/models"
	"github.com/balkashynov/slumber/internal/parser"
	"github.com/balkashynov/slumber/internal/sleep"
	"github.com/balkashynov/slumber/internal/tui"
)

var bedCmd = &cobra.Command{
	Use:   "bed",
	Short: "Get into bed and start tonight's session",
	Args:  cobra.NoArgs,
	RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
		out, err := a.tracker.StartBed()
		report(cmd.OutOrStdout(), out, err, stamped(a.tracker, sleep.KindBed, "🛏️  In bed at %s. Sleep well."))
		return nil
	}),
}

var sleepCmd = &cobra.Command{
	Use:   "sleep",
	Short: "Record falling asleep",
	Args:  cobra.NoArgs,
	RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
		out, err := a.tracker.FallAsleep()
		report(cmd.OutOrStdout(), out, err, stamped(a.tracker, sleep.KindSleepStart, "😴 Fell asleep at %s"))
		return nil
	}),
}

var wakeCmd = &cobra.Command{
	Use:   "wake",
	Short: "Record waking up",
	Long: `Record waking up. If no sleep onset was recorded, the night gets an
estimated one (your bed time or your last wake time) that you can correct
with 'slumber edit sleep <time>'.`,
	Args: cobra.NoArgs,
	RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
		out, err := a.tracker.WakeUp()
		report(cmd.OutOrStdout(), out, err, stamped(a.tracker, sleep.KindWakeEnd, "👀 Woke up at %s"))
		return nil
	}),
}

var toiletCmd = &cobra.Command{
	Use:   "toilet",
	Short: "Record a toilet trip",
	Args:  cobra.NoArgs,
	RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
		out, err := a.tracker.RecordToilet()
		report(cmd.OutOrStdout(), out, err, stamped(a.tracker, sleep.KindToilet, "🚽 Toilet trip recorded at %s"))
		return nil
	}),
}

var outCmd = &cobra.Command{
	Use:   "out",
	Short: "Get out of bed and finish the night",
	Long: `Get out of bed and move tonight's session into the history.

A night without any recorded sleep needs --yes.`,
	Args: cobra.NoArgs,
	RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		yes, _ := cmd.Flags().GetBool("yes")
		if a.tracker.NeedsNoSleepConfirmation() && !yes {
			fmt.Fprintln(w, "No sleep recorded tonight. Run 'slumber out --yes' to get up anyway.")
			return nil
		}

		out, err := a.tracker.LeaveBed(yes)
		report(w, out, err, stamped(a.tracker, sleep.KindOutOfBed, "🌅 Out of bed at %s. Good morning."))
		if out.Applied {
			if history := a.tracker.History(); len(history) > 0 {
				printMetrics(w, history[0], a.tracker.Now())
			}
		}
		return nil
	}),
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show tonight's session",
	Args:  cobra.NoArgs,
	RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		now := a.tracker.Now()
		active := a.tracker.Active()
		if active == nil {
			fmt.Fprintln(w, "No active session. Run 'slumber bed' when you get into bed.")
			return nil
		}

		fmt.Fprintf(w, "⏱️  Currently %s\n", a.tracker.State())
		fmt.Fprintf(w, "In bed since: %s (%s)\n", parser.FormatClock(active.BedTime), parser.FormatElapsed(sleep.Elapsed(active, now)))
		printMetrics(w, active, now)
		return nil
	}),
}

var trackCmd = &cobra.Command{
	Use:     "track",
	Aliases: []string{"ui"},
	Short:   "Open the live tracker",
	Args:    cobra.NoArgs,
	RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
		return tui.Run(a.tuiOptions(a.cfg.Stats.DefaultDays), tui.ScreenTracker)
	}),
}

var timelineCmd = &cobra.Command{
	Use:   "timeline [N]",
	Short: "Show the events of a night",
	Long: `Show the events of tonight's session, or of night N from 'slumber ls'.
Without N the active session is shown, or last night if none is active.`,
	Args: cobra.MaximumNArgs(1),
	RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
		n := 0
		if len(args) == 1 {
			var err error
			if n, err = parseNight(args[0]); err != nil {
				return err
			}
		}
		ref, err := resolveSession(a.tracker, n)
		if err != nil {
			return err
		}
		s, _ := a.tracker.Session(ref)
		printTimeline(cmd.OutOrStdout(), s, ref)
		return nil
	}),
}

func init() {
	outCmd.Flags().BoolP("yes", "y", false, "Get up even if no sleep was recorded")
}

// report prints the result of a tracker action
func report(w io.Writer, out sleep.Outcome, err error, done string) {
	switch {
	case err != nil:
		fmt.Fprintf(w, "⚠️  %v\n", err)
	case !out.Applied:
		fmt.Fprintf(w, "Nothing to do while %s\n", out.State)
		return
	default:
		fmt.Fprintln(w, done)
	}
	if out.Hint != nil {
		fmt.Fprintf(w, "💡 %s\n   slumber edit sleep <time> --cycle %d\n", out.Hint.Message, out.Hint.Edit.Cycle+1)
	}
}

// stamped formats msg with the stored time of the event an action just
// recorded. Out of bed is read from the newest night in the history.
func stamped(tr *sleep.Tracker, k sleep.Kind, msg string) string {
	s := tr.Active()
	if k == sleep.KindOutOfBed {
		if history := tr.History(); len(history) > 0 {
			s = history[0]
		}
	}
	return fmt.Sprintf(msg, parser.FormatClock(latest(s, k)))
}

// latest returns the time of the last event of kind k in s
func latest(s *models.Session, k sleep.Kind) time.Time {
	var at time.Time
	for _, e := range sleep.BuildTimeline(s, sleep.ActiveSession, false) {
		if e.Kind == k && !e.At.Before(at) {
			at = e.At
		}
	}
	return at
}

// parseNight parses a 1-based night number as shown by 'slumber ls'
func parseNight(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid night number '%s'", arg)
	}
	return n, nil
}

// resolveSession maps a night number to a session. 0 means the active
// session, or the most recent night when nothing is active.
func resolveSession(tr *sleep.Tracker, n int) (sleep.SessionRef, error) {
	history := tr.History()
	switch {
	case n < 0:
		return sleep.SessionRef{}, fmt.Errorf("invalid night number %d", n)
	case n == 0 && tr.Active() != nil:
		return sleep.ActiveSession, nil
	case n == 0 && len(history) > 0:
		return sleep.HistorySession(0), nil
	case n == 0:
		return sleep.SessionRef{}, fmt.Errorf("no nights recorded yet")
	case n > len(history):
		return sleep.SessionRef{}, fmt.Errorf("night #%d not found (history has %d)", n, len(history))
	}
	return sleep.HistorySession(n - 1), nil
}

func printTimeline(w io.Writer, s *models.Session, ref sleep.SessionRef) {
	fmt.Fprintf(w, "%s · %s\n", parser.FormatDate(s.BedTime), ref)
	for _, e := range sleep.BuildTimeline(s, ref, false) {
		line := fmt.Sprintf("  %s  %s", parser.FormatClock(e.At), e.Label())
		switch e.Kind {
		case sleep.KindWakeEnd:
			line += fmt.Sprintf(" (slept %s)", parser.FormatDuration(e.Slept))
		case sleep.KindToilet:
			line += fmt.Sprintf(" #%d", e.Trip+1)
		}
		fmt.Fprintln(w, line)
	}
}

func printMetrics(w io.Writer, s *models.Session, now time.Time) {
	eff, effOK := sleep.Efficiency(s, now)
	onset, onsetOK := sleep.OnsetLatency(s)

	fmt.Fprintf(w, "Total sleep:  %s\n", parser.FormatDuration(sleep.TotalSleep(s, now)))
	fmt.Fprintf(w, "Time in bed:  %s\n", parser.FormatDuration(sleep.TimeInBed(s, now)))
	if effOK {
		fmt.Fprintf(w, "Efficiency:   %s (%s)\n", parser.FormatPercent(eff, true), sleep.EfficiencyGrade(eff))
	} else {
		fmt.Fprintf(w, "Efficiency:   %s\n", parser.FormatPercent(0, false))
	}
	fmt.Fprintf(w, "Onset:        %s\n", parser.FormatOptionalDuration(onset, onsetOK))
	fmt.Fprintf(w, "Awakenings:   %d (awake %s)\n", sleep.AwakeningCount(s), parser.FormatDuration(sleep.WASO(s)))
	fmt.Fprintf(w, "Toilet trips: %d\n", sleep.ToiletCount(s))
	if s.Finalized() && sleep.IsInsomniaNight(s) {
		fmt.Fprintln(w, "🌑 No sleep recorded this night")
	}
	if sleep.LateCircadian(s) {
		fmt.Fprintln(w, "🦉 Late bed time")
	}
}
