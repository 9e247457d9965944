package commands

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/slumber/internal/parser"
	"github.com/balkashynov/slumber/internal/sleep"
	"github.com/balkashynov/slumber/internal/tui"
)

// chartWidth is the width of the --no-ui bar chart in cells
const chartWidth = 40

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show averages over the last 7, 14 or 30 days",
	Long: `Show sleep averages and a per-night chart over a window of 7, 14 or 30 days.
Opens the interactive stats screen unless --no-ui is given.`,
	Args: cobra.NoArgs,
	RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
		days, err := windowDays(cmd, a.cfg.Stats.DefaultDays)
		if err != nil {
			return err
		}
		noUI, _ := cmd.Flags().GetBool("no-ui")
		if !noUI {
			return tui.Run(a.tuiOptions(days), tui.ScreenStats)
		}

		sum := sleep.Aggregate(a.tracker.History(), days, a.tracker.Now())
		printSummary(cmd.OutOrStdout(), sum)
		return nil
	}),
}

// windowDays reads --days, falling back to the configured default
func windowDays(cmd *cobra.Command, fallback int) (int, error) {
	days, _ := cmd.Flags().GetInt("days")
	if days == 0 {
		days = fallback
	}
	if !slices.Contains(sleep.SupportedWindows, days) {
		return 0, fmt.Errorf("--days must be 7, 14 or 30, got %d", days)
	}
	return days, nil
}

func printSummary(w io.Writer, sum sleep.Summary) {
	fmt.Fprintf(w, "📊 Last %d days\n", sum.WindowDays)
	if !sum.HasData {
		fmt.Fprintln(w, "No finished nights in this window.")
		return
	}

	eff := parser.FormatPercent(sum.AvgEfficiency, sum.HasEfficiency)
	if sum.HasEfficiency {
		eff += " (" + sleep.EfficiencyGrade(sum.AvgEfficiency) + ")"
	}
	fmt.Fprintf(w, "Nights:               %d\n", sum.Nights)
	fmt.Fprintf(w, "Avg total sleep:      %s\n", parser.FormatDuration(sum.AvgTotalSleep))
	fmt.Fprintf(w, "Avg time in bed:      %s\n", parser.FormatDuration(sum.AvgTimeInBed))
	fmt.Fprintf(w, "Avg efficiency:       %s\n", eff)
	fmt.Fprintf(w, "Avg onset latency:    %s\n", parser.FormatOptionalDuration(sum.AvgOnsetLatency, sum.HasOnsetLatency))
	fmt.Fprintf(w, "Avg awakenings:       %.1f\n", sum.AvgAwakenings)
	fmt.Fprintf(w, "Avg toilet trips:     %.1f\n", sum.AvgToiletTrips)
	fmt.Fprintf(w, "Nights without sleep: %d\n", sum.InsomniaNights)

	fmt.Fprintln(w)
	for _, bar := range sum.Bars {
		inBed := bar.InBedPct * chartWidth / 100
		asleep := min(bar.AsleepPct*chartWidth/100, inBed)
		fmt.Fprintf(w, "%-10s %s%s%s %s %d%%\n",
			parser.FormatDate(bar.Night),
			strings.Repeat("█", asleep),
			strings.Repeat("░", inBed-asleep),
			strings.Repeat(" ", chartWidth-inBed),
			parser.FormatDuration(bar.Asleep),
			bar.SleepShare)
	}
}

func init() {
	statsCmd.Flags().IntP("days", "d", 0, "Window in days: 7, 14 or 30 (default from config)")
	statsCmd.Flags().Bool("no-ui", false, "Plain text output")
}
