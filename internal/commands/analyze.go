package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/slumber/internal/analysis"
	"github.com/balkashynov/slumber/internal/sleep"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Ask a language model to analyze your sleep",
	Long: `Send the nights of the selected window to the configured messages endpoint
and print the analysis. Needs an API key in the config file or in SLUMBER_API_KEY.`,
	Args: cobra.NoArgs,
	RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
		days, err := windowDays(cmd, a.cfg.Stats.DefaultDays)
		if err != nil {
			return err
		}
		sum := sleep.Aggregate(a.tracker.History(), days, a.tracker.Now())

		ctx, cancel := context.WithTimeout(cmd.Context(),
			time.Duration(a.cfg.Analysis.TimeoutSeconds)*time.Second)
		defer cancel()

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "✨ Analyzing %d nights from the last %d days...\n\n", sum.Nights, days)
		res, err := analysis.NewClient(a.cfg.Analysis).Analyze(ctx, sum)
		if err != nil {
			return err
		}
		for i, s := range res.Sections {
			if i > 0 {
				fmt.Fprintln(w)
			}
			if s.Heading != "" {
				fmt.Fprintf(w, "## %s\n", s.Heading)
			}
			fmt.Fprintln(w, s.Body)
		}
		return nil
	}),
}

func init() {
	analyzeCmd.Flags().IntP("days", "d", 0, "Window in days: 7, 14 or 30 (default from config)")
}
