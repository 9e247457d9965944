package commands

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/balkashynov/slumber/internal/models"
	"github.com/balkashynov/slumber/internal/sleep"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search nights by their notes",
	Long: `Search the notes of finished nights with ranked matching:
- Exact match (highest priority)
- Prefix match
- Word match
- Substring match (lowest priority)

Search is case insensitive. Nights with the same rank are listed most recent first.`,
	Args: cobra.MinimumNArgs(1),
	RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		limit, _ := cmd.Flags().GetInt("limit")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		matches := searchNights(a.tracker.History(), query)
		if limit > 0 && len(matches) > limit {
			matches = matches[:limit]
		}

		w := cmd.OutOrStdout()
		if jsonOutput {
			return renderSearchJSON(w, matches, query, a.tracker.Now())
		}
		renderSearchTable(w, matches, query, a.tracker.Now())
		return nil
	}),
}

// nightMatch is a history entry that matched a search
type nightMatch struct {
	Number  int // 1-based, as shown by 'slumber ls'
	Session *models.Session
	rank    int
}

const (
	rankExact = iota
	rankPrefix
	rankWord
	rankSubstring
)

// searchNights ranks the nights whose notes contain query
func searchNights(history []*models.Session, query string) []nightMatch {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var matches []nightMatch
	for i, s := range history {
		notes := strings.ToLower(strings.TrimSpace(s.Notes))
		rank := -1
		switch {
		case notes == q:
			rank = rankExact
		case strings.HasPrefix(notes, q):
			rank = rankPrefix
		case containsWord(notes, q):
			rank = rankWord
		case strings.Contains(notes, q):
			rank = rankSubstring
		}
		if rank >= 0 {
			matches = append(matches, nightMatch{Number: i + 1, Session: s, rank: rank})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].rank < matches[j].rank
	})
	return matches
}

func containsWord(text, word string) bool {
	for _, f := range strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == ',' || r == '.' || r == ';' || r == '\n' || r == '\t'
	}) {
		if f == word {
			return true
		}
	}
	return false
}

// renderSearchJSON outputs search results as JSON
func renderSearchJSON(w io.Writer, matches []nightMatch, query string, now time.Time) error {
	type jsonNight struct {
		Night       int        `json:"night"`
		ID          string     `json:"id"`
		BedTime     time.Time  `json:"bed_time"`
		OutOfBed    *time.Time `json:"out_of_bed_time,omitempty"`
		SleepMin    int        `json:"total_sleep_minutes"`
		InBedMin    int        `json:"time_in_bed_minutes"`
		Efficiency  *int       `json:"efficiency,omitempty"`
		Awakenings  int        `json:"awakenings"`
		ToiletTrips int        `json:"toilet_trips"`
		Notes       string     `json:"notes"`
	}
	type searchResult struct {
		Query  string      `json:"query"`
		Count  int         `json:"count"`
		Nights []jsonNight `json:"nights"`
	}

	result := searchResult{Query: query, Count: len(matches), Nights: []jsonNight{}}
	for _, m := range matches {
		s := m.Session
		n := jsonNight{
			Night:       m.Number,
			ID:          s.ID,
			BedTime:     s.BedTime,
			OutOfBed:    s.OutOfBedTime,
			SleepMin:    int(sleep.TotalSleep(s, now).Minutes()),
			InBedMin:    int(sleep.TimeInBed(s, now).Minutes()),
			Awakenings:  sleep.AwakeningCount(s),
			ToiletTrips: sleep.ToiletCount(s),
			Notes:       s.Notes,
		}
		if eff, ok := sleep.Efficiency(s, now); ok {
			n.Efficiency = &eff
		}
		result.Nights = append(result.Nights, n)
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode search results: %w", err)
	}
	fmt.Fprintln(w, string(jsonBytes))
	return nil
}

// renderSearchTable outputs search results as a formatted table
func renderSearchTable(w io.Writer, matches []nightMatch, query string, now time.Time) {
	fmt.Fprintf(w, "Search results for '%s' (%d found):\n", query, len(matches))
	if len(matches) == 0 {
		fmt.Fprintln(w, "No nights found matching your search.")
		return
	}
	fmt.Fprintln(w)

	nights := make([]*models.Session, len(matches))
	numbers := make([]int, len(matches))
	for i, m := range matches {
		nights[i] = m.Session
		numbers[i] = m.Number
	}
	printNightTable(w, nights, numbers, now)
}

func init() {
	searchCmd.Flags().IntP("limit", "l", 0, "Limit number of results")
	searchCmd.Flags().Bool("json", false, "Output as JSON")
}
