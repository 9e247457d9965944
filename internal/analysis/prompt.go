package analysis

import (
	"fmt"
	"strings"

	"github.com/balkashynov/slumber/internal/models"
	"github.com/balkashynov/slumber/internal/parser"
	"github.com/balkashynov/slumber/internal/sleep"
)

// SystemInstruction fixes the tone and the headings of the reply
const SystemInstruction = `You are a calm, practical sleep coach reviewing a personal sleep log.
Do not diagnose medical conditions. If the data suggests a possible sleep disorder, suggest talking to a doctor in one sentence.
Keep the whole reply under 250 words. Use plain sentences and short bullet lists.
Structure the reply with exactly these markdown headings, in this order:
## Summary
## Patterns
## Suggestions
Under Summary write two or three sentences. Under Patterns and Suggestions write three to five bullets each.`

// BuildPrompt renders the nights of a summary window, one line per session
func BuildPrompt(sum sleep.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Sleep log for the last %d days (%d nights):\n", sum.WindowDays, sum.Nights)
	for _, s := range sum.Sessions {
		b.WriteString(sessionLine(s))
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "\nAverages: total sleep %s, time in bed %s, efficiency %s, onset latency %s, awakenings %.1f, toilet trips %.1f, nights without sleep %d.\n",
		parser.FormatDuration(sum.AvgTotalSleep),
		parser.FormatDuration(sum.AvgTimeInBed),
		parser.FormatPercent(sum.AvgEfficiency, sum.HasEfficiency),
		parser.FormatOptionalDuration(sum.AvgOnsetLatency, sum.HasOnsetLatency),
		sum.AvgAwakenings,
		sum.AvgToiletTrips,
		sum.InsomniaNights,
	)
	return b.String()
}

func sessionLine(s *models.Session) string {
	// window sessions are finalized, so their out-of-bed time stands in for now
	end := s.BedTime
	out := "-"
	if s.OutOfBedTime != nil {
		end = *s.OutOfBedTime
		out = parser.FormatClock(*s.OutOfBedTime)
	}

	eff, effOK := sleep.Efficiency(s, end)
	onset, onsetOK := sleep.OnsetLatency(s)

	line := fmt.Sprintf("%s | bed %s | out %s | slept %s | in bed %s | efficiency %s | onset %s | awakenings %d | toilet %d",
		parser.FormatDate(s.BedTime),
		parser.FormatClock(s.BedTime),
		out,
		parser.FormatDuration(sleep.TotalSleep(s, end)),
		parser.FormatDuration(sleep.TimeInBed(s, end)),
		parser.FormatPercent(eff, effOK),
		parser.FormatOptionalDuration(onset, onsetOK),
		sleep.AwakeningCount(s),
		sleep.ToiletCount(s),
	)
	if notes := strings.Join(strings.Fields(s.Notes), " "); notes != "" {
		line += " | notes: " + notes
	}
	return line
}
