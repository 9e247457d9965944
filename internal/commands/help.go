package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var helpCmd = &cobra.Command{
	Use:   "help [command]",
	Short: "Show comprehensive help for slumber",
	Long:  `Display detailed help for all slumber commands and flags, or the usage of one command.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			if target, _, err := rootCmd.Find(args); err == nil && target != rootCmd {
				target.Help()
				return
			}
		}
		showCustomHelp(cmd.OutOrStdout())
	},
}

func showCustomHelp(w io.Writer) {
	fmt.Fprint(w, `
███████╗██╗     ██╗   ██╗███╗   ███╗██████╗ ███████╗██████╗
██╔════╝██║     ██║   ██║████╗ ████║██╔══██╗██╔════╝██╔══██╗
███████╗██║     ██║   ██║██╔████╔██║██████╔╝█████╗  ██████╔╝
╚════██║██║     ██║   ██║██║╚██╔╝██║██╔══██╗██╔══╝  ██╔══██╗
███████║███████╗╚██████╔╝██║ ╚═╝ ██║██████╔╝███████╗██║  ██║
╚══════╝╚══════╝ ╚═════╝ ╚═╝     ╚═╝╚═════╝ ╚══════╝╚═╝  ╚═╝

slumber - terminal sleep tracker

TONIGHT:

  bed                     Get into bed and start tonight's session
  sleep                   Record falling asleep
  wake                    Record waking up
  toilet                  Record a toilet trip
  out                     Get out of bed and finish the night
    -y, --yes             Finish even if no sleep was recorded
  status                  Show tonight's session
  timeline [N]            Show the events of tonight or of night N

  track                   Open the live tracker
    Keys:
      b             Into bed
      z             Fell asleep
      w             Woke up
      t             Toilet trip
      o             Out of bed
      e             Correct an estimated sleep onset
      tab           Edit tonight's timeline (enter edit, x delete trip)
      h / s         History / stats
      q / esc       Quit

CORRECTIONS:

  edit <field> <time>     Correct a timestamp (fields: bed, sleep, wake, out)
    -s, --session N       Night number from 'slumber ls'
    -c, --cycle K         Sleep cycle (default: the last one)

    Times:
      now, 23:40, 10/03/2026 23:40, 2026-03-10T23:40, 30m ago, 1h15m ago

  note <text>             Set the notes of a night
    -s, --session N       Night number from 'slumber ls'
  untoilet <k>            Delete toilet trip k
    -s, --session N       Night number from 'slumber ls'

HISTORY:

  ls                      Browse finished nights
    --no-ui               Simple text output

    Quick actions:
      ↑/↓           Navigate nights
      ←/→           Change page
      enter         Edit the night's timeline (enter edit, x delete trip)
      /             Search notes
      n             Edit notes
      d             Delete night
      s             Stats
      esc           Back to tracker

  show <N>                Show night N in detail
  rm <N>                  Delete night N
    -y, --yes             Delete without asking
  search <query>          Search nights by their notes
    --json                JSON output
    -l, --limit           Limit number of results

STATS:

  stats                   Averages and chart over 7, 14 or 30 days
    -d, --days            Window in days
    --no-ui               Simple text output

    Quick actions:
      ←/→ 1/2/3     Change window
      a             Analyze the window
      h             History
      esc           Back to tracker

  analyze                 Ask a language model to analyze your sleep
    -d, --days            Window in days

DATA:

  export                  Write sleep-data-YYYY-MM-DD.json
    -o, --out DIR         Target directory
  import <file>           Replace all data with an export
    -y, --yes             Replace without asking

  version                 Show version information
  help                    Show this help

Global flags:
  --config PATH           Config file (default ~/.config/slumber/config.toml)

`)
}
