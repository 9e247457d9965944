package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/slumber/internal/db"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all data to a JSON file",
	Long: `Write the whole state (tonight's session and the history) to
sleep-data-YYYY-MM-DD.json in the given directory.`,
	Args: cobra.NoArgs,
	RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("out")
		state := a.tracker.Snapshot()
		path, err := db.Export(state, dir, a.tracker.Now())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "📦 Exported %d nights to %s\n", len(state.Sessions), path)
		return nil
	}),
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace all data with an exported JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
		state, err := db.Import(args[0])
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		active := "no active session"
		if state.CurrentSession != nil {
			active = "an active session"
		}
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			fmt.Fprintf(w, "%s holds %d nights and %s. Importing replaces everything stored now (%d nights).\n",
				args[0], len(state.Sessions), active, len(a.tracker.History()))
			fmt.Fprintf(w, "Run 'slumber import %s --yes' to confirm.\n", args[0])
			return nil
		}

		out, err := a.tracker.Replace(state, true)
		report(w, out, err, fmt.Sprintf("📥 Imported %d nights from %s", len(state.Sessions), args[0]))
		return nil
	}),
}

func init() {
	exportCmd.Flags().StringP("out", "o", ".", "Directory to write the export to")
	importCmd.Flags().BoolP("yes", "y", false, "Replace without asking")
}
