package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mood",
	Short: "NSE pre-open momentum-gap signal engine",
	Long: `nse-market-mood CLI

Daily signal generation for the NSE pre-open session: joins yesterday's
bhavcopy with today's pre-market snapshot, scores the momentum gap per
symbol and persists the top candidates as an auditable run.

Examples:
  mood generate --date 2026-08-28
  mood api
  mood scheduler`,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}
