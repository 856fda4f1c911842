package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/riasnelli/nse-market-mood-sub000/internal/contracts"
)

var generateDate string

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run the signal engine once for a date",
	Long: `Runs the pre-open signal pipeline for the given date (default:
today) and prints the resulting run as JSON.

Example:
  mood generate
  mood generate --date 2026-08-28`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVar(&generateDate, "date", "", "target date (YYYY-MM-DD, default: today)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	targetDate := time.Now().Truncate(24 * time.Hour)
	if generateDate != "" {
		parsed, err := time.Parse(contracts.DateFormat, generateDate)
		if err != nil {
			return fmt.Errorf("invalid date format: %w", err)
		}
		targetDate = parsed
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	result, err := a.generator.Generate(cmd.Context(), targetDate)
	if err != nil {
		return fmt.Errorf("signal run failed: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
