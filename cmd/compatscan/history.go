package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/compatscan/internal/config"
	"github.com/nao1215/compatscan/internal/database"
	"github.com/nao1215/compatscan/internal/report"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved compatibility runs",
		Long: `History lists runs saved with 'scan --save', newest first.

Examples:
  # List all saved runs
  compatscan history

  # List runs for one target
  compatscan history --target https://example.com

  # Print a saved report as JSON
  compatscan history --run <run-id> --json`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().String("target", "", "Filter runs by target URL")
	cmd.Flags().String("run", "", "Print the full report for one run ID")
	cmd.Flags().BoolP("json", "j", false, "Print the selected report as JSON")
	cmd.Flags().String("db-dir", "", "Run-history database directory (default: XDG data directory)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	db, err := database.Open(dbDir)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // Best effort on close

	runID, err := cmd.Flags().GetString("run")
	if err != nil {
		return err
	}

	if runID != "" {
		return printStoredReport(cmd, db, runID)
	}

	target, err := cmd.Flags().GetString("target")
	if err != nil {
		return err
	}

	entries, err := db.ListHistory(cmd.Context(), target)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no saved runs")
		return nil
	}

	for _, e := range entries {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %3d/100  %s  %s\n",
			e.Timestamp.Format("2006-01-02 15:04"), e.Score, e.RunID, e.TargetURL)
	}
	return nil
}

// printStoredReport prints one saved report in simple or JSON form.
func printStoredReport(cmd *cobra.Command, db *database.HistoryDB, runID string) error {
	stored, err := db.GetReport(cmd.Context(), runID)
	if err != nil {
		return err
	}

	jsonOut, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	var w report.Writer
	if jsonOut {
		w = report.NewJSONWriter(cmd.OutOrStdout(), report.WithPrettyPrint())
	} else {
		w = report.NewSimpleWriter(cmd.OutOrStdout())
	}

	_, err = w.Write(stored)
	return err
}
