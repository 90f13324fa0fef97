package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/FranLegon/drive-folder-cleaner/internal/logger"
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Show recorded clean-up runs",
	Long:  `Lists recorded runs, newest first, or the result log of one run.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntP("limit", "l", 20, "Number of runs to show (0 for all)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx, cancel := getContext()
	defer cancel()

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if len(args) == 1 {
		runID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid run id %q", args[0])
		}
		log, err := db.RunEntries(ctx, runID)
		if err != nil {
			return err
		}
		if len(log) == 0 {
			logger.Info("Run %d has no entries.", runID)
			return nil
		}
		fmt.Println(logTable(log))
		fmt.Println(logSummary(log))
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		logger.Info("No runs recorded yet.")
		return nil
	}
	fmt.Println(runsTable(runs))
	return nil
}
