package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FranLegon/drive-folder-cleaner/internal/logger"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Permanently remove every file under a folder",
	Long: `Builds the delete plan like 'plan', asks for confirmation and removes the marked
items one at a time. Items are deleted permanently, not moved to the trash.
A failed item is reported and the run continues. With --safe nothing is removed.`,
	Args: cobra.NoArgs,
	RunE: runClean,
}

func init() {
	addSelectionFlags(cleanCmd.Flags())
	cleanCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}

func runClean(cmd *cobra.Command, args []string) error {
	ctx, cancel := getContext()
	defer cancel()

	s, err := setup()
	if err != nil {
		return err
	}
	defer s.Close()

	folder, plan, err := s.preparePlan(ctx, selectionFilter(cmd.Flags()))
	if isNothingToDo(err) {
		logger.Info("%v", err)
		return nil
	}
	if err != nil {
		return err
	}

	if !safeMode && !flagChanged(cmd.Flags(), "yes") {
		ok, err := confirm(fmt.Sprintf("The files will be removed permanently. Remove %d files", plan.DeleteCount()))
		if err != nil {
			return err
		}
		if !ok {
			logger.Info("Operation cancelled.")
			return nil
		}
	}

	report, err := s.runner.Clean(ctx, s.user, folder.Name, folder.ID, plan, progressLogger(s.user.Email))
	if report != nil && len(report.Log) > 0 {
		fmt.Println(logTable(report.Log))
		fmt.Println(logSummary(report.Log))
		if report.RunID != 0 {
			logger.Info("Recorded as run %d", report.RunID)
		}
	}
	return err
}
