package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FranLegon/drive-folder-cleaner/internal/cleaner"
	"github.com/FranLegon/drive-folder-cleaner/internal/logger"
	"github.com/FranLegon/drive-folder-cleaner/internal/model"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Preview what a clean-up would remove",
	Long: `Walks the selected folder and all its subfolders and prints the delete plan.
Folders are listed for information only; every other item is marked for removal.
With --id the folder is fetched directly. Without it the folder is chosen from
the folders matching --name.`,
	Args: cobra.NoArgs,
	RunE: runPlan,
}

func init() {
	addSelectionFlags(planCmd.Flags())
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx, cancel := getContext()
	defer cancel()

	s, err := setup()
	if err != nil {
		return err
	}
	defer s.Close()

	_, _, err = s.preparePlan(ctx, selectionFilter(cmd.Flags()))
	if isNothingToDo(err) {
		logger.Info("%v", err)
		return nil
	}
	return err
}

// preparePlan selects the folder, builds its plan and prints it.
// The plan is returned together with the error from CheckPlan.
func (s *session) preparePlan(ctx context.Context, filter cleaner.Filter) (*model.Folder, model.Plan, error) {
	folder, err := s.chooseFolder(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	plan, err := s.runner.BuildPlan(ctx, s.user, folder.Name, folder.ID, progressLogger(s.user.Email))
	if err != nil {
		return folder, nil, err
	}

	fmt.Println(planTable(plan))
	fmt.Println(planSummary(plan))
	return folder, plan, cleaner.CheckPlan(plan)
}
