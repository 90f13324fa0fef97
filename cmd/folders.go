package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FranLegon/drive-folder-cleaner/internal/logger"
)

var foldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "Search folders and show every path they appear under",
	Long: `Loads up to 500 folders of the account, resolves every path each folder can be
reached by (a Drive folder may have several parents) and prints them sorted by name.
--name matches a case-sensitive substring of the folder name, --id an exact folder id.`,
	Args: cobra.NoArgs,
	RunE: runFolders,
}

func init() {
	addSelectionFlags(foldersCmd.Flags())
}

func runFolders(cmd *cobra.Command, args []string) error {
	ctx, cancel := getContext()
	defer cancel()

	s, err := setup()
	if err != nil {
		return err
	}
	defer s.Close()

	listing, err := s.runner.ListFolders(ctx, s.user, selectionFilter(cmd.Flags()))
	if err != nil {
		return err
	}
	warnTruncated(listing)

	if len(listing.Folders) == 0 {
		logger.Info("No folders match.")
		return nil
	}
	fmt.Println(folderTable(listing.Folders))
	logger.Info("%d folders", len(listing.Folders))
	return nil
}
