package cmd

import (
	"github.com/spf13/cobra"

	"github.com/FranLegon/drive-folder-cleaner/internal/task"
)

var checkTokensCmd = &cobra.Command{
	Use:   "check-tokens",
	Short: "Validate all authentication tokens",
	Long:  `Tests each refresh token to ensure it can still authenticate successfully.`,
	RunE:  runCheckTokens,
}

func runCheckTokens(cmd *cobra.Command, args []string) error {
	ctx, cancel := getContext()
	defer cancel()

	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	return task.NewRunner(cfg, nil, safeMode).CheckTokens(ctx)
}
