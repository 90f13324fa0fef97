package cmd

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/FranLegon/drive-folder-cleaner/internal/config"
	"github.com/FranLegon/drive-folder-cleaner/internal/logger"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "drive-folder-cleaner",
	Short: "Empty a Google Drive folder tree, one file at a time.",
	Long: `drive-folder-cleaner searches your Google Drive folders, previews a delete plan
for a whole folder subtree and permanently removes every file in it.

Folders themselves are kept. Configuration is stored encrypted (config.json.enc)
next to the executable, or in $DRIVE_CLEANER_HOME, protected by a master password.
Every clean-up is recorded in history.db.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.SetLevel(logger.LogLevelDebug)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	loadEnv()
	return rootCmd.Execute()
}

// loadEnv reads .env from the app directory and the working directory.
// Variables already set in the environment win.
func loadEnv() {
	if dir, err := config.Dir(); err == nil {
		_ = godotenv.Load(filepath.Join(dir, ".env"))
	}
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			logger.Warning("Failed to read .env: %v", err)
		}
	}
}

func init() {
	registerPersistentFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(addAccountCmd)
	rootCmd.AddCommand(checkTokensCmd)
	rootCmd.AddCommand(foldersCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}
