package cmd

import (
	"errors"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/FranLegon/drive-folder-cleaner/internal/config"
	"github.com/FranLegon/drive-folder-cleaner/internal/logger"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the encrypted configuration",
	Long: `Performs first-time setup. Prompts for a master password and the Google OAuth
client credentials, then writes config.json.enc, config.salt and history.db.

DRIVE_CLEANER_CLIENT_ID and DRIVE_CLEANER_CLIENT_SECRET (environment or .env)
are used as the credential defaults.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	if config.Exists() {
		return errors.New("configuration already exists; use add-account to add accounts")
	}

	logger.Info("First-time setup detected. Welcome!")

	password, err := config.GetMasterPassword(true)
	if err != nil {
		return err
	}

	clientID, err := promptValue("Google Client ID", os.Getenv(config.ClientIDEnv))
	if err != nil {
		return err
	}
	clientSecret, err := promptValue("Google Client Secret", os.Getenv(config.ClientSecretEnv))
	if err != nil {
		return err
	}

	cfg := &config.Config{
		GoogleClient: config.ClientCredentials{ID: clientID, Secret: clientSecret},
	}
	if err := config.Create(password, cfg); err != nil {
		return err
	}

	db, err := openDatabase()
	if err != nil {
		return err
	}
	db.Close()

	logger.Success("Configuration created. Run 'add-account' to authorize a Google account.")
	return nil
}

// promptValue asks for a required value. A non-empty def is accepted as is.
func promptValue(label, def string) (string, error) {
	if def != "" {
		return def, nil
	}
	prompt := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("value is required")
			}
			return nil
		},
	}
	value, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}
