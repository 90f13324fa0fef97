package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FranLegon/drive-folder-cleaner/internal/auth"
	"github.com/FranLegon/drive-folder-cleaner/internal/config"
	"github.com/FranLegon/drive-folder-cleaner/internal/google"
	"github.com/FranLegon/drive-folder-cleaner/internal/logger"
	"github.com/FranLegon/drive-folder-cleaner/internal/model"
)

var addAccountCmd = &cobra.Command{
	Use:   "add-account",
	Short: "Authorize a Google account",
	Long: `Opens the Google consent page in a browser and stores the resulting refresh token
in the encrypted configuration. The first account added becomes the main account.`,
	RunE: runAddAccount,
}

func runAddAccount(cmd *cobra.Command, args []string) error {
	ctx, cancel := getContext()
	defer cancel()

	cfg, password, err := loadConfig()
	if err != nil {
		return err
	}

	oauthCfg := auth.GoogleOAuthConfig(cfg.GoogleClient.ID, cfg.GoogleClient.Secret, cfg.RedirectPort)
	refreshToken, err := auth.PerformOAuthFlow(ctx, oauthCfg)
	if err != nil {
		return fmt.Errorf("authorization failed: %w", err)
	}

	user := model.User{RefreshToken: refreshToken}
	client, err := google.NewClient(ctx, &user, oauthCfg, cfg.EffectivePageSize())
	if err != nil {
		return err
	}
	user.Email, err = client.AccountEmail(ctx)
	if err != nil {
		return err
	}

	if existing := cfg.FindUser(user.Email); existing != nil {
		existing.RefreshToken = refreshToken
		logger.InfoTagged([]string{"Drive", user.Email}, "Refreshed stored token")
	} else if err := cfg.AddUser(user); err != nil {
		return err
	}

	if err := config.Save(password, cfg); err != nil {
		return err
	}

	logger.Success("Account %s added", user.Email)
	return nil
}
