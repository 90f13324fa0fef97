package cmd

import (
	"github.com/FranLegon/drive-folder-cleaner/internal/cleaner"
	"github.com/FranLegon/drive-folder-cleaner/internal/logger"
)

// progressLogger prints core progress messages tagged with the account
func progressLogger(email string) cleaner.ProgressFunc {
	tags := []string{"Drive", email}
	return func(msg string) {
		logger.InfoTagged(tags, "%s", msg)
	}
}
