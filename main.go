package main

import (
	"os"

	"github.com/FranLegon/drive-folder-cleaner/cmd"
	"github.com/FranLegon/drive-folder-cleaner/internal/logger"
)

func main() {
	if err := cmd.Execute(); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}
