package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tcnksm/go-latest"

	"github.com/FranLegon/drive-folder-cleaner/internal/logger"
)

// Version is set at build time with -ldflags "-X .../cmd.Version=vX.Y.Z"
var Version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("drive-folder-cleaner %s\n", Version)
		if check, _ := cmd.Flags().GetBool("check"); check {
			checkUpdate(Version)
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolP("check", "c", false, "Check GitHub for a newer release")
}

func checkUpdate(currentVer string) {
	githubTag := &latest.GithubTag{
		Owner:      "FranLegon",
		Repository: "drive-folder-cleaner",
	}

	res, err := latest.Check(githubTag, currentVer)
	if err != nil {
		logger.Warning("Could not check for updates: %v", err)
		return
	}

	if res.Outdated {
		fmt.Printf("A new version is available: %s (you have %s)\n", res.Current, currentVer)
		return
	}
	fmt.Printf("You are using the latest version: %s\n", currentVer)
}
