package cmd

import (
	"github.com/spf13/pflag"

	"github.com/FranLegon/drive-folder-cleaner/internal/cleaner"
)

var (
	safeMode bool
	account  string
	verbose  bool
)

func registerPersistentFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&safeMode, "safe", "s", false, "Dry run mode (simulate deletions, nothing is removed)")
	fs.StringVarP(&account, "account", "a", "", "Account email to use (defaults to the main account)")
	fs.BoolVarP(&verbose, "verbose", "v", false, "Show debug output")
}

// addSelectionFlags registers --name and --id on fs
func addSelectionFlags(fs *pflag.FlagSet) {
	fs.StringP("name", "n", "", "Folder name (substring match, case sensitive)")
	fs.StringP("id", "i", "", "Exact folder id")
}

// selectionFilter reads --name and --id back from fs
func selectionFilter(fs *pflag.FlagSet) cleaner.Filter {
	name, _ := fs.GetString("name")
	id, _ := fs.GetString("id")
	return cleaner.Filter{Name: name, ID: id}
}

// flagChanged reports whether the user set the flag explicitly
func flagChanged(fs *pflag.FlagSet, name string) bool {
	f := fs.Lookup(name)
	return f != nil && f.Changed
}
