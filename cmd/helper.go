package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/manifoldco/promptui"

	"github.com/FranLegon/drive-folder-cleaner/internal/cleaner"
	"github.com/FranLegon/drive-folder-cleaner/internal/config"
	"github.com/FranLegon/drive-folder-cleaner/internal/database"
	"github.com/FranLegon/drive-folder-cleaner/internal/model"
	"github.com/FranLegon/drive-folder-cleaner/internal/task"
)

// getContext returns a context cancelled on Ctrl+C
func getContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// loadConfig asks for the master password and decrypts the config
func loadConfig() (*config.Config, string, error) {
	if !config.Exists() {
		return nil, "", config.ErrNotInitialized
	}
	password, err := config.GetMasterPassword(false)
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.Load(password)
	if err != nil {
		return nil, "", err
	}
	return cfg, password, nil
}

// openDatabase opens and migrates the history database
func openDatabase() (*database.DB, error) {
	path, err := config.Path(database.DBFileName)
	if err != nil {
		return nil, err
	}
	db, err := database.Open(path)
	if err != nil {
		return nil, err
	}
	if err := db.Initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history database: %w", err)
	}
	return db, nil
}

// session bundles what the folder commands need
type session struct {
	cfg    *config.Config
	db     *database.DB
	runner *task.Runner
	user   *model.User
}

func (s *session) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

// setup loads the config, opens the history database and picks the account
func setup() (*session, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}

	db, err := openDatabase()
	if err != nil {
		return nil, err
	}

	runner := task.NewRunner(cfg, db, safeMode)
	user, err := runner.Account(account)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &session{cfg: cfg, db: db, runner: runner, user: user}, nil
}

// chooseFolder resolves the folder to work on. --id is looked up directly;
// otherwise the folders matching --name are listed, prompting when more than
// one matches.
func (s *session) chooseFolder(ctx context.Context, filter cleaner.Filter) (*model.Folder, error) {
	if filter.ID != "" {
		folder, err := s.runner.LookupFolder(ctx, s.user, filter.ID)
		if err != nil {
			return nil, err
		}
		if filter.Name != "" && !strings.Contains(folder.Name, filter.Name) {
			return nil, fmt.Errorf("%w: folder %s is named %q", cleaner.ErrInvalidSelection, folder.ID, folder.Name)
		}
		return folder, nil
	}

	listing, err := s.runner.ListFolders(ctx, s.user, filter)
	if err != nil {
		return nil, err
	}
	warnTruncated(listing)

	switch len(listing.Folders) {
	case 0:
		return nil, fmt.Errorf("%w: no folder matches", cleaner.ErrInvalidSelection)
	case 1:
		return &listing.Folders[0], nil
	}

	items := make([]string, len(listing.Folders))
	for i, f := range listing.Folders {
		items[i] = fmt.Sprintf("%s  (%s)  %s", f.Name, f.ID, strings.Join(f.Paths, ", "))
	}
	prompt := promptui.Select{
		Label: "Select the folder to clean",
		Items: items,
		Size:  15,
	}
	idx, _, err := prompt.Run()
	if err != nil {
		return nil, err
	}
	return &listing.Folders[idx], nil
}

func warnTruncated(listing *cleaner.FolderListing) {
	if listing.Truncated {
		fmt.Fprintf(os.Stderr, "%s\n", styles.warning.Render(
			fmt.Sprintf("Only the first %d folders were loaded. Please refine the search criteria.", cleaner.MaxFolders)))
	}
	if len(listing.Cyclic) > 0 {
		fmt.Fprintf(os.Stderr, "%s\n", styles.warning.Render(
			fmt.Sprintf("%d folders are their own ancestor, their paths skip the cycle.", len(listing.Cyclic))))
	}
}

// confirm asks a yes/no question. A declined or aborted prompt returns false.
func confirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	_, err := prompt.Run()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, promptui.ErrAbort) {
		return false, nil
	}
	return false, err
}

// isNothingToDo reports the non-fatal empty selection outcomes
func isNothingToDo(err error) bool {
	return errors.Is(err, cleaner.ErrInvalidSelection) || errors.Is(err, cleaner.ErrNothingToDelete)
}
