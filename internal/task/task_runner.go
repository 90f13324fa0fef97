package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/FranLegon/drive-folder-cleaner/internal/api"
	"github.com/FranLegon/drive-folder-cleaner/internal/auth"
	"github.com/FranLegon/drive-folder-cleaner/internal/cleaner"
	"github.com/FranLegon/drive-folder-cleaner/internal/config"
	"github.com/FranLegon/drive-folder-cleaner/internal/database"
	"github.com/FranLegon/drive-folder-cleaner/internal/google"
	"github.com/FranLegon/drive-folder-cleaner/internal/logger"
	"github.com/FranLegon/drive-folder-cleaner/internal/model"
)

// ClientFactory builds the Drive client for one account
type ClientFactory func(ctx context.Context, user *model.User) (api.DriveService, error)

// Runner handles task orchestration
type Runner struct {
	config    *config.Config
	db        *database.DB
	safeMode  bool
	clients   map[string]api.DriveService
	newClient ClientFactory
	now       func() time.Time
}

// Report summarizes one clean-up run
type Report struct {
	RunID     int64
	Log       []model.LogEntry
	Deleted   int
	Failed    int
	Simulated bool
}

// NewRunner creates a new task runner. db may be nil, in which case runs are not recorded.
func NewRunner(cfg *config.Config, db *database.DB, safeMode bool) *Runner {
	r := &Runner{
		config:   cfg,
		db:       db,
		safeMode: safeMode,
		clients:  make(map[string]api.DriveService),
		now:      time.Now,
	}
	r.newClient = r.googleClient
	return r
}

// SetClientFactory replaces the way Drive clients are built
func (r *Runner) SetClientFactory(f ClientFactory) {
	r.newClient = f
	r.clients = make(map[string]api.DriveService)
}

func (r *Runner) googleClient(ctx context.Context, user *model.User) (api.DriveService, error) {
	oauthCfg := auth.GoogleOAuthConfig(r.config.GoogleClient.ID, r.config.GoogleClient.Secret, r.config.RedirectPort)
	return google.NewClient(ctx, user, oauthCfg, r.config.EffectivePageSize())
}

// Account returns the configured account for email, or the main account when email is empty
func (r *Runner) Account(email string) (*model.User, error) {
	var user *model.User
	if email == "" {
		user = r.config.MainUser()
	} else {
		user = r.config.FindUser(email)
	}
	if user == nil {
		if email == "" {
			return nil, api.ErrNoAccount
		}
		return nil, fmt.Errorf("%w: %s", api.ErrNoAccount, email)
	}
	return user, nil
}

// GetOrCreateClient gets or creates a client for a user
func (r *Runner) GetOrCreateClient(ctx context.Context, user *model.User) (api.DriveService, error) {
	if client, exists := r.clients[user.Email]; exists {
		return client, nil
	}

	client, err := r.newClient(ctx, user)
	if err != nil {
		return nil, err
	}

	r.clients[user.Email] = client
	return client, nil
}

// ListFolders indexes the account's folders and returns those matching filter
func (r *Runner) ListFolders(ctx context.Context, user *model.User, filter cleaner.Filter) (*cleaner.FolderListing, error) {
	client, err := r.GetOrCreateClient(ctx, user)
	if err != nil {
		return nil, err
	}
	logger.InfoTagged([]string{"Drive", user.Email}, "Indexing folders...")
	return cleaner.NewIndexer(client).ListFolders(ctx, filter)
}

// LookupFolder fetches a folder by id without loading the folder index
func (r *Runner) LookupFolder(ctx context.Context, user *model.User, id string) (*model.Folder, error) {
	client, err := r.GetOrCreateClient(ctx, user)
	if err != nil {
		return nil, err
	}
	item, err := client.GetItem(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get folder %s: %w", id, err)
	}
	if !item.IsFolder() {
		return nil, fmt.Errorf("%w: %s is not a folder", cleaner.ErrInvalidSelection, id)
	}
	return &model.Folder{
		FolderNode: model.FolderNode{ID: item.ID, Name: item.Name, ParentIDs: item.ParentIDs},
	}, nil
}

// BuildPlan walks the folder subtree and returns its delete plan
func (r *Runner) BuildPlan(ctx context.Context, user *model.User, name, id string, progress cleaner.ProgressFunc) (model.Plan, error) {
	client, err := r.GetOrCreateClient(ctx, user)
	if err != nil {
		return nil, err
	}
	return cleaner.NewPlanner(client).BuildPlan(ctx, name, id, progress)
}

// Clean executes plan, simulating it in safe mode, and records the run.
// A cancelled run is still recorded with the entries processed so far.
func (r *Runner) Clean(ctx context.Context, user *model.User, name, id string, plan model.Plan, progress cleaner.ProgressFunc) (*Report, error) {
	if err := cleaner.CheckPlan(plan); err != nil {
		return nil, err
	}

	var deleter api.Deleter
	if !r.safeMode {
		client, err := r.GetOrCreateClient(ctx, user)
		if err != nil {
			return nil, err
		}
		deleter = client
	}

	started := r.now()
	log, execErr := cleaner.NewExecutor(deleter).Execute(ctx, plan, r.safeMode, progress)

	report := &Report{Log: log, Simulated: r.safeMode}
	for _, e := range log {
		if e.Failed() {
			report.Failed++
		} else {
			report.Deleted++
		}
	}

	if r.db != nil && len(log) > 0 {
		run := &database.Run{
			Account:    user.Email,
			FolderID:   id,
			FolderName: name,
			Simulated:  r.safeMode,
			StartedAt:  started,
			FinishedAt: r.now(),
		}
		// The run is recorded even when ctx was cancelled mid-way
		runID, err := r.db.RecordRun(context.WithoutCancel(ctx), run, log)
		if err != nil {
			logger.ErrorTagged([]string{"History"}, "Failed to record run: %v", err)
		} else {
			report.RunID = runID
		}
	}

	if execErr != nil {
		return report, execErr
	}
	return report, nil
}

// CheckTokens verifies that every configured account can still reach Drive
func (r *Runner) CheckTokens(ctx context.Context) error {
	logger.Info("Checking all authentication tokens...")

	if len(r.config.Users) == 0 {
		return api.ErrNoAccount
	}

	hasErrors := false
	for i := range r.config.Users {
		user := &r.config.Users[i]
		tags := []string{"Drive", user.Email}

		client, err := r.GetOrCreateClient(ctx, user)
		if err != nil {
			logger.ErrorTagged(tags, "Failed to create client: %v", err)
			hasErrors = true
			continue
		}

		email, err := client.AccountEmail(ctx)
		switch {
		case err != nil:
			logger.ErrorTagged(tags, "Token validation failed: %v", err)
			hasErrors = true
		case email != user.Email:
			logger.WarningTagged(tags, "Token belongs to %s", email)
		default:
			logger.InfoTagged(tags, "Token is valid")
		}
	}

	if hasErrors {
		return errors.New("some tokens are invalid - re-authentication required")
	}

	logger.Success("All tokens are valid")
	return nil
}
