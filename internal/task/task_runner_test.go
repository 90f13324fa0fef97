package task

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/FranLegon/drive-folder-cleaner/internal/api"
	"github.com/FranLegon/drive-folder-cleaner/internal/cleaner"
	"github.com/FranLegon/drive-folder-cleaner/internal/config"
	"github.com/FranLegon/drive-folder-cleaner/internal/database"
	"github.com/FranLegon/drive-folder-cleaner/internal/model"
)

// stubDrive is a single-page in-memory Drive
type stubDrive struct {
	email     string
	folders   []model.RemoteItem
	children  map[string][]model.RemoteItem
	deleteErr map[string]error
	deleted   []string
}

func (s *stubDrive) ListAllFolders(ctx context.Context, pageToken string) (*api.Page, error) {
	return &api.Page{Items: s.folders}, nil
}

func (s *stubDrive) ListFolderChildren(ctx context.Context, parentID, pageToken string) (*api.Page, error) {
	return &api.Page{Items: s.children[parentID]}, nil
}

func (s *stubDrive) GetRootID(ctx context.Context) (string, error) { return "root", nil }

func (s *stubDrive) DeleteByID(ctx context.Context, id string) error {
	if err := s.deleteErr[id]; err != nil {
		return err
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubDrive) GetItem(ctx context.Context, id string) (*model.RemoteItem, error) {
	for _, f := range s.folders {
		if f.ID == id {
			return &f, nil
		}
	}
	for _, items := range s.children {
		for _, c := range items {
			if c.ID == id {
				return &c, nil
			}
		}
	}
	return nil, errors.New("file not found")
}

func (s *stubDrive) AccountEmail(ctx context.Context) (string, error) { return s.email, nil }

func newStubDrive() *stubDrive {
	return &stubDrive{
		email: "main@example.com",
		folders: []model.RemoteItem{
			{ID: "docs", Name: "Docs", MimeType: model.FolderMimeType, ParentIDs: []string{"root"}},
			{ID: "sub", Name: "Sub", MimeType: model.FolderMimeType, ParentIDs: []string{"docs"}},
		},
		children: map[string][]model.RemoteItem{
			"docs": {
				{ID: "a", Name: "a.txt", MimeType: "text/plain"},
				{ID: "sub", Name: "Sub", MimeType: model.FolderMimeType},
			},
			"sub": {
				{ID: "b", Name: "b.txt", MimeType: "text/plain"},
			},
		},
		deleteErr: make(map[string]error),
	}
}

func newTestRunner(t *testing.T, drive *stubDrive, safeMode bool) (*Runner, *database.DB) {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), database.DBFileName))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Initialize(); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}

	cfg := &config.Config{}
	_ = cfg.AddUser(model.User{Email: "main@example.com", RefreshToken: "rt"})
	_ = cfg.AddUser(model.User{Email: "other@example.com", RefreshToken: "rt2"})

	r := NewRunner(cfg, db, safeMode)
	r.SetClientFactory(func(ctx context.Context, user *model.User) (api.DriveService, error) {
		return drive, nil
	})
	return r, db
}

func TestAccount(t *testing.T) {
	r, _ := newTestRunner(t, newStubDrive(), false)

	u, err := r.Account("")
	if err != nil || u.Email != "main@example.com" {
		t.Errorf("Account(\"\") = %+v, %v", u, err)
	}
	u, err = r.Account("other@example.com")
	if err != nil || u.Email != "other@example.com" {
		t.Errorf("Account(other) = %+v, %v", u, err)
	}
	if _, err := r.Account("nobody@example.com"); !errors.Is(err, api.ErrNoAccount) {
		t.Errorf("Expected ErrNoAccount, got %v", err)
	}
}

func TestGetOrCreateClientCaches(t *testing.T) {
	r, _ := newTestRunner(t, newStubDrive(), false)
	calls := 0
	r.SetClientFactory(func(ctx context.Context, user *model.User) (api.DriveService, error) {
		calls++
		return newStubDrive(), nil
	})

	user, _ := r.Account("")
	for i := 0; i < 3; i++ {
		if _, err := r.GetOrCreateClient(context.Background(), user); err != nil {
			t.Fatalf("GetOrCreateClient failed: %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("Expected one client per account, factory called %d times", calls)
	}
}

func TestListFoldersAndBuildPlan(t *testing.T) {
	r, _ := newTestRunner(t, newStubDrive(), false)
	ctx := context.Background()
	user, _ := r.Account("")

	listing, err := r.ListFolders(ctx, user, cleaner.Filter{Name: "Sub"})
	if err != nil {
		t.Fatalf("ListFolders failed: %v", err)
	}
	if len(listing.Folders) != 1 || listing.Folders[0].Paths[0] != "Docs/Sub" {
		t.Fatalf("Unexpected listing: %+v", listing.Folders)
	}

	plan, err := r.BuildPlan(ctx, user, "Docs", "docs", nil)
	if err != nil {
		t.Fatalf("BuildPlan failed: %v", err)
	}
	if plan.DeleteCount() != 2 || plan.FolderCount() != 2 {
		t.Errorf("Unexpected plan: %+v", plan)
	}
}

func TestLookupFolderSkipsIndex(t *testing.T) {
	drive := newStubDrive()
	// Only the direct lookup knows about this folder
	drive.children["docs"] = append(drive.children["docs"],
		model.RemoteItem{ID: "deep", Name: "Deep", MimeType: model.FolderMimeType, ParentIDs: []string{"docs"}})
	r, _ := newTestRunner(t, drive, false)
	ctx := context.Background()
	user, _ := r.Account("")

	folder, err := r.LookupFolder(ctx, user, "deep")
	if err != nil {
		t.Fatalf("LookupFolder failed: %v", err)
	}
	if folder.ID != "deep" || folder.Name != "Deep" {
		t.Errorf("Unexpected folder %+v", folder)
	}

	if _, err := r.LookupFolder(ctx, user, "a"); !errors.Is(err, cleaner.ErrInvalidSelection) {
		t.Errorf("Expected ErrInvalidSelection for a file, got %v", err)
	}
	if _, err := r.LookupFolder(ctx, user, "nope"); err == nil {
		t.Error("Expected an error for an unknown id")
	}
}

func TestCleanRecordsRun(t *testing.T) {
	drive := newStubDrive()
	drive.deleteErr["b"] = errors.New("403: forbidden")
	r, db := newTestRunner(t, drive, false)
	ctx := context.Background()
	user, _ := r.Account("")

	plan, err := r.BuildPlan(ctx, user, "Docs", "docs", nil)
	if err != nil {
		t.Fatalf("BuildPlan failed: %v", err)
	}

	report, err := r.Clean(ctx, user, "Docs", "docs", plan, nil)
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if report.Deleted != 1 || report.Failed != 1 || report.Simulated {
		t.Errorf("Unexpected report: %+v", report)
	}
	if report.RunID == 0 {
		t.Fatal("Expected the run to be recorded")
	}

	runs, err := db.ListRuns(ctx, 0)
	if err != nil || len(runs) != 1 {
		t.Fatalf("ListRuns = %v, %v", runs, err)
	}
	if runs[0].FolderName != "Docs" || runs[0].DeletedCount != 1 || runs[0].FailedCount != 1 {
		t.Errorf("Unexpected run: %+v", runs[0])
	}

	entries, err := db.RunEntries(ctx, report.RunID)
	if err != nil || len(entries) != 2 {
		t.Fatalf("RunEntries = %v, %v", entries, err)
	}
	if entries[1].Reason != "403: forbidden" {
		t.Errorf("Unexpected reason %q", entries[1].Reason)
	}
}

func TestCleanSafeMode(t *testing.T) {
	drive := newStubDrive()
	r, db := newTestRunner(t, drive, true)
	ctx := context.Background()
	user, _ := r.Account("")

	plan, err := r.BuildPlan(ctx, user, "Docs", "docs", nil)
	if err != nil {
		t.Fatalf("BuildPlan failed: %v", err)
	}
	report, err := r.Clean(ctx, user, "Docs", "docs", plan, nil)
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if !report.Simulated || report.Deleted != 2 {
		t.Errorf("Unexpected report: %+v", report)
	}
	if len(drive.deleted) != 0 {
		t.Errorf("Safe mode deleted %v", drive.deleted)
	}

	runs, _ := db.ListRuns(ctx, 0)
	if len(runs) != 1 || !runs[0].Simulated {
		t.Errorf("Expected one simulated run, got %+v", runs)
	}
}

func TestCleanNothingToDo(t *testing.T) {
	r, db := newTestRunner(t, newStubDrive(), false)
	user, _ := r.Account("")

	plan := model.Plan{{Decision: model.DecisionInformational, Name: "Empty", ID: "e"}}
	if _, err := r.Clean(context.Background(), user, "Empty", "e", plan, nil); !errors.Is(err, cleaner.ErrNothingToDelete) {
		t.Errorf("Expected ErrNothingToDelete, got %v", err)
	}
	runs, _ := db.ListRuns(context.Background(), 0)
	if len(runs) != 0 {
		t.Errorf("Nothing should be recorded, got %d runs", len(runs))
	}
}

func TestCheckTokens(t *testing.T) {
	r, _ := newTestRunner(t, newStubDrive(), false)
	if err := r.CheckTokens(context.Background()); err != nil {
		t.Errorf("CheckTokens failed: %v", err)
	}

	r.SetClientFactory(func(ctx context.Context, user *model.User) (api.DriveService, error) {
		return nil, errors.New("invalid_grant")
	})
	if err := r.CheckTokens(context.Background()); err == nil {
		t.Error("Expected CheckTokens to report invalid tokens")
	}
}
