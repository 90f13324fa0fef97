package cleaner

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/FranLegon/drive-folder-cleaner/internal/model"
)

func names(folders []model.Folder) []string {
	out := make([]string, len(folders))
	for i, f := range folders {
		out[i] = f.Name
	}
	return out
}

func TestListFoldersResolvesAndSorts(t *testing.T) {
	drive := newFakeDrive("root")
	drive.folders = paginate([]model.RemoteItem{
		folderItem("b", "banana", "root"),
		folderItem("c", "Cherry", "a"),
		folderItem("a", "Apple", "root"),
		folderItem("o", "orphan", "missing"),
	}, 2)

	listing, err := NewIndexer(drive).ListFolders(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("ListFolders failed: %v", err)
	}
	if listing.Truncated {
		t.Error("Listing should not be truncated")
	}
	if drive.folderCall != 2 {
		t.Errorf("Expected 2 page calls, got %d", drive.folderCall)
	}

	want := []string{"Apple", "Cherry", "banana", "orphan"}
	if got := names(listing.Folders); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected order %v, got %v", want, got)
	}

	paths := map[string][]string{}
	for _, f := range listing.Folders {
		paths[f.ID] = f.Paths
	}
	if !reflect.DeepEqual(paths["c"], []string{"Apple/Cherry"}) {
		t.Errorf("Unexpected paths for Cherry: %v", paths["c"])
	}
	if !reflect.DeepEqual(paths["o"], []string{"orphan"}) {
		t.Errorf("Unexpected paths for orphan: %v", paths["o"])
	}
}

func TestListFoldersStableForEqualNames(t *testing.T) {
	drive := newFakeDrive("root")
	drive.folders = paginate([]model.RemoteItem{
		folderItem("2", "Same", "root"),
		folderItem("1", "Same", "root"),
		folderItem("3", "Apple", "root"),
	}, 10)

	listing, err := NewIndexer(drive).ListFolders(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("ListFolders failed: %v", err)
	}
	var ids []string
	for _, f := range listing.Folders {
		ids = append(ids, f.ID)
	}
	if !reflect.DeepEqual(ids, []string{"3", "2", "1"}) {
		t.Errorf("Expected equal names to keep listing order, got %v", ids)
	}
}

func TestListFoldersNameFilterIsCaseSensitive(t *testing.T) {
	drive := newFakeDrive("root")
	drive.folders = paginate([]model.RemoteItem{
		folderItem("1", "xabcx", "root"),
		folderItem("2", "ABC", "root"),
		folderItem("3", "abc", "root"),
		folderItem("4", "other", "root"),
	}, 10)

	listing, err := NewIndexer(drive).ListFolders(context.Background(), Filter{Name: "abc"})
	if err != nil {
		t.Fatalf("ListFolders failed: %v", err)
	}
	want := []string{"abc", "xabcx"}
	if got := names(listing.Folders); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestListFoldersIDFilter(t *testing.T) {
	drive := newFakeDrive("root")
	drive.folders = paginate([]model.RemoteItem{
		folderItem("p", "Parent", "root"),
		folderItem("id-1", "Child", "p"),
		folderItem("id-10", "Child", "p"),
	}, 10)

	listing, err := NewIndexer(drive).ListFolders(context.Background(), Filter{Name: "Chi", ID: "id-1"})
	if err != nil {
		t.Fatalf("ListFolders failed: %v", err)
	}
	if len(listing.Folders) != 1 || listing.Folders[0].ID != "id-1" {
		t.Fatalf("Expected only id-1, got %+v", listing.Folders)
	}
	if !reflect.DeepEqual(listing.Folders[0].Paths, []string{"Parent/Child"}) {
		t.Errorf("Unexpected paths: %v", listing.Folders[0].Paths)
	}
}

func manyFolders(n int) []model.RemoteItem {
	items := make([]model.RemoteItem, n)
	for i := range items {
		items[i] = folderItem(fmt.Sprintf("id-%04d", i), fmt.Sprintf("folder-%04d", i), "root")
	}
	return items
}

func TestListFoldersTruncatesAtCap(t *testing.T) {
	tests := []struct {
		name     string
		pageSize int
	}{
		{"small pages", 50},
		{"one large page", 1000},
		{"uneven pages", 77},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drive := newFakeDrive("root")
			drive.folders = paginate(manyFolders(MaxFolders+1), tt.pageSize)

			listing, err := NewIndexer(drive).ListFolders(context.Background(), Filter{})
			if err != nil {
				t.Fatalf("ListFolders failed: %v", err)
			}
			if !listing.Truncated {
				t.Error("Expected truncated listing")
			}
			if len(listing.Folders) > MaxFolders {
				t.Errorf("Expected at most %d folders, got %d", MaxFolders, len(listing.Folders))
			}
		})
	}
}

func TestListFoldersExactlyAtCap(t *testing.T) {
	drive := newFakeDrive("root")
	drive.folders = paginate(manyFolders(MaxFolders), 50)

	listing, err := NewIndexer(drive).ListFolders(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("ListFolders failed: %v", err)
	}
	if listing.Truncated {
		t.Error("A complete listing of exactly the cap is not truncated")
	}
	if len(listing.Folders) != MaxFolders {
		t.Errorf("Expected %d folders, got %d", MaxFolders, len(listing.Folders))
	}
}

func TestListFoldersStopsPagingAtCap(t *testing.T) {
	drive := newFakeDrive("root")
	drive.folders = paginate(manyFolders(20), 5)

	ix := NewIndexer(drive)
	ix.maxFolders = 10

	listing, err := ix.ListFolders(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("ListFolders failed: %v", err)
	}
	if !listing.Truncated || len(listing.Folders) != 10 {
		t.Errorf("Expected 10 folders truncated, got %d (truncated=%v)", len(listing.Folders), listing.Truncated)
	}
	if drive.folderCall != 2 {
		t.Errorf("Expected paging to stop after 2 pages, got %d", drive.folderCall)
	}
}

func TestListFoldersListingError(t *testing.T) {
	drive := newFakeDrive("root")
	drive.folderErr = errTransport

	listing, err := NewIndexer(drive).ListFolders(context.Background(), Filter{})
	if !errors.Is(err, errTransport) {
		t.Fatalf("Expected transport error, got %v", err)
	}
	if listing != nil {
		t.Error("No partial listing should be returned on error")
	}
}

func TestListFoldersRootError(t *testing.T) {
	drive := newFakeDrive("root")
	drive.folders = paginate([]model.RemoteItem{folderItem("a", "A", "root")}, 10)
	drive.rootErr = errTransport

	listing, err := NewIndexer(drive).ListFolders(context.Background(), Filter{})
	if !errors.Is(err, errTransport) {
		t.Fatalf("Expected transport error, got %v", err)
	}
	if listing != nil {
		t.Error("No partial listing should be returned on error")
	}
}

func TestListFoldersReportsCycles(t *testing.T) {
	drive := newFakeDrive("root")
	drive.folders = paginate([]model.RemoteItem{
		folderItem("a", "A", "b"),
		folderItem("b", "B", "a"),
		folderItem("c", "C", "root"),
	}, 10)

	listing, err := NewIndexer(drive).ListFolders(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("Cycles should not fail the listing: %v", err)
	}
	if !reflect.DeepEqual(listing.Cyclic, []string{"a", "b"}) {
		t.Errorf("Expected cyclic ids [a b], got %v", listing.Cyclic)
	}
	for _, f := range listing.Folders {
		if len(f.Paths) != 1 || f.Paths[0] != f.Name {
			t.Errorf("Folder %s: expected fallback path, got %v", f.ID, f.Paths)
		}
	}
}

func TestListFoldersCycleDescendantsKeepPaths(t *testing.T) {
	drive := newFakeDrive("root")
	drive.folders = paginate([]model.RemoteItem{
		folderItem("p", "Docs", "root"),
		folderItem("a", "A", "b"),
		folderItem("b", "B", "a"),
		folderItem("c", "C", "p", "a"),
		folderItem("d", "D", "a"),
	}, 2)

	listing, err := NewIndexer(drive).ListFolders(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("ListFolders failed: %v", err)
	}
	if !reflect.DeepEqual(listing.Cyclic, []string{"a", "b"}) {
		t.Errorf("Only folders on the loop are cyclic, got %v", listing.Cyclic)
	}

	want := map[string][]string{
		"p": {"Docs"},
		"a": {"A"},
		"b": {"B"},
		"c": {"Docs/C"},
		"d": {"D"},
	}
	for _, f := range listing.Folders {
		if !reflect.DeepEqual(f.Paths, want[f.ID]) {
			t.Errorf("Folder %s: expected %v, got %v", f.ID, want[f.ID], f.Paths)
		}
	}
}

func TestListFoldersCancelled(t *testing.T) {
	drive := newFakeDrive("root")
	drive.folders = paginate(manyFolders(3), 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewIndexer(drive).ListFolders(ctx, Filter{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if drive.folderCall != 0 {
		t.Errorf("No page should be fetched after cancellation, got %d", drive.folderCall)
	}
}
