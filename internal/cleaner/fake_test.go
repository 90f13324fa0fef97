package cleaner

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/FranLegon/drive-folder-cleaner/internal/api"
	"github.com/FranLegon/drive-folder-cleaner/internal/model"
)

// fakeDrive serves folder listings and deletions from memory
type fakeDrive struct {
	rootID  string
	rootErr error

	folders    []api.Page
	folderErr  error
	folderCall int

	children map[string][]api.Page
	childErr map[string]error

	deleteErr map[string]error
	deleted   []string
}

func newFakeDrive(rootID string) *fakeDrive {
	return &fakeDrive{
		rootID:    rootID,
		children:  make(map[string][]api.Page),
		childErr:  make(map[string]error),
		deleteErr: make(map[string]error),
	}
}

// paginate splits items into pages of size, chaining them with numeric tokens
func paginate(items []model.RemoteItem, size int) []api.Page {
	if len(items) == 0 {
		return []api.Page{{}}
	}
	var pages []api.Page
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		pages = append(pages, api.Page{Items: items[start:end]})
	}
	for i := 0; i < len(pages)-1; i++ {
		pages[i].NextPageToken = strconv.Itoa(i + 1)
	}
	return pages
}

func pageAt(pages []api.Page, token string) (*api.Page, error) {
	idx := 0
	if token != "" {
		n, err := strconv.Atoi(token)
		if err != nil {
			return nil, fmt.Errorf("bad page token %q", token)
		}
		idx = n
	}
	if idx >= len(pages) {
		return nil, fmt.Errorf("page token %q out of range", token)
	}
	p := pages[idx]
	return &p, nil
}

func (f *fakeDrive) ListAllFolders(ctx context.Context, pageToken string) (*api.Page, error) {
	f.folderCall++
	if f.folderErr != nil {
		return nil, f.folderErr
	}
	return pageAt(f.folders, pageToken)
}

func (f *fakeDrive) ListFolderChildren(ctx context.Context, parentID, pageToken string) (*api.Page, error) {
	if err := f.childErr[parentID]; err != nil {
		return nil, err
	}
	pages, ok := f.children[parentID]
	if !ok {
		return &api.Page{}, nil
	}
	return pageAt(pages, pageToken)
}

func (f *fakeDrive) GetRootID(ctx context.Context) (string, error) {
	if f.rootErr != nil {
		return "", f.rootErr
	}
	return f.rootID, nil
}

func (f *fakeDrive) DeleteByID(ctx context.Context, id string) error {
	if err := f.deleteErr[id]; err != nil {
		return err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func folderItem(id, name string, parents ...string) model.RemoteItem {
	return model.RemoteItem{ID: id, Name: name, MimeType: model.FolderMimeType, ParentIDs: parents}
}

func fileItem(id, name string, parents ...string) model.RemoteItem {
	return model.RemoteItem{ID: id, Name: name, MimeType: "text/plain", ParentIDs: parents}
}

var errTransport = errors.New("transport failure")
