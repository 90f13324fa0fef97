package api

import (
	"context"
	"errors"

	"github.com/FranLegon/drive-folder-cleaner/internal/model"
)

// ErrNoAccount is returned when no authorized account matches the request
var ErrNoAccount = errors.New("no authorized account")

// Page is one page of a Drive listing. An empty NextPageToken means the
// listing is exhausted.
type Page struct {
	Items         []model.RemoteItem
	NextPageToken string
}

// FolderLister lists every folder visible to the account, page by page
type FolderLister interface {
	ListAllFolders(ctx context.Context, pageToken string) (*Page, error)
}

// ChildLister lists the direct children of a folder, page by page
type ChildLister interface {
	ListFolderChildren(ctx context.Context, parentID, pageToken string) (*Page, error)
}

// RootResolver returns the id of the account's root folder
type RootResolver interface {
	GetRootID(ctx context.Context) (string, error)
}

// Deleter permanently deletes an object by id
type Deleter interface {
	DeleteByID(ctx context.Context, id string) error
}

// DriveService is the full set of capabilities the cleaner needs from a
// storage provider
type DriveService interface {
	FolderLister
	ChildLister
	RootResolver
	Deleter

	// GetItem returns a single file or folder by id
	GetItem(ctx context.Context, id string) (*model.RemoteItem, error)

	// AccountEmail returns the email of the authorized user
	AccountEmail(ctx context.Context) (string, error)
}
