package cleaner

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/FranLegon/drive-folder-cleaner/internal/api"
	"github.com/FranLegon/drive-folder-cleaner/internal/logger"
	"github.com/FranLegon/drive-folder-cleaner/internal/model"
)

// MaxFolders is the maximum number of folders kept in one folder index
const MaxFolders = 500

// FolderSource is what the indexer needs from a Drive client
type FolderSource interface {
	api.FolderLister
	api.RootResolver
}

// Filter narrows a folder listing. Empty fields do not filter.
type Filter struct {
	// Name keeps folders whose name contains it (case-sensitive)
	Name string
	// ID keeps only the folder with exactly this id
	ID string
}

func (f Filter) match(node model.FolderNode) bool {
	if f.Name != "" && !strings.Contains(node.Name, f.Name) {
		return false
	}
	if f.ID != "" && node.ID != f.ID {
		return false
	}
	return true
}

// FolderListing is the result of ListFolders
type FolderListing struct {
	Folders []model.Folder
	// Truncated is set when paging stopped because the index reached MaxFolders
	Truncated bool
	// Cyclic holds the ids of folders that are their own ancestor. Their
	// paths skip the cycle, or fall back to the bare name when nothing is left.
	Cyclic []string
}

// Indexer loads the folder index of an account and resolves folder paths
type Indexer struct {
	src        FolderSource
	maxFolders int
}

// NewIndexer creates an indexer reading from src
func NewIndexer(src FolderSource) *Indexer {
	return &Indexer{src: src, maxFolders: MaxFolders}
}

// ListFolders pages through every folder of the account, resolves their
// paths against the root folder, then filters and sorts them by name.
// Any listing or root lookup error fails the whole call.
func (ix *Indexer) ListFolders(ctx context.Context, filter Filter) (*FolderListing, error) {
	index, order, truncated, err := ix.load(ctx)
	if err != nil {
		return nil, err
	}

	rootID, err := ix.src.GetRootID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get root folder id: %w", err)
	}

	resolver := NewResolver(index, rootID)
	listing := &FolderListing{Truncated: truncated}

	for _, id := range order {
		node := index[id]
		paths, err := resolver.Resolve(node)
		if err != nil {
			if !errors.Is(err, ErrCycleDetected) {
				return nil, err
			}
			listing.Cyclic = append(listing.Cyclic, node.ID)
			if len(paths) == 0 {
				paths = []string{node.Name}
			}
		}
		if filter.match(node) {
			listing.Folders = append(listing.Folders, model.Folder{FolderNode: node, Paths: paths})
		}
	}

	sort.SliceStable(listing.Folders, func(i, j int) bool {
		return listing.Folders[i].Name < listing.Folders[j].Name
	})

	return listing, nil
}

// load fills the index page by page until the listing is exhausted or the
// index is full. order keeps the ids in first-seen order.
func (ix *Indexer) load(ctx context.Context) (map[string]model.FolderNode, []string, bool, error) {
	index := make(map[string]model.FolderNode)
	var order []string
	pageToken := ""
	page := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, nil, false, err
		}

		res, err := ix.src.ListAllFolders(ctx, pageToken)
		if err != nil {
			return nil, nil, false, fmt.Errorf("failed to list folders: %w", err)
		}
		page++
		logger.DebugTagged([]string{"Indexer"}, "Folder page %d: %d items", page, len(res.Items))

		for _, item := range res.Items {
			if _, exists := index[item.ID]; !exists {
				if len(index) >= ix.maxFolders {
					return index, order, true, nil
				}
				order = append(order, item.ID)
			}
			index[item.ID] = model.FolderNode{
				ID:        item.ID,
				Name:      item.Name,
				ParentIDs: item.ParentIDs,
			}
		}

		if res.NextPageToken == "" {
			return index, order, false, nil
		}
		if len(index) >= ix.maxFolders {
			return index, order, true, nil
		}
		pageToken = res.NextPageToken
	}
}
