package cleaner

import (
	"fmt"

	"github.com/FranLegon/drive-folder-cleaner/internal/logger"
	"github.com/FranLegon/drive-folder-cleaner/internal/model"
)

// Resolver reconstructs display paths from the parent links of an index.
// Computed path sets are cached in the resolver, never on the nodes.
type Resolver struct {
	index    map[string]model.FolderNode
	rootID   string
	memo     map[string][]string
	visiting map[string]bool
	cyclic   map[string]bool
}

// NewResolver creates a resolver over index. Parents equal to rootID end a
// path.
func NewResolver(index map[string]model.FolderNode, rootID string) *Resolver {
	return &Resolver{
		index:    index,
		rootID:   rootID,
		memo:     make(map[string][]string),
		visiting: make(map[string]bool),
		cyclic:   make(map[string]bool),
	}
}

// Resolve returns every path of node, one per parent lineage. A parent that
// is missing from the index is treated as if the node had no parent on that
// branch. A lineage that leads back to a folder already on it is dropped.
//
// When node is its own ancestor the error wraps ErrCycleDetected and the
// returned paths hold only the lineages that avoid the cycle, possibly none.
// Folders that merely descend from a cycle resolve without error.
func (r *Resolver) Resolve(node model.FolderNode) ([]string, error) {
	paths, _ := r.resolve(node)
	if r.cyclic[node.ID] {
		return paths, fmt.Errorf("%w: folder %q (%s)", ErrCycleDetected, node.Name, node.ID)
	}
	return paths, nil
}

// resolve also returns the ids of folders still being resolved that the
// lineage of node loops back to. Results that depend on such folders are
// not memoized.
func (r *Resolver) resolve(node model.FolderNode) ([]string, map[string]bool) {
	if paths, ok := r.memo[node.ID]; ok {
		return paths, nil
	}
	if r.visiting[node.ID] {
		return nil, map[string]bool{node.ID: true}
	}
	r.visiting[node.ID] = true
	defer delete(r.visiting, node.ID)

	var paths []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, dup := seen[p]; dup {
			return
		}
		seen[p] = struct{}{}
		paths = append(paths, p)
	}

	loops := make(map[string]bool)
	if len(node.ParentIDs) == 0 {
		add(node.Name)
	}
	for _, pid := range node.ParentIDs {
		if pid == r.rootID {
			add(node.Name)
			continue
		}
		parent, ok := r.index[pid]
		if !ok {
			logger.WarningTagged([]string{"Resolver"}, "Parent folder id %s of %q is missing", pid, node.Name)
			add(node.Name)
			continue
		}
		parentPaths, parentLoops := r.resolve(parent)
		for id := range parentLoops {
			loops[id] = true
		}
		for _, pp := range parentPaths {
			add(pp + "/" + node.Name)
		}
	}

	// Any open loop left here passes through node
	onCycle := len(loops) > 0 || r.cyclic[node.ID]
	delete(loops, node.ID)

	if onCycle && !r.cyclic[node.ID] {
		r.cyclic[node.ID] = true
		logger.WarningTagged([]string{"Resolver"}, "Folder %q (%s) is its own ancestor", node.Name, node.ID)
	}
	if len(paths) == 0 && !onCycle {
		logger.WarningTagged([]string{"Resolver"}, "Every lineage of %q runs into a folder cycle", node.Name)
		add(node.Name)
	}

	if len(loops) == 0 {
		r.memo[node.ID] = paths
	}
	return paths, loops
}
