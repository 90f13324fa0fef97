package cleaner

import (
	"context"
	"fmt"
	"sort"

	"github.com/FranLegon/drive-folder-cleaner/internal/api"
	"github.com/FranLegon/drive-folder-cleaner/internal/logger"
	"github.com/FranLegon/drive-folder-cleaner/internal/model"
)

// Planner walks a folder subtree and produces its delete plan
type Planner struct {
	src api.ChildLister
}

// NewPlanner creates a planner reading folder children from src
func NewPlanner(src api.ChildLister) *Planner {
	return &Planner{src: src}
}

type subfolder struct {
	name string
	id   string
}

// BuildPlan returns the pre-order delete plan of the folder id, displayed as
// name. The plan starts with one informational entry for the folder, then
// the folder's own items in listing order, then the plan of each subfolder
// sorted by path. Any listing error discards the whole plan.
func (p *Planner) BuildPlan(ctx context.Context, name, id string, progress ProgressFunc) (model.Plan, error) {
	if id == "" {
		return nil, ErrInvalidSelection
	}
	return p.build(ctx, name, id, progress)
}

func (p *Planner) build(ctx context.Context, name, id string, progress ProgressFunc) (model.Plan, error) {
	progress.notify("Processing folder %s", name)

	plan := model.Plan{{Decision: model.DecisionInformational, Name: name, ID: id}}
	var subfolders []subfolder

	pageToken := ""
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res, err := p.src.ListFolderChildren(ctx, id, pageToken)
		if err != nil {
			return nil, fmt.Errorf("failed to list folder %s: %w", name, err)
		}

		for _, item := range res.Items {
			childName := name + "/" + item.Name
			if item.IsFolder() {
				subfolders = append(subfolders, subfolder{name: childName, id: item.ID})
				continue
			}
			plan = append(plan, model.PlanEntry{Decision: model.DecisionDelete, Name: childName, ID: item.ID})
		}

		if res.NextPageToken == "" {
			break
		}
		pageToken = res.NextPageToken
	}

	logger.DebugTagged([]string{"Planner"}, "%s: %d items, %d subfolders", name, len(plan)-1, len(subfolders))

	sort.SliceStable(subfolders, func(i, j int) bool {
		return subfolders[i].name < subfolders[j].name
	})

	for _, sf := range subfolders {
		sub, err := p.build(ctx, sf.name, sf.id, progress)
		if err != nil {
			return nil, err
		}
		plan = append(plan, sub...)
	}

	return plan, nil
}
