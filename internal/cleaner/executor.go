package cleaner

import (
	"context"

	"github.com/FranLegon/drive-folder-cleaner/internal/api"
	"github.com/FranLegon/drive-folder-cleaner/internal/logger"
	"github.com/FranLegon/drive-folder-cleaner/internal/model"
)

// Executor carries out a delete plan
type Executor struct {
	deleter api.Deleter
}

// NewExecutor creates an executor deleting through d. d may be nil when the
// executor is only used to simulate.
func NewExecutor(d api.Deleter) *Executor {
	return &Executor{deleter: d}
}

// Execute deletes every ToDelete entry of plan, one after the other, and
// returns one log entry per deleted item in plan order. A failed deletion is
// recorded in its log entry and the run continues. When simulate is set
// nothing is deleted and every entry is logged as deleted.
//
// The only error returned is the context's: the entries processed before
// the cancellation are returned with it.
func (e *Executor) Execute(ctx context.Context, plan model.Plan, simulate bool, progress ProgressFunc) ([]model.LogEntry, error) {
	log := make([]model.LogEntry, 0, plan.DeleteCount())

	for _, entry := range plan {
		if entry.Decision != model.DecisionDelete {
			continue
		}
		if err := ctx.Err(); err != nil {
			return log, err
		}

		if simulate {
			logger.DryRunTagged([]string{"Executor"}, "Would remove %s (%s)", entry.Name, entry.ID)
			log = append(log, model.LogEntry{Outcome: model.OutcomeDeleted, Name: entry.Name, ID: entry.ID})
			continue
		}

		progress.notify("Removing %s", entry.Name)
		if err := e.deleter.DeleteByID(ctx, entry.ID); err != nil {
			logger.WarningTagged([]string{"Executor"}, "Failed to remove %s (%s): %v", entry.Name, entry.ID, err)
			log = append(log, model.LogEntry{Outcome: model.OutcomeFailed, Reason: err.Error(), Name: entry.Name, ID: entry.ID})
			continue
		}
		logger.DebugTagged([]string{"Executor"}, "Removed %s (%s)", entry.Name, entry.ID)
		log = append(log, model.LogEntry{Outcome: model.OutcomeDeleted, Name: entry.Name, ID: entry.ID})
	}

	return log, nil
}
