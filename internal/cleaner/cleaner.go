// Package cleaner builds and executes delete plans for a Drive folder tree.
//
// Every operation in this package is strictly sequential: listing pages,
// recursing into subfolders and deleting items all happen one at a time, so
// the number of API calls stays predictable and the plan and log orders are
// deterministic. Running deletions in parallel would change the log order
// and is not an equivalent rewrite.
package cleaner

import (
	"errors"
	"fmt"

	"github.com/FranLegon/drive-folder-cleaner/internal/model"
)

var (
	// ErrCycleDetected is returned by the resolver when a folder is its own ancestor
	ErrCycleDetected = errors.New("folder hierarchy contains a cycle")

	// ErrInvalidSelection means no folder, or a folder that resolves to nothing, was selected
	ErrInvalidSelection = errors.New("invalid folder selection")

	// ErrNothingToDelete means the plan holds no item to delete
	ErrNothingToDelete = errors.New("there are no files to remove")
)

// ProgressFunc receives short progress notes such as "Processing folder x".
// A nil ProgressFunc is valid and ignored.
type ProgressFunc func(msg string)

func (p ProgressFunc) notify(format string, args ...interface{}) {
	if p == nil {
		return
	}
	p(fmt.Sprintf(format, args...))
}

// CheckPlan reports whether a plan has anything to do. It returns
// ErrInvalidSelection for an empty plan and ErrNothingToDelete for a plan
// that only holds folder markers.
func CheckPlan(plan model.Plan) error {
	if len(plan) == 0 {
		return ErrInvalidSelection
	}
	if plan.DeleteCount() == 0 {
		return ErrNothingToDelete
	}
	return nil
}
