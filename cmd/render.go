package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/FranLegon/drive-folder-cleaner/internal/database"
	"github.com/FranLegon/drive-folder-cleaner/internal/model"
)

type palette struct {
	header  lipgloss.Style
	cell    lipgloss.Style
	muted   lipgloss.Style
	danger  lipgloss.Style
	warning lipgloss.Style
	success lipgloss.Style
	border  lipgloss.Style
}

var styles = palette{
	header:  lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).Padding(0, 1),
	cell:    lipgloss.NewStyle().Padding(0, 1),
	muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Padding(0, 1),
	danger:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true).Padding(0, 1),
	warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
	success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
	border:  lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styles.border).
		Headers(headers...)
}

// folderTable renders a folder listing with one line per path
func folderTable(folders []model.Folder) string {
	t := newTable("Name", "ID", "Paths")
	for _, f := range folders {
		t.Row(f.Name, f.ID, strings.Join(f.Paths, "\n"))
	}
	t.StyleFunc(func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return styles.header
		}
		return styles.cell
	})
	return t.String()
}

// planTable renders a delete plan. Delete rows stand out, folder rows are muted.
func planTable(plan model.Plan) string {
	t := newTable("Delete?", "Name", "ID")
	for _, e := range plan {
		t.Row(e.Decision.Marker(), e.Name, e.ID)
	}
	t.StyleFunc(func(row, col int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return styles.header
		case plan[row].Decision == model.DecisionDelete:
			return styles.danger
		default:
			return styles.muted
		}
	})
	return t.String()
}

// planSummary is the line shown under a plan
func planSummary(plan model.Plan) string {
	return fmt.Sprintf("Number of files to be removed: %d. (%d folders examined)", plan.DeleteCount(), plan.FolderCount())
}

// logTable renders the result log with failures highlighted
func logTable(log []model.LogEntry) string {
	t := newTable("Action", "Name", "ID")
	for _, e := range log {
		t.Row(e.Action(), e.Name, e.ID)
	}
	t.StyleFunc(func(row, col int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return styles.header
		case log[row].Failed():
			return styles.danger
		default:
			return styles.cell
		}
	})
	return t.String()
}

// logSummary is the closing message of a clean-up
func logSummary(log []model.LogEntry) string {
	failed := 0
	for _, e := range log {
		if e.Failed() {
			failed++
		}
	}
	if failed > 0 {
		return styles.warning.Render(fmt.Sprintf("%d issues found. Please review the issues", failed))
	}
	return styles.success.Render("Clean up operation is successful")
}

// runsTable renders the recorded history
func runsTable(runs []*database.Run) string {
	t := newTable("Run", "Started", "Account", "Folder", "Mode", "Removed", "Errors")
	for _, r := range runs {
		mode := "live"
		if r.Simulated {
			mode = "dry run"
		}
		t.Row(
			fmt.Sprintf("%d", r.ID),
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Account,
			r.FolderName,
			mode,
			fmt.Sprintf("%d", r.DeletedCount),
			fmt.Sprintf("%d", r.FailedCount),
		)
	}
	t.StyleFunc(func(row, col int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return styles.header
		case runs[row].FailedCount > 0:
			return styles.danger
		default:
			return styles.cell
		}
	})
	return t.String()
}
