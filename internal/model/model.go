package model

// FolderMimeType is the Drive mime type that marks an item as a folder
const FolderMimeType = "application/vnd.google-apps.folder"

// User represents an authorized Google Drive account
type User struct {
	Email        string `json:"email"`
	IsMain       bool   `json:"is_main"`
	RefreshToken string `json:"refresh_token"`
}

// RemoteItem is one file or folder as reported by a Drive listing page
type RemoteItem struct {
	ID        string
	Name      string
	MimeType  string
	ParentIDs []string
}

// IsFolder reports whether the item is a folder
func (i RemoteItem) IsFolder() bool {
	return i.MimeType == FolderMimeType
}

// FolderNode is an immutable entry of the folder index. ParentIDs may be empty
// and may reference ids that were never fetched.
type FolderNode struct {
	ID        string
	Name      string
	ParentIDs []string
}

// Folder is a FolderNode together with every display path it resolves to
type Folder struct {
	FolderNode
	Paths []string
}

// Decision tells whether a plan entry is only a folder marker or an item to delete
type Decision int

const (
	DecisionInformational Decision = iota
	DecisionDelete
)

func (d Decision) String() string {
	if d == DecisionDelete {
		return "delete"
	}
	return "info"
}

// Marker returns the short Y/N flag shown in the "Delete?" column
func (d Decision) Marker() string {
	if d == DecisionDelete {
		return "Y"
	}
	return "N"
}

// PlanEntry is one line of a delete plan. Name is the slash-joined path
// accumulated while walking the folder tree.
type PlanEntry struct {
	Decision Decision
	Name     string
	ID       string
}

// Plan is an ordered, pre-order delete plan
type Plan []PlanEntry

// ToDelete returns the entries that will be deleted, in plan order
func (p Plan) ToDelete() []PlanEntry {
	var out []PlanEntry
	for _, e := range p {
		if e.Decision == DecisionDelete {
			out = append(out, e)
		}
	}
	return out
}

// DeleteCount returns the number of entries marked for deletion
func (p Plan) DeleteCount() int {
	n := 0
	for _, e := range p {
		if e.Decision == DecisionDelete {
			n++
		}
	}
	return n
}

// FolderCount returns the number of folders examined while building the plan
func (p Plan) FolderCount() int {
	return len(p) - p.DeleteCount()
}

// Outcome is the result of executing one plan entry
type Outcome int

const (
	OutcomeDeleted Outcome = iota
	OutcomeFailed
)

func (o Outcome) String() string {
	if o == OutcomeFailed {
		return "failed"
	}
	return "deleted"
}

// LogEntry records what happened to one ToDelete plan entry
type LogEntry struct {
	Outcome Outcome
	Reason  string
	Name    string
	ID      string
}

// Failed reports whether the deletion failed
func (e LogEntry) Failed() bool {
	return e.Outcome == OutcomeFailed
}

// Action is the human readable action taken for the entry
func (e LogEntry) Action() string {
	if e.Outcome == OutcomeFailed {
		return "Error: " + e.Reason
	}
	return "Removed"
}
