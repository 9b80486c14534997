package domain

import "time"

// Priority levels a task can carry. The set is closed; the store layer
// rejects anything else.
const (
	PriorityLow      = "low"
	PriorityModerate = "moderate"
	PriorityHigh     = "high"
)

// Status values a task can be in.
const (
	StatusBacklog    = "backlog"
	StatusTodo       = "todo"
	StatusInProgress = "inProgress"
	StatusDone       = "done"
)

// ValidPriority reports whether p is one of the known priority levels.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityModerate, PriorityHigh:
		return true
	}
	return false
}

// ValidStatus reports whether s is one of the known status values.
func ValidStatus(s string) bool {
	switch s {
	case StatusBacklog, StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// CheckListItem is a single entry of a task checklist.
type CheckListItem struct {
	Title   string `json:"title" bson:"title"`
	Checked bool   `json:"checked" bson:"checked"`
}

// Task is a single board item. AssignedToEmail is a pointer because
// documents written by older clients may lack the field entirely, and
// the analytics tally distinguishes an absent field from an empty one.
type Task struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Priority        string          `json:"priority"`
	Status          string          `json:"status"`
	DueDate         *time.Time      `json:"dueDate,omitempty"`
	CheckLists      []CheckListItem `json:"checkLists"`
	AssignedToEmail *string         `json:"assigned_to_email"`
	AssignedBy      string          `json:"assignedBy,omitempty"`
	SharedWith      []string        `json:"shared_with,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	CreatedBy       string          `json:"createdBy"`
	IsExpired       bool            `json:"isExpired"`
}

// ExpiredAt reports whether the task's due date has passed. Tasks
// without a due date never expire.
func (t *Task) ExpiredAt(now time.Time) bool {
	return t.DueDate != nil && now.After(*t.DueDate)
}

// UserRef is a user reference resolved for display.
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ListedTask is a task whose assigner has been resolved to a display
// reference, as returned by the task list.
type ListedTask struct {
	Task
	AssignedBy UserRef `json:"assignedBy"`
}

// TaskPatch carries the fields of a partial task update. Nil fields are
// left untouched.
type TaskPatch struct {
	Title           *string
	Priority        *string
	Status          *string
	DueDate         *time.Time
	CheckLists      *[]CheckListItem
	AssignedToEmail *string
}

// ListWindow returns the createdAt bounds of the task list for the
// given range: lower bound exclusive, upper bound inclusive and pinned
// to the end of the current UTC day.
func ListWindow(now time.Time, rangeDays int) (from, to time.Time) {
	y, m, d := now.UTC().Date()
	to = time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
	from = to.AddDate(0, 0, -rangeDays)
	return from, to
}
