package models

import "time"

// Priority defines the set of allowed priorities for a Task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"ownerId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	Priority    Priority   `json:"priority"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ToggleCompletion flips Completed. CompletedAt is set to now on the way to
// completed and cleared on the way back.
func (t *Task) ToggleCompletion(now time.Time) {
	t.Completed = !t.Completed
	if t.Completed {
		completedAt := now
		t.CompletedAt = &completedAt
	} else {
		t.CompletedAt = nil
	}
	t.UpdatedAt = now
}

// IsOverdue reports whether an unfinished task's due date lies strictly before now.
func (t *Task) IsOverdue(now time.Time) bool {
	return !t.Completed && t.DueDate != nil && t.DueDate.Before(now)
}

type TaskStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
	High      int `json:"high"`
	Medium    int `json:"medium"`
	Low       int `json:"low"`
	Overdue   int `json:"overdue"`
}

// TaskStatusFilter selects tasks by completion state.
type TaskStatusFilter string

const (
	StatusAll       TaskStatusFilter = "all"
	StatusCompleted TaskStatusFilter = "completed"
	StatusPending   TaskStatusFilter = "pending"
)

// TaskSortField names a sortable Task attribute as clients send it.
type TaskSortField string

const (
	SortByCreatedAt   TaskSortField = "createdAt"
	SortByUpdatedAt   TaskSortField = "updatedAt"
	SortByDueDate     TaskSortField = "dueDate"
	SortByPriority    TaskSortField = "priority"
	SortByTitle       TaskSortField = "title"
	SortByCompletedAt TaskSortField = "completedAt"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// TaskQuery is a validated list request. An empty Priority means any priority.
type TaskQuery struct {
	Status    TaskStatusFilter
	Priority  Priority
	SortBy    TaskSortField
	SortOrder SortOrder
}
