package tasks

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/coreybb/tasktracker/models"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 1000
	dateOnlyLayout       = "2006-01-02"
)

// TaskInput carries the client-editable fields of a task. Nil pointers mean
// the field was omitted.
type TaskInput struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
	Priority    *string `json:"priority,omitempty"`
}

// taskFields is a TaskInput that passed validation, with defaults applied.
type taskFields struct {
	title       string
	description string
	dueDate     *time.Time
	priority    models.Priority
}

// validate trims text fields, applies defaults and collects every problem.
// Due dates in the past are accepted so that overdue tasks can exist.
func (in TaskInput) validate() (taskFields, error) {
	var verr models.ValidationError
	fields := taskFields{
		title:    strings.TrimSpace(in.Title),
		priority: models.PriorityMedium,
	}

	if n := utf8.RuneCountInString(fields.title); n < 1 || n > maxTitleLength {
		verr.Add("title", "Title is required and must be between 1-200 characters")
	}

	if in.Description != nil {
		fields.description = strings.TrimSpace(*in.Description)
		if utf8.RuneCountInString(fields.description) > maxDescriptionLength {
			verr.Add("description", "Description cannot exceed 1000 characters")
		}
	}

	if in.Priority != nil && *in.Priority != "" {
		p := models.Priority(*in.Priority)
		if !p.Valid() {
			verr.Add("priority", "Priority must be low, medium, or high")
		} else {
			fields.priority = p
		}
	}

	if in.DueDate != nil && strings.TrimSpace(*in.DueDate) != "" {
		due, ok := parseDueDate(strings.TrimSpace(*in.DueDate))
		if !ok {
			verr.Add("dueDate", "Due date must be a valid date")
		} else {
			fields.dueDate = &due
		}
	}

	return fields, verr.Err()
}

// parseDueDate accepts an RFC 3339 timestamp or a bare calendar date, which is
// taken as midnight UTC.
func parseDueDate(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse(dateOnlyLayout, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// ListOptions are the raw list parameters; empty values fall back to defaults.
type ListOptions struct {
	Status    string
	Priority  string
	SortBy    string
	SortOrder string
}

// Filters echoes the effective list parameters back to the client.
type Filters struct {
	Status    string `json:"status"`
	Priority  string `json:"priority"`
	SortBy    string `json:"sortBy"`
	SortOrder string `json:"sortOrder"`
}

var sortFields = map[string]models.TaskSortField{
	string(models.SortByCreatedAt):   models.SortByCreatedAt,
	string(models.SortByUpdatedAt):   models.SortByUpdatedAt,
	string(models.SortByDueDate):     models.SortByDueDate,
	string(models.SortByPriority):    models.SortByPriority,
	string(models.SortByTitle):       models.SortByTitle,
	string(models.SortByCompletedAt): models.SortByCompletedAt,
}

func (o ListOptions) query() (models.TaskQuery, Filters, error) {
	var verr models.ValidationError
	q := models.TaskQuery{
		Status:    models.StatusAll,
		SortBy:    models.SortByCreatedAt,
		SortOrder: models.SortDesc,
	}
	priority := "all"

	switch s := models.TaskStatusFilter(o.Status); s {
	case "":
	case models.StatusAll, models.StatusCompleted, models.StatusPending:
		q.Status = s
	default:
		verr.Add("status", "Status must be all, completed, or pending")
	}

	switch p := models.Priority(o.Priority); {
	case o.Priority == "" || o.Priority == "all":
	case p.Valid():
		q.Priority = p
		priority = o.Priority
	default:
		verr.Add("priority", "Priority must be all, low, medium, or high")
	}

	if o.SortBy != "" {
		field, ok := sortFields[o.SortBy]
		if !ok {
			verr.Add("sortBy", "Unsupported sort field")
		} else {
			q.SortBy = field
		}
	}

	switch models.SortOrder(o.SortOrder) {
	case "":
	case models.SortAsc, models.SortDesc:
		q.SortOrder = models.SortOrder(o.SortOrder)
	default:
		verr.Add("sortOrder", "Sort order must be asc or desc")
	}

	filters := Filters{
		Status:    string(q.Status),
		Priority:  priority,
		SortBy:    string(q.SortBy),
		SortOrder: string(q.SortOrder),
	}
	return q, filters, verr.Err()
}
