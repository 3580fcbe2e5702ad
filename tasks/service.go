// Package tasks implements the owner-scoped task operations. Every method takes
// the authenticated owner's ID and never reveals whether a task owned by
// someone else exists.
package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/coreybb/tasktracker/models"
	"github.com/google/uuid"
)

// ErrNotFound covers both missing tasks and tasks owned by another user.
var ErrNotFound = errors.New("task not found")

// Store persists tasks. Every method filters by owner and reports a missing
// or foreign task as a wrapped sql.ErrNoRows.
type Store interface {
	CreateTask(ctx context.Context, task *models.Task) error
	GetTask(ctx context.Context, ownerID, taskID string) (*models.Task, error)
	ListTasks(ctx context.Context, ownerID string, q models.TaskQuery) ([]models.Task, error)
	UpdateTaskDetails(ctx context.Context, task *models.Task) error
	SetTaskCompletion(ctx context.Context, task *models.Task) error
	DeleteTask(ctx context.Context, ownerID, taskID string) (*models.Task, error)
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, now: now}
}

// ListResult is an ordered task list together with the filters that produced it.
type ListResult struct {
	Tasks   []models.Task `json:"tasks"`
	Count   int           `json:"count"`
	Filters Filters       `json:"filters"`
}

func (s *Service) List(ctx context.Context, ownerID string, opts ListOptions) (*ListResult, error) {
	q, filters, err := opts.query()
	if err != nil {
		return nil, err
	}
	tasks, err := s.store.ListTasks(ctx, ownerID, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return &ListResult{Tasks: tasks, Count: len(tasks), Filters: filters}, nil
}

func (s *Service) Create(ctx context.Context, ownerID string, in TaskInput) (*models.Task, error) {
	fields, err := in.validate()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	task := &models.Task{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Title:       fields.title,
		Description: fields.description,
		DueDate:     fields.dueDate,
		Priority:    fields.priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// Update replaces title, description, due date and priority. Omitted optional
// fields reset to their defaults; completion state is left alone.
func (s *Service) Update(ctx context.Context, ownerID, taskID string, in TaskInput) (*models.Task, error) {
	fields, err := in.validate()
	if err != nil {
		return nil, err
	}
	if !validID(taskID) {
		return nil, ErrNotFound
	}

	task := &models.Task{
		ID:          taskID,
		OwnerID:     ownerID,
		Title:       fields.title,
		Description: fields.description,
		DueDate:     fields.dueDate,
		Priority:    fields.priority,
		UpdatedAt:   s.now().UTC(),
	}
	if err := s.store.UpdateTaskDetails(ctx, task); err != nil {
		return nil, notFoundOr(err, "update")
	}
	return task, nil
}

// Delete removes the task permanently and returns what was deleted.
func (s *Service) Delete(ctx context.Context, ownerID, taskID string) (*models.Task, error) {
	if !validID(taskID) {
		return nil, ErrNotFound
	}
	task, err := s.store.DeleteTask(ctx, ownerID, taskID)
	if err != nil {
		return nil, notFoundOr(err, "delete")
	}
	return task, nil
}

func (s *Service) ToggleStatus(ctx context.Context, ownerID, taskID string) (*models.Task, error) {
	if !validID(taskID) {
		return nil, ErrNotFound
	}
	task, err := s.store.GetTask(ctx, ownerID, taskID)
	if err != nil {
		return nil, notFoundOr(err, "load")
	}

	task.ToggleCompletion(s.now().UTC())
	if err := s.store.SetTaskCompletion(ctx, task); err != nil {
		return nil, notFoundOr(err, "toggle")
	}
	return task, nil
}

func (s *Service) Stats(ctx context.Context, ownerID string) (*models.TaskStats, error) {
	tasks, err := s.store.ListTasks(ctx, ownerID, models.TaskQuery{
		Status:    models.StatusAll,
		SortBy:    models.SortByCreatedAt,
		SortOrder: models.SortDesc,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks for stats: %w", err)
	}
	stats := Summarize(tasks, s.now())
	return &stats, nil
}

// Summarize counts tasks by state and priority as of now.
func Summarize(tasks []models.Task, now time.Time) models.TaskStats {
	var stats models.TaskStats
	for i := range tasks {
		t := &tasks[i]
		stats.Total++
		if t.Completed {
			stats.Completed++
		} else {
			stats.Pending++
		}
		switch t.Priority {
		case models.PriorityHigh:
			stats.High++
		case models.PriorityMedium:
			stats.Medium++
		case models.PriorityLow:
			stats.Low++
		}
		if t.IsOverdue(now) {
			stats.Overdue++
		}
	}
	return stats
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func notFoundOr(err error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf("failed to %s task: %w", op, err)
}
