// Package testutil provides in-memory stand-ins for the Postgres repositories,
// following the same owner scoping and not-found conventions.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/coreybb/tasktracker/datastore"
	"github.com/coreybb/tasktracker/models"
)

// UserStore is an in-memory auth.UserStore.
type UserStore struct {
	mu    sync.Mutex
	users map[string]models.User

	// Err, when set, is returned by every method.
	Err error
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]models.User)}
}

func (s *UserStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, u := range s.users {
		if u.Email == user.Email {
			return fmt.Errorf("failed to insert user: %w", datastore.ErrEmailTaken)
		}
	}
	s.users[user.ID] = *user
	return nil
}

func (s *UserStore) GetUserByID(_ context.Context, userID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	u, ok := s.users[userID]
	if !ok {
		return nil, fmt.Errorf("user not found: %w", sql.ErrNoRows)
	}
	return &u, nil
}

func (s *UserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user not found: %w", sql.ErrNoRows)
}

func (s *UserStore) EmailExists(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	for _, u := range s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// DeleteUser simulates an account removed after a token was issued.
func (s *UserStore) DeleteUser(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, userID)
}

// TaskStore is an in-memory tasks.Store.
type TaskStore struct {
	mu    sync.Mutex
	tasks map[string]models.Task

	// Err, when set, is returned by every method.
	Err error
}

func NewTaskStore() *TaskStore {
	return &TaskStore{tasks: make(map[string]models.Task)}
}

func (s *TaskStore) CreateTask(_ context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.tasks[task.ID] = *task
	return nil
}

func (s *TaskStore) GetTask(_ context.Context, ownerID, taskID string) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	t, ok := s.owned(ownerID, taskID)
	if !ok {
		return nil, fmt.Errorf("task not found: %w", sql.ErrNoRows)
	}
	return &t, nil
}

func (s *TaskStore) ListTasks(_ context.Context, ownerID string, q models.TaskQuery) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	out := []models.Task{}
	for _, t := range s.tasks {
		if t.OwnerID != ownerID {
			continue
		}
		if q.Status == models.StatusCompleted && !t.Completed || q.Status == models.StatusPending && t.Completed {
			continue
		}
		if q.Priority != "" && t.Priority != q.Priority {
			continue
		}
		out = append(out, t)
	}

	sort.Slice(out, func(i, j int) bool {
		c := compareTasks(&out[i], &out[j], q.SortBy, q.SortOrder == models.SortAsc)
		if c != 0 {
			return c < 0
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *TaskStore) UpdateTaskDetails(_ context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	t, ok := s.owned(task.OwnerID, task.ID)
	if !ok {
		return fmt.Errorf("task not found: %w", sql.ErrNoRows)
	}
	t.Title = task.Title
	t.Description = task.Description
	t.DueDate = task.DueDate
	t.Priority = task.Priority
	t.UpdatedAt = task.UpdatedAt
	s.tasks[t.ID] = t
	*task = t
	return nil
}

func (s *TaskStore) SetTaskCompletion(_ context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	t, ok := s.owned(task.OwnerID, task.ID)
	if !ok {
		return fmt.Errorf("task not found: %w", sql.ErrNoRows)
	}
	t.Completed = task.Completed
	t.CompletedAt = task.CompletedAt
	t.UpdatedAt = task.UpdatedAt
	s.tasks[t.ID] = t
	*task = t
	return nil
}

func (s *TaskStore) DeleteTask(_ context.Context, ownerID, taskID string) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	t, ok := s.owned(ownerID, taskID)
	if !ok {
		return nil, fmt.Errorf("task not found: %w", sql.ErrNoRows)
	}
	delete(s.tasks, taskID)
	return &t, nil
}

// Len counts stored tasks across all owners.
func (s *TaskStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

func (s *TaskStore) owned(ownerID, taskID string) (models.Task, bool) {
	t, ok := s.tasks[taskID]
	if !ok || t.OwnerID != ownerID {
		return models.Task{}, false
	}
	return t, true
}

var priorityRank = map[models.Priority]int{
	models.PriorityLow:    1,
	models.PriorityMedium: 2,
	models.PriorityHigh:   3,
}

// compareTasks orders like the SQL repository: nil times sort last in either
// direction.
func compareTasks(a, b *models.Task, field models.TaskSortField, asc bool) int {
	dir := -1
	if asc {
		dir = 1
	}
	switch field {
	case models.SortByUpdatedAt:
		return dir * a.UpdatedAt.Compare(b.UpdatedAt)
	case models.SortByDueDate:
		return compareNullable(a.DueDate, b.DueDate, dir)
	case models.SortByCompletedAt:
		return compareNullable(a.CompletedAt, b.CompletedAt, dir)
	case models.SortByTitle:
		return dir * strings.Compare(a.Title, b.Title)
	case models.SortByPriority:
		return dir * (priorityRank[a.Priority] - priorityRank[b.Priority])
	default:
		return dir * a.CreatedAt.Compare(b.CreatedAt)
	}
}

func compareNullable(a, b *time.Time, dir int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return dir * a.Compare(*b)
}
