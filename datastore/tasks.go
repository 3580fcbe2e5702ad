package datastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/coreybb/tasktracker/models"
)

const taskColumns = `id, owner_id, title, description, due_date, priority, completed, completed_at, created_at, updated_at`

// sortColumns maps client sort fields onto SQL expressions. Priority sorts by
// rank rather than alphabetically.
var sortColumns = map[models.TaskSortField]string{
	models.SortByCreatedAt:   "created_at",
	models.SortByUpdatedAt:   "updated_at",
	models.SortByDueDate:     "due_date",
	models.SortByTitle:       "title",
	models.SortByCompletedAt: "completed_at",
	models.SortByPriority:    "CASE priority WHEN 'low' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END",
}

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) CreateTask(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		task.ID, task.OwnerID, task.Title, task.Description, task.DueDate,
		task.Priority, task.Completed, task.CompletedAt, task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

// GetTask returns the task only when it belongs to ownerID.
func (r *TaskRepository) GetTask(ctx context.Context, ownerID, taskID string) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND owner_id = $2`
	task, err := scanTask(r.db.QueryRowContext(ctx, query, taskID, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get task %s: %w", taskID, err)
	}
	return task, nil
}

func (r *TaskRepository) ListTasks(ctx context.Context, ownerID string, q models.TaskQuery) ([]models.Task, error) {
	query, args := listTasksQuery(ownerID, q)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks for user %s: %w", ownerID, err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task row for user %s: %w", ownerID, err)
		}
		tasks = append(tasks, *task)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows for user %s: %w", ownerID, err)
	}
	return tasks, nil
}

// UpdateTaskDetails replaces the editable fields of an owned task and refreshes
// task from the stored row.
func (r *TaskRepository) UpdateTaskDetails(ctx context.Context, task *models.Task) error {
	query := `
		UPDATE tasks
		SET title = $3, description = $4, due_date = $5, priority = $6, updated_at = $7
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + taskColumns
	row := r.db.QueryRowContext(ctx, query,
		task.ID, task.OwnerID, task.Title, task.Description, task.DueDate, task.Priority, task.UpdatedAt,
	)
	return r.refresh(row, task, "update")
}

// SetTaskCompletion persists the completion fields of an owned task.
func (r *TaskRepository) SetTaskCompletion(ctx context.Context, task *models.Task) error {
	query := `
		UPDATE tasks
		SET completed = $3, completed_at = $4, updated_at = $5
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + taskColumns
	row := r.db.QueryRowContext(ctx, query,
		task.ID, task.OwnerID, task.Completed, task.CompletedAt, task.UpdatedAt,
	)
	return r.refresh(row, task, "set completion of")
}

// DeleteTask removes an owned task and returns the deleted row.
func (r *TaskRepository) DeleteTask(ctx context.Context, ownerID, taskID string) (*models.Task, error) {
	query := `DELETE FROM tasks WHERE id = $1 AND owner_id = $2 RETURNING ` + taskColumns
	task, err := scanTask(r.db.QueryRowContext(ctx, query, taskID, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task not found: %w", err)
		}
		return nil, fmt.Errorf("failed to delete task %s: %w", taskID, err)
	}
	return task, nil
}

func (r *TaskRepository) refresh(row *sql.Row, task *models.Task, op string) error {
	stored, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("task not found: %w", err)
		}
		return fmt.Errorf("failed to %s task %s: %w", op, task.ID, err)
	}
	*task = *stored
	return nil
}

// listTasksQuery builds the owner-scoped SELECT for q. Placeholders are
// numbered in the order their arguments are appended.
func listTasksQuery(ownerID string, q models.TaskQuery) (string, []any) {
	var sb strings.Builder
	args := []any{ownerID}

	sb.WriteString(`SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = $1`)
	switch q.Status {
	case models.StatusCompleted:
		args = append(args, true)
		sb.WriteString(` AND completed = $` + strconv.Itoa(len(args)))
	case models.StatusPending:
		args = append(args, false)
		sb.WriteString(` AND completed = $` + strconv.Itoa(len(args)))
	}
	if q.Priority != "" {
		args = append(args, q.Priority)
		sb.WriteString(` AND priority = $` + strconv.Itoa(len(args)))
	}

	column, ok := sortColumns[q.SortBy]
	if !ok {
		column = sortColumns[models.SortByCreatedAt]
	}
	direction := "DESC"
	if q.SortOrder == models.SortAsc {
		direction = "ASC"
	}
	sb.WriteString(` ORDER BY ` + column + ` ` + direction + ` NULLS LAST, id ASC`)
	return sb.String(), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	var task models.Task
	err := row.Scan(
		&task.ID, &task.OwnerID, &task.Title, &task.Description, &task.DueDate,
		&task.Priority, &task.Completed, &task.CompletedAt, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &task, nil
}
