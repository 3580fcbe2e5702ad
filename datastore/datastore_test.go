package datastore

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/coreybb/tasktracker/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestDB connects to the database named by TEST_DATABASE_URL. The tests
// are skipped when it is unset.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	connStr := os.Getenv("TEST_DATABASE_URL")
	if connStr == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping Postgres repository tests")
	}

	db, err := Open(connStr, PoolConfig{
		MaxOpenConns:    5,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Minute,
		PingTimeout:     5 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestUser(t *testing.T, repo *UserRepository) *models.User {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	user := &models.User{
		ID:           uuid.NewString(),
		Name:         "Test User",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "$2a$04$placeholder",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	t.Cleanup(func() {
		// Tasks go with the user via ON DELETE CASCADE.
		_, _ = repo.db.Exec(`DELETE FROM users WHERE id = $1`, user.ID)
	})
	return user
}

func TestUserRepository(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := newTestUser(t, repo)

	byID, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, byID.Email)
	assert.Equal(t, user.PasswordHash, byID.PasswordHash)

	byEmail, err := repo.GetUserByEmail(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	exists, err := repo.EmailExists(ctx, user.Email)
	require.NoError(t, err)
	assert.True(t, exists)

	dup := *user
	dup.ID = uuid.NewString()
	err = repo.CreateUser(ctx, &dup)
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = repo.GetUserByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestTaskRepositoryOwnerScoping(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	owner := newTestUser(t, users)
	stranger := newTestUser(t, users)

	now := time.Now().UTC().Truncate(time.Microsecond)
	due := now.Add(48 * time.Hour)
	task := &models.Task{
		ID:        uuid.NewString(),
		OwnerID:   owner.ID,
		Title:     "Write report",
		DueDate:   &due,
		Priority:  models.PriorityHigh,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.CreateTask(ctx, task))

	got, err := repo.GetTask(ctx, owner.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Write report", got.Title)
	require.NotNil(t, got.DueDate)
	assert.True(t, due.Equal(*got.DueDate))
	assert.Nil(t, got.CompletedAt)

	_, err = repo.GetTask(ctx, stranger.ID, task.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	hijack := *task
	hijack.OwnerID = stranger.ID
	hijack.Title = "Hijacked"
	assert.ErrorIs(t, repo.UpdateTaskDetails(ctx, &hijack), sql.ErrNoRows)
	assert.ErrorIs(t, repo.SetTaskCompletion(ctx, &hijack), sql.ErrNoRows)
	_, err = repo.DeleteTask(ctx, stranger.ID, task.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	completedAt := now.Add(time.Minute)
	got.Completed = true
	got.CompletedAt = &completedAt
	got.UpdatedAt = completedAt
	require.NoError(t, repo.SetTaskCompletion(ctx, got))
	assert.True(t, got.Completed)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, completedAt.Equal(*got.CompletedAt))

	got.Title = "Write final report"
	got.DueDate = nil
	got.Priority = models.PriorityLow
	require.NoError(t, repo.UpdateTaskDetails(ctx, got))
	assert.Equal(t, "Write final report", got.Title)
	assert.Nil(t, got.DueDate)
	assert.True(t, got.Completed, "details update keeps completion")

	deleted, err := repo.DeleteTask(ctx, owner.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, deleted.ID)

	_, err = repo.GetTask(ctx, owner.ID, task.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestTaskRepositoryListFiltersAndOrder(t *testing.T) {
	db := openTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()
	owner := newTestUser(t, NewUserRepository(db))

	base := time.Now().UTC().Truncate(time.Microsecond)
	due := base.Add(time.Hour)
	seed := []struct {
		title     string
		priority  models.Priority
		completed bool
		due       *time.Time
	}{
		{"a", models.PriorityLow, false, nil},
		{"b", models.PriorityHigh, true, &due},
		{"c", models.PriorityMedium, false, &due},
		{"d", models.PriorityHigh, false, nil},
	}
	for i, s := range seed {
		created := base.Add(time.Duration(i) * time.Second)
		require.NoError(t, repo.CreateTask(ctx, &models.Task{
			ID: uuid.NewString(), OwnerID: owner.ID, Title: s.title, Priority: s.priority,
			Completed: s.completed, DueDate: s.due, CreatedAt: created, UpdatedAt: created,
		}))
	}

	titles := func(q models.TaskQuery) []string {
		t.Helper()
		list, err := repo.ListTasks(ctx, owner.ID, q)
		require.NoError(t, err)
		out := make([]string, len(list))
		for i, task := range list {
			out[i] = task.Title
		}
		return out
	}

	assert.Equal(t, []string{"d", "c", "b", "a"}, titles(models.TaskQuery{SortBy: models.SortByCreatedAt, SortOrder: models.SortDesc}))
	assert.Equal(t, []string{"d"}, titles(models.TaskQuery{Status: models.StatusPending, Priority: models.PriorityHigh}))
	assert.Equal(t, []string{"b"}, titles(models.TaskQuery{Status: models.StatusCompleted}))

	byPriority := titles(models.TaskQuery{SortBy: models.SortByPriority, SortOrder: models.SortAsc})
	assert.Equal(t, []string{"a", "c"}, byPriority[:2])

	byDue := titles(models.TaskQuery{SortBy: models.SortByDueDate, SortOrder: models.SortDesc})
	assert.ElementsMatch(t, []string{"a", "d"}, byDue[2:], "tasks without a due date sort last")
}
