package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sarathaj/User-Management/internal/domain/entities"
	"github.com/sarathaj/User-Management/internal/domain/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open("sqlite", "file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func createUser(t *testing.T, repo repositories.UserRepository, email string) *entities.User {
	t.Helper()
	u := entities.NewUser(email, "Str0ngPass!")
	require.NoError(t, u.HashPassword())
	vu, err := entities.NewValidatedUser(u)
	require.NoError(t, err)
	created, err := repo.Create(context.Background(), vu)
	require.NoError(t, err)
	return created
}

func createTask(t *testing.T, repo repositories.TaskRepository, owner uuid.UUID, title, desc string, at time.Time) *entities.Task {
	t.Helper()
	task, err := entities.NewTask(owner, title, desc)
	require.NoError(t, err)
	task.CreatedAt, task.UpdatedAt = at, at
	created, err := repo.Create(context.Background(), task)
	require.NoError(t, err)
	return created
}

func TestUserRepository(t *testing.T) {
	repo := NewUserRepository(openTestDB(t))
	ctx := context.Background()

	alice := createUser(t, repo, "alice@example.com")

	found, err := repo.FindByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, alice.Id, found.Id)
	assert.True(t, found.IsActive)

	missing, err := repo.FindById(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	taken, err := repo.EmailTaken(ctx, "Alice@Example.com", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, taken)
	taken, err = repo.EmailTaken(ctx, "alice@example.com", alice.Id)
	require.NoError(t, err)
	assert.False(t, taken)

	dup := entities.NewUser("alice@example.com", "x")
	vu, err := entities.NewValidatedUser(dup)
	require.NoError(t, err)
	_, err = repo.Create(ctx, vu)
	assert.ErrorIs(t, err, repositories.ErrConflict)

	require.NoError(t, repo.UpdatePassword(ctx, alice.Id, "new-hash"))
	found, err = repo.FindById(ctx, alice.Id)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", found.Password)

	assert.Error(t, repo.UpdatePassword(ctx, uuid.New(), "x"))
}

func TestProfileRepositoryGetOrCreateIsIdempotent(t *testing.T) {
	repo := NewProfileRepository(openTestDB(t))
	ctx := context.Background()
	userID := uuid.New()

	first, err := repo.GetOrCreate(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, userID, first.UserId)
	assert.Empty(t, first.FullName)

	first.FullName = "Alice"
	_, err = repo.Save(ctx, first)
	require.NoError(t, err)

	second, err := repo.GetOrCreate(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", second.FullName)
}

func TestTaskRepositoryOwnership(t *testing.T) {
	repo := NewTaskRepository(openTestDB(t))
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()
	task := createTask(t, repo, alice, "Buy milk", "2% milk", time.Now().UTC())

	found, err := repo.FindForUser(ctx, bob, task.Id)
	require.NoError(t, err)
	assert.Nil(t, found)

	task.UserId = bob
	task.Title = "stolen"
	updated, err := repo.Update(ctx, task)
	require.NoError(t, err)
	assert.Nil(t, updated)

	deleted, err := repo.DeleteForUser(ctx, bob, task.Id)
	require.NoError(t, err)
	assert.Nil(t, deleted)

	found, err = repo.FindForUser(ctx, alice, task.Id)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Buy milk", found.Title)
}

func TestTaskRepositoryListSearchAndOrder(t *testing.T) {
	repo := NewTaskRepository(openTestDB(t))
	ctx := context.Background()
	owner, other := uuid.New(), uuid.New()
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	createTask(t, repo, owner, "Buy milk", "2% milk", base)
	createTask(t, repo, owner, "Call mom", "Sunday afternoon", base.Add(time.Hour))
	createTask(t, repo, owner, "Apply 100% effort", "work", base.Add(2*time.Hour))
	createTask(t, repo, other, "Buy milk too", "not yours", base.Add(3*time.Hour))

	tasks, total, err := repo.ListForUser(ctx, owner, repositories.TaskFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, []string{"Apply 100% effort", "Call mom", "Buy milk"}, titles(tasks))

	tasks, _, err = repo.ListForUser(ctx, owner, repositories.TaskFilter{OrderBy: "title"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Apply 100% effort", "Buy milk", "Call mom"}, titles(tasks))

	tasks, _, err = repo.ListForUser(ctx, owner, repositories.TaskFilter{OrderBy: "created_at"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Buy milk", "Call mom", "Apply 100% effort"}, titles(tasks))

	tasks, total, err = repo.ListForUser(ctx, owner, repositories.TaskFilter{Search: "MILK"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []string{"Buy milk"}, titles(tasks))

	tasks, _, err = repo.ListForUser(ctx, owner, repositories.TaskFilter{Search: "sunday"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Call mom"}, titles(tasks))

	// ASCII letters fold on every driver; non-ASCII ones only on postgres
	cafe := createTask(t, repo, owner, "Café run", "oat latte", base.Add(-time.Hour))
	tasks, _, err = repo.ListForUser(ctx, owner, repositories.TaskFilter{Search: "CAFé"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Café run"}, titles(tasks))
	_, err = repo.DeleteForUser(ctx, owner, cafe.Id)
	require.NoError(t, err)

	// % is matched literally
	tasks, _, err = repo.ListForUser(ctx, owner, repositories.TaskFilter{Search: "100%"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Apply 100% effort"}, titles(tasks))

	tasks, total, err = repo.ListForUser(ctx, owner, repositories.TaskFilter{OrderBy: "title", Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, []string{"Call mom"}, titles(tasks))

	tasks, _, err = repo.ListForUser(ctx, owner, repositories.TaskFilter{CreatedSince: base.Add(30 * time.Minute)})
	require.NoError(t, err)
	assert.Equal(t, []string{"Apply 100% effort", "Call mom"}, titles(tasks))

	tasks, _, err = repo.ListForUser(ctx, owner, repositories.TaskFilter{OrderBy: "password; DROP TABLE tasks"})
	require.NoError(t, err)
	assert.Len(t, tasks, 3)
}

func TestTaskRepositoryDeleteAll(t *testing.T) {
	repo := NewTaskRepository(openTestDB(t))
	ctx := context.Background()
	owner, other := uuid.New(), uuid.New()
	now := time.Now().UTC()

	withFile := createTask(t, repo, owner, "one", "desc", now)
	withFile.Attachment = "task_attachments/a/one.txt"
	_, err := repo.Update(ctx, withFile)
	require.NoError(t, err)
	createTask(t, repo, owner, "two", "desc", now)
	kept := createTask(t, repo, other, "three", "desc", now)

	count, attachments, err := repo.DeleteAllForUser(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, []string{"task_attachments/a/one.txt"}, attachments)

	_, total, err := repo.ListForUser(ctx, owner, repositories.TaskFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)

	found, err := repo.FindForUser(ctx, other, kept.Id)
	require.NoError(t, err)
	assert.NotNil(t, found)

	count, attachments, err = repo.DeleteAllForUser(ctx, owner)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, attachments)
}

func TestTokenRepositoryBlacklistIsIdempotent(t *testing.T) {
	repo := NewTokenRepository(openTestDB(t))
	ctx := context.Background()
	token := &entities.OutstandingToken{
		JTI:       "abc123",
		UserId:    uuid.New(),
		ExpiresAt: time.Now().Add(time.Hour).UTC(),
		CreatedAt: time.Now().UTC(),
	}

	require.NoError(t, repo.SaveOutstanding(ctx, token))

	hit, err := repo.IsBlacklisted(ctx, token.JTI)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, repo.Blacklist(ctx, token))
	require.NoError(t, repo.Blacklist(ctx, token))

	hit, err = repo.IsBlacklisted(ctx, token.JTI)
	require.NoError(t, err)
	assert.True(t, hit)
}

func titles(tasks []*entities.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Title)
	}
	return out
}
