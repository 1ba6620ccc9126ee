package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sarathaj/User-Management/internal/apperrors"
	"github.com/sarathaj/User-Management/internal/application/command"
	"github.com/sarathaj/User-Management/internal/application/common"
	"github.com/sarathaj/User-Management/internal/application/query"
	"github.com/sarathaj/User-Management/internal/domain/entities"
	"github.com/sarathaj/User-Management/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTask(t *testing.T, env *testEnv, owner common.Identity, title, description string) *common.TaskResult {
	t.Helper()
	task, err := env.tasks.Create(context.Background(), &command.CreateTaskCommand{
		Owner:       owner,
		Title:       title,
		Description: description,
	})
	require.NoError(t, err)
	return task
}

// storedPath maps an attachment URL back to its path under the media root.
func storedPath(url *string) string {
	if url == nil {
		return ""
	}
	return strings.TrimPrefix(*url, "/media/")
}

func TestCreateTask(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice@example.com")

	task := createTask(t, env, alice, "Buy milk", "2% milk")
	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, "2% milk", task.Description)
	assert.Nil(t, task.Attachment)
	assert.Contains(t, env.publisher.Events(), messaging.EventTaskCreated)

	_, err := env.tasks.Create(context.Background(), &command.CreateTaskCommand{Owner: alice, Title: " "})
	fields := fieldsOf(t, err)
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "description")
}

func TestCreateTaskWithAttachment(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice@example.com")

	task, err := env.tasks.Create(context.Background(), &command.CreateTaskCommand{
		Owner:       alice,
		Title:       "Groceries",
		Description: "see list",
		Attachment:  &common.Upload{Filename: "list.txt", Content: strings.NewReader("milk, eggs")},
	})
	require.NoError(t, err)
	require.NotNil(t, task.Attachment)
	assert.Equal(t, "/media/task_attachments/alice@example.com/list.txt", *task.Attachment)
	assert.True(t, env.files.Exists(storedPath(task.Attachment)))
}

func TestCreateTaskRejectsOversizedAttachment(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice@example.com")

	_, err := env.tasks.Create(context.Background(), &command.CreateTaskCommand{
		Owner:       alice,
		Title:       "Big",
		Description: "too big",
		Attachment:  &common.Upload{Filename: "big.bin", Content: strings.NewReader(strings.Repeat("x", 1<<20+1))},
	})
	assert.Contains(t, fieldsOf(t, err), "attachment")
}

func TestTasksAreScopedToOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice@example.com")
	bob := env.register(t, "bob@example.com")
	task := createTask(t, env, alice, "Buy milk", "2% milk")

	_, err := env.tasks.Get(ctx, bob, task.Id)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = env.tasks.Update(ctx, &command.UpdateTaskCommand{Owner: bob, TaskID: task.Id, Title: strPtr("mine"), Partial: true})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = env.tasks.Duplicate(ctx, bob, task.Id)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.ErrorIs(t, env.tasks.Delete(ctx, bob, task.Id), apperrors.ErrNotFound)

	page, err := env.tasks.List(ctx, &query.ListTasksQuery{Owner: bob})
	require.NoError(t, err)
	assert.Zero(t, page.Count)

	got, err := env.tasks.Get(ctx, alice, task.Id)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", got.Title)

	_, err = env.tasks.Get(ctx, alice, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdateTask(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice@example.com")
	task := createTask(t, env, alice, "Buy milk", "2% milk")

	_, err := env.tasks.Update(ctx, &command.UpdateTaskCommand{Owner: alice, TaskID: task.Id, Title: strPtr("Buy oat milk")})
	assert.Equal(t, []string{msgRequired}, fieldsOf(t, err)["description"])

	updated, err := env.tasks.Update(ctx, &command.UpdateTaskCommand{Owner: alice, TaskID: task.Id, Title: strPtr("Buy oat milk"), Partial: true})
	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", updated.Title)
	assert.Equal(t, "2% milk", updated.Description)

	updated, err = env.tasks.Update(ctx, &command.UpdateTaskCommand{
		Owner:       alice,
		TaskID:      task.Id,
		Title:       strPtr("Buy bread"),
		Description: strPtr("sourdough"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Buy bread", updated.Title)
	assert.Equal(t, "sourdough", updated.Description)

	_, err = env.tasks.Update(ctx, &command.UpdateTaskCommand{Owner: alice, TaskID: task.Id, Description: strPtr(""), Partial: true})
	assert.Contains(t, fieldsOf(t, err), "description")
}

func TestUpdateTaskReplacesAttachment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice@example.com")

	task, err := env.tasks.Create(ctx, &command.CreateTaskCommand{
		Owner:       alice,
		Title:       "Groceries",
		Description: "see list",
		Attachment:  &common.Upload{Filename: "list.txt", Content: strings.NewReader("v1")},
	})
	require.NoError(t, err)
	oldPath := storedPath(task.Attachment)

	updated, err := env.tasks.Update(ctx, &command.UpdateTaskCommand{
		Owner:      alice,
		TaskID:     task.Id,
		Attachment: &common.Upload{Filename: "list.txt", Content: strings.NewReader("v2")},
		Partial:    true,
	})
	require.NoError(t, err)
	newPath := storedPath(updated.Attachment)

	assert.NotEqual(t, oldPath, newPath)
	assert.False(t, env.files.Exists(oldPath))
	assert.True(t, env.files.Exists(newPath))
}

func TestDeleteTaskRemovesAttachment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice@example.com")

	task, err := env.tasks.Create(ctx, &command.CreateTaskCommand{
		Owner:       alice,
		Title:       "Groceries",
		Description: "see list",
		Attachment:  &common.Upload{Filename: "list.txt", Content: strings.NewReader("milk")},
	})
	require.NoError(t, err)
	path := storedPath(task.Attachment)

	require.NoError(t, env.tasks.Delete(ctx, alice, task.Id))
	assert.False(t, env.files.Exists(path))
	assert.Contains(t, env.publisher.Events(), messaging.EventTaskDeleted)

	assert.ErrorIs(t, env.tasks.Delete(ctx, alice, task.Id), apperrors.ErrNotFound)
}

func TestDeleteTaskToleratesMissingFile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice@example.com")

	task, err := env.tasks.Create(ctx, &command.CreateTaskCommand{
		Owner:       alice,
		Title:       "Groceries",
		Description: "see list",
		Attachment:  &common.Upload{Filename: "list.txt", Content: strings.NewReader("milk")},
	})
	require.NoError(t, err)
	require.NoError(t, env.files.Remove(storedPath(task.Attachment)))

	assert.NoError(t, env.tasks.Delete(ctx, alice, task.Id))
}

func TestDuplicateTask(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice@example.com")

	task, err := env.tasks.Create(ctx, &command.CreateTaskCommand{
		Owner:       alice,
		Title:       "Buy milk",
		Description: "2% milk",
		Attachment:  &common.Upload{Filename: "list.txt", Content: strings.NewReader("milk")},
	})
	require.NoError(t, err)

	dup, err := env.tasks.Duplicate(ctx, alice, task.Id)
	require.NoError(t, err)
	assert.NotEqual(t, task.Id, dup.Id)
	assert.Equal(t, "Buy milk (Copy)", dup.Title)
	assert.Equal(t, "2% milk", dup.Description)
	assert.Nil(t, dup.Attachment)

	page, err := env.tasks.List(ctx, &query.ListTasksQuery{Owner: alice})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Count)
}

func TestListTasksPagination(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice@example.com")
	for i := 0; i < 12; i++ {
		createTask(t, env, alice, fmt.Sprintf("task %02d", i), "desc")
	}

	first, err := env.tasks.List(ctx, &query.ListTasksQuery{Owner: alice, Ordering: "title"})
	require.NoError(t, err)
	assert.Equal(t, int64(12), first.Count)
	assert.Len(t, first.Results, query.DefaultPageSize)
	assert.Equal(t, "task 00", first.Results[0].Title)
	assert.True(t, first.HasNext())
	assert.False(t, first.HasPrevious())

	second, err := env.tasks.List(ctx, &query.ListTasksQuery{Owner: alice, Ordering: "title", Page: 2})
	require.NoError(t, err)
	require.Len(t, second.Results, 2)
	assert.Equal(t, "task 10", second.Results[0].Title)
	assert.False(t, second.HasNext())
	assert.True(t, second.HasPrevious())

	_, err = env.tasks.List(ctx, &query.ListTasksQuery{Owner: alice, Page: 3})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = env.tasks.List(ctx, &query.ListTasksQuery{Owner: alice, Page: -1})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = env.tasks.List(ctx, &query.ListTasksQuery{Owner: alice, Page: 1_000_000_000_000_000_000})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = env.tasks.List(ctx, &query.ListTasksQuery{Owner: alice, Page: math.MaxInt, PageSize: query.MaxPageSize})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	all, err := env.tasks.List(ctx, &query.ListTasksQuery{Owner: alice, PageSize: 1000})
	require.NoError(t, err)
	assert.Equal(t, query.MaxPageSize, all.PageSize)
	assert.Len(t, all.Results, 12)

	// every term must match
	found, err := env.tasks.List(ctx, &query.ListTasksQuery{Owner: alice, Search: "TASK 1"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), found.Count)
}

func TestListEmptyFirstPage(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice@example.com")

	page, err := env.tasks.List(context.Background(), &query.ListTasksQuery{Owner: alice, Page: 1})
	require.NoError(t, err)
	assert.Zero(t, page.Count)
	assert.Empty(t, page.Results)
	assert.False(t, page.HasNext())
}

func TestRecentTasks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice@example.com")
	now := time.Now().UTC()

	old, err := entities.NewTask(alice.UserID, "old", "desc")
	require.NoError(t, err)
	old.CreatedAt = now.Add(-8 * 24 * time.Hour)
	old.UpdatedAt = old.CreatedAt
	_, err = env.taskRepo.Create(ctx, old)
	require.NoError(t, err)

	edge, err := entities.NewTask(alice.UserID, "six days", "desc")
	require.NoError(t, err)
	edge.CreatedAt = now.Add(-6 * 24 * time.Hour)
	edge.UpdatedAt = edge.CreatedAt
	_, err = env.taskRepo.Create(ctx, edge)
	require.NoError(t, err)

	createTask(t, env, alice, "today", "desc")

	recent, err := env.tasks.Recent(ctx, alice)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "today", recent[0].Title)
	assert.Equal(t, "six days", recent[1].Title)
}

func TestDeleteAllTasks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice@example.com")
	bob := env.register(t, "bob@example.com")

	withFile, err := env.tasks.Create(ctx, &command.CreateTaskCommand{
		Owner:       alice,
		Title:       "Groceries",
		Description: "see list",
		Attachment:  &common.Upload{Filename: "list.txt", Content: strings.NewReader("milk")},
	})
	require.NoError(t, err)
	createTask(t, env, alice, "second", "desc")
	bobTask := createTask(t, env, bob, "bob's", "desc")

	result, err := env.tasks.DeleteAll(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Deleted)
	assert.Equal(t, "2 tasks were deleted.", result.Detail)
	assert.False(t, env.files.Exists(storedPath(withFile.Attachment)))
	assert.Contains(t, env.publisher.Events(), messaging.EventTasksDeletedAll)

	_, err = env.tasks.Get(ctx, bob, bobTask.Id)
	assert.NoError(t, err)

	result, err = env.tasks.DeleteAll(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "0 tasks were deleted.", result.Detail)
}
