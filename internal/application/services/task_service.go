package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sarathaj/User-Management/internal/apperrors"
	"github.com/sarathaj/User-Management/internal/application/command"
	"github.com/sarathaj/User-Management/internal/application/common"
	"github.com/sarathaj/User-Management/internal/application/interfaces"
	"github.com/sarathaj/User-Management/internal/application/mapper"
	"github.com/sarathaj/User-Management/internal/application/query"
	"github.com/sarathaj/User-Management/internal/domain/entities"
	"github.com/sarathaj/User-Management/internal/domain/repositories"
	"github.com/sarathaj/User-Management/internal/infrastructure/storage"
	"github.com/sarathaj/User-Management/internal/messaging"
)

type TaskService struct {
	taskRepo  repositories.TaskRepository
	files     *storage.FileStorage
	publisher messaging.Publisher
	now       func() time.Time
}

func NewTaskService(
	taskRepo repositories.TaskRepository,
	files *storage.FileStorage,
	publisher messaging.Publisher,
) interfaces.TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		files:     files,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *TaskService) List(ctx context.Context, q *query.ListTasksQuery) (*query.TaskPageResult, error) {
	page := q.Page
	if page == 0 {
		page = 1
	}
	if page < 0 {
		return nil, apperrors.NotFound()
	}
	size := q.PageSize
	switch {
	case size <= 0:
		size = query.DefaultPageSize
	case size > query.MaxPageSize:
		size = query.MaxPageSize
	}

	// an offset that does not fit in an int lies past any table
	if page-1 > math.MaxInt/size {
		return nil, apperrors.NotFound()
	}

	tasks, total, err := s.taskRepo.ListForUser(ctx, q.Owner.UserID, repositories.TaskFilter{
		Search:  q.Search,
		OrderBy: q.Ordering,
		Limit:   size,
		Offset:  (page - 1) * size,
	})
	if err != nil {
		return nil, err
	}

	result := &query.TaskPageResult{
		Count:    total,
		Page:     page,
		PageSize: size,
		Results:  mapper.NewTaskResultsFromEntities(tasks, s.files.URL),
	}
	if int64(page) > result.Pages() {
		return nil, apperrors.NotFound()
	}
	return result, nil
}

func (s *TaskService) Create(ctx context.Context, cmd *command.CreateTaskCommand) (*common.TaskResult, error) {
	task, err := entities.NewTask(cmd.Owner.UserID, cmd.Title, cmd.Description)
	if err != nil {
		return nil, validationFromEntity(err)
	}

	if cmd.Attachment != nil {
		rel, err := s.saveAttachment(cmd.Owner, cmd.Attachment)
		if err != nil {
			return nil, err
		}
		task.Attachment = rel
	}

	created, err := s.taskRepo.Create(ctx, task)
	if err != nil {
		s.removeFile(task.Attachment)
		return nil, err
	}

	publishEvent(ctx, s.publisher, messaging.EventTaskCreated, map[string]any{
		"task_id": created.Id,
		"user_id": created.UserId,
	})
	return mapper.NewTaskResultFromEntity(created, s.files.URL), nil
}

func (s *TaskService) Get(ctx context.Context, owner common.Identity, taskID uuid.UUID) (*common.TaskResult, error) {
	task, err := s.find(ctx, owner, taskID)
	if err != nil {
		return nil, err
	}
	return mapper.NewTaskResultFromEntity(task, s.files.URL), nil
}

func (s *TaskService) Update(ctx context.Context, cmd *command.UpdateTaskCommand) (*common.TaskResult, error) {
	task, err := s.find(ctx, cmd.Owner, cmd.TaskID)
	if err != nil {
		return nil, err
	}

	if !cmd.Partial {
		var errs apperrors.Collector
		if cmd.Title == nil {
			errs.Add("title", msgRequired)
		}
		if cmd.Description == nil {
			errs.Add("description", msgRequired)
		}
		if err := errs.Err(); err != nil {
			return nil, err
		}
	}
	if err := task.Apply(entities.TaskFields{Title: cmd.Title, Description: cmd.Description}); err != nil {
		return nil, validationFromEntity(err)
	}

	previous := task.Attachment
	if cmd.Attachment != nil {
		rel, err := s.saveAttachment(cmd.Owner, cmd.Attachment)
		if err != nil {
			return nil, err
		}
		task.Attachment = rel
	}

	updated, err := s.taskRepo.Update(ctx, task)
	if err != nil || updated == nil {
		if task.Attachment != previous {
			s.removeFile(task.Attachment)
		}
		if err != nil {
			return nil, err
		}
		return nil, apperrors.NotFound()
	}
	if updated.Attachment != previous {
		s.removeFile(previous)
	}
	return mapper.NewTaskResultFromEntity(updated, s.files.URL), nil
}

func (s *TaskService) Delete(ctx context.Context, owner common.Identity, taskID uuid.UUID) error {
	deleted, err := s.taskRepo.DeleteForUser(ctx, owner.UserID, taskID)
	if err != nil {
		return err
	}
	if deleted == nil {
		return apperrors.NotFound()
	}
	s.removeFile(deleted.Attachment)

	publishEvent(ctx, s.publisher, messaging.EventTaskDeleted, map[string]any{
		"task_id": deleted.Id,
		"user_id": deleted.UserId,
	})
	return nil
}

func (s *TaskService) Duplicate(ctx context.Context, owner common.Identity, taskID uuid.UUID) (*common.TaskResult, error) {
	task, err := s.find(ctx, owner, taskID)
	if err != nil {
		return nil, err
	}
	created, err := s.taskRepo.Create(ctx, task.Duplicate())
	if err != nil {
		return nil, err
	}
	publishEvent(ctx, s.publisher, messaging.EventTaskCreated, map[string]any{
		"task_id":     created.Id,
		"user_id":     created.UserId,
		"copied_from": task.Id,
	})
	return mapper.NewTaskResultFromEntity(created, s.files.URL), nil
}

func (s *TaskService) Recent(ctx context.Context, owner common.Identity) ([]*common.TaskResult, error) {
	tasks, _, err := s.taskRepo.ListForUser(ctx, owner.UserID, repositories.TaskFilter{
		CreatedSince: s.now().UTC().Add(-entities.RecentWindow),
	})
	if err != nil {
		return nil, err
	}
	return mapper.NewTaskResultsFromEntities(tasks, s.files.URL), nil
}

func (s *TaskService) DeleteAll(ctx context.Context, owner common.Identity) (*command.DeleteAllTasksCommandResult, error) {
	count, attachments, err := s.taskRepo.DeleteAllForUser(ctx, owner.UserID)
	if err != nil {
		return nil, err
	}
	for _, rel := range attachments {
		s.removeFile(rel)
	}

	publishEvent(ctx, s.publisher, messaging.EventTasksDeletedAll, map[string]any{
		"user_id": owner.UserID,
		"count":   count,
	})
	return &command.DeleteAllTasksCommandResult{
		Detail:  fmt.Sprintf("%d tasks were deleted.", count),
		Deleted: count,
	}, nil
}

func (s *TaskService) find(ctx context.Context, owner common.Identity, taskID uuid.UUID) (*entities.Task, error) {
	task, err := s.taskRepo.FindForUser(ctx, owner.UserID, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, apperrors.NotFound()
	}
	return task, nil
}

func (s *TaskService) saveAttachment(owner common.Identity, upload *common.Upload) (string, error) {
	rel, err := s.files.SaveAttachment(owner.Username, upload.Filename, upload.Content)
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			return "", apperrors.Validation("attachment", "The submitted file is too large.")
		}
		return "", err
	}
	return rel, nil
}

// removeFile is the cleanup step shared by every path that drops a stored
// attachment. The record is already gone, so failures are only logged.
func (s *TaskService) removeFile(rel string) {
	if rel == "" {
		return
	}
	if err := s.files.Remove(rel); err != nil {
		log.Printf("Failed to remove attachment %s: %v", rel, err)
	}
}

// validationFromEntity converts entity field errors into a validation error.
func validationFromEntity(err error) error {
	fieldErrs := entities.FieldErrors(err)
	if len(fieldErrs) == 0 {
		return err
	}
	var errs apperrors.Collector
	for _, fe := range fieldErrs {
		errs.Add(fe.Field, fe.Message)
	}
	return errs.Err()
}
