package interfaces

import (
	"context"

	"github.com/google/uuid"
	"github.com/sarathaj/User-Management/internal/application/command"
	"github.com/sarathaj/User-Management/internal/application/common"
	"github.com/sarathaj/User-Management/internal/application/query"
)

// TaskService operations act only on tasks owned by the given identity. A
// task owned by someone else is reported as not found.
type TaskService interface {
	List(ctx context.Context, q *query.ListTasksQuery) (*query.TaskPageResult, error)
	Create(ctx context.Context, cmd *command.CreateTaskCommand) (*common.TaskResult, error)
	Get(ctx context.Context, owner common.Identity, taskID uuid.UUID) (*common.TaskResult, error)
	Update(ctx context.Context, cmd *command.UpdateTaskCommand) (*common.TaskResult, error)
	Delete(ctx context.Context, owner common.Identity, taskID uuid.UUID) error
	Duplicate(ctx context.Context, owner common.Identity, taskID uuid.UUID) (*common.TaskResult, error)
	Recent(ctx context.Context, owner common.Identity) ([]*common.TaskResult, error)
	DeleteAll(ctx context.Context, owner common.Identity) (*command.DeleteAllTasksCommandResult, error)
}
