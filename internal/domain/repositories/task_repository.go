package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sarathaj/User-Management/internal/domain/entities"
)

// TaskFilter narrows a task listing. The owner is always passed separately.
type TaskFilter struct {
	Search       string
	OrderBy      string // column, optionally prefixed with "-"
	CreatedSince time.Time
	Limit        int
	Offset       int
}

// TaskRepository scopes every read and write to the owner given as userID.
// A task owned by somebody else behaves exactly like a missing one.
type TaskRepository interface {
	Create(ctx context.Context, task *entities.Task) (*entities.Task, error)
	FindForUser(ctx context.Context, userID, taskID uuid.UUID) (*entities.Task, error)
	ListForUser(ctx context.Context, userID uuid.UUID, filter TaskFilter) ([]*entities.Task, int64, error)
	Update(ctx context.Context, task *entities.Task) (*entities.Task, error)
	// DeleteForUser removes one task and returns the removed record, or nil
	// when nothing matched.
	DeleteForUser(ctx context.Context, userID, taskID uuid.UUID) (*entities.Task, error)
	// DeleteAllForUser removes every task of userID in one transaction and
	// returns the attachment paths of the removed rows.
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, []string, error)
}
