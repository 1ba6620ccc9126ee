package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sarathaj/User-Management/internal/domain/entities"
)

// UserRepository finders return (nil, nil) when no row matches.
type UserRepository interface {
	Create(ctx context.Context, user *entities.ValidatedUser) (*entities.User, error)
	FindById(ctx context.Context, id uuid.UUID) (*entities.User, error)
	// FindByEmail matches case-insensitively.
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	// EmailTaken reports whether another user already owns email
	// (case-insensitive). exclude may be uuid.Nil.
	EmailTaken(ctx context.Context, email string, exclude uuid.UUID) (bool, error)
	Update(ctx context.Context, user *entities.ValidatedUser) (*entities.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
}

// ErrConflict is returned when a unique constraint rejects a write.
var ErrConflict = errors.New("record already exists")
