package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/sarathaj/User-Management/internal/domain/entities"
)

type ProfileRepository interface {
	// GetOrCreate returns the profile of userID, inserting an empty one when
	// none exists. Calling it repeatedly has the same effect as calling it once.
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*entities.Profile, error)
	Save(ctx context.Context, profile *entities.Profile) (*entities.Profile, error)
}
