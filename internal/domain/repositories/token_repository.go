package repositories

import (
	"context"

	"github.com/sarathaj/User-Management/internal/domain/entities"
)

// TokenRepository persists issued refresh tokens and the revocation list.
// Blacklist entries are only ever added.
type TokenRepository interface {
	SaveOutstanding(ctx context.Context, token *entities.OutstandingToken) error
	Blacklist(ctx context.Context, token *entities.OutstandingToken) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}
