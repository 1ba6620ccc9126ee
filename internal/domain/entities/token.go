package entities

import (
	"time"

	"github.com/google/uuid"
)

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

// TokenPair is returned on login.
type TokenPair struct {
	Access  string
	Refresh string
}

// TokenClaims is the validated content of a signed token.
type TokenClaims struct {
	UserId    uuid.UUID
	Type      TokenType
	JTI       string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// OutstandingToken records an issued refresh token.
type OutstandingToken struct {
	JTI       string
	UserId    uuid.UUID
	ExpiresAt time.Time
	CreatedAt time.Time
}
