package common

import (
	"github.com/google/uuid"
)

// UserResult is the public user summary. It never carries the password.
type UserResult struct {
	Id       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

// Identity is the authenticated caller, threaded explicitly through every
// ownership-scoped operation.
type Identity struct {
	UserID   uuid.UUID
	Username string
	Email    string
}
