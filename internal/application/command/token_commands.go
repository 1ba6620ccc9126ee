package command

import "github.com/google/uuid"

type RefreshTokenCommand struct {
	Refresh string
}

type RefreshTokenCommandResult struct {
	Access string `json:"access"`
}

// LogoutCommand revokes Refresh on behalf of the authenticated UserID.
type LogoutCommand struct {
	UserID  uuid.UUID
	Refresh string
}
