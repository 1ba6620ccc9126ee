package command

import "github.com/google/uuid"

type ResetPasswordCommand struct {
	UserID             uuid.UUID
	OldPassword        string
	NewPassword        string
	NewPasswordConfirm string
}
