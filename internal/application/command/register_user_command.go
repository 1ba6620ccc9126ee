package command

import "github.com/sarathaj/User-Management/internal/application/common"

type RegisterUserCommand struct {
	Email           string
	Password        string
	PasswordConfirm string
	FullName        string
}

type RegisterUserCommandResult struct {
	Message string             `json:"message"`
	User    *common.UserResult `json:"user"`
}
