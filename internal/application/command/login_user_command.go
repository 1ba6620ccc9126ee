package command

import "github.com/sarathaj/User-Management/internal/application/common"

type LoginUserCommand struct {
	Email    string
	Password string
}

type LoginUserCommandResult struct {
	Refresh string             `json:"refresh"`
	Access  string             `json:"access"`
	User    *common.UserResult `json:"user"`
}
