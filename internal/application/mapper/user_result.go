package mapper

import (
	"github.com/sarathaj/User-Management/internal/application/common"
	"github.com/sarathaj/User-Management/internal/domain/entities"
)

func NewUserResultFromEntity(user *entities.User) *common.UserResult {
	return &common.UserResult{
		Id:       user.Id,
		Username: user.Username,
		Email:    user.Email,
	}
}

func NewIdentityFromEntity(user *entities.User) *common.Identity {
	return &common.Identity{
		UserID:   user.Id,
		Username: user.Username,
		Email:    user.Email,
	}
}
