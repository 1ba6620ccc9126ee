package mapper

import (
	"github.com/sarathaj/User-Management/internal/application/common"
	"github.com/sarathaj/User-Management/internal/domain/entities"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

func NewProfileResultFromEntity(user *entities.User, profile *entities.Profile) *common.ProfileResult {
	result := &common.ProfileResult{
		Username:     user.Username,
		Email:        user.Email,
		FullName:     profile.FullName,
		Address:      profile.Address,
		Gender:       profile.Gender,
		MobileNumber: profile.MobileNumber,
		CreatedAt:    profile.CreatedAt,
		UpdatedAt:    profile.UpdatedAt,
	}
	if profile.DateOfBirth != nil {
		dob := profile.DateOfBirth.Format(DateLayout)
		result.DateOfBirth = &dob
	}
	return result
}
