package rest

// Request bodies, one per operation.

type registerRequest struct {
	Email           string `json:"email" validate:"required,email,max=254"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
	FullName        string `json:"full_name" validate:"max=255"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type logoutRequest struct {
	Refresh string `json:"refresh"`
}

type resetPasswordRequest struct {
	OldPassword        string `json:"old_password" validate:"required"`
	NewPassword        string `json:"new_password" validate:"required"`
	NewPasswordConfirm string `json:"new_password_confirm" validate:"required"`
}

// profileRequest uses pointers so that PATCH can tell absent from empty.
type profileRequest struct {
	Email        *string `json:"email" validate:"omitempty,max=254"`
	FullName     *string `json:"full_name" validate:"omitempty,max=255"`
	DateOfBirth  *string `json:"date_of_birth"`
	Address      *string `json:"address"`
	Gender       *string `json:"gender" validate:"omitempty,max=20"`
	MobileNumber *string `json:"mobile_number" validate:"omitempty,max=20"`
}

type taskRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description"`
}
