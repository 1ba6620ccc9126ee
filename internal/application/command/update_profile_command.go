package command

import "github.com/google/uuid"

// UpdateProfileCommand carries a PUT (Partial false) or PATCH (Partial true).
// A nil field was not supplied; with Partial false it is reset. DateOfBirth
// uses YYYY-MM-DD and an empty string clears it.
type UpdateProfileCommand struct {
	UserID       uuid.UUID
	Email        *string
	FullName     *string
	DateOfBirth  *string
	Address      *string
	Gender       *string
	MobileNumber *string
	Partial      bool
}
