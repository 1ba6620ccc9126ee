package entities

import (
	"time"

	"github.com/google/uuid"
)

type Profile struct {
	UserId       uuid.UUID
	FullName     string
	DateOfBirth  *time.Time
	Address      string
	Gender       string
	MobileNumber string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewProfile returns an empty profile owned by userID.
func NewProfile(userID uuid.UUID) *Profile {
	now := time.Now().UTC()
	return &Profile{
		UserId:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ProfileFields holds the writable profile attributes. A nil pointer means the
// field was not supplied.
type ProfileFields struct {
	FullName     *string
	DateOfBirth  **time.Time
	Address      *string
	Gender       *string
	MobileNumber *string
}

// Apply copies the supplied fields onto the profile.
func (p *Profile) Apply(f ProfileFields) {
	if f.FullName != nil {
		p.FullName = *f.FullName
	}
	if f.DateOfBirth != nil {
		p.DateOfBirth = *f.DateOfBirth
	}
	if f.Address != nil {
		p.Address = *f.Address
	}
	if f.Gender != nil {
		p.Gender = *f.Gender
	}
	if f.MobileNumber != nil {
		p.MobileNumber = *f.MobileNumber
	}
	p.UpdatedAt = time.Now().UTC()
}

// Replace overwrites every writable field.
func (p *Profile) Replace(f ProfileFields) {
	p.FullName, p.Address, p.Gender, p.MobileNumber = "", "", "", ""
	p.DateOfBirth = nil
	p.Apply(f)
}
