package entities

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	Id        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
	Username  string
	Email     string
	Password  string
	IsActive  bool
}

// NewUser builds an active user whose username is derived from the email.
// The password is kept in plain text until HashPassword is called.
func NewUser(email, password string) *User {
	now := time.Now().UTC()
	email = NormalizeEmail(email)
	return &User{
		Id:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
		Username:  email,
		Email:     email,
		Password:  password,
		IsActive:  true,
	}
}

// NormalizeEmail lower-cases the domain part and trims whitespace. The local
// part is left alone so that stored addresses stay as typed by the user.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}

// ValidEmail reports whether email parses as a bare address.
func ValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func (u *User) validate() error {
	if u.Username == "" {
		return errors.New("username must not be empty")
	}
	if u.Email == "" {
		return errors.New("email must not be empty")
	}
	if !ValidEmail(u.Email) {
		return errors.New("email must be a valid address")
	}
	if u.Password == "" {
		return errors.New("password must not be empty")
	}
	if u.CreatedAt.After(u.UpdatedAt) {
		return errors.New("created_at must be before updated_at")
	}
	return nil
}

func (u *User) HashPassword() error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
}

// SetPassword replaces the stored hash.
func (u *User) SetPassword(password string) error {
	u.Password = password
	if err := u.HashPassword(); err != nil {
		return err
	}
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// ChangeEmail updates the email. The username follows the email only when it
// was derived from it in the first place.
func (u *User) ChangeEmail(email string) error {
	email = NormalizeEmail(email)
	if strings.EqualFold(u.Username, u.Email) {
		u.Username = email
	}
	u.Email = email
	u.UpdatedAt = time.Now().UTC()
	return u.validate()
}

func (u *User) Deactivate() {
	u.IsActive = false
	u.UpdatedAt = time.Now().UTC()
}
