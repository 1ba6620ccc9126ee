package entities

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MaxTitleLength = 200
	CopySuffix     = " (Copy)"
	RecentWindow   = 7 * 24 * time.Hour
)

type Task struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	Title       string
	Description string
	Attachment  string // path relative to the media root, empty when none
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewTask(userID uuid.UUID, title, description string) (*Task, error) {
	now := time.Now().UTC()
	t := &Task{
		Id:          uuid.New(),
		UserId:      userID,
		Title:       strings.TrimSpace(title),
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks the title and description. Title and description are
// required; only the title has a length cap.
func (t *Task) Validate() error {
	var errs []error
	if t.UserId == uuid.Nil {
		errs = append(errs, errors.New("user: task must have an owner"))
	}
	if t.Title == "" {
		errs = append(errs, &FieldError{Field: "title", Message: "This field may not be blank."})
	} else if len([]rune(t.Title)) > MaxTitleLength {
		errs = append(errs, &FieldError{Field: "title", Message: "Ensure this field has no more than 200 characters."})
	}
	if strings.TrimSpace(t.Description) == "" {
		errs = append(errs, &FieldError{Field: "description", Message: "This field may not be blank."})
	}
	return errors.Join(errs...)
}

// Duplicate returns a new task with the same owner, a suffixed title and the
// same description. The attachment is not carried over.
func (t *Task) Duplicate() *Task {
	now := time.Now().UTC()
	title := t.Title + CopySuffix
	if r := []rune(title); len(r) > MaxTitleLength {
		title = string(r[:MaxTitleLength])
	}
	return &Task{
		Id:          uuid.New(),
		UserId:      t.UserId,
		Title:       title,
		Description: t.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// TaskFields holds the writable task attributes. A nil pointer means the
// field was not supplied.
type TaskFields struct {
	Title       *string
	Description *string
}

func (t *Task) Apply(f TaskFields) error {
	if f.Title != nil {
		t.Title = strings.TrimSpace(*f.Title)
	}
	if f.Description != nil {
		t.Description = *f.Description
	}
	t.UpdatedAt = time.Now().UTC()
	return t.Validate()
}

// FieldError is a validation failure attached to a single field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// FieldErrors unpacks the FieldErrors contained in err, including those
// joined with errors.Join.
func FieldErrors(err error) []*FieldError {
	if err == nil {
		return nil
	}
	var out []*FieldError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, FieldErrors(e)...)
		}
		return out
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		out = append(out, fe)
	}
	return out
}
