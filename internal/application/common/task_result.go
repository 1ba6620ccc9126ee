package common

import (
	"io"
	"time"

	"github.com/google/uuid"
)

type TaskResult struct {
	Id          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Attachment  *string   `json:"attachment"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Upload is an attachment received from a client.
type Upload struct {
	Filename string
	Content  io.Reader
}
