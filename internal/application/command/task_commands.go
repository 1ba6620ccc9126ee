package command

import (
	"github.com/google/uuid"
	"github.com/sarathaj/User-Management/internal/application/common"
)

type CreateTaskCommand struct {
	Owner       common.Identity
	Title       string
	Description string
	Attachment  *common.Upload
}

// UpdateTaskCommand carries a PUT (Partial false) or PATCH (Partial true).
// PUT requires both Title and Description.
type UpdateTaskCommand struct {
	Owner       common.Identity
	TaskID      uuid.UUID
	Title       *string
	Description *string
	Attachment  *common.Upload
	Partial     bool
}

type DeleteAllTasksCommandResult struct {
	Detail  string `json:"detail"`
	Deleted int64  `json:"deleted"`
}
