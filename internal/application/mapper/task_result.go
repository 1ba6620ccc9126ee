package mapper

import (
	"github.com/sarathaj/User-Management/internal/application/common"
	"github.com/sarathaj/User-Management/internal/domain/entities"
)

// NewTaskResultFromEntity maps a task; attachmentURL turns the stored
// relative path into a public location.
func NewTaskResultFromEntity(task *entities.Task, attachmentURL func(string) string) *common.TaskResult {
	result := &common.TaskResult{
		Id:          task.Id,
		Title:       task.Title,
		Description: task.Description,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
	if task.Attachment != "" {
		url := task.Attachment
		if attachmentURL != nil {
			url = attachmentURL(task.Attachment)
		}
		result.Attachment = &url
	}
	return result
}

func NewTaskResultsFromEntities(tasks []*entities.Task, attachmentURL func(string) string) []*common.TaskResult {
	results := make([]*common.TaskResult, 0, len(tasks))
	for _, t := range tasks {
		results = append(results, NewTaskResultFromEntity(t, attachmentURL))
	}
	return results
}
