package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sarathaj/User-Management/internal/domain/entities"
	"github.com/sarathaj/User-Management/internal/domain/repositories"
	"gorm.io/gorm"
)

// orderable maps accepted ordering keys to columns.
var orderable = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"title":      "title",
}

const defaultTaskOrder = "created_at DESC"

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) repositories.TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *entities.Task) (*entities.Task, error) {
	model := toTaskModel(task)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return nil, err
	}
	return mapToTaskEntity(&model), nil
}

func (r *TaskRepository) FindForUser(ctx context.Context, userID, taskID uuid.UUID) (*entities.Task, error) {
	var model TaskModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", taskID, userID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mapToTaskEntity(&model), nil
}

func (r *TaskRepository) ListForUser(ctx context.Context, userID uuid.UUID, filter repositories.TaskFilter) ([]*entities.Task, int64, error) {
	base := r.db.WithContext(ctx).Model(&TaskModel{}).Where("user_id = ?", userID)
	base = applySearch(base, filter.Search)
	if !filter.CreatedSince.IsZero() {
		base = base.Where("created_at >= ?", filter.CreatedSince.UTC())
	}
	// count and page queries share the filter without sharing statements
	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := base.Order(orderClause(filter.OrderBy)).Order("id")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var models []TaskModel
	if err := q.Find(&models).Error; err != nil {
		return nil, 0, err
	}
	tasks := make([]*entities.Task, 0, len(models))
	for i := range models {
		tasks = append(tasks, mapToTaskEntity(&models[i]))
	}
	return tasks, total, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *entities.Task) (*entities.Task, error) {
	res := r.db.WithContext(ctx).Model(&TaskModel{}).
		Where("id = ? AND user_id = ?", task.Id, task.UserId).
		Updates(map[string]any{
			"title":       task.Title,
			"description": task.Description,
			"attachment":  task.Attachment,
			"updated_at":  task.UpdatedAt,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return r.FindForUser(ctx, task.UserId, task.Id)
}

func (r *TaskRepository) DeleteForUser(ctx context.Context, userID, taskID uuid.UUID) (*entities.Task, error) {
	var deleted *entities.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model TaskModel
		if err := tx.Where("id = ? AND user_id = ?", taskID, userID).First(&model).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := tx.Delete(&TaskModel{}, "id = ? AND user_id = ?", taskID, userID).Error; err != nil {
			return err
		}
		deleted = mapToTaskEntity(&model)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

func (r *TaskRepository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, []string, error) {
	var (
		count       int64
		attachments []string
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&TaskModel{}).
			Where("user_id = ? AND attachment <> ''", userID).
			Pluck("attachment", &attachments).Error; err != nil {
			return err
		}
		res := tx.Where("user_id = ?", userID).Delete(&TaskModel{})
		if res.Error != nil {
			return res.Error
		}
		count = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, nil, err
	}
	return count, attachments, nil
}

// applySearch requires every whitespace-separated term to appear in the title
// or the description, ignoring case.
func applySearch(q *gorm.DB, search string) *gorm.DB {
	for _, term := range strings.Fields(search) {
		pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
		q = q.Where("(LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(description) LIKE ? ESCAPE '\\')", pattern, pattern)
	}
	return q
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// orderClause turns "title" or "-created_at" into SQL. Unknown keys fall back
// to newest first.
func orderClause(orderBy string) string {
	key := strings.TrimSpace(orderBy)
	dir := "ASC"
	if strings.HasPrefix(key, "-") {
		dir = "DESC"
		key = key[1:]
	}
	col, ok := orderable[key]
	if !ok {
		return defaultTaskOrder
	}
	return col + " " + dir
}

func toTaskModel(t *entities.Task) TaskModel {
	return TaskModel{
		Id:          t.Id,
		UserId:      t.UserId,
		Title:       t.Title,
		Description: t.Description,
		Attachment:  t.Attachment,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func mapToTaskEntity(m *TaskModel) *entities.Task {
	return &entities.Task{
		Id:          m.Id,
		UserId:      m.UserId,
		Title:       m.Title,
		Description: m.Description,
		Attachment:  m.Attachment,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
