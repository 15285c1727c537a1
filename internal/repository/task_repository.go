package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"project-planner/internal/model"
)

// TaskRepository handles CRUD for tasks. Ownership is checked through the task's project.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// ListByProject returns open tasks first, each group ordered by due date with undated tasks last.
func (r *TaskRepository) ListByProject(ctx context.Context, projectID uint) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).
		Order("is_completed ASC, due_date IS NULL, due_date ASC, id ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindOwned returns the task if its project belongs to userID.
func (r *TaskRepository) FindOwned(ctx context.Context, taskID, userID uint) (*model.Task, error) {
	db := r.db.WithContext(ctx)
	owned := db.Model(&model.Project{}).Select("id").Where("user_id = ?", userID)

	var task model.Task
	if err := db.Where("id = ? AND project_id IN (?)", taskID, owned).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// Save writes title, due date and completion of an existing task.
func (r *TaskRepository) Save(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Model(task).
		Select("title", "due_date", "is_completed").
		Updates(map[string]interface{}{
			"title":        task.Title,
			"due_date":     task.DueDate,
			"is_completed": task.IsCompleted,
		}).Error; err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Delete(task).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
