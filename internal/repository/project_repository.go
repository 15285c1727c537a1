package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"project-planner/internal/model"
)

// ProjectRepository manages projects. Every lookup is scoped by the owning user,
// so another user's project is indistinguishable from a missing one.
type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, project *model.Project) error {
	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

// ListByUser returns the user's projects, newest first, with task counters.
func (r *ProjectRepository) ListByUser(ctx context.Context, userID uint) ([]model.ProjectStats, error) {
	var projects []model.Project
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Tasks").
		Order("created_at DESC, id DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}

	stats := make([]model.ProjectStats, 0, len(projects))
	for _, p := range projects {
		s := model.ProjectStats{Project: p, TaskCount: len(p.Tasks)}
		for _, t := range p.Tasks {
			if t.IsCompleted {
				s.CompletedTaskCount++
			}
		}
		stats = append(stats, s)
	}
	return stats, nil
}

// FindOwned returns the project without its tasks.
func (r *ProjectRepository) FindOwned(ctx context.Context, projectID, userID uint) (*model.Project, error) {
	var project model.Project
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", projectID, userID).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// LoadOwnedProject returns the project with all of its tasks, or gorm.ErrRecordNotFound
// when it does not exist or belongs to someone else.
func (r *ProjectRepository) LoadOwnedProject(ctx context.Context, projectID, userID uint) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", projectID, userID).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_completed ASC, due_date IS NULL, due_date ASC, id ASC")
		}).
		First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepository) Update(ctx context.Context, project *model.Project) error {
	if err := r.db.WithContext(ctx).Model(project).
		Select("title", "description").
		Updates(map[string]interface{}{
			"title":       project.Title,
			"description": project.Description,
		}).Error; err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return nil
}

// Delete removes the project and its tasks.
func (r *ProjectRepository) Delete(ctx context.Context, projectID, userID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project model.Project
		if err := tx.Where("id = ? AND user_id = ?", projectID, userID).First(&project).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&model.Task{}).Error; err != nil {
			return fmt.Errorf("delete project tasks: %w", err)
		}
		if err := tx.Delete(&project).Error; err != nil {
			return fmt.Errorf("delete project: %w", err)
		}
		return nil
	})
}
