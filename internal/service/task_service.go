package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"project-planner/internal/model"
	"project-planner/internal/repository"
)

// TaskInput represents data required to create or edit a task.
type TaskInput struct {
	Title   string `validate:"required,min=1,max=200"`
	DueDate *time.Time
}

// TaskService wraps task-related business logic.
type TaskService struct {
	taskRepo    *repository.TaskRepository
	projectRepo *repository.ProjectRepository
	log         zerolog.Logger
}

func NewTaskService(taskRepo *repository.TaskRepository, projectRepo *repository.ProjectRepository, log zerolog.Logger) *TaskService {
	return &TaskService{taskRepo: taskRepo, projectRepo: projectRepo, log: log}
}

func (s *TaskService) ListByProject(ctx context.Context, projectID, userID uint) ([]model.Task, error) {
	if _, err := s.projectRepo.FindOwned(ctx, projectID, userID); err != nil {
		return nil, notFound(err, ErrProjectNotFound, "find project")
	}
	return s.taskRepo.ListByProject(ctx, projectID)
}

func (s *TaskService) Create(ctx context.Context, projectID, userID uint, input TaskInput) (*model.Task, error) {
	input.Title = strings.TrimSpace(input.Title)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	if _, err := s.projectRepo.FindOwned(ctx, projectID, userID); err != nil {
		return nil, notFound(err, ErrProjectNotFound, "find project")
	}

	task := model.Task{
		ProjectID: projectID,
		Title:     input.Title,
		DueDate:   input.DueDate,
	}
	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, err
	}

	s.log.Info().Uint("task_id", task.ID).Uint("project_id", projectID).Uint("user_id", userID).Msg("task created")
	return &task, nil
}

func (s *TaskService) Get(ctx context.Context, taskID, userID uint) (*model.Task, error) {
	task, err := s.taskRepo.FindOwned(ctx, taskID, userID)
	if err != nil {
		return nil, notFound(err, ErrTaskNotFound, "find task")
	}
	return task, nil
}

// Update replaces title and due date, keeping the completion flag.
func (s *TaskService) Update(ctx context.Context, taskID, userID uint, input TaskInput) (*model.Task, error) {
	input.Title = strings.TrimSpace(input.Title)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	task, err := s.Get(ctx, taskID, userID)
	if err != nil {
		return nil, err
	}
	task.Title = input.Title
	task.DueDate = input.DueDate
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Toggle flips the completion flag.
func (s *TaskService) Toggle(ctx context.Context, taskID, userID uint) (*model.Task, error) {
	task, err := s.Get(ctx, taskID, userID)
	if err != nil {
		return nil, err
	}
	task.IsCompleted = !task.IsCompleted
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}

	s.log.Info().Uint("task_id", task.ID).Bool("completed", task.IsCompleted).Msg("task toggled")
	return task, nil
}

// Delete removes the task and returns what was deleted.
func (s *TaskService) Delete(ctx context.Context, taskID, userID uint) (*model.Task, error) {
	task, err := s.Get(ctx, taskID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.taskRepo.Delete(ctx, task); err != nil {
		return nil, err
	}

	s.log.Info().Uint("task_id", task.ID).Uint("user_id", userID).Msg("task deleted")
	return task, nil
}
