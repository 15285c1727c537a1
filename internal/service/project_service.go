package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"project-planner/internal/model"
	"project-planner/internal/repository"
)

// ProjectInput represents data required to create or rename a project.
type ProjectInput struct {
	Title       string `validate:"required,min=3,max=100"`
	Description string `validate:"max=500"`
}

// ProjectService wraps project CRUD. Every call is scoped by the requesting user.
type ProjectService struct {
	repo *repository.ProjectRepository
	log  zerolog.Logger
}

func NewProjectService(repo *repository.ProjectRepository, log zerolog.Logger) *ProjectService {
	return &ProjectService{repo: repo, log: log}
}

func (s *ProjectService) List(ctx context.Context, userID uint) ([]model.ProjectStats, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Get returns the project with its tasks.
func (s *ProjectService) Get(ctx context.Context, projectID, userID uint) (*model.Project, error) {
	project, err := s.repo.LoadOwnedProject(ctx, projectID, userID)
	if err != nil {
		return nil, notFound(err, ErrProjectNotFound, "load project")
	}
	return project, nil
}

func (s *ProjectService) Create(ctx context.Context, userID uint, input ProjectInput) (*model.Project, error) {
	input = input.normalized()
	if err := validateInput(input); err != nil {
		return nil, err
	}

	project := model.Project{
		UserID:      userID,
		Title:       input.Title,
		Description: optional(input.Description),
	}
	if err := s.repo.Create(ctx, &project); err != nil {
		return nil, err
	}

	s.log.Info().Uint("project_id", project.ID).Uint("user_id", userID).Msg("project created")
	return &project, nil
}

func (s *ProjectService) Update(ctx context.Context, projectID, userID uint, input ProjectInput) (*model.Project, error) {
	input = input.normalized()
	if err := validateInput(input); err != nil {
		return nil, err
	}

	project, err := s.repo.FindOwned(ctx, projectID, userID)
	if err != nil {
		return nil, notFound(err, ErrProjectNotFound, "find project")
	}

	project.Title = input.Title
	project.Description = optional(input.Description)
	if err := s.repo.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) Delete(ctx context.Context, projectID, userID uint) error {
	if err := s.repo.Delete(ctx, projectID, userID); err != nil {
		return notFound(err, ErrProjectNotFound, "delete project")
	}
	s.log.Info().Uint("project_id", projectID).Uint("user_id", userID).Msg("project deleted")
	return nil
}

func (in ProjectInput) normalized() ProjectInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	return in
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
