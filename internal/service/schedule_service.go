package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"project-planner/internal/metrics"
	"project-planner/internal/model"
	"project-planner/internal/repository"
	"project-planner/internal/scheduler"
)

// ProjectSchedule is a generated schedule together with the project it was built for.
type ProjectSchedule struct {
	Project model.Project
	Result  scheduler.Result
}

// ScheduleService loads an owned project and spreads its open tasks over a calendar.
type ScheduleService struct {
	projects *repository.ProjectRepository
	log      zerolog.Logger
}

func NewScheduleService(projects *repository.ProjectRepository, log zerolog.Logger) *ScheduleService {
	return &ScheduleService{projects: projects, log: log}
}

// Generate returns ErrProjectNotFound for missing or foreign projects and
// scheduler.ErrInvalidRequest for an unusable calendar.
func (s *ScheduleService) Generate(ctx context.Context, projectID, userID uint, req scheduler.Request) (*ProjectSchedule, error) {
	project, err := s.projects.LoadOwnedProject(ctx, projectID, userID)
	if err != nil {
		err = notFound(err, ErrProjectNotFound, "load project")
		if errors.Is(err, ErrProjectNotFound) {
			metrics.RecordSchedule(metrics.OutcomeNotFound, 0)
		} else {
			metrics.RecordSchedule(metrics.OutcomeError, 0)
		}
		return nil, err
	}

	result, err := scheduler.Generate(project.Tasks, req)
	if err != nil {
		metrics.RecordSchedule(metrics.OutcomeInvalid, 0)
		return nil, err
	}

	outcome := metrics.OutcomeOK
	if len(result.Tasks) == 0 {
		outcome = metrics.OutcomeEmpty
	}
	metrics.RecordSchedule(outcome, len(result.Tasks))

	s.log.Debug().
		Uint("project_id", project.ID).
		Uint("user_id", userID).
		Int("tasks", len(result.Tasks)).
		Int("total_hours", result.TotalEstimatedHours).
		Msg("schedule generated")

	return &ProjectSchedule{Project: *project, Result: result}, nil
}
