package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"project-planner/internal/model"
	"project-planner/internal/repository"
	"project-planner/internal/scheduler"
)

const digestTasksPerProject = 3

// DigestDefaults is the calendar used to preview schedules in the digest.
type DigestDefaults struct {
	HoursPerDay int
	WorkingDays []time.Weekday
}

// DigestService builds human-readable summaries for periodic notifications.
type DigestService struct {
	projects *repository.ProjectRepository
	defaults DigestDefaults
}

func NewDigestService(projects *repository.ProjectRepository, defaults DigestDefaults) *DigestService {
	return &DigestService{projects: projects, defaults: defaults}
}

// Build previews, for each project with open tasks, what the scheduler would
// put first if planning started today. It returns an empty string when the
// user has nothing open.
func (s *DigestService) Build(ctx context.Context, user model.User, now time.Time) (string, error) {
	projects, err := s.projects.ListByUser(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("list projects: %w", err)
	}

	req := scheduler.Request{
		HoursPerDay: s.defaults.HoursPerDay,
		WorkingDays: s.defaults.WorkingDays,
		StartDate:   now,
	}

	var sections []string
	for _, p := range projects {
		if p.TaskCount == p.CompletedTaskCount {
			continue
		}
		result, err := scheduler.Generate(p.Tasks, req)
		if err != nil {
			return "", err
		}
		sections = append(sections, formatDigestProject(p.Project, result, now))
	}
	if len(sections) == 0 {
		return "", nil
	}

	var builder strings.Builder
	builder.WriteString("📋 <b>План работ</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", now.Format("02.01.2006")))
	builder.WriteString(strings.Join(sections, "\n"))
	return strings.TrimSpace(builder.String()), nil
}

func formatDigestProject(project model.Project, result scheduler.Result, now time.Time) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📁 <b>%s</b> · %d ч.\n", html.EscapeString(project.Title), result.TotalEstimatedHours))

	overdue := 0
	for _, task := range project.Tasks {
		if !task.IsCompleted && task.DueDate != nil && scheduler.DaysBetween(now, *task.DueDate) < 0 {
			overdue++
		}
	}

	for i, st := range result.Tasks {
		if i == digestTasksPerProject {
			sb.WriteString(fmt.Sprintf("   … ещё %d\n", len(result.Tasks)-i))
			break
		}
		sb.WriteString(fmt.Sprintf("%s %s — %s\n", PriorityIcon(st.Priority), html.EscapeString(strings.TrimSpace(st.Title)), formatSpan(st.StartDate, st.EndDate)))
	}
	if overdue > 0 {
		sb.WriteString(fmt.Sprintf("   ⚠️ просрочено: %d\n", overdue))
	}
	return sb.String()
}

// PriorityIcon is the marker shown next to a scheduled task.
func PriorityIcon(p scheduler.Priority) string {
	switch p {
	case scheduler.PriorityHigh:
		return "🔴"
	case scheduler.PriorityLow:
		return "🟢"
	default:
		return "🟡"
	}
}

func formatSpan(start, end time.Time) string {
	if start.Equal(end) {
		return start.Format("2006-01-02")
	}
	return fmt.Sprintf("%s…%s", start.Format("2006-01-02"), end.Format("2006-01-02"))
}
