package scheduler

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"project-planner/internal/model"
)

// ErrInvalidRequest is returned for requests that cannot be walked: no working
// days, a weekday outside 0-6 or a non-positive daily capacity.
var ErrInvalidRequest = errors.New("invalid schedule request")

const msgAllCompleted = "All tasks are completed! No scheduling needed."

// Request describes the calendar the tasks are spread over.
type Request struct {
	HoursPerDay int
	WorkingDays []time.Weekday
	StartDate   time.Time
}

// ScheduledTask is one task placed on the calendar.
type ScheduledTask struct {
	TaskID         uint
	Title          string
	StartDate      time.Time
	EndDate        time.Time
	EstimatedHours int
	Priority       Priority
}

// Result is the full schedule for a project.
type Result struct {
	Tasks               []ScheduledTask
	TotalEstimatedHours int
	Message             string
}

// plan is the state threaded through the placement of each task.
type plan struct {
	cursor time.Time
	total  int
	tasks  []ScheduledTask
}

// Generate packs the incomplete tasks onto the working days of req, one task
// after another, ordered by due date and then creation time. Tasks never share
// a day. The input slice is not modified and the result depends only on the
// arguments.
func Generate(tasks []model.Task, req Request) (Result, error) {
	cal, err := NewCalendar(req.HoursPerDay, req.WorkingDays)
	if err != nil {
		return Result{}, err
	}

	pending := incomplete(tasks)
	if len(pending) == 0 {
		return Result{
			Tasks:   []ScheduledTask{},
			Message: msgAllCompleted,
		}, nil
	}
	sortForScheduling(pending)

	start := DateOnly(req.StartDate)
	p := plan{cursor: start, tasks: make([]ScheduledTask, 0, len(pending))}
	for _, task := range pending {
		p = p.place(cal, task)
	}

	last := p.tasks[len(p.tasks)-1].EndDate
	return Result{
		Tasks:               p.tasks,
		TotalEstimatedHours: p.total,
		Message:             fmt.Sprintf("Successfully scheduled %d tasks over %d days.", len(p.tasks), DaysBetween(start, last)+1),
	}, nil
}

func (p plan) place(cal Calendar, task model.Task) plan {
	hours := EstimateHours(task.Title)
	start := cal.NextWorkingDay(p.cursor)
	end := cal.Span(start, hours)

	p.total += hours
	p.tasks = append(p.tasks, ScheduledTask{
		TaskID:         task.ID,
		Title:          task.Title,
		StartDate:      start,
		EndDate:        end,
		EstimatedHours: hours,
		Priority:       ClassifyPriority(task.DueDate, end),
	})
	p.cursor = end.AddDate(0, 0, 1)
	return p
}

func incomplete(tasks []model.Task) []model.Task {
	pending := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		if !task.IsCompleted {
			pending = append(pending, task)
		}
	}
	return pending
}

// sortForScheduling orders by due date ascending with undated tasks last,
// then by creation time ascending.
func sortForScheduling(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		switch {
		case a.DueDate != nil && b.DueDate != nil:
			if !a.DueDate.Equal(*b.DueDate) {
				return a.DueDate.Before(*b.DueDate)
			}
		case a.DueDate != nil:
			return true
		case b.DueDate != nil:
			return false
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}
