package scheduler

import "time"

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ClassifyPriority compares a task's due date with the day its scheduled work ends.
// Overdue work and work finishing two days or less before the deadline is high.
func ClassifyPriority(dueDate *time.Time, scheduledEnd time.Time) Priority {
	if dueDate == nil {
		return PriorityMedium
	}

	daysUntilDue := DaysBetween(scheduledEnd, *dueDate)
	switch {
	case daysUntilDue <= 2:
		return PriorityHigh
	case daysUntilDue <= 7:
		return PriorityMedium
	default:
		return PriorityLow
	}
}
