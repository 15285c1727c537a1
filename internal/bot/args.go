package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"project-planner/internal/scheduler"
)

const dateLayout = "2006-01-02"

var errNoID = errors.New("id is required")

// parseID reads a positive numeric id such as "12" or "#12".
func parseID(raw string) (uint, error) {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "#")
	if raw == "" {
		return 0, errNoID
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(v), nil
}

// splitIDAndRest splits "12 rest of text" into the id and the remaining text.
func splitIDAndRest(args string) (uint, string, error) {
	args = strings.TrimSpace(args)
	head, rest, _ := strings.Cut(args, " ")
	id, err := parseID(head)
	if err != nil {
		return 0, "", err
	}
	return id, strings.TrimSpace(rest), nil
}

// splitPipe splits "title | extra" into its two trimmed halves.
func splitPipe(text string) (string, string) {
	left, right, _ := strings.Cut(text, "|")
	return strings.TrimSpace(left), strings.TrimSpace(right)
}

// parseDueDate accepts YYYY-MM-DD. Empty input and "-" mean no due date.
func parseDueDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "-" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q", raw)
	}
	return &parsed, nil
}

type scheduleDefaults struct {
	hoursPerDay int
	workingDays []time.Weekday
}

type scheduleArgs struct {
	projectID uint
	request   scheduler.Request
}

// parseScheduleArgs reads "/schedule <project> [hours] [days] [start]".
// A "-" keeps the default for that position. The start defaults to today.
func parseScheduleArgs(args string, defaults scheduleDefaults, today time.Time) (scheduleArgs, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return scheduleArgs{}, errNoID
	}
	if len(fields) > 4 {
		return scheduleArgs{}, fmt.Errorf("too many arguments")
	}

	projectID, err := parseID(fields[0])
	if err != nil {
		return scheduleArgs{}, err
	}

	out := scheduleArgs{
		projectID: projectID,
		request: scheduler.Request{
			HoursPerDay: defaults.hoursPerDay,
			WorkingDays: defaults.workingDays,
			StartDate:   scheduler.DateOnly(today),
		},
	}

	if len(fields) > 1 && fields[1] != "-" {
		hours, err := strconv.Atoi(fields[1])
		if err != nil || hours <= 0 || hours > 24 {
			return scheduleArgs{}, fmt.Errorf("hours per day must be a number from 1 to 24, got %q", fields[1])
		}
		out.request.HoursPerDay = hours
	}
	if len(fields) > 2 && fields[2] != "-" {
		days, err := scheduler.ParseWeekdays(fields[2])
		if err != nil {
			return scheduleArgs{}, err
		}
		out.request.WorkingDays = days
	}
	if len(fields) > 3 && fields[3] != "-" {
		start, err := time.ParseInLocation(dateLayout, fields[3], today.Location())
		if err != nil {
			return scheduleArgs{}, fmt.Errorf("invalid start date %q", fields[3])
		}
		out.request.StartDate = start
	}
	return out, nil
}
