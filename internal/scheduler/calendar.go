package scheduler

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Calendar walks a sparse set of working weekdays at a fixed daily capacity.
type Calendar struct {
	workdays    [7]bool
	hoursPerDay int
}

// NewCalendar validates the working-day set and daily capacity.
// An empty set is rejected because NextWorkingDay would never return.
func NewCalendar(hoursPerDay int, workingDays []time.Weekday) (Calendar, error) {
	if hoursPerDay <= 0 {
		return Calendar{}, fmt.Errorf("%w: hours per day must be positive, got %d", ErrInvalidRequest, hoursPerDay)
	}
	if len(workingDays) == 0 {
		return Calendar{}, fmt.Errorf("%w: at least one working day is required", ErrInvalidRequest)
	}

	cal := Calendar{hoursPerDay: hoursPerDay}
	for _, day := range workingDays {
		if day < time.Sunday || day > time.Saturday {
			return Calendar{}, fmt.Errorf("%w: weekday %d is out of range 0-6", ErrInvalidRequest, int(day))
		}
		cal.workdays[day] = true
	}
	return cal, nil
}

// IsWorkingDay reports whether d falls on one of the working weekdays.
func (c Calendar) IsWorkingDay(d time.Time) bool {
	return c.workdays[d.Weekday()]
}

// NextWorkingDay returns the earliest working day on or after d, without time of day.
func (c Calendar) NextWorkingDay(d time.Time) time.Time {
	d = DateOnly(d)
	for !c.IsWorkingDay(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// DaysNeeded is ceil(hours / hoursPerDay).
func (c Calendar) DaysNeeded(hours int) int {
	if hours <= 0 {
		return 0
	}
	return (hours + c.hoursPerDay - 1) / c.hoursPerDay
}

// Span returns the last working day (inclusive) needed to absorb hours when
// work begins on start. Work that fits into one day ends on start itself.
func (c Calendar) Span(start time.Time, hours int) time.Time {
	need := c.DaysNeeded(hours)
	end := DateOnly(start)
	counted := 0
	for counted < need {
		if c.IsWorkingDay(end) {
			counted++
		}
		if counted < need {
			end = end.AddDate(0, 0, 1)
		}
	}
	return end
}

// DateOnly strips the time of day, keeping the location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween counts calendar days from a to b. Each side is read as the date
// on its own clock, so a UTC date-only value and a local "now" on the same
// day are zero days apart.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

// ParseWeekdays reads a working-day list such as "1,2,3,4,5" or "1-5".
// Indices follow time.Weekday: 0 is Sunday, 6 is Saturday. Duplicates are dropped.
func ParseWeekdays(raw string) ([]time.Weekday, error) {
	seen := make(map[time.Weekday]bool)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		from, to := part, part
		if lo, hi, ok := strings.Cut(part, "-"); ok {
			from, to = strings.TrimSpace(lo), strings.TrimSpace(hi)
		}
		a, err := parseWeekday(from)
		if err != nil {
			return nil, err
		}
		b, err := parseWeekday(to)
		if err != nil {
			return nil, err
		}
		if a > b {
			return nil, fmt.Errorf("%w: weekday range %q is reversed", ErrInvalidRequest, part)
		}
		for d := a; d <= b; d++ {
			seen[d] = true
		}
	}
	if len(seen) == 0 {
		return nil, fmt.Errorf("%w: at least one working day is required", ErrInvalidRequest)
	}

	days := make([]time.Weekday, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return days, nil
}

func parseWeekday(raw string) (time.Weekday, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n > 6 {
		return 0, fmt.Errorf("%w: weekday %q must be a number from 0 to 6", ErrInvalidRequest, raw)
	}
	return time.Weekday(n), nil
}
