package bot

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"project-planner/internal/scheduler"
)

func TestParseID(t *testing.T) {
	t.Parallel()
	tests := []struct {
		raw     string
		want    uint
		wantErr bool
	}{
		{raw: "12", want: 12},
		{raw: " #7 ", want: 7},
		{raw: "", wantErr: true},
		{raw: "0", wantErr: true},
		{raw: "-3", wantErr: true},
		{raw: "abc", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseID(tt.raw)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Fatalf("parseID(%q) = %d, %v; want %d, err=%t", tt.raw, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestSplitIDAndRest(t *testing.T) {
	t.Parallel()
	id, rest, err := splitIDAndRest(" 4  New title | notes ")
	if err != nil {
		t.Fatalf("splitIDAndRest: %v", err)
	}
	if id != 4 || rest != "New title | notes" {
		t.Fatalf("got %d %q", id, rest)
	}
	title, extra := splitPipe(rest)
	if title != "New title" || extra != "notes" {
		t.Fatalf("splitPipe = %q, %q", title, extra)
	}
	if title, extra := splitPipe("only title"); title != "only title" || extra != "" {
		t.Fatalf("splitPipe without pipe = %q, %q", title, extra)
	}
}

func TestParseDueDate(t *testing.T) {
	t.Parallel()
	for _, raw := range []string{"", " - "} {
		got, err := parseDueDate(raw)
		if err != nil || got != nil {
			t.Fatalf("parseDueDate(%q) = %v, %v; want nil, nil", raw, got, err)
		}
	}
	got, err := parseDueDate("2025-11-30")
	if err != nil {
		t.Fatalf("parseDueDate: %v", err)
	}
	if want := time.Date(2025, time.November, 30, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("parseDueDate = %s, want %s", got, want)
	}
	if _, err := parseDueDate("30.11.2025"); err == nil {
		t.Fatal("parseDueDate should reject dd.mm.yyyy")
	}
}

func TestParseScheduleArgs(t *testing.T) {
	t.Parallel()
	today := time.Date(2024, time.January, 3, 15, 4, 0, 0, time.UTC)
	defaults := scheduleDefaults{hoursPerDay: 8, workingDays: []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}}

	tests := []struct {
		name    string
		args    string
		want    scheduleArgs
		wantErr bool
	}{
		{
			name: "defaults",
			args: "5",
			want: scheduleArgs{projectID: 5, request: scheduler.Request{HoursPerDay: 8, WorkingDays: defaults.workingDays, StartDate: time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC)}},
		},
		{
			name: "all set",
			args: "5 6 1,3,5 2024-02-05",
			want: scheduleArgs{projectID: 5, request: scheduler.Request{
				HoursPerDay: 6,
				WorkingDays: []time.Weekday{time.Monday, time.Wednesday, time.Friday},
				StartDate:   time.Date(2024, time.February, 5, 0, 0, 0, 0, time.UTC),
			}},
		},
		{
			name: "skip positions",
			args: "#5 - 0-6",
			want: scheduleArgs{projectID: 5, request: scheduler.Request{
				HoursPerDay: 8,
				WorkingDays: []time.Weekday{0, 1, 2, 3, 4, 5, 6},
				StartDate:   time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC),
			}},
		},
		{name: "missing id", args: "", wantErr: true},
		{name: "zero hours", args: "5 0", wantErr: true},
		{name: "bad days", args: "5 8 9", wantErr: true},
		{name: "bad date", args: "5 8 1-5 tomorrow", wantErr: true},
		{name: "too many", args: "5 8 1-5 2024-02-05 extra", wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseScheduleArgs(tt.args, defaults, today)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseScheduleArgs(%q) = %+v, want error", tt.args, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseScheduleArgs(%q): %v", tt.args, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("parseScheduleArgs(%q) =\n%+v\nwant\n%+v", tt.args, got, tt.want)
			}
		})
	}

	if _, err := parseScheduleArgs("", defaults, today); !errors.Is(err, errNoID) {
		t.Fatalf("empty args error = %v, want errNoID", err)
	}
}
