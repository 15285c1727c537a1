package bot

import (
	"errors"
	"fmt"
	"testing"

	"project-planner/internal/scheduler"
	"project-planner/internal/service"
)

func TestParseCallback(t *testing.T) {
	t.Parallel()
	tests := []struct {
		data   string
		prefix string
		id     uint
		ok     bool
	}{
		{data: "open:3", prefix: cbOpenPrefix, id: 3, ok: true},
		{data: "toggle:12", prefix: cbTogglePrefix, id: 12, ok: true},
		{data: "deltask:5", prefix: cbDeletePrefix, id: 5, ok: true},
		{data: "schedule:8", prefix: cbSchedulePrefix, id: 8, ok: true},
		{data: "toggle:x", ok: false},
		{data: "unknown:1", ok: false},
	}
	for _, tt := range tests {
		prefix, id, ok := parseCallback(tt.data)
		if ok != tt.ok || prefix != tt.prefix || id != tt.id {
			t.Fatalf("parseCallback(%q) = %q, %d, %t; want %q, %d, %t", tt.data, prefix, id, ok, tt.prefix, tt.id, tt.ok)
		}
	}
}

func TestUserError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		err  error
		want string
	}{
		{err: fmt.Errorf("wrap: %w", service.ErrProjectNotFound), want: msgProjectNotFound},
		{err: service.ErrTaskNotFound, want: msgTaskNotFound},
		{err: fmt.Errorf("%w: title must be at least 3 characters", service.ErrValidation), want: "Проверь ввод: title must be at least 3 characters"},
		{err: fmt.Errorf("%w: at least one working day is required", scheduler.ErrInvalidRequest), want: "Неверные параметры плана: at least one working day is required"},
		{err: errors.New("disk <full>"), want: "Ошибка: disk &lt;full&gt;"},
	}
	for _, tt := range tests {
		if got := userError(tt.err); got != tt.want {
			t.Fatalf("userError(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
