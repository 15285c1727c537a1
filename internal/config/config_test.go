package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "token")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Env != EnvProd {
		t.Fatalf("Env = %q, want %q", cfg.Env, EnvProd)
	}
	if cfg.DatabaseURL != "project_planner.db" {
		t.Fatalf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.ReportInterval() != 5*time.Hour {
		t.Fatalf("ReportInterval = %v, want 5h", cfg.ReportInterval())
	}
	if cfg.DigestTime != "" {
		t.Fatalf("DigestTime = %q, want empty", cfg.DigestTime)
	}
	if cfg.Schedule.HoursPerDay != 8 {
		t.Fatalf("HoursPerDay = %d, want 8", cfg.Schedule.HoursPerDay)
	}
	want := []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}
	if got := cfg.Schedule.Weekdays(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Weekdays = %v, want %v", got, want)
	}
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load without TELEGRAM_TOKEN should fail")
	}
}

func TestLoadRejectsBadSchedule(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "no working days", key: "DEFAULT_WORKING_DAYS", val: " , "},
		{name: "weekday out of range", key: "DEFAULT_WORKING_DAYS", val: "1,9"},
		{name: "zero hours", key: "DEFAULT_HOURS_PER_DAY", val: "0"},
		{name: "unknown env", key: "ENV", val: "staging"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TELEGRAM_TOKEN", "token")
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Fatalf("Load with %s=%q should fail", tt.key, tt.val)
			}
		})
	}
}

func TestReportIntervalDisabled(t *testing.T) {
	cfg := Config{ReportIntervalHours: 0}
	if got := cfg.ReportInterval(); got != 0 {
		t.Fatalf("ReportInterval = %v, want 0", got)
	}
}
