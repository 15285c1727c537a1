package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"project-planner/internal/scheduler"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Config keeps runtime settings for the bot.
type Config struct {
	Env           string `env:"ENV" env-default:"prod"`
	LogLevel      string `env:"LOG_LEVEL" env-default:"info"`
	TelegramToken string `env:"TELEGRAM_TOKEN" env-required:"true"`
	DatabaseURL   string `env:"DATABASE_URL" env-default:"project_planner.db"`
	MetricsAddr   string `env:"METRICS_ADDR"`

	ReportIntervalHours int     `env:"REPORT_INTERVAL_HOURS" env-default:"5"`
	DigestTime          string  `env:"DIGEST_TIME"`
	SendRatePerSec      float64 `env:"SEND_RATE_PER_SEC" env-default:"20"`

	Schedule ScheduleDefaults
}

// ScheduleDefaults fill in the parts of /schedule a user leaves out.
type ScheduleDefaults struct {
	HoursPerDay int    `env:"DEFAULT_HOURS_PER_DAY" env-default:"8"`
	WorkingDays string `env:"DEFAULT_WORKING_DAYS" env-default:"1,2,3,4,5"`
}

// Weekdays returns the parsed DEFAULT_WORKING_DAYS. Load has already validated it.
func (d ScheduleDefaults) Weekdays() []time.Weekday {
	days, err := scheduler.ParseWeekdays(d.WorkingDays)
	if err != nil {
		return nil
	}
	return days
}

// ReportInterval returns how often the digest is sent. Zero disables it.
func (c Config) ReportInterval() time.Duration {
	if c.ReportIntervalHours <= 0 {
		return 0
	}
	return time.Duration(c.ReportIntervalHours) * time.Hour
}

// Load reads configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	c.TelegramToken = strings.TrimSpace(c.TelegramToken)
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required")
	}

	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return fmt.Errorf("unknown env %q", c.Env)
	}

	if c.Schedule.HoursPerDay <= 0 {
		return fmt.Errorf("DEFAULT_HOURS_PER_DAY must be positive, got %d", c.Schedule.HoursPerDay)
	}
	if _, err := scheduler.ParseWeekdays(c.Schedule.WorkingDays); err != nil {
		return fmt.Errorf("DEFAULT_WORKING_DAYS: %w", err)
	}

	c.DigestTime = strings.TrimSpace(c.DigestTime)

	if c.SendRatePerSec <= 0 {
		c.SendRatePerSec = 20
	}
	return nil
}
