package logger

import (
	"bytes"
	"strings"
	"testing"

	"project-planner/internal/config"
)

func TestLevelFromConfig(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter(config.Config{Env: config.EnvProd, LogLevel: "warn"}, &buf)

	log.Info().Msg("hidden")
	log.Warn().Str("project_id", "7").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info message logged at warn level: %s", out)
	}
	if !strings.Contains(out, `"project_id":"7"`) || !strings.Contains(out, `"timestamp"`) {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter(config.Config{Env: config.EnvProd, LogLevel: "loud"}, &buf)

	log.Debug().Msg("debug")
	log.Info().Msg("info")

	if out := buf.String(); strings.Contains(out, `"debug"`) || !strings.Contains(out, `"info"`) {
		t.Fatalf("unexpected output: %s", out)
	}
}
