package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	schedulesGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_schedules_generated_total",
			Help: "Schedule generations by outcome",
		},
		[]string{"outcome"},
	)
	scheduledTasks = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "planner_scheduled_tasks",
			Help:    "Number of tasks placed per generated schedule",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
	)
	botCommands = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_bot_commands_total",
			Help: "Bot commands handled by command name",
		},
		[]string{"command"},
	)
)

// Schedule outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeEmpty    = "empty"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

// RecordSchedule records one schedule generation and how many tasks it placed.
func RecordSchedule(outcome string, tasks int) {
	schedulesGenerated.WithLabelValues(outcome).Inc()
	if outcome == OutcomeOK || outcome == OutcomeEmpty {
		scheduledTasks.Observe(float64(tasks))
	}
}

// RecordCommand counts a handled bot command.
func RecordCommand(command string) {
	botCommands.WithLabelValues(command).Inc()
}

// Serve exposes /metrics on addr until ctx is cancelled. An empty addr disables it.
func Serve(ctx context.Context, addr string, log zerolog.Logger) {
	if addr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("metrics server shutdown")
		}
	}()

	go func() {
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server stopped")
		}
	}()
}
