package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"project-planner/internal/bot"
	"project-planner/internal/config"
	"project-planner/internal/logger"
	"project-planner/internal/metrics"
	"project-planner/internal/repository"
	"project-planner/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bootLog.Fatal().Err(err).Msg("config")
	}

	log := logger.New(cfg)

	db, err := repository.NewDB(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("db")
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	services := bot.Services{
		Users:    userRepo,
		Projects: service.NewProjectService(projectRepo, log),
		Tasks:    service.NewTaskService(taskRepo, projectRepo, log),
		Schedule: service.NewScheduleService(projectRepo, log),
		Digest: service.NewDigestService(projectRepo, service.DigestDefaults{
			HoursPerDay: cfg.Schedule.HoursPerDay,
			WorkingDays: cfg.Schedule.Weekdays(),
		}),
	}

	telegramBot, err := bot.New(cfg, services, log)
	if err != nil {
		log.Fatal().Err(err).Msg("bot")
	}

	metrics.Serve(ctx, cfg.MetricsAddr, log)

	jobs := service.NewCronService(time.Local, log)
	digest := func() {
		jobCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := telegramBot.SendDigests(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("digest")
		}
	}
	switch {
	case cfg.DigestTime != "":
		if _, err := jobs.ScheduleDaily("digest", cfg.DigestTime, digest); err != nil {
			log.Fatal().Err(err).Msg("schedule digest")
		}
	case cfg.ReportInterval() > 0:
		if _, err := jobs.ScheduleInterval("digest", cfg.ReportInterval(), digest); err != nil {
			log.Fatal().Err(err).Msg("schedule digest")
		}
	}
	jobs.Start()
	defer jobs.Stop()

	log.Info().Str("env", cfg.Env).Msg("project planner bot started")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("bot stopped with error")
	}
	log.Info().Msg("shutdown complete")
}
