package main

import (
	"fmt"
	stdlog "log" // Standard log for initial bootstrap
	"os"
	"os/signal"
	"syscall"
	"time"

	"gotradier/go_src/configuration"
	"gotradier/go_src/database"
	"gotradier/go_src/logging_helper"
	"gotradier/go_src/scheduler"
	"gotradier/go_src/tradier_api"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

const (
	appName        = "tradier-watch"
	defaultEnvFile = ".env"
	jobName        = "JobSnapshotBalance"
)

// schedulerLocation resolves the watcher timezone, UTC when unset.
func schedulerLocation(cfg *configuration.Config) (*time.Location, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is nil")
	}
	if cfg.Watcher.Timezone == "" {
		logrus.Warnf("'watcher.timezone' not found or empty in config, using UTC as default.")
		return time.UTC, nil
	}
	location, err := time.LoadLocation(cfg.Watcher.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load watcher timezone '%s': %w", cfg.Watcher.Timezone, err)
	}
	return location, nil
}

// scheduleSnapshots registers the balance snapshot job on s.
func scheduleSnapshots(s gocron.Scheduler, cfg *configuration.Config, deps scheduler.Deps) (gocron.Job, error) {
	interval := cfg.Watcher.Interval()
	if interval <= 0 {
		return nil, fmt.Errorf("watcher.interval_seconds must be positive, got %d", cfg.Watcher.IntervalSeconds)
	}
	job, err := s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(scheduler.JobSnapshotBalance, deps),
		gocron.WithName(jobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule %s: %w", jobName, err)
	}
	return job, nil
}

func main() {
	stdlog.Printf("Starting %s application...", appName)

	configPath := configuration.ConfigPath()
	cfg, err := configuration.LoadConfig(configPath)
	if err != nil {
		stdlog.Fatalf("Failed to load configuration from %s: %v", configPath, err)
	}
	if err := cfg.ApplyEnvOverrides(defaultEnvFile); err != nil {
		stdlog.Fatalf("Failed to apply environment overrides: %v", err)
	}
	if !cfg.Watcher.Enabled {
		stdlog.Fatalf("watcher.enabled is false in %s, nothing to do", configPath)
	}
	if err := cfg.ValidateConfig(); err != nil {
		stdlog.Fatalf("Invalid configuration: %v", err)
	}
	stdlog.Println("Configuration loaded successfully.")

	logs, err := logging_helper.SetupLogging(cfg, appName)
	if err != nil {
		stdlog.Fatalf("Failed to setup logging: %v", err)
	}
	defer logs.Close()
	logrus.Info("Logging has been initialized.")

	clientOpts := []tradier_api.Option{tradier_api.WithTimeout(cfg.Tradier.Timeout())}
	if cfg.Tradier.BaseURL != "" {
		clientOpts = append(clientOpts, tradier_api.WithBaseURL(cfg.Tradier.BaseURL))
	}
	client, err := tradier_api.Configure(cfg.Tradier.Token, cfg.Tradier.AccountID, cfg.Tradier.Endpoint, clientOpts...)
	if err != nil {
		logrus.Fatalf("Failed to configure Tradier client: %v", err)
	}

	tdb, err := database.NewTradingDB(cfg, false)
	if err != nil {
		logrus.Fatalf("Failed to open snapshot database: %v", err)
	}
	defer tdb.Close()
	store := database.NewSnapshotStore(tdb)
	if err := store.CreateSchema(); err != nil {
		logrus.Fatalf("Failed to create snapshot schema: %v", err)
	}
	logrus.Infof("Snapshot database ready at %s", tdb.Path())

	location, err := schedulerLocation(cfg)
	if err != nil {
		logrus.Fatalf("%v. Ensure it's a valid IANA Time Zone.", err)
	}
	logrus.Infof("Using timezone for scheduler: %s", location.String())

	s, err := gocron.NewScheduler(gocron.WithLocation(location))
	if err != nil {
		logrus.Fatalf("Failed to create gocron scheduler: %v", err)
	}

	deps := scheduler.Deps{Config: cfg, Source: client, Store: store}
	if _, err := scheduleSnapshots(s, cfg, deps); err != nil {
		logrus.Fatalf("%v", err)
	}
	logrus.Infof("%s scheduled every %s (market hours only: %t).", jobName, cfg.Watcher.Interval(), cfg.Watcher.MarketHoursOnly)

	s.Start()
	logrus.Info("Scheduler started. Waiting for jobs...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutdown signal received...")

	if err := s.Shutdown(); err != nil {
		logrus.Errorf("Scheduler shutdown error: %v", err)
	}
	logrus.Info("Scheduler shut down gracefully.")
}
