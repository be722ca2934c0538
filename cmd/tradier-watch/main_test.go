package main

import (
	"strings"
	"testing"
	"time"

	"gotradier/go_src/configuration"
	"gotradier/go_src/scheduler"

	"github.com/go-co-op/gocron/v2"
)

func newTestConfigForWatcher(w configuration.Watcher) *configuration.Config {
	return &configuration.Config{Watcher: w}
}

func TestSchedulerLocation(t *testing.T) {
	t.Run("DefaultsToUTC", func(t *testing.T) {
		loc, err := schedulerLocation(newTestConfigForWatcher(configuration.Watcher{}))
		if err != nil {
			t.Fatalf("schedulerLocation failed: %v", err)
		}
		if loc != time.UTC {
			t.Errorf("Expected UTC, got %v", loc)
		}
	})

	t.Run("Named", func(t *testing.T) {
		loc, err := schedulerLocation(newTestConfigForWatcher(configuration.Watcher{Timezone: "America/New_York"}))
		if err != nil {
			t.Fatalf("schedulerLocation failed: %v", err)
		}
		if loc.String() != "America/New_York" {
			t.Errorf("Expected America/New_York, got %v", loc)
		}
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := schedulerLocation(newTestConfigForWatcher(configuration.Watcher{Timezone: "Mars/Olympus"}))
		if err == nil || !strings.Contains(err.Error(), "Mars/Olympus") {
			t.Errorf("Expected timezone error, got %v", err)
		}
	})

	t.Run("NilConfig", func(t *testing.T) {
		if _, err := schedulerLocation(nil); err == nil {
			t.Error("Expected error for nil config")
		}
	})
}

func TestScheduleSnapshots(t *testing.T) {
	s, err := gocron.NewScheduler()
	if err != nil {
		t.Fatalf("Failed to create scheduler: %v", err)
	}
	defer s.Shutdown()

	cfg := newTestConfigForWatcher(configuration.Watcher{IntervalSeconds: 60})
	job, err := scheduleSnapshots(s, cfg, scheduler.Deps{Config: cfg})
	if err != nil {
		t.Fatalf("scheduleSnapshots failed: %v", err)
	}
	if job.Name() != jobName {
		t.Errorf("Expected job name %s, got %s", jobName, job.Name())
	}
	if len(s.Jobs()) != 1 {
		t.Errorf("Expected 1 scheduled job, got %d", len(s.Jobs()))
	}
}

func TestScheduleSnapshots_InvalidInterval(t *testing.T) {
	s, err := gocron.NewScheduler()
	if err != nil {
		t.Fatalf("Failed to create scheduler: %v", err)
	}
	defer s.Shutdown()

	cfg := newTestConfigForWatcher(configuration.Watcher{IntervalSeconds: 0})
	if _, err := scheduleSnapshots(s, cfg, scheduler.Deps{Config: cfg}); err == nil {
		t.Error("Expected an error for a zero interval")
	}
	if len(s.Jobs()) != 0 {
		t.Errorf("Expected no scheduled jobs, got %d", len(s.Jobs()))
	}
}
