package cron

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/ghostlabs/ghostrank-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "cron-test", Output: io.Discard})
}

type fakeLock struct {
	acquired bool
	held     bool
}

func (f *fakeLock) Acquire(context.Context) (bool, error) {
	if f.held {
		return false, nil
	}
	f.acquired = true
	f.held = true
	return true, nil
}

func (f *fakeLock) Release(context.Context) error { f.held = false; return nil }

type testJob struct {
	name string
	err  error
	runs int
}

func (t *testJob) Name() string { return t.name }

func (t *testJob) Run(context.Context) error {
	t.runs++
	return t.err
}

func TestServiceRunCycleRunsAllJobsEvenOnFailure(t *testing.T) {
	registry := NewRegistry(&testJob{name: "success"}, &testJob{name: "fail", err: errors.New("boom")})
	service, err := NewService(ServiceParams{
		Logger:   testLogger(),
		Registry: registry,
		Lock:     &fakeLock{},
		Interval: 0,
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	if err := service.runCycle(context.Background()); err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	for _, job := range registry.Jobs() {
		if job.(*testJob).runs != 1 {
			t.Fatalf("job %s ran %d times", job.Name(), job.(*testJob).runs)
		}
	}
}

func TestServiceHonorsConfiguredInterval(t *testing.T) {
	service, err := NewService(ServiceParams{
		Logger:   testLogger(),
		Lock:     &fakeLock{},
		Interval: 168 * time.Hour,
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	if service.interval != 168*time.Hour {
		t.Fatalf("interval = %v, want 168h", service.interval)
	}
}

func TestServiceDefaultsIntervalWhenUnset(t *testing.T) {
	service, err := NewService(ServiceParams{
		Logger: testLogger(),
		Lock:   &fakeLock{},
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	if service.interval != defaultInterval {
		t.Fatalf("interval = %v, want %v", service.interval, defaultInterval)
	}
}

func TestServiceSkipsCycleWhenLockHeld(t *testing.T) {
	job := &testJob{name: "only"}
	lock := &fakeLock{held: true}
	service, err := NewService(ServiceParams{
		Logger:   testLogger(),
		Registry: NewRegistry(job),
		Lock:     lock,
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	if err := service.runCycle(context.Background()); err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if job.runs != 0 {
		t.Fatalf("job ran while the lock was held elsewhere")
	}
}
