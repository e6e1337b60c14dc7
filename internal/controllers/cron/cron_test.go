package cron

import (
	"context"
	"testing"

	use_cases "planner/internal/application/use-cases"
	"planner/pkg/config"

	"go.uber.org/zap"
)

type useCaseStub struct {
	use_cases.UseCaser
	deleted    int
	dispatched int
	panicking  bool
}

func (u *useCaseStub) DeleteOldEventsByYear(ctx context.Context) { u.deleted++ }

func (u *useCaseStub) DispatchReminders(ctx context.Context) {
	u.dispatched++
	if u.panicking {
		panic("boom")
	}
}

func TestPickSpec(t *testing.T) {
	tests := []struct {
		schedule, interval, want string
	}{
		{"0 0 16 * * *", "@every 1m", "0 0 16 * * *"},
		{"", "@every 30s", "@every 30s"},
		{"", "", "@daily"},
	}
	for _, tt := range tests {
		if got := pickSpec(tt.schedule, tt.interval, "@daily"); got != tt.want {
			t.Errorf("pickSpec(%q, %q) = %q, want %q", tt.schedule, tt.interval, got, tt.want)
		}
	}
}

func TestControllerRegistersJobs(t *testing.T) {
	c := NewController(context.Background(), zap.NewNop().Sugar())
	uc := &useCaseStub{}

	if err := c.RegisterDeleteOldEventsJob(uc, config.Cron{Schedule: "0 0 16 * * *"}); err != nil {
		t.Fatal(err)
	}
	if err := c.RegisterReminderJob(uc, config.Reminder{Interval: "@every 1m"}); err != nil {
		t.Fatal(err)
	}
	if n := len(c.scheduler.Entries()); n != 2 {
		t.Fatalf("entries = %d, want 2", n)
	}

	if err := c.RegisterReminderJob(uc, config.Reminder{Schedule: "not a cron spec"}); err == nil {
		t.Fatal("expected error for invalid spec")
	}
}

func TestJobsRun(t *testing.T) {
	uc := &useCaseStub{}
	logger := zap.NewNop().Sugar()

	NewOutdatedJob(uc, logger).Run(context.Background())
	NewReminderJob(uc, logger).Run(context.Background())
	if uc.deleted != 1 || uc.dispatched != 1 {
		t.Fatalf("deleted=%d dispatched=%d", uc.deleted, uc.dispatched)
	}

	uc.panicking = true
	NewReminderJob(uc, logger).Run(context.Background())
	if uc.dispatched != 2 {
		t.Fatalf("dispatched=%d", uc.dispatched)
	}
}
