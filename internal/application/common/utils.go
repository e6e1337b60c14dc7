package common

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// Version проставляется при сборке: -ldflags "-X planner/internal/application/common.Version=..."
var Version = "0.1.0"

const maxBackoff = 30 * time.Minute

func PgInterval(d time.Duration) string {
	sec := int64(d / time.Second)
	return fmt.Sprintf("%d seconds", sec)
}

// NextBackoffWithJitter: экспонента от секунды, потолок maxBackoff, джиттер в верхней половине.
func NextBackoffWithJitter(attempts int) time.Duration {
	if attempts < 0 {
		attempts = 0
	}
	if attempts > 30 {
		attempts = 30
	}

	base := time.Second << attempts
	if base > maxBackoff {
		base = maxBackoff
	}

	jitter := time.Duration(rand.Int63n(int64(base / 2)))

	return base/2 + jitter
}

func SleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Today - полночь дня t в его же поясе, без времени суток.
func Today(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
