package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestInMemoryLimiterWindow(t *testing.T) {
	now := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	l := NewInMemory(time.Minute).WithClock(func() time.Time { return now })
	ctx := context.Background()

	for i := 1; i <= 100; i++ {
		d, err := l.Allow(ctx, "10.0.0.1", 100)
		if err != nil {
			t.Fatalf("Allow: %v", err)
		}
		if !d.Allowed {
			t.Fatalf("request %d rejected", i)
		}
	}

	d, _ := l.Allow(ctx, "10.0.0.1", 100)
	if d.Allowed {
		t.Fatal("request 101 allowed")
	}
	if d.Remaining != 0 {
		t.Errorf("remaining = %d", d.Remaining)
	}
	if got := d.RetryAfter(now); got != time.Minute {
		t.Errorf("retry after = %v", got)
	}

	// Other clients keep their own budget
	if d, _ := l.Allow(ctx, "10.0.0.2", 100); !d.Allowed {
		t.Error("independent key rejected")
	}

	now = now.Add(time.Minute)
	if d, _ := l.Allow(ctx, "10.0.0.1", 100); !d.Allowed || d.Remaining != 99 {
		t.Errorf("new window: %+v", d)
	}
}

func TestDecisionRetryAfterNeverNegative(t *testing.T) {
	now := time.Now()
	d := Decision{ResetAt: now.Add(-time.Second)}
	if d.RetryAfter(now) != 0 {
		t.Errorf("retry after = %v", d.RetryAfter(now))
	}
}
