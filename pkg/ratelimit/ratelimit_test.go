package ratelimit

import (
	"testing"
	"time"
)

func TestLimiter_PerSecondCeiling(t *testing.T) {
	l := NewLimiter(3, 0)

	current := time.Date(2025, 9, 2, 10, 0, 0, 0, time.UTC)
	l.SetClock(func() time.Time { return current })

	for i := 0; i < 3; i++ {
		if d := l.Allow("chat", "user-1"); !d.Allowed {
			t.Fatalf("call %d expected allowed, got rejected", i+1)
		}
	}

	if d := l.Allow("chat", "user-1"); d.Allowed {
		t.Fatal("4th call within the same second expected rejected")
	}

	// A different identity has its own window.
	if d := l.Allow("chat", "user-2"); !d.Allowed {
		t.Fatal("different identity expected allowed")
	}

	// After the window elapses the counter resets.
	current = current.Add(1100 * time.Millisecond)
	if d := l.Allow("chat", "user-1"); !d.Allowed {
		t.Fatal("call after window elapsed expected allowed")
	}
}

func TestLimiter_PerMinuteCeilingIndependent(t *testing.T) {
	l := NewLimiter(0, 5)

	current := time.Date(2025, 9, 2, 10, 0, 0, 0, time.UTC)
	l.SetClock(func() time.Time { return current })

	for i := 0; i < 5; i++ {
		if d := l.Allow("weather_fetch", "user-1"); !d.Allowed {
			t.Fatalf("call %d expected allowed", i+1)
		}
		current = current.Add(2 * time.Second)
	}

	if d := l.Allow("weather_fetch", "user-1"); d.Allowed {
		t.Fatal("6th call within the minute expected rejected")
	}

	// The same identity on another operation is unaffected.
	if d := l.Allow("currency_fetch", "user-1"); !d.Allowed {
		t.Fatal("different operation expected allowed")
	}

	current = current.Add(time.Minute)
	if d := l.Allow("weather_fetch", "user-1"); !d.Allowed {
		t.Fatal("call after minute window elapsed expected allowed")
	}
}

func TestLimiter_RemainingAndReset(t *testing.T) {
	l := NewLimiter(0, 2)

	current := time.Date(2025, 9, 2, 10, 0, 0, 0, time.UTC)
	l.SetClock(func() time.Time { return current })

	d := l.Allow("chat", "user-1")
	if !d.Allowed || d.Remaining != 1 {
		t.Fatalf("expected allowed with 1 remaining, got %+v", d)
	}

	l.Allow("chat", "user-1")
	d = l.Allow("chat", "user-1")
	if d.Allowed {
		t.Fatalf("expected rejected, got %+v", d)
	}
	if d.ResetAt.IsZero() {
		t.Fatal("rejected decision should carry a reset time")
	}
}
