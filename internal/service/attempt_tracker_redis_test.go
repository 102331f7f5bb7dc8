package service

import (
	"context"
	"testing"
	"time"
)

func TestRedisTrackerLockoutLifecycle(t *testing.T) {
	ctx := context.Background()
	server, client := newRedisClientForTest(t)
	tracker := NewRedisAttemptTracker(client, AttemptTrackerPolicy{
		MaxFailures: 3,
		AttemptTTL:  time.Hour,
		LockoutTTL:  5 * time.Minute,
	})

	for i := 1; i <= 2; i++ {
		count, err := tracker.RecordFailure(ctx, "a@x.com")
		if err != nil {
			t.Fatalf("record failure: %v", err)
		}
		if count != i {
			t.Fatalf("expected count %d, got %d", i, count)
		}
		if locked, _ := tracker.IsLocked(ctx, "a@x.com"); locked {
			t.Fatalf("unexpected lockout at count %d", i)
		}
	}

	count, err := tracker.RecordFailure(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("record third failure: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected count 3, got %d", count)
	}
	locked, err := tracker.IsLocked(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("is locked: %v", err)
	}
	if !locked {
		t.Fatal("expected lockout at threshold")
	}

	// Lockout expires on its own TTL, counter lives on.
	server.FastForward(5*time.Minute + time.Second)
	if locked, _ := tracker.IsLocked(ctx, "a@x.com"); locked {
		t.Fatal("expected lockout to expire")
	}
	if !server.Exists("login_attempts_a@x.com") {
		t.Fatal("expected attempt counter to survive lockout expiry")
	}

	// Next failure re-arms immediately from the lingering counter.
	if _, err := tracker.RecordFailure(ctx, "a@x.com"); err != nil {
		t.Fatalf("record failure: %v", err)
	}
	if locked, _ := tracker.IsLocked(ctx, "a@x.com"); !locked {
		t.Fatal("expected re-lock from lingering counter")
	}
}

func TestRedisTrackerCounterTTL(t *testing.T) {
	ctx := context.Background()
	server, client := newRedisClientForTest(t)
	tracker := NewRedisAttemptTracker(client, AttemptTrackerPolicy{
		MaxFailures: 3,
		AttemptTTL:  time.Hour,
		LockoutTTL:  5 * time.Minute,
	})

	if _, err := tracker.RecordFailure(ctx, "a@x.com"); err != nil {
		t.Fatalf("record failure: %v", err)
	}
	server.FastForward(time.Hour + time.Minute)

	count, err := tracker.RecordFailure(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("record failure after counter expiry: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected counter restart at 1, got %d", count)
	}
}

func TestRedisTrackerResetAndKeying(t *testing.T) {
	ctx := context.Background()
	server, client := newRedisClientForTest(t)
	tracker := NewRedisAttemptTracker(client, DefaultAttemptTrackerPolicy())

	for i := 0; i < 3; i++ {
		if _, err := tracker.RecordFailure(ctx, "  User@Example.COM"); err != nil {
			t.Fatalf("record failure: %v", err)
		}
	}
	// Keys use the case-folded identity.
	if !server.Exists("login_attempts_user@example.com") {
		t.Fatal("expected normalized attempts key")
	}
	if !server.Exists("lockout_user@example.com") {
		t.Fatal("expected normalized lockout key")
	}

	if err := tracker.Reset(ctx, "user@example.com"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if server.Exists("login_attempts_user@example.com") || server.Exists("lockout_user@example.com") {
		t.Fatal("expected reset to delete both keys")
	}
	if locked, _ := tracker.IsLocked(ctx, "user@example.com"); locked {
		t.Fatal("expected no lockout after reset")
	}
}
