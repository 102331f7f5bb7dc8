package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/avialine/backoffice/internal/observability"
)

// AttemptTrackerPolicy controls the failed-login guard. MaxFailures is
// the count at which a lockout starts; AttemptTTL bounds how long the
// failure counter lives without further failures; LockoutTTL bounds the
// lockout window itself. The two TTLs are independent.
type AttemptTrackerPolicy struct {
	MaxFailures int
	AttemptTTL  time.Duration
	LockoutTTL  time.Duration
}

func DefaultAttemptTrackerPolicy() AttemptTrackerPolicy {
	return AttemptTrackerPolicy{
		MaxFailures: 3,
		AttemptTTL:  time.Hour,
		LockoutTTL:  5 * time.Minute,
	}
}

// AttemptTracker guards login against brute force. Implementations key
// all state by the normalized identity so case variants of one email
// cannot dodge the counter.
type AttemptTracker interface {
	// RecordFailure bumps the failure counter and returns the new count.
	// Reaching the policy threshold arms the lockout.
	RecordFailure(ctx context.Context, identity string) (int, error)
	// IsLocked reports whether a lockout window is active.
	IsLocked(ctx context.Context, identity string) (bool, error)
	// Reset drops both the counter and the lockout flag.
	Reset(ctx context.Context, identity string) error
}

func normalizeIdentity(identity string) string {
	return strings.ToLower(strings.TrimSpace(identity))
}

type memoryAttemptState struct {
	count          int
	countExpiresAt time.Time
	lockedUntil    time.Time
}

// MemoryAttemptTracker is the in-process implementation used in tests
// and single-node setups. The clock is injectable so expiry can be
// driven without sleeping.
type MemoryAttemptTracker struct {
	mu     sync.Mutex
	policy AttemptTrackerPolicy
	now    func() time.Time
	state  map[string]*memoryAttemptState
}

func NewMemoryAttemptTracker(policy AttemptTrackerPolicy) *MemoryAttemptTracker {
	return NewMemoryAttemptTrackerWithClock(policy, time.Now)
}

func NewMemoryAttemptTrackerWithClock(policy AttemptTrackerPolicy, now func() time.Time) *MemoryAttemptTracker {
	return &MemoryAttemptTracker{
		policy: policy,
		now:    now,
		state:  make(map[string]*memoryAttemptState),
	}
}

func (t *MemoryAttemptTracker) RecordFailure(_ context.Context, identity string) (int, error) {
	key := normalizeIdentity(identity)
	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.state[key]
	if !ok || now.After(s.countExpiresAt) {
		if s == nil {
			s = &memoryAttemptState{}
			t.state[key] = s
		}
		s.count = 0
	}
	s.count++
	s.countExpiresAt = now.Add(t.policy.AttemptTTL)
	if s.count >= t.policy.MaxFailures {
		s.lockedUntil = now.Add(t.policy.LockoutTTL)
		observability.RecordLoginLockout()
	}
	return s.count, nil
}

func (t *MemoryAttemptTracker) IsLocked(_ context.Context, identity string) (bool, error) {
	key := normalizeIdentity(identity)
	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.state[key]
	if !ok {
		return false, nil
	}
	return now.Before(s.lockedUntil), nil
}

func (t *MemoryAttemptTracker) Reset(_ context.Context, identity string) error {
	key := normalizeIdentity(identity)

	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.state, key)
	return nil
}
