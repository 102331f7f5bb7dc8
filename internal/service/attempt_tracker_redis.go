package service

import (
	"context"
	"fmt"

	"github.com/avialine/backoffice/internal/observability"
	"github.com/redis/go-redis/v9"
)

// RedisAttemptTracker keeps guard state in Redis under
// login_attempts_<identity> and lockout_<identity>. INCR makes the
// counter safe against concurrent failed logins for one identity;
// expiry is left entirely to Redis key TTLs.
type RedisAttemptTracker struct {
	client redis.UniversalClient
	policy AttemptTrackerPolicy
}

func NewRedisAttemptTracker(client redis.UniversalClient, policy AttemptTrackerPolicy) *RedisAttemptTracker {
	return &RedisAttemptTracker{client: client, policy: policy}
}

func (t *RedisAttemptTracker) RecordFailure(ctx context.Context, identity string) (int, error) {
	key := t.attemptsKey(identity)

	pipe := t.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, t.policy.AttemptTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("record login failure: %w", err)
	}
	count := int(incr.Val())
	if count >= t.policy.MaxFailures {
		if err := t.client.Set(ctx, t.lockoutKey(identity), "1", t.policy.LockoutTTL).Err(); err != nil {
			return count, fmt.Errorf("set lockout: %w", err)
		}
		observability.RecordLoginLockout()
	}
	return count, nil
}

func (t *RedisAttemptTracker) IsLocked(ctx context.Context, identity string) (bool, error) {
	_, err := t.client.Get(ctx, t.lockoutKey(identity)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check lockout: %w", err)
	}
	return true, nil
}

func (t *RedisAttemptTracker) Reset(ctx context.Context, identity string) error {
	if err := t.client.Del(ctx, t.attemptsKey(identity), t.lockoutKey(identity)).Err(); err != nil {
		return fmt.Errorf("reset login guard: %w", err)
	}
	return nil
}

func (t *RedisAttemptTracker) attemptsKey(identity string) string {
	return "login_attempts_" + normalizeIdentity(identity)
}

func (t *RedisAttemptTracker) lockoutKey(identity string) string {
	return "lockout_" + normalizeIdentity(identity)
}
