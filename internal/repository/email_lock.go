package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLocked is returned when another registration holds the email. It says
// nothing about whether that registration will succeed.
var ErrLocked = errors.New("email reservation held by another request")

// releaseScript deletes the key only when it still holds our token, so an
// expired reservation taken over by another request is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// EmailLock reserves an email for the duration of a registration.
// The database unique index stays authoritative; the lock only narrows
// the window in which two registrations race.
type EmailLock interface {
	Acquire(ctx context.Context, email string) (release func(), err error)
}

type redisEmailLock struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisEmailLock creates an EmailLock backed by Redis SET NX.
func NewRedisEmailLock(client *redis.Client, ttl time.Duration) EmailLock {
	return &redisEmailLock{client: client, ttl: ttl}
}

func (l *redisEmailLock) Acquire(ctx context.Context, email string) (func(), error) {
	key := emailLockKey(email)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to reserve email: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}

	release := func() {
		// the caller's context may already be cancelled
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()
		_ = releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err()
	}
	return release, nil
}

func emailLockKey(email string) string {
	return "register_lock:" + strings.ToLower(email)
}

type noopEmailLock struct{}

// NewNoopEmailLock returns an EmailLock that always succeeds. It is used
// when Redis is not configured.
func NewNoopEmailLock() EmailLock {
	return noopEmailLock{}
}

func (noopEmailLock) Acquire(context.Context, string) (func(), error) {
	return func() {}, nil
}
