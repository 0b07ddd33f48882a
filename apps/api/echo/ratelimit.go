package echoapi

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// LoginLimiter limits the number of failed login attempts per username within a window.
type LoginLimiter interface {
	// Allow reports whether key may attempt to log in.
	Allow(ctx context.Context, key string) (bool, error)
	// Fail records a failed attempt for key.
	Fail(ctx context.Context, key string) error
	// Reset clears the failed attempts of key.
	Reset(ctx context.Context, key string) error
}

type redisLoginLimiter struct {
	client   *redis.Client
	attempts int
	window   time.Duration
}

var _ LoginLimiter = (*redisLoginLimiter)(nil)

// NewRedisLoginLimiter connects to the redis server at url.
func NewRedisLoginLimiter(url string, attempts int, window time.Duration) (*redisLoginLimiter, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "parsing redis URL")
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, errors.Wrap(err, "connecting to redis")
	}
	return &redisLoginLimiter{client: client, attempts: attempts, window: window}, nil
}

func (l *redisLoginLimiter) key(k string) string {
	return "login_attempts:" + k
}

func (l *redisLoginLimiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := l.client.Get(ctx, l.key(key)).Int()
	if err == redis.Nil {
		return true, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "reading login attempts")
	}
	return count < l.attempts, nil
}

func (l *redisLoginLimiter) Fail(ctx context.Context, key string) error {
	pipe := l.client.TxPipeline()
	pipe.Incr(ctx, l.key(key))
	pipe.Expire(ctx, l.key(key), l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "recording login attempt")
	}
	return nil
}

func (l *redisLoginLimiter) Reset(ctx context.Context, key string) error {
	return errors.Wrap(l.client.Del(ctx, l.key(key)).Err(), "resetting login attempts")
}

func (l *redisLoginLimiter) Close() error {
	return l.client.Close()
}
