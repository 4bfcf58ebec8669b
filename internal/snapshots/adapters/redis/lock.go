package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	goredis "github.com/redis/go-redis/v9"

	"royalty-analytics-service/internal/snapshots/core/ports"
)

const DefaultLockKey = "lock:snapshot-refresh"

type heldLock interface {
	Refresh(ctx context.Context, ttl time.Duration, opt *redislock.Options) error
	Release(ctx context.Context) error
}

type obtainer interface {
	Obtain(ctx context.Context, key string, ttl time.Duration, opt *redislock.Options) (heldLock, error)
}

type clientObtainer struct {
	c *redislock.Client
}

func (o clientObtainer) Obtain(ctx context.Context, key string, ttl time.Duration, opt *redislock.Options) (heldLock, error) {
	lock, err := o.c.Obtain(ctx, key, ttl, opt)
	if err != nil {
		return nil, err
	}
	return lock, nil
}

// RunLock is a cluster-wide refresh guard backed by a Redis lock.
type RunLock struct {
	locker obtainer
	key    string
	ttl    time.Duration
}

var _ ports.RunLockPort = (*RunLock)(nil)

func NewRunLock(client goredis.UniversalClient, key string, ttl time.Duration) *RunLock {
	return newRunLock(clientObtainer{c: redislock.New(client)}, key, ttl)
}

func newRunLock(locker obtainer, key string, ttl time.Duration) *RunLock {
	if key == "" {
		key = DefaultLockKey
	}
	return &RunLock{locker: locker, key: key, ttl: ttl}
}

func (l *RunLock) Acquire(ctx context.Context) (func(context.Context) error, bool, error) {
	lock, err := l.locker.Obtain(ctx, l.key, l.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("obtain %s: %w", l.key, err)
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go l.keepAlive(lock, stop, done)

	return func(ctx context.Context) error {
		close(stop)
		<-done

		err := lock.Release(ctx)
		if errors.Is(err, redislock.ErrLockNotHeld) {
			// TTL expired before the run finished.
			return nil
		}
		return err
	}, true, nil
}

// keepAlive extends the lock every half TTL until stop is closed or the lock
// is lost.
func (l *RunLock) keepAlive(lock heldLock, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	interval := l.ttl / 2
	if interval <= 0 {
		<-stop
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			err := lock.Refresh(ctx, l.ttl, nil)
			cancel()
			if errors.Is(err, redislock.ErrNotObtained) {
				return
			}
		}
	}
}

// Connect opens a client and verifies the server answers.
func Connect(ctx context.Context, addr string) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		PoolSize: 10,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return client, nil
}
