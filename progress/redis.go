package progress

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"codelegends_gateway/logger"
)

// RedisTracker keeps stamps as unix milliseconds and fans events out over a
// pub/sub channel so every gateway replica sees them.
type RedisTracker struct {
	rdb     redis.UniversalClient
	channel string
	ttl     time.Duration
	log     *logger.Logger
}

func NewRedisTracker(rdb redis.UniversalClient, channel string, log *logger.Logger) *RedisTracker {
	if channel == "" {
		channel = "codelegends:progress"
	}
	return &RedisTracker{rdb: rdb, channel: channel, ttl: 30 * 24 * time.Hour, log: log.With("component", "RedisTracker")}
}

func (r *RedisTracker) Touch(ctx context.Context, ev Event) (time.Time, error) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	raw, err := json.Marshal(ev)
	if err != nil {
		return time.Time{}, err
	}
	pipe := r.rdb.TxPipeline()
	pipe.Set(ctx, stampKey(ev.UserID, ev.CourseSlug), ev.At.UnixMilli(), r.ttl)
	pipe.Publish(ctx, r.channel, raw)
	if _, err := pipe.Exec(ctx); err != nil {
		return time.Time{}, err
	}
	return ev.At, nil
}

func (r *RedisTracker) Stamp(ctx context.Context, userID int, courseSlug string) (time.Time, bool, error) {
	v, err := r.rdb.Get(ctx, stampKey(userID, courseSlug)).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, false, err
	}
	return time.UnixMilli(ms).UTC(), true, nil
}

func (r *RedisTracker) Subscribe(ctx context.Context, userID int) (<-chan Event, error) {
	sub := r.rdb.Subscribe(ctx, r.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}
	out := make(chan Event, 8)
	go func() {
		defer close(out)
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-msgs:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(m.Payload), &ev); err != nil {
					r.log.Warn("bad progress payload", "error", err)
					continue
				}
				if ev.UserID != userID {
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
