package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	domain "github.com/BruksfildServices01/bay-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/bay-scheduler/internal/models"
)

const keyPrefix = "calendar:"

// CalendarCache is a read-through cache for working hours and blocked dates.
// Redis failures fall back to the wrapped source.
//
// A read that misses, loads from the source and then writes back can land
// after a concurrent Invalidate and re-cache the old rules. Such an entry
// lives at most ttl. It only affects availability listings: booking creation
// reads the rules from the repository inside its transaction.
type CalendarCache struct {
	rdb  *redis.Client
	next domain.CalendarRules
	ttl  time.Duration
}

func NewCalendarCache(rdb *redis.Client, next domain.CalendarRules, ttl time.Duration) *CalendarCache {
	return &CalendarCache{rdb: rdb, next: next, ttl: ttl}
}

// NewClient parses a redis:// URL and pings the server.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// cachedHours distinguishes a missing weekday row from a cache miss.
type cachedHours struct {
	Missing bool                 `json:"missing"`
	Hours   *models.WorkingHours `json:"hours,omitempty"`
}

func (c *CalendarCache) GetWorkingHours(ctx context.Context, weekday int) (*models.WorkingHours, error) {
	key := keyPrefix + "hours:" + strconv.Itoa(weekday)

	if raw, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var v cachedHours
		if err := json.Unmarshal(raw, &v); err == nil {
			if v.Missing {
				return nil, nil
			}
			return v.Hours, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		slog.WarnContext(ctx, "calendar cache read failed", "key", key, "error", err)
	}

	wh, err := c.next.GetWorkingHours(ctx, weekday)
	if err != nil {
		return nil, err
	}

	c.store(ctx, key, cachedHours{Missing: wh == nil, Hours: wh})
	return wh, nil
}

func (c *CalendarCache) IsDateBlocked(ctx context.Context, date time.Time) (bool, error) {
	key := keyPrefix + "blocked:" + date.Format(domain.DateLayout)

	if v, err := c.rdb.Get(ctx, key).Result(); err == nil {
		return v == "1", nil
	} else if !errors.Is(err, redis.Nil) {
		slog.WarnContext(ctx, "calendar cache read failed", "key", key, "error", err)
	}

	blocked, err := c.next.IsDateBlocked(ctx, date)
	if err != nil {
		return false, err
	}

	flag := "0"
	if blocked {
		flag = "1"
	}
	if err := c.rdb.Set(ctx, key, flag, c.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "calendar cache write failed", "key", key, "error", err)
	}
	return blocked, nil
}

// Invalidate drops every cached calendar entry.
func (c *CalendarCache) Invalidate(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan calendar keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

func (c *CalendarCache) store(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "calendar cache write failed", "key", key, "error", err)
	}
}

var _ domain.CalendarRules = (*CalendarCache)(nil)
