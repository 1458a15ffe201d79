package holiday

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hanul-soft/hr-portal/backend/internal/schedule"
)

// RedisYearCache 는 연도별 공휴일 집합을 redis 에 보관한다.
type RedisYearCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisYearCache(rdb *redis.Client, ttl time.Duration) *RedisYearCache {
	return &RedisYearCache{rdb: rdb, ttl: ttl}
}

func (c *RedisYearCache) key(year int) string {
	return fmt.Sprintf("holidays_%d", year)
}

func (c *RedisYearCache) Get(ctx context.Context, year int) (schedule.HolidaySet, bool, error) {
	payload, err := c.rdb.Get(ctx, c.key(year)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}

	var monthDays []string
	if err := json.Unmarshal([]byte(payload), &monthDays); err != nil {
		return nil, false, err
	}

	set := schedule.HolidaySet{}
	for _, md := range monthDays {
		set[md] = true
	}
	return set, true, nil
}

func (c *RedisYearCache) Set(ctx context.Context, year int, set schedule.HolidaySet) error {
	monthDays := make([]string, 0, len(set))
	for md := range set {
		monthDays = append(monthDays, md)
	}

	payload, err := json.Marshal(monthDays)
	if err != nil {
		return err
	}

	return c.rdb.Set(ctx, c.key(year), payload, c.ttl).Err()
}
