package repository

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	KeyLeaderboard       = "report:leaderboard"
	KeyEditorLeaderboard = "report:editor_leaderboard"
	KeyMonthly           = "report:monthly"
	KeyStatus            = "report:status"
)

// ReportCache 把报表结果以JSON缓存在Redis里；rdb为nil时所有操作都是空操作
type ReportCache interface {
	// Get 命中返回true；未命中或Redis不可用返回false
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

type reportCache struct {
	rdb *redis.Client
}

func NewReportCache(rdb *redis.Client) ReportCache {
	return &reportCache{rdb: rdb}
}

func (c *reportCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if c.rdb == nil {
		return false, nil
	}
	raw, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil // 缓存不存在，但是Redis正常工作
	} else if err != nil {
		return false, err // Redis本身出错了
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, err
	}
	return true, nil
}

// 过期时间加上随机性防止缓存雪崩
func (c *reportCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.rdb == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	expiration := ttl + time.Duration(rand.Intn(60))*time.Second
	return c.rdb.Set(ctx, key, raw, expiration).Err()
}

func (c *reportCache) Invalidate(ctx context.Context, keys ...string) error {
	if c.rdb == nil || len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}
