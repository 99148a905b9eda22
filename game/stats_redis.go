package game

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	jsoniter "github.com/json-iterator/go"
)

// RedisStatsTracker persists lifetime stats in redis so they survive
// process restarts. Table state itself stays memory-resident.
type RedisStatsTracker struct {
	rdclient *redis.Client
}

func NewRedisStatsTracker(redisURL string, redisPW string, redisDB int) *RedisStatsTracker {
	rdclient := redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: redisPW,
		DB:       redisDB,
	})
	return &RedisStatsTracker{
		rdclient: rdclient,
	}
}

func (r *RedisStatsTracker) key(addr string) string {
	return fmt.Sprintf("faro:stats:%s", statsKey(addr))
}

func (r *RedisStatsTracker) Load(addr string) (*PlayerStats, error) {
	statsBytes, err := r.rdclient.Get(context.Background(), r.key(addr)).Result()
	if err == redis.Nil {
		return &PlayerStats{}, nil
	} else if err != nil {
		return nil, err
	}
	stats := &PlayerStats{}
	err = jsoniter.Unmarshal([]byte(statsBytes), stats)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *RedisStatsTracker) Save(addr string, stats *PlayerStats) error {
	statsBytes, err := jsoniter.Marshal(stats)
	if err != nil {
		return err
	}
	return r.rdclient.Set(context.Background(), r.key(addr), statsBytes, 0).Err()
}

func (r *RedisStatsTracker) Remove(addr string) error {
	return r.rdclient.Del(context.Background(), r.key(addr)).Err()
}
