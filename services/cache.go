package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/roronoazoero/ML-Project-F1-prediction-2025/config"
)

const (
	// ManifestKey holds the manifest of the latest completed run.
	ManifestKey = "f1features:manifest:latest"
	// RunsChannel carries a RunEvent for every completed run.
	RunsChannel = "f1features:runs"
	// FeaturesCachePrefix namespaces cached feature pages.
	FeaturesCachePrefix = "f1features:page:"
)

// RunEvent is published on RunsChannel after a run is stored.
type RunEvent struct {
	RunID     string    `json:"run_id"`
	Rows      int       `json:"rows"`
	CreatedAt time.Time `json:"created_at"`
}

type CacheService struct {
	client *redis.Client
}

// NewCacheService connects to Redis, retrying the ping a few times while the
// server comes up. On failure it still returns a usable, disconnected service.
func NewCacheService(cfg config.RedisConfig) (*CacheService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	var lastErr error
	for i := 0; i < 5; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		lastErr = client.Ping(ctx).Err()
		cancel()
		if lastErr == nil {
			return &CacheService{client: client}, nil
		}
		log.Printf("Redis ping attempt %d/5 failed: %v", i+1, lastErr)
		time.Sleep(time.Second)
	}
	client.Close()

	return &CacheService{}, fmt.Errorf("redis ping failed after 5 attempts: %w", lastErr)
}

func (s *CacheService) Available() bool {
	return s.client != nil
}

// Get decodes the cached value into dest. A miss, or a disconnected cache,
// returns redis.Nil.
func (s *CacheService) Get(ctx context.Context, key string, dest any) error {
	if s.client == nil {
		return redis.Nil
	}
	val, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(val, dest)
}

func (s *CacheService) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if s.client == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

// DeletePrefix drops every key starting with prefix.
func (s *CacheService) DeletePrefix(ctx context.Context, prefix string) error {
	if s.client == nil {
		return nil
	}
	iter := s.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

func (s *CacheService) Publish(ctx context.Context, channel string, message any) error {
	if s.client == nil {
		return nil
	}
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return s.client.Publish(ctx, channel, data).Err()
}

func (s *CacheService) Subscribe(ctx context.Context, channel string) *redis.PubSub {
	if s.client == nil {
		return nil
	}
	return s.client.Subscribe(ctx, channel)
}

func (s *CacheService) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

// IsMiss reports whether err from Get means nothing was cached.
func IsMiss(err error) bool {
	return errors.Is(err, redis.Nil)
}
