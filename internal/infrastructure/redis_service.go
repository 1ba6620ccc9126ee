package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sarathaj/User-Management/internal/config"
	"github.com/sarathaj/User-Management/internal/domain/entities"
)

const (
	blacklistPrefix = "blacklist:"
	profilePrefix   = "profile:"
)

// RedisService caches blacklisted refresh tokens and profiles. A service with
// a nil client is disabled: writes succeed silently and reads always miss.
type RedisService struct {
	client *redis.Client
}

func NewRedisService(cfg *config.Config) *RedisService {
	if !cfg.RedisEnabled() {
		log.Printf("Redis not configured, caching disabled")
		return &RedisService{client: nil}
	}

	var opt *redis.Options
	if cfg.RedisURL != "" {
		parsed, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Printf("Warning: invalid REDIS_URL: %v", err)
			return &RedisService{client: nil}
		}
		opt = parsed
	} else {
		opt = &redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}
	}
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Redis connection failed: %v", err)
		log.Printf("Redis will be disabled. Token checks fall back to the database.")
		_ = client.Close()
		return &RedisService{client: nil}
	}

	log.Printf("Connected to Redis at %s", opt.Addr)
	return &RedisService{client: client}
}

// NewRedisServiceWithClient wraps an existing client.
func NewRedisServiceWithClient(client *redis.Client) *RedisService {
	return &RedisService{client: client}
}

func (r *RedisService) Enabled() bool {
	return r.client != nil
}

// BlacklistToken marks jti as revoked for ttl. Entries with no remaining
// lifetime are not cached; the database copy still applies.
func (r *RedisService) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if r.client == nil || ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, blacklistPrefix+jti, "1", ttl).Err()
}

// IsTokenBlacklisted reports a cache hit. A miss says nothing about the
// database and the caller must check there.
func (r *RedisService) IsTokenBlacklisted(ctx context.Context, jti string) (bool, error) {
	if r.client == nil {
		return false, nil
	}
	n, err := r.client.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *RedisService) SetProfile(ctx context.Context, userID string, profile *entities.Profile, ttl time.Duration) error {
	if r.client == nil {
		return nil
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, profilePrefix+userID, data, ttl).Err()
}

// GetProfile returns (nil, nil) on a miss.
func (r *RedisService) GetProfile(ctx context.Context, userID string) (*entities.Profile, error) {
	if r.client == nil {
		return nil, nil
	}
	data, err := r.client.Get(ctx, profilePrefix+userID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var profile entities.Profile
	if err := json.Unmarshal([]byte(data), &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *RedisService) DeleteProfile(ctx context.Context, userID string) error {
	if r.client == nil {
		return nil
	}
	return r.client.Del(ctx, profilePrefix+userID).Err()
}

func (r *RedisService) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}
