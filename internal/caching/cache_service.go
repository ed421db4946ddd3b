package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"rentzy/internal/models"

	"github.com/redis/go-redis/v9"
)

// CacheService is the short-lived, high-churn key-value state behind
// verification codes and rate limiting. Handlers and services receive it by
// injection; there is no package-global cache. The redis implementation is the
// scale-out path, the memory implementation the single-process default.
type CacheService interface {
	// Verification entries, keyed by lowercased email.
	GetVerification(ctx context.Context, email string) (*models.VerificationEntry, error)
	SetVerification(ctx context.Context, email string, entry *models.VerificationEntry, ttl time.Duration) error
	DeleteVerification(ctx context.Context, email string) error

	// Rate limiting
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	// Generic string operations
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error

	// SweepExpired removes entries past their logical expiry. Redis expires
	// natively so its sweep is a no-op; the memory store scans all keys.
	SweepExpired(ctx context.Context) (int, error)
}

// Entries outlive their logical expiry by this margin so an expired code is
// still found and reported as expired rather than missing.
const expiryGrace = 5 * time.Minute

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis://host:port as well as bare host:port.
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func verificationKey(email string) string {
	return fmt.Sprintf("rentzy:verify:%s", strings.ToLower(email))
}

func (r *redisCacheService) GetVerification(ctx context.Context, email string) (*models.VerificationEntry, error) {
	data, err := r.client.Get(ctx, verificationKey(email)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var entry models.VerificationEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *redisCacheService) SetVerification(ctx context.Context, email string, entry *models.VerificationEntry, ttl time.Duration) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, verificationKey(email), data, ttl+expiryGrace).Err()
}

func (r *redisCacheService) DeleteVerification(ctx context.Context, email string) error {
	return r.client.Del(ctx, verificationKey(email)).Err()
}

func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := fmt.Sprintf("rentzy:ratelimit:%s", key)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return true, err
	}

	// Set expiry on first request
	if count == 1 {
		r.client.Expire(ctx, cacheKey, window)
	}

	return count > int64(limit), nil
}

func (r *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil // cache miss
		}
		return "", err
	}
	return val, nil
}

func (r *redisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) SweepExpired(ctx context.Context) (int, error) {
	return 0, nil
}
