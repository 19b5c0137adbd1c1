// internal/store/artifactcache.go
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ArtifactCache keeps rendered report HTML and the per-email submit throttle
// in Redis.
type ArtifactCache struct {
	client         *redis.Client
	reportTTL      time.Duration
	throttleWindow time.Duration
}

func NewArtifactCache(client *redis.Client, reportTTL, throttleWindow time.Duration) *ArtifactCache {
	if reportTTL <= 0 {
		reportTTL = 60 * time.Minute
	}
	if throttleWindow <= 0 {
		throttleWindow = 60 * time.Second
	}
	return &ArtifactCache{
		client:         client,
		reportTTL:      reportTTL,
		throttleWindow: throttleWindow,
	}
}

func reportKey(submissionID string) string {
	return fmt.Sprintf("report:%s", submissionID)
}

func throttleKey(email string) string {
	return fmt.Sprintf("throttle:%s", email)
}

// PutReport caches a rendered report for fast re-download.
func (c *ArtifactCache) PutReport(ctx context.Context, submissionID string, html []byte) error {
	if err := c.client.Set(ctx, reportKey(submissionID), html, c.reportTTL).Err(); err != nil {
		return fmt.Errorf("cache report: %w", err)
	}
	return nil
}

// GetReport returns the cached report HTML, or (nil, nil) on a cache miss.
func (c *ArtifactCache) GetReport(ctx context.Context, submissionID string) ([]byte, error) {
	val, err := c.client.Get(ctx, reportKey(submissionID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cached report: %w", err)
	}
	return val, nil
}

// ReserveSubmit claims the throttle slot for an email address. Returns
// ErrThrottled when a submit happened inside the window.
func (c *ArtifactCache) ReserveSubmit(ctx context.Context, email string) error {
	ok, err := c.client.SetNX(ctx, throttleKey(email), time.Now().UTC().Format(time.RFC3339), c.throttleWindow).Result()
	if err != nil {
		return fmt.Errorf("throttle check: %w", err)
	}
	if !ok {
		return ErrThrottled
	}
	return nil
}

// ReleaseSubmit frees a claimed throttle slot, used when intake fails after
// the reservation so the caller can retry immediately.
func (c *ArtifactCache) ReleaseSubmit(ctx context.Context, email string) error {
	return c.client.Del(ctx, throttleKey(email)).Err()
}
