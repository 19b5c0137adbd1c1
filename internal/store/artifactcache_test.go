// internal/store/artifactcache_test.go
package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	}), mr
}

func TestArtifactCache_ReportRoundTrip(t *testing.T) {
	client, _ := setupRedis(t)
	cache := NewArtifactCache(client, 10*time.Minute, time.Minute)
	ctx := context.Background()

	html := []byte("<html><body>Channel Readiness Report</body></html>")
	require.NoError(t, cache.PutReport(ctx, "sub-001", html))

	got, err := cache.GetReport(ctx, "sub-001")
	require.NoError(t, err)
	assert.Equal(t, html, got)
}

func TestArtifactCache_GetReport_Miss(t *testing.T) {
	client, _ := setupRedis(t)
	cache := NewArtifactCache(client, 10*time.Minute, time.Minute)

	got, err := cache.GetReport(context.Background(), "nope")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestArtifactCache_ReportExpires(t *testing.T) {
	client, mr := setupRedis(t)
	cache := NewArtifactCache(client, time.Minute, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.PutReport(ctx, "sub-001", []byte("report")))

	mr.FastForward(2 * time.Minute)

	got, err := cache.GetReport(ctx, "sub-001")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestArtifactCache_ThrottleBlocksSecondSubmit(t *testing.T) {
	client, mr := setupRedis(t)
	cache := NewArtifactCache(client, time.Minute, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.ReserveSubmit(ctx, "jordan@acme.example"))

	err := cache.ReserveSubmit(ctx, "jordan@acme.example")
	assert.ErrorIs(t, err, ErrThrottled)

	// different address is unaffected
	assert.NoError(t, cache.ReserveSubmit(ctx, "sam@beta.example"))

	// window expiry frees the slot
	mr.FastForward(2 * time.Minute)
	assert.NoError(t, cache.ReserveSubmit(ctx, "jordan@acme.example"))
}

func TestArtifactCache_ReleaseSubmit(t *testing.T) {
	client, _ := setupRedis(t)
	cache := NewArtifactCache(client, time.Minute, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.ReserveSubmit(ctx, "jordan@acme.example"))
	require.NoError(t, cache.ReleaseSubmit(ctx, "jordan@acme.example"))
	assert.NoError(t, cache.ReserveSubmit(ctx, "jordan@acme.example"))
}
