package main

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"lifeos-backend/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpenCache_Disabled(t *testing.T) {
	c, closeCache := openCache(context.Background(), config.CacheConfig{Enabled: false}, discardLogger())
	defer closeCache()
	assert.Nil(t, c)
}

func TestOpenCache_InvalidURL(t *testing.T) {
	c, closeCache := openCache(context.Background(), config.CacheConfig{Enabled: true, URL: "not a url"}, discardLogger())
	defer closeCache()
	assert.Nil(t, c)
}

func TestOpenCache_RecoversWhenRedisStartsLate(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.Close()

	ctx := context.Background()
	c, closeCache := openCache(ctx, config.CacheConfig{Enabled: true, URL: "redis://" + mr.Addr(), TTL: time.Hour}, discardLogger())
	defer closeCache()
	require.NotNil(t, c)

	_, _, err := c.Get(ctx, "transcript_x")
	assert.Error(t, err)

	require.NoError(t, mr.Restart())

	require.NoError(t, c.Set(ctx, "transcript_x", `{"text":"hi"}`, time.Hour))
	val, ok, err := c.Get(ctx, "transcript_x")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"text":"hi"}`, val)
}
