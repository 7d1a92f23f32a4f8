package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fiscalcode/internal/platform/config"
)

func TestNewWithoutURLDisablesRedis(t *testing.T) {
	client, err := New(context.Background(), config.RedisConfig{})
	assert.NoError(t, err)
	assert.Nil(t, client)
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New(context.Background(), config.RedisConfig{URL: "http://not-redis"})
	assert.ErrorContains(t, err, "parse redis URL")
}

func TestNewFailsWhenUnreachable(t *testing.T) {
	_, err := New(context.Background(), config.RedisConfig{
		URL:         "redis://127.0.0.1:1/0",
		DialTimeout: 50 * time.Millisecond,
	})
	assert.ErrorContains(t, err, "redis ping failed")
}
