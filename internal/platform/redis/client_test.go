package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adverot/emailfinder/internal/platform/config"
	"github.com/adverot/emailfinder/pkg/platform/sentinel"
)

func TestNew_DisabledWithoutURL(t *testing.T) {
	client, err := New(config.RedisConfig{})
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestNew_RejectsMalformedURL(t *testing.T) {
	_, err := New(config.RedisConfig{URL: "not-a-redis-url"})
	require.Error(t, err)
}

func TestNew_UnreachableServerIsUnavailable(t *testing.T) {
	// Port 1 is reserved and nothing listens there; the dial fails fast.
	_, err := New(config.RedisConfig{
		URL:         "redis://127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
}
