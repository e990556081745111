package catchall

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adverot/emailfinder/pkg/platform/sentinel"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	_, err := store.Get(ctx, "example.com")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	require.NoError(t, store.Set(ctx, "example.com", VerdictCatchAll, time.Hour))

	verdict, err := store.Get(ctx, "example.com")
	require.NoError(t, err)
	assert.Equal(t, VerdictCatchAll, verdict)

	// Overwrite keeps the latest verdict.
	require.NoError(t, store.Set(ctx, "example.com", VerdictNotCatchAll, time.Hour))
	verdict, err = store.Get(ctx, "example.com")
	require.NoError(t, err)
	assert.Equal(t, VerdictNotCatchAll, verdict)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	store := NewMemory()
	store.now = func() time.Time { return clock }

	require.NoError(t, store.Set(ctx, "example.com", VerdictCatchAll, time.Hour))

	clock = clock.Add(59 * time.Minute)
	verdict, err := store.Get(ctx, "example.com")
	require.NoError(t, err)
	assert.Equal(t, VerdictCatchAll, verdict)

	clock = clock.Add(2 * time.Minute)
	_, err = store.Get(ctx, "example.com")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	// A fresh Set after expiry resurrects the domain.
	require.NoError(t, store.Set(ctx, "example.com", VerdictNotCatchAll, time.Hour))
	verdict, err = store.Get(ctx, "example.com")
	require.NoError(t, err)
	assert.Equal(t, VerdictNotCatchAll, verdict)
}
