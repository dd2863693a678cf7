package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"github.com/valkey-io/valkey-go"
)

func newValkeyLimiterUnderTest(t *testing.T, limit int, window time.Duration) (*ValkeyLimiter, *miniredis.Miniredis) {
	t.Helper()
	m := miniredis.RunT(t)
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress:       []string{m.Addr()},
		DisableCache:      true,
		ForceSingleClient: true,
		ClientSetInfo:     valkey.DisableClientSetInfo,
	})
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return NewValkeyLimiter(client, "agri:ratelimit", limit, window), m
}

func TestValkeyLimiterFixedWindow(t *testing.T) {
	l, m := newValkeyLimiterUnderTest(t, 2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		require.True(t, ok)
	}
	ok, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	require.False(t, ok)
	require.Greater(t, m.TTL("agri:ratelimit:1.2.3.4"), time.Duration(0))

	ok, err = l.Allow(ctx, "5.6.7.8")
	require.NoError(t, err)
	require.True(t, ok)

	m.FastForward(time.Minute)
	ok, err = l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestValkeyLimiterRestoresMissingExpiry(t *testing.T) {
	l, m := newValkeyLimiterUnderTest(t, 10, time.Minute)
	require.NoError(t, m.Set("agri:ratelimit:1.2.3.4", "5"))
	require.Equal(t, time.Duration(0), m.TTL("agri:ratelimit:1.2.3.4"))

	ok, err := l.Allow(context.Background(), "1.2.3.4")
	require.NoError(t, err)
	require.True(t, ok)
	require.Greater(t, m.TTL("agri:ratelimit:1.2.3.4"), time.Duration(0))

	got, err := m.Get("agri:ratelimit:1.2.3.4")
	require.NoError(t, err)
	require.Equal(t, "6", got)
}

func TestValkeyLimiterReportsScriptErrors(t *testing.T) {
	l, m := newValkeyLimiterUnderTest(t, 1, time.Minute)
	require.NoError(t, m.Set("agri:ratelimit:1.2.3.4", "not-a-counter"))

	ok, err := l.Allow(context.Background(), "1.2.3.4")
	require.Error(t, err)
	require.False(t, ok)
}
