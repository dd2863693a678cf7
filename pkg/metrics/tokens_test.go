package metrics

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type wordEncoder struct{}

func (wordEncoder) Encode(text string, _ []string, _ []string) []int {
	return make([]int, len(strings.Fields(text)))
}

func TestTokenCounterNotReadyUntilWarmed(t *testing.T) {
	var loads atomic.Int32
	c := NewTokenCounter("gpt-test")
	c.load = func(string) (Encoder, error) {
		loads.Add(1)
		return wordEncoder{}, nil
	}

	n, ok := c.Count("plant rice early")
	require.False(t, ok)
	require.Zero(t, n)
	require.True(t, c.Estimate("plant rice early").IsZero())
	require.Zero(t, loads.Load())

	require.NoError(t, c.Warm(context.Background()))
	require.True(t, c.Ready())
	require.Equal(t, TokenUsage{PromptTokens: 3, TotalTokens: 3, Estimated: true}, c.Estimate("plant rice early"))

	require.NoError(t, c.Warm(context.Background()))
	require.EqualValues(t, 1, loads.Load())
}

func TestTokenCounterWarmHonoursDeadline(t *testing.T) {
	release := make(chan struct{})
	c := NewTokenCounter("gpt-test")
	c.load = func(string) (Encoder, error) {
		<-release
		return wordEncoder{}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := c.Warm(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.False(t, c.Ready())

	close(release)
	require.Eventually(t, c.Ready, time.Second, 5*time.Millisecond)
}

func TestTokenCounterWarmRetriesAfterFailure(t *testing.T) {
	fail := true
	c := NewTokenCounter("gpt-test")
	c.load = func(string) (Encoder, error) {
		if fail {
			return nil, errors.New("offline")
		}
		return wordEncoder{}, nil
	}

	require.EqualError(t, c.Warm(context.Background()), "offline")
	require.False(t, c.Ready())

	fail = false
	require.NoError(t, c.Warm(context.Background()))
	n, ok := c.Count("sow wheat")
	require.True(t, ok)
	require.Equal(t, 2, n)
}

func TestTokenCounterNilSafe(t *testing.T) {
	var c *TokenCounter
	require.NoError(t, c.Warm(context.Background()))
	require.False(t, c.Ready())
	require.True(t, c.Estimate("anything").IsZero())

	ready := NewTokenCounterWithEncoder(wordEncoder{})
	n, ok := ready.Count("")
	require.False(t, ok)
	require.Zero(t, n)
}
