package metrics

import (
	"context"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

const fallbackEncoding = "cl100k_base"

// Encoder turns text into BPE token ids. *tiktoken.Tiktoken satisfies it.
type Encoder interface {
	Encode(text string, allowedSpecial []string, disallowedSpecial []string) []int
}

// TokenCounter estimates prompt sizes with the tokenizer of the configured model.
// The BPE ranks are fetched by Warm; until that succeeds Count reports ok=false
// so request handling never waits on the download.
type TokenCounter struct {
	model string
	load  func(model string) (Encoder, error)

	mu  sync.RWMutex
	enc Encoder
}

// NewTokenCounter builds a counter for the model. Call Warm before relying on it.
func NewTokenCounter(model string) *TokenCounter {
	return &TokenCounter{model: model, load: loadEncoding}
}

// NewTokenCounterWithEncoder builds a counter that is ready immediately.
func NewTokenCounterWithEncoder(enc Encoder) *TokenCounter {
	c := &TokenCounter{load: loadEncoding}
	c.setEncoder(enc)
	return c
}

func loadEncoding(model string) (Encoder, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding(fallbackEncoding)
	}
	if err != nil {
		return nil, err
	}
	return enc, nil
}

// Warm loads the encoding, returning early when ctx ends. A load still running at that
// point keeps going and readies the counter if it succeeds. Warm may be retried after an error.
func (c *TokenCounter) Warm(ctx context.Context) error {
	if c == nil || c.Ready() {
		return nil
	}
	done := make(chan error, 1)
	go func() {
		enc, err := c.load(c.model)
		if err == nil {
			c.setEncoder(enc)
		}
		done <- err
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ready reports whether an encoding is loaded.
func (c *TokenCounter) Ready() bool {
	return c.encoder() != nil
}

func (c *TokenCounter) encoder() Encoder {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.enc
}

func (c *TokenCounter) setEncoder(enc Encoder) {
	c.mu.Lock()
	c.enc = enc
	c.mu.Unlock()
}

// Count returns the number of tokens in text.
func (c *TokenCounter) Count(text string) (int, bool) {
	enc := c.encoder()
	if enc == nil || text == "" {
		return 0, false
	}
	return len(enc.Encode(text, nil, nil)), true
}

// Estimate wraps Count into a TokenUsage marked as estimated.
func (c *TokenCounter) Estimate(prompt string) TokenUsage {
	n, ok := c.Count(prompt)
	if !ok {
		return TokenUsage{}
	}
	return TokenUsage{PromptTokens: n, TotalTokens: n, Estimated: true}
}
