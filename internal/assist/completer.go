package assist

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotConfigured indicates that no AI provider is available.
	ErrNotConfigured = errors.New("assist: ai provider not configured")
	// ErrServiceFailure wraps every provider or decoding failure surfaced to callers.
	ErrServiceFailure = errors.New("assist: ai service failure")
	// ErrEmptyInput indicates that the request carried no text to work on.
	ErrEmptyInput = errors.New("assist: empty input")
)

// Completer turns a prompt into raw model text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, prompt string) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// RetryingCompleter retries failed completions a bounded number of times.
type RetryingCompleter struct {
	Next     Completer
	Attempts int
	Backoff  time.Duration
}

func (r RetryingCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if r.Next == nil {
		return "", ErrNotConfigured
	}
	attempts := r.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		text, err := r.Next.Complete(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if errors.Is(err, ErrNotConfigured) || ctx.Err() != nil || attempt == attempts {
			break
		}
		if r.Backoff > 0 {
			timer := time.NewTimer(r.Backoff * time.Duration(attempt))
			select {
			case <-ctx.Done():
				timer.Stop()
				return "", ctx.Err()
			case <-timer.C:
			}
		}
	}
	return "", lastErr
}
