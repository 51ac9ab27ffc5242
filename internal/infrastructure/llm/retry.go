package llm

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type retryPolicy struct {
	maxRetries int
	backoff    time.Duration
}

// attemptFunc reports whether a failed attempt is worth repeating.
type attemptFunc func(ctx context.Context) (text string, retryable bool, err error)

// run makes one attempt plus up to maxRetries more, waiting backoff*n before the n-th retry.
func (p retryPolicy) run(ctx context.Context, log *zap.Logger, fn attemptFunc) (string, error) {
	for attempt := 0; ; attempt++ {
		text, retryable, err := fn(ctx)
		if err == nil {
			return text, nil
		}
		if !retryable || attempt >= p.maxRetries {
			return "", err
		}

		wait := p.backoff * time.Duration(attempt+1)
		log.Warn("text generation attempt failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Duration("wait", wait),
			zap.Error(err),
		)

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return "", ctx.Err()
		case <-t.C:
		}
	}
}

func retryableStatus(code int) bool {
	return code == 429 || code >= 500
}
