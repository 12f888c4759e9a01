package common

import (
	"context"
	"time"
)

// StreamSink receives completion fragments as they arrive. Fragments carry no
// meaning beyond concatenation: joined in arrival order they form the full
// completion. A nil sink makes the call fully blocking.
type StreamSink func(fragment string)

// Generator abstracts the hosted model behind the two generation calls.
// Implementations own their retry policy; callers never re-query on
// malformed output (that is the recovery layer's job).
type Generator interface {
	// ValidateModel checks that the configured model identifier exists and
	// supports content generation.
	ValidateModel(ctx context.Context) error

	// Generate sends a prompt and returns the full completion text.
	Generate(ctx context.Context, prompt string, sink StreamSink) (string, error)

	// Close releases client resources.
	Close()
}

// Retry policy shared by Generator implementations: transient failures are
// retried a fixed small number of times with doubling delay.
const MaxGenerateAttempts = 3

var (
	retryBaseDelay = 2 * time.Second
	retryMaxDelay  = 30 * time.Second
)

// RetryGenerate runs attempt up to MaxGenerateAttempts times, backing off
// between transient failures. Terminal errors and context cancellation stop
// immediately. No partial result is reused across attempts.
func RetryGenerate(ctx context.Context, log func(string), attempt func() (string, error)) (string, error) {
	delay := retryBaseDelay
	var lastErr error

	for i := 1; i <= MaxGenerateAttempts; i++ {
		out, err := attempt()
		if err == nil {
			return out, nil
		}
		lastErr = err
		if !IsRetryable(err) || i == MaxGenerateAttempts {
			break
		}

		if log != nil {
			log(err.Error())
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if delay > retryMaxDelay {
			delay = retryMaxDelay
		}
	}
	return "", lastErr
}
