package common

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shortDelays(t *testing.T) {
	t.Helper()
	base, max := retryBaseDelay, retryMaxDelay
	retryBaseDelay, retryMaxDelay = time.Millisecond, 4*time.Millisecond
	t.Cleanup(func() { retryBaseDelay, retryMaxDelay = base, max })
}

func TestRetryGenerateSucceedsAfterTransientFailures(t *testing.T) {
	shortDelays(t)

	calls := 0
	out, err := RetryGenerate(context.Background(), nil, func() (string, error) {
		calls++
		if calls < 3 {
			return "", QuotaError("rate limited", nil)
		}
		return "completion", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "completion", out)
	assert.Equal(t, 3, calls)
}

func TestRetryGenerateStopsOnTerminalError(t *testing.T) {
	shortDelays(t)

	calls := 0
	_, err := RetryGenerate(context.Background(), nil, func() (string, error) {
		calls++
		return "", AuthError("invalid key", nil)
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, StageGenerate, StageOf(err))
}

func TestRetryGenerateExhaustsAttempts(t *testing.T) {
	shortDelays(t)

	calls := 0
	var logged []string
	_, err := RetryGenerate(context.Background(), func(msg string) { logged = append(logged, msg) }, func() (string, error) {
		calls++
		return "", APIError("upstream 503", nil, true)
	})
	require.Error(t, err)
	assert.Equal(t, MaxGenerateAttempts, calls)
	// One log line per retry, none for the final failure.
	assert.Len(t, logged, MaxGenerateAttempts-1)
}

func TestRetryGenerateHonorsCancellation(t *testing.T) {
	shortDelays(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := RetryGenerate(ctx, nil, func() (string, error) {
		calls++
		return "", QuotaError("rate limited", nil)
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestValidatePDFPath(t *testing.T) {
	dir := t.TempDir()

	cases := []struct {
		name string
		path string
	}{
		{"empty path", "  "},
		{"missing file", dir + "/nope.pdf"},
		{"directory", dir},
		{"wrong extension", mustTouch(t, dir+"/paper.txt")},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := ValidatePDFPath(c.path)
			require.Error(t, err)
			assert.Equal(t, StagePDF, StageOf(err))
		})
	}

	assert.NoError(t, ValidatePDFPath(mustTouch(t, dir+"/paper.pdf")))
}

func mustTouch(t *testing.T, path string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	return path
}
