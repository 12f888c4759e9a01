package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorStageTagging(t *testing.T) {
	cases := []struct {
		err       error
		stage     Stage
		retryable bool
	}{
		{ParseError("empty pdf", nil), StagePDF, false},
		{ConfigError("missing key", nil), StageConfig, false},
		{AuthError("bad key", nil), StageGenerate, false},
		{QuotaError("rate limited", nil), StageGenerate, true},
		{APIError("upstream 500", nil, true), StageGenerate, true},
		{APIError("bad request", nil, false), StageGenerate, false},
		{OutlineError("no marker", nil), StageOutline, false},
		{DocumentError("no start token", nil), StageDocument, false},
		{SerializeError("zip failed", nil), StageSerialize, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.stage, StageOf(c.err), c.err.Error())
		assert.Equal(t, c.retryable, IsRetryable(c.err), c.err.Error())
	}
}

func TestStageSurvivesWrapping(t *testing.T) {
	wrapped := fmt.Errorf("pipeline: %w", QuotaError("too many requests", nil))
	assert.Equal(t, StageGenerate, StageOf(wrapped))
	assert.True(t, IsRetryable(wrapped))
}

func TestForeignErrorsAreTerminal(t *testing.T) {
	err := errors.New("plain error")
	assert.False(t, IsRetryable(err))
	assert.Equal(t, Stage(""), StageOf(err))
}

func TestErrorMessageIncludesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := APIError("generation failed", cause, true)
	assert.Contains(t, err.Error(), "generation failed")
	assert.Contains(t, err.Error(), "connection reset")
	assert.ErrorIs(t, err, cause)
}
