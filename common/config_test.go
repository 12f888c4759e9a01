package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaxPromptChars(t *testing.T) {
	assert.Equal(t, DefaultTextCap, PipelineConfig{}.MaxPromptChars())
	assert.Equal(t, 1200, PipelineConfig{TextCap: 1200}.MaxPromptChars())
}

func TestKeysFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("OPENAI_API_KEY", "o-key")
	t.Setenv("OPENAI_BASE_URL", "https://gateway.internal/v1")

	gemini, openai, base := KeysFromEnv()
	assert.Equal(t, "g-key", gemini)
	assert.Equal(t, "o-key", openai)
	assert.Equal(t, "https://gateway.internal/v1", base)
}
