package common

import (
	"os"

	"github.com/joho/godotenv"
)

// DefaultTextCap bounds the amount of paper text sent to the model.
// Longer papers are truncated with a marker appended.
const DefaultTextCap = 50000

// Provider names accepted by the CLI and server.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// PipelineConfig carries everything one deck-generation run needs.
type PipelineConfig struct {
	PDFPath      string
	TemplatePath string
	OutputDir    string
	Provider     string
	Model        string
	GeminiKey    string
	OpenAIKey    string
	OpenAIBase   string // optional OpenAI-compatible gateway URL
	TextCap      int    // max runes of paper text; 0 means DefaultTextCap
}

// MaxPromptChars returns the effective text cap for this run.
func (c PipelineConfig) MaxPromptChars() int {
	if c.TextCap > 0 {
		return c.TextCap
	}
	return DefaultTextCap
}

// LoadEnv loads a .env file if present and fills provider keys from the
// environment. A missing .env is not an error.
func LoadEnv(path string) {
	_ = godotenv.Load(path)
}

// KeysFromEnv reads provider credentials from the environment.
func KeysFromEnv() (geminiKey, openaiKey, openaiBase string) {
	return os.Getenv("GEMINI_API_KEY"), os.Getenv("OPENAI_API_KEY"), os.Getenv("OPENAI_BASE_URL")
}
