package common

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiClient implements Generator on the Google generative AI API.
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
	name   string
	log    func(string)
}

// NewGeminiClient creates a Gemini-backed generator. The model identifier is
// opaque and passed through without interpretation; empty selects the
// default.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, ConfigError("GEMINI_API_KEY not set", nil)
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, APIError("failed to create gemini client", err, false)
	}
	if model == "" {
		model = defaultGeminiModel
	}

	m := client.GenerativeModel(model)
	m.SetTemperature(0.7)

	logger := Component("gemini")
	return &GeminiClient{
		client: client,
		model:  m,
		name:   model,
		log:    func(msg string) { logger.Warn().Msg(msg) },
	}, nil
}

// Close releases the underlying client.
func (g *GeminiClient) Close() {
	g.client.Close()
}

// ValidateModel checks the configured model against the provider's model
// list, requiring generateContent support.
func (g *GeminiClient) ValidateModel(ctx context.Context) error {
	it := g.client.ListModels(ctx)
	for {
		info, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return classifyGeminiErr("failed to list models", err)
		}
		if info.Name != "models/"+g.name {
			continue
		}
		for _, method := range info.SupportedGenerationMethods {
			if method == "generateContent" {
				return nil
			}
		}
		return ConfigError(fmt.Sprintf("model %q does not support content generation", g.name), nil)
	}
	return ConfigError(fmt.Sprintf("model %q not found", g.name), nil)
}

// Generate sends the prompt and returns the full completion. With a sink the
// response is streamed and fragments forwarded as they arrive; the returned
// string is always the fragments concatenated in arrival order.
func (g *GeminiClient) Generate(ctx context.Context, prompt string, sink StreamSink) (string, error) {
	return RetryGenerate(ctx, g.log, func() (string, error) {
		if sink == nil {
			resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
			if err != nil {
				return "", classifyGeminiErr("generation failed", err)
			}
			return collectResponseText(resp)
		}

		var sb strings.Builder
		it := g.model.GenerateContentStream(ctx, genai.Text(prompt))
		for {
			resp, err := it.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return "", classifyGeminiErr("streaming generation failed", err)
			}
			chunk, err := collectResponseText(resp)
			if err != nil {
				continue // empty chunk
			}
			sb.WriteString(chunk)
			sink(chunk)
		}
		if sb.Len() == 0 {
			return "", APIError("empty response from gemini", nil, false)
		}
		return sb.String(), nil
	})
}

func collectResponseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", APIError("empty response from gemini", nil, false)
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	if sb.Len() == 0 {
		return "", APIError("no text parts in gemini response", nil, false)
	}
	return sb.String(), nil
}

// classifyGeminiErr maps provider status codes onto the error taxonomy:
// 401/403 are terminal auth failures, 429 is a retryable quota rejection,
// 5xx is a retryable transient failure.
func classifyGeminiErr(msg string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch {
		case gerr.Code == 401 || gerr.Code == 403:
			return AuthError(msg, err)
		case gerr.Code == 429:
			return QuotaError(msg, err)
		case gerr.Code >= 500:
			return APIError(msg, err, true)
		}
	}
	return APIError(msg, err, false)
}
