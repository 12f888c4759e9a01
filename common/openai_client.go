package common

import (
	"context"
	"errors"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIClient implements Generator on the official openai-go SDK (chat
// completions). A base URL makes it work against any OpenAI-compatible
// gateway.
type OpenAIClient struct {
	client openai.Client
	model  string
	log    func(string)
}

// NewOpenAIClient creates an OpenAI-backed generator.
func NewOpenAIClient(apiKey, model, baseURL string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, ConfigError("OPENAI_API_KEY not set", nil)
	}
	if model == "" {
		return nil, ConfigError("openai provider requires an explicit model", nil)
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	logger := Component("openai")
	return &OpenAIClient{
		client: openai.NewClient(opts...),
		model:  model,
		log:    func(msg string) { logger.Warn().Msg(msg) },
	}, nil
}

// Close is a no-op; the SDK client holds no long-lived resources.
func (o *OpenAIClient) Close() {}

// ValidateModel asks the provider whether the model identifier exists.
func (o *OpenAIClient) ValidateModel(ctx context.Context) error {
	if _, err := o.client.Models.Get(ctx, o.model); err != nil {
		return classifyOpenAIErr("model validation failed", err)
	}
	return nil
}

// Generate sends the prompt as a single user message. With a sink the chat
// completion is streamed and deltas forwarded in arrival order.
func (o *OpenAIClient) Generate(ctx context.Context, prompt string, sink StreamSink) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
	}

	return RetryGenerate(ctx, o.log, func() (string, error) {
		if sink == nil {
			resp, err := o.client.Chat.Completions.New(ctx, params)
			if err != nil {
				return "", classifyOpenAIErr("generation failed", err)
			}
			if len(resp.Choices) == 0 {
				return "", APIError("empty choices in openai response", nil, false)
			}
			return resp.Choices[0].Message.Content, nil
		}

		var sb strings.Builder
		stream := o.client.Chat.Completions.NewStreaming(ctx, params)
		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) == 0 {
				continue
			}
			delta := chunk.Choices[0].Delta.Content
			if delta == "" {
				continue
			}
			sb.WriteString(delta)
			sink(delta)
		}
		if err := stream.Err(); err != nil {
			return "", classifyOpenAIErr("streaming generation failed", err)
		}
		if sb.Len() == 0 {
			return "", APIError("empty response from openai", nil, false)
		}
		return sb.String(), nil
	})
}

func classifyOpenAIErr(msg string, err error) error {
	var aerr *openai.Error
	if errors.As(err, &aerr) {
		switch {
		case aerr.StatusCode == 401 || aerr.StatusCode == 403:
			return AuthError(msg, err)
		case aerr.StatusCode == 429:
			return QuotaError(msg, err)
		case aerr.StatusCode >= 500:
			return APIError(msg, err, true)
		}
	}
	return APIError(msg, err, false)
}
