package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	contractx "github.com/estateplan/intake-agent/agent/contract"
)

// ChatCompleter implements contract.Completer on top of the OpenAI SDK.
type ChatCompleter struct {
	client      *openaisdk.Client
	model       string
	maxTokens   int64
	temperature float64
}

var _ contractx.Completer = (*ChatCompleter)(nil)

// NewChatCompleter builds a completer from Config. Returns an error when the
// API key or model name is missing.
func NewChatCompleter(cfg Config) (*ChatCompleter, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("llm: api key is required")
	}
	modelName := strings.TrimSpace(cfg.Model)
	if modelName == "" {
		return nil, fmt.Errorf("llm: model name is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if trimmed := strings.TrimRight(cfg.BaseURL, "/"); trimmed != "" {
		opts = append(opts, option.WithBaseURL(trimmed))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	if cfg.SiteURL != "" {
		opts = append(opts, option.WithHeader("HTTP-Referer", cfg.SiteURL))
	}
	if cfg.SiteName != "" {
		opts = append(opts, option.WithHeader("X-Title", cfg.SiteName))
	}

	client := openaisdk.NewClient(opts...)
	return &ChatCompleter{
		client:      &client,
		model:       modelName,
		maxTokens:   cfg.MaxCompletionToken,
		temperature: cfg.Temperature,
	}, nil
}

// Complete sends one chat turn and returns the assistant's text. Session
// state, when present, is appended to the system prompt as JSON so the model
// can reference answers already collected.
func (c *ChatCompleter) Complete(ctx context.Context, req contractx.CompletionRequest) (string, error) {
	system := req.SystemPrompt
	if len(req.SessionState) > 0 {
		if encoded, err := json.Marshal(req.SessionState); err == nil {
			system = fmt.Sprintf("%s\n\nInformation collected so far:\n%s", system, encoded)
		}
	}

	params := openaisdk.ChatCompletionNewParams{
		Model: openaisdk.ChatModel(c.model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.SystemMessage(system),
			openaisdk.UserMessage(req.UserMessage),
		},
	}
	if c.maxTokens > 0 {
		params.MaxCompletionTokens = openaisdk.Int(c.maxTokens)
	}
	if c.temperature > 0 {
		params.Temperature = openaisdk.Float(c.temperature)
	}
	if tools := toolParams(req.Tools); len(tools) > 0 {
		params.Tools = tools
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("llm: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm: chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func toolParams(tools []contractx.Tool) []openaisdk.ChatCompletionToolUnionParam {
	if len(tools) == 0 {
		return nil
	}
	out := make([]openaisdk.ChatCompletionToolUnionParam, 0, len(tools))
	for _, t := range tools {
		fn := openaisdk.FunctionDefinitionParam{
			Name: t.Name,
		}
		if t.Description != "" {
			fn.Description = openaisdk.String(t.Description)
		}
		if len(t.InputSchema) > 0 {
			fn.Parameters = openaisdk.FunctionParameters(t.InputSchema)
		}
		out = append(out, openaisdk.ChatCompletionFunctionTool(fn))
	}
	return out
}
