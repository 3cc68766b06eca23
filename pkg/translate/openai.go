package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"
)

const translatorSystemPrompt = "You are a professional software localization translator. " +
	"Translate UI strings precisely, preserve any {{placeholder}} tokens verbatim, " +
	"and reply with the translation only."

func init() {
	Register("openai", newOpenAIBackend)
}

// openaiBackend translates through the Chat Completions API. A base URL
// override makes it work against any OpenAI-compatible endpoint.
type openaiBackend struct {
	client *openai.Client
	model  string
}

func newOpenAIBackend(cfg Config) (Backend, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai backend requires an API key")
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	return &openaiBackend{client: openai.NewClientWithConfig(clientCfg), model: model}, nil
}

func (b *openaiBackend) Name() string { return "openai" }

func (b *openaiBackend) Translate(ctx context.Context, text, fromLocale, toLocale string) (string, error) {
	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       b.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: translatorSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: translationPrompt(text, fromLocale, toLocale)},
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "openai chat completion failed")
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func translationPrompt(text, fromLocale, toLocale string) string {
	return fmt.Sprintf("Translate the following UI text from %s to %s:\n\n%s", fromLocale, toLocale, text)
}
