package translate

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/pkg/errors"
)

func init() {
	Register("anthropic", newAnthropicBackend)
}

// anthropicBackend translates through the Messages API.
type anthropicBackend struct {
	client anthropic.Client
	model  anthropic.Model
}

func newAnthropicBackend(cfg Config) (Backend, error) {
	var opts []option.RequestOption
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	model := anthropic.Model(cfg.Model)
	if cfg.Model == "" {
		model = anthropic.ModelClaude3_5HaikuLatest
	}
	return &anthropicBackend{client: anthropic.NewClient(opts...), model: model}, nil
}

func (b *anthropicBackend) Name() string { return "anthropic" }

func (b *anthropicBackend) Translate(ctx context.Context, text, fromLocale, toLocale string) (string, error) {
	response, err := b.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     b.model,
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: translatorSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(translationPrompt(text, fromLocale, toLocale))),
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "anthropic message failed")
	}
	for _, block := range response.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			return strings.TrimSpace(variant.Text), nil
		}
	}
	return "", errors.New("anthropic returned no text block")
}
