package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	aoption "github.com/anthropics/anthropic-sdk-go/option"

	"github.com/sozercan/rizziq/internal/config"
)

type Anthropic struct {
	client anthropic.Client
	cfg    *config.AnthropicConfig
}

func NewAnthropic(cfg *config.AnthropicConfig, extra ...aoption.RequestOption) *Anthropic {
	opts := []aoption.RequestOption{
		aoption.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
		aoption.WithMaxRetries(0),
	}
	if endpoint := strings.TrimSpace(cfg.APIEndpoint); endpoint != "" {
		opts = append(opts, aoption.WithBaseURL(strings.TrimRight(endpoint, "/")+"/"))
	}
	return &Anthropic{
		client: anthropic.NewClient(append(opts, extra...)...),
		cfg:    cfg,
	}
}

func (a *Anthropic) Name() string { return "Anthropic" }

func (a *Anthropic) CheckCredentials() error {
	if strings.TrimSpace(a.cfg.APIKey) == "" {
		return missingCredential("ANTHROPIC_API_KEY")
	}
	return nil
}

// Complete ignores Options.JSON: the Messages API has no JSON response mode,
// so the prompt alone carries the output contract.
func (a *Anthropic) Complete(ctx context.Context, req CompletionRequest, opts ...Option) (*Response, error) {
	options := applyOptions(Options{
		Model:     a.cfg.Model,
		MaxTokens: 500,
	}, opts)

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(strings.TrimSpace(options.Model)),
		MaxTokens: options.MaxTokens,
		System:    []anthropic.TextBlockParam{{Text: req.SystemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64(req.Image.MIMEType, base64.StdEncoding.EncodeToString(req.Image.Data)),
			),
		},
	}

	msg, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return nil, a.upstreamError(err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(tb.Text)
		}
	}

	return &Response{
		Content: b.String(),
		Model:   string(msg.Model),
		Usage: Usage{
			PromptTokens:     msg.Usage.InputTokens,
			CompletionTokens: msg.Usage.OutputTokens,
			TotalTokens:      msg.Usage.InputTokens + msg.Usage.OutputTokens,
		},
	}, nil
}

func (a *Anthropic) upstreamError(err error) *UpstreamError {
	ue := &UpstreamError{
		Provider: a.Name(),
		Err:      err,
		Message:  redact(err.Error(), a.cfg.APIKey),
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		ue.StatusCode = apiErr.StatusCode
	}

	slog.Error("Anthropic request failed",
		"status", ue.StatusCode,
		"message", ue.Message,
	)
	return ue.classify()
}
