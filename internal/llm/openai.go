package llm

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"

	"github.com/sozercan/rizziq/internal/config"
)

// OpenAI client implementation, also used for Azure OpenAI deployments.
type OpenAI struct {
	client *openai.Client
	cfg    *config.OpenAIConfig
	name   string
	model  string
}

func NewOpenAI(cfg *config.OpenAIConfig, provider string, extra ...option.RequestOption) *OpenAI {
	// A single upstream failure ends the request.
	opts := []option.RequestOption{option.WithMaxRetries(0)}

	o := &OpenAI{cfg: cfg}
	switch provider {
	case config.ProviderAzure:
		opts = append(opts,
			azure.WithEndpoint(cfg.APIEndpoint, cfg.APIVersion),
			azure.WithAPIKey(cfg.APIKey),
		)
		o.name = "Azure OpenAI"
		o.model = cfg.DeploymentName
	default: // "openai"
		opts = append(opts,
			option.WithAPIKey(cfg.APIKey),
			option.WithBaseURL(strings.TrimRight(cfg.APIEndpoint, "/")+"/"),
		)
		o.name = "OpenAI"
		o.model = cfg.Model
	}

	o.client = openai.NewClient(append(opts, extra...)...)
	return o
}

func (o *OpenAI) Name() string { return o.name }

func (o *OpenAI) CheckCredentials() error {
	if strings.TrimSpace(o.cfg.APIKey) == "" {
		return missingCredential("OPENAI_API_KEY")
	}
	return nil
}

func (o *OpenAI) Complete(ctx context.Context, req CompletionRequest, opts ...Option) (*Response, error) {
	options := applyOptions(Options{
		Model:     o.model,
		MaxTokens: 500,
	}, opts)

	params := openai.ChatCompletionNewParams{
		Model: openai.F(options.Model),
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.SystemPrompt),
			openai.UserMessageParts(openai.ImagePart(req.Image.DataURI)),
		}),
		MaxTokens: openai.F(options.MaxTokens),
	}
	if options.JSON {
		params.ResponseFormat = openai.F[openai.ChatCompletionNewParamsResponseFormatUnion](
			openai.ResponseFormatJSONObjectParam{
				Type: openai.F(openai.ResponseFormatJSONObjectTypeJSONObject),
			},
		)
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, o.upstreamError(err)
	}

	response := &Response{
		Model: resp.Model,
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}
	if len(resp.Choices) > 0 {
		response.Content = resp.Choices[0].Message.Content
	}
	return response, nil
}

func (o *OpenAI) upstreamError(err error) *UpstreamError {
	ue := &UpstreamError{
		Provider: o.name,
		Err:      err,
		Message:  redact(err.Error(), o.cfg.APIKey),
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		ue.StatusCode = apiErr.StatusCode
		ue.Code = apiErr.Code
		ue.Type = apiErr.Type
		if apiErr.Message != "" {
			ue.Message = redact(apiErr.Message, o.cfg.APIKey)
		}
	}

	slog.Error("OpenAI request failed",
		"provider", o.name,
		"status", ue.StatusCode,
		"code", ue.Code,
		"type", ue.Type,
		"message", ue.Message,
	)
	return ue.classify()
}
