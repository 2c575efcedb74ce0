package llm

import (
	"context"
)

// Provider is a multimodal completion service.
type Provider interface {
	// Name is the display name used in caller-facing error messages.
	Name() string

	// CheckCredentials returns a configuration error when the provider's API key is missing.
	CheckCredentials() error

	// Complete sends one blocking completion request and returns the full reply.
	// Failures are returned as *UpstreamError.
	Complete(ctx context.Context, req CompletionRequest, opts ...Option) (*Response, error)
}

// Image is one screenshot ready to send upstream.
type Image struct {
	MIMEType string
	Data     []byte
	// DataURI is the data:<mime>;base64,<payload> form of Data.
	DataURI string
}

// CompletionRequest pairs the fixed instruction prompt with one image.
type CompletionRequest struct {
	SystemPrompt string
	Image        Image
}

type Usage struct {
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
}

type Option func(*Options)

type Options struct {
	Model     string
	MaxTokens int64
	// JSON asks the provider to return a single JSON object when it supports that.
	JSON bool
}

func WithModel(model string) Option {
	return func(o *Options) {
		if model != "" {
			o.Model = model
		}
	}
}

func WithMaxTokens(n int64) Option {
	return func(o *Options) {
		if n > 0 {
			o.MaxTokens = n
		}
	}
}

func WithJSON(enabled bool) Option {
	return func(o *Options) {
		o.JSON = enabled
	}
}

func applyOptions(defaults Options, opts []Option) Options {
	for _, opt := range opts {
		opt(&defaults)
	}
	return defaults
}

type Response struct {
	Content string
	Model   string
	Usage   Usage
}
