package llm

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/sozercan/rizziq/internal/config"
)

type Gemini struct {
	cfg   *config.GeminiConfig
	extra []option.ClientOption
}

func NewGemini(cfg *config.GeminiConfig, extra ...option.ClientOption) *Gemini {
	return &Gemini{cfg: cfg, extra: extra}
}

func (g *Gemini) Name() string { return "Gemini" }

func (g *Gemini) CheckCredentials() error {
	if strings.TrimSpace(g.cfg.APIKey) == "" {
		return missingCredential("GEMINI_API_KEY")
	}
	return nil
}

func (g *Gemini) Complete(ctx context.Context, req CompletionRequest, opts ...Option) (*Response, error) {
	options := applyOptions(Options{
		Model:     g.cfg.Model,
		MaxTokens: 500,
	}, opts)

	clientOpts := append([]option.ClientOption{option.WithAPIKey(g.cfg.APIKey)}, g.extra...)
	cl, err := genai.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, g.upstreamError(err)
	}
	defer cl.Close()

	m := cl.GenerativeModel(strings.TrimSpace(options.Model))
	configureModel(m, req.SystemPrompt, options)

	resp, err := m.GenerateContent(ctx, imagePart(req.Image))
	if err != nil {
		return nil, g.upstreamError(err)
	}

	response := &Response{
		Content: candidateText(resp),
		Model:   options.Model,
	}
	if resp.UsageMetadata != nil {
		response.Usage = Usage{
			PromptTokens:     int64(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int64(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int64(resp.UsageMetadata.TotalTokenCount),
		}
	}
	return response, nil
}

func configureModel(m *genai.GenerativeModel, systemPrompt string, options Options) {
	m.SetMaxOutputTokens(int32(options.MaxTokens))
	if options.JSON {
		m.ResponseMIMEType = "application/json"
	}
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}
}

func imagePart(img Image) genai.Part {
	return genai.Blob{MIMEType: img.MIMEType, Data: img.Data}
}

// candidateText joins the text parts of the first candidate that has content.
func candidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		var b strings.Builder
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
		return b.String()
	}
	return ""
}

var grpcStatusToHTTP = map[codes.Code]int{
	codes.Unauthenticated:    http.StatusUnauthorized,
	codes.ResourceExhausted:  http.StatusTooManyRequests,
	codes.InvalidArgument:    http.StatusBadRequest,
	codes.FailedPrecondition: http.StatusBadRequest,
	codes.PermissionDenied:   http.StatusForbidden,
	codes.Internal:           http.StatusInternalServerError,
	codes.Unavailable:        http.StatusServiceUnavailable,
	codes.DeadlineExceeded:   http.StatusGatewayTimeout,
}

func (g *Gemini) upstreamError(err error) *UpstreamError {
	ue := &UpstreamError{
		Provider: g.Name(),
		Err:      err,
		Message:  redact(err.Error(), g.cfg.APIKey),
	}

	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		ue.StatusCode = gErr.Code
		if gErr.Message != "" {
			ue.Message = redact(gErr.Message, g.cfg.APIKey)
		}
	} else if st, ok := status.FromError(err); ok && st.Code() != codes.OK && st.Code() != codes.Unknown {
		ue.Code = st.Code().String()
		ue.StatusCode = grpcStatusToHTTP[st.Code()]
		if st.Message() != "" {
			ue.Message = redact(st.Message(), g.cfg.APIKey)
		}
	}

	slog.Error("Gemini request failed",
		"status", ue.StatusCode,
		"code", ue.Code,
		"message", ue.Message,
	)
	return ue.classify()
}
