package analyzer

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sozercan/rizziq/apimodels"
	"github.com/sozercan/rizziq/internal/apperrors"
	"github.com/sozercan/rizziq/internal/config"
	"github.com/sozercan/rizziq/internal/interpreter"
	"github.com/sozercan/rizziq/internal/llm"
)

const defaultMaxTokens = 500

// Settings is the process-wide, read-only part of every analysis.
type Settings struct {
	// Contract is config.ContractStructured or config.ContractFreeform.
	Contract string
	// Prompt is the fixed system prompt. Empty means PromptFor(Contract).
	Prompt string
	// Model overrides the provider's default model when set.
	Model     string
	MaxTokens int64
	// Timeout bounds the upstream call on top of the request context. Zero disables it.
	Timeout time.Duration
}

type Analyzer struct {
	llmProvider llm.Provider
	settings    Settings
}

func New(llmProvider llm.Provider, settings Settings) *Analyzer {
	if settings.Contract != config.ContractFreeform {
		settings.Contract = config.ContractStructured
	}
	if settings.Prompt == "" {
		settings.Prompt = PromptFor(settings.Contract)
	}
	if settings.MaxTokens <= 0 {
		settings.MaxTokens = defaultMaxTokens
	}
	return &Analyzer{
		llmProvider: llmProvider,
		settings:    settings,
	}
}

func (a *Analyzer) Contract() string {
	return a.settings.Contract
}

// Analyze runs one screenshot through the completion provider and interprets
// the reply under the deployment's output contract. The provider is called at
// most once.
func (a *Analyzer) Analyze(ctx context.Context, req apimodels.AnalysisRequest) (*apimodels.AnalysisResponse, error) {
	slog.Info("Request received")
	startTime := time.Now()

	raw, err := ImageField(req.Image)
	if err != nil {
		return nil, err
	}

	if err := a.llmProvider.CheckCredentials(); err != nil {
		slog.Error("Provider credentials missing", "provider", a.llmProvider.Name(), "error", err)
		return nil, err
	}

	image, err := NormalizeImage(raw)
	if err != nil {
		return nil, err
	}

	slog.Info("Prompt loaded", "contract", a.settings.Contract)

	if a.settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.settings.Timeout)
		defer cancel()
	}

	slog.Info("Sending to provider",
		"provider", a.llmProvider.Name(),
		"mime", image.MIMEType,
		"bytes", len(image.Data),
	)
	llmResp, err := a.llmProvider.Complete(ctx,
		llm.CompletionRequest{
			SystemPrompt: a.settings.Prompt,
			Image:        image,
		},
		llm.WithModel(a.settings.Model),
		llm.WithMaxTokens(a.settings.MaxTokens),
		llm.WithJSON(a.settings.Contract == config.ContractStructured),
	)
	if err != nil {
		return nil, upstreamFailure(err)
	}
	slog.Debug("Provider replied", "content", llmResp.Content)

	resp := &apimodels.AnalysisResponse{
		Metadata: apimodels.AnalysisMetadata{
			Duration:   time.Since(startTime).String(),
			Model:      llmResp.Model,
			TokensUsed: llmResp.Usage.TotalTokens,
		},
	}

	switch a.settings.Contract {
	case config.ContractFreeform:
		resp.Freeform = true
		resp.Result = llmResp.Content
	default:
		result, err := interpreter.ParseStructured(llmResp.Content)
		if err != nil {
			slog.Error("Failed to parse completion", "error", err)
			return nil, err
		}
		resp.Analysis = result.Analysis
		resp.Options = result.Options
		if result.AnalysisOnly() {
			slog.Info("Completion carried no reply options")
		}
	}

	return resp, nil
}

// upstreamFailure converts a provider error into the caller-facing message and
// the redacted diagnostic detail.
func upstreamFailure(err error) error {
	var ue *llm.UpstreamError
	if errors.As(err, &ue) {
		return apperrors.Wrap(apperrors.KindUpstream, "analyzer.Analyze", ue.CallerMessage(), err).
			WithDetails(ue.Message)
	}
	return apperrors.Wrap(apperrors.KindUnexpected, "analyzer.Analyze", apperrors.UnexpectedMessage, err)
}
