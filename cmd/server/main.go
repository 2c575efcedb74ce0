// cmd/server/main.go
package main

import (
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/sozercan/rizziq/internal/analyzer"
	"github.com/sozercan/rizziq/internal/config"
	"github.com/sozercan/rizziq/internal/llm"
	"github.com/sozercan/rizziq/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	slog.SetDefault(newLogger(cfg.Log))

	llmProvider, err := llm.New(cfg)
	if err != nil {
		log.Fatalf("failed to create LLM provider: %v", err)
	}

	prompt, err := cfg.LLM.LoadPrompt(analyzer.PromptFor(cfg.LLM.Contract))
	if err != nil {
		log.Fatalf("failed to load prompt: %v", err)
	}

	analyzer := analyzer.New(llmProvider, analyzer.Settings{
		Contract:  cfg.LLM.Contract,
		Prompt:    prompt,
		Model:     cfg.LLM.Model,
		MaxTokens: cfg.LLM.MaxTokens,
		Timeout:   cfg.LLM.Timeout,
	})

	srv := server.New(*cfg, analyzer)
	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"provider", llmProvider.Name(),
	)
	if err := srv.Run(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
