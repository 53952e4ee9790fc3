// Package main runs an AG-UI protocol server over a single model
// provider. Frontends POST conversation state to / and receive the
// agent's turn as an SSE stream of AG-UI events; tool calls requested by
// the model are executed by the frontend and submitted back as tool
// messages on the next request.
//
// Configuration is via environment variables (a .env file is honored):
//
//	HOST              - Bind address (default: 0.0.0.0)
//	PORT              - Server port (default: 8000)
//	AGENT_NAME        - Name reported by the service descriptor (default: bowline)
//	PROVIDER          - anthropic, openai, or google (default: anthropic)
//	MODEL             - Model override (optional, uses provider default)
//	SYSTEM_PROMPT     - System prompt for every run (optional)
//	MAX_TOKENS        - Response token limit (default: 4096)
//	TEMPERATURE       - Sampling temperature (default: 0.7)
//	LOG_LEVEL         - debug, info, warn, or error (default: info)
//	LOG_FORMAT        - text or json (default: text)
//	ANTHROPIC_API_KEY - Anthropic API key
//	OPENAI_API_KEY    - OpenAI API key
//	GEMINI_API_KEY    - Gemini API key
//
// Usage:
//
//	ANTHROPIC_API_KEY=... go run ./cmd/bowline
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ai "github.com/callaby/bowline"
	"github.com/callaby/bowline/agent"
	"github.com/callaby/bowline/provider/anthropic"
	"github.com/callaby/bowline/provider/google"
	"github.com/callaby/bowline/provider/openai"
	"github.com/callaby/bowline/retry"
	"github.com/callaby/bowline/server"
)

const version = "0.1.0"

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Configuration error:", err)
		os.Exit(1)
	}

	log := newLogger(cfg)
	slog.SetDefault(log)

	provider, model, err := buildProvider(context.Background(), cfg)
	if err != nil {
		log.Error("failed to create provider", "error", err)
		os.Exit(1)
	}

	opts := []agent.Option{
		agent.WithMaxTokens(cfg.MaxTokens),
		agent.WithTemperature(cfg.Temperature),
	}
	if cfg.Model != "" {
		model = cfg.Model
		opts = append(opts, agent.WithModel(cfg.Model))
	}
	if cfg.SystemPrompt != "" {
		opts = append(opts, agent.WithSystemPrompt(cfg.SystemPrompt))
	}

	a := agent.New(provider, opts...)
	handler := server.New(a, server.Config{
		Name:    cfg.AgentName,
		Version: version,
		Retry: retry.Config{
			MaxAttempts:  3,
			InitialDelay: 500 * time.Millisecond,
			MaxDelay:     5 * time.Second,
			Multiplier:   2.0,
			Jitter:       0.1,
		},
	}, log)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // SSE needs no write timeout
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("shutdown error", "error", err)
		}
	}()

	log.Info("server starting",
		"addr", srv.Addr,
		"provider", cfg.Provider,
		"model", model,
	)

	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}

// buildProvider constructs the ChatProvider selected by the config and
// reports the model it will use by default.
func buildProvider(ctx context.Context, cfg *Config) (ai.ChatProvider, string, error) {
	switch ai.Provider(cfg.Provider) {
	case ai.ProviderAnthropic:
		return anthropic.New(cfg.AnthropicKey), anthropic.DefaultModel, nil
	case ai.ProviderOpenAI:
		return openai.New(cfg.OpenAIKey), openai.DefaultModel, nil
	case ai.ProviderGoogle:
		client, err := google.New(ctx, cfg.GeminiKey)
		if err != nil {
			return nil, "", err
		}
		return client, google.DefaultModel, nil
	default:
		return nil, "", fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}

func newLogger(cfg *Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
