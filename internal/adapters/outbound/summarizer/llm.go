package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskgate/riskgate/internal/domain"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

const temperature = 0.2

var errEmptyResponse = errors.New("empty response")

// LLM summarizes findings through a chat completion model.
type LLM struct {
	model   llms.Model
	name    string
	timeout time.Duration
	logger  *zap.Logger
}

// NewLLM builds the provider client named by cfg.Provider.
func NewLLM(cfg domain.SummaryConfig, logger *zap.Logger) (*LLM, error) {
	model, err := newModel(cfg)
	if err != nil {
		return nil, err
	}
	return NewWithModel(model, cfg.Model, cfg.Timeout, logger), nil
}

// NewWithModel wraps an existing model. A non-positive timeout falls back to
// the default.
func NewWithModel(model llms.Model, name string, timeout time.Duration, logger *zap.Logger) *LLM {
	if timeout <= 0 {
		timeout = domain.DefaultSummaryTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLM{model: model, name: name, timeout: timeout, logger: logger}
}

func newModel(cfg domain.SummaryConfig) (llms.Model, error) {
	switch cfg.Provider {
	case domain.ProviderOpenAI, "":
		opts := []openai.Option{openai.WithToken(cfg.APIKey), openai.WithModel(cfg.Model)}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		return openai.New(opts...)
	case domain.ProviderAnthropic:
		opts := []anthropic.Option{anthropic.WithToken(cfg.APIKey), anthropic.WithModel(cfg.Model)}
		if cfg.BaseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
		}
		return anthropic.New(opts...)
	case domain.ProviderOllama:
		opts := []ollama.Option{ollama.WithModel(cfg.Model)}
		if cfg.BaseURL != "" {
			opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
		}
		return ollama.New(opts...)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// Summarize asks the model for a summary of the top findings. Errors and
// timeouts come back as descriptive text.
func (s *LLM) Summarize(ctx context.Context, findings []domain.Finding) (string, bool) {
	if len(findings) == 0 {
		return "", false
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	text, err := s.complete(ctx, buildPrompt(findings))
	if err != nil {
		s.logger.Warn("summary request failed",
			zap.String("model", s.name),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return failureText(err), true
	}

	s.logger.Debug("summary generated",
		zap.String("model", s.name),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("chars", len(text)),
	)
	return text, true
}

func (s *LLM) complete(ctx context.Context, prompt string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}

	resp, err := s.model.GenerateContent(ctx, messages, llms.WithTemperature(temperature))
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", errEmptyResponse
	}

	text := strings.TrimSpace(resp.Choices[0].Content)
	if text == "" {
		return "", errEmptyResponse
	}
	return text, nil
}
