package advisory

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/yanqian/agri-advisor/internal/infra/llm/chatgpt"
	apperrors "github.com/yanqian/agri-advisor/pkg/errors"
	"github.com/yanqian/agri-advisor/pkg/metrics"
)

const defaultRequestTimeout = 30 * time.Second

// Service produces crop advisories for farmer submissions.
type Service interface {
	Generate(ctx context.Context, in FarmerInput) (Result, error)
}

// ChatClient is the subset of the completion client used by the pipeline.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

type service struct {
	cfg    Config
	client ChatClient
	tokens *metrics.TokenCounter
	logger *slog.Logger
	now    func() time.Time
}

// NewService wires up the advisory pipeline.
func NewService(cfg Config, client ChatClient, tokens *metrics.TokenCounter, logger *slog.Logger) Service {
	return &service{
		cfg:    cfg,
		client: client,
		tokens: tokens,
		logger: logger.With("component", "advisory.service"),
		now:    time.Now,
	}
}

// Generate never fails while fallback is enabled: any model step failure yields the canned advisory.
func (s *service) Generate(ctx context.Context, in FarmerInput) (Result, error) {
	prompt := BuildPrompt(in)

	out, usage, err := s.generateFromModel(ctx, prompt)
	if err == nil {
		s.logger.Info("advisory generated", "source", SourceModel, "crops", len(out.RecommendedCrops), "totalTokens", usage.TotalTokens)
		return Result{Advisory: out, Source: SourceModel, Usage: usage}, nil
	}

	if !s.cfg.FallbackEnabled {
		s.logger.Error("advisory model step failed", "kind", KindOf(err), "error", err)
		return Result{}, apperrors.Wrap(apperrors.CodeLLM, "failed to generate advisory", err)
	}
	s.logger.Warn("advisory served from fallback", "kind", KindOf(err), "error", err)
	return Result{
		Advisory: FallbackAdvisory(s.now().UTC()),
		Source:   SourceFallback,
		Cause:    err,
		Usage:    usage,
	}, nil
}

func (s *service) generateFromModel(ctx context.Context, prompt string) (Output, metrics.TokenUsage, error) {
	if s.client == nil {
		return Output{}, metrics.TokenUsage{}, newError(KindTransport, errors.New("chat client not configured"))
	}

	timeout := s.cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	completion, err := s.client.CreateChatCompletion(callCtx, chatgpt.ChatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []chatgpt.Message{
			{Role: "system", Content: SystemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		if chatgpt.IsStatusError(err) {
			return Output{}, metrics.TokenUsage{}, newError(KindStatus, err)
		}
		return Output{}, metrics.TokenUsage{}, newError(KindTransport, err)
	}

	usage := s.usageOf(completion, prompt)
	if len(completion.Choices) == 0 {
		return Output{}, usage, newError(KindEmptyReply, errors.New("no choices returned"))
	}
	content := completion.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return Output{}, usage, newError(KindEmptyReply, errors.New("empty message content"))
	}

	raw, err := ExtractJSONObject(content)
	if err != nil {
		return Output{}, usage, newError(KindNoJSON, err)
	}
	reply, err := decodeReply([]byte(raw))
	if err != nil {
		return Output{}, usage, newError(KindDecode, err)
	}
	if err := ValidateReply([]byte(raw)); err != nil {
		return Output{}, usage, newError(KindSchema, err)
	}
	return MapReply(reply, s.now().UTC()), usage, nil
}

func (s *service) usageOf(completion chatgpt.ChatCompletionResponse, prompt string) metrics.TokenUsage {
	if u := completion.Usage; u != nil && u.TotalTokens > 0 {
		return metrics.TokenUsage{
			PromptTokens:     u.PromptTokens,
			CompletionTokens: u.CompletionTokens,
			TotalTokens:      u.TotalTokens,
		}
	}
	usage := s.tokens.Estimate(SystemPrompt + "\n" + prompt)
	if usage.IsZero() {
		s.logger.Debug("token usage unavailable", "model", s.cfg.Model)
	}
	return usage
}
