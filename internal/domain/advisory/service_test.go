package advisory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/agri-advisor/internal/infra/llm/chatgpt"
	apperrors "github.com/yanqian/agri-advisor/pkg/errors"
	"github.com/yanqian/agri-advisor/pkg/logger"
	"github.com/yanqian/agri-advisor/pkg/metrics"
)

const validReply = `Sure! Here is the plan:
{
  "recommendedCrops": [
    {"name": "Soybean", "suitabilityScore": 0.9, "expectedYield": 1200, "inputCost": 18000, "timeToHarvest": 100.0, "prosCons": "Fixes nitrogen"}
  ],
  "fertilizerPlan": [
    {"stage": "Sowing", "inputs": "DAP", "frequency": "Once", "quantity": 1.5}
  ],
  "pestSchedule": [
    {"crop": "Soybean", "riskLevel": "High", "symptoms": "Leaf holes", "recommendedAction": "Pheromone traps"}
  ],
  "cropCalendar": [
    {"period": "Week 1", "operation": "Sowing", "details": "Seed treatment then sow"}
  ]
}
Good luck {farmer}!`

func TestServiceGenerateFromModel(t *testing.T) {
	stub := &stubChatClient{responses: []chatgpt.ChatCompletionResponse{
		completion(validReply, &chatgpt.Usage{PromptTokens: 300, CompletionTokens: 200, TotalTokens: 500}),
	}}
	svc := newTestService(stub, true)

	res, err := svc.Generate(context.Background(), FarmerInput{})
	require.NoError(t, err)
	require.Equal(t, SourceModel, res.Source)
	require.NoError(t, res.Cause)
	require.Equal(t, 500, res.Usage.TotalTokens)

	out := res.Advisory
	require.Len(t, out.RecommendedCrops, 1)
	crop := out.RecommendedCrops[0]
	require.Equal(t, "Soybean", crop.Name)
	require.Equal(t, 0.9, crop.SuitabilityScore)
	require.Equal(t, 100, crop.TimeToHarvest)
	require.Equal(t, PriceRange{Min: 1500, Max: 3000}, crop.MarketPrice)
	require.Equal(t, "medium", crop.RiskLevel)
	require.Equal(t, "As recommended", out.FertilizerPlan[0].Timing)
	require.Equal(t, 1.5, out.FertilizerPlan[0].Quantity)
	require.Equal(t, "Monitor regularly", out.PestSchedule[0].Timing)
	require.Equal(t, "High", out.PestSchedule[0].RiskLevel)
	require.Equal(t, "Sowing", out.CropCalendar[0].Operation)
	require.Equal(t, 0.85, out.Confidence)
	require.Equal(t, fixedNow(), out.GeneratedAt)

	require.Equal(t, 1, stub.calls)
	req := stub.lastRequest
	require.Equal(t, "gpt-test", req.Model)
	require.Equal(t, 2000, req.MaxTokens)
	require.Len(t, req.Messages, 2)
	require.Equal(t, SystemPrompt, req.Messages[0].Content)
	require.Equal(t, BuildPrompt(FarmerInput{}), req.Messages[1].Content)
}

func TestServiceGenerateEstimatesMissingUsage(t *testing.T) {
	stub := &stubChatClient{responses: []chatgpt.ChatCompletionResponse{
		completion(validReply, nil),
		completion(validReply, nil),
	}}
	svc := newTestService(stub, true)

	res, err := svc.Generate(context.Background(), FarmerInput{})
	require.NoError(t, err)
	require.Equal(t, SourceModel, res.Source)
	require.True(t, res.Usage.IsZero())

	svc.tokens = metrics.NewTokenCounterWithEncoder(fixedEncoder{n: 42})
	res, err = svc.Generate(context.Background(), FarmerInput{})
	require.NoError(t, err)
	require.Equal(t, metrics.TokenUsage{PromptTokens: 42, TotalTokens: 42, Estimated: true}, res.Usage)
}

func TestServiceGenerateFallback(t *testing.T) {
	cases := []struct {
		name string
		stub *stubChatClient
		kind ErrorKind
	}{
		{
			name: "status error",
			stub: &stubChatClient{err: &chatgpt.StatusError{StatusCode: 429, Body: "rate limited"}},
			kind: KindStatus,
		},
		{
			name: "transport error",
			stub: &stubChatClient{err: errors.New("connection refused")},
			kind: KindTransport,
		},
		{
			name: "no choices",
			stub: &stubChatClient{responses: []chatgpt.ChatCompletionResponse{{}}},
			kind: KindEmptyReply,
		},
		{
			name: "no json",
			stub: &stubChatClient{responses: []chatgpt.ChatCompletionResponse{completion("I cannot help with that.", nil)}},
			kind: KindNoJSON,
		},
		{
			name: "malformed json",
			stub: &stubChatClient{responses: []chatgpt.ChatCompletionResponse{completion(`{"recommendedCrops": [1,}`, nil)}},
			kind: KindDecode,
		},
		{
			name: "schema mismatch",
			stub: &stubChatClient{responses: []chatgpt.ChatCompletionResponse{completion(`{"recommendedCrops": []}`, nil)}},
			kind: KindSchema,
		},
		{
			name: "harvest time out of range",
			stub: &stubChatClient{responses: []chatgpt.ChatCompletionResponse{completion(`{"recommendedCrops":[{"name":"Rice","suitabilityScore":0.5,"timeToHarvest":1e300}],"fertilizerPlan":[],"pestSchedule":[],"cropCalendar":[]}`, nil)}},
			kind: KindSchema,
		},
		{
			name: "score out of range",
			stub: &stubChatClient{responses: []chatgpt.ChatCompletionResponse{completion(`{"recommendedCrops":[{"name":"Rice","suitabilityScore":7}],"fertilizerPlan":[],"pestSchedule":[],"cropCalendar":[]}`, nil)}},
			kind: KindSchema,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestService(tc.stub, true)
			res, err := svc.Generate(context.Background(), FarmerInput{})
			require.NoError(t, err)
			require.Equal(t, SourceFallback, res.Source)
			require.Equal(t, tc.kind, KindOf(res.Cause))
			require.Equal(t, FallbackAdvisory(fixedNow()), res.Advisory)
		})
	}
}

func TestServiceGenerateStrictMode(t *testing.T) {
	svc := newTestService(&stubChatClient{err: &chatgpt.StatusError{StatusCode: 500}}, false)

	_, err := svc.Generate(context.Background(), FarmerInput{})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeLLM))
	require.Equal(t, KindStatus, KindOf(err))
}

func TestServiceGenerateAppliesDeadline(t *testing.T) {
	stub := &stubChatClient{block: true}
	svc := newTestService(stub, true)
	svc.cfg.RequestTimeout = 20 * time.Millisecond

	start := time.Now()
	res, err := svc.Generate(context.Background(), FarmerInput{})
	require.NoError(t, err)
	require.Less(t, time.Since(start), 2*time.Second)
	require.Equal(t, SourceFallback, res.Source)
	require.Equal(t, KindTransport, KindOf(res.Cause))
	require.ErrorIs(t, res.Cause, context.DeadlineExceeded)
}

func TestFallbackAdvisoryIsFixed(t *testing.T) {
	now := fixedNow()
	out := FallbackAdvisory(now)
	require.Equal(t, out, FallbackAdvisory(now))
	require.Len(t, out.RecommendedCrops, 2)
	require.Equal(t, "Rice", out.RecommendedCrops[0].Name)
	require.Equal(t, "Wheat", out.RecommendedCrops[1].Name)
	require.Len(t, out.FertilizerPlan, 2)
	require.Len(t, out.PestSchedule, 1)
	require.Len(t, out.CropCalendar, 3)
	require.Equal(t, 0.75, out.Confidence)
	require.Equal(t, now, out.GeneratedAt)
}

func newTestService(client ChatClient, fallback bool) *service {
	return &service{
		cfg: Config{
			Model:           "gpt-test",
			MaxTokens:       2000,
			Temperature:     0.7,
			RequestTimeout:  time.Second,
			FallbackEnabled: fallback,
		},
		client: client,
		logger: logger.Discard(),
		now:    fixedNow,
	}
}

func fixedNow() time.Time {
	return time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC)
}

func completion(content string, usage *chatgpt.Usage) chatgpt.ChatCompletionResponse {
	return chatgpt.ChatCompletionResponse{
		Choices: []chatgpt.Choice{{Message: chatgpt.Message{Role: "assistant", Content: content}}},
		Usage:   usage,
	}
}

type stubChatClient struct {
	responses   []chatgpt.ChatCompletionResponse
	err         error
	block       bool
	calls       int
	lastRequest chatgpt.ChatCompletionRequest
}

func (s *stubChatClient) CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error) {
	s.calls++
	s.lastRequest = req
	if s.block {
		<-ctx.Done()
		return chatgpt.ChatCompletionResponse{}, ctx.Err()
	}
	if s.err != nil {
		return chatgpt.ChatCompletionResponse{}, s.err
	}
	if s.calls > len(s.responses) {
		return chatgpt.ChatCompletionResponse{}, nil
	}
	return s.responses[s.calls-1], nil
}

type fixedEncoder struct{ n int }

func (e fixedEncoder) Encode(string, []string, []string) []int {
	return make([]int, e.n)
}
