package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

func TestBuildSystemInstructionEmbedsChunksVerbatim(t *testing.T) {
	chunks := []string{
		"Paris is the capital of France.",
		"France is in Western Europe.",
	}

	instruction := BuildSystemInstruction(chunks)

	for _, chunk := range chunks {
		if !strings.Contains(instruction, chunk) {
			t.Fatalf("instruction missing chunk %q", chunk)
		}
	}
	if !strings.Contains(instruction, "It does not exist.") {
		t.Fatal("instruction missing the mandatory fallback sentence")
	}
	if !strings.Contains(instruction, "must be in English") {
		t.Fatal("instruction missing the language constraint")
	}
}

func TestGenerateAnswerFallsBackWhenBreakerOpen(t *testing.T) {
	gc := &GeminiClient{
		model: "gemini-1.5-flash",
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: "GeminiAPI",
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.TotalFailures >= 1
			},
		}),
		rateLimiter:  rate.NewLimiter(rate.Inf, 1),
		tokenCounter: &TokenCounter{},
	}

	// Trip the breaker; while open, Execute never reaches the API client
	gc.breaker.Execute(func() (interface{}, error) {
		return nil, errors.New("upstream down")
	})
	if gc.breaker.State() != gobreaker.StateOpen {
		t.Fatalf("breaker not open: %v", gc.breaker.State())
	}

	answer, err := gc.GenerateAnswer(context.Background(), "anything?", []string{"some chunk"})
	if err != nil {
		t.Fatalf("expected fallback answer, got error: %v", err)
	}
	if answer != fallbackAnswer {
		t.Fatalf("unexpected answer: %q", answer)
	}
}

func TestTokenCounterLimits(t *testing.T) {
	tc := &TokenCounter{}

	if !tc.CanConsume(100, 1) {
		t.Fatal("fresh counter should allow a small request")
	}
	tc.RecordUsage(100, 1)

	// Exhaust the per-minute request budget
	for i := 0; i < 20; i++ {
		tc.RecordUsage(0, 1)
	}
	if tc.CanConsume(1, 1) {
		t.Fatal("expected per-minute request limit to trip")
	}
}

func TestEstimateTokens(t *testing.T) {
	got := estimateTokens("12345678", []string{"1234567"})
	// 8 chars + newline + 7 chars = 16 chars -> 4 tokens
	if got != 4 {
		t.Fatalf("expected 4 tokens, got %d", got)
	}
}
