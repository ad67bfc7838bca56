package services

import (
	"context"

	"knowledge-base-api/internal/vectorstore"
)

// AnswerGenerator produces a generated answer constrained to the retrieved
// chunk text. Implemented by ai.GeminiClient.
type AnswerGenerator interface {
	GenerateAnswer(ctx context.Context, query string, contextChunks []string) (string, error)
}

// QueryService answers free-text questions against a knowledge base.
type QueryService struct {
	store     vectorstore.Store
	generator AnswerGenerator
	topK      int
}

func NewQueryService(store vectorstore.Store, generator AnswerGenerator, topK int) *QueryService {
	if topK <= 0 {
		topK = 2
	}
	return &QueryService{
		store:     store,
		generator: generator,
		topK:      topK,
	}
}

// Answer retrieves the chunks nearest to the stop-word-normalized query and
// generates a response from them. The original query, not the normalized one,
// is what the model is asked to answer.
func (s *QueryService) Answer(ctx context.Context, kb, query string) (string, error) {
	normalized := RemoveStopWords(query)

	results, err := s.store.Query(ctx, kb, normalized, s.topK)
	if err != nil {
		return "", err
	}

	chunks := make([]string, len(results))
	for i, r := range results {
		chunks[i] = r.Text
	}

	return s.generator.GenerateAnswer(ctx, query, chunks)
}
