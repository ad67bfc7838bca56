package vectorstore

import "context"

// SearchResult is one retrieved chunk with its similarity score.
type SearchResult struct {
	ChunkID  string  `json:"chunk_id"`
	Text     string  `json:"text"`
	Position int64   `json:"position"`
	Score    float32 `json:"score"`
}

// Store manages knowledge-base collections of text chunks and their
// similarity search. Implementations own embedding of stored and queried text.
type Store interface {
	// Create creates the named knowledge base if it does not already exist.
	Create(ctx context.Context, name string) error
	// Delete removes the named knowledge base; it fails if the name is unknown.
	Delete(ctx context.Context, name string) error
	// List returns the names of all knowledge bases.
	List(ctx context.Context) ([]string, error)
	// AddChunks stores the ordered chunk texts in the named knowledge base.
	AddChunks(ctx context.Context, name string, chunks []string) error
	// Query returns the topK chunks most similar to the query text.
	Query(ctx context.Context, name, text string, topK int) ([]SearchResult, error)
}

// Embedder is the vector provider used by Store implementations.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
