package vectorstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/milvus-io/milvus/client/v2/column"
	"github.com/milvus-io/milvus/client/v2/entity"
	"github.com/milvus-io/milvus/client/v2/index"
	"github.com/milvus-io/milvus/client/v2/milvusclient"
)

// Field names for knowledge-base collections
const (
	FieldChunkID   = "chunk_id"
	FieldText      = "text"
	FieldPosition  = "position"
	FieldEmbedding = "embedding"
)

const (
	chunkIDMaxLength = 64
	textMaxLength    = 65535
)

// MilvusStore implements Store on a Milvus instance. Chunk IDs are
// content-addressed (hash of knowledge base name + chunk text), so
// re-ingesting the same document upserts in place instead of silently
// clobbering unrelated chunks.
type MilvusStore struct {
	client   *milvusclient.Client
	embedder Embedder
	dim      int
}

func NewMilvusStore(client *milvusclient.Client, embedder Embedder, dim int) *MilvusStore {
	return &MilvusStore{
		client:   client,
		embedder: embedder,
		dim:      dim,
	}
}

// Create ensures the named collection exists with the chunk schema and a
// cosine HNSW index, then loads it. Creating an existing collection is a no-op.
func (s *MilvusStore) Create(ctx context.Context, name string) error {
	exists, err := s.client.HasCollection(ctx, milvusclient.NewHasCollectionOption(name))
	if err != nil {
		return fmt.Errorf("failed to check if collection exists: %w", err)
	}

	if !exists {
		schema := entity.NewSchema().
			WithName(name).
			WithDescription("Knowledge base chunks").
			WithField(entity.NewField().
				WithName(FieldChunkID).
				WithDataType(entity.FieldTypeVarChar).
				WithMaxLength(chunkIDMaxLength).
				WithIsPrimaryKey(true)).
			WithField(entity.NewField().
				WithName(FieldText).
				WithDataType(entity.FieldTypeVarChar).
				WithMaxLength(textMaxLength)).
			WithField(entity.NewField().
				WithName(FieldPosition).
				WithDataType(entity.FieldTypeInt64)).
			WithField(entity.NewField().
				WithName(FieldEmbedding).
				WithDataType(entity.FieldTypeFloatVector).
				WithDim(int64(s.dim)))

		createOpt := milvusclient.NewCreateCollectionOption(name, schema)
		if err := s.client.CreateCollection(ctx, createOpt); err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}

		// Cosine HNSW index; M and efConstruction are the index-build hints
		idx := index.NewHNSWIndex(entity.COSINE, 16, 200)
		indexTask, err := s.client.CreateIndex(ctx, milvusclient.NewCreateIndexOption(name, FieldEmbedding, idx))
		if err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
		if err := indexTask.Await(ctx); err != nil {
			return fmt.Errorf("failed to wait for index creation: %w", err)
		}
	}

	loadTask, err := s.client.LoadCollection(ctx, milvusclient.NewLoadCollectionOption(name))
	if err != nil {
		return fmt.Errorf("failed to load collection: %w", err)
	}
	if err := loadTask.Await(ctx); err != nil {
		return fmt.Errorf("failed to wait for collection loading: %w", err)
	}

	return nil
}

// Delete drops the named collection; unknown names are an error.
func (s *MilvusStore) Delete(ctx context.Context, name string) error {
	exists, err := s.client.HasCollection(ctx, milvusclient.NewHasCollectionOption(name))
	if err != nil {
		return fmt.Errorf("failed to check if collection exists: %w", err)
	}
	if !exists {
		return fmt.Errorf("knowledge base %q does not exist", name)
	}

	if err := s.client.DropCollection(ctx, milvusclient.NewDropCollectionOption(name)); err != nil {
		return fmt.Errorf("failed to drop collection: %w", err)
	}
	return nil
}

// List returns the names of all collections.
func (s *MilvusStore) List(ctx context.Context) ([]string, error) {
	names, err := s.client.ListCollections(ctx, milvusclient.NewListCollectionOption())
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	return names, nil
}

// AddChunks embeds the chunk texts and upserts them into the collection.
func (s *MilvusStore) AddChunks(ctx context.Context, name string, chunks []string) error {
	if len(chunks) == 0 {
		return nil
	}

	exists, err := s.client.HasCollection(ctx, milvusclient.NewHasCollectionOption(name))
	if err != nil {
		return fmt.Errorf("failed to check if collection exists: %w", err)
	}
	if !exists {
		return fmt.Errorf("knowledge base %q does not exist", name)
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return fmt.Errorf("failed to embed chunks: %w", err)
	}

	ids := make([]string, len(chunks))
	positions := make([]int64, len(chunks))
	for i, chunk := range chunks {
		ids[i] = ChunkID(name, chunk)
		positions[i] = int64(i)
	}

	columns := []column.Column{
		column.NewColumnVarChar(FieldChunkID, ids),
		column.NewColumnVarChar(FieldText, chunks),
		column.NewColumnInt64(FieldPosition, positions),
		column.NewColumnFloatVector(FieldEmbedding, s.dim, embeddings),
	}

	if _, err := s.client.Upsert(ctx, milvusclient.NewColumnBasedInsertOption(name, columns...)); err != nil {
		return fmt.Errorf("failed to upsert chunks: %w", err)
	}

	// Flush so freshly ingested chunks are immediately searchable
	flushTask, err := s.client.Flush(ctx, milvusclient.NewFlushOption(name))
	if err != nil {
		return fmt.Errorf("failed to flush collection: %w", err)
	}
	if err := flushTask.Await(ctx); err != nil {
		return fmt.Errorf("failed to wait for flush: %w", err)
	}

	return nil
}

// Query embeds the query text and runs an ANN search over the collection.
func (s *MilvusStore) Query(ctx context.Context, name, text string, topK int) ([]SearchResult, error) {
	exists, err := s.client.HasCollection(ctx, milvusclient.NewHasCollectionOption(name))
	if err != nil {
		return nil, fmt.Errorf("failed to check if collection exists: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("knowledge base %q does not exist", name)
	}

	loadTask, err := s.client.LoadCollection(ctx, milvusclient.NewLoadCollectionOption(name))
	if err != nil {
		return nil, fmt.Errorf("failed to load collection: %w", err)
	}
	if err := loadTask.Await(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for collection loading: %w", err)
	}

	vector, err := s.embedder.EmbedText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	searchVectors := []entity.Vector{entity.FloatVector(vector)}
	results, err := s.client.Search(ctx, milvusclient.NewSearchOption(name, topK, searchVectors).
		WithANNSField(FieldEmbedding).
		WithSearchParam("ef", "64").
		WithOutputFields(FieldChunkID, FieldText, FieldPosition))
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	if len(results) == 0 {
		return []SearchResult{}, nil
	}

	searchResults := make([]SearchResult, 0, results[0].ResultCount)
	for i := 0; i < results[0].ResultCount; i++ {
		result := SearchResult{
			Score: results[0].Scores[i],
		}

		for _, field := range results[0].Fields {
			switch col := field.(type) {
			case *column.ColumnVarChar:
				switch col.Name() {
				case FieldChunkID:
					result.ChunkID = col.Data()[i]
				case FieldText:
					result.Text = col.Data()[i]
				}
			case *column.ColumnInt64:
				if col.Name() == FieldPosition {
					result.Position = col.Data()[i]
				}
			}
		}

		searchResults = append(searchResults, result)
	}

	return searchResults, nil
}

// ChunkID derives a content-addressed identifier for a chunk within a
// knowledge base.
func ChunkID(name, text string) string {
	sum := sha256.Sum256([]byte(name + "\x00" + text))
	return hex.EncodeToString(sum[:])
}

// Close closes the underlying Milvus connection.
func (s *MilvusStore) Close(ctx context.Context) error {
	return s.client.Close(ctx)
}

var _ Store = (*MilvusStore)(nil)
