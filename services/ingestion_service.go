package services

import (
	"context"
	"fmt"
	"io"

	"knowledge-base-api/internal/logger"
	"knowledge-base-api/internal/vectorstore"
)

// IngestResult summarizes one completed ingestion.
type IngestResult struct {
	Pages  int
	Chunks int
}

// IngestionService runs the PDF ingestion pipeline: extract, normalize,
// chunk, store.
type IngestionService struct {
	store     vectorstore.Store
	chunkSize int
}

func NewIngestionService(store vectorstore.Store, chunkSize int) *IngestionService {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &IngestionService{
		store:     store,
		chunkSize: chunkSize,
	}
}

// IngestPDF extracts text from the PDF stream, removes stop words, splits the
// normalized text into fixed-width chunks and stores them in the named
// knowledge base. Any failed step aborts the whole ingestion.
func (s *IngestionService) IngestPDF(ctx context.Context, kb string, r io.ReaderAt, size int64) (*IngestResult, error) {
	text, pages, err := ExtractPDFText(r, size)
	if err != nil {
		return nil, err
	}

	normalized := RemoveStopWords(text)
	chunks := ChunkText(normalized, s.chunkSize)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("pdf contains no text after normalization")
	}

	if err := s.store.AddChunks(ctx, kb, chunks); err != nil {
		return nil, err
	}

	logger.Info("pdf ingested",
		"knowledge_base", kb,
		"pages", pages,
		"chunks", len(chunks))

	return &IngestResult{Pages: pages, Chunks: len(chunks)}, nil
}

// IngestPDFFile runs the same pipeline against a PDF stored on disk.
func (s *IngestionService) IngestPDFFile(ctx context.Context, kb, path string) (*IngestResult, error) {
	text, pages, err := ExtractPDFFile(path)
	if err != nil {
		return nil, err
	}

	normalized := RemoveStopWords(text)
	chunks := ChunkText(normalized, s.chunkSize)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("pdf contains no text after normalization")
	}

	if err := s.store.AddChunks(ctx, kb, chunks); err != nil {
		return nil, err
	}

	return &IngestResult{Pages: pages, Chunks: len(chunks)}, nil
}
