package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"knowledge-base-api/internal/logger"
	"knowledge-base-api/models"
	"knowledge-base-api/services"
)

const (
	TaskIngestPDF = "pdf:ingest"
)

type PDFIngestPayload struct {
	KnowledgeBase string `json:"knowledge_base"`
	DocumentID    string `json:"document_id"`
	FilePath      string `json:"file_path"`
}

// NewPDFIngestTask builds the async ingestion task for a saved upload.
func NewPDFIngestTask(knowledgeBase, documentID, filePath string) (*asynq.Task, error) {
	payload, err := json.Marshal(PDFIngestPayload{
		KnowledgeBase: knowledgeBase,
		DocumentID:    documentID,
		FilePath:      filePath,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskIngestPDF,
		payload,
		asynq.MaxRetry(3),
		asynq.Timeout(10*time.Minute),
		asynq.Queue("critical"),
	), nil
}

// TaskProcessor handles queued ingestion tasks.
type TaskProcessor struct {
	ingestion *services.IngestionService
	documents *mongo.Collection
}

func NewTaskProcessor(ingestion *services.IngestionService, documents *mongo.Collection) *TaskProcessor {
	return &TaskProcessor{
		ingestion: ingestion,
		documents: documents,
	}
}

// ProcessPDFIngest runs the same pipeline as synchronous ingestion and keeps
// the document registry status current.
func (p *TaskProcessor) ProcessPDFIngest(ctx context.Context, t *asynq.Task) error {
	var payload PDFIngestPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal failed: %w", asynq.SkipRetry)
	}

	logger.Info("processing queued pdf",
		"knowledge_base", payload.KnowledgeBase,
		"document_id", payload.DocumentID)

	p.updateStatus(ctx, payload.DocumentID, bson.M{"status": models.StatusProcessing})

	result, err := p.ingestion.IngestPDFFile(ctx, payload.KnowledgeBase, payload.FilePath)
	if err != nil {
		p.updateStatus(ctx, payload.DocumentID, bson.M{
			"status":        models.StatusFailed,
			"error_message": err.Error(),
		})
		return err
	}

	now := time.Now()
	p.updateStatus(ctx, payload.DocumentID, bson.M{
		"status":       models.StatusCompleted,
		"pages":        result.Pages,
		"chunk_count":  result.Chunks,
		"processed_at": now,
	})

	logger.Info("queued pdf ingested",
		"knowledge_base", payload.KnowledgeBase,
		"document_id", payload.DocumentID,
		"chunks", result.Chunks)
	return nil
}

func (p *TaskProcessor) updateStatus(ctx context.Context, documentID string, fields bson.M) {
	if p.documents == nil {
		return
	}
	oid, err := primitive.ObjectIDFromHex(documentID)
	if err != nil {
		logger.Warn("invalid document id in task payload", "document_id", documentID)
		return
	}
	fields["updated_at"] = time.Now()
	if _, err := p.documents.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields}); err != nil {
		logger.Warn("failed to update document status", "document_id", documentID, "error", err)
	}
}
