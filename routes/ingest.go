package routes

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"knowledge-base-api/internal/config"
	"knowledge-base-api/internal/logger"
	"knowledge-base-api/internal/queue"
	"knowledge-base-api/models"
	"knowledge-base-api/services"
	"knowledge-base-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupIngestRoutes registers the PDF upload endpoint. Uploads above the sync
// processing limit are queued; smaller files are processed inline.
// documentsCollection and queueClient may be nil (registry / queue disabled).
func SetupIngestRoutes(router *gin.Engine, cfg *config.Config, ingestion *services.IngestionService, documentsCollection *mongo.Collection, queueClient *asynq.Client) {
	router.POST("/add_document_to_knowledge_base/:kb_id", handlePDFUpload(cfg, ingestion, documentsCollection, queueClient))
}

func handlePDFUpload(cfg *config.Config, ingestion *services.IngestionService, documentsCollection *mongo.Collection, queueClient *asynq.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		kbID := c.Param("kb_id")

		if err := c.Request.ParseMultipartForm(cfg.MaxFileSize); err != nil {
			utils.RespondWithMessage(c, "something went wrong : %v", err)
			return
		}

		file, header, err := c.Request.FormFile("file")
		if err != nil {
			utils.RespondWithMessage(c, "something went wrong : %v", err)
			return
		}
		defer file.Close()

		// Only allowlisted uploads are processed; nothing is stored otherwise
		ct := header.Header.Get("Content-Type")
		if !isAllowedContentType(ct, cfg.AllowedTypes) {
			utils.RespondWithMessage(c, "we support only pdfs")
			return
		}

		if header.Size > cfg.MaxFileSize {
			utils.RespondWithMessage(c, "something went wrong : file exceeds maximum size of %d bytes", cfg.MaxFileSize)
			return
		}

		// Save upload for processing (and reprocessing by the worker)
		fileID := uuid.NewString()
		uploadDir := filepath.Join(cfg.FileStorageDir, "pdfs", kbID)
		if err := os.MkdirAll(uploadDir, 0755); err != nil {
			utils.RespondWithMessage(c, "something went wrong : %v", err)
			return
		}

		filePath := filepath.Join(uploadDir, fmt.Sprintf("%s.pdf", fileID))
		dst, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			utils.RespondWithMessage(c, "something went wrong : %v", err)
			return
		}
		if _, err := io.Copy(dst, file); err != nil {
			dst.Close()
			utils.RespondWithMessage(c, "something went wrong : %v", err)
			return
		}
		dst.Close()

		ctx := c.Request.Context()
		documentID := insertDocumentRecord(ctx, documentsCollection, models.Document{
			KnowledgeBase: kbID,
			Filename:      header.Filename,
			FileID:        fileID,
			FilePath:      filePath,
			Size:          header.Size,
			Status:        models.StatusPending,
			UploadedAt:    time.Now(),
		})

		// Large uploads go to the worker queue
		if queueClient != nil && header.Size > cfg.SyncProcessingLimit {
			task, err := queue.NewPDFIngestTask(kbID, documentID, filePath)
			if err != nil {
				utils.RespondWithMessage(c, "something went wrong : %v", err)
				return
			}
			if _, err := queueClient.Enqueue(task); err != nil {
				utils.RespondWithMessage(c, "something went wrong : %v", err)
				return
			}
			utils.RespondWithMessage(c, "pdf is queued for processing into %s", kbID)
			return
		}

		result, err := ingestion.IngestPDFFile(ctx, kbID, filePath)
		if err != nil {
			updateDocumentRecord(ctx, documentsCollection, documentID, bson.M{
				"status":        models.StatusFailed,
				"error_message": err.Error(),
			})
			utils.RespondWithMessage(c, "something went wrong : %v", err)
			return
		}

		now := time.Now()
		updateDocumentRecord(ctx, documentsCollection, documentID, bson.M{
			"status":       models.StatusCompleted,
			"pages":        result.Pages,
			"chunk_count":  result.Chunks,
			"processed_at": now,
		})

		utils.RespondWithMessage(c, "pdf is successfully chunked and stored into %s", kbID)
	}
}

// isAllowedContentType matches the media type, ignoring parameters like
// charset, against the configured allowlist.
func isAllowedContentType(ct string, allowed []string) bool {
	mediaType, _, _ := strings.Cut(ct, ";")
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	for _, t := range allowed {
		if mediaType == strings.ToLower(strings.TrimSpace(t)) {
			return true
		}
	}
	return false
}

func insertDocumentRecord(ctx context.Context, collection *mongo.Collection, doc models.Document) string {
	if collection == nil {
		return ""
	}
	res, err := collection.InsertOne(ctx, doc)
	if err != nil {
		logger.Warn("failed to record document", "filename", doc.Filename, "error", err)
		return ""
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return ""
}

func updateDocumentRecord(ctx context.Context, collection *mongo.Collection, documentID string, fields bson.M) {
	if collection == nil || documentID == "" {
		return
	}
	oid, err := primitive.ObjectIDFromHex(documentID)
	if err != nil {
		return
	}
	if _, err := collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields}); err != nil {
		logger.Warn("failed to update document record", "document_id", documentID, "error", err)
	}
}
