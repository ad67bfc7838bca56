package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document statuses
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Document is the registry record for one PDF uploaded into a knowledge base.
// The chunk contents themselves live in the vector store; this record tracks
// provenance and processing state.
type Document struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	KnowledgeBase string             `bson:"knowledge_base" json:"knowledge_base"`
	Filename      string             `bson:"filename" json:"filename"`
	FileID        string             `bson:"file_id" json:"file_id"`
	FilePath      string             `bson:"file_path" json:"-"`
	Size          int64              `bson:"size" json:"size"`
	Pages         int                `bson:"pages,omitempty" json:"pages,omitempty"`
	ChunkCount    int                `bson:"chunk_count,omitempty" json:"chunk_count,omitempty"`
	Status        string             `bson:"status" json:"status"`
	ErrorMessage  string             `bson:"error_message,omitempty" json:"error_message,omitempty"`
	UploadedAt    time.Time          `bson:"uploaded_at" json:"uploaded_at"`
	ProcessedAt   *time.Time         `bson:"processed_at,omitempty" json:"processed_at,omitempty"`
}
