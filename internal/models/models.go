package models

import (
	"time"
)

// Document represents one ingested PDF, keyed by its generated pdf_id.
type Document struct {
	ID         string    `db:"id" json:"id"`
	FileName   string    `db:"file_name" json:"file_name"`
	SourceURL  string    `db:"source_url" json:"source_url"`
	StorageURL string    `db:"storage_url" json:"storage_url,omitempty"` // S3 archive of the fetched bytes
	PageCount  int       `db:"page_count" json:"page_count"`
	Status     string    `db:"status" json:"status"` // processing | ready | failed
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// DocumentChunk represents one text chunk from a document.
// Every chunk carries exactly one document id; retrieval filters on it.
type DocumentChunk struct {
	ID         string    `db:"id" json:"id"`
	DocumentID string    `db:"document_id" json:"document_id"`
	Position   int       `db:"position" json:"position"`
	Text       string    `db:"text" json:"text"`
	Embedding  []float32 `db:"embedding" json:"embedding"` // pgvector column
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Question is one unit of a query batch. Position is the zero-based slot the
// answer must occupy in the response, regardless of completion order.
type Question struct {
	Position int
	PDFID    string
	Text     string
}
