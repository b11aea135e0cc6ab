package ingestion_engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/markdave123-py/Docra/internal/core"
	"github.com/markdave123-py/Docra/internal/models"
)

// Config tunes the ingestion pipeline.
//
// PageSeparator: joins page texts into one document text.
// BatchSize:     chunks per embedding request (model payload limit).
// FetchTimeout:  bound on the outbound document fetch.
// Bucket:        optional S3 bucket for archiving fetched bytes ("" disables).
type Config struct {
	PageSeparator string
	BatchSize     int
	FetchTimeout  time.Duration
	Bucket        string
}

func (c *Config) defaults() {
	if c.PageSeparator == "" {
		c.PageSeparator = "<br><br>"
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 16
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 30 * time.Second
	}
}

// DocumentError tags an ingestion failure with the document URL so a caller
// can tell which member of a batch failed.
type DocumentError struct {
	URL string
	Err error
}

func (e *DocumentError) Error() string { return fmt.Sprintf("document %s: %v", e.URL, e.Err) }
func (e *DocumentError) Unwrap() error { return e.Err }

// Pipeline orchestrates fetch -> extraction -> chunk -> embed -> index-write
// for remote PDF documents, tagging every chunk with a generated pdf_id.
type Pipeline struct {
	db        core.DbClient
	obj       core.ObjectClient
	embedder  core.EmbeddingProvider
	extractor core.PageExtractor
	chunker   *Chunker
	cfg       *Config
	client    *http.Client
}

// NewPipeline wires the ingestion pipeline. obj may be nil when no archive
// bucket is configured.
func NewPipeline(db core.DbClient, obj core.ObjectClient, emb core.EmbeddingProvider, ex core.PageExtractor, chunker *Chunker, cfg *Config) *Pipeline {
	cfg.defaults()
	return &Pipeline{
		db: db, obj: obj, embedder: emb, extractor: ex, chunker: chunker, cfg: cfg,
		client: &http.Client{Timeout: cfg.FetchTimeout},
	}
}

// IngestAll processes documents sequentially; one failing document is
// recorded and its siblings continue. The returned mapping holds every
// successfully ingested pdf_id; the joined error reports each failure with
// its URL. Already-ingested documents stay persisted (at-least-once, not
// atomic-batch).
func (p *Pipeline) IngestAll(ctx context.Context, urls []string) (map[string]string, error) {
	uploaded := make(map[string]string, len(urls))
	var errs []error

	for _, u := range urls {
		pdfID, fileName, err := p.IngestOne(ctx, u)
		if err != nil {
			log.Printf("ingestion: document %s failed: %v", u, err)
			errs = append(errs, &DocumentError{URL: u, Err: err})
			continue
		}
		uploaded[pdfID] = fileName
	}
	return uploaded, errors.Join(errs...)
}

// IngestOne runs the full pipeline for a single document URL and returns the
// generated pdf_id with the display filename derived from the URL path.
func (p *Pipeline) IngestOne(ctx context.Context, docURL string) (string, string, error) {
	pdfBytes, err := p.fetch(ctx, docURL)
	if err != nil {
		return "", "", fmt.Errorf("fetch: %w", err)
	}

	pageTexts, err := p.extractor.ExtractPages(ctx, pdfBytes)
	if err != nil {
		return "", "", fmt.Errorf("extract: %w", err)
	}

	pdfID := uuid.NewString()
	fileName := fileNameFromURL(docURL)
	docText := strings.Join(pageTexts, p.cfg.PageSeparator)

	storageURL := p.archive(ctx, pdfID, fileName, pdfBytes)

	doc := &models.Document{
		ID:         pdfID,
		FileName:   fileName,
		SourceURL:  docURL,
		StorageURL: storageURL,
		PageCount:  len(pageTexts),
		Status:     "processing",
		CreatedAt:  time.Now(),
	}
	if err := p.db.CreateDocument(ctx, doc); err != nil {
		return "", "", fmt.Errorf("create document: %w", err)
	}

	rows, err := p.embedChunks(ctx, pdfID, p.chunker.Split(docText))
	if err != nil {
		_ = p.db.UpdateDocumentStatus(ctx, pdfID, "failed")
		return "", "", err
	}
	if err := p.db.InsertDocumentChunks(ctx, rows); err != nil {
		_ = p.db.UpdateDocumentStatus(ctx, pdfID, "failed")
		return "", "", fmt.Errorf("insert chunks: %w", err)
	}

	if err := p.db.UpdateDocumentStatus(ctx, pdfID, "ready"); err != nil {
		return "", "", err
	}
	return pdfID, fileName, nil
}

// fetch downloads the document with the configured timeout and fails on any
// non-success status.
func (p *Pipeline) fetch(ctx context.Context, docURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, docURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// embedChunks embeds chunk texts in batches and maps them to persistence
// rows carrying the owning document id and fresh record ids.
func (p *Pipeline) embedChunks(ctx context.Context, pdfID string, chunks []string) ([]models.DocumentChunk, error) {
	rows := make([]models.DocumentChunk, 0, len(chunks))

	for start := 0; start < len(chunks); start += p.cfg.BatchSize {
		end := start + p.cfg.BatchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		vecs, err := p.embedder.EmbedTexts(ctx, chunks[start:end])
		if err != nil {
			return nil, fmt.Errorf("embed: %w", err)
		}
		if len(vecs) != end-start {
			return nil, fmt.Errorf("embed size mismatch: got %d want %d", len(vecs), end-start)
		}

		for k := range vecs {
			rows = append(rows, models.DocumentChunk{
				ID:         uuid.NewString(),
				DocumentID: pdfID,
				Position:   start + k,
				Text:       chunks[start+k],
				Embedding:  vecs[k],
				CreatedAt:  time.Now(),
			})
		}
	}
	return rows, nil
}

// archive uploads the fetched bytes to object storage when a bucket is
// configured. Archival is best effort; a failure is logged, not fatal.
func (p *Pipeline) archive(ctx context.Context, pdfID, fileName string, pdfBytes []byte) string {
	if p.obj == nil || p.cfg.Bucket == "" {
		return ""
	}
	key := fmt.Sprintf("%s/%s", pdfID, fileName)
	storageURL, err := p.obj.UploadFile(ctx, p.cfg.Bucket, key, pdfBytes, "application/pdf")
	if err != nil {
		log.Printf("ingestion: archive of %s failed: %v", pdfID, err)
		return ""
	}
	return storageURL
}

// fileNameFromURL derives the display filename from the URL path component.
func fileNameFromURL(docURL string) string {
	parsed, err := url.Parse(docURL)
	if err != nil {
		return docURL
	}
	base := path.Base(parsed.Path)
	if base == "." || base == "/" {
		return ""
	}
	return base
}
