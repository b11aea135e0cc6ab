package ingestion_engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/markdave123-py/Docra/internal/models"
)

type fakeStore struct {
	mu        sync.Mutex
	documents map[string]*models.Document
	chunks    []models.DocumentChunk
	insertErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{documents: make(map[string]*models.Document)}
}

func (s *fakeStore) CreateDocument(ctx context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.ID] = doc
	return nil
}

func (s *fakeStore) ListDocuments(ctx context.Context) ([]models.Document, error) {
	return nil, nil
}

func (s *fakeStore) UpdateDocumentStatus(ctx context.Context, id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc, ok := s.documents[id]; ok {
		doc.Status = status
	}
	return nil
}

func (s *fakeStore) InsertDocumentChunks(ctx context.Context, chunks []models.DocumentChunk) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = append(s.chunks, chunks...)
	return nil
}

func (s *fakeStore) SearchDocumentChunks(ctx context.Context, docID string, queryVec []float32, limit int) ([]models.DocumentChunk, error) {
	return nil, nil
}

func (s *fakeStore) Close() error { return nil }

type fakeEmbedder struct{}

func (fakeEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	vecs := make([][]float32, len(texts))
	for i := range texts {
		vecs[i] = []float32{float32(len(texts[i])), 1}
	}
	return vecs, nil
}

// fakeExtractor splits the served body on newlines, one page per line.
type fakeExtractor struct{}

func (fakeExtractor) ExtractPages(ctx context.Context, pdf []byte) ([]string, error) {
	lines := strings.Split(strings.TrimSpace(string(pdf)), "\n")
	pages := make([]string, len(lines))
	for i, line := range lines {
		pages[i] = fmt.Sprintf("-- Page %d --\n%s", i+1, line)
	}
	return pages, nil
}

func newTestPipeline(store *fakeStore) *Pipeline {
	chunker, _ := NewChunker(400, 100)
	return NewPipeline(store, nil, fakeEmbedder{}, fakeExtractor{}, chunker, &Config{})
}

func serveDocs(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/a.pdf":
			fmt.Fprint(w, "alpha page one\nalpha page two")
		case "/c.pdf":
			fmt.Fprint(w, "gamma page one")
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestIngestOne(t *testing.T) {
	srv := serveDocs(t)
	store := newFakeStore()
	p := newTestPipeline(store)

	pdfID, fileName, err := p.IngestOne(context.Background(), srv.URL+"/a.pdf")
	if err != nil {
		t.Fatalf("IngestOne: %v", err)
	}
	if fileName != "a.pdf" {
		t.Errorf("fileName = %q, want a.pdf", fileName)
	}

	doc := store.documents[pdfID]
	if doc == nil {
		t.Fatal("document row missing")
	}
	if doc.Status != "ready" {
		t.Errorf("status = %q, want ready", doc.Status)
	}
	if doc.PageCount != 2 {
		t.Errorf("page count = %d, want 2", doc.PageCount)
	}

	if len(store.chunks) == 0 {
		t.Fatal("no chunks written")
	}
	seen := map[string]bool{}
	for i, ch := range store.chunks {
		if ch.DocumentID != pdfID {
			t.Errorf("chunk %d tagged %q, want %q", i, ch.DocumentID, pdfID)
		}
		if ch.ID == "" || seen[ch.ID] {
			t.Errorf("chunk %d lacks a fresh unique id", i)
		}
		seen[ch.ID] = true
		if ch.Position != i {
			t.Errorf("chunk %d has position %d", i, ch.Position)
		}
		if len(ch.Embedding) == 0 {
			t.Errorf("chunk %d missing embedding", i)
		}
	}
}

// A failing document in the middle of a batch must not disturb its siblings:
// the mapping holds the survivors, the error names the failure, and the index
// carries only the survivors' tags.
func TestIngestAllBatchIsolation(t *testing.T) {
	srv := serveDocs(t)
	store := newFakeStore()
	p := newTestPipeline(store)

	urls := []string{srv.URL + "/a.pdf", srv.URL + "/missing.pdf", srv.URL + "/c.pdf"}
	uploaded, err := p.IngestAll(context.Background(), urls)

	if err == nil {
		t.Fatal("expected an error for the failing document")
	}
	var docErr *DocumentError
	if !errors.As(err, &docErr) {
		t.Fatalf("error %v does not carry a DocumentError", err)
	}
	if !strings.Contains(docErr.URL, "missing.pdf") {
		t.Errorf("error names %q, want the missing document", docErr.URL)
	}

	if len(uploaded) != 2 {
		t.Fatalf("uploaded = %v, want 2 entries", uploaded)
	}
	names := map[string]bool{}
	for id, name := range uploaded {
		names[name] = true
		for _, ch := range chunksFor(store, id) {
			if ch.DocumentID != id {
				t.Errorf("chunk of %s tagged %s", id, ch.DocumentID)
			}
		}
		if len(chunksFor(store, id)) == 0 {
			t.Errorf("no chunks persisted for %s", id)
		}
	}
	if !names["a.pdf"] || !names["c.pdf"] {
		t.Errorf("uploaded names = %v, want a.pdf and c.pdf", names)
	}

	for _, ch := range store.chunks {
		if _, ok := uploaded[ch.DocumentID]; !ok {
			t.Errorf("index contains chunk for unreported document %s", ch.DocumentID)
		}
	}
}

func TestIngestOneMarksFailureOnIndexWrite(t *testing.T) {
	srv := serveDocs(t)
	store := newFakeStore()
	store.insertErr = errors.New("index down")
	p := newTestPipeline(store)

	if _, _, err := p.IngestOne(context.Background(), srv.URL+"/a.pdf"); err == nil {
		t.Fatal("expected index write error")
	}
	for _, doc := range store.documents {
		if doc.Status != "failed" {
			t.Errorf("document status = %q, want failed", doc.Status)
		}
	}
}

func TestFileNameFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://example.com/docs/policy.pdf", "policy.pdf"},
		{"https://example.com/policy.pdf?sig=abc", "policy.pdf"},
		{"https://example.com/", ""},
		{"https://example.com", ""},
	}
	for _, tt := range tests {
		if got := fileNameFromURL(tt.url); got != tt.want {
			t.Errorf("fileNameFromURL(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func chunksFor(s *fakeStore, docID string) []models.DocumentChunk {
	var out []models.DocumentChunk
	for _, ch := range s.chunks {
		if ch.DocumentID == docID {
			out = append(out, ch)
		}
	}
	return out
}
