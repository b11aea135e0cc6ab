package extraction_engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// fakeRenderer hands out one tiny payload per page; the payload identifies
// the page so the fake engine can echo it back.
type fakeRenderer struct {
	pages int
	err   error
}

func (r *fakeRenderer) RenderPages(ctx context.Context, pdf []byte) ([][]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	images := make([][]byte, r.pages)
	for i := range images {
		images[i] = []byte(fmt.Sprintf("image-%d", i+1))
	}
	return images, nil
}

// fakeEngine recognizes the page number embedded in the fake image. An
// optional delay function lets tests scramble completion order, and failPage
// makes exactly one page error out.
type fakeEngine struct {
	delay    func(page int) time.Duration
	failPage int
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (e *fakeEngine) Name() string { return "fake" }

func (e *fakeEngine) Recognize(ctx context.Context, image []byte) (string, error) {
	cur := e.inFlight.Add(1)
	defer e.inFlight.Add(-1)
	for {
		old := e.maxSeen.Load()
		if cur <= old || e.maxSeen.CompareAndSwap(old, cur) {
			break
		}
	}

	var page int
	fmt.Sscanf(string(image), "image-%d", &page)

	if e.delay != nil {
		select {
		case <-time.After(e.delay(page)):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if page == e.failPage {
		return "", errors.New("engine exploded")
	}
	return fmt.Sprintf("text of page %d", page), nil
}

// Completion order must never leak into output order: the last page finishes
// first here, yet results come back ascending.
func TestExtractPagesOrderInvariance(t *testing.T) {
	const pages = 8
	engine := &fakeEngine{
		delay: func(page int) time.Duration {
			return time.Duration(pages-page) * 15 * time.Millisecond
		},
	}
	ex := NewExtractor(&fakeRenderer{pages: pages}, engine, 5)

	texts, err := ex.ExtractPages(context.Background(), []byte("pdf"))
	if err != nil {
		t.Fatalf("ExtractPages: %v", err)
	}
	if len(texts) != pages {
		t.Fatalf("got %d pages, want %d", len(texts), pages)
	}
	for i, text := range texts {
		wantHeader := fmt.Sprintf("-- Page %d --", i+1)
		if !strings.HasPrefix(text, wantHeader) {
			t.Errorf("page %d out of order: %q", i+1, text)
		}
		if !strings.Contains(text, fmt.Sprintf("text of page %d", i+1)) {
			t.Errorf("page %d carries wrong body: %q", i+1, text)
		}
	}
}

func TestExtractPagesBoundsConcurrency(t *testing.T) {
	engine := &fakeEngine{
		delay: func(int) time.Duration { return 20 * time.Millisecond },
	}
	ex := NewExtractor(&fakeRenderer{pages: 12}, engine, 3)

	if _, err := ex.ExtractPages(context.Background(), []byte("pdf")); err != nil {
		t.Fatalf("ExtractPages: %v", err)
	}
	if max := engine.maxSeen.Load(); max > 3 {
		t.Errorf("observed %d concurrent workers, limit is 3", max)
	}
}

// One failing page yields the sentinel at its own position; siblings keep
// their recognized text.
func TestExtractPagesSentinelSubstitution(t *testing.T) {
	engine := &fakeEngine{failPage: 2}
	ex := NewExtractor(&fakeRenderer{pages: 3}, engine, 5)

	texts, err := ex.ExtractPages(context.Background(), []byte("pdf"))
	if err != nil {
		t.Fatalf("ExtractPages: %v", err)
	}
	if want := "-- Page 2 --\n" + NoTextSentinel; texts[1] != want {
		t.Errorf("page 2 = %q, want %q", texts[1], want)
	}
	for _, i := range []int{0, 2} {
		if !strings.Contains(texts[i], fmt.Sprintf("text of page %d", i+1)) {
			t.Errorf("sibling page %d affected: %q", i+1, texts[i])
		}
	}
}

func TestExtractPagesEmptyTextGetsSentinel(t *testing.T) {
	if got, want := FormatPage(4, "   \n "), "-- Page 4 --\n"+NoTextSentinel; got != want {
		t.Errorf("FormatPage = %q, want %q", got, want)
	}
}

// Rendering is atomic: corrupt bytes fail the whole request.
func TestExtractPagesRenderFailure(t *testing.T) {
	ex := NewExtractor(&fakeRenderer{err: errors.New("corrupt pdf")}, &fakeEngine{}, 5)
	if _, err := ex.ExtractPages(context.Background(), []byte("not a pdf")); err == nil {
		t.Fatal("expected render error")
	}
}
