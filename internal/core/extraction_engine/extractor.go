package extraction_engine

import (
	"context"
	"fmt"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/markdave123-py/Docra/internal/core"
)

// NoTextSentinel replaces a page whose OCR step yields nothing, so one bad
// page degrades gracefully instead of aborting the document.
const NoTextSentinel = "[No text detected]"

// Extractor renders a PDF into page images and fans OCR out across a bounded
// worker pool, reassembling page texts in page order.
//
// renderer: rasterizes the PDF (atomic: corrupt bytes fail the request).
// engine:   per-page OCR provider.
// workers:  concurrency cap for OCR; bounds memory/CPU pressure from image
//           decoding and inference, not I/O.
type Extractor struct {
	renderer core.PageRenderer
	engine   core.OCREngine
	workers  int
}

func NewExtractor(renderer core.PageRenderer, engine core.OCREngine, workers int) *Extractor {
	if workers <= 0 {
		workers = 5
	}
	return &Extractor{renderer: renderer, engine: engine, workers: workers}
}

// ExtractPages returns one formatted text per page, in strictly increasing
// page order. OCR completion order is non-deterministic and never leaks into
// the output: each worker writes into the slot its page number owns.
// A per-page engine error is logged and substituted with the sentinel; an
// unrendered PDF fails the whole call.
func (e *Extractor) ExtractPages(ctx context.Context, pdf []byte) ([]string, error) {
	images, err := e.renderer.RenderPages(ctx, pdf)
	if err != nil {
		return nil, fmt.Errorf("render pages: %w", err)
	}

	texts := make([]string, len(images))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i := range images {
		pageNum := i + 1
		image := images[i]
		g.Go(func() error {
			text, err := e.engine.Recognize(gctx, image)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.Printf("%s: page %d failed, substituting sentinel: %v", e.engine.Name(), pageNum, err)
				text = ""
			}
			texts[pageNum-1] = FormatPage(pageNum, text)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return texts, nil
}

// FormatPage produces the page header followed by the recognized text, or the
// sentinel when recognition yielded nothing.
func FormatPage(pageNum int, text string) string {
	if strings.TrimSpace(text) == "" {
		text = NoTextSentinel
	}
	return fmt.Sprintf("-- Page %d --\n%s", pageNum, text)
}
