package core

import (
	"context"
)

// PageRenderer rasterizes a PDF into one encoded image per page.
// Rendering is atomic: corrupt bytes fail the whole document, and any
// temporary storage is released before the call returns.
type PageRenderer interface {
	RenderPages(ctx context.Context, pdf []byte) ([][]byte, error)
}

// OCREngine converts one rendered page image into plain text.
type OCREngine interface {
	Name() string
	Recognize(ctx context.Context, image []byte) (string, error)
}

// PageExtractor turns raw PDF bytes into ordered, formatted page texts.
type PageExtractor interface {
	ExtractPages(ctx context.Context, pdf []byte) ([]string, error)
}
