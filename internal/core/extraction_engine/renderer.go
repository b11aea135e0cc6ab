package extraction_engine

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/markdave123-py/Docra/internal/core"
)

var _ core.PageRenderer = (*PopplerRenderer)(nil)

// PopplerRenderer rasterizes PDF pages to JPEG via poppler's pdftoppm.
// pdfcpu validates the document and supplies the page count up front, so a
// corrupt PDF fails the whole request before any worker is dispatched.
type PopplerRenderer struct {
	dpi int
}

func NewPopplerRenderer(dpi int) *PopplerRenderer {
	if dpi <= 0 {
		dpi = 150
	}
	return &PopplerRenderer{dpi: dpi}
}

// RenderPages returns one encoded JPEG per page, in page order. Page images
// are staged in a temporary directory that is removed on every exit path.
func (r *PopplerRenderer) RenderPages(ctx context.Context, pdf []byte) ([][]byte, error) {
	conf := model.NewDefaultConfiguration()
	pdfCtx, err := api.ReadValidateAndOptimize(bytes.NewReader(pdf), conf)
	if err != nil {
		return nil, fmt.Errorf("invalid pdf: %w", err)
	}
	if pdfCtx.PageCount == 0 {
		return nil, fmt.Errorf("pdf has no pages")
	}

	tmpDir, err := os.MkdirTemp("", "docra-render-")
	if err != nil {
		return nil, fmt.Errorf("create render dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	cmd := exec.CommandContext(ctx, "pdftoppm", "-jpeg", "-r", strconv.Itoa(r.dpi), "-", prefix)
	cmd.Stdin = bytes.NewReader(pdf)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("pdftoppm failed: %v, stderr: %s", err, stderr.String())
	}

	// pdftoppm zero-pads page numbers to a fixed width, so the lexical order
	// of the produced files is the page order.
	matches, err := filepath.Glob(prefix + "-*.jpg")
	if err != nil {
		return nil, fmt.Errorf("list rendered pages: %w", err)
	}
	sort.Strings(matches)

	if len(matches) != pdfCtx.PageCount {
		return nil, fmt.Errorf("rendered %d pages, expected %d", len(matches), pdfCtx.PageCount)
	}

	pages := make([][]byte, len(matches))
	for i, m := range matches {
		data, err := os.ReadFile(m)
		if err != nil {
			return nil, fmt.Errorf("read page image %d: %w", i+1, err)
		}
		pages[i] = data
	}
	return pages, nil
}
