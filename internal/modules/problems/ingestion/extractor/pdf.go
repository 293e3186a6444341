package extractor

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/itigeeks/itigeeks-backend/internal/modules/problems/importerr"
)

// PDF extracts the embedded text layer page by page. Scanned pages without
// a text layer fail the whole document; there is no OCR fallback.
type PDF struct{}

func (PDF) Extract(ctx context.Context, data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("pdf: malformed document: %v: %w", r, importerr.ErrParse)
		}
	}()

	rd, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf: open: %v: %w", err, importerr.ErrParse)
	}

	n := rd.NumPage()
	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p := rd.Page(i)
		if p.V.IsNull() {
			return "", fmt.Errorf("pdf: page %d unreadable: %w", i, importerr.ErrParse)
		}
		s, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("pdf: page %d: %v: %w", i, err, importerr.ErrParse)
		}
		if strings.TrimSpace(s) == "" {
			return "", fmt.Errorf("pdf: page %d has no text layer: %w", i, importerr.ErrParse)
		}
		pages = append(pages, s)
	}
	return strings.Join(pages, "\n"), nil
}
