package extractor

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/itigeeks/itigeeks-backend/internal/modules/problems/importerr"
)

type Kind string

const (
	KindDocument    Kind = "document"
	KindSpreadsheet Kind = "spreadsheet"
	KindUnsupported Kind = "unsupported"
)

// TextExtractor turns a document's raw bytes into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

type TextExtractorFunc func(ctx context.Context, data []byte) (string, error)

func (f TextExtractorFunc) Extract(ctx context.Context, data []byte) (string, error) {
	return f(ctx, data)
}

// Sheet is one named grid of raw cell text.
type Sheet struct {
	Name string
	Rows [][]string
}

// GridReader decodes a tabular file into its sheets.
type GridReader interface {
	ReadSheets(ctx context.Context, data []byte) ([]Sheet, error)
}

type GridReaderFunc func(ctx context.Context, data []byte) ([]Sheet, error)

func (f GridReaderFunc) ReadSheets(ctx context.Context, data []byte) ([]Sheet, error) {
	return f(ctx, data)
}

// Registry maps lowercase extensions to the strategy that handles them.
// The registered extensions are also what Sniff consults.
type Registry struct {
	mu    sync.RWMutex
	text  map[string]TextExtractor
	grids map[string]GridReader
}

func NewRegistry() *Registry {
	return &Registry{text: map[string]TextExtractor{}, grids: map[string]GridReader{}}
}

// DefaultRegistry knows txt, md, markdown, docx and pdf documents and
// xlsx, xls and csv spreadsheets.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.RegisterText(PlainText{}, "txt", "md", "markdown")
	r.RegisterText(Docx{}, "docx")
	r.RegisterText(PDF{}, "pdf")
	r.RegisterGrid(CSV{}, "csv")
	r.RegisterGrid(XLSX{}, "xlsx")
	r.RegisterGrid(XLS{}, "xls")
	return r
}

func (r *Registry) RegisterText(e TextExtractor, exts ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range exts {
		r.text[normalizeExt(ext)] = e
	}
}

func (r *Registry) RegisterGrid(g GridReader, exts ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range exts {
		r.grids[normalizeExt(ext)] = g
	}
}

// Sniff classifies fileName by its extension alone.
func (r *Registry) Sniff(fileName string) Kind {
	ext := Ext(fileName)
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.text[ext]; ok {
		return KindDocument
	}
	if _, ok := r.grids[ext]; ok {
		return KindSpreadsheet
	}
	return KindUnsupported
}

func (r *Registry) ExtractText(ctx context.Context, fileName string, data []byte) (string, error) {
	r.mu.RLock()
	e, ok := r.text[Ext(fileName)]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%q: %w", fileName, importerr.ErrUnsupportedFormat)
	}
	return e.Extract(ctx, data)
}

func (r *Registry) ReadSheets(ctx context.Context, fileName string, data []byte) ([]Sheet, error) {
	r.mu.RLock()
	g, ok := r.grids[Ext(fileName)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%q: %w", fileName, importerr.ErrUnsupportedFormat)
	}
	return g.ReadSheets(ctx, data)
}

// Extensions lists everything the registry accepts, sorted.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.text)+len(r.grids))
	for ext := range r.text {
		out = append(out, ext)
	}
	for ext := range r.grids {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

var defaultRegistry = DefaultRegistry()

// Sniff classifies fileName against the default registry.
func Sniff(fileName string) Kind { return defaultRegistry.Sniff(fileName) }

// Ext returns the lowercase extension of fileName without the dot.
func Ext(fileName string) string {
	return normalizeExt(filepath.Ext(strings.TrimSpace(fileName)))
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
