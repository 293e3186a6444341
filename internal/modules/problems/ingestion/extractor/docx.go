package extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/itigeeks/itigeeks-backend/internal/modules/problems/importerr"
)

const docxBody = "word/document.xml"

// Docx reads the text runs of an OOXML word document. Paragraphs become
// lines; tabs and breaks become whitespace. Formatting is discarded.
type Docx struct{}

func (Docx) Extract(ctx context.Context, data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("docx: open archive: %v: %w", err, importerr.ErrParse)
	}
	var body *zip.File
	for _, f := range zr.File {
		if f.Name == docxBody {
			body = f
			break
		}
	}
	if body == nil {
		return "", fmt.Errorf("docx: %s missing: %w", docxBody, importerr.ErrParse)
	}
	rc, err := body.Open()
	if err != nil {
		return "", fmt.Errorf("docx: open %s: %v: %w", docxBody, err, importerr.ErrParse)
	}
	defer rc.Close()

	text, err := docxText(ctx, rc)
	if err != nil {
		return "", fmt.Errorf("docx: %v: %w", err, importerr.ErrParse)
	}
	return text, nil
}

func docxText(ctx context.Context, r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var sb strings.Builder
	inText := false
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br", "cr":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return strings.TrimSpace(sb.String()), nil
}
