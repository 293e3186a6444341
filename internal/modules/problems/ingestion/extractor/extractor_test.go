package extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/itigeeks/itigeeks-backend/internal/modules/problems/importerr"
)

func TestSniffByExtensionOnly(t *testing.T) {
	cases := map[string]Kind{
		"notes.TXT":       KindDocument,
		"list.md":         KindDocument,
		"list.markdown":   KindDocument,
		"Week 3.docx":     KindDocument,
		"sheet.pdf":       KindDocument,
		"tracker.xlsx":    KindSpreadsheet,
		"legacy.XLS":      KindSpreadsheet,
		"export.csv":      KindSpreadsheet,
		"slides.pptx":     KindUnsupported,
		"no-extension":    KindUnsupported,
		"archive.csv.zip": KindUnsupported,
	}
	for name, want := range cases {
		if got := Sniff(name); got != want {
			t.Fatalf("Sniff(%q) = %s, want %s", name, got, want)
		}
	}
}

func TestRegistryRejectsUnknownExtension(t *testing.T) {
	r := DefaultRegistry()
	_, err := r.ExtractText(context.Background(), "slides.pptx", []byte("x"))
	if !errors.Is(err, importerr.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	_, err = r.ReadSheets(context.Background(), "notes.txt", []byte("x"))
	if !errors.Is(err, importerr.ErrUnsupportedFormat) {
		t.Fatalf("documents are not grids: %v", err)
	}
}

func TestRegistryAcceptsNewStrategies(t *testing.T) {
	r := DefaultRegistry()
	r.RegisterText(TextExtractorFunc(func(ctx context.Context, data []byte) (string, error) {
		return strings.ToUpper(string(data)), nil
	}), ".RST")
	if r.Sniff("guide.rst") != KindDocument {
		t.Fatalf("registered extension should sniff as document")
	}
	got, err := r.ExtractText(context.Background(), "guide.rst", []byte("abc"))
	if err != nil || got != "ABC" {
		t.Fatalf("ExtractText: %q, %v", got, err)
	}
}

func TestPlainTextStripsBOM(t *testing.T) {
	got, err := PlainText{}.Extract(context.Background(), append([]byte{0xEF, 0xBB, 0xBF}, "hello"...))
	if err != nil || got != "hello" {
		t.Fatalf("Extract: %q, %v", got, err)
	}
}

func buildDocx(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func TestDocxCollectsRunsPerParagraph(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Week 1:</w:t></w:r><w:r><w:tab/><w:t>https://leetcode.com/problems/two-sum/</w:t></w:r></w:p>
    <w:p><w:r><w:rPr><w:b/></w:rPr><w:t xml:space="preserve">Bonus </w:t></w:r><w:r><w:t>https://leetcode.com/problems/lru-cache</w:t></w:r></w:p>
  </w:body>
</w:document>`
	data := buildDocx(t, map[string]string{"word/document.xml": doc, "[Content_Types].xml": "<Types/>"})

	got, err := Docx{}.Extract(context.Background(), data)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := "Week 1:\thttps://leetcode.com/problems/two-sum/\nBonus https://leetcode.com/problems/lru-cache"
	if got != want {
		t.Fatalf("unexpected text:\n%q\nwant\n%q", got, want)
	}
}

func TestDocxMalformedIsParseError(t *testing.T) {
	if _, err := (Docx{}).Extract(context.Background(), []byte("not a zip")); !errors.Is(err, importerr.ErrParse) {
		t.Fatalf("garbage: expected ErrParse, got %v", err)
	}
	data := buildDocx(t, map[string]string{"word/styles.xml": "<w:styles/>"})
	if _, err := (Docx{}).Extract(context.Background(), data); !errors.Is(err, importerr.ErrParse) {
		t.Fatalf("missing body: expected ErrParse, got %v", err)
	}
}

func TestPDFMalformedIsParseError(t *testing.T) {
	_, err := PDF{}.Extract(context.Background(), []byte("%PDF-1.4 truncated"))
	if !errors.Is(err, importerr.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

// buildPDF writes a minimal PDF with one page per entry. An empty entry
// yields a page whose content stream draws no text.
func buildPDF(t *testing.T, pages ...string) []byte {
	t.Helper()
	n := len(pages)
	fontObj := 3 + 2*n
	var objs []string
	kids := make([]string, n)
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 3+2*i)
	}
	objs = append(objs,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n),
	)
	for i, text := range pages {
		content := ""
		if text != "" {
			content = fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		}
		objs = append(objs,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>", fontObj, 4+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}
	objs = append(objs, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, body := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return buf.Bytes()
}

func TestPDFJoinsPagesInOrder(t *testing.T) {
	got, err := PDF{}.Extract(context.Background(), buildPDF(t, "page1", "page2"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != "page1\npage2" {
		t.Fatalf("got %q, want %q", got, "page1\npage2")
	}
}

func TestPDFPageWithoutTextIsParseError(t *testing.T) {
	_, err := PDF{}.Extract(context.Background(), buildPDF(t, "page1", ""))
	if !errors.Is(err, importerr.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestXLSMalformedIsParseError(t *testing.T) {
	_, err := XLS{}.ReadSheets(context.Background(), []byte("definitely not BIFF"))
	if !errors.Is(err, importerr.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestCSVReadsRaggedRows(t *testing.T) {
	data := "\xEF\xBB\xBFProblem Name,Link\nTwo Sum,https://leetcode.com/problems/two-sum/\n\nLRU Cache\n"
	sheets, err := CSV{}.ReadSheets(context.Background(), []byte(data))
	if err != nil {
		t.Fatalf("ReadSheets: %v", err)
	}
	if len(sheets) != 1 {
		t.Fatalf("expected 1 sheet, got %d", len(sheets))
	}
	rows := sheets[0].Rows
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows (blank line skipped), got %d: %v", len(rows), rows)
	}
	if rows[0][0] != "Problem Name" {
		t.Fatalf("BOM not stripped: %q", rows[0][0])
	}
	if len(rows[2]) != 1 {
		t.Fatalf("short row should stay short: %v", rows[2])
	}
}

func TestXLSXReadsEverySheet(t *testing.T) {
	f := excelize.NewFile()
	if err := f.SetSheetRow("Sheet1", "A1", &[]string{"Title", "Difficulty"}); err != nil {
		t.Fatalf("SetSheetRow: %v", err)
	}
	if err := f.SetSheetRow("Sheet1", "A2", &[]string{"Two Sum", "Easy"}); err != nil {
		t.Fatalf("SetSheetRow: %v", err)
	}
	if _, err := f.NewSheet("Week 2"); err != nil {
		t.Fatalf("NewSheet: %v", err)
	}
	if err := f.SetCellValue("Week 2", "A1", "Link"); err != nil {
		t.Fatalf("SetCellValue: %v", err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}

	sheets, err := XLSX{}.ReadSheets(context.Background(), buf.Bytes())
	if err != nil {
		t.Fatalf("ReadSheets: %v", err)
	}
	if len(sheets) != 2 || sheets[0].Name != "Sheet1" || sheets[1].Name != "Week 2" {
		t.Fatalf("unexpected sheets: %+v", sheets)
	}
	if got := sheets[0].Rows[1]; len(got) != 2 || got[0] != "Two Sum" || got[1] != "Easy" {
		t.Fatalf("unexpected row: %v", got)
	}
}

func TestXLSXMalformedIsParseError(t *testing.T) {
	if _, err := (XLSX{}).ReadSheets(context.Background(), []byte("nope")); !errors.Is(err, importerr.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}
