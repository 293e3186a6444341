package parse

import (
	"net/url"
	"strings"

	"github.com/itigeeks/itigeeks-backend/internal/domain/problems"
)

const headerScanRows = 10

var headerHints = []string{"title", "problem", "link", "url", "name"}

// Field is a logical column the importer understands.
type Field string

const (
	FieldName       Field = "name"
	FieldURL        Field = "url"
	FieldDifficulty Field = "difficulty"
	FieldStatus     Field = "status"
	FieldTopic      Field = "topic"
)

// columnAliases maps a lowercased header label to its logical field.
var columnAliases = map[string]Field{
	"problem name":  FieldName,
	"problem title": FieldName,
	"title":         FieldName,
	"name":          FieldName,
	"problem":       FieldName,

	"link":         FieldURL,
	"problem link": FieldURL,
	"url":          FieldURL,
	"slug":         FieldURL,

	"difficulty": FieldDifficulty,
	"diff":       FieldDifficulty,
	"level":      FieldDifficulty,

	"status": FieldStatus,
	"state":  FieldStatus,

	"type":     FieldTopic,
	"topic":    FieldTopic,
	"topics":   FieldTopic,
	"category": FieldTopic,
	"tags":     FieldTopic,
}

// FieldFor resolves a header label to its logical field, or "".
func FieldFor(label string) Field {
	return columnAliases[strings.ToLower(strings.TrimSpace(label))]
}

type Cell struct {
	Label string
	Value string
}

// Row is one data row in column order, each cell tagged with its header label.
type Row []Cell

// Get returns the first non-empty value, in column order, among the
// columns aliased to f.
func (r Row) Get(f Field) string {
	for _, c := range r {
		if FieldFor(c.Label) != f {
			continue
		}
		if v := strings.TrimSpace(c.Value); v != "" {
			return v
		}
	}
	return ""
}

func (r Row) blank() bool {
	for _, c := range r {
		if strings.TrimSpace(c.Value) != "" {
			return false
		}
	}
	return true
}

// HeaderIndex picks the header row: the first of the leading rows with a
// cell mentioning a title, problem, link, url or name, else row 0.
func HeaderIndex(grid [][]string) int {
	limit := min(len(grid), headerScanRows)
	for i := 0; i < limit; i++ {
		for _, cell := range grid[i] {
			c := strings.ToLower(cell)
			for _, h := range headerHints {
				if strings.Contains(c, h) {
					return i
				}
			}
		}
	}
	return 0
}

// Tabularize zips every row after the header against the header labels.
// Short rows simply lack the trailing fields; wholly blank rows are skipped.
func Tabularize(grid [][]string) []Row {
	if len(grid) == 0 {
		return nil
	}
	hi := HeaderIndex(grid)
	header := grid[hi]
	var out []Row
	for _, cells := range grid[hi+1:] {
		row := make(Row, 0, len(header))
		for i, label := range header {
			label = strings.TrimSpace(label)
			if label == "" || i >= len(cells) {
				continue
			}
			row = append(row, Cell{Label: label, Value: cells[i]})
		}
		if !row.blank() {
			out = append(out, row)
		}
	}
	return out
}

// RecordFromRow derives a candidate record from a sheet row. Rows with
// neither a name nor a link are dropped (false). A valid difficulty cell
// and a topic cell are carried over; the matcher fills whatever is left.
func RecordFromRow(r Row, source string) (problems.ProblemRecord, bool) {
	name := r.Get(FieldName)
	link := stripQuery(r.Get(FieldURL))

	var slug string
	if link != "" {
		slug = slugFromLink(link)
	}
	// A link with no problem segment still leaves the name usable.
	if slug == "" && name != "" {
		slug = problems.Slugify(name)
	}
	title := name
	if title == "" {
		title = problems.TitleFromSlug(slug)
	}
	if slug == "" {
		return problems.ProblemRecord{}, false
	}

	rec := problems.ProblemRecord{
		Title:     title,
		TitleSlug: slug,
		Type:      r.Get(FieldTopic),
		Status:    problems.StatusFromCell(r.Get(FieldStatus)),
		URL:       problems.CanonicalURL(slug),
	}
	if d, ok := problems.ParseDifficulty(r.Get(FieldDifficulty)); ok {
		rec.Difficulty = d
	}
	rec.AddSources(source)
	return rec, true
}

// RecordsFromGrid runs Tabularize and RecordFromRow over a whole sheet.
func RecordsFromGrid(grid [][]string, source string) []problems.ProblemRecord {
	var out []problems.ProblemRecord
	for _, row := range Tabularize(grid) {
		if rec, ok := RecordFromRow(row, source); ok {
			out = append(out, rec)
		}
	}
	return out
}

func stripQuery(link string) string {
	if i := strings.IndexAny(link, "?#"); i >= 0 {
		link = link[:i]
	}
	return strings.TrimSpace(link)
}

// slugFromLink takes the segment after /problems/ when present, otherwise
// the last non-empty path segment, which also covers bare slugs.
func slugFromLink(link string) string {
	path := link
	if u, err := url.Parse(link); err == nil && u.Host != "" {
		path = u.Path
	}
	if _, after, ok := strings.Cut(path, "/problems/"); ok {
		seg, _, _ := strings.Cut(after, "/")
		return strings.ToLower(strings.TrimSpace(seg))
	}
	segs := strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
	if len(segs) == 0 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(segs[len(segs)-1]))
}
