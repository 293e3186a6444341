package catalog

import (
	"context"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/itigeeks/itigeeks-backend/internal/domain/problems"
)

// Matcher resolves free-form problem names to catalog entries.
type Matcher struct {
	catalog *Catalog
	aliases map[string]string
}

func NewMatcher(c *Catalog, aliases map[string]string) *Matcher {
	if aliases == nil {
		aliases = DefaultAliases
	}
	return &Matcher{catalog: c, aliases: MergeAliases(aliases, nil)}
}

// Load loads the backing catalog; see Catalog.Load.
func (m *Matcher) Load(ctx context.Context) error {
	return m.catalog.Load(ctx)
}

// Match tries, in order: alias substitution, the hyphen-slug key, the
// space-separated key, then the first registered key that contains or is
// contained in the input. Nil when nothing matches or the catalog is empty.
func (m *Matcher) Match(name string) *Entry {
	if m == nil || m.catalog == nil {
		return nil
	}
	q := normalize(name)
	if q == "" {
		return nil
	}
	if canon, ok := m.aliases[q]; ok {
		q = canon
	}
	if e, ok := m.catalog.Lookup(problems.Slugify(q)); ok {
		return e
	}
	if e, ok := m.catalog.Lookup(strings.ReplaceAll(q, "-", " ")); ok {
		return e
	}
	var hit *Entry
	m.catalog.Scan(func(key string, e *Entry) bool {
		if strings.Contains(q, key) || strings.Contains(key, q) {
			hit = e
			return true
		}
		return false
	})
	return hit
}

// Enrich fills the blanks of rec from the catalog: difficulty and type the
// row already carries are kept. Anything still unknown afterwards becomes
// Unknown / Uncategorized. It reports whether the catalog matched.
func (m *Matcher) Enrich(rec *problems.ProblemRecord) bool {
	e := m.Match(rec.Title)
	if e == nil && rec.TitleSlug != "" {
		e = m.Match(rec.TitleSlug)
	}
	if e != nil {
		if rec.Difficulty == "" && e.Difficulty != nil {
			rec.Difficulty = *e.Difficulty
		}
		if strings.TrimSpace(rec.Type) == "" {
			rec.Type = e.Topic
		}
	}
	if rec.Difficulty == "" {
		rec.Difficulty = problems.DifficultyUnknown
	}
	if strings.TrimSpace(rec.Type) == "" {
		rec.Type = problems.UncategorizedType
	}
	return e != nil
}

// normalize lowercases, applies NFKC and collapses internal whitespace.
func normalize(s string) string {
	s = norm.NFKC.String(strings.ToLower(s))
	return strings.Join(strings.Fields(s), " ")
}
