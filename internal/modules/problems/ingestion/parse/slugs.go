package parse

import (
	"regexp"

	"github.com/itigeeks/itigeeks-backend/internal/domain/problems"
)

var problemURL = regexp.MustCompile(`https?://[^\s/]+/problems/([a-z0-9-]+)`)

// ExtractSlugs returns the distinct problem slugs linked from text, in
// order of first appearance. Text without links yields an empty slice.
func ExtractSlugs(text string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, m := range problemURL.FindAllStringSubmatch(text, -1) {
		slug := m[1]
		if _, dup := seen[slug]; dup {
			continue
		}
		seen[slug] = struct{}{}
		out = append(out, slug)
	}
	return out
}

// CandidatesFromSlugs builds Todo records for slugs found in a document.
// Difficulty and type are left for the matcher to fill.
func CandidatesFromSlugs(slugs []string, source string) []problems.ProblemRecord {
	out := make([]problems.ProblemRecord, 0, len(slugs))
	for _, slug := range slugs {
		rec := problems.ProblemRecord{
			Title:     problems.TitleFromSlug(slug),
			TitleSlug: slug,
			Status:    problems.StatusTodo,
			URL:       problems.CanonicalURL(slug),
		}
		rec.AddSources(source)
		out = append(out, rec)
	}
	return out
}
