// Package merge combines imported candidates with a user's existing
// problem collection. Existing records always win: an import can add
// problems but never changes one the user already tracks.
package merge

import (
	"time"

	"github.com/itigeeks/itigeeks-backend/internal/domain/problems"
)

type Result struct {
	Merged     []problems.ProblemRecord
	AddedCount int
}

// Merge returns existing followed by every candidate whose slug is not
// already present. Candidates without a slug are ignored. Merging the same
// candidates twice adds nothing the second time.
func Merge(existing, candidates []problems.ProblemRecord, now time.Time) Result {
	seen := make(map[string]struct{}, len(existing)+len(candidates))
	merged := make([]problems.ProblemRecord, 0, len(existing)+len(candidates))
	for _, rec := range existing {
		if _, dup := seen[rec.TitleSlug]; dup {
			continue
		}
		seen[rec.TitleSlug] = struct{}{}
		merged = append(merged, rec)
	}

	added := 0
	for _, c := range candidates {
		if c.TitleSlug == "" {
			continue
		}
		if _, dup := seen[c.TitleSlug]; dup {
			continue
		}
		seen[c.TitleSlug] = struct{}{}
		if c.AddedAt.IsZero() {
			c.AddedAt = now.UTC()
		}
		if c.SourceSheets == nil {
			c.SourceSheets = []string{}
		}
		merged = append(merged, c)
		added++
	}
	return Result{Merged: merged, AddedCount: added}
}

// DedupeBatch collapses candidates sharing a slug into the first one,
// unioning their source labels.
func DedupeBatch(candidates []problems.ProblemRecord) []problems.ProblemRecord {
	index := make(map[string]int, len(candidates))
	out := make([]problems.ProblemRecord, 0, len(candidates))
	for _, c := range candidates {
		if c.TitleSlug == "" {
			continue
		}
		if i, ok := index[c.TitleSlug]; ok {
			out[i].AddSources(c.SourceSheets...)
			continue
		}
		index[c.TitleSlug] = len(out)
		c.SourceSheets = append([]string(nil), c.SourceSheets...)
		out = append(out, c)
	}
	return out
}

// Item is a candidate annotated with whether the user lacks it.
type Item struct {
	Record problems.ProblemRecord `json:"record"`
	IsNew  bool                   `json:"isNew"`
}

func MarkNew(existing, candidates []problems.ProblemRecord) []Item {
	have := make(map[string]struct{}, len(existing))
	for _, rec := range existing {
		have[rec.TitleSlug] = struct{}{}
	}
	out := make([]Item, 0, len(candidates))
	for _, c := range candidates {
		_, dup := have[c.TitleSlug]
		out = append(out, Item{Record: c, IsNew: !dup})
	}
	return out
}
