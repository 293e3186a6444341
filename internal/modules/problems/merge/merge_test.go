package merge

import (
	"reflect"
	"testing"
	"time"

	"github.com/itigeeks/itigeeks-backend/internal/domain/problems"
)

var now = time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC)

func rec(slug string, status problems.Status) problems.ProblemRecord {
	return problems.ProblemRecord{
		Title:        problems.TitleFromSlug(slug),
		TitleSlug:    slug,
		Status:       status,
		Difficulty:   problems.DifficultyUnknown,
		Type:         problems.UncategorizedType,
		URL:          problems.CanonicalURL(slug),
		SourceSheets: []string{"import"},
	}
}

func slugs(list []problems.ProblemRecord) []string {
	out := make([]string, 0, len(list))
	for _, r := range list {
		out = append(out, r.TitleSlug)
	}
	return out
}

func TestMergeAddsOnlyMissingSlugs(t *testing.T) {
	existing := []problems.ProblemRecord{rec("two-sum", problems.StatusTodo)}
	res := Merge(existing, []problems.ProblemRecord{rec("two-sum", problems.StatusTodo), rec("lru-cache", problems.StatusTodo)}, now)

	if res.AddedCount != 1 {
		t.Fatalf("AddedCount = %d, want 1", res.AddedCount)
	}
	if !reflect.DeepEqual(slugs(res.Merged), []string{"two-sum", "lru-cache"}) {
		t.Fatalf("unexpected order: %v", slugs(res.Merged))
	}
	if !res.Merged[1].AddedAt.Equal(now) {
		t.Fatalf("new record should be stamped with addedAt")
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	candidates := []problems.ProblemRecord{rec("two-sum", problems.StatusTodo), rec("valid-anagram", problems.StatusTodo)}
	first := Merge(nil, candidates, now)
	second := Merge(first.Merged, candidates, now.Add(time.Hour))

	if second.AddedCount != 0 {
		t.Fatalf("second merge added %d", second.AddedCount)
	}
	if !reflect.DeepEqual(first.Merged, second.Merged) {
		t.Fatalf("second merge changed the collection")
	}
}

func TestMergeNeverOverwritesExisting(t *testing.T) {
	done := rec("two-sum", problems.StatusDone)
	completed := now.Add(-24 * time.Hour)
	done.CompletedDate = &completed
	done.Difficulty = problems.DifficultyEasy
	done.Type = "Arrays"

	incoming := rec("two-sum", problems.StatusTodo)
	incoming.Difficulty = problems.DifficultyHard
	incoming.Type = "Other"

	res := Merge([]problems.ProblemRecord{done}, []problems.ProblemRecord{incoming}, now)
	got := res.Merged[0]
	if got.Status != problems.StatusDone || got.CompletedDate == nil || !got.CompletedDate.Equal(completed) {
		t.Fatalf("existing progress lost: %+v", got)
	}
	if got.Difficulty != problems.DifficultyEasy || got.Type != "Arrays" {
		t.Fatalf("existing metadata overwritten: %+v", got)
	}
}

func TestMergeKeepsSlugsUnique(t *testing.T) {
	candidates := []problems.ProblemRecord{
		rec("a", problems.StatusTodo), rec("b", problems.StatusTodo), rec("a", problems.StatusDone), {Title: "no slug"},
	}
	res := Merge([]problems.ProblemRecord{rec("b", problems.StatusTodo)}, candidates, now)
	seen := map[string]int{}
	for _, r := range res.Merged {
		seen[r.TitleSlug]++
	}
	for slug, n := range seen {
		if n != 1 {
			t.Fatalf("slug %q appears %d times", slug, n)
		}
	}
	if res.AddedCount != 1 || len(res.Merged) != 2 {
		t.Fatalf("unexpected result: added=%d merged=%v", res.AddedCount, slugs(res.Merged))
	}
}

func TestDedupeBatchUnionsSources(t *testing.T) {
	a1 := rec("two-sum", problems.StatusTodo)
	a1.SourceSheets = []string{"Week 1"}
	a2 := rec("two-sum", problems.StatusDone)
	a2.SourceSheets = []string{"Week 2", "Week 1"}
	b := rec("lru-cache", problems.StatusTodo)

	got := DedupeBatch([]problems.ProblemRecord{a1, b, a2})
	if !reflect.DeepEqual(slugs(got), []string{"two-sum", "lru-cache"}) {
		t.Fatalf("unexpected slugs: %v", slugs(got))
	}
	if got[0].Status != problems.StatusTodo {
		t.Fatalf("first occurrence should win")
	}
	if !reflect.DeepEqual(got[0].SourceSheets, []string{"Week 1", "Week 2"}) {
		t.Fatalf("sources not unioned: %v", got[0].SourceSheets)
	}
	if !reflect.DeepEqual(a1.SourceSheets, []string{"Week 1"}) {
		t.Fatalf("input record mutated: %v", a1.SourceSheets)
	}
}

func TestMarkNew(t *testing.T) {
	items := MarkNew([]problems.ProblemRecord{rec("two-sum", problems.StatusDone)},
		[]problems.ProblemRecord{rec("two-sum", problems.StatusTodo), rec("lru-cache", problems.StatusTodo)})
	if items[0].IsNew || !items[1].IsNew {
		t.Fatalf("unexpected flags: %+v", items)
	}
}
