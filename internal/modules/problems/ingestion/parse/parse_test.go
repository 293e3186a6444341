package parse

import (
	"reflect"
	"testing"

	"github.com/itigeeks/itigeeks-backend/internal/domain/problems"
)

func TestExtractSlugsDedupesInFirstSeenOrder(t *testing.T) {
	text := `Practice list
https://leetcode.com/problems/two-sum/ then http://leetcode.com/problems/two-sum
again https://leetcode.com/problems/two-sum/description and
https://leetcode.com/problems/lru-cache/`
	got := ExtractSlugs(text)
	if !reflect.DeepEqual(got, []string{"two-sum", "lru-cache"}) {
		t.Fatalf("ExtractSlugs = %v", got)
	}
}

func TestExtractSlugsIsStatelessAcrossCalls(t *testing.T) {
	text := "https://leetcode.com/problems/valid-anagram/"
	for i := 0; i < 3; i++ {
		if got := ExtractSlugs(text); len(got) != 1 || got[0] != "valid-anagram" {
			t.Fatalf("call %d: %v", i, got)
		}
	}
	if got := ExtractSlugs("no links here"); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestCandidatesFromSlugs(t *testing.T) {
	got := CandidatesFromSlugs([]string{"lru-cache"}, "notes.pdf")
	want := problems.ProblemRecord{
		Title:        "Lru Cache",
		TitleSlug:    "lru-cache",
		Status:       problems.StatusTodo,
		URL:          "https://leetcode.com/problems/lru-cache/",
		SourceSheets: []string{"notes.pdf"},
	}
	if len(got) != 1 || !reflect.DeepEqual(got[0], want) {
		t.Fatalf("unexpected candidate: %+v", got)
	}
}

func TestHeaderIndexSkipsBannerRows(t *testing.T) {
	grid := [][]string{
		{"ITI Cohort 45"},
		{"", "Generated 2024-10-01"},
		{"#", "Problem Title", "Link"},
		{"1", "Two Sum", "https://leetcode.com/problems/two-sum/"},
	}
	if got := HeaderIndex(grid); got != 2 {
		t.Fatalf("HeaderIndex = %d, want 2", got)
	}
	rows := Tabularize(grid)
	if len(rows) != 1 || rows[0].Get(FieldName) != "Two Sum" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestHeaderIndexDefaultsToFirstRow(t *testing.T) {
	grid := [][]string{{"a", "b"}, {"c", "d"}}
	if got := HeaderIndex(grid); got != 0 {
		t.Fatalf("HeaderIndex = %d, want 0", got)
	}
}

func TestTabularizeHandlesShortAndBlankRows(t *testing.T) {
	grid := [][]string{
		{"Name", "URL", "Difficulty", "Status"},
		{"Two Sum"},
		{"", "", ""},
		{"", "https://leetcode.com/problems/lru-cache/?envType=study", "Medium", "AC"},
	}
	rows := Tabularize(grid)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Get(FieldURL) != "" || rows[0].Get(FieldDifficulty) != "" {
		t.Fatalf("short row should lack trailing fields: %+v", rows[0])
	}
}

func TestRecordFromRow(t *testing.T) {
	cases := []struct {
		name string
		row  Row
		want problems.ProblemRecord
		ok   bool
	}{
		{
			name: "url with query",
			row:  Row{{"Problem Name", "Two Sum"}, {"Link", "https://leetcode.com/problems/two-sum/?tab=1"}, {"Status", "solved"}},
			want: problems.ProblemRecord{Title: "Two Sum", TitleSlug: "two-sum", Status: problems.StatusDone},
			ok:   true,
		},
		{
			name: "url only derives title",
			row:  Row{{"URL", "https://leetcode.com/problems/top-k-frequent-elements/description/"}},
			want: problems.ProblemRecord{Title: "Top K Frequent Elements", TitleSlug: "top-k-frequent-elements", Status: problems.StatusTodo},
			ok:   true,
		},
		{
			name: "bare slug column",
			row:  Row{{"Slug", "group-anagrams"}},
			want: problems.ProblemRecord{Title: "Group Anagrams", TitleSlug: "group-anagrams", Status: problems.StatusTodo},
			ok:   true,
		},
		{
			name: "name only",
			row:  Row{{"Title", "Valid Anagram"}, {"Difficulty", "Easy"}, {"Topics", "Hash Table, String"}},
			want: problems.ProblemRecord{Title: "Valid Anagram", TitleSlug: "valid-anagram", Status: problems.StatusTodo, Difficulty: problems.DifficultyEasy, Type: "Hash Table, String"},
			ok:   true,
		},
		{
			name: "invalid difficulty is ignored",
			row:  Row{{"Name", "Two Sum"}, {"Level", "Trivial"}},
			want: problems.ProblemRecord{Title: "Two Sum", TitleSlug: "two-sum", Status: problems.StatusTodo},
			ok:   true,
		},
		{
			name: "site root link falls back to name",
			row:  Row{{"Title", "Two Sum"}, {"Link", "https://leetcode.com/"}},
			want: problems.ProblemRecord{Title: "Two Sum", TitleSlug: "two-sum", Status: problems.StatusTodo},
			ok:   true,
		},
		{
			name: "empty problems segment falls back to name",
			row:  Row{{"Title", "Valid Anagram"}, {"Link", "https://leetcode.com/problems/"}},
			want: problems.ProblemRecord{Title: "Valid Anagram", TitleSlug: "valid-anagram", Status: problems.StatusTodo},
			ok:   true,
		},
		{
			name: "unusable link and no name",
			row:  Row{{"Link", "https://leetcode.com/problems/"}},
			ok:   false,
		},
		{
			name: "neither name nor url",
			row:  Row{{"Difficulty", "Easy"}, {"Notes", "skip me"}},
			ok:   false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := RecordFromRow(tc.row, "Week 1")
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if !ok {
				return
			}
			tc.want.URL = problems.CanonicalURL(tc.want.TitleSlug)
			tc.want.SourceSheets = []string{"Week 1"}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got  %+v\nwant %+v", got, tc.want)
			}
		})
	}
}

func TestRecordsFromGrid(t *testing.T) {
	grid := [][]string{
		{"Problem Name", "Link"},
		{"Two Sum", "https://leetcode.com/problems/two-sum/"},
		{"", ""},
		{"Notes only"},
		{"", "https://leetcode.com/problems/two-sum/?tab=1"},
	}
	got := RecordsFromGrid(grid, "csv")
	if len(got) != 3 {
		t.Fatalf("expected 3 records (dedupe happens later), got %d", len(got))
	}
	if got[1].TitleSlug != "notes-only" || got[2].TitleSlug != "two-sum" {
		t.Fatalf("unexpected slugs: %s, %s", got[1].TitleSlug, got[2].TitleSlug)
	}
}

func TestRecordsFromGridKeepsNamedRowsWithBareSiteLinks(t *testing.T) {
	grid := [][]string{
		{"Title", "Link"},
		{"Two Sum", "https://leetcode.com/"},
		{"Valid Anagram", "https://leetcode.com/problems/"},
	}
	got := RecordsFromGrid(grid, "week1")
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2: %+v", len(got), got)
	}
	if got[0].TitleSlug != "two-sum" || got[1].TitleSlug != "valid-anagram" {
		t.Fatalf("unexpected slugs: %s, %s", got[0].TitleSlug, got[1].TitleSlug)
	}
}
