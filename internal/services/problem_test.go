package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/itigeeks/itigeeks-backend/internal/data/repos"
	"github.com/itigeeks/itigeeks-backend/internal/data/repos/testutil"
	"github.com/itigeeks/itigeeks-backend/internal/domain/problems"
	"github.com/itigeeks/itigeeks-backend/internal/modules/problems/importerr"
	"github.com/itigeeks/itigeeks-backend/internal/platform/kv"
)

func newProblemFixture(t *testing.T, seed ...problems.ProblemRecord) (*problemService, uuid.UUID) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	svc := NewProblemService(db, log, repos.NewUserRepo(db, log), kv.NewMemory(), 0).(*problemService)
	u := testutil.SeedUser(t, context.Background(), db, "p@example.com", seed...)
	return svc, u.ID
}

func TestProblemListFilters(t *testing.T) {
	svc, userID := newProblemFixture(t,
		problems.ProblemRecord{TitleSlug: "two-sum", Difficulty: problems.DifficultyEasy, Type: "Arrays, Hashing", Status: problems.StatusDone},
		problems.ProblemRecord{TitleSlug: "lru-cache", Difficulty: problems.DifficultyMedium, Type: "Linked List", Status: problems.StatusTodo},
		problems.ProblemRecord{TitleSlug: "word-ladder", Difficulty: problems.DifficultyHard, Type: "Graphs", Status: problems.StatusTodo},
	)
	ctx := context.Background()

	cases := []struct {
		name   string
		filter ProblemFilter
		want   []string
	}{
		{"all", ProblemFilter{}, []string{"two-sum", "lru-cache", "word-ladder"}},
		{"status", ProblemFilter{Status: "todo"}, []string{"lru-cache", "word-ladder"}},
		{"difficulty", ProblemFilter{Difficulty: "hard"}, []string{"word-ladder"}},
		{"topic", ProblemFilter{Topic: "hashing"}, []string{"two-sum"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.List(ctx, userID, tc.filter)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("got %d records, want %v", len(got), tc.want)
			}
			for i, slug := range tc.want {
				if got[i].TitleSlug != slug {
					t.Fatalf("record %d = %s, want %s", i, got[i].TitleSlug, slug)
				}
			}
		})
	}

	if _, err := svc.List(ctx, userID, ProblemFilter{Status: "bogus"}); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestProblemUpdateStatusStampsCompletion(t *testing.T) {
	svc, userID := newProblemFixture(t, problems.ProblemRecord{TitleSlug: "two-sum", Status: problems.StatusTodo})
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	rec, err := svc.UpdateStatus(ctx, userID, "two-sum", "Done")
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if rec.Status != problems.StatusDone || rec.CompletedDate == nil || !rec.CompletedDate.Equal(now) {
		t.Fatalf("unexpected record: %+v", rec)
	}

	rec, err = svc.UpdateStatus(ctx, userID, "two-sum", "In Progress")
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if rec.CompletedDate != nil {
		t.Fatalf("leaving Done must clear completedDate: %+v", rec)
	}

	list, _ := svc.List(ctx, userID, ProblemFilter{})
	if list[0].Status != problems.StatusInProgress {
		t.Fatalf("status not persisted: %+v", list[0])
	}

	if _, err := svc.UpdateStatus(ctx, userID, "missing", "Done"); !errors.Is(err, ErrProblemNotFound) {
		t.Fatalf("expected ErrProblemNotFound, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, userID, "two-sum", "Finished"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestProblemUpdateStatusRespectsGate(t *testing.T) {
	svc, userID := newProblemFixture(t, problems.ProblemRecord{TitleSlug: "two-sum", Status: problems.StatusTodo})
	ctx := context.Background()

	release, err := svc.gate.acquire(ctx, userID)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer release()
	if _, err := svc.UpdateStatus(ctx, userID, "two-sum", "Done"); !errors.Is(err, importerr.ErrImportInProgress) {
		t.Fatalf("expected ErrImportInProgress, got %v", err)
	}
}

func TestProblemRemove(t *testing.T) {
	svc, userID := newProblemFixture(t,
		problems.ProblemRecord{TitleSlug: "two-sum"},
		problems.ProblemRecord{TitleSlug: "lru-cache"},
	)
	ctx := context.Background()

	if err := svc.Remove(ctx, userID, "two-sum"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	list, _ := svc.List(ctx, userID, ProblemFilter{})
	if len(list) != 1 || list[0].TitleSlug != "lru-cache" {
		t.Fatalf("unexpected list: %+v", list)
	}
	if err := svc.Remove(ctx, userID, "two-sum"); !errors.Is(err, ErrProblemNotFound) {
		t.Fatalf("expected ErrProblemNotFound, got %v", err)
	}
}

func TestProblemProgress(t *testing.T) {
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	recent := now.Add(-48 * time.Hour)
	old := now.Add(-30 * 24 * time.Hour)
	svc, userID := newProblemFixture(t,
		problems.ProblemRecord{TitleSlug: "a", Difficulty: problems.DifficultyEasy, Type: "Arrays", Status: problems.StatusDone, CompletedDate: &recent},
		problems.ProblemRecord{TitleSlug: "b", Difficulty: problems.DifficultyEasy, Type: "Arrays; Stack", Status: problems.StatusDone, CompletedDate: &old},
		problems.ProblemRecord{TitleSlug: "c", Difficulty: problems.DifficultyHard, Status: problems.StatusTodo},
	)
	svc.now = func() time.Time { return now }

	p, err := svc.Progress(context.Background(), userID)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if p.Total != 3 || p.ByStatus["Done"] != 2 || p.ByStatus["Todo"] != 1 {
		t.Fatalf("unexpected status counts: %+v", p)
	}
	if p.ByDifficulty["Easy"] != 2 || p.ByDifficulty["Hard"] != 1 {
		t.Fatalf("unexpected difficulty counts: %+v", p.ByDifficulty)
	}
	if p.ByTopic["Arrays"] != 2 || p.ByTopic["Stack"] != 1 || p.ByTopic[problems.UncategorizedType] != 1 {
		t.Fatalf("unexpected topic counts: %+v", p.ByTopic)
	}
	if p.CompletedLast7Days != 1 {
		t.Fatalf("CompletedLast7Days = %d, want 1", p.CompletedLast7Days)
	}
}
