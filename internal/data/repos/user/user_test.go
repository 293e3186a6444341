package user

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/itigeeks/itigeeks-backend/internal/data/repos/testutil"
	types "github.com/itigeeks/itigeeks-backend/internal/domain"
	domainuser "github.com/itigeeks/itigeeks-backend/internal/domain/user"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserRepo(db, testutil.Logger(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, tx, []*types.User{{Email: "userrepo@example.com", DisplayName: "A"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 1 || created[0].ID == uuid.Nil {
		t.Fatalf("Create: expected 1 user with an id, got %+v", created)
	}

	gotByIDs, err := repo.GetByIDs(ctx, tx, []uuid.UUID{created[0].ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(gotByIDs) != 1 || gotByIDs[0].ID != created[0].ID {
		t.Fatalf("GetByIDs: unexpected result: %+v", gotByIDs)
	}
	list, err := gotByIDs[0].ProblemList()
	if err != nil || len(list) != 0 {
		t.Fatalf("new user should have an empty problem list: %v %v", list, err)
	}
}

func TestUserRepoUpdateProblemsReplacesDocument(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewUserRepo(db, testutil.Logger(t))
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, tx, "doc@example.com", types.ProblemRecord{TitleSlug: "two-sum", Status: types.StatusDone})

	doc, err := domainuser.EncodeProblems([]types.ProblemRecord{
		{TitleSlug: "two-sum", Status: types.StatusDone},
		{TitleSlug: "lru-cache", Status: types.StatusTodo},
	})
	if err != nil {
		t.Fatalf("EncodeProblems: %v", err)
	}
	if err := repo.UpdateProblems(ctx, tx, u.ID, doc); err != nil {
		t.Fatalf("UpdateProblems: %v", err)
	}

	got, err := repo.GetByIDs(ctx, tx, []uuid.UUID{u.ID})
	if err != nil || len(got) != 1 {
		t.Fatalf("GetByIDs: %v %v", got, err)
	}
	list, err := got[0].ProblemList()
	if err != nil {
		t.Fatalf("ProblemList: %v", err)
	}
	if len(list) != 2 || list[1].TitleSlug != "lru-cache" {
		t.Fatalf("unexpected problems: %+v", list)
	}

	err = repo.UpdateProblems(ctx, tx, uuid.New(), doc)
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("unknown user: expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepoEnsureIsIdempotent(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewUserRepo(db, testutil.Logger(t))
	ctx := context.Background()

	id := uuid.New()
	first, err := repo.Ensure(ctx, tx, &types.User{ID: id, Email: "first@example.com"})
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	second, err := repo.Ensure(ctx, tx, &types.User{ID: id, Email: "second@example.com"})
	if err != nil {
		t.Fatalf("Ensure again: %v", err)
	}
	if first.ID != second.ID || second.Email != "first@example.com" {
		t.Fatalf("second Ensure must not overwrite: %+v", second)
	}

	if err := repo.UpdateHandle(ctx, tx, id, "student42"); err != nil {
		t.Fatalf("UpdateHandle: %v", err)
	}
	got, _ := repo.GetByIDs(ctx, tx, []uuid.UUID{id})
	if got[0].Handle != "student42" {
		t.Fatalf("handle not updated: %+v", got[0])
	}
}
