package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/itigeeks/itigeeks-backend/internal/domain"
	"github.com/itigeeks/itigeeks-backend/internal/domain/user"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string, problems ...types.ProblemRecord) *types.User {
	tb.Helper()
	doc, err := user.EncodeProblems(problems)
	if err != nil {
		tb.Fatalf("encode problems: %v", err)
	}
	u := &types.User{
		ID:          uuid.New(),
		Email:       email,
		DisplayName: "Student",
		Problems:    doc,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}
