package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/itigeeks/itigeeks-backend/internal/domain"
	"github.com/itigeeks/itigeeks-backend/internal/platform/logger"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepo interface {
	Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.User, error)
	// Ensure returns the user row, inserting an empty one on first sight.
	Ensure(ctx context.Context, tx *gorm.DB, seed *types.User) (*types.User, error)
	// UpdateProblems replaces the whole problems document in one statement.
	UpdateProblems(ctx context.Context, tx *gorm.DB, userID uuid.UUID, problems datatypes.JSON) error
	UpdateHandle(ctx context.Context, tx *gorm.DB, userID uuid.UUID, handle string) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

func (ur *userRepo) Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	if len(users) == 0 {
		return []*types.User{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (ur *userRepo) GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	var results []*types.User
	if len(userIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", userIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) Ensure(ctx context.Context, tx *gorm.DB, seed *types.User) (*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	if seed == nil || seed.ID == uuid.Nil {
		return nil, ErrUserNotFound
	}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(seed).Error; err != nil {
		return nil, err
	}
	var row types.User
	if err := transaction.WithContext(ctx).Where("id = ?", seed.ID).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (ur *userRepo) UpdateProblems(ctx context.Context, tx *gorm.DB, userID uuid.UUID, problems datatypes.JSON) error {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"problems":   problems,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (ur *userRepo) UpdateHandle(ctx context.Context, tx *gorm.DB, userID uuid.UUID, handle string) error {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	return transaction.WithContext(ctx).
		Model(&types.User{}).
		Where("id = ?", userID).
		Update("handle", handle).Error
}
