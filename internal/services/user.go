package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/itigeeks/itigeeks-backend/internal/data/repos"
	types "github.com/itigeeks/itigeeks-backend/internal/domain"
	"github.com/itigeeks/itigeeks-backend/internal/platform/ctxutil"
	"github.com/itigeeks/itigeeks-backend/internal/platform/dbctx"
	"github.com/itigeeks/itigeeks-backend/internal/platform/logger"
)

var ErrNoRequestData = errors.New("request data not set in context")

type Me struct {
	*types.User
	ProblemCount int `json:"problem_count"`
}

type UserService interface {
	// GetMe returns the caller's row, creating it from the token claims on
	// first sight.
	GetMe(dbc dbctx.Context) (*Me, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{
		db:       db,
		log:      serviceLog,
		userRepo: userRepo,
	}
}

func (us *userService) GetMe(dbc dbctx.Context) (*Me, error) {
	rd := ctxutil.GetRequestData(dbc.Ctx)
	if rd == nil {
		us.log.Warn("Request data not set in context")
		return nil, ErrNoRequestData
	}
	u, err := us.userRepo.Ensure(ctxutil.Default(dbc.Ctx), dbc.Tx, &types.User{
		ID:          rd.UserID,
		Email:       strings.TrimSpace(rd.Email),
		DisplayName: strings.TrimSpace(rd.Name),
	})
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	list, err := u.ProblemList()
	if err != nil {
		return nil, fmt.Errorf("decode problems: %w", err)
	}
	return &Me{User: u, ProblemCount: len(list)}, nil
}
