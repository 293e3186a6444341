package repos

import (
	"gorm.io/gorm"

	"github.com/itigeeks/itigeeks-backend/internal/data/repos/user"
	"github.com/itigeeks/itigeeks-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo

var ErrUserNotFound = user.ErrUserNotFound

func NewUserRepo(db *gorm.DB, log *logger.Logger) UserRepo { return user.NewUserRepo(db, log) }
