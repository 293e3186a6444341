package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/itigeeks/itigeeks-backend/internal/data/repos"
	types "github.com/itigeeks/itigeeks-backend/internal/domain"
	"github.com/itigeeks/itigeeks-backend/internal/domain/problems"
	"github.com/itigeeks/itigeeks-backend/internal/domain/user"
	"github.com/itigeeks/itigeeks-backend/internal/platform/kv"
	"github.com/itigeeks/itigeeks-backend/internal/platform/logger"
)

var (
	ErrProblemNotFound = errors.New("problem not found")
	ErrInvalidStatus   = errors.New("invalid status")
)

type ProblemFilter struct {
	Status     string
	Difficulty string
	Topic      string
}

type ProgressSummary struct {
	Total              int            `json:"total"`
	ByStatus           map[string]int `json:"byStatus"`
	ByDifficulty       map[string]int `json:"byDifficulty"`
	ByTopic            map[string]int `json:"byTopic"`
	CompletedLast7Days int            `json:"completedLast7Days"`
}

type ProblemService interface {
	List(ctx context.Context, userID uuid.UUID, filter ProblemFilter) ([]problems.ProblemRecord, error)
	UpdateStatus(ctx context.Context, userID uuid.UUID, slug, status string) (*problems.ProblemRecord, error)
	Remove(ctx context.Context, userID uuid.UUID, slug string) error
	Progress(ctx context.Context, userID uuid.UUID) (*ProgressSummary, error)
}

type problemService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
	gate     *userGate
	now      func() time.Time
}

func NewProblemService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, store kv.Store, gateTTL time.Duration) ProblemService {
	return &problemService{
		db:       db,
		log:      log.With("service", "ProblemService"),
		userRepo: userRepo,
		gate:     newUserGate(store, gateTTL),
		now:      time.Now,
	}
}

func (s *problemService) load(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]problems.ProblemRecord, error) {
	u, err := s.userRepo.Ensure(ctx, tx, &types.User{ID: userID})
	if err != nil {
		return nil, err
	}
	return u.ProblemList()
}

func (s *problemService) List(ctx context.Context, userID uuid.UUID, filter ProblemFilter) ([]problems.ProblemRecord, error) {
	list, err := s.load(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	status := strings.TrimSpace(filter.Status)
	if status != "" {
		st, ok := problems.ParseStatus(status)
		if !ok {
			return nil, fmt.Errorf("%q: %w", status, ErrInvalidStatus)
		}
		status = string(st)
	}
	topic := strings.ToLower(strings.TrimSpace(filter.Topic))
	return lo.Filter(list, func(p problems.ProblemRecord, _ int) bool {
		if status != "" && string(p.Status) != status {
			return false
		}
		if filter.Difficulty != "" && !strings.EqualFold(string(p.Difficulty), filter.Difficulty) {
			return false
		}
		if topic != "" && !lo.ContainsBy(p.Topics(), func(t string) bool { return strings.ToLower(t) == topic }) {
			return false
		}
		return true
	}), nil
}

// mutate applies fn to the user's collection under the user gate and writes
// the result back in one update.
func (s *problemService) mutate(ctx context.Context, userID uuid.UUID, fn func([]problems.ProblemRecord) ([]problems.ProblemRecord, error)) error {
	release, err := s.gate.acquire(ctx, userID)
	if err != nil {
		return err
	}
	defer release()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		list, err := s.load(ctx, tx, userID)
		if err != nil {
			return err
		}
		next, err := fn(list)
		if err != nil {
			return err
		}
		doc, err := user.EncodeProblems(next)
		if err != nil {
			return err
		}
		return s.userRepo.UpdateProblems(ctx, tx, userID, doc)
	})
}

func (s *problemService) UpdateStatus(ctx context.Context, userID uuid.UUID, slug, status string) (*problems.ProblemRecord, error) {
	st, ok := problems.ParseStatus(status)
	if !ok {
		return nil, fmt.Errorf("%q: %w", status, ErrInvalidStatus)
	}
	var updated problems.ProblemRecord
	err := s.mutate(ctx, userID, func(list []problems.ProblemRecord) ([]problems.ProblemRecord, error) {
		_, idx, found := lo.FindIndexOf(list, func(p problems.ProblemRecord) bool { return p.TitleSlug == slug })
		if !found {
			return nil, ErrProblemNotFound
		}
		list[idx].TransitionStatus(st, s.now())
		updated = list[idx]
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Problem status updated", "user_id", userID, "slug", slug, "status", st)
	return &updated, nil
}

func (s *problemService) Remove(ctx context.Context, userID uuid.UUID, slug string) error {
	err := s.mutate(ctx, userID, func(list []problems.ProblemRecord) ([]problems.ProblemRecord, error) {
		next := lo.Reject(list, func(p problems.ProblemRecord, _ int) bool { return p.TitleSlug == slug })
		if len(next) == len(list) {
			return nil, ErrProblemNotFound
		}
		return next, nil
	})
	if err != nil {
		return err
	}
	s.log.Info("Problem removed", "user_id", userID, "slug", slug)
	return nil
}

func (s *problemService) Progress(ctx context.Context, userID uuid.UUID) (*ProgressSummary, error) {
	list, err := s.load(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	out := &ProgressSummary{
		Total:        len(list),
		ByStatus:     map[string]int{},
		ByDifficulty: map[string]int{},
		ByTopic:      map[string]int{},
	}
	cutoff := s.now().Add(-7 * 24 * time.Hour)
	for _, p := range list {
		out.ByStatus[string(p.Status)]++
		out.ByDifficulty[string(p.Difficulty)]++
		topics := p.Topics()
		if len(topics) == 0 {
			topics = []string{problems.UncategorizedType}
		}
		for _, t := range topics {
			out.ByTopic[t]++
		}
		if p.Status == problems.StatusDone && p.CompletedDate != nil && p.CompletedDate.After(cutoff) {
			out.CompletedLast7Days++
		}
	}
	return out, nil
}
