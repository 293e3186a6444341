package domain

import (
	"github.com/itigeeks/itigeeks-backend/internal/domain/problems"
	"github.com/itigeeks/itigeeks-backend/internal/domain/user"
)

type (
	User          = user.User
	ProblemRecord = problems.ProblemRecord
	Difficulty    = problems.Difficulty
	Status        = problems.Status
)

const (
	DifficultyEasy    = problems.DifficultyEasy
	DifficultyMedium  = problems.DifficultyMedium
	DifficultyHard    = problems.DifficultyHard
	DifficultyUnknown = problems.DifficultyUnknown

	StatusTodo       = problems.StatusTodo
	StatusInProgress = problems.StatusInProgress
	StatusDone       = problems.StatusDone
	StatusPostponed  = problems.StatusPostponed
)
