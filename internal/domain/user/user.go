package user

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/itigeeks/itigeeks-backend/internal/domain/problems"
)

// User is the per-student document. Problems holds the whole problem
// collection as a JSON array and is only ever replaced wholesale.
type User struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email       string         `gorm:"column:email;index" json:"email"`
	DisplayName string         `gorm:"column:display_name" json:"display_name"`
	Handle      string         `gorm:"column:handle" json:"handle,omitempty"`
	Problems    datatypes.JSON `gorm:"column:problems" json:"-"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (User) TableName() string { return "user" }

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if len(u.Problems) == 0 {
		u.Problems = datatypes.JSON("[]")
	}
	return nil
}

// ProblemList decodes the problems column. An empty column is an empty list.
func (u *User) ProblemList() ([]problems.ProblemRecord, error) {
	if u == nil || len(u.Problems) == 0 {
		return []problems.ProblemRecord{}, nil
	}
	var out []problems.ProblemRecord
	if err := json.Unmarshal(u.Problems, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []problems.ProblemRecord{}
	}
	return out, nil
}

func EncodeProblems(list []problems.ProblemRecord) (datatypes.JSON, error) {
	if list == nil {
		list = []problems.ProblemRecord{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}
