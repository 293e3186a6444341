package problems

import (
	"slices"
	"strings"
	"time"
)

type Difficulty string

const (
	DifficultyEasy    Difficulty = "Easy"
	DifficultyMedium  Difficulty = "Medium"
	DifficultyHard    Difficulty = "Hard"
	DifficultyUnknown Difficulty = "Unknown"
)

// ParseDifficulty accepts exactly Easy, Medium or Hard (after trimming).
// Anything else, including other casings, is rejected.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch d := Difficulty(strings.TrimSpace(s)); d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, true
	default:
		return "", false
	}
}

type Status string

const (
	StatusTodo       Status = "Todo"
	StatusInProgress Status = "In Progress"
	StatusDone       Status = "Done"
	StatusPostponed  Status = "Postponed"
)

func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "todo", "not opened":
		return StatusTodo, true
	case "in progress":
		return StatusInProgress, true
	case "done":
		return StatusDone, true
	case "postponed":
		return StatusPostponed, true
	default:
		return "", false
	}
}

// StatusFromCell maps a spreadsheet status cell: done, solved and ac mean
// Done, everything else is Todo.
func StatusFromCell(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "done", "solved", "ac":
		return StatusDone
	default:
		return StatusTodo
	}
}

const UncategorizedType = "Uncategorized"

// ProblemRecord is one entry of a user's problem collection. TitleSlug is
// the identity key; no two records in a collection share it.
type ProblemRecord struct {
	Title         string     `json:"title"`
	TitleSlug     string     `json:"titleSlug"`
	Difficulty    Difficulty `json:"difficulty"`
	Type          string     `json:"type"`
	Status        Status     `json:"status"`
	URL           string     `json:"url"`
	SourceSheets  []string   `json:"sourceSheets"`
	CompletedDate *time.Time `json:"completedDate,omitempty"`
	AddedAt       time.Time  `json:"addedAt"`
}

// AddSources unions labels into SourceSheets, keeping first-seen order.
func (p *ProblemRecord) AddSources(labels ...string) {
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" || slices.Contains(p.SourceSheets, l) {
			continue
		}
		p.SourceSheets = append(p.SourceSheets, l)
	}
}

// TransitionStatus moves the record to status, stamping CompletedDate when
// it becomes Done and clearing it when it leaves Done.
func (p *ProblemRecord) TransitionStatus(to Status, now time.Time) {
	from := p.Status
	p.Status = to
	switch {
	case to == StatusDone && from != StatusDone:
		t := now.UTC()
		p.CompletedDate = &t
	case to != StatusDone:
		p.CompletedDate = nil
	}
}

// Topics splits Type on the separators sheets use between topic labels.
func (p ProblemRecord) Topics() []string {
	return TopicLabels(p.Type)
}

func TopicLabels(t string) []string {
	fields := strings.FieldsFunc(t, func(r rune) bool {
		return r == ',' || r == ';' || r == '/'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
