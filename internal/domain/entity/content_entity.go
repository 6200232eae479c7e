package entity

import (
	"fmt"
	"strings"
	"time"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func ParseDifficulty(s string) (Difficulty, error) {
	switch v := Difficulty(strings.ToLower(strings.TrimSpace(s))); v {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return v, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q", s)
	}
}

// Theme groups levels by subject.
type Theme struct {
	ID          int64
	Title       string
	Description *string
	Icon        *string
	Color       *string
	IsActive    bool
	OrderIndex  int
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Levels      []Level
}

type Level struct {
	ID               int64
	ThemeID          int64
	Title            string
	Description      *string
	Difficulty       Difficulty
	OrderIndex       int
	IsActive         bool
	MinScoreToUnlock int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Question is a four-option multiple choice item. CorrectAnswer is one of A-D.
type Question struct {
	ID            int64
	LevelID       int64
	Text          string
	OptionA       string
	OptionB       string
	OptionC       string
	OptionD       string
	CorrectAnswer string
	Explanation   *string
	Points        int
	OrderIndex    int
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// DefaultQuestionPoints applies when a question is created without points.
const DefaultQuestionPoints = 10
