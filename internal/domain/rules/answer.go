package rules

import (
	"strings"

	"github.com/civica-app/civica-backend/internal/domain/entity"
)

type AnswerResult struct {
	IsCorrect     bool    `json:"is_correct"`
	CorrectAnswer string  `json:"correct_answer"`
	Explanation   *string `json:"explanation"`
	PointsEarned  int     `json:"points_earned"`
}

// NormalizeAnswer trims and upper-cases a submitted letter and rejects
// anything outside A-D.
func NormalizeAnswer(submitted string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(submitted))
	switch s {
	case "A", "B", "C", "D":
		return s, nil
	default:
		return "", ErrInvalidAnswer
	}
}

func CheckAnswer(q *entity.Question, submitted string) (AnswerResult, error) {
	s, err := NormalizeAnswer(submitted)
	if err != nil {
		return AnswerResult{}, err
	}
	ok := s == strings.ToUpper(q.CorrectAnswer)
	res := AnswerResult{
		IsCorrect:     ok,
		CorrectAnswer: strings.ToUpper(q.CorrectAnswer),
		Explanation:   q.Explanation,
	}
	if ok {
		res.PointsEarned = q.Points
	}
	return res, nil
}
