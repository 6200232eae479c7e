package handlers

import (
	"time"

	"github.com/civica-app/civica-backend/internal/domain/entity"
)

type userDTO struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	Pseudo          string     `json:"pseudo"`
	IsVerified      string     `json:"is_verified"`
	Status          string     `json:"status"`
	Role            string     `json:"role"`
	IsDeleted       bool       `json:"is_deleted"`
	Points          int        `json:"points"`
	Level           int        `json:"level"`
	Lives           int        `json:"lives"`
	LastLifeRefresh *time.Time `json:"last_life_refresh"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func toUserDTO(u *entity.User) userDTO {
	return userDTO{
		ID:              u.ID,
		Email:           u.Email,
		Pseudo:          u.Pseudo,
		IsVerified:      string(u.Verified),
		Status:          string(u.Status),
		Role:            string(u.Role),
		IsDeleted:       u.IsDeleted,
		Points:          u.Points,
		Level:           u.Level,
		Lives:           u.Lives,
		LastLifeRefresh: u.LastLifeRefresh,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

type levelDTO struct {
	ID               int64     `json:"id"`
	ThemeID          int64     `json:"theme_id"`
	Title            string    `json:"title"`
	Description      *string   `json:"description"`
	Difficulty       string    `json:"difficulty"`
	OrderIndex       int       `json:"order_index"`
	IsActive         bool      `json:"is_active"`
	MinScoreToUnlock int       `json:"min_score_to_unlock"`
	CreatedAt        time.Time `json:"created_at"`
}

func toLevelDTO(l *entity.Level) levelDTO {
	return levelDTO{
		ID:               l.ID,
		ThemeID:          l.ThemeID,
		Title:            l.Title,
		Description:      l.Description,
		Difficulty:       string(l.Difficulty),
		OrderIndex:       l.OrderIndex,
		IsActive:         l.IsActive,
		MinScoreToUnlock: l.MinScoreToUnlock,
		CreatedAt:        l.CreatedAt,
	}
}

type themeDTO struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Icon        *string    `json:"icon"`
	Color       *string    `json:"color"`
	IsActive    bool       `json:"is_active"`
	OrderIndex  int        `json:"order_index"`
	CreatedAt   time.Time  `json:"created_at"`
	Levels      []levelDTO `json:"levels,omitempty"`
}

func toThemeDTO(t *entity.Theme) themeDTO {
	d := themeDTO{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Icon:        t.Icon,
		Color:       t.Color,
		IsActive:    t.IsActive,
		OrderIndex:  t.OrderIndex,
		CreatedAt:   t.CreatedAt,
	}
	for i := range t.Levels {
		d.Levels = append(d.Levels, toLevelDTO(&t.Levels[i]))
	}
	return d
}

// quizQuestionDTO is what players see; it never carries the answer.
type quizQuestionDTO struct {
	ID         int64  `json:"id"`
	LevelID    int64  `json:"level_id"`
	Text       string `json:"question_text"`
	OptionA    string `json:"option_a"`
	OptionB    string `json:"option_b"`
	OptionC    string `json:"option_c"`
	OptionD    string `json:"option_d"`
	Points     int    `json:"points"`
	OrderIndex int    `json:"order_index"`
}

type questionDTO struct {
	quizQuestionDTO
	CorrectAnswer string  `json:"correct_answer"`
	Explanation   *string `json:"explanation"`
	IsActive      bool    `json:"is_active"`
}

func toQuizQuestionDTO(q *entity.Question) quizQuestionDTO {
	return quizQuestionDTO{
		ID:         q.ID,
		LevelID:    q.LevelID,
		Text:       q.Text,
		OptionA:    q.OptionA,
		OptionB:    q.OptionB,
		OptionC:    q.OptionC,
		OptionD:    q.OptionD,
		Points:     q.Points,
		OrderIndex: q.OrderIndex,
	}
}

func toQuestionDTO(q *entity.Question) questionDTO {
	return questionDTO{
		quizQuestionDTO: toQuizQuestionDTO(q),
		CorrectAnswer:   q.CorrectAnswer,
		Explanation:     q.Explanation,
		IsActive:        q.IsActive,
	}
}

func mapSlice[T, D any](in []T, fn func(*T) D) []D {
	out := make([]D, 0, len(in))
	for i := range in {
		out = append(out, fn(&in[i]))
	}
	return out
}
