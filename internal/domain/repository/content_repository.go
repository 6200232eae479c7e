package repository

import (
	"context"

	"github.com/civica-app/civica-backend/internal/domain/entity"
)

type ContentCounts struct {
	Themes    int
	Levels    int
	Questions int
}

// ContentRepository covers the theme -> level -> question hierarchy.
type ContentRepository interface {
	ListThemes(ctx context.Context, activeOnly bool) ([]entity.Theme, error)
	GetTheme(ctx context.Context, id int64) (*entity.Theme, error)
	CreateTheme(ctx context.Context, t *entity.Theme) error
	UpdateTheme(ctx context.Context, t *entity.Theme) error
	DeleteTheme(ctx context.Context, id int64) error

	ListLevels(ctx context.Context, themeID *int64, activeOnly bool) ([]entity.Level, error)
	GetLevel(ctx context.Context, id int64) (*entity.Level, error)
	CreateLevel(ctx context.Context, l *entity.Level) error
	UpdateLevel(ctx context.Context, l *entity.Level) error
	DeleteLevel(ctx context.Context, id int64) error

	ListQuestions(ctx context.Context, levelID *int64, activeOnly bool) ([]entity.Question, error)
	GetQuestion(ctx context.Context, id int64) (*entity.Question, error)
	CreateQuestion(ctx context.Context, q *entity.Question) error
	UpdateQuestion(ctx context.Context, q *entity.Question) error
	DeleteQuestion(ctx context.Context, id int64) error

	Counts(ctx context.Context) (ContentCounts, error)
}
