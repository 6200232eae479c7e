package application

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/civica-app/civica-backend/internal/domain/entity"
	"github.com/civica-app/civica-backend/internal/domain/repository"
	"github.com/civica-app/civica-backend/internal/domain/rules"
	"github.com/civica-app/civica-backend/pkg/apperror"
)

// ContentService manages themes, levels and questions.
type ContentService struct {
	UoW    repository.UnitOfWork
	Logger logrus.FieldLogger
}

func (s *ContentService) repo() repository.ContentRepository { return s.UoW.Content() }

func required(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return apperror.Validation(field + " is required")
	}
	return nil
}

// Themes

func (s *ContentService) ListThemes(ctx context.Context, activeOnly bool) ([]entity.Theme, error) {
	themes, err := s.repo().ListThemes(ctx, activeOnly)
	return themes, internal(err, "list themes failed")
}

// GetTheme returns the theme with its active levels.
func (s *ContentService) GetTheme(ctx context.Context, id int64) (*entity.Theme, error) {
	t, err := s.repo().GetTheme(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrThemeNotFound, "load theme failed")
	}
	if t.Levels, err = s.repo().ListLevels(ctx, &id, true); err != nil {
		return nil, internal(err, "list levels failed")
	}
	return t, nil
}

func (s *ContentService) CreateTheme(ctx context.Context, t *entity.Theme) error {
	if err := required("title", t.Title); err != nil {
		return err
	}
	return internal(s.repo().CreateTheme(ctx, t), "create theme failed")
}

func (s *ContentService) UpdateTheme(ctx context.Context, t *entity.Theme) error {
	if err := required("title", t.Title); err != nil {
		return err
	}
	return notFound(s.repo().UpdateTheme(ctx, t), ErrThemeNotFound, "update theme failed")
}

// DeleteTheme also removes its levels and their questions.
func (s *ContentService) DeleteTheme(ctx context.Context, id int64) error {
	if err := s.repo().DeleteTheme(ctx, id); err != nil {
		return notFound(err, ErrThemeNotFound, "delete theme failed")
	}
	s.Logger.WithField("theme_id", id).Info("theme deleted")
	return nil
}

// Levels

func (s *ContentService) ListLevels(ctx context.Context, themeID *int64, activeOnly bool) ([]entity.Level, error) {
	levels, err := s.repo().ListLevels(ctx, themeID, activeOnly)
	return levels, internal(err, "list levels failed")
}

func (s *ContentService) GetLevel(ctx context.Context, id int64) (*entity.Level, error) {
	l, err := s.repo().GetLevel(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrLevelNotFound, "load level failed")
	}
	return l, nil
}

func (s *ContentService) checkLevel(ctx context.Context, l *entity.Level) error {
	if err := required("title", l.Title); err != nil {
		return err
	}
	if l.Difficulty == "" {
		l.Difficulty = entity.DifficultyEasy
	}
	d, err := entity.ParseDifficulty(string(l.Difficulty))
	if err != nil {
		return ErrInvalidDifficulty
	}
	l.Difficulty = d
	if l.MinScoreToUnlock < 0 {
		return apperror.Validation("min_score_to_unlock must not be negative")
	}
	if _, err := s.repo().GetTheme(ctx, l.ThemeID); err != nil {
		return notFound(err, ErrThemeNotFound, "load theme failed")
	}
	return nil
}

func (s *ContentService) CreateLevel(ctx context.Context, l *entity.Level) error {
	if err := s.checkLevel(ctx, l); err != nil {
		return err
	}
	return internal(s.repo().CreateLevel(ctx, l), "create level failed")
}

func (s *ContentService) UpdateLevel(ctx context.Context, l *entity.Level) error {
	if err := s.checkLevel(ctx, l); err != nil {
		return err
	}
	return notFound(s.repo().UpdateLevel(ctx, l), ErrLevelNotFound, "update level failed")
}

func (s *ContentService) DeleteLevel(ctx context.Context, id int64) error {
	return notFound(s.repo().DeleteLevel(ctx, id), ErrLevelNotFound, "delete level failed")
}

// Questions

func (s *ContentService) ListQuestions(ctx context.Context, levelID *int64, activeOnly bool) ([]entity.Question, error) {
	qs, err := s.repo().ListQuestions(ctx, levelID, activeOnly)
	return qs, internal(err, "list questions failed")
}

// QuizForLevel returns the active questions of an active level.
func (s *ContentService) QuizForLevel(ctx context.Context, levelID int64) ([]entity.Question, error) {
	l, err := s.GetLevel(ctx, levelID)
	if err != nil {
		return nil, err
	}
	if !l.IsActive {
		return nil, ErrLevelNotFound
	}
	return s.ListQuestions(ctx, &levelID, true)
}

func (s *ContentService) GetQuestion(ctx context.Context, id int64) (*entity.Question, error) {
	q, err := s.repo().GetQuestion(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrQuestionNotFound, "load question failed")
	}
	return q, nil
}

func (s *ContentService) checkQuestion(ctx context.Context, q *entity.Question) error {
	for field, v := range map[string]string{
		"question_text": q.Text, "option_a": q.OptionA, "option_b": q.OptionB, "option_c": q.OptionC, "option_d": q.OptionD,
	} {
		if err := required(field, v); err != nil {
			return err
		}
	}
	letter, err := rules.NormalizeAnswer(q.CorrectAnswer)
	if err != nil {
		return apperror.Validation("correct_answer must be one of A, B, C or D")
	}
	q.CorrectAnswer = letter
	if q.Points < 0 {
		return apperror.Validation("points must not be negative")
	}
	if q.Points == 0 {
		q.Points = entity.DefaultQuestionPoints
	}
	if _, err := s.repo().GetLevel(ctx, q.LevelID); err != nil {
		return notFound(err, ErrLevelNotFound, "load level failed")
	}
	return nil
}

func (s *ContentService) CreateQuestion(ctx context.Context, q *entity.Question) error {
	if err := s.checkQuestion(ctx, q); err != nil {
		return err
	}
	return internal(s.repo().CreateQuestion(ctx, q), "create question failed")
}

func (s *ContentService) UpdateQuestion(ctx context.Context, q *entity.Question) error {
	if err := s.checkQuestion(ctx, q); err != nil {
		return err
	}
	return notFound(s.repo().UpdateQuestion(ctx, q), ErrQuestionNotFound, "update question failed")
}

func (s *ContentService) DeleteQuestion(ctx context.Context, id int64) error {
	return notFound(s.repo().DeleteQuestion(ctx, id), ErrQuestionNotFound, "delete question failed")
}
