package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/civica-app/civica-backend/internal/domain/entity"
	"github.com/civica-app/civica-backend/internal/domain/repository"
)

const (
	themeColumns    = `id, title, description, icon, color, is_active, order_index, created_at, updated_at`
	levelColumns    = `id, theme_id, title, description, difficulty, order_index, is_active, min_score_to_unlock, created_at, updated_at`
	questionColumns = `id, level_id, question_text, option_a, option_b, option_c, option_d, correct_answer,
		explanation, points, order_index, is_active, created_at, updated_at`
)

type ContentRepository struct {
	db DBTX
}

func NewContentRepository(db DBTX) *ContentRepository {
	return &ContentRepository{db: db}
}

func scanTheme(row scanner) (*entity.Theme, error) {
	t := &entity.Theme{}
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Icon, &t.Color, &t.IsActive, &t.OrderIndex,
		&t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return t, nil
}

func scanLevel(row scanner) (*entity.Level, error) {
	l := &entity.Level{}
	var difficulty string
	if err := row.Scan(&l.ID, &l.ThemeID, &l.Title, &l.Description, &difficulty, &l.OrderIndex, &l.IsActive,
		&l.MinScoreToUnlock, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	var err error
	if l.Difficulty, err = entity.ParseDifficulty(difficulty); err != nil {
		return nil, err
	}
	return l, nil
}

func scanQuestion(row scanner) (*entity.Question, error) {
	q := &entity.Question{}
	if err := row.Scan(&q.ID, &q.LevelID, &q.Text, &q.OptionA, &q.OptionB, &q.OptionC, &q.OptionD,
		&q.CorrectAnswer, &q.Explanation, &q.Points, &q.OrderIndex, &q.IsActive, &q.CreatedAt, &q.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return q, nil
}

func collect[T any](rows pgx.Rows, scan func(scanner) (*T, error)) ([]T, error) {
	defer rows.Close()
	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, mapErr(rows.Err())
}

// Themes

func (r *ContentRepository) ListThemes(ctx context.Context, activeOnly bool) ([]entity.Theme, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+themeColumns+` FROM themes
		WHERE ($1 = false OR is_active)
		ORDER BY order_index, id
	`, activeOnly)
	if err != nil {
		return nil, mapErr(err)
	}
	return collect(rows, scanTheme)
}

func (r *ContentRepository) GetTheme(ctx context.Context, id int64) (*entity.Theme, error) {
	return scanTheme(r.db.QueryRow(ctx, `SELECT `+themeColumns+` FROM themes WHERE id = $1`, id))
}

func (r *ContentRepository) CreateTheme(ctx context.Context, t *entity.Theme) error {
	return mapErr(r.db.QueryRow(ctx, `
		INSERT INTO themes (title, description, icon, color, is_active, order_index)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, t.Title, t.Description, t.Icon, t.Color, t.IsActive, t.OrderIndex).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt))
}

func (r *ContentRepository) UpdateTheme(ctx context.Context, t *entity.Theme) error {
	t.UpdatedAt = time.Now().UTC()
	tag, err := r.db.Exec(ctx, `
		UPDATE themes SET title = $1, description = $2, icon = $3, color = $4, is_active = $5, order_index = $6, updated_at = $7
		WHERE id = $8
	`, t.Title, t.Description, t.Icon, t.Color, t.IsActive, t.OrderIndex, t.UpdatedAt, t.ID)
	return affected(tag, err)
}

// DeleteTheme relies on ON DELETE CASCADE for levels and questions.
func (r *ContentRepository) DeleteTheme(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM themes WHERE id = $1`, id)
	return affected(tag, err)
}

// Levels

func (r *ContentRepository) ListLevels(ctx context.Context, themeID *int64, activeOnly bool) ([]entity.Level, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+levelColumns+` FROM levels
		WHERE ($1::bigint IS NULL OR theme_id = $1) AND ($2 = false OR is_active)
		ORDER BY theme_id, order_index, id
	`, themeID, activeOnly)
	if err != nil {
		return nil, mapErr(err)
	}
	return collect(rows, scanLevel)
}

func (r *ContentRepository) GetLevel(ctx context.Context, id int64) (*entity.Level, error) {
	return scanLevel(r.db.QueryRow(ctx, `SELECT `+levelColumns+` FROM levels WHERE id = $1`, id))
}

func (r *ContentRepository) CreateLevel(ctx context.Context, l *entity.Level) error {
	return mapErr(r.db.QueryRow(ctx, `
		INSERT INTO levels (theme_id, title, description, difficulty, order_index, is_active, min_score_to_unlock)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, l.ThemeID, l.Title, l.Description, string(l.Difficulty), l.OrderIndex, l.IsActive, l.MinScoreToUnlock).
		Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt))
}

func (r *ContentRepository) UpdateLevel(ctx context.Context, l *entity.Level) error {
	l.UpdatedAt = time.Now().UTC()
	tag, err := r.db.Exec(ctx, `
		UPDATE levels SET theme_id = $1, title = $2, description = $3, difficulty = $4, order_index = $5,
		       is_active = $6, min_score_to_unlock = $7, updated_at = $8
		WHERE id = $9
	`, l.ThemeID, l.Title, l.Description, string(l.Difficulty), l.OrderIndex, l.IsActive, l.MinScoreToUnlock, l.UpdatedAt, l.ID)
	return affected(tag, err)
}

func (r *ContentRepository) DeleteLevel(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM levels WHERE id = $1`, id)
	return affected(tag, err)
}

// Questions

func (r *ContentRepository) ListQuestions(ctx context.Context, levelID *int64, activeOnly bool) ([]entity.Question, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+questionColumns+` FROM questions
		WHERE ($1::bigint IS NULL OR level_id = $1) AND ($2 = false OR is_active)
		ORDER BY level_id, order_index, id
	`, levelID, activeOnly)
	if err != nil {
		return nil, mapErr(err)
	}
	return collect(rows, scanQuestion)
}

func (r *ContentRepository) GetQuestion(ctx context.Context, id int64) (*entity.Question, error) {
	return scanQuestion(r.db.QueryRow(ctx, `SELECT `+questionColumns+` FROM questions WHERE id = $1`, id))
}

func (r *ContentRepository) CreateQuestion(ctx context.Context, q *entity.Question) error {
	return mapErr(r.db.QueryRow(ctx, `
		INSERT INTO questions (level_id, question_text, option_a, option_b, option_c, option_d, correct_answer,
		                       explanation, points, order_index, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`, q.LevelID, q.Text, q.OptionA, q.OptionB, q.OptionC, q.OptionD, q.CorrectAnswer,
		q.Explanation, q.Points, q.OrderIndex, q.IsActive).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt))
}

func (r *ContentRepository) UpdateQuestion(ctx context.Context, q *entity.Question) error {
	q.UpdatedAt = time.Now().UTC()
	tag, err := r.db.Exec(ctx, `
		UPDATE questions SET level_id = $1, question_text = $2, option_a = $3, option_b = $4, option_c = $5,
		       option_d = $6, correct_answer = $7, explanation = $8, points = $9, order_index = $10,
		       is_active = $11, updated_at = $12
		WHERE id = $13
	`, q.LevelID, q.Text, q.OptionA, q.OptionB, q.OptionC, q.OptionD, q.CorrectAnswer, q.Explanation,
		q.Points, q.OrderIndex, q.IsActive, q.UpdatedAt, q.ID)
	return affected(tag, err)
}

func (r *ContentRepository) DeleteQuestion(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	return affected(tag, err)
}

func (r *ContentRepository) Counts(ctx context.Context) (repository.ContentCounts, error) {
	var c repository.ContentCounts
	err := r.db.QueryRow(ctx, `
		SELECT (SELECT count(*) FROM themes),
		       (SELECT count(*) FROM levels),
		       (SELECT count(*) FROM questions)
	`).Scan(&c.Themes, &c.Levels, &c.Questions)
	return c, mapErr(err)
}

var _ repository.ContentRepository = (*ContentRepository)(nil)
