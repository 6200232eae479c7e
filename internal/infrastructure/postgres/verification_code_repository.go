package postgres

import (
	"context"

	"github.com/civica-app/civica-backend/internal/domain/entity"
	"github.com/civica-app/civica-backend/internal/domain/repository"
)

type VerificationCodeRepository struct {
	db DBTX
}

func NewVerificationCodeRepository(db DBTX) *VerificationCodeRepository {
	return &VerificationCodeRepository{db: db}
}

func (r *VerificationCodeRepository) Upsert(ctx context.Context, c *entity.VerificationCode) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO verification_codes (code, email, purpose, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO UPDATE
		SET code = EXCLUDED.code, purpose = EXCLUDED.purpose,
		    created_at = EXCLUDED.created_at, expires_at = EXCLUDED.expires_at
		RETURNING id
	`, c.Code, c.Email, string(c.Purpose), c.CreatedAt, c.ExpiresAt)
	return mapErr(row.Scan(&c.ID))
}

func (r *VerificationCodeRepository) GetByEmailForUpdate(ctx context.Context, email string) (*entity.VerificationCode, error) {
	c := &entity.VerificationCode{}
	var purpose string
	err := r.db.QueryRow(ctx, `
		SELECT id, code, email, purpose, created_at, expires_at
		FROM verification_codes
		WHERE email = $1
		FOR UPDATE
	`, email).Scan(&c.ID, &c.Code, &c.Email, &purpose, &c.CreatedAt, &c.ExpiresAt)
	if err != nil {
		return nil, mapErr(err)
	}
	if c.Purpose, err = entity.ParseVerificationPurpose(purpose); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *VerificationCodeRepository) DeleteByEmail(ctx context.Context, email string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM verification_codes WHERE email = $1`, email)
	return affected(tag, err)
}

var _ repository.VerificationCodeRepository = (*VerificationCodeRepository)(nil)
