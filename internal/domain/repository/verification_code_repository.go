package repository

import (
	"context"

	"github.com/civica-app/civica-backend/internal/domain/entity"
)

type VerificationCodeRepository interface {
	// Upsert replaces any code held for c.Email.
	Upsert(ctx context.Context, c *entity.VerificationCode) error
	GetByEmailForUpdate(ctx context.Context, email string) (*entity.VerificationCode, error)
	DeleteByEmail(ctx context.Context, email string) error
}
