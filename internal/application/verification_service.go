package application

import (
	"context"
	"errors"
	"time"

	"github.com/civica-app/civica-backend/internal/domain/entity"
	"github.com/civica-app/civica-backend/internal/domain/repository"
	"github.com/civica-app/civica-backend/internal/domain/rules"
	"github.com/civica-app/civica-backend/pkg/apperror"
	"github.com/civica-app/civica-backend/pkg/helpers"
)

const DefaultCodeTTL = 10 * time.Minute

// VerificationService owns the one-live-code-per-email store.
type VerificationService struct {
	UoW     repository.UnitOfWork
	TTL     time.Duration
	Now     func() time.Time
	GenCode func() (string, error)
}

func NewVerificationService(uow repository.UnitOfWork, ttl time.Duration) *VerificationService {
	if ttl <= 0 {
		ttl = DefaultCodeTTL
	}
	return &VerificationService{UoW: uow, TTL: ttl, GenCode: helpers.GenOTPCode}
}

// IssueTx replaces any code held for email inside the caller's transaction.
func (s *VerificationService) IssueTx(ctx context.Context, tx repository.Repositories, email string, purpose entity.VerificationPurpose) (*entity.VerificationCode, error) {
	code, err := s.GenCode()
	if err != nil {
		return nil, apperror.Internal(err, "generate code failed")
	}
	now := nowFrom(s.Now)
	c := &entity.VerificationCode{
		Code:      code,
		Email:     email,
		Purpose:   purpose,
		CreatedAt: now,
		ExpiresAt: now.Add(s.TTL),
	}
	if err := tx.Codes().Upsert(ctx, c); err != nil {
		return nil, internal(err, "store code failed")
	}
	return c, nil
}

// Issue stores a fresh code in its own transaction.
func (s *VerificationService) Issue(ctx context.Context, email string, purpose entity.VerificationPurpose) (*entity.VerificationCode, error) {
	var c *entity.VerificationCode
	err := s.UoW.Do(ctx, func(ctx context.Context, tx repository.Repositories) error {
		var err error
		c, err = s.IssueTx(ctx, tx, email, purpose)
		return err
	})
	return c, err
}

// ConsumeTx locks the code row and decides the outcome. Expired rows are
// deleted, valid rows are consumed and mismatches leave the row untouched.
func (s *VerificationService) ConsumeTx(ctx context.Context, tx repository.Repositories, email, code string, purpose entity.VerificationPurpose) (rules.CodeOutcome, error) {
	stored, err := tx.Codes().GetByEmailForUpdate(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return 0, internal(err, "load code failed")
	}
	outcome := rules.MatchCode(stored, code, purpose, nowFrom(s.Now))
	switch outcome {
	case rules.CodeExpired, rules.CodeValid:
		if err := tx.Codes().DeleteByEmail(ctx, email); err != nil {
			return 0, internal(err, "delete code failed")
		}
	case rules.CodeNotFound, rules.CodeMismatch:
	}
	return outcome, nil
}

// Verify checks and consumes a code in its own transaction. The deletion of
// an expired code is committed before ErrCodeExpired is returned.
func (s *VerificationService) Verify(ctx context.Context, email, code string, purpose entity.VerificationPurpose) error {
	var outcome rules.CodeOutcome
	err := s.UoW.Do(ctx, func(ctx context.Context, tx repository.Repositories) error {
		var err error
		outcome, err = s.ConsumeTx(ctx, tx, email, code, purpose)
		return err
	})
	if err != nil {
		return err
	}
	return OutcomeError(outcome)
}

// OutcomeError maps a non-valid outcome to its error.
func OutcomeError(o rules.CodeOutcome) error {
	switch o {
	case rules.CodeValid:
		return nil
	case rules.CodeNotFound:
		return ErrCodeNotFound
	case rules.CodeExpired:
		return ErrCodeExpired
	case rules.CodeMismatch:
		return ErrCodeMismatch
	default:
		return ErrCodeMismatch
	}
}

// withCode runs fn inside the same transaction as a successful code
// consumption. When the code is not valid fn is skipped and the outcome error
// is returned after commit.
func (s *VerificationService) withCode(ctx context.Context, email, code string, purpose entity.VerificationPurpose,
	fn func(ctx context.Context, tx repository.Repositories) error) error {
	var outcome rules.CodeOutcome
	err := s.UoW.Do(ctx, func(ctx context.Context, tx repository.Repositories) error {
		var err error
		if outcome, err = s.ConsumeTx(ctx, tx, email, code, purpose); err != nil {
			return err
		}
		if outcome != rules.CodeValid {
			return nil
		}
		return fn(ctx, tx)
	})
	if err != nil {
		return err
	}
	return OutcomeError(outcome)
}
