package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civica-app/civica-backend/internal/domain/entity"
	"github.com/civica-app/civica-backend/pkg/apperror"
)

func newCodes(db *memDB, clk *clock, codes ...string) *VerificationService {
	s := NewVerificationService(db, 0)
	s.Now = clk.Now
	i := 0
	s.GenCode = func() (string, error) {
		c := codes[i%len(codes)]
		i++
		return c, nil
	}
	return s
}

func TestIssueReplacesPriorCode(t *testing.T) {
	ctx := context.Background()
	db, clk := newMemDB(), &clock{t: epoch}
	s := newCodes(db, clk, "123456", "654321")

	_, err := s.Issue(ctx, "a@example.com", entity.PurposeEmailVerification)
	require.NoError(t, err)
	clk.Advance(time.Minute)
	c, err := s.Issue(ctx, "a@example.com", entity.PurposePasswordReset)
	require.NoError(t, err)

	require.Len(t, db.codes, 1)
	stored := db.codes["a@example.com"]
	assert.Equal(t, "654321", stored.Code)
	assert.Equal(t, entity.PurposePasswordReset, stored.Purpose)
	assert.Equal(t, epoch.Add(time.Minute+DefaultCodeTTL), c.ExpiresAt)

	require.ErrorIs(t, s.Verify(ctx, "a@example.com", "123456", entity.PurposeEmailVerification), ErrCodeMismatch)
}

func TestVerifyOutcomes(t *testing.T) {
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		db, clk := newMemDB(), &clock{t: epoch}
		err := newCodes(db, clk, "123456").Verify(ctx, "a@example.com", "123456", entity.PurposeEmailVerification)
		require.ErrorIs(t, err, ErrCodeNotFound)
	})

	t.Run("valid consumes", func(t *testing.T) {
		db, clk := newMemDB(), &clock{t: epoch}
		s := newCodes(db, clk, "123456")
		_, err := s.Issue(ctx, "a@example.com", entity.PurposeAccountDeletion)
		require.NoError(t, err)
		require.NoError(t, s.Verify(ctx, "a@example.com", "123456", entity.PurposeAccountDeletion))
		assert.Empty(t, db.codes)
	})

	t.Run("expired is deleted and committed", func(t *testing.T) {
		db, clk := newMemDB(), &clock{t: epoch}
		s := newCodes(db, clk, "123456")
		_, err := s.Issue(ctx, "a@example.com", entity.PurposeEmailVerification)
		require.NoError(t, err)
		clk.Advance(DefaultCodeTTL + time.Nanosecond)

		err = s.Verify(ctx, "a@example.com", "123456", entity.PurposeEmailVerification)
		require.ErrorIs(t, err, ErrCodeExpired)
		assert.True(t, apperror.IsCode(err, apperror.CodeExpired))
		assert.Empty(t, db.codes)
		assert.Zero(t, db.rollbacks)

		err = s.Verify(ctx, "a@example.com", "123456", entity.PurposeEmailVerification)
		require.ErrorIs(t, err, ErrCodeNotFound)
	})

	t.Run("mismatch keeps row", func(t *testing.T) {
		db, clk := newMemDB(), &clock{t: epoch}
		s := newCodes(db, clk, "123456")
		_, err := s.Issue(ctx, "a@example.com", entity.PurposeEmailVerification)
		require.NoError(t, err)

		require.ErrorIs(t, s.Verify(ctx, "a@example.com", "000000", entity.PurposeEmailVerification), ErrCodeMismatch)
		require.ErrorIs(t, s.Verify(ctx, "a@example.com", "123456", entity.PurposePasswordReset), ErrCodeMismatch)
		assert.Contains(t, db.codes, "a@example.com")
	})
}
