package application

import (
	"errors"

	"github.com/civica-app/civica-backend/internal/domain/repository"
	"github.com/civica-app/civica-backend/internal/domain/rules"
	"github.com/civica-app/civica-backend/pkg/apperror"
)

var (
	ErrInvalidCredentials = apperror.New(apperror.CodeUnauthorized, "invalid credentials")
	ErrSessionRevoked     = apperror.New(apperror.CodeUnauthorized, "session expired or revoked")
	ErrAccountInactive    = apperror.New(apperror.CodeForbidden, "account is not active")
	ErrAccountDeleted     = apperror.New(apperror.CodeForbidden, "account has been deleted")
	ErrAdminOnly          = apperror.New(apperror.CodeForbidden, "admin role required")

	ErrUserNotFound     = apperror.NotFound("user not found")
	ErrThemeNotFound    = apperror.NotFound("theme not found")
	ErrLevelNotFound    = apperror.NotFound("level not found")
	ErrQuestionNotFound = apperror.NotFound("question not found")

	ErrEmailTaken      = apperror.Conflict("email already registered")
	ErrPseudoTaken     = apperror.Conflict("pseudo already taken")
	ErrAlreadyVerified = apperror.Conflict("account already verified")

	ErrCodeNotFound = apperror.NotFound("no verification code for this email")
	ErrCodeExpired  = apperror.New(apperror.CodeExpired, "verification code expired")
	ErrCodeMismatch = apperror.Validation("verification code does not match")

	ErrMalformedField      = apperror.Validation("malformed sealed field")
	ErrInvalidEmail        = apperror.Validation("email must be a valid address")
	ErrPseudoRequired      = apperror.Validation("pseudo must not be empty")
	ErrBackImageRequired   = apperror.Validation("back image is required for this document type")
	ErrUnsupportedDocument = apperror.Validation("document type must be cni, passport or permit")
	ErrInvalidDifficulty   = apperror.Validation("difficulty must be easy, medium or hard")

	ErrNoLivesAvailable = rules.ErrNoLivesAvailable
)

// notFound maps repository.ErrNotFound to the given sentinel and wraps any
// other failure as internal.
func notFound(err error, sentinel *apperror.Error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return sentinel
	}
	return internal(err, op)
}

// internal keeps typed errors as they are and wraps anything else.
func internal(err error, op string) error {
	if err == nil {
		return nil
	}
	var ae *apperror.Error
	if errors.As(err, &ae) {
		return err
	}
	return apperror.Internal(err, op)
}
