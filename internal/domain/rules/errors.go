// Package rules holds the pure game and account rules. Nothing here touches
// storage; callers load a row, apply a rule and persist the result.
package rules

import "github.com/civica-app/civica-backend/pkg/apperror"

var (
	ErrNoLivesAvailable = apperror.New(apperror.CodeInsufficientResource, "no lives available")
	ErrNegativeScore    = apperror.Validation("earned points must not be negative")
	ErrInvalidAnswer    = apperror.Validation("answer must be one of A, B, C or D")
	ErrPasswordMismatch = apperror.Validation("password and confirmation do not match")
	ErrPasswordLength   = apperror.Validation("password must be between 8 and 20 characters")
	ErrPasswordPolicy   = apperror.Validation("password must contain a lowercase letter, an uppercase letter, a digit and one of @$!%*?& and nothing else")
)
