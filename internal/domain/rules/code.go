package rules

import (
	"time"

	"github.com/civica-app/civica-backend/internal/domain/entity"
)

// CodeOutcome is the result of matching a submitted code against the stored one.
type CodeOutcome int

const (
	CodeValid CodeOutcome = iota
	CodeNotFound
	CodeExpired
	CodeMismatch
)

func (o CodeOutcome) String() string {
	switch o {
	case CodeValid:
		return "valid"
	case CodeNotFound:
		return "not_found"
	case CodeExpired:
		return "expired"
	case CodeMismatch:
		return "mismatch"
	default:
		return "unknown"
	}
}

// MatchCode decides the outcome. Expiry is checked before the code so an
// expired row is always discarded.
func MatchCode(stored *entity.VerificationCode, code string, purpose entity.VerificationPurpose, now time.Time) CodeOutcome {
	if stored == nil {
		return CodeNotFound
	}
	if stored.Expired(now) {
		return CodeExpired
	}
	if stored.Code != code || stored.Purpose != purpose {
		return CodeMismatch
	}
	return CodeValid
}
