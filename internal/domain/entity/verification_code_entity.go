package entity

import (
	"fmt"
	"time"
)

// VerificationPurpose scopes a code to the flow that issued it.
type VerificationPurpose string

const (
	PurposeEmailVerification VerificationPurpose = "email_verification"
	PurposePasswordReset     VerificationPurpose = "password_reset"
	PurposeAccountDeletion   VerificationPurpose = "account_deletion"
)

func ParseVerificationPurpose(s string) (VerificationPurpose, error) {
	switch v := VerificationPurpose(s); v {
	case PurposeEmailVerification, PurposePasswordReset, PurposeAccountDeletion:
		return v, nil
	default:
		return "", fmt.Errorf("unknown verification purpose %q", s)
	}
}

// VerificationCode is the single live code held for an e-mail address.
type VerificationCode struct {
	ID        int64
	Code      string
	Email     string
	Purpose   VerificationPurpose
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (c *VerificationCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
