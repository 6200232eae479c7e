package entity

import (
	"fmt"
	"strings"
	"time"
)

// VerifiedFlag records whether the account e-mail has been confirmed.
type VerifiedFlag string

const (
	VerifiedNo  VerifiedFlag = "NO"
	VerifiedYes VerifiedFlag = "YES"
)

func ParseVerifiedFlag(s string) (VerifiedFlag, error) {
	switch v := VerifiedFlag(strings.ToUpper(strings.TrimSpace(s))); v {
	case VerifiedNo, VerifiedYes:
		return v, nil
	default:
		return "", fmt.Errorf("unknown verified flag %q", s)
	}
}

type AccountStatus string

const (
	StatusActive   AccountStatus = "ACTIVE"
	StatusInactive AccountStatus = "INACTIVE"
)

func ParseAccountStatus(s string) (AccountStatus, error) {
	switch v := AccountStatus(strings.ToUpper(strings.TrimSpace(s))); v {
	case StatusActive, StatusInactive:
		return v, nil
	default:
		return "", fmt.Errorf("unknown account status %q", s)
	}
}

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

func ParseRole(s string) (Role, error) {
	switch v := Role(strings.ToUpper(strings.TrimSpace(s))); v {
	case RoleUser, RoleAdmin:
		return v, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// User is the aggregate root for the player domain.
// Password holds a bcrypt hash, never the plain text.
type User struct {
	ID              string
	Email           string
	Password        string
	Pseudo          string
	Verified        VerifiedFlag
	Status          AccountStatus
	Role            Role
	IsDeleted       bool
	FCMToken        *string
	Points          int
	Level           int
	Lives           int
	LastLifeRefresh *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// LifeClock is the instant the regeneration interval is measured from.
func (u *User) LifeClock() time.Time {
	if u.LastLifeRefresh != nil {
		return *u.LastLifeRefresh
	}
	return u.CreatedAt
}
