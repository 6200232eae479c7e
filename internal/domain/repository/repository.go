package repository

import (
	"context"
	"errors"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
)

// Repositories is the set of repositories bound to one connection or transaction.
type Repositories interface {
	Users() UserRepository
	Codes() VerificationCodeRepository
	Content() ContentRepository
}

// UnitOfWork runs fn inside a single transaction. The transaction commits when
// fn returns nil and rolls back otherwise.
type UnitOfWork interface {
	Repositories
	Do(ctx context.Context, fn func(ctx context.Context, tx Repositories) error) error
}
