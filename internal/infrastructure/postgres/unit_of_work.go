package postgres

import (
	"context"

	"github.com/civica-app/civica-backend/internal/domain/repository"
)

type repos struct {
	users   *UserRepository
	codes   *VerificationCodeRepository
	content *ContentRepository
}

func newRepos(db DBTX) *repos {
	return &repos{
		users:   NewUserRepository(db),
		codes:   NewVerificationCodeRepository(db),
		content: NewContentRepository(db),
	}
}

func (r *repos) Users() repository.UserRepository             { return r.users }
func (r *repos) Codes() repository.VerificationCodeRepository { return r.codes }
func (r *repos) Content() repository.ContentRepository        { return r.content }

// UnitOfWork hands out pool-bound repositories and runs transactional work.
type UnitOfWork struct {
	*repos
	db Beginner
}

func NewUnitOfWork(db Beginner) *UnitOfWork {
	return &UnitOfWork{repos: newRepos(db), db: db}
}

// Do begins a transaction, runs fn with transaction-bound repositories, then
// commits on success or rolls back on error or panic. Panics are rethrown.
func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, tx repository.Repositories) error) (err error) {
	tx, err := u.db.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		err = tx.Commit(ctx)
	}()

	err = fn(ctx, newRepos(tx))
	return err
}

var _ repository.UnitOfWork = (*UnitOfWork)(nil)
