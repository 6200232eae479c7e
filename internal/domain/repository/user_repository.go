package repository

import (
	"context"

	"github.com/civica-app/civica-backend/internal/domain/entity"
)

type UserFilter struct {
	Email  string
	Limit  int
	Offset int
}

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// Taken reports which of email and pseudo are already held, deleted rows included.
	Taken(ctx context.Context, email, pseudo string) (emailTaken, pseudoTaken bool, err error)
	PseudoTakenByOther(ctx context.Context, pseudo, userID string) (bool, error)
	Update(ctx context.Context, u *entity.User) error
	UpdatePassword(ctx context.Context, id, hash string) error
	UpdateFCMToken(ctx context.Context, id string, token *string) error
	Activate(ctx context.Context, email string) (*entity.User, error)
	SoftDelete(ctx context.Context, id string) error
	DeleteByEmail(ctx context.Context, email string) error
	List(ctx context.Context, f UserFilter) ([]entity.User, int, error)
	CountActive(ctx context.Context) (int, error)
}
