package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/civica-app/civica-backend/internal/domain/entity"
	"github.com/civica-app/civica-backend/internal/domain/repository"
)

const userColumns = `id, email, password_hash, pseudo, verified, status, role, is_deleted,
	fcm_token, points, level, lives, last_life_refresh, created_at, updated_at`

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row scanner) (*entity.User, error) {
	u := &entity.User{}
	var verified, status, role string
	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.Pseudo, &verified, &status, &role, &u.IsDeleted,
		&u.FCMToken, &u.Points, &u.Level, &u.Lives, &u.LastLifeRefresh, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	var err error
	if u.Verified, err = entity.ParseVerifiedFlag(verified); err != nil {
		return nil, err
	}
	if u.Status, err = entity.ParseAccountStatus(status); err != nil {
		return nil, err
	}
	if u.Role, err = entity.ParseRole(role); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, pseudo, verified, status, role, points, level, lives, last_life_refresh)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, u.Email, u.Password, u.Pseudo, string(u.Verified), string(u.Status), string(u.Role),
		u.Points, u.Level, u.Lives, u.LastLifeRefresh)

	return mapErr(row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
}

func (r *UserRepository) Taken(ctx context.Context, email, pseudo string) (bool, bool, error) {
	var emailTaken, pseudoTaken bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($1)),
		       EXISTS (SELECT 1 FROM users WHERE lower(pseudo) = lower($2))
	`, email, pseudo).Scan(&emailTaken, &pseudoTaken)
	if err != nil {
		return false, false, mapErr(err)
	}
	return emailTaken, pseudoTaken, nil
}

func (r *UserRepository) PseudoTakenByOther(ctx context.Context, pseudo, userID string) (bool, error) {
	var taken bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE lower(pseudo) = lower($1) AND id <> $2)
	`, pseudo, userID).Scan(&taken)
	return taken, mapErr(err)
}

// Update writes the mutable player columns.
func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now().UTC()
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET pseudo = $1, points = $2, level = $3, lives = $4, last_life_refresh = $5, updated_at = $6
		WHERE id = $7
	`, u.Pseudo, u.Points, u.Level, u.Lives, u.LastLifeRefresh, u.UpdatedAt, u.ID)
	return affected(tag, err)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`, hash, id)
	return affected(tag, err)
}

func (r *UserRepository) UpdateFCMToken(ctx context.Context, id string, token *string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET fcm_token = $1, updated_at = now() WHERE id = $2`, token, id)
	return affected(tag, err)
}

func (r *UserRepository) Activate(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.db.QueryRow(ctx, `
		UPDATE users SET verified = 'YES', status = 'ACTIVE', updated_at = now()
		WHERE lower(email) = lower($1) AND is_deleted = false
		RETURNING `+userColumns, email))
}

func (r *UserRepository) SoftDelete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET is_deleted = true, updated_at = now()
		WHERE id = $1 AND is_deleted = false
	`, id)
	return affected(tag, err)
}

func (r *UserRepository) DeleteByEmail(ctx context.Context, email string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE lower(email) = lower($1)`, email)
	return affected(tag, err)
}

func (r *UserRepository) List(ctx context.Context, f repository.UserFilter) ([]entity.User, int, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	pattern := "%" + f.Email + "%"

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM users WHERE email ILIKE $1`, pattern).Scan(&total); err != nil {
		return nil, 0, mapErr(err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE email ILIKE $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, pattern, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	defer rows.Close()

	users := make([]entity.User, 0, f.Limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

func (r *UserRepository) CountActive(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM users WHERE status = 'ACTIVE' AND is_deleted = false`).Scan(&n)
	return n, mapErr(err)
}

var _ repository.UserRepository = (*UserRepository)(nil)
