package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/civica-app/civica-backend/internal/domain/entity"
	"github.com/civica-app/civica-backend/internal/domain/repository"
	"github.com/civica-app/civica-backend/internal/domain/rules"
	"github.com/civica-app/civica-backend/internal/infrastructure/search"
	"github.com/civica-app/civica-backend/pkg/apperror"
	"github.com/civica-app/civica-backend/pkg/helpers"
)

// UserService handles profile, statistics and administration of players.
type UserService struct {
	UoW      repository.UnitOfWork
	Sessions SessionStore
	Index    UserIndexer
	Logger   logrus.FieldLogger
	Now      func() time.Time
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.UoW.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound, "load user failed")
	}
	return u, nil
}

type UpdateProfileInput struct {
	Pseudo *string
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	var u *entity.User
	err := s.UoW.Do(ctx, func(ctx context.Context, tx repository.Repositories) error {
		var err error
		if u, err = tx.Users().GetByIDForUpdate(ctx, userID); err != nil {
			return notFound(err, ErrUserNotFound, "load user failed")
		}
		if in.Pseudo != nil {
			pseudo := strings.TrimSpace(*in.Pseudo)
			if pseudo == "" {
				return ErrPseudoRequired
			}
			taken, err := tx.Users().PseudoTakenByOther(ctx, pseudo, userID)
			if err != nil {
				return internal(err, "check pseudo failed")
			}
			if taken {
				return ErrPseudoTaken
			}
			u.Pseudo = pseudo
		}
		if err := tx.Users().Update(ctx, u); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrPseudoTaken
			}
			return notFound(err, ErrUserNotFound, "update user failed")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.reindex(ctx, u)
	return u, nil
}

// UpdateFCMToken registers the push token; an empty token clears it.
func (s *UserService) UpdateFCMToken(ctx context.Context, userID, token string) error {
	var t *string
	if token = strings.TrimSpace(token); token != "" {
		t = &token
	}
	return notFound(s.UoW.Users().UpdateFCMToken(ctx, userID, t), ErrUserNotFound, "update push token failed")
}

// ChangePassword replaces the hash of an authenticated user and revokes its sessions.
func (s *UserService) ChangePassword(ctx context.Context, userID, password, confirm string) error {
	if err := rules.ValidatePasswordChange(password, confirm); err != nil {
		return err
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return apperror.Internal(err, "hash password failed")
	}
	if err := s.UoW.Users().UpdatePassword(ctx, userID, hash); err != nil {
		return notFound(err, ErrUserNotFound, "update password failed")
	}
	if s.Sessions != nil {
		if err := s.Sessions.DeleteAll(ctx, userID); err != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("revoke sessions failed")
		}
	}
	return nil
}

type UserStats struct {
	Score             int       `json:"score"`
	Level             int       `json:"level"`
	PointsToNextLevel int       `json:"points_to_next_level"`
	Lives             int       `json:"lives"`
	MaxLives          int       `json:"max_lives"`
	NextLifeInSeconds int       `json:"next_life_in_seconds"`
	CreatedAt         time.Time `json:"created_at"`
}

func (s *UserService) Stats(ctx context.Context, userID string) (*UserStats, error) {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	st := rules.Status(u, nowFrom(s.Now))
	return &UserStats{
		Score:             u.Points,
		Level:             u.Level,
		PointsToNextLevel: u.Level*rules.PointsPerLevel - u.Points,
		Lives:             st.CurrentLives,
		MaxLives:          st.MaxLives,
		NextLifeInSeconds: st.NextLifeInSeconds,
		CreatedAt:         u.CreatedAt,
	}, nil
}

// UserPage carries the limit and offset actually applied.
type UserPage struct {
	Users  []entity.User
	Total  int
	Limit  int
	Offset int
}

func (s *UserService) List(ctx context.Context, f repository.UserFilter) (*UserPage, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	users, total, err := s.UoW.Users().List(ctx, f)
	if err != nil {
		return nil, internal(err, "list users failed")
	}
	return &UserPage{Users: users, Total: total, Limit: f.Limit, Offset: f.Offset}, nil
}

func (s *UserService) Search(ctx context.Context, q string, size int) ([]search.UserDoc, error) {
	if s.Index == nil {
		return []search.UserDoc{}, nil
	}
	docs, err := s.Index.Search(ctx, q, size)
	if err != nil {
		return nil, apperror.Internal(err, "search users failed")
	}
	return docs, nil
}

// SoftDelete marks the account deleted; the row keeps holding its email and pseudo.
func (s *UserService) SoftDelete(ctx context.Context, userID string) error {
	if err := s.UoW.Users().SoftDelete(ctx, userID); err != nil {
		return notFound(err, ErrUserNotFound, "soft delete failed")
	}
	if s.Sessions != nil {
		if err := s.Sessions.DeleteAll(ctx, userID); err != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("revoke sessions failed")
		}
	}
	if u, err := s.UoW.Users().GetByID(ctx, userID); err == nil {
		s.reindex(ctx, u)
	}
	return nil
}

type DashboardStats struct {
	ActiveUsers int `json:"active_users"`
	Themes      int `json:"themes"`
	Levels      int `json:"levels"`
	Questions   int `json:"questions"`
}

func (s *UserService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	active, err := s.UoW.Users().CountActive(ctx)
	if err != nil {
		return nil, internal(err, "count users failed")
	}
	c, err := s.UoW.Content().Counts(ctx)
	if err != nil {
		return nil, internal(err, "count content failed")
	}
	return &DashboardStats{ActiveUsers: active, Themes: c.Themes, Levels: c.Levels, Questions: c.Questions}, nil
}

func (s *UserService) reindex(ctx context.Context, u *entity.User) {
	if s.Index == nil || u == nil {
		return
	}
	if err := s.Index.Index(ctx, u); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
	}
}
