package application

import (
	"context"
	"time"

	"github.com/civica-app/civica-backend/internal/domain/entity"
	"github.com/civica-app/civica-backend/internal/domain/repository"
	"github.com/civica-app/civica-backend/internal/domain/rules"
)

// GameplayService applies the lives, scoring and answer rules to one locked
// user row per transaction.
type GameplayService struct {
	UoW repository.UnitOfWork
	Now func() time.Time
}

type LifeUse struct {
	RemainingLives  int        `json:"remaining_lives"`
	LastLifeRefresh *time.Time `json:"last_life_refresh"`
}

type LifeRefresh struct {
	rules.RefreshResult
	LastLifeRefresh *time.Time `json:"last_life_refresh"`
}

type LifeStatus struct {
	rules.LifeStatus
	LastLifeRefresh *time.Time `json:"last_life_refresh"`
}

type AnswerOutcome struct {
	rules.AnswerResult
	Score int `json:"new_score"`
	Level int `json:"new_level"`
}

// mutate locks the user row, applies fn and persists the row.
func (s *GameplayService) mutate(ctx context.Context, userID string, fn func(u *entity.User, now time.Time) error) (*entity.User, error) {
	var u *entity.User
	err := s.UoW.Do(ctx, func(ctx context.Context, tx repository.Repositories) error {
		var err error
		if u, err = tx.Users().GetByIDForUpdate(ctx, userID); err != nil {
			return notFound(err, ErrUserNotFound, "load user failed")
		}
		if err := fn(u, nowFrom(s.Now)); err != nil {
			return err
		}
		return notFound(tx.Users().Update(ctx, u), ErrUserNotFound, "update user failed")
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UseLife regenerates what is due, then spends one life.
func (s *GameplayService) UseLife(ctx context.Context, userID string) (*LifeUse, error) {
	var remaining int
	u, err := s.mutate(ctx, userID, func(u *entity.User, now time.Time) error {
		var err error
		remaining, err = rules.ConsumeLife(u, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &LifeUse{RemainingLives: remaining, LastLifeRefresh: u.LastLifeRefresh}, nil
}

func (s *GameplayService) RefreshLives(ctx context.Context, userID string) (*LifeRefresh, error) {
	var res rules.RefreshResult
	u, err := s.mutate(ctx, userID, func(u *entity.User, now time.Time) error {
		res = rules.RefreshLives(u, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &LifeRefresh{RefreshResult: res, LastLifeRefresh: u.LastLifeRefresh}, nil
}

// LifeStatus is read only and takes no lock.
func (s *GameplayService) LifeStatus(ctx context.Context, userID string) (*LifeStatus, error) {
	u, err := s.UoW.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound, "load user failed")
	}
	return &LifeStatus{LifeStatus: rules.Status(u, nowFrom(s.Now)), LastLifeRefresh: u.LastLifeRefresh}, nil
}

func (s *GameplayService) AwardScore(ctx context.Context, userID string, earned int) (*rules.Progress, error) {
	if earned < 0 {
		return nil, rules.ErrNegativeScore
	}
	var p rules.Progress
	_, err := s.mutate(ctx, userID, func(u *entity.User, _ time.Time) error {
		var err error
		p, err = rules.Award(u, earned)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CheckAnswer is stateless.
func (s *GameplayService) CheckAnswer(ctx context.Context, questionID int64, answer string) (*rules.AnswerResult, error) {
	if _, err := rules.NormalizeAnswer(answer); err != nil {
		return nil, err
	}
	q, err := s.UoW.Content().GetQuestion(ctx, questionID)
	if err != nil {
		return nil, notFound(err, ErrQuestionNotFound, "load question failed")
	}
	if !q.IsActive {
		return nil, ErrQuestionNotFound
	}
	res, err := rules.CheckAnswer(q, answer)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// SubmitAnswer checks the answer and credits the points in one transaction.
func (s *GameplayService) SubmitAnswer(ctx context.Context, userID string, questionID int64, answer string) (*AnswerOutcome, error) {
	if _, err := rules.NormalizeAnswer(answer); err != nil {
		return nil, err
	}
	var out AnswerOutcome
	err := s.UoW.Do(ctx, func(ctx context.Context, tx repository.Repositories) error {
		q, err := tx.Content().GetQuestion(ctx, questionID)
		if err != nil {
			return notFound(err, ErrQuestionNotFound, "load question failed")
		}
		if !q.IsActive {
			return ErrQuestionNotFound
		}
		if out.AnswerResult, err = rules.CheckAnswer(q, answer); err != nil {
			return err
		}
		u, err := tx.Users().GetByIDForUpdate(ctx, userID)
		if err != nil {
			return notFound(err, ErrUserNotFound, "load user failed")
		}
		p, err := rules.Award(u, out.PointsEarned)
		if err != nil {
			return err
		}
		out.Score, out.Level = p.Score, p.Level
		if out.PointsEarned == 0 {
			return nil
		}
		return notFound(tx.Users().Update(ctx, u), ErrUserNotFound, "update user failed")
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
