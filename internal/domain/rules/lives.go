package rules

import (
	"time"

	"github.com/civica-app/civica-backend/internal/domain/entity"
)

const (
	MaxLives      = 3
	RegenInterval = 1800 * time.Second
)

type RefreshResult struct {
	LivesAdded        int `json:"lives_added"`
	CurrentLives      int `json:"current_lives"`
	NextLifeInSeconds int `json:"next_life_in_seconds"`
}

type LifeStatus struct {
	CurrentLives      int `json:"current_lives"`
	MaxLives          int `json:"max_lives"`
	NextLifeInSeconds int `json:"next_life_in_seconds"`
}

func elapsedSince(u *entity.User, now time.Time) time.Duration {
	d := now.Sub(u.LifeClock())
	if d < 0 {
		return 0
	}
	return d
}

func secondsToNextLife(lives int, elapsed time.Duration) int {
	if lives >= MaxLives {
		return 0
	}
	left := int(RegenInterval.Seconds()) - int(elapsed.Seconds())
	if left < 0 {
		return 0
	}
	return left
}

// RefreshLives credits one life per full interval elapsed since the life
// clock, never past MaxLives. The clock is reset to now only when lives were
// added. u is mutated in place.
func RefreshLives(u *entity.User, now time.Time) RefreshResult {
	elapsed := elapsedSince(u, now)
	if elapsed >= RegenInterval && u.Lives < MaxLives {
		added := min(int(elapsed/RegenInterval), MaxLives-u.Lives)
		u.Lives += added
		t := now
		u.LastLifeRefresh = &t
		u.UpdatedAt = now
		next := 0
		if u.Lives < MaxLives {
			next = int(RegenInterval.Seconds())
		}
		return RefreshResult{LivesAdded: added, CurrentLives: u.Lives, NextLifeInSeconds: next}
	}
	return RefreshResult{CurrentLives: u.Lives, NextLifeInSeconds: secondsToNextLife(u.Lives, elapsed)}
}

// ConsumeLife refreshes first, then spends one life. Leaving the cap starts
// the regeneration clock.
func ConsumeLife(u *entity.User, now time.Time) (int, error) {
	RefreshLives(u, now)
	if u.Lives <= 0 {
		return 0, ErrNoLivesAvailable
	}
	if u.Lives == MaxLives {
		t := now
		u.LastLifeRefresh = &t
	}
	u.Lives--
	u.UpdatedAt = now
	return u.Lives, nil
}

// Status is read only.
func Status(u *entity.User, now time.Time) LifeStatus {
	return LifeStatus{
		CurrentLives:      u.Lives,
		MaxLives:          MaxLives,
		NextLifeInSeconds: secondsToNextLife(u.Lives, elapsedSince(u, now)),
	}
}
