package rules

import "github.com/civica-app/civica-backend/internal/domain/entity"

const PointsPerLevel = 100

type Progress struct {
	Score int `json:"new_score"`
	Level int `json:"new_level"`
}

func LevelFor(points int) int {
	return points/PointsPerLevel + 1
}

// Award adds earned points and recomputes the level.
func Award(u *entity.User, earned int) (Progress, error) {
	if earned < 0 {
		return Progress{}, ErrNegativeScore
	}
	u.Points += earned
	u.Level = LevelFor(u.Points)
	return Progress{Score: u.Points, Level: u.Level}, nil
}
