package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/civica-app/civica-backend/config"
	"github.com/civica-app/civica-backend/internal/domain/entity"
	"github.com/civica-app/civica-backend/internal/domain/repository"
	"github.com/civica-app/civica-backend/internal/domain/rules"
	pginfra "github.com/civica-app/civica-backend/internal/infrastructure/postgres"
	"github.com/civica-app/civica-backend/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := pginfra.NewPool(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	uow := pginfra.NewUnitOfWork(pool)
	if err := seedAdmin(ctx, uow, cfg, logger); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	if err := seedContent(ctx, uow, logger); err != nil {
		log.Fatalf("failed to seed content: %v", err)
	}
}

// seedAdmin creates the administrator account once; an existing email is left untouched.
func seedAdmin(ctx context.Context, uow repository.UnitOfWork, cfg *config.Config, logger logrus.FieldLogger) error {
	hash, err := helpers.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	return uow.Do(ctx, func(ctx context.Context, tx repository.Repositories) error {
		_, err := tx.Users().GetByEmail(ctx, cfg.AdminEmail)
		if err == nil {
			logger.WithField("email", cfg.AdminEmail).Info("admin already present")
			return nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		admin := &entity.User{
			Email:    cfg.AdminEmail,
			Password: hash,
			Pseudo:   cfg.AdminPseudo,
			Verified: entity.VerifiedYes,
			Status:   entity.StatusActive,
			Role:     entity.RoleAdmin,
			Level:    rules.LevelFor(0),
			Lives:    rules.MaxLives,
		}
		if err := tx.Users().Create(ctx, admin); err != nil {
			return err
		}
		logger.WithFields(logrus.Fields{"id": admin.ID, "email": admin.Email}).Info("admin seeded")
		return nil
	})
}

// seedContent loads the constitution quiz unless any theme already exists.
func seedContent(ctx context.Context, uow repository.UnitOfWork, logger logrus.FieldLogger) error {
	return uow.Do(ctx, func(ctx context.Context, tx repository.Repositories) error {
		existing, err := tx.Content().ListThemes(ctx, false)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			logger.Info("content already present, seeding skipped")
			return nil
		}
		for ti, ts := range constitution {
			theme := &entity.Theme{
				Title:       ts.Title,
				Description: &ts.Description,
				Icon:        &ts.Icon,
				Color:       &ts.Color,
				IsActive:    true,
				OrderIndex:  ti,
			}
			if err := tx.Content().CreateTheme(ctx, theme); err != nil {
				return err
			}
			questions := 0
			for li, ls := range ts.Levels {
				level := &entity.Level{
					ThemeID:     theme.ID,
					Title:       ls.Title,
					Description: &ls.Description,
					Difficulty:  ls.Difficulty,
					OrderIndex:  li,
					IsActive:    true,
				}
				if err := tx.Content().CreateLevel(ctx, level); err != nil {
					return err
				}
				for qi, qs := range ls.Questions {
					q := &entity.Question{
						LevelID:       level.ID,
						Text:          qs.Text,
						OptionA:       qs.Options[0],
						OptionB:       qs.Options[1],
						OptionC:       qs.Options[2],
						OptionD:       qs.Options[3],
						CorrectAnswer: qs.Answer,
						Explanation:   &qs.Explanation,
						Points:        entity.DefaultQuestionPoints,
						OrderIndex:    qi,
						IsActive:      true,
					}
					if err := tx.Content().CreateQuestion(ctx, q); err != nil {
						return err
					}
					questions++
				}
			}
			logger.WithFields(logrus.Fields{"theme": theme.Title, "levels": len(ts.Levels), "questions": questions}).Info("theme seeded")
		}
		return nil
	})
}
