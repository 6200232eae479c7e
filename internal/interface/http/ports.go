package handlers

import (
	"context"

	"github.com/civica-app/civica-backend/internal/application"
	"github.com/civica-app/civica-backend/internal/domain/entity"
	"github.com/civica-app/civica-backend/internal/domain/repository"
	"github.com/civica-app/civica-backend/internal/domain/rules"
	"github.com/civica-app/civica-backend/internal/infrastructure/search"
)

// The handlers depend on these narrow views of the application services.

type AuthUseCase interface {
	Register(ctx context.Context, in application.RegisterInput) (*entity.User, error)
	Login(ctx context.Context, in application.LoginInput) (*application.LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (application.TokenPair, error)
	Logout(ctx context.Context, userID, sessionID string) error
	ConfirmEmail(ctx context.Context, email, code string) (*entity.User, error)
	ResendVerification(ctx context.Context, email string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, email, code, password, confirm string) error
	RequestAccountDeletion(ctx context.Context, email string) error
	ConfirmAccountDeletion(ctx context.Context, email, code string) error
}

type UserUseCase interface {
	GetProfile(ctx context.Context, userID string) (*entity.User, error)
	UpdateProfile(ctx context.Context, userID string, in application.UpdateProfileInput) (*entity.User, error)
	UpdateFCMToken(ctx context.Context, userID, token string) error
	ChangePassword(ctx context.Context, userID, password, confirm string) error
	Stats(ctx context.Context, userID string) (*application.UserStats, error)
	List(ctx context.Context, f repository.UserFilter) (*application.UserPage, error)
	Search(ctx context.Context, q string, size int) ([]search.UserDoc, error)
	SoftDelete(ctx context.Context, userID string) error
	Dashboard(ctx context.Context) (*application.DashboardStats, error)
}

type GameplayUseCase interface {
	UseLife(ctx context.Context, userID string) (*application.LifeUse, error)
	RefreshLives(ctx context.Context, userID string) (*application.LifeRefresh, error)
	LifeStatus(ctx context.Context, userID string) (*application.LifeStatus, error)
	AwardScore(ctx context.Context, userID string, earned int) (*rules.Progress, error)
	CheckAnswer(ctx context.Context, questionID int64, answer string) (*rules.AnswerResult, error)
	SubmitAnswer(ctx context.Context, userID string, questionID int64, answer string) (*application.AnswerOutcome, error)
}

type ContentUseCase interface {
	ListThemes(ctx context.Context, activeOnly bool) ([]entity.Theme, error)
	GetTheme(ctx context.Context, id int64) (*entity.Theme, error)
	CreateTheme(ctx context.Context, t *entity.Theme) error
	UpdateTheme(ctx context.Context, t *entity.Theme) error
	DeleteTheme(ctx context.Context, id int64) error
	ListLevels(ctx context.Context, themeID *int64, activeOnly bool) ([]entity.Level, error)
	GetLevel(ctx context.Context, id int64) (*entity.Level, error)
	CreateLevel(ctx context.Context, l *entity.Level) error
	UpdateLevel(ctx context.Context, l *entity.Level) error
	DeleteLevel(ctx context.Context, id int64) error
	ListQuestions(ctx context.Context, levelID *int64, activeOnly bool) ([]entity.Question, error)
	QuizForLevel(ctx context.Context, levelID int64) ([]entity.Question, error)
	GetQuestion(ctx context.Context, id int64) (*entity.Question, error)
	CreateQuestion(ctx context.Context, q *entity.Question) error
	UpdateQuestion(ctx context.Context, q *entity.Question) error
	DeleteQuestion(ctx context.Context, id int64) error
}

type KYCUseCase interface {
	Submit(ctx context.Context, userID string, in application.KYCSubmission) (*application.KYCReport, error)
	Verify(ctx context.Context, in application.KYCSubmission) (*application.KYCReport, error)
	SubmitSelfie(ctx context.Context, userID string, selfie *entity.DocumentImage) (*application.SelfieReport, error)
}

type Broadcaster interface {
	Broadcast(ctx context.Context, to []string, subject, text, html string) (int, error)
}
