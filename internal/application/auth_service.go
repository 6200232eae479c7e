package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/civica-app/civica-backend/internal/domain/entity"
	"github.com/civica-app/civica-backend/internal/domain/repository"
	"github.com/civica-app/civica-backend/internal/domain/rules"
	"github.com/civica-app/civica-backend/pkg/apperror"
	"github.com/civica-app/civica-backend/pkg/fieldcrypt"
	"github.com/civica-app/civica-backend/pkg/helpers"
)

// AuthService covers registration, login, sessions and the code-confirmed
// account flows.
type AuthService struct {
	UoW      repository.UnitOfWork
	Codes    *VerificationService
	JWT      *helpers.JWTManager
	Sessions SessionStore
	Mail     Notifier
	Index    UserIndexer
	Fields   fieldcrypt.Decoder
	Logger   logrus.FieldLogger
	Now      func() time.Time
}

type TokenPair struct {
	AccessToken        string    `json:"access_token"`
	AccessTokenExpiry  time.Time `json:"access_token_expires_at"`
	RefreshToken       string    `json:"refresh_token"`
	RefreshTokenExpiry time.Time `json:"refresh_token_expires_at"`
}

type RegisterInput struct {
	Email    string
	Password string
	Pseudo   string
}

type LoginInput struct {
	Email     string
	Password  string
	UserAgent string
	IP        string
}

type LoginResult struct {
	User   *entity.User
	Tokens TokenPair
}

var fieldCheck = validator.New()

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// open decodes client-sealed values in place.
func (s *AuthService) open(values ...*string) error {
	if s.Fields == nil {
		return nil
	}
	for _, v := range values {
		plain, err := s.Fields.Decode(*v)
		if err != nil {
			return apperror.Wrap(err, ErrMalformedField)
		}
		*v = plain
	}
	return nil
}

// Register creates an unverified, inactive player and e-mails a confirmation code.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if err := s.open(&in.Email, &in.Password, &in.Pseudo); err != nil {
		return nil, err
	}
	in.Email = NormalizeEmail(in.Email)
	in.Pseudo = strings.TrimSpace(in.Pseudo)
	if fieldCheck.Var(in.Email, "required,email") != nil {
		return nil, ErrInvalidEmail
	}
	if in.Pseudo == "" {
		return nil, ErrPseudoRequired
	}
	if err := rules.ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, apperror.Internal(err, "hash password failed")
	}

	now := nowFrom(s.Now)
	u := &entity.User{
		Email:           in.Email,
		Password:        hash,
		Pseudo:          in.Pseudo,
		Verified:        entity.VerifiedNo,
		Status:          entity.StatusInactive,
		Role:            entity.RoleUser,
		Points:          0,
		Level:           rules.LevelFor(0),
		Lives:           rules.MaxLives,
		LastLifeRefresh: &now,
	}
	var code *entity.VerificationCode
	err = s.UoW.Do(ctx, func(ctx context.Context, tx repository.Repositories) error {
		emailTaken, pseudoTaken, err := tx.Users().Taken(ctx, u.Email, u.Pseudo)
		if err != nil {
			return internal(err, "check uniqueness failed")
		}
		if emailTaken {
			return ErrEmailTaken
		}
		if pseudoTaken {
			return ErrPseudoTaken
		}
		if err := tx.Users().Create(ctx, u); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrEmailTaken
			}
			return internal(err, "create user failed")
		}
		code, err = s.Codes.IssueTx(ctx, tx, u.Email, entity.PurposeEmailVerification)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.Mail.SendCode(ctx, u.Pseudo, code)
	s.index(ctx, u)
	return u, nil
}

func (s *AuthService) index(ctx context.Context, u *entity.User) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, u); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
	}
}

// Authenticate checks credentials, then account state.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.UoW.Users().GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, internal(err, "load user failed")
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	switch u.Status {
	case entity.StatusActive:
	case entity.StatusInactive:
		return nil, ErrAccountInactive
	}
	if u.IsDeleted {
		return nil, ErrAccountDeleted
	}
	return u, nil
}

func subjectOf(u *entity.User) helpers.Subject {
	return helpers.Subject{
		UserID:   u.ID,
		Email:    u.Email,
		Role:     string(u.Role),
		Verified: string(u.Verified),
		Points:   u.Points,
		Level:    u.Level,
	}
}

// IssueTokens generates access/refresh tokens and records the session in Redis.
func (s *AuthService) IssueTokens(ctx context.Context, u *entity.User, userAgent, ip string) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(subjectOf(u), sid)
	if err != nil {
		return TokenPair{}, apperror.Internal(err, "generate access token failed")
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, apperror.Internal(err, "generate refresh token failed")
	}
	sess := helpers.Session{UserID: u.ID, Role: string(u.Role), UserAgent: userAgent, IP: ip, CreatedAt: nowFrom(s.Now)}
	if err := s.Sessions.Save(ctx, sid, sess, s.JWT.RefreshTTL); err != nil {
		return TokenPair{}, apperror.Internal(err, "store session failed")
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if err := s.open(&in.Email, &in.Password); err != nil {
		return nil, err
	}
	u, err := s.Authenticate(ctx, NormalizeEmail(in.Email), in.Password)
	if err != nil {
		return nil, err
	}
	pair, err := s.IssueTokens(ctx, u, in.UserAgent, in.IP)
	if err != nil {
		return nil, err
	}
	s.Logger.WithField("user_id", u.ID).Info("user logged in")
	return &LoginResult{User: u, Tokens: pair}, nil
}

// Refresh rotates the session behind a refresh token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	sess, ok, err := s.Sessions.Get(ctx, claims.UserID, claims.SessionID)
	if err != nil {
		return TokenPair{}, apperror.Internal(err, "load session failed")
	}
	if !ok {
		return TokenPair{}, ErrSessionRevoked
	}
	u, err := s.Authenticated(ctx, claims.UserID)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.Sessions.Delete(ctx, claims.UserID, claims.SessionID); err != nil {
		return TokenPair{}, apperror.Internal(err, "rotate session failed")
	}
	return s.IssueTokens(ctx, u, sess.UserAgent, sess.IP)
}

// Authenticated reloads a token holder and rejects accounts that may no longer sign in.
func (s *AuthService) Authenticated(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.UoW.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionRevoked
		}
		return nil, internal(err, "load user failed")
	}
	if u.IsDeleted {
		return nil, ErrAccountDeleted
	}
	if u.Status != entity.StatusActive {
		return nil, ErrAccountInactive
	}
	return u, nil
}

func (s *AuthService) Logout(ctx context.Context, userID, sessionID string) error {
	if err := s.Sessions.Delete(ctx, userID, sessionID); err != nil {
		return apperror.Internal(err, "delete session failed")
	}
	return nil
}

// ConfirmEmail consumes the code and activates the account in one transaction.
func (s *AuthService) ConfirmEmail(ctx context.Context, email, code string) (*entity.User, error) {
	if err := s.open(&email, &code); err != nil {
		return nil, err
	}
	email = NormalizeEmail(email)
	var u *entity.User
	err := s.Codes.withCode(ctx, email, code, entity.PurposeEmailVerification, func(ctx context.Context, tx repository.Repositories) error {
		var err error
		u, err = tx.Users().Activate(ctx, email)
		return notFound(err, ErrUserNotFound, "activate user failed")
	})
	if err != nil {
		return nil, err
	}
	s.Mail.SendWelcome(ctx, u)
	s.index(ctx, u)
	return u, nil
}

// issueFor sends a code to an existing account. Unknown addresses are
// accepted silently so the endpoint does not reveal which emails exist.
func (s *AuthService) issueFor(ctx context.Context, email string, purpose entity.VerificationPurpose, check func(*entity.User) error) error {
	email = NormalizeEmail(email)
	u, err := s.UoW.Users().GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		s.Logger.WithFields(logrus.Fields{"email": email, "purpose": purpose}).Info("code requested for unknown email")
		return nil
	}
	if err != nil {
		return internal(err, "load user failed")
	}
	if check != nil {
		if err := check(u); err != nil {
			return err
		}
	}
	code, err := s.Codes.Issue(ctx, email, purpose)
	if err != nil {
		return err
	}
	s.Mail.SendCode(ctx, u.Pseudo, code)
	return nil
}

func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	if err := s.open(&email); err != nil {
		return err
	}
	return s.issueFor(ctx, email, entity.PurposeEmailVerification, func(u *entity.User) error {
		if u.Verified == entity.VerifiedYes {
			return ErrAlreadyVerified
		}
		return nil
	})
}

func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if err := s.open(&email); err != nil {
		return err
	}
	return s.issueFor(ctx, email, entity.PurposePasswordReset, nil)
}

// ConfirmPasswordReset consumes the code and replaces the hash in one transaction.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, email, code, password, confirm string) error {
	if err := s.open(&email, &code, &password, &confirm); err != nil {
		return err
	}
	if err := rules.ValidatePasswordChange(password, confirm); err != nil {
		return err
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return apperror.Internal(err, "hash password failed")
	}
	email = NormalizeEmail(email)
	var userID string
	err = s.Codes.withCode(ctx, email, code, entity.PurposePasswordReset, func(ctx context.Context, tx repository.Repositories) error {
		u, err := tx.Users().GetByEmail(ctx, email)
		if err != nil {
			return notFound(err, ErrUserNotFound, "load user failed")
		}
		userID = u.ID
		return notFound(tx.Users().UpdatePassword(ctx, u.ID, hash), ErrUserNotFound, "update password failed")
	})
	if err != nil {
		return err
	}
	s.revokeAll(ctx, userID)
	return nil
}

func (s *AuthService) RequestAccountDeletion(ctx context.Context, email string) error {
	if err := s.open(&email); err != nil {
		return err
	}
	return s.issueFor(ctx, email, entity.PurposeAccountDeletion, nil)
}

// ConfirmAccountDeletion consumes the code and removes the account in one transaction.
func (s *AuthService) ConfirmAccountDeletion(ctx context.Context, email, code string) error {
	if err := s.open(&email, &code); err != nil {
		return err
	}
	email = NormalizeEmail(email)
	var userID string
	err := s.Codes.withCode(ctx, email, code, entity.PurposeAccountDeletion, func(ctx context.Context, tx repository.Repositories) error {
		u, err := tx.Users().GetByEmail(ctx, email)
		if err != nil {
			return notFound(err, ErrUserNotFound, "load user failed")
		}
		userID = u.ID
		return notFound(tx.Users().DeleteByEmail(ctx, email), ErrUserNotFound, "delete user failed")
	})
	if err != nil {
		return err
	}
	s.revokeAll(ctx, userID)
	if s.Index != nil {
		if err := s.Index.Delete(ctx, userID); err != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("es delete failed")
		}
	}
	s.Logger.WithField("user_id", userID).Info("account deleted")
	return nil
}

func (s *AuthService) revokeAll(ctx context.Context, userID string) {
	if err := s.Sessions.DeleteAll(ctx, userID); err != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("revoke sessions failed")
	}
}
