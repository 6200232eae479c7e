package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTManager handles generation and validation of JWT tokens
type JWTManager struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func NewJWTManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTManager {
	return &JWTManager{
		AccessSecret:  []byte(accessSecret),
		RefreshSecret: []byte(refreshSecret),
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
	}
}

// Subject is the player snapshot embedded in an access token.
type Subject struct {
	UserID   string
	Email    string
	Role     string
	Verified string
	Points   int
	Level    int
}

type Claims struct {
	UserID    string `json:"uid"`
	SessionID string `json:"sid"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	Verified  string `json:"verified,omitempty"`
	Points    int    `json:"points"`
	Level     int    `json:"level"`
	jwt.RegisteredClaims
}

func (m *JWTManager) sign(claims *Claims, secret []byte, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(ttl)
	claims.ExpiresAt = jwt.NewNumericDate(exp)
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.Subject = claims.UserID
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(secret)
	return s, exp, err
}

func (m *JWTManager) GenerateAccessToken(sub Subject, sessionID string) (string, time.Time, error) {
	return m.sign(&Claims{
		UserID:    sub.UserID,
		SessionID: sessionID,
		Email:     sub.Email,
		Role:      sub.Role,
		Verified:  sub.Verified,
		Points:    sub.Points,
		Level:     sub.Level,
	}, m.AccessSecret, m.AccessTTL)
}

// GenerateRefreshToken carries only the identifiers needed to rotate a session.
func (m *JWTManager) GenerateRefreshToken(userID, sessionID string) (string, time.Time, error) {
	return m.sign(&Claims{UserID: userID, SessionID: sessionID}, m.RefreshSecret, m.RefreshTTL)
}

func (m *JWTManager) ParseAccessToken(tokenStr string) (*Claims, error) {
	return parseToken(tokenStr, m.AccessSecret)
}

func (m *JWTManager) ParseRefreshToken(tokenStr string) (*Claims, error) {
	return parseToken(tokenStr, m.RefreshSecret)
}

func parseToken(tokenStr string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.UserID == "" || claims.SessionID == "" {
		return nil, errors.New("token missing identifiers")
	}
	return claims, nil
}
