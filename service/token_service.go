// file: service/token_service.go

package service

import (
	"fmt"
	"go-auth-api/common"
	"go-auth-api/config"
	"go-auth-api/logger"
	"go-auth-api/model"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenService is the signer/verifier for both token kinds. Access
// tokens are stateless; refresh tokens embed a jti that must also
// exist in the credential store to be honored — the store check is the
// SessionService's job, not this codec's.
type TokenService struct {
	accessSecret    []byte
	refreshSecret   []byte
	accessLifetime  time.Duration
	refreshLifetime time.Duration
}

func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{
		accessSecret:    []byte(cfg.JWT.AccessSecret),
		refreshSecret:   []byte(cfg.JWT.RefreshSecret),
		accessLifetime:  cfg.JWT.AccessLifetime,
		refreshLifetime: cfg.JWT.RefreshLifetime,
	}
}

// IssueAccessToken signs a short-lived stateless token for the user.
func (s *TokenService) IssueAccessToken(userID int) (string, error) {
	now := time.Now()
	claims := &model.AccessClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessLifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.accessSecret)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to sign access token")
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return tokenString, nil
}

// VerifyAccessToken validates signature and expiry against the access
// secret. Pure function of token, secret and current time.
func (s *TokenService) VerifyAccessToken(tokenString string) (*model.AccessClaims, error) {
	claims := &model.AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.accessSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("access token rejected (%v): %w", err, common.ErrUnauthorized)
	}
	return claims, nil
}

// IssueRefreshToken signs a refresh token carrying a fresh globally
// unique identifier and returns both. The caller is responsible for
// persisting the identifier; the codec never touches storage.
func (s *TokenService) IssueRefreshToken(userID int) (string, uuid.UUID, error) {
	id := uuid.New()
	now := time.Now()
	claims := &model.RefreshClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshLifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.refreshSecret)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to sign refresh token")
		return "", uuid.Nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return tokenString, id, nil
}

// VerifyRefreshToken checks signature and expiry only; it does not
// consult the credential store.
func (s *TokenService) VerifyRefreshToken(tokenString string) (*model.RefreshClaims, error) {
	claims := &model.RefreshClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.refreshSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("refresh token rejected (%v): %w", err, common.ErrUnauthorized)
	}
	return claims, nil
}

// DecodeUnverified extracts claims WITHOUT verifying the signature.
// It exists solely so logout can recover the identifier of an expired
// or otherwise invalid token for best-effort revocation. No trust may
// be placed in anything it returns.
func (s *TokenService) DecodeUnverified(tokenString string) (*model.RefreshClaims, error) {
	claims := &model.RefreshClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("malformed refresh token: %w", err)
	}
	return claims, nil
}
