// file: service/session_service.go

package service

import (
	"context"
	"fmt"
	"go-auth-api/common"
	"go-auth-api/logger"
	"go-auth-api/model"
	"go-auth-api/repository"
	"time"

	"github.com/google/uuid"
)

// storeTimeout bounds every credential store call made by the engine
// so no request can block indefinitely on the database.
const storeTimeout = 3 * time.Second

// SessionService orchestrates the refresh credential lifecycle:
// issuance, one-shot rotation, and revocation. A credential has no
// explicit state column — a row existing in the store IS the issued
// state, and deletion (by rotation, logout, logout-all, or the
// sweeper) IS revocation.
type SessionService struct {
	tokens *TokenService
	creds  repository.ICredentialRepository
}

func NewSessionService(tokens *TokenService, creds repository.ICredentialRepository) *SessionService {
	return &SessionService{tokens: tokens, creds: creds}
}

// IssuePair mints an access/refresh token pair for the user and
// persists the refresh identifier. If persistence fails no tokens are
// returned: a refresh token must never circulate without its store
// record.
func (s *SessionService) IssuePair(ctx context.Context, userID int) (*model.TokenPair, error) {
	refreshToken, id, err := s.tokens.IssueRefreshToken(userID)
	if err != nil {
		return nil, err
	}

	cred := &model.RefreshCredential{
		ID:        id,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	storeCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	if err := s.creds.Create(storeCtx, cred); err != nil {
		return nil, fmt.Errorf("persist refresh credential (%v): %w", err, common.ErrStorage)
	}

	accessToken, err := s.tokens.IssueAccessToken(userID)
	if err != nil {
		return nil, err
	}

	return &model.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Rotate exchanges a refresh token for a fresh pair, invalidating the
// old token first. Presenting the same token twice succeeds at most
// once: the conditional delete is the reuse-detection point, so two
// concurrent rotations of one token yield exactly one success.
func (s *SessionService) Rotate(ctx context.Context, refreshToken string) (*model.TokenPair, error) {
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, fmt.Errorf("refresh token carries no usable id: %w", common.ErrUnauthorized)
	}

	storeCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	deleted, err := s.creds.DeleteByID(storeCtx, id)
	if err != nil {
		return nil, fmt.Errorf("invalidate refresh credential (%v): %w", err, common.ErrStorage)
	}
	if !deleted {
		// Already rotated, revoked, or swept. A replayed token lands
		// here even when its signature still verifies.
		logger.Log.WithField("credential_id", id).Warn("Refresh token reuse detected")
		return nil, fmt.Errorf("refresh credential not found: %w", common.ErrUnauthorized)
	}

	// A crash between the delete above and the reissue below nets out
	// to a logged-out session, which is the fail-safe outcome.
	return s.IssuePair(ctx, claims.UserID)
}

// Revoke deletes the credential named by the token, best-effort. The
// token is decoded without signature verification so that logout with
// an expired cookie still cleans up its record. Always succeeds from
// the caller's point of view.
func (s *SessionService) Revoke(ctx context.Context, refreshToken string) {
	claims, err := s.tokens.DecodeUnverified(refreshToken)
	if err != nil {
		// Nothing to revoke.
		return
	}
	id, err := uuid.Parse(claims.ID)
	if err != nil {
		return
	}

	storeCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	if _, err := s.creds.DeleteByID(storeCtx, id); err != nil {
		logger.Log.WithError(err).WithField("credential_id", id).Warn("Best-effort revocation failed")
	}
}

// RevokeAllForUser deletes every refresh credential owned by the user.
// The caller must derive userID from a verified access token, not from
// a refresh token: logging out everywhere must not require a live
// refresh token on the requesting device.
func (s *SessionService) RevokeAllForUser(ctx context.Context, userID int) error {
	storeCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	if err := s.creds.DeleteByUserID(storeCtx, userID); err != nil {
		return fmt.Errorf("revoke all credentials (%v): %w", err, common.ErrStorage)
	}
	return nil
}
