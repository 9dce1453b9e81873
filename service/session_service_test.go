// service/session_service_test.go
package service

import (
	"context"
	"errors"
	"go-auth-api/common"
	"go-auth-api/model"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockCredentialRepo struct{ mock.Mock }

func (m *mockCredentialRepo) Create(ctx context.Context, cred *model.RefreshCredential) error {
	args := m.Called(ctx, cred)
	return args.Error(0)
}
func (m *mockCredentialRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.RefreshCredential, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RefreshCredential), args.Error(1)
}
func (m *mockCredentialRepo) DeleteByID(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
func (m *mockCredentialRepo) DeleteByUserID(ctx context.Context, userID int) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
func (m *mockCredentialRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// memCredentialRepo is an in-memory store with the same atomicity
// contract as the postgres implementation: conditional single-row
// deletes under one lock.
type memCredentialRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*model.RefreshCredential
}

func newMemCredentialRepo() *memCredentialRepo {
	return &memCredentialRepo{rows: make(map[uuid.UUID]*model.RefreshCredential)}
}

func (r *memCredentialRepo) Create(_ context.Context, cred *model.RefreshCredential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *cred
	r.rows[cred.ID] = &copied
	return nil
}

func (r *memCredentialRepo) GetByID(_ context.Context, id uuid.UUID) (*model.RefreshCredential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cred, ok := r.rows[id]
	if !ok {
		return nil, errors.New("no rows")
	}
	copied := *cred
	return &copied, nil
}

func (r *memCredentialRepo) DeleteByID(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return false, nil
	}
	delete(r.rows, id)
	return true, nil
}

func (r *memCredentialRepo) DeleteByUserID(_ context.Context, userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, cred := range r.rows {
		if cred.UserID == userID {
			delete(r.rows, id)
		}
	}
	return nil
}

func (r *memCredentialRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for id, cred := range r.rows {
		if cred.CreatedAt.Before(cutoff) {
			delete(r.rows, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *memCredentialRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

func TestSessionService_IssuePair(t *testing.T) {
	tokens := NewTokenService(testTokenConfig())
	creds := newMemCredentialRepo()
	sessions := NewSessionService(tokens, creds)

	pair, err := sessions.IssuePair(context.Background(), 42)
	assert.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	// The access token identifies the subject immediately.
	accessClaims, err := tokens.VerifyAccessToken(pair.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, 42, accessClaims.UserID)

	// The refresh token's id is persisted.
	refreshClaims, err := tokens.VerifyRefreshToken(pair.RefreshToken)
	assert.NoError(t, err)
	id, err := uuid.Parse(refreshClaims.ID)
	assert.NoError(t, err)
	stored, err := creds.GetByID(context.Background(), id)
	assert.NoError(t, err)
	assert.Equal(t, 42, stored.UserID)
}

func TestSessionService_IssuePair_StorageFailure(t *testing.T) {
	tokens := NewTokenService(testTokenConfig())
	mockRepo := new(mockCredentialRepo)
	mockRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection refused")).Once()

	sessions := NewSessionService(tokens, mockRepo)
	pair, err := sessions.IssuePair(context.Background(), 1)

	// No tokens may reach the caller when persistence fails.
	assert.Nil(t, pair)
	assert.ErrorIs(t, err, common.ErrStorage)
	mockRepo.AssertExpectations(t)
}

func TestSessionService_Rotate_OneShot(t *testing.T) {
	tokens := NewTokenService(testTokenConfig())
	creds := newMemCredentialRepo()
	sessions := NewSessionService(tokens, creds)

	pair, err := sessions.IssuePair(context.Background(), 9)
	assert.NoError(t, err)

	// First rotation succeeds and yields a distinct refresh token.
	rotated, err := sessions.Rotate(context.Background(), pair.RefreshToken)
	assert.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// Replaying the consumed token fails even though its signature
	// still verifies.
	_, err = tokens.VerifyRefreshToken(pair.RefreshToken)
	assert.NoError(t, err)
	replayed, err := sessions.Rotate(context.Background(), pair.RefreshToken)
	assert.Nil(t, replayed)
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	// The rotated token keeps working.
	_, err = sessions.Rotate(context.Background(), rotated.RefreshToken)
	assert.NoError(t, err)
}

func TestSessionService_Rotate_ConcurrentReplay(t *testing.T) {
	tokens := NewTokenService(testTokenConfig())
	creds := newMemCredentialRepo()
	sessions := NewSessionService(tokens, creds)

	pair, err := sessions.IssuePair(context.Background(), 3)
	assert.NoError(t, err)

	const attempts = 8
	results := make(chan error, attempts)
	var start sync.WaitGroup
	start.Add(1)
	for i := 0; i < attempts; i++ {
		go func() {
			start.Wait()
			_, err := sessions.Rotate(context.Background(), pair.RefreshToken)
			results <- err
		}()
	}
	start.Done()

	var successes, failures int
	for i := 0; i < attempts; i++ {
		if err := <-results; err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, common.ErrUnauthorized)
			failures++
		}
	}

	assert.Equal(t, 1, successes, "exactly one concurrent rotation may succeed")
	assert.Equal(t, attempts-1, failures)
}

func TestSessionService_Rotate_BadSignature(t *testing.T) {
	tokens := NewTokenService(testTokenConfig())
	creds := newMemCredentialRepo()
	sessions := NewSessionService(tokens, creds)

	// A token signed with a different secret never reaches the store.
	otherCfg := testTokenConfig()
	otherCfg.JWT.RefreshSecret = "some-other-secret"
	foreign, _, err := NewTokenService(otherCfg).IssueRefreshToken(1)
	assert.NoError(t, err)

	pair, err := sessions.Rotate(context.Background(), foreign)
	assert.Nil(t, pair)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Equal(t, 0, creds.count())
}

func TestSessionService_RevokeThenRotate(t *testing.T) {
	tokens := NewTokenService(testTokenConfig())
	creds := newMemCredentialRepo()
	sessions := NewSessionService(tokens, creds)

	pair, err := sessions.IssuePair(context.Background(), 4)
	assert.NoError(t, err)

	sessions.Revoke(context.Background(), pair.RefreshToken)
	// Revocation is idempotent.
	sessions.Revoke(context.Background(), pair.RefreshToken)

	_, err = sessions.Rotate(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestSessionService_Revoke_GarbageToken(t *testing.T) {
	tokens := NewTokenService(testTokenConfig())
	creds := newMemCredentialRepo()
	sessions := NewSessionService(tokens, creds)

	_, err := sessions.IssuePair(context.Background(), 4)
	assert.NoError(t, err)

	// Nothing to revoke; the store is left alone.
	sessions.Revoke(context.Background(), "not-a-token")
	assert.Equal(t, 1, creds.count())
}

func TestSessionService_RevokeAllForUser(t *testing.T) {
	tokens := NewTokenService(testTokenConfig())
	creds := newMemCredentialRepo()
	sessions := NewSessionService(tokens, creds)

	// Two independent sessions for the same user, one for another.
	first, err := sessions.IssuePair(context.Background(), 10)
	assert.NoError(t, err)
	second, err := sessions.IssuePair(context.Background(), 10)
	assert.NoError(t, err)
	other, err := sessions.IssuePair(context.Background(), 11)
	assert.NoError(t, err)

	assert.NoError(t, sessions.RevokeAllForUser(context.Background(), 10))

	_, err = sessions.Rotate(context.Background(), first.RefreshToken)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	_, err = sessions.Rotate(context.Background(), second.RefreshToken)
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	// The other user's session is untouched.
	_, err = sessions.Rotate(context.Background(), other.RefreshToken)
	assert.NoError(t, err)
}
