// file: repository/credential_repository.go

package repository

import (
	"context"
	"database/sql"
	"go-auth-api/logger"
	"go-auth-api/model"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ICredentialRepository defines the contract for refresh credential
// persistence. Create and the deletes are the only mutations; each is
// a single-statement operation so no read-modify-write races can occur.
type ICredentialRepository interface {
	Create(ctx context.Context, cred *model.RefreshCredential) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.RefreshCredential, error)
	// DeleteByID removes one record and reports whether a row was
	// actually deleted. The conditional form is what makes rotation
	// one-shot: under two concurrent rotations of the same token,
	// exactly one caller observes deleted=true.
	DeleteByID(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteByUserID(ctx context.Context, userID int) error
	// DeleteOlderThan removes every record created before cutoff and
	// returns the number of rows removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// CredentialRepository implements ICredentialRepository over postgres.
type CredentialRepository struct {
	DB *sql.DB
}

func NewCredentialRepository(db *sql.DB) *CredentialRepository {
	return &CredentialRepository{DB: db}
}

// Create inserts a new refresh credential record.
func (r *CredentialRepository) Create(ctx context.Context, cred *model.RefreshCredential) error {
	log := logger.Log.WithFields(logrus.Fields{
		"credential_id": cred.ID,
		"user_id":       cred.UserID,
	})
	log.Info("Executing query to create a refresh credential")

	query := `INSERT INTO refresh_credentials (id, user_id, created_at) VALUES ($1, $2, $3)`
	_, err := r.DB.ExecContext(ctx, query, cred.ID, cred.UserID, cred.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create refresh credential query")
		return err
	}
	return nil
}

// GetByID retrieves a refresh credential record by its identifier.
// Returns sql.ErrNoRows if no record exists.
func (r *CredentialRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.RefreshCredential, error) {
	cred := &model.RefreshCredential{}
	query := `SELECT id, user_id, created_at FROM refresh_credentials WHERE id = $1`
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&cred.ID, &cred.UserID, &cred.CreatedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).WithField("credential_id", id).Error("Failed to execute get refresh credential query")
		}
		return nil, err
	}
	return cred, nil
}

// DeleteByID conditionally removes one record.
func (r *CredentialRepository) DeleteByID(ctx context.Context, id uuid.UUID) (bool, error) {
	log := logger.Log.WithField("credential_id", id)
	log.Info("Executing query to delete a refresh credential")

	query := `DELETE FROM refresh_credentials WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		log.WithError(err).Error("Failed to execute delete refresh credential query")
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// DeleteByUserID deletes all refresh credentials for a specific user.
// This is used for logging out from all sessions.
func (r *CredentialRepository) DeleteByUserID(ctx context.Context, userID int) error {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to delete all refresh credentials for a user")

	query := `DELETE FROM refresh_credentials WHERE user_id = $1`
	_, err := r.DB.ExecContext(ctx, query, userID)
	if err != nil {
		log.WithError(err).Error("Failed to execute delete refresh credentials query")
		return err
	}
	return nil
}

// DeleteOlderThan deletes every credential created before cutoff.
func (r *CredentialRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM refresh_credentials WHERE created_at < $1`
	res, err := r.DB.ExecContext(ctx, query, cutoff)
	if err != nil {
		logger.Log.WithError(err).WithField("cutoff", cutoff).Error("Failed to execute delete stale credentials query")
		return 0, err
	}
	return res.RowsAffected()
}
