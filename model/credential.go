// file: model/credential.go

package model

import (
	"time"

	"github.com/google/uuid"
)

// RefreshCredential is the database record backing one refresh token.
// One row is created per issuance; deleting the row revokes the token
// regardless of its signature. Absence of a row IS revocation — there
// is no explicit revoked state.
type RefreshCredential struct {
	ID        uuid.UUID `json:"id"`
	UserID    int       `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
