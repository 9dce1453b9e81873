package model

import "github.com/golang-jwt/jwt/v5"

// AccessClaims is the payload of a short-lived access token. Access
// tokens are stateless: validity is signature plus expiry, nothing is
// persisted server-side.
type AccessClaims struct {
	UserID int `json:"user_id"`
	jwt.RegisteredClaims
}

// RefreshClaims is the payload of a refresh token. The ID field (jti)
// must also exist as a refresh_credentials row for the token to be
// accepted; the signature alone is not enough.
type RefreshClaims struct {
	UserID int `json:"user_id"`
	jwt.RegisteredClaims
}
