// file: model/token.go

package model

// TokenPair is what a successful authentication or rotation yields:
// a stateless access token for the Authorization header and a
// store-tracked refresh token for the auth cookie.
type TokenPair struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"-"` // Delivered only via the http-only cookie, never in a JSON body.
}
