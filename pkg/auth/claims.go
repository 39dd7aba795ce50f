package auth

import "github.com/golang-jwt/jwt/v5"

// TokenPayload captures the data available when minting a dev token.
type TokenPayload struct {
	UserID string
	Email  string
	Name   string
	JTI    string
}

// DevTokenClaims represents the typed JWT accepted in dev mode when no
// Firebase credentials are configured.
type DevTokenClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
	jwt.RegisteredClaims
}
