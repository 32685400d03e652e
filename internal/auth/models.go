package auth

import (
	"github.com/golang-jwt/jwt/v4"
)

// JWTClaims represents JWT token claims. There is deliberately no role claim:
// roles are resolved per agreement, not per token.
type JWTClaims struct {
	PrincipalID   string `json:"principal_id"`
	Email         string `json:"email"`
	WalletAccount string `json:"wallet_account,omitempty"`
	Type          string `json:"type"` // "access" or "refresh"
	jwt.RegisteredClaims
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}
