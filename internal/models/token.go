package models

import "github.com/golang-jwt/jwt/v5"

// Claims are the token claims the gateway reads from bearer tokens issued by
// the external auth service. The gateway verifies the shared-secret
// signature but never issues or refreshes tokens.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}
