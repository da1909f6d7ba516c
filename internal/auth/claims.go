package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the fields extracted from a Supabase access token.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// JWTVerifier validates access tokens issued by the authentication
// collaborator.
type JWTVerifier interface {
	VerifyToken(tokenString string) (*Claims, error)
	Close() error
}
