package model

import "github.com/golang-jwt/jwt/v5"

// Token kinds embedded in the "type" claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type AppClaims struct {
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}
