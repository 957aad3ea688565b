// file: service/token_service.go

package service

import (
	"errors"
	"fmt"
	"go-notes-api/logger"
	"go-notes-api/model"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for any token that fails verification:
// bad signature, unparseable payload, wrong type claim or missing
// subject. Callers get no detail about which check failed.
var ErrInvalidToken = errors.New("invalid token")

// TokenService signs and verifies access and refresh tokens. It is
// stateless; the symmetric key and lifetimes are fixed at construction.
type TokenService struct {
	secretKey     []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	enforceExpiry bool
}

// NewTokenService creates a TokenService. enforceExpiry controls
// whether Verify rejects tokens past their exp claim; when false only
// signature, type and subject are checked.
func NewTokenService(secretKey string, accessTTL, refreshTTL time.Duration, enforceExpiry bool) *TokenService {
	return &TokenService{
		secretKey:     []byte(secretKey),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		enforceExpiry: enforceExpiry,
	}
}

// Generate builds and signs a token of the given type for the subject.
func (s *TokenService) Generate(userID, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()

	// The jti claim makes every issued token unique. Without it two
	// tokens minted in the same second are byte-identical, and a refresh
	// token rotated within one second of being issued would re-store the
	// digest it just consumed, leaving the old token live.
	claims := &model.AppClaims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to sign JWT")
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}

	return tokenString, nil
}

// GenerateAccessToken issues a short-lived access token for the user.
func (s *TokenService) GenerateAccessToken(userID string) (string, error) {
	return s.Generate(userID, model.TokenTypeAccess, s.accessTTL)
}

// GenerateRefreshToken issues a refresh token for the user.
func (s *TokenService) GenerateRefreshToken(userID string) (string, error) {
	return s.Generate(userID, model.TokenTypeRefresh, s.refreshTTL)
}

// RefreshTokenTTL reports the configured refresh token lifetime,
// used when storing the server-side record.
func (s *TokenService) RefreshTokenTTL() time.Duration {
	return s.refreshTTL
}

// Verify parses the token, checks its signature and returns the claims
// if the token is of the expected type and carries a subject. Malformed
// input returns ErrInvalidToken, never a panic.
func (s *TokenService) Verify(tokenString, expectedType string) (*model.AppClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if !s.enforceExpiry {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	claims := &model.AppClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != expectedType || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
