package service

import (
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"go-notes-api/logger"
	"go-notes-api/model"
	"go-notes-api/repository"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken = errors.New("this email is already associated with an account")
	// ErrInvalidCredentials covers both unknown email and wrong password,
	// so login failures do not reveal which one it was.
	ErrInvalidCredentials        = errors.New("invalid credentials")
	ErrInvalidRefreshToken       = errors.New("invalid refresh token")
	ErrRefreshTokenNotRecognized = errors.New("refresh token not recognized, could be expired or already used")
)

// TokenPair is what login and refresh hand back to the client.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthService orchestrates register, login and the refresh rotation
// protocol. It holds no per-request state; all durability comes from
// the repositories and the sql transaction it opens around rotation.
type AuthService struct {
	db        *sql.DB
	userRepo  repository.IUserRepository
	tokenRepo repository.ITokenRepository
	tokens    *TokenService
}

func NewAuthService(db *sql.DB, userRepo repository.IUserRepository, tokenRepo repository.ITokenRepository, tokens *TokenService) *AuthService {
	return &AuthService{
		db:        db,
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		tokens:    tokens,
	}
}

func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), nil
}

func (s *AuthService) CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Register creates a new user. The lookup is only a fast path; the
// unique constraint on users.email is what actually prevents two
// concurrent registrations of the same address.
func (s *AuthService) Register(email, password string) error {
	_, err := s.userRepo.GetUserByEmail(email)
	if err == nil {
		return ErrEmailTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	hashedPassword, err := s.HashPassword(password)
	if err != nil {
		return err
	}

	user := &model.User{
		ID:       uuid.NewString(),
		Email:    email,
		Password: hashedPassword,
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return ErrEmailTaken
		}
		return err
	}

	logger.Log.WithField("user_id", user.ID).Info("New user registered")
	return nil
}

// Login verifies the credentials and issues a fresh token pair. Any
// refresh token from an earlier session is invalidated: a user has at
// most one live refresh token at a time.
func (s *AuthService) Login(email, password string) (*TokenPair, error) {
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.CheckPasswordHash(password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.tokens.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.tokenRepo.DeleteByUserIDTx(tx, user.ID); err != nil {
		return nil, err
	}
	if err := s.storeRefreshToken(tx, user.ID, refreshToken); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("could not commit transaction: %w", err)
	}

	logger.Log.WithField("user_id", user.ID).Info("User logged in")
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh exchanges a valid, unused refresh token for a new token pair.
// Consuming the stored record and inserting its replacement happen in
// one transaction: a crash in between can force a re-login, but can
// never leave the old token usable twice.
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.Verify(refreshToken, model.TokenTypeRefresh)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.userRepo.GetUserByID(claims.Subject)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	newAccessToken, err := s.tokens.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, err
	}
	newRefreshToken, err := s.tokens.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	// The stored digest, not the token's own signature, decides whether
	// this token is still live. Consuming it is a single compare-and-delete,
	// so two concurrent refreshes of one token cannot both succeed.
	consumed, err := s.tokenRepo.ConsumeByUserIDAndHash(tx, user.ID, hashToken(refreshToken))
	if err != nil {
		return nil, err
	}
	if !consumed {
		logger.Log.WithField("user_id", user.ID).Warn("Refresh token reuse or expired token detected")
		return nil, ErrRefreshTokenNotRecognized
	}

	if err := s.storeRefreshToken(tx, user.ID, newRefreshToken); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("could not commit transaction: %w", err)
	}

	return &TokenPair{AccessToken: newAccessToken, RefreshToken: newRefreshToken}, nil
}

func (s *AuthService) storeRefreshToken(tx *sql.Tx, userID, refreshToken string) error {
	record := &model.RefreshToken{
		UserID:    userID,
		TokenHash: hashToken(refreshToken),
		ExpiresAt: time.Now().Add(s.tokens.RefreshTokenTTL()),
	}
	return s.tokenRepo.CreateTx(tx, record)
}

// hashToken returns the SHA-256 digest of the raw token, base64
// encoded. Only this digest ever reaches the database.
func hashToken(token string) string {
	digest := sha256.Sum256([]byte(token))
	return base64.StdEncoding.EncodeToString(digest[:])
}
