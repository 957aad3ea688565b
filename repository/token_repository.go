// file: repository/token_repository.go

package repository

import (
	"database/sql"
	"go-notes-api/logger"
	"go-notes-api/model"

	"github.com/sirupsen/logrus"
)

// ITokenRepository defines the contract for refresh token database
// operations. The Tx variants take the caller's transaction so that
// token rotation (consume old, store new) commits or rolls back as one
// unit.
type ITokenRepository interface {
	CreateTx(tx *sql.Tx, token *model.RefreshToken) error
	DeleteByUserIDTx(tx *sql.Tx, userID string) error
	ConsumeByUserIDAndHash(tx *sql.Tx, userID, tokenHash string) (bool, error)
}

// TokenRepository implements ITokenRepository.
type TokenRepository struct {
	DB *sql.DB
}

// NewTokenRepository creates a new TokenRepository.
func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{DB: db}
}

// CreateTx inserts a new refresh token record within the given transaction.
func (r *TokenRepository) CreateTx(tx *sql.Tx, token *model.RefreshToken) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":    token.UserID,
		"expires_at": token.ExpiresAt,
	})

	query := `INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES ($1, $2, $3) RETURNING id, created_at`
	err := tx.QueryRow(query, token.UserID, token.TokenHash, token.ExpiresAt).Scan(&token.ID, &token.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create refresh token query")
		return err
	}
	return nil
}

// DeleteByUserIDTx deletes all refresh tokens for a user within the given
// transaction. Used on login to invalidate any prior session.
func (r *TokenRepository) DeleteByUserIDTx(tx *sql.Tx, userID string) error {
	query := `DELETE FROM refresh_tokens WHERE user_id = $1`
	_, err := tx.Exec(query, userID)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to execute delete refresh tokens query")
		return err
	}
	return nil
}

// ConsumeByUserIDAndHash atomically deletes the live refresh token
// matching (userID, tokenHash) and reports whether a row was consumed.
// The delete doubles as the liveness check: a token that was already
// rotated, or whose record has passed expires_at, consumes nothing.
func (r *TokenRepository) ConsumeByUserIDAndHash(tx *sql.Tx, userID, tokenHash string) (bool, error) {
	query := `DELETE FROM refresh_tokens WHERE user_id = $1 AND token_hash = $2 AND expires_at > now()`
	result, err := tx.Exec(query, userID, tokenHash)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to execute consume refresh token query")
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
