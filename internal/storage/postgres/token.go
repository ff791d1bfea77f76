package postgres

import (
	"context"
	"fmt"

	"github.com/hiphil2000/IB.React/internal/models"
	"github.com/hiphil2000/IB.React/internal/storage"
)

type TokenRepository struct {
	db storage.DBTX
}

func NewTokenRepository(db storage.DBTX) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) AddToken(ctx context.Context, record models.TokenRecord) error {
	query := `INSERT INTO tokens (token_id, user_no, subject, issued_at, expires_at, signature)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(
		ctx,
		query,
		record.TokenID,
		record.UserNo,
		string(record.Subject),
		record.IssuedAt,
		record.ExpiresAt,
		record.Signature,
	)
	if err != nil {
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

// RemoveToken flips the destroy flag instead of deleting the row, so the
// record stays available for audit.
func (r *TokenRepository) RemoveToken(ctx context.Context, tokenID string) error {
	query := `UPDATE tokens SET destroy_yn = TRUE, destroy_at = now() WHERE token_id = $1 AND destroy_yn = FALSE`
	result, err := r.db.ExecContext(ctx, query, tokenID)
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("revoke token rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrTokenNotFound
	}
	return nil
}

// IsUsingToken reports whether a token id still has an active (not
// destroyed) record. A soft-deleted row counts as inactive.
func (r *TokenRepository) IsUsingToken(ctx context.Context, tokenID string) (bool, error) {
	var active bool
	query := `SELECT EXISTS(SELECT 1 FROM tokens WHERE token_id = $1 AND destroy_yn = FALSE)`
	if err := r.db.QueryRowContext(ctx, query, tokenID).Scan(&active); err != nil {
		return false, fmt.Errorf("check token: %w", err)
	}
	return active, nil
}
