package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/danurwenda/identity-service/internal/identity/domain"
)

func (r *Repository) Create(ctx context.Context, session *domain.Session) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO sessions (token, user_id, device_fingerprint, ip_hash,
			is_valid, created_at, last_activity_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, session.Token, session.UserID, session.DeviceFingerprint, session.IPHash,
		session.IsValid, session.CreatedAt, session.LastActivityAt, session.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// ValidateAndTouch is the hot path: one conditional update that enforces
// validity and expiry, bumps last_activity_at, and returns the row. The
// bump races harmlessly with itself; last writer wins.
func (r *Repository) ValidateAndTouch(ctx context.Context, token string, now time.Time) (*domain.Session, error) {
	query := `
		UPDATE sessions
		SET last_activity_at = $2
		WHERE token = $1 AND is_valid AND expires_at > $2
		RETURNING token, user_id, device_fingerprint, ip_hash, is_valid,
		          created_at, last_activity_at, expires_at;
	`
	var s domain.Session
	err := r.db.QueryRow(ctx, query, token, now).Scan(
		&s.Token, &s.UserID, &s.DeviceFingerprint, &s.IPHash, &s.IsValid,
		&s.CreatedAt, &s.LastActivityAt, &s.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to validate session: %w", err)
	}
	return &s, nil
}

// Invalidate marks the session invalid regardless of its current state and
// reports the owning user. An unknown token yields ("", nil): logout is
// idempotent.
func (r *Repository) Invalidate(ctx context.Context, token string) (string, error) {
	var userID string
	err := r.db.QueryRow(ctx, `
		UPDATE sessions SET is_valid = FALSE WHERE token = $1 RETURNING user_id
	`, token).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to invalidate session: %w", err)
	}
	return userID, nil
}

func (r *Repository) InvalidateAllForUser(ctx context.Context, userID string) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE sessions SET is_valid = FALSE WHERE user_id = $1 AND is_valid
	`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to invalidate sessions for user: %w", err)
	}
	return tag.RowsAffected(), nil
}

// SweepExpired touches only rows already logically expired, so it is
// idempotent and safe to run concurrently with live traffic.
func (r *Repository) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE sessions SET is_valid = FALSE WHERE is_valid AND expires_at <= $1
	`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
