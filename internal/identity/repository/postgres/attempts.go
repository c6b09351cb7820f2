package postgres

import (
	"context"
	"fmt"
	"time"
)

func (r *Repository) RecordLoginAttempt(ctx context.Context, email, ipHash string, successful bool, failureReason *string, now time.Time) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO login_attempts (id, email, ip_hash, successful, failure_reason, attempt_time)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5)
	`, email, ipHash, successful, failureReason, now)
	if err != nil {
		return fmt.Errorf("failed to record login attempt: %w", err)
	}
	return nil
}

func (r *Repository) CountRecentFailures(ctx context.Context, email, ipHash string, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM login_attempts
		WHERE email = $1 AND ip_hash = $2 AND NOT successful AND attempt_time >= $3
	`, email, ipHash, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count recent failures: %w", err)
	}
	return count, nil
}
