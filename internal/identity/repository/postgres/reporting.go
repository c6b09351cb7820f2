package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/danurwenda/identity-service/internal/identity/domain"
)

func (r *Repository) AccountStats(ctx context.Context, now time.Time) (*domain.AccountStats, error) {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	query := `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM users WHERE is_active),
			(SELECT COUNT(*) FROM users WHERE email_verified),
			(SELECT COUNT(*) FROM users WHERE created_at >= $1),
			(SELECT COUNT(*) FROM sessions WHERE is_valid AND expires_at > $2);
	`
	var stats domain.AccountStats
	err := r.db.QueryRow(ctx, query, startOfDay, now).Scan(
		&stats.TotalAccounts, &stats.ActiveAccounts, &stats.VerifiedAccounts,
		&stats.CreatedToday, &stats.ActiveSessions)
	if err != nil {
		return nil, fmt.Errorf("failed to query account stats: %w", err)
	}
	return &stats, nil
}

func (r *Repository) LoginStatsByDay(ctx context.Context, since time.Time) ([]domain.LoginDayStat, error) {
	query := `
		SELECT date_trunc('day', attempt_time) AS day,
		       COUNT(*) FILTER (WHERE successful),
		       COUNT(*) FILTER (WHERE NOT successful)
		FROM login_attempts
		WHERE attempt_time >= $1
		GROUP BY day
		ORDER BY day;
	`
	rows, err := r.db.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query login stats: %w", err)
	}
	defer rows.Close()

	var stats []domain.LoginDayStat
	for rows.Next() {
		var s domain.LoginDayStat
		if err := rows.Scan(&s.Day, &s.Succeeded, &s.Failed); err != nil {
			return nil, fmt.Errorf("failed to scan login stat row: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read login stats: %w", err)
	}
	return stats, nil
}
