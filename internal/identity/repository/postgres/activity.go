package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/danurwenda/identity-service/internal/identity/domain"
)

func (r *Repository) Append(ctx context.Context, record *domain.ActivityRecord) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO activity_log (id, user_id, session_token, action, resource,
			ip_hash, metadata, successful, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, record.ID, record.UserID, record.SessionToken, record.Action, record.Resource,
		record.IPHash, record.Metadata, record.Successful, record.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append activity record: %w", err)
	}
	return nil
}

func (r *Repository) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM activity_log WHERE created_at < $1
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune activity log: %w", err)
	}
	return tag.RowsAffected(), nil
}
