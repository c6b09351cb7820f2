package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/danurwenda/identity-service/internal/identity/domain"
	"github.com/danurwenda/identity-service/pkg/constant"
)

// MaintenanceService reclaims expired sessions and aged activity records.
// Both operations are monotonic and idempotent, so overlapping runs need no
// coordination.
type MaintenanceService struct {
	sessions domain.SessionStore
	activity domain.ActivityStore
	logger   *zap.Logger
	now      func() time.Time
}

func NewMaintenanceService(sessions domain.SessionStore, activity domain.ActivityStore, logger *zap.Logger) *MaintenanceService {
	return &MaintenanceService{
		sessions: sessions,
		activity: activity,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the service clock. Tests only.
func (s *MaintenanceService) WithClock(now func() time.Time) *MaintenanceService {
	s.now = now
	return s
}

// SweepExpiredSessions marks valid-but-expired sessions invalid in bulk and
// returns the number of rows reclaimed.
func (s *MaintenanceService) SweepExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessions.SweepExpired(ctx, s.now())
}

// PruneActivityLog deletes activity records older than the retention
// window. Irreversible; audit-only data.
func (s *MaintenanceService) PruneActivityLog(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		retentionDays = constant.DefaultRetentionDays
	}
	cutoff := s.now().AddDate(0, 0, -retentionDays)
	return s.activity.PruneOlderThan(ctx, cutoff)
}

// Run executes both maintenance passes on a fixed interval until the
// context is cancelled.
func (s *MaintenanceService) Run(ctx context.Context, interval time.Duration, retentionDays int) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			swept, err := s.SweepExpiredSessions(ctx)
			if err != nil {
				s.logger.Error("session sweep failed", zap.Error(err))
			} else if swept > 0 {
				s.logger.Info("swept expired sessions", zap.Int64("count", swept))
			}

			pruned, err := s.PruneActivityLog(ctx, retentionDays)
			if err != nil {
				s.logger.Error("activity prune failed", zap.Error(err))
			} else if pruned > 0 {
				s.logger.Info("pruned activity records", zap.Int64("count", pruned))
			}
		}
	}
}
