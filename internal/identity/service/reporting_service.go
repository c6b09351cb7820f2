package service

import (
	"context"
	"time"

	"github.com/danurwenda/identity-service/internal/identity/domain"
)

// ReportingService is read-only aggregation; counts reflect storage state
// at query time and carry no invariants.
type ReportingService struct {
	reports domain.ReportingStore
	now     func() time.Time
}

func NewReportingService(reports domain.ReportingStore) *ReportingService {
	return &ReportingService{reports: reports, now: time.Now}
}

// WithClock overrides the service clock. Tests only.
func (s *ReportingService) WithClock(now func() time.Time) *ReportingService {
	s.now = now
	return s
}

func (s *ReportingService) AccountStats(ctx context.Context) (*domain.AccountStats, error) {
	return s.reports.AccountStats(ctx, s.now())
}

func (s *ReportingService) LoginStats(ctx context.Context, days int) ([]domain.LoginDayStat, error) {
	if days <= 0 {
		days = 7
	}
	if days > 365 {
		days = 365
	}
	since := s.now().AddDate(0, 0, -days)
	return s.reports.LoginStatsByDay(ctx, since)
}
