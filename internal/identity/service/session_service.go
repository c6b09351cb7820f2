package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/danurwenda/identity-service/internal/identity/domain"
	"github.com/danurwenda/identity-service/pkg/constant"
)

// SessionService guards inbound session tokens: validation slides the idle
// window, invalidation revokes one or all sessions for an account.
type SessionService struct {
	sessions domain.SessionStore
	users    domain.UserStore
	activity domain.ActivityStore
	logger   *zap.Logger
	now      func() time.Time
}

func NewSessionService(sessions domain.SessionStore, users domain.UserStore,
	activity domain.ActivityStore, logger *zap.Logger) *SessionService {
	return &SessionService{
		sessions: sessions,
		users:    users,
		activity: activity,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the service clock. Tests only.
func (s *SessionService) WithClock(now func() time.Time) *SessionService {
	s.now = now
	return s
}

// Validate returns (nil, nil) for unknown, revoked or expired tokens; a
// usable session comes back with its last-activity already bumped. Single
// statement underneath, this is the per-request hot path.
func (s *SessionService) Validate(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, nil
	}
	return s.sessions.ValidateAndTouch(ctx, token, s.now())
}

// Invalidate marks the session invalid. Idempotent: unknown or already
// revoked tokens are not errors.
func (s *SessionService) Invalidate(ctx context.Context, token string) error {
	userID, err := s.sessions.Invalidate(ctx, token)
	if err != nil {
		return err
	}
	if userID != "" {
		s.appendActivity(ctx, userID, &token, constant.ActionLogout)
	}
	return nil
}

// InvalidateAll revokes every session for the account; used on password
// change or security revocation.
func (s *SessionService) InvalidateAll(ctx context.Context, userID string) (int64, error) {
	// Existence check first so the caller can tell a bad id from an
	// account that simply has no live sessions.
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return 0, err
	}

	count, err := s.sessions.InvalidateAllForUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.appendActivity(ctx, userID, nil, constant.ActionSessionRevokeAll)
	return count, nil
}

func (s *SessionService) appendActivity(ctx context.Context, userID string, sessionToken *string, action string) {
	record := &domain.ActivityRecord{
		ID:           uuid.NewString(),
		UserID:       userID,
		SessionToken: sessionToken,
		Action:       action,
		Successful:   true,
		CreatedAt:    s.now(),
	}
	if err := s.activity.Append(ctx, record); err != nil {
		s.logger.Warn("failed to append activity record",
			zap.String("action", action), zap.String("user_id", userID), zap.Error(err))
	}
}
