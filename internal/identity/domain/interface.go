package domain

//go:generate mockgen -destination=../../mocks/mock_stores.go -package=mocks github.com/danurwenda/identity-service/internal/identity/domain UserStore,SessionStore,AttemptStore,ActivityStore,ReportingStore

import (
	"context"
	"time"
)

type UserStore interface {
	// GetByEmail returns (nil, nil) when no account has the email.
	GetByEmail(ctx context.Context, email string) (*User, error)
	// GetActiveByEmail returns (nil, nil) when no active account matches.
	GetActiveByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*UserWithProfile, error)
	// CreateWithProfile inserts the user, its profile and the default role
	// grant in one transaction. A duplicate email surfaces as
	// errors.ErrEmailAlreadyInUse regardless of any pre-check.
	CreateWithProfile(ctx context.Context, user *User, profile *Profile, roleName string) error
	// RecordAuthFailure increments the failed counter and, iff the
	// post-increment count reaches threshold, sets locked_until in the same
	// statement.
	RecordAuthFailure(ctx context.Context, userID string, threshold int, lockFor time.Duration, now time.Time) error
	// RecordAuthSuccess resets the failed counter, clears the lock, bumps
	// the login counter and stamps last_login_at, atomically.
	RecordAuthSuccess(ctx context.Context, userID string, now time.Time) error
	UpdateProfile(ctx context.Context, userID, firstName, lastName string, now time.Time) (*Profile, error)
}

type SessionStore interface {
	Create(ctx context.Context, session *Session) error
	// ValidateAndTouch bumps last_activity_at and returns the session in a
	// single conditional update. Unknown, invalidated or expired tokens
	// yield (nil, nil).
	ValidateAndTouch(ctx context.Context, token string, now time.Time) (*Session, error)
	// Invalidate marks the session invalid regardless of current state and
	// returns the owning user id, or "" when the token is unknown.
	// Idempotent.
	Invalidate(ctx context.Context, token string) (string, error)
	InvalidateAllForUser(ctx context.Context, userID string) (int64, error)
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}

type AttemptStore interface {
	RecordLoginAttempt(ctx context.Context, email, ipHash string, successful bool, failureReason *string, now time.Time) error
	CountRecentFailures(ctx context.Context, email, ipHash string, since time.Time) (int, error)
}

type ActivityStore interface {
	Append(ctx context.Context, record *ActivityRecord) error
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type ReportingStore interface {
	AccountStats(ctx context.Context, now time.Time) (*AccountStats, error)
	LoginStatsByDay(ctx context.Context, since time.Time) ([]LoginDayStat, error)
}
