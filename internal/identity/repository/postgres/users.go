package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/danurwenda/identity-service/internal/identity/domain"
	autherror "github.com/danurwenda/identity-service/internal/errors"
)

const userColumns = `u.id, u.email, u.password_hash, u.is_active, u.email_verified,
		u.failed_login_attempts, u.locked_until, u.login_count, u.last_login_at,
		COALESCE((SELECT r.name FROM user_roles ur JOIN roles r ON r.id = ur.role_id
		          WHERE ur.user_id = u.id ORDER BY ur.granted_at LIMIT 1), 'user'),
		u.created_at, u.updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsActive, &u.EmailVerified,
		&u.FailedLoginAttempts, &u.LockedUntil, &u.LoginCount, &u.LastLoginAt,
		&u.RoleName, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM users u
		WHERE u.email = $1
		LIMIT 1;
	`, userColumns)

	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (r *Repository) GetActiveByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM users u
		WHERE u.email = $1 AND u.is_active
		LIMIT 1;
	`, userColumns)

	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active user by email: %w", err)
	}
	return user, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.UserWithProfile, error) {
	query := fmt.Sprintf(`
		SELECT %s,
		       p.first_name, p.last_name, p.created_at, p.updated_at
		FROM users u
		JOIN profiles p ON p.user_id = u.id
		WHERE u.id = $1;
	`, userColumns)
	var uw domain.UserWithProfile
	u := &uw.User
	p := &uw.Profile
	err := r.db.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.IsActive, &u.EmailVerified,
		&u.FailedLoginAttempts, &u.LockedUntil, &u.LoginCount, &u.LastLoginAt,
		&u.RoleName, &u.CreatedAt, &u.UpdatedAt,
		&p.FirstName, &p.LastName, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, autherror.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	p.UserID = u.ID
	return &uw, nil
}

// CreateWithProfile inserts the user, profile and default role grant in one
// transaction. The unique index on users.email is the duplicate guard; a
// unique violation maps to ErrEmailAlreadyInUse so that concurrent
// registrations for the same email cannot both succeed.
func (r *Repository) CreateWithProfile(ctx context.Context, user *domain.User, profile *domain.Profile, roleName string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, is_active, email_verified,
			failed_login_attempts, locked_until, login_count, last_login_at,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, NULL, 0, NULL, $6, $7)
	`, user.ID, user.Email, user.PasswordHash, user.IsActive, user.EmailVerified,
		user.CreatedAt, user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return autherror.ErrEmailAlreadyInUse
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO profiles (user_id, first_name, last_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, user.ID, profile.FirstName, profile.LastName, profile.CreatedAt, profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert profile: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO user_roles (user_id, role_id, granted_at)
		SELECT $1, id, $3 FROM roles WHERE name = $2
	`, user.ID, roleName, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to grant default role: %w", err)
	}

	return tx.Commit(ctx)
}

// RecordAuthFailure bumps the failed counter and decides the lockout in a
// single conditional statement so that concurrent failures can neither
// under-count nor double-trigger the lock.
func (r *Repository) RecordAuthFailure(ctx context.Context, userID string, threshold int, lockFor time.Duration, now time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET failed_login_attempts = failed_login_attempts + 1,
		    locked_until = CASE
		        WHEN failed_login_attempts + 1 >= $2 THEN $3::timestamptz
		        ELSE locked_until
		    END,
		    updated_at = $4
		WHERE id = $1
	`, userID, threshold, now.Add(lockFor), now)
	if err != nil {
		return fmt.Errorf("failed to record auth failure: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return autherror.ErrUserNotFound
	}
	return nil
}

func (r *Repository) RecordAuthSuccess(ctx context.Context, userID string, now time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET failed_login_attempts = 0,
		    locked_until = NULL,
		    login_count = login_count + 1,
		    last_login_at = $2,
		    updated_at = $2
		WHERE id = $1
	`, userID, now)
	if err != nil {
		return fmt.Errorf("failed to record auth success: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return autherror.ErrUserNotFound
	}
	return nil
}

func (r *Repository) UpdateProfile(ctx context.Context, userID, firstName, lastName string, now time.Time) (*domain.Profile, error) {
	query := `
		UPDATE profiles
		SET first_name = $2, last_name = $3, updated_at = $4
		WHERE user_id = $1
		RETURNING user_id, first_name, last_name, created_at, updated_at;
	`
	var p domain.Profile
	err := r.db.QueryRow(ctx, query, userID, firstName, lastName, now).
		Scan(&p.UserID, &p.FirstName, &p.LastName, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, autherror.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return &p, nil
}
