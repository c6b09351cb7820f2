package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danurwenda/identity-service/internal/identity/domain"
	repo "github.com/danurwenda/identity-service/internal/identity/repository/postgres"
	autherror "github.com/danurwenda/identity-service/internal/errors"
)

var userColumns = []string{"id", "email", "password_hash", "is_active", "email_verified",
	"failed_login_attempts", "locked_until", "login_count", "last_login_at",
	"role_name", "created_at", "updated_at"}

func userRow(id, email string) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows(userColumns).
		AddRow(id, email, "hash", true, false, 0, nil, 0, nil, "user", now, now)
}

// TestGetByEmail covers the GetByEmail repository method.
func TestGetByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewRepository(mock)
	userEmail := "ann@example.com"
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("SELECT u.id, u.email").
			WithArgs(userEmail).
			WillReturnRows(userRow("user-123", userEmail))

		user, err := r.GetByEmail(ctx, userEmail)
		require.NoError(t, err)
		assert.Equal(t, "user-123", user.ID)
		assert.Equal(t, "user", user.RoleName)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT u.id, u.email").
			WithArgs(userEmail).
			WillReturnError(pgx.ErrNoRows)

		user, err := r.GetByEmail(ctx, userEmail)
		require.NoError(t, err) // Should return nil user, nil error
		assert.Nil(t, user)
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectQuery("SELECT u.id, u.email").
			WithArgs(userEmail).
			WillReturnError(fmt.Errorf("db error"))

		_, err := r.GetByEmail(ctx, userEmail)
		assert.Error(t, err)
	})
}

func TestGetActiveByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewRepository(mock)
	ctx := context.Background()

	t.Run("inactive accounts do not match", func(t *testing.T) {
		mock.ExpectQuery("AND u.is_active").
			WithArgs("gone@example.com").
			WillReturnError(pgx.ErrNoRows)

		user, err := r.GetActiveByEmail(ctx, "gone@example.com")
		require.NoError(t, err)
		assert.Nil(t, user)
	})
}

// TestCreateWithProfile covers transactional account creation.
func TestCreateWithProfile(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewRepository(mock)
	ctx := context.Background()

	now := time.Now()
	user := &domain.User{
		ID:           "user-123",
		Email:        "ann@example.com",
		PasswordHash: "hash",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	profile := &domain.Profile{
		UserID:    user.ID,
		FirstName: "Ann",
		LastName:  "Lee",
		CreatedAt: now,
		UpdatedAt: now,
	}

	t.Run("success commits user, profile and role grant", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, user.Email, user.PasswordHash, user.IsActive,
				user.EmailVerified, user.CreatedAt, user.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec("INSERT INTO profiles").
			WithArgs(user.ID, profile.FirstName, profile.LastName, profile.CreatedAt, profile.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec("INSERT INTO user_roles").
			WithArgs(user.ID, "user", user.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		err := r.CreateWithProfile(ctx, user, profile, "user")
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email maps to ErrEmailAlreadyInUse", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, user.Email, user.PasswordHash, user.IsActive,
				user.EmailVerified, user.CreatedAt, user.UpdatedAt).
			WillReturnError(&pgconn.PgError{Code: "23505"})
		mock.ExpectRollback()

		err := r.CreateWithProfile(ctx, user, profile, "user")
		assert.ErrorIs(t, err, autherror.ErrEmailAlreadyInUse)
	})

	t.Run("profile insert failure rolls back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, user.Email, user.PasswordHash, user.IsActive,
				user.EmailVerified, user.CreatedAt, user.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec("INSERT INTO profiles").
			WithArgs(user.ID, profile.FirstName, profile.LastName, profile.CreatedAt, profile.UpdatedAt).
			WillReturnError(fmt.Errorf("db error"))
		mock.ExpectRollback()

		err := r.CreateWithProfile(ctx, user, profile, "user")
		assert.Error(t, err)
	})
}

// TestRecordAuthFailure verifies the increment and conditional lock happen
// in one statement.
func TestRecordAuthFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewRepository(mock)
	ctx := context.Background()
	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("UPDATE users").
			WithArgs("user-123", 5, now.Add(15*time.Minute), now).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := r.RecordAuthFailure(ctx, "user-123", 5, 15*time.Minute, now)
		assert.NoError(t, err)
	})

	t.Run("unknown user", func(t *testing.T) {
		mock.ExpectExec("UPDATE users").
			WithArgs("missing", 5, now.Add(15*time.Minute), now).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := r.RecordAuthFailure(ctx, "missing", 5, 15*time.Minute, now)
		assert.ErrorIs(t, err, autherror.ErrUserNotFound)
	})
}

func TestRecordAuthSuccess(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewRepository(mock)
	ctx := context.Background()
	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("UPDATE users").
			WithArgs("user-123", now).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := r.RecordAuthSuccess(ctx, "user-123", now)
		assert.NoError(t, err)
	})

	t.Run("unknown user", func(t *testing.T) {
		mock.ExpectExec("UPDATE users").
			WithArgs("missing", now).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := r.RecordAuthSuccess(ctx, "missing", now)
		assert.ErrorIs(t, err, autherror.ErrUserNotFound)
	})
}

func TestUpdateProfile(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewRepository(mock)
	ctx := context.Background()
	now := time.Now()

	profileColumns := []string{"user_id", "first_name", "last_name", "created_at", "updated_at"}

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("UPDATE profiles").
			WithArgs("user-123", "Anna", "Lee", now).
			WillReturnRows(pgxmock.NewRows(profileColumns).
				AddRow("user-123", "Anna", "Lee", now, now))

		profile, err := r.UpdateProfile(ctx, "user-123", "Anna", "Lee", now)
		require.NoError(t, err)
		assert.Equal(t, "Anna", profile.FirstName)
	})

	t.Run("unknown user", func(t *testing.T) {
		mock.ExpectQuery("UPDATE profiles").
			WithArgs("missing", "Anna", "Lee", now).
			WillReturnError(pgx.ErrNoRows)

		_, err := r.UpdateProfile(ctx, "missing", "Anna", "Lee", now)
		assert.ErrorIs(t, err, autherror.ErrUserNotFound)
	})
}
