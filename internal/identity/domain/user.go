package domain

import "time"

type User struct {
	ID                  string
	Email               string
	PasswordHash        string
	IsActive            bool
	EmailVerified       bool
	FailedLoginAttempts int
	LockedUntil         *time.Time
	LoginCount          int
	LastLoginAt         *time.Time
	RoleName            string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Locked reports whether the account's lockout window is still open.
func (u *User) Locked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}

// Profile holds display fields only; it shares the owning user's lifecycle.
type Profile struct {
	UserID    string
	FirstName string
	LastName  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type UserWithProfile struct {
	User    User
	Profile Profile
}

// RoleGrant associates an account with a role. Unique per (user, role).
type RoleGrant struct {
	UserID    string
	RoleName  string
	GrantedBy *string
	GrantedAt time.Time
}
