package constant

import "time"

const (
	// DefaultRoleName is granted to every account at registration.
	DefaultRoleName = "user"
	AdminRoleName   = "admin"

	// MaxFailedAttempts is shared by the per-email+source rate limit and
	// the per-account lockout. They remain distinct mechanisms: the rate
	// limit counts ledger rows in a rolling window, the lockout is a fixed
	// locked_until timestamp on the account row.
	MaxFailedAttempts = 5

	AttemptWindow   = 15 * time.Minute
	LockoutDuration = 15 * time.Minute
	SessionTTL      = 24 * time.Hour

	DefaultRetentionDays = 90

	SessionTokenBytes = 32

	// Attempt failure reasons recorded in the login_attempts ledger.
	ReasonRateLimited     = "rate_limited"
	ReasonUserNotFound    = "user_not_found"
	ReasonAccountLocked   = "account_locked"
	ReasonInvalidPassword = "invalid_password"

	// Activity log action names.
	ActionRegister         = "register"
	ActionLogin            = "login"
	ActionLogout           = "logout"
	ActionProfileUpdate    = "profile_update"
	ActionSessionRevokeAll = "session_revoke_all"
)
