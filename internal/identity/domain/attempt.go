package domain

import "time"

// LoginAttempt is an immutable ledger fact. Rows are appended, never
// updated; concurrent writers cannot conflict.
type LoginAttempt struct {
	ID            string
	Email         string
	IPHash        string
	Successful    bool
	FailureReason *string
	AttemptTime   time.Time
}
