package domain

import "time"

// Session is a revocable proof of a successful authentication, keyed by an
// opaque random token. It is usable iff IsValid and the expiry has not
// passed; expiry is enforced at read time and reclaimed by the sweeper.
type Session struct {
	Token             string
	UserID            string
	DeviceFingerprint string
	IPHash            string
	IsValid           bool
	CreatedAt         time.Time
	LastActivityAt    time.Time
	ExpiresAt         time.Time
}
