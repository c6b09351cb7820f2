package domain

import "time"

// AccountStats is a point-in-time aggregate; counts reflect storage state
// at query time, nothing more.
type AccountStats struct {
	TotalAccounts    int64
	ActiveAccounts   int64
	VerifiedAccounts int64
	CreatedToday     int64
	ActiveSessions   int64
}

// LoginDayStat is one day of the trailing login success/failure breakdown.
type LoginDayStat struct {
	Day       time.Time
	Succeeded int64
	Failed    int64
}
