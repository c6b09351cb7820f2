package dto

import "time"

type AccountStatsOutput struct {
	TotalAccounts    int64 `json:"total_accounts"`
	ActiveAccounts   int64 `json:"active_accounts"`
	VerifiedAccounts int64 `json:"verified_accounts"`
	CreatedToday     int64 `json:"created_today"`
	ActiveSessions   int64 `json:"active_sessions"`
}

type LoginDayStatOutput struct {
	Day       time.Time `json:"day"`
	Succeeded int64     `json:"succeeded"`
	Failed    int64     `json:"failed"`
}

type MaintenanceResult struct {
	Affected int64 `json:"affected"`
}
