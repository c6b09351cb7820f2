package dto

import "time"

type UserOutput struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

type SessionOutput struct {
	Token          string    `json:"token"`
	CreatedAt      time.Time `json:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}

type LoginResponse struct {
	User        UserOutput    `json:"user"`
	Session     SessionOutput `json:"session"`
	AccessToken string        `json:"access_token"`
}

type UpdateProfileInput struct {
	FirstName string `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string `json:"last_name" validate:"required,min=1,max=100"`
}
