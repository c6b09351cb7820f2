package service

//go:generate mockgen -destination=../../mocks/mock_token_generator.go -package=mocks github.com/danurwenda/identity-service/internal/identity/service TokenGenerator

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenGenerator issues and verifies the short-lived access tokens that
// gate the admin API. Session lifecycle stays entirely store-backed; these
// tokens carry identity and role only.
type TokenGenerator interface {
	Generate(userID, email, role string) (string, time.Time, error)
	VerifyAccessToken(tokenString string) (*JWTCustomClaims, error)
}

type TokenService struct {
	Secret string
	Expiry time.Duration
}

type JWTCustomClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

func NewTokenService(secret string, expiryMinutes int) *TokenService {
	return &TokenService{
		Secret: secret,
		Expiry: time.Duration(expiryMinutes) * time.Minute,
	}
}

func (ts *TokenService) Generate(userID, email, role string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ts.Expiry)

	claims := JWTCustomClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(ts.Secret))
	if err != nil {
		return "", time.Time{}, err
	}

	return token, expiresAt, nil
}

// VerifyAccessToken parses and validates the given access token string.
func (ts *TokenService) VerifyAccessToken(tokenString string) (*JWTCustomClaims, error) {
	claims := &JWTCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(ts.Secret), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
