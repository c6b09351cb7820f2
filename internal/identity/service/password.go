package service

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

//go:generate mockgen -destination=../../mocks/mock_password_hasher.go -package=mocks github.com/danurwenda/identity-service/internal/identity/service PasswordHasher

// PasswordHasher is the one-way, salted, tunable-cost hash primitive. The
// service treats it as a black box with a constant-time verify.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

type BcryptHasher struct {
	Cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{Cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (h *BcryptHasher) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

const allowedSymbols = "!@#$%^&*()_+-=[]{}|;:,.<>?"

// checkPasswordPolicy enforces the character-class rules on top of the
// length bounds already covered by the DTO tags.
func checkPasswordPolicy(password string) string {
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, c := range password {
		switch {
		case c >= 'a' && c <= 'z':
			hasLower = true
		case c >= 'A' && c <= 'Z':
			hasUpper = true
		case c >= '0' && c <= '9':
			hasDigit = true
		case strings.ContainsRune(allowedSymbols, c):
			hasSymbol = true
		}
	}
	switch {
	case !hasLower:
		return "must contain a lowercase letter"
	case !hasUpper:
		return "must contain an uppercase letter"
	case !hasDigit:
		return "must contain a digit"
	case !hasSymbol:
		return "must contain a symbol (" + allowedSymbols + ")"
	}
	return ""
}
