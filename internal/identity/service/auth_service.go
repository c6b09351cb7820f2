package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-playground/validator"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/danurwenda/identity-service/config"
	"github.com/danurwenda/identity-service/internal/identity/domain"
	"github.com/danurwenda/identity-service/internal/identity/dto"
	autherror "github.com/danurwenda/identity-service/internal/errors"
	"github.com/danurwenda/identity-service/pkg/constant"
)

var validate = validator.New()

// LoginResult is what a successful authentication hands back: the account
// with its profile, the freshly issued session, and a short-lived access
// token for the admin API.
type LoginResult struct {
	User        *domain.UserWithProfile
	Session     *domain.Session
	AccessToken string
}

type AuthService struct {
	users    domain.UserStore
	attempts domain.AttemptStore
	sessions domain.SessionStore
	activity domain.ActivityStore
	tokens   TokenGenerator
	hasher   PasswordHasher
	cfg      *config.Config
	logger   *zap.Logger
	now      func() time.Time
}

func NewAuthService(users domain.UserStore, attempts domain.AttemptStore,
	sessions domain.SessionStore, activity domain.ActivityStore,
	tokens TokenGenerator, hasher PasswordHasher, cfg *config.Config,
	logger *zap.Logger) *AuthService {
	return &AuthService{
		users:    users,
		attempts: attempts,
		sessions: sessions,
		activity: activity,
		tokens:   tokens,
		hasher:   hasher,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the service clock. Tests only.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// NormalizeEmail is the canonical form used for storage, lookup and
// attempt accounting.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) maxFailedAttempts() int {
	if s.cfg.MaxFailedAttempts > 0 {
		return s.cfg.MaxFailedAttempts
	}
	return constant.MaxFailedAttempts
}

func (s *AuthService) attemptWindow() time.Duration {
	if s.cfg.AttemptWindowMin > 0 {
		return time.Duration(s.cfg.AttemptWindowMin) * time.Minute
	}
	return constant.AttemptWindow
}

func (s *AuthService) lockoutDuration() time.Duration {
	if s.cfg.LockoutMin > 0 {
		return time.Duration(s.cfg.LockoutMin) * time.Minute
	}
	return constant.LockoutDuration
}

func (s *AuthService) sessionTTL() time.Duration {
	if s.cfg.SessionTTLHours > 0 {
		return time.Duration(s.cfg.SessionTTLHours) * time.Hour
	}
	return constant.SessionTTL
}

func validateRegisterInput(input dto.RegisterInput) error {
	vErr := autherror.NewValidationError()
	if err := validate.Struct(input); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrs {
				switch fe.Field() {
				case "FirstName":
					vErr.Add("first_name", "must be 1-100 characters")
				case "LastName":
					vErr.Add("last_name", "must be 1-100 characters")
				case "Email":
					vErr.Add("email", "must be a valid email of at most 254 characters")
				case "Password":
					vErr.Add("password", "must be 8-128 characters")
				}
			}
		} else {
			return err
		}
	}
	if _, seen := vErr.Fields["password"]; !seen {
		if msg := checkPasswordPolicy(input.Password); msg != "" {
			vErr.Add("password", msg)
		}
	}
	if vErr.HasErrors() {
		return vErr
	}
	return nil
}

// Register creates the account, its profile and the default role grant as
// one atomic unit. The storage-layer unique index on email is the duplicate
// guard; the GetByEmail pre-check only makes the common case cheaper.
func (s *AuthService) Register(ctx context.Context, input dto.RegisterInput) (*domain.UserWithProfile, error) {
	input.Email = NormalizeEmail(input.Email)
	if err := validateRegisterInput(input); err != nil {
		return nil, err
	}

	existing, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, autherror.ErrEmailAlreadyInUse
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		PasswordHash: hash,
		IsActive:     true,
		RoleName:     constant.DefaultRoleName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	profile := &domain.Profile{
		UserID:    user.ID,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.users.CreateWithProfile(ctx, user, profile, constant.DefaultRoleName); err != nil {
		return nil, err
	}

	s.recordActivity(ctx, user.ID, nil, constant.ActionRegister, "", nil, true)

	return &domain.UserWithProfile{User: *user, Profile: *profile}, nil
}

// Authenticate runs the fixed decision sequence: rate limit, existence,
// lockout, password. Every step short-circuits and leaves a ledger row, and
// every policy read hits storage fresh so a concurrent lock or limit is
// never bypassed from a stale view.
func (s *AuthService) Authenticate(ctx context.Context, input dto.LoginInput) (*LoginResult, error) {
	email := NormalizeEmail(input.Email)
	ipHash := HashSourceAddress(input.IPAddress)
	now := s.now()

	// Rate limit first: an abusive caller never reaches the credential
	// check, which also closes the timing oracle on rate-limited requests.
	failures, err := s.attempts.CountRecentFailures(ctx, email, ipHash, now.Add(-s.attemptWindow()))
	if err != nil {
		return nil, err
	}
	if failures >= s.maxFailedAttempts() {
		s.recordAttempt(ctx, email, ipHash, false, constant.ReasonRateLimited, now)
		return nil, autherror.ErrTooManyLoginAttempts
	}

	user, err := s.users.GetActiveByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Indistinguishable from a wrong password to the caller.
		s.recordAttempt(ctx, email, ipHash, false, constant.ReasonUserNotFound, now)
		return nil, autherror.ErrInvalidCredentials
	}

	if user.Locked(now) {
		s.recordAttempt(ctx, email, ipHash, false, constant.ReasonAccountLocked, now)
		return nil, autherror.ErrAccountLocked
	}

	if !s.hasher.Verify(user.PasswordHash, input.Password) {
		// One conditional statement: the increment and the lock decision
		// cannot be split by a concurrent failure.
		if err := s.users.RecordAuthFailure(ctx, user.ID, s.maxFailedAttempts(), s.lockoutDuration(), now); err != nil {
			return nil, err
		}
		s.recordAttempt(ctx, email, ipHash, false, constant.ReasonInvalidPassword, now)
		return nil, autherror.ErrInvalidCredentials
	}

	if err := s.users.RecordAuthSuccess(ctx, user.ID, now); err != nil {
		return nil, err
	}
	s.recordAttempt(ctx, email, ipHash, true, "", now)

	token, err := NewSessionToken()
	if err != nil {
		return nil, err
	}
	session := &domain.Session{
		Token:             token,
		UserID:            user.ID,
		DeviceFingerprint: DeviceFingerprint(input.UserAgent, input.AcceptLanguage, input.AcceptEncoding),
		IPHash:            ipHash,
		IsValid:           true,
		CreatedAt:         now,
		LastActivityAt:    now,
		ExpiresAt:         now.Add(s.sessionTTL()),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	accessToken, _, err := s.tokens.Generate(user.ID, user.Email, user.RoleName)
	if err != nil {
		return nil, err
	}

	userWithProfile, err := s.users.GetByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.recordActivity(ctx, user.ID, &session.Token, constant.ActionLogin, ipHash, nil, true)

	return &LoginResult{
		User:        userWithProfile,
		Session:     session,
		AccessToken: accessToken,
	}, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, input dto.UpdateProfileInput) (*domain.Profile, error) {
	vErr := autherror.NewValidationError()
	if err := validate.Struct(input); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrs {
				switch fe.Field() {
				case "FirstName":
					vErr.Add("first_name", "must be 1-100 characters")
				case "LastName":
					vErr.Add("last_name", "must be 1-100 characters")
				}
			}
		} else {
			return nil, err
		}
	}
	if vErr.HasErrors() {
		return nil, vErr
	}

	profile, err := s.users.UpdateProfile(ctx, userID, input.FirstName, input.LastName, s.now())
	if err != nil {
		return nil, err
	}

	s.recordActivity(ctx, userID, nil, constant.ActionProfileUpdate, "", nil, true)

	return profile, nil
}

func (s *AuthService) recordAttempt(ctx context.Context, email, ipHash string, successful bool, reason string, now time.Time) {
	var failureReason *string
	if reason != "" {
		failureReason = &reason
	}
	if err := s.attempts.RecordLoginAttempt(ctx, email, ipHash, successful, failureReason, now); err != nil {
		s.logger.Warn("failed to record login attempt",
			zap.String("email", email), zap.Error(err))
	}
}

func (s *AuthService) recordActivity(ctx context.Context, userID string, sessionToken *string, action, ipHash string, metadata json.RawMessage, successful bool) {
	record := &domain.ActivityRecord{
		ID:           uuid.NewString(),
		UserID:       userID,
		SessionToken: sessionToken,
		Action:       action,
		IPHash:       ipHash,
		Metadata:     metadata,
		Successful:   successful,
		CreatedAt:    s.now(),
	}
	if err := s.activity.Append(ctx, record); err != nil {
		s.logger.Warn("failed to append activity record",
			zap.String("action", action), zap.String("user_id", userID), zap.Error(err))
	}
}
