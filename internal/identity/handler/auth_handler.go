package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/danurwenda/identity-service/internal/identity/domain"
	"github.com/danurwenda/identity-service/internal/identity/dto"
	"github.com/danurwenda/identity-service/internal/identity/service"
	autherror "github.com/danurwenda/identity-service/internal/errors"
)

type AuthHandler struct {
	authService    *service.AuthService
	sessionService *service.SessionService
	maintenance    *service.MaintenanceService
	reporting      *service.ReportingService
	tokens         service.TokenGenerator
}

func NewAuthHandler(authService *service.AuthService, sessionService *service.SessionService,
	maintenance *service.MaintenanceService, reporting *service.ReportingService,
	tokens service.TokenGenerator) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		sessionService: sessionService,
		maintenance:    maintenance,
		reporting:      reporting,
		tokens:         tokens,
	}
}

func userOutput(uw *domain.UserWithProfile) dto.UserOutput {
	return dto.UserOutput{
		ID:            uw.User.ID,
		Email:         uw.User.Email,
		FirstName:     uw.Profile.FirstName,
		LastName:      uw.Profile.LastName,
		EmailVerified: uw.User.EmailVerified,
		CreatedAt:     uw.User.CreatedAt,
	}
}

func sessionOutput(s *domain.Session) dto.SessionOutput {
	return dto.SessionOutput{
		Token:          s.Token,
		CreatedAt:      s.CreatedAt,
		LastActivityAt: s.LastActivityAt,
		ExpiresAt:      s.ExpiresAt,
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	user, err := h.authService.Register(c.Context(), input)
	if err != nil {
		var vErr *autherror.ValidationError
		switch {
		case errors.As(err, &vErr):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  "validation failed",
				"fields": vErr.Fields,
			})
		case errors.Is(err, autherror.ErrEmailAlreadyInUse):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": autherror.ErrEmailAlreadyInUse.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(userOutput(user))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	// Caller identity, read-only; only derived forms are stored.
	input.IPAddress = c.IP()
	input.UserAgent = string(c.Request().Header.UserAgent())
	input.AcceptLanguage = c.Get(fiber.HeaderAcceptLanguage)
	input.AcceptEncoding = c.Get(fiber.HeaderAcceptEncoding)

	result, err := h.authService.Authenticate(c.Context(), input)
	if err != nil {
		switch {
		// Rate limit and lockout present identically to the caller; the
		// distinction lives only in the attempt ledger.
		case errors.Is(err, autherror.ErrTooManyLoginAttempts),
			errors.Is(err, autherror.ErrAccountLocked):
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "try again later",
			})
		case errors.Is(err, autherror.ErrInvalidCredentials):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid credentials",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(dto.LoginResponse{
		User:        userOutput(result.User),
		Session:     sessionOutput(result.Session),
		AccessToken: result.AccessToken,
	})
}

func (h *AuthHandler) ValidateSession(c *fiber.Ctx) error {
	token := c.Get("X-Session-Token")

	session, err := h.sessionService.Validate(c.Context(), token)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}
	if session == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "invalid session",
		})
	}

	return c.Status(fiber.StatusOK).JSON(sessionOutput(session))
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token := c.Get("X-Session-Token")

	if err := h.sessionService.Invalidate(c.Context(), token); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	session, ok := c.Locals(sessionLocalKey).(*domain.Session)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "invalid session",
		})
	}

	var input dto.UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	profile, err := h.authService.UpdateProfile(c.Context(), session.UserID, input)
	if err != nil {
		var vErr *autherror.ValidationError
		switch {
		case errors.As(err, &vErr):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  "validation failed",
				"fields": vErr.Fields,
			})
		case errors.Is(err, autherror.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": autherror.ErrUserNotFound.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"first_name": profile.FirstName,
		"last_name":  profile.LastName,
		"updated_at": profile.UpdatedAt,
	})
}
