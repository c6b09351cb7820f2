package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/danurwenda/identity-service/internal/identity/dto"
	autherror "github.com/danurwenda/identity-service/internal/errors"
)

// ForceLogout invalidates every session of the given account.
func (h *AuthHandler) ForceLogout(c *fiber.Ctx) error {
	userID := c.Params("id")

	count, err := h.sessionService.InvalidateAll(c.Context(), userID)
	if err != nil {
		if errors.Is(err, autherror.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": autherror.ErrUserNotFound.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(dto.MaintenanceResult{Affected: count})
}

func (h *AuthHandler) GetAccountStats(c *fiber.Ctx) error {
	stats, err := h.reporting.AccountStats(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(dto.AccountStatsOutput{
		TotalAccounts:    stats.TotalAccounts,
		ActiveAccounts:   stats.ActiveAccounts,
		VerifiedAccounts: stats.VerifiedAccounts,
		CreatedToday:     stats.CreatedToday,
		ActiveSessions:   stats.ActiveSessions,
	})
}

func (h *AuthHandler) GetLoginStats(c *fiber.Ctx) error {
	days, _ := strconv.Atoi(c.Query("days", "7"))

	stats, err := h.reporting.LoginStats(c.Context(), days)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	out := make([]dto.LoginDayStatOutput, 0, len(stats))
	for _, s := range stats {
		out = append(out, dto.LoginDayStatOutput{
			Day:       s.Day,
			Succeeded: s.Succeeded,
			Failed:    s.Failed,
		})
	}
	return c.Status(fiber.StatusOK).JSON(out)
}

func (h *AuthHandler) SweepSessions(c *fiber.Ctx) error {
	count, err := h.maintenance.SweepExpiredSessions(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}
	return c.Status(fiber.StatusOK).JSON(dto.MaintenanceResult{Affected: count})
}

func (h *AuthHandler) PruneActivity(c *fiber.Ctx) error {
	days, _ := strconv.Atoi(c.Query("days", "90"))

	count, err := h.maintenance.PruneActivityLog(c.Context(), days)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}
	return c.Status(fiber.StatusOK).JSON(dto.MaintenanceResult{Affected: count})
}
