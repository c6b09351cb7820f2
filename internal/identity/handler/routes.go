package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/danurwenda/identity-service/pkg/constant"
)

func RegisterRoutes(app *fiber.App, h *AuthHandler) {
	app.Post("/api/v1/register", h.Register)
	app.Post("/api/v1/login", h.Login)
	app.Get("/api/v1/session", h.ValidateSession)
	app.Delete("/api/v1/session", h.Logout)
	app.Patch("/api/v1/profile", h.SessionRequired(), h.UpdateProfile)

	// Admin-only endpoints
	admin := app.Group("/api/v1/admin", h.RequireRole(constant.AdminRoleName))
	admin.Delete("/user/:id/sessions", h.ForceLogout)
	admin.Get("/stats/accounts", h.GetAccountStats)
	admin.Get("/stats/logins", h.GetLoginStats)
	admin.Post("/maintenance/sessions/sweep", h.SweepSessions)
	admin.Post("/maintenance/activity/prune", h.PruneActivity)
}
