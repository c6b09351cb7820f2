package handler_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danurwenda/identity-service/internal/identity/domain"
	"github.com/danurwenda/identity-service/internal/identity/handler"
	"github.com/danurwenda/identity-service/internal/identity/service"
)

// TestRegisterRoutes verifies that all non-protected routes are mounted
// correctly.
func TestRegisterRoutes(t *testing.T) {
	f := newHandlerFixture(t)

	// The session routes hit the store before responding.
	f.sessions.EXPECT().ValidateAndTouch(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil).AnyTimes()
	f.sessions.EXPECT().Invalidate(gomock.Any(), gomock.Any()).
		Return("", nil).AnyTimes()

	app := fiber.New()
	handler.RegisterRoutes(app, f.handler)

	testCases := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/register"},
		{http.MethodPost, "/api/v1/login"},
		{http.MethodGet, "/api/v1/session"},
		{http.MethodDelete, "/api/v1/session"},
		{http.MethodPatch, "/api/v1/profile"},
		{http.MethodDelete, "/api/v1/admin/user/user-123/sessions"},
		{http.MethodGet, "/api/v1/admin/stats/accounts"},
		{http.MethodGet, "/api/v1/admin/stats/logins"},
		{http.MethodPost, "/api/v1/admin/maintenance/sessions/sweep"},
		{http.MethodPost, "/api/v1/admin/maintenance/activity/prune"},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s_%s_exists", tc.method, tc.path), func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			resp, err := app.Test(req, -1)
			require.NoError(t, err)

			// We only care that the route exists. A 404 means it doesn't.
			// The handlers themselves return other codes (400, 401) for
			// requests with no body or credentials.
			assert.NotEqual(t, http.StatusNotFound, resp.StatusCode)
		})
	}
}

// TestRequireRoleMiddleware provides focused testing for the admin-only
// endpoints.
func TestRequireRoleMiddleware(t *testing.T) {
	f := newHandlerFixture(t)

	app := fiber.New()
	handler.RegisterRoutes(app, f.handler)

	adminRoute := "/api/v1/admin/user/user-123/sessions"

	t.Run("fails without auth header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, adminRoute, nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("fails with malformed token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, adminRoute, nil)
		req.Header.Set("Authorization", "BearerInvalidToken") // No space
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("fails with unverifiable token", func(t *testing.T) {
		f.tokens.EXPECT().VerifyAccessToken("garbage").Return(nil, jwt.ErrTokenMalformed)

		req := httptest.NewRequest(http.MethodDelete, adminRoute, nil)
		req.Header.Set("Authorization", "Bearer garbage")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("fails for non-admin user", func(t *testing.T) {
		claims := &service.JWTCustomClaims{UserID: "user-123", Role: "user"}
		f.tokens.EXPECT().VerifyAccessToken("user-token").Return(claims, nil)

		req := httptest.NewRequest(http.MethodDelete, adminRoute, nil)
		req.Header.Set("Authorization", "Bearer user-token")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("succeeds for admin user", func(t *testing.T) {
		adminClaims := &service.JWTCustomClaims{
			UserID: "admin-456",
			Role:   "admin",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}

		f.tokens.EXPECT().VerifyAccessToken("admin-token").Return(adminClaims, nil)
		f.users.EXPECT().GetByID(gomock.Any(), "user-123").
			Return(&domain.UserWithProfile{User: domain.User{ID: "user-123"}}, nil)
		f.sessions.EXPECT().InvalidateAllForUser(gomock.Any(), "user-123").Return(int64(2), nil)
		f.activity.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)

		req := httptest.NewRequest(http.MethodDelete, adminRoute, nil)
		req.Header.Set("Authorization", "Bearer admin-token")

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
