package auth

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"supermercado-backend/internal/httpx"
	"supermercado-backend/internal/logger"
	"supermercado-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedApp(t *testing.T, tokens *TokenManager, users UserLookup) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{ErrorHandler: httpx.ErrorHandler(logger.NewNop())})

	protected := app.Group("", JWTMiddleware(tokens, users))
	protected.Get("/me", func(c *fiber.Ctx) error {
		u, err := CurrentUser(c)
		if err != nil {
			return err
		}
		return c.SendString(u.Username)
	})
	protected.Get("/admin", RequireRole(models.RoleAdministrator), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func doGet(t *testing.T, app *fiber.App, path, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestJWTMiddleware(t *testing.T) {
	tokens := NewTokenManager(testSecret, time.Minute)
	users := newMemUsers()
	require.NoError(t, users.Create(context.Background(), &models.User{Username: "ana", Role: models.RoleBuyer}))
	app := newProtectedApp(t, tokens, users)

	valid, _, err := tokens.Issue("ana", models.RoleBuyer)
	require.NoError(t, err)
	ghost, _, err := tokens.Issue("fantasma", models.RoleAdministrator)
	require.NoError(t, err)

	status, body := doGet(t, app, "/me", valid)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ana", body)

	status, _ = doGet(t, app, "/me", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body = doGet(t, app, "/me", "garbage")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Contains(t, body, "Token inválido")

	// signed correctly, but the user no longer exists
	status, _ = doGet(t, app, "/me", ghost)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestJWTMiddleware_MalformedHeader(t *testing.T) {
	app := newProtectedApp(t, NewTokenManager(testSecret, time.Minute), newMemUsers())

	req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Basic YW5hOnNlY3JldG8=")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Bearer", resp.Header.Get(fiber.HeaderWWWAuthenticate))
}

func TestRequireRole(t *testing.T) {
	tokens := NewTokenManager(testSecret, time.Minute)
	users := newMemUsers()
	ctx := context.Background()
	require.NoError(t, users.Create(ctx, &models.User{Username: "ana", Role: models.RoleBuyer}))
	require.NoError(t, users.Create(ctx, &models.User{Username: "root", Role: models.RoleAdministrator}))
	app := newProtectedApp(t, tokens, users)

	buyerTok, _, err := tokens.Issue("ana", models.RoleBuyer)
	require.NoError(t, err)
	adminTok, _, err := tokens.Issue("root", models.RoleAdministrator)
	require.NoError(t, err)

	status, body := doGet(t, app, "/admin", buyerTok)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Contains(t, body, "No tienes permisos")

	status, _ = doGet(t, app, "/admin", adminTok)
	assert.Equal(t, fiber.StatusOK, status)
}
