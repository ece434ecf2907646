package auth

import (
	"context"
	"errors"
	"strings"

	"supermercado-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

const CtxUserKey = "current_user"

// UserLookup resolves the token subject to a stored user.
type UserLookup interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// JWTMiddleware verifies the bearer token and loads the user it names. A
// valid token whose user no longer exists is rejected.
func JWTMiddleware(tokens *TokenManager, users UserLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return models.NewError(models.ErrUnauthenticated, "Falta el encabezado Authorization")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			return models.NewError(models.ErrUnauthenticated, "El encabezado Authorization debe tener el formato 'Bearer <token>'")
		}

		claims, err := tokens.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			return err
		}

		user, err := users.GetByUsername(c.UserContext(), claims.Subject)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return models.NewError(models.ErrUnauthenticated, "No se pudieron validar las credenciales")
			}
			return err
		}

		c.Locals(CtxUserKey, user)
		return c.Next()
	}
}

// RequireRole lets the request through only if the current user's role is
// in allowed.
func RequireRole(allowed ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := CurrentUser(c)
		if err != nil {
			return err
		}
		if !HasRole(user, allowed...) {
			return models.NewError(models.ErrForbidden, "No tienes permisos para realizar esta acción")
		}
		return c.Next()
	}
}

func HasRole(user *models.User, allowed ...models.Role) bool {
	for _, r := range allowed {
		if user.Role == r {
			return true
		}
	}
	return false
}

func CurrentUser(c *fiber.Ctx) (*models.User, error) {
	user, ok := c.Locals(CtxUserKey).(*models.User)
	if !ok || user == nil {
		return nil, models.NewError(models.ErrUnauthenticated, "No se pudieron validar las credenciales")
	}
	return user, nil
}
