package users

import (
	"supermercado-backend/internal/auth"
	"supermercado-backend/internal/httpx"

	"github.com/gofiber/fiber/v2"
)

// GET /usuarios
func ListUsersHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := httpx.PageFromQuery(c)
		if err != nil {
			return err
		}

		list, err := svc.List(c.UserContext(), page)
		if err != nil {
			return err
		}

		res := make([]auth.UserResponse, 0, len(list))
		for i := range list {
			res = append(res, auth.NewUserResponse(&list[i]))
		}
		return c.JSON(res)
	}
}

// GET /usuarios/:id
func GetUserHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}

		user, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(auth.NewUserResponse(user))
	}
}

// PUT /usuarios/:id
func UpdateUserHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}

		var body ProfileInput
		if err := httpx.BindJSON(c, &body); err != nil {
			return err
		}

		user, err := svc.Update(c.UserContext(), id, body)
		if err != nil {
			return err
		}
		return c.JSON(auth.NewUserResponse(user))
	}
}

// DELETE /usuarios/:id
func DeleteUserHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}

		requester, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		if err := svc.Delete(c.UserContext(), requester, id); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"mensaje": "Usuario eliminado correctamente"})
	}
}

// GET /usuarios/me/perfil
func GetProfileHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		return c.JSON(auth.NewUserResponse(user))
	}
}

// PUT /usuarios/me/perfil
func UpdateProfileHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body ProfileInput
		if err := httpx.BindJSON(c, &body); err != nil {
			return err
		}

		updated, err := svc.UpdateProfile(c.UserContext(), user, body)
		if err != nil {
			return err
		}
		return c.JSON(auth.NewUserResponse(updated))
	}
}
