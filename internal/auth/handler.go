package auth

import (
	"time"

	"supermercado-backend/internal/httpx"
	"supermercado-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type LoginRequest struct {
	Username string `json:"nombre_usuario" validate:"required"`
	Password string `json:"contraseña" validate:"required"`
}

type UserResponse struct {
	ID           uint        `json:"id_usuario"`
	Username     string      `json:"nombre_usuario"`
	FullName     string      `json:"nombre_completo"`
	Email        string      `json:"correo"`
	Phone        *string     `json:"telefono"`
	Role         models.Role `json:"rol"`
	RegisteredAt time.Time   `json:"fecha_registro"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		FullName:     u.FullName,
		Email:        u.Email,
		Phone:        u.Phone,
		Role:         u.Role,
		RegisteredAt: u.RegisteredAt,
	}
}

// POST /login
func LoginHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := httpx.BindJSON(c, &body); err != nil {
			return err
		}

		token, err := svc.Login(c.UserContext(), body.Username, body.Password)
		if err != nil {
			return err
		}
		return c.JSON(token)
	}
}

// POST /registro-comprador (public)
func RegisterBuyerHandler(svc *Service) fiber.Handler {
	return registerHandler(svc, models.RoleBuyer)
}

// POST /registro-admin (administrador)
func RegisterAdminHandler(svc *Service) fiber.Handler {
	return registerHandler(svc, models.RoleAdministrator)
}

func registerHandler(svc *Service, role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterInput
		if err := httpx.BindJSON(c, &body); err != nil {
			return err
		}

		user, err := svc.Register(c.UserContext(), body, role)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(NewUserResponse(user))
	}
}
