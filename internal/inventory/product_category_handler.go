package inventory

import (
	"github.com/gofiber/fiber/v2"
)

type CategoryResponse struct {
	Name     string `json:"categoria"`
	Products int64  `json:"productos"`
}

// GET /productos/categorias (administrador, comprador)
func ListCategoriesHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		categories, err := svc.Categories(c.UserContext())
		if err != nil {
			return err
		}

		res := make([]CategoryResponse, 0, len(categories))
		for _, cat := range categories {
			res = append(res, CategoryResponse{Name: cat.Name, Products: cat.Products})
		}
		return c.JSON(res)
	}
}
