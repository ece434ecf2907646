package inventory

import (
	"strings"
	"time"

	"supermercado-backend/internal/httpx"
	"supermercado-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ProductResponse struct {
	ID          uint      `json:"id_producto"`
	Name        string    `json:"nombre"`
	Description *string   `json:"descripcion"`
	Price       float64   `json:"precio"`
	Stock       int       `json:"stock"`
	Category    *string   `json:"categoria"`
	CreatedAt   time.Time `json:"fecha_creacion"`
}

func NewProductResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Category:    p.Category,
		CreatedAt:   p.CreatedAt,
	}
}

// GET /productos?skip=&limit= (administrador, comprador)
func ListProductsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := httpx.PageFromQuery(c)
		if err != nil {
			return err
		}

		products, err := svc.List(c.UserContext(), page)
		if err != nil {
			return err
		}

		res := make([]ProductResponse, 0, len(products))
		for i := range products {
			res = append(res, NewProductResponse(&products[i]))
		}
		return c.JSON(res)
	}
}

// POST /productos (administrador)
func CreateProductHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ProductInput
		if err := httpx.BindJSON(c, &body); err != nil {
			return err
		}

		p, err := svc.Create(c.UserContext(), body)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(NewProductResponse(p))
	}
}

// GET /productos/:id (administrador, comprador)
func GetProductHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}

		p, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(NewProductResponse(p))
	}
}

// PUT /productos/:id (administrador)
func UpdateProductHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}

		var body ProductInput
		if err := httpx.BindJSON(c, &body); err != nil {
			return err
		}

		p, err := svc.Update(c.UserContext(), id, body)
		if err != nil {
			return err
		}
		return c.JSON(NewProductResponse(p))
	}
}

// DELETE /productos/:id (administrador)
func DeleteProductHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}

		if err := svc.Delete(c.UserContext(), id); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"mensaje": "Producto eliminado correctamente"})
	}
}

// POST /productos/importar (administrador), multipart field "file" with an .xlsx
func ImportProductsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return models.NewError(models.ErrValidation, "Falta el archivo en el campo 'file'")
		}
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return models.NewError(models.ErrValidation, "Solo se aceptan archivos .xlsx")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return err
		}
		defer file.Close()

		rows, problems, err := ParseProductSheet(file)
		if err != nil {
			return err
		}

		res, err := svc.Import(c.UserContext(), rows, problems)
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}
