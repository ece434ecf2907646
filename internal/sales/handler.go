package sales

import (
	"time"

	"supermercado-backend/internal/auth"
	"supermercado-backend/internal/httpx"
	"supermercado-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type LineResponse struct {
	ID        uint    `json:"id_detalle"`
	ProductID uint    `json:"id_producto"`
	Quantity  int     `json:"cantidad"`
	UnitPrice float64 `json:"precio_unitario"`
	Subtotal  float64 `json:"subtotal"`
}

type SaleResponse struct {
	ID     uint           `json:"id_venta"`
	UserID uint           `json:"id_usuario"`
	Date   time.Time      `json:"fecha_venta"`
	Total  float64        `json:"total"`
	Lines  []LineResponse `json:"detalles"`
}

func NewSaleResponse(s *models.Sale) SaleResponse {
	lines := make([]LineResponse, 0, len(s.Lines))
	for _, l := range s.Lines {
		lines = append(lines, LineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal(),
		})
	}
	return SaleResponse{
		ID:     s.ID,
		UserID: s.UserID,
		Date:   s.Date,
		Total:  s.Total,
		Lines:  lines,
	}
}

func newSaleList(list []models.Sale) []SaleResponse {
	res := make([]SaleResponse, 0, len(list))
	for i := range list {
		res = append(res, NewSaleResponse(&list[i]))
	}
	return res
}

// POST /ventas (comprador, administrador)
func CreateSaleHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body CreateInput
		if err := httpx.BindJSON(c, &body); err != nil {
			return err
		}

		sale, err := svc.Create(c.UserContext(), user, body.Lines)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(NewSaleResponse(sale))
	}
}

// GET /ventas (administrador)
func ListSalesHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		page, err := httpx.PageFromQuery(c)
		if err != nil {
			return err
		}

		list, err := svc.List(c.UserContext(), user, page)
		if err != nil {
			return err
		}
		return c.JSON(newSaleList(list))
	}
}

// GET /ventas/mis-ventas (comprador, administrador). Administrators see
// every sale.
func ListMySalesHandler(svc *Service) fiber.Handler {
	return ListSalesHandler(svc)
}

// GET /ventas/:id (comprador: only own sales, administrador: any)
func GetSaleHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}

		sale, err := svc.Get(c.UserContext(), user, id)
		if err != nil {
			return err
		}
		return c.JSON(NewSaleResponse(sale))
	}
}

// GET /ventas/exportar (administrador) returns an .xlsx with every sale line.
func ExportSalesHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := svc.ListAll(c.UserContext())
		if err != nil {
			return err
		}

		f, err := ExportWorkbook(list)
		if err != nil {
			return err
		}
		defer f.Close()

		buf, err := f.WriteToBuffer()
		if err != nil {
			return err
		}

		c.Attachment("ventas.xlsx")
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		return c.Send(buf.Bytes())
	}
}
