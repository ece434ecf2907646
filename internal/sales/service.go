package sales

import (
	"context"
	"sort"

	"supermercado-backend/internal/logger"
	"supermercado-backend/internal/models"

	"github.com/shopspring/decimal"
)

type Store interface {
	Transaction(ctx context.Context, fn func(tx Store) error) error
	LockProducts(ctx context.Context, ids []uint) ([]models.Product, error)
	DecrementStock(ctx context.Context, productID uint, quantity int) (bool, error)
	Insert(ctx context.Context, sale *models.Sale) error
	List(ctx context.Context, userID *uint, page models.Page) ([]models.Sale, error)
	ListAll(ctx context.Context) ([]models.Sale, error)
	GetByID(ctx context.Context, id uint) (*models.Sale, error)
}

type LineInput struct {
	ProductID uint    `json:"id_producto" validate:"required"`
	Quantity  int     `json:"cantidad" validate:"gt=0,max=2147483647"`
	UnitPrice float64 `json:"precio_unitario" validate:"gte=0"`
}

type CreateInput struct {
	Lines []LineInput `json:"detalles" validate:"required,min=1,dive"`
}

type Service struct {
	store            Store
	trustClientPrice bool
	log              *logger.Logger
}

// NewService builds the sale processor. With trustClientPrice the unit price
// sent by the caller is stored as is; otherwise the catalog price is used
// and a differing caller price is rejected.
func NewService(store Store, trustClientPrice bool, log *logger.Logger) *Service {
	return &Service{store: store, trustClientPrice: trustClientPrice, log: log}
}

// Create validates stock, prices the lines and stores the sale while
// decrementing stock, all in one transaction.
func (s *Service) Create(ctx context.Context, buyer *models.User, lines []LineInput) (*models.Sale, error) {
	if err := s.checkLines(lines); err != nil {
		return nil, err
	}

	requested := make(map[uint]int)
	for _, l := range lines {
		requested[l.ProductID] += l.Quantity
	}
	ids := make([]uint, 0, len(requested))
	for id := range requested {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var sale *models.Sale
	err := s.store.Transaction(ctx, func(tx Store) error {
		locked, err := tx.LockProducts(ctx, ids)
		if err != nil {
			return err
		}
		products := make(map[uint]models.Product, len(locked))
		for _, p := range locked {
			products[p.ID] = p
		}

		for _, l := range lines {
			p, ok := products[l.ProductID]
			if !ok {
				return models.NewError(models.ErrProductNotFound, "Producto con ID %d no encontrado", l.ProductID)
			}
			if p.Stock < requested[l.ProductID] {
				return insufficient(p)
			}
		}

		built, err := PriceLines(lines, products, s.trustClientPrice)
		if err != nil {
			return err
		}
		built.UserID = buyer.ID

		if err := tx.Insert(ctx, built); err != nil {
			return err
		}
		for _, id := range ids {
			ok, err := tx.DecrementStock(ctx, id, requested[id])
			if err != nil {
				return err
			}
			if !ok {
				return insufficient(products[id])
			}
		}

		sale = built
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("sale created", "sale_id", sale.ID, "user_id", buyer.ID, "lines", len(sale.Lines), "total", sale.Total)
	return sale, nil
}

func (s *Service) checkLines(lines []LineInput) error {
	if len(lines) == 0 {
		return models.NewError(models.ErrValidation, "La venta debe tener al menos un detalle")
	}
	for i, l := range lines {
		if l.ProductID == 0 {
			return models.NewError(models.ErrValidation, "detalle %d: id_producto es obligatorio", i+1)
		}
		if l.Quantity <= 0 {
			return models.NewError(models.ErrValidation, "detalle %d: la cantidad debe ser mayor que 0", i+1)
		}
		if l.Quantity > models.MaxQuantity {
			return models.NewError(models.ErrValidation, "detalle %d: la cantidad no puede superar %d", i+1, models.MaxQuantity)
		}
		if l.UnitPrice < 0 {
			return models.NewError(models.ErrValidation, "detalle %d: el precio unitario no puede ser negativo", i+1)
		}
		if s.trustClientPrice && models.Cents(l.UnitPrice).IsZero() {
			return models.NewError(models.ErrValidation, "detalle %d: el precio unitario debe ser mayor que 0", i+1)
		}
	}
	return nil
}

// PriceLines builds the sale lines and total. Subtotals are rounded to cents
// and the total is their exact sum.
func PriceLines(lines []LineInput, products map[uint]models.Product, trustClientPrice bool) (*models.Sale, error) {
	sale := &models.Sale{Lines: make([]models.SaleLine, 0, len(lines))}
	total := decimal.Zero

	for _, l := range lines {
		p := products[l.ProductID]

		price := models.Cents(p.Price)
		if trustClientPrice {
			price = models.Cents(l.UnitPrice)
		} else if l.UnitPrice != 0 && !models.Cents(l.UnitPrice).Equal(price) {
			return nil, models.NewError(models.ErrValidation,
				"El precio del producto %s cambió (precio actual: %s)", p.Name, price.StringFixed(2))
		}

		unit := price.InexactFloat64()
		total = total.Add(models.LineSubtotal(l.Quantity, unit))
		sale.Lines = append(sale.Lines, models.SaleLine{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: unit,
		})
	}

	sale.Total = total.InexactFloat64()
	return sale, nil
}

func insufficient(p models.Product) error {
	return models.NewError(models.ErrInsufficientStock, "Stock insuficiente para el producto %s", p.Name)
}

// List returns every sale to administrators and only their own sales to
// buyers.
func (s *Service) List(ctx context.Context, requester *models.User, page models.Page) ([]models.Sale, error) {
	if requester.IsAdministrator() {
		return s.store.List(ctx, nil, page)
	}
	id := requester.ID
	return s.store.List(ctx, &id, page)
}

func (s *Service) Get(ctx context.Context, requester *models.User, id uint) (*models.Sale, error) {
	sale, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !requester.IsAdministrator() && sale.UserID != requester.ID {
		return nil, models.NewError(models.ErrForbidden, "No tienes permiso para ver esta venta")
	}
	return sale, nil
}

func (s *Service) ListAll(ctx context.Context) ([]models.Sale, error) {
	return s.store.ListAll(ctx)
}
