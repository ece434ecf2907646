package inventory

import (
	"context"
	"strings"

	"supermercado-backend/internal/httpx"
	"supermercado-backend/internal/logger"
	"supermercado-backend/internal/models"
)

type Store interface {
	Create(ctx context.Context, p *models.Product) error
	CreateBatch(ctx context.Context, products []models.Product) error
	List(ctx context.Context, page models.Page) ([]models.Product, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	ExistingNames(ctx context.Context, names []string) (map[string]bool, error)
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id uint) error
	Categories(ctx context.Context) ([]Category, error)
}

// Category is a distinct catalog category and how many products carry it.
type Category struct {
	Name     string
	Products int64
}

type ProductInput struct {
	Name        string  `json:"nombre" validate:"required,max=100"`
	Description *string `json:"descripcion"`
	Price       float64 `json:"precio" validate:"gt=0"`
	Stock       int     `json:"stock" validate:"gte=0,max=2147483647"`
	Category    *string `json:"categoria" validate:"omitempty,max=50"`
}

type Service struct {
	store Store
	log   *logger.Logger
}

func NewService(store Store, log *logger.Logger) *Service {
	return &Service{store: store, log: log}
}

func (s *Service) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	p, err := newProduct(in)
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info("product created", "product_id", p.ID)
	return p, nil
}

func (s *Service) List(ctx context.Context, page models.Page) ([]models.Product, error) {
	return s.store.List(ctx, page)
}

func (s *Service) Get(ctx context.Context, id uint) (*models.Product, error) {
	return s.store.GetByID(ctx, id)
}

// Update replaces name, description, price, stock and category.
func (s *Service) Update(ctx context.Context, id uint, in ProductInput) (*models.Product, error) {
	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p, err := newProduct(in)
	if err != nil {
		return nil, err
	}
	p.ID = current.ID
	p.CreatedAt = current.CreatedAt

	if err := s.store.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("product deleted", "product_id", id)
	return nil
}

func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	return s.store.Categories(ctx)
}

func newProduct(in ProductInput) (*models.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = trimOptional(in.Category)
	in.Description = trimOptional(in.Description)
	if err := httpx.Validate(in); err != nil {
		return nil, err
	}

	price := models.Cents(in.Price)
	if !price.IsPositive() {
		return nil, models.NewError(models.ErrValidation, "El precio debe ser mayor que 0 con dos decimales como máximo")
	}
	in.Price = price.InexactFloat64()

	return &models.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Category:    in.Category,
	}, nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
