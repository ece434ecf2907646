package inventory

import (
	"context"
	"errors"
	"strings"

	"supermercado-backend/internal/database"
	"supermercado-backend/internal/models"

	"gorm.io/gorm"
)

type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, p *models.Product) error {
	return database.Classify(s.db.WithContext(ctx).Create(p).Error)
}

// CreateBatch inserts all products or none.
func (s *PostgresStore) CreateBatch(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	return database.Classify(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(products, 100).Error
	}))
}

func (s *PostgresStore) List(ctx context.Context, page models.Page) ([]models.Product, error) {
	var list []models.Product
	err := s.db.WithContext(ctx).
		Order("id_producto asc").
		Offset(page.Skip).
		Limit(page.Limit).
		Find(&list).Error
	return list, err
}

func (s *PostgresStore) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := s.db.WithContext(ctx).First(&p, "id_producto = ?", id).Error; err != nil {
		return nil, notFound(database.Classify(err))
	}
	return &p, nil
}

// ExistingNames returns the lower-cased names from names that are already in
// the catalog.
func (s *PostgresStore) ExistingNames(ctx context.Context, names []string) (map[string]bool, error) {
	found := make(map[string]bool)
	if len(names) == 0 {
		return found, nil
	}

	lowered := make([]string, 0, len(names))
	for _, n := range names {
		lowered = append(lowered, strings.ToLower(n))
	}

	var rows []string
	err := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("LOWER(nombre) IN ?", lowered).
		Pluck("LOWER(nombre)", &rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		found[r] = true
	}
	return found, nil
}

// Update replaces every mutable field of the product.
func (s *PostgresStore) Update(ctx context.Context, p *models.Product) error {
	res := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("id_producto = ?", p.ID).
		Updates(map[string]any{
			"nombre":      p.Name,
			"descripcion": p.Description,
			"precio":      p.Price,
			"stock":       p.Stock,
			"categoria":   p.Category,
		})
	if res.Error != nil {
		return database.Classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewError(models.ErrNotFound, "Producto no encontrado")
	}
	return nil
}

// Delete fails with ErrConflict while sale lines reference the product.
func (s *PostgresStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Product{}, "id_producto = ?", id)
	if res.Error != nil {
		err := database.Classify(res.Error)
		if errors.Is(err, models.ErrConflict) {
			return models.NewError(models.ErrConflict, "El producto tiene ventas asociadas y no puede eliminarse")
		}
		return err
	}
	if res.RowsAffected == 0 {
		return models.NewError(models.ErrNotFound, "Producto no encontrado")
	}
	return nil
}

// Categories lists the distinct non-empty categories in name order.
func (s *PostgresStore) Categories(ctx context.Context) ([]Category, error) {
	var rows []struct {
		Name     string `gorm:"column:categoria"`
		Products int64  `gorm:"column:productos"`
	}
	err := s.db.WithContext(ctx).Model(&models.Product{}).
		Select("categoria, COUNT(*) AS productos").
		Where("categoria IS NOT NULL AND categoria <> ''").
		Group("categoria").
		Order("categoria asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]Category, 0, len(rows))
	for _, r := range rows {
		out = append(out, Category{Name: r.Name, Products: r.Products})
	}
	return out, nil
}

func notFound(err error) error {
	if errors.Is(err, models.ErrNotFound) {
		return models.NewError(models.ErrNotFound, "Producto no encontrado")
	}
	return err
}
