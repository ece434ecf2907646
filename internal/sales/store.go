package sales

import (
	"context"
	"errors"

	"supermercado-backend/internal/database"
	"supermercado-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Transaction runs fn against a store bound to a single database
// transaction. Any error returned by fn rolls everything back.
func (s *PostgresStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresStore{db: tx})
	})
}

// LockProducts loads the products with SELECT ... FOR UPDATE. Rows are locked
// in ascending id order so two sales touching the same products cannot
// deadlock.
func (s *PostgresStore) LockProducts(ctx context.Context, ids []uint) ([]models.Product, error) {
	var list []models.Product
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id_producto IN ?", ids).
		Order("id_producto asc").
		Find(&list).Error
	return list, database.Classify(err)
}

// DecrementStock subtracts quantity only while enough stock remains. It
// reports false when the guard did not match.
func (s *PostgresStore) DecrementStock(ctx context.Context, productID uint, quantity int) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("id_producto = ? AND stock >= ?", productID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return false, database.Classify(res.Error)
	}
	return res.RowsAffected == 1, nil
}

// Insert stores the sale and its lines.
func (s *PostgresStore) Insert(ctx context.Context, sale *models.Sale) error {
	return database.Classify(s.db.WithContext(ctx).Create(sale).Error)
}

// List returns sales with their lines, restricted to userID when it is set.
func (s *PostgresStore) List(ctx context.Context, userID *uint, page models.Page) ([]models.Sale, error) {
	var list []models.Sale
	q := s.db.WithContext(ctx).Preload("Lines", orderLines)
	if userID != nil {
		q = q.Where("id_usuario = ?", *userID)
	}
	err := q.Order("id_venta asc").Offset(page.Skip).Limit(page.Limit).Find(&list).Error
	return list, err
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]models.Sale, error) {
	var list []models.Sale
	err := s.db.WithContext(ctx).Preload("Lines", orderLines).Order("id_venta asc").Find(&list).Error
	return list, err
}

func (s *PostgresStore) GetByID(ctx context.Context, id uint) (*models.Sale, error) {
	var sale models.Sale
	err := s.db.WithContext(ctx).Preload("Lines", orderLines).First(&sale, "id_venta = ?", id).Error
	if err != nil {
		err = database.Classify(err)
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewError(models.ErrNotFound, "Venta no encontrada")
		}
		return nil, err
	}
	return &sale, nil
}

func orderLines(db *gorm.DB) *gorm.DB {
	return db.Order("id_detalle asc")
}
