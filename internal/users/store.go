package users

import (
	"context"
	"errors"

	"supermercado-backend/internal/database"
	"supermercado-backend/internal/models"

	"gorm.io/gorm"
)

// PostgresStore is the credential store.
type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, u *models.User) error {
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return uniqueError(database.Classify(err))
	}
	return nil
}

func (s *PostgresStore) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id_usuario = ?", id).Error; err != nil {
		return nil, notFound(database.Classify(err))
	}
	return &u, nil
}

func (s *PostgresStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("nombre_usuario = ?", username).First(&u).Error; err != nil {
		return nil, notFound(database.Classify(err))
	}
	return &u, nil
}

func (s *PostgresStore) ExistsUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("nombre_usuario = ?", username).
		Count(&count).Error
	return count > 0, err
}

// ExistsEmail reports whether another user (not exceptID) has the email.
func (s *PostgresStore) ExistsEmail(ctx context.Context, email string, exceptID uint) (bool, error) {
	var count int64
	q := s.db.WithContext(ctx).Model(&models.User{}).Where("correo = ?", email)
	if exceptID != 0 {
		q = q.Where("id_usuario <> ?", exceptID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (s *PostgresStore) List(ctx context.Context, page models.Page) ([]models.User, error) {
	var list []models.User
	err := s.db.WithContext(ctx).
		Order("id_usuario asc").
		Offset(page.Skip).
		Limit(page.Limit).
		Find(&list).Error
	return list, err
}

// Update writes the profile fields only; password and role are untouched.
func (s *PostgresStore) Update(ctx context.Context, u *models.User) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id_usuario = ?", u.ID).
		Updates(map[string]any{
			"nombre_completo": u.FullName,
			"telefono":        u.Phone,
			"correo":          u.Email,
		})
	if res.Error != nil {
		return uniqueError(database.Classify(res.Error))
	}
	if res.RowsAffected == 0 {
		return models.NewError(models.ErrNotFound, "Usuario no encontrado")
	}
	return nil
}

// Delete removes a user. Users that own sales cannot be deleted.
func (s *PostgresStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.User{}, "id_usuario = ?", id)
	if res.Error != nil {
		err := database.Classify(res.Error)
		if errors.Is(err, models.ErrConflict) {
			return models.NewError(models.ErrConflict, "El usuario tiene ventas registradas y no puede eliminarse")
		}
		return err
	}
	if res.RowsAffected == 0 {
		return models.NewError(models.ErrNotFound, "Usuario no encontrado")
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, models.ErrNotFound) {
		return models.NewError(models.ErrNotFound, "Usuario no encontrado")
	}
	return err
}

func uniqueError(err error) error {
	if !errors.Is(err, models.ErrConflict) {
		return err
	}
	switch database.ConstraintName(err) {
	case "idx_usuarios_nombre_usuario":
		return models.NewError(models.ErrConflict, "Nombre de usuario ya registrado")
	case "idx_usuarios_correo":
		return models.NewError(models.ErrConflict, "Correo electrónico ya registrado")
	default:
		return models.NewError(models.ErrConflict, "El usuario ya existe")
	}
}
