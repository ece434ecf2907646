package users

import (
	"context"
	"strings"

	"supermercado-backend/internal/auth"
	"supermercado-backend/internal/logger"
	"supermercado-backend/internal/models"
)

type Store interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	ExistsEmail(ctx context.Context, email string, exceptID uint) (bool, error)
	List(ctx context.Context, page models.Page) ([]models.User, error)
	Update(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id uint) error
}

// ProfileInput is the editable part of a user; username, password and role
// cannot be changed through it.
type ProfileInput struct {
	FullName string  `json:"nombre_completo" validate:"required,max=100"`
	Email    string  `json:"correo" validate:"required,email,max=100"`
	Phone    *string `json:"telefono" validate:"omitempty,max=20"`
}

type Service struct {
	store Store
	log   *logger.Logger
}

func NewService(store Store, log *logger.Logger) *Service {
	return &Service{store: store, log: log}
}

func (s *Service) List(ctx context.Context, page models.Page) ([]models.User, error) {
	return s.store.List(ctx, page)
}

func (s *Service) Get(ctx context.Context, id uint) (*models.User, error) {
	return s.store.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id uint, in ProfileInput) (*models.User, error) {
	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.applyProfile(ctx, user, in)
}

func (s *Service) UpdateProfile(ctx context.Context, user *models.User, in ProfileInput) (*models.User, error) {
	current := *user
	return s.applyProfile(ctx, &current, in)
}

func (s *Service) applyProfile(ctx context.Context, user *models.User, in ProfileInput) (*models.User, error) {
	fullName := strings.TrimSpace(in.FullName)
	email := auth.NormalizeEmail(in.Email)
	if fullName == "" || email == "" {
		return nil, models.NewError(models.ErrValidation, "Nombre completo y correo son obligatorios")
	}

	if email != user.Email {
		taken, err := s.store.ExistsEmail(ctx, email, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, models.NewError(models.ErrConflict, "Correo electrónico ya registrado por otro usuario")
		}
	}

	user.FullName = fullName
	user.Email = email
	user.Phone = in.Phone
	if err := s.store.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes user id on behalf of requester. Nobody can delete their own
// account.
func (s *Service) Delete(ctx context.Context, requester *models.User, id uint) error {
	if requester.ID == id {
		return models.NewError(models.ErrValidation, "No puedes eliminar tu propia cuenta")
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("user deleted", "user_id", id, "by", requester.ID)
	return nil
}
