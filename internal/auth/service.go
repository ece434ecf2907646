package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"supermercado-backend/internal/logger"
	"supermercado-backend/internal/models"
)

// UserStore is the part of the credential store used by authentication.
type UserStore interface {
	UserLookup
	Create(ctx context.Context, u *models.User) error
	ExistsUsername(ctx context.Context, username string) (bool, error)
	ExistsEmail(ctx context.Context, email string, exceptID uint) (bool, error)
}

type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type RegisterInput struct {
	Username string  `json:"nombre_usuario" validate:"required,max=50"`
	Password string  `json:"contraseña" validate:"required,min=6,max=72"`
	FullName string  `json:"nombre_completo" validate:"required,max=100"`
	Email    string  `json:"correo" validate:"required,email,max=100"`
	Phone    *string `json:"telefono" validate:"omitempty,max=20"`
}

type Service struct {
	users  UserStore
	hasher *PasswordHasher
	tokens *TokenManager
	log    *logger.Logger

	// compared against when the username is unknown so both failure paths
	// cost one bcrypt comparison
	dummyHash string
}

func NewService(users UserStore, hasher *PasswordHasher, tokens *TokenManager, log *logger.Logger) *Service {
	dummy, _ := hasher.Hash("supermercado-dummy-password")
	return &Service{users: users, hasher: hasher, tokens: tokens, log: log, dummyHash: dummy}
}

var errBadCredentials = models.NewError(models.ErrUnauthenticated, "Nombre de usuario o contraseña incorrectos")

func (s *Service) Login(ctx context.Context, username, password string) (Token, error) {
	username = strings.TrimSpace(username)

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			return Token{}, errBadCredentials
		}
		return Token{}, err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return Token{}, errBadCredentials
	}

	access, expiresAt, err := s.tokens.Issue(user.Username, user.Role)
	if err != nil {
		return Token{}, err
	}

	s.log.Info("user logged in", "user_id", user.ID, "role", user.Role)
	return Token{AccessToken: access, TokenType: "bearer", ExpiresAt: expiresAt}, nil
}

// Register creates an account with the given role. Duplicate usernames or
// emails fail with ErrConflict and never touch the existing record.
func (s *Service) Register(ctx context.Context, in RegisterInput, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, models.NewError(models.ErrValidation, "Rol desconocido: %q", role)
	}

	in.Username = strings.TrimSpace(in.Username)
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = NormalizeEmail(in.Email)
	if in.Username == "" || in.FullName == "" || in.Email == "" {
		return nil, models.NewError(models.ErrValidation, "Nombre de usuario, nombre completo y correo son obligatorios")
	}

	taken, err := s.users.ExistsUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, models.NewError(models.ErrConflict, "Nombre de usuario ya registrado")
	}

	taken, err = s.users.ExistsEmail(ctx, in.Email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, models.NewError(models.ErrConflict, "Correo electrónico ya registrado")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, models.NewError(models.ErrValidation, "La contraseña no es válida")
	}

	user := &models.User{
		Username:     in.Username,
		PasswordHash: hash,
		Role:         role,
		FullName:     in.FullName,
		Phone:        in.Phone,
		Email:        in.Email,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
