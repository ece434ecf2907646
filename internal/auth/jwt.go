package auth

import (
	"errors"
	"time"

	"supermercado-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload: subject (username), role and expiry.
type Claims struct {
	Role models.Role `json:"rol"`
	jwt.RegisteredClaims
}

var (
	errTokenExpired = models.NewError(models.ErrTokenExpired, "El token ha expirado")
	errInvalidToken = models.NewError(models.ErrInvalidToken, "Token inválido")
)

// TokenManager issues and verifies HS256 access tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (m *TokenManager) TTL() time.Duration { return m.ttl }

func (m *TokenManager) Issue(subject string, role models.Role) (string, time.Time, error) {
	if !role.Valid() {
		return "", time.Time{}, models.NewError(models.ErrValidation, "Rol desconocido: %q", role)
	}

	now := m.now()
	expiresAt := now.Add(m.ttl)
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (m *TokenManager) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) || m.expiredUnverified(tokenStr) {
			return nil, errTokenExpired
		}
		return nil, errInvalidToken
	}
	if !token.Valid || claims.Subject == "" || !claims.Role.Valid() {
		return nil, errInvalidToken
	}
	return claims, nil
}

// expiredUnverified reports whether a well-formed token carries an expiry in
// the past. The signature is not checked: an expired token is reported as
// expired whatever key signed it.
func (m *TokenManager) expiredUnverified(tokenStr string) bool {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return false
	}
	return claims.ExpiresAt != nil && !m.now().Before(claims.ExpiresAt.Time)
}
