package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	r, err := ParseRole("administrador")
	require.NoError(t, err)
	assert.Equal(t, RoleAdministrator, r)

	r, err = ParseRole("comprador")
	require.NoError(t, err)
	assert.Equal(t, RoleBuyer, r)

	_, err = ParseRole("superuser")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestRole_UnmarshalJSON(t *testing.T) {
	var body struct {
		Rol Role `json:"rol"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"rol":"comprador"}`), &body))
	assert.Equal(t, RoleBuyer, body.Rol)

	err := json.Unmarshal([]byte(`{"rol":"root"}`), &body)
	require.Error(t, err)
}

func TestSaleLine_Subtotal(t *testing.T) {
	tests := []struct {
		name     string
		qty      int
		price    float64
		expected float64
	}{
		{"milk", 3, 2.50, 7.50},
		{"rounding", 3, 0.335, 1.01},
		{"binary fraction", 3, 0.1, 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := SaleLine{Quantity: tt.qty, UnitPrice: tt.price}
			assert.Equal(t, tt.expected, l.Subtotal())
		})
	}
}

func TestError_UnwrapsToKind(t *testing.T) {
	err := NewError(ErrInsufficientStock, "Stock insuficiente para el producto %s", "Leche")
	assert.Equal(t, "Stock insuficiente para el producto Leche", err.Error())
	assert.True(t, errors.Is(err, ErrInsufficientStock))
	assert.False(t, errors.Is(err, ErrNotFound))
}
