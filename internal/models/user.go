package models

import (
	"encoding/json"
	"time"
)

type Role string

const (
	RoleAdministrator Role = "administrador"
	RoleBuyer         Role = "comprador"
)

func (r Role) Valid() bool {
	return r == RoleAdministrator || r == RoleBuyer
}

// ParseRole accepts only the two known role values.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", NewError(ErrValidation, "Rol desconocido: %q", s)
	}
	return r, nil
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return NewError(ErrValidation, "El rol debe ser un texto")
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

type User struct {
	ID           uint      `gorm:"column:id_usuario;primaryKey"`
	Username     string    `gorm:"column:nombre_usuario;size:50;uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:contrasena;not null"`
	Role         Role      `gorm:"column:rol;size:20;not null"`
	FullName     string    `gorm:"column:nombre_completo;size:100;not null"`
	Phone        *string   `gorm:"column:telefono;size:20"`
	Email        string    `gorm:"column:correo;size:100;uniqueIndex;not null"`
	RegisteredAt time.Time `gorm:"column:fecha_registro;autoCreateTime"`
}

func (User) TableName() string { return "usuarios" }

func (u *User) IsAdministrator() bool { return u.Role == RoleAdministrator }

// Page is a skip/limit window over a listing.
type Page struct {
	Skip  int
	Limit int
}
