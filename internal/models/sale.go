package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is created together with its lines in one transaction and is never
// modified afterwards.
type Sale struct {
	ID     uint       `gorm:"column:id_venta;primaryKey"`
	UserID uint       `gorm:"column:id_usuario;not null;index"`
	User   *User      `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
	Date   time.Time  `gorm:"column:fecha_venta;autoCreateTime"`
	Total  float64    `gorm:"column:total;type:numeric(12,2);not null"`
	Lines  []SaleLine `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

func (Sale) TableName() string { return "ventas" }

// SaleLine keeps the unit price as it was when the sale was made.
type SaleLine struct {
	ID        uint     `gorm:"column:id_detalle;primaryKey"`
	SaleID    uint     `gorm:"column:id_venta;not null;index"`
	ProductID uint     `gorm:"column:id_producto;not null;index"`
	Product   *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
	Quantity  int      `gorm:"column:cantidad;not null"`
	UnitPrice float64  `gorm:"column:precio_unitario;type:numeric(12,2);not null"`
}

func (SaleLine) TableName() string { return "detalle_ventas" }

func (l SaleLine) Subtotal() float64 {
	return LineSubtotal(l.Quantity, l.UnitPrice).InexactFloat64()
}

// MaxQuantity is the largest stock or quantity an INTEGER column holds.
const MaxQuantity = 2147483647

// Cents rounds a money amount to the two decimals NUMERIC(12,2) keeps.
func Cents(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// LineSubtotal is quantity × unit price rounded to cents.
func LineSubtotal(quantity int, unitPrice float64) decimal.Decimal {
	return decimal.NewFromInt(int64(quantity)).Mul(decimal.NewFromFloat(unitPrice)).Round(2)
}
