package models

import "time"

type Product struct {
	ID          uint      `gorm:"column:id_producto;primaryKey"`
	Name        string    `gorm:"column:nombre;size:100;not null;index"`
	Description *string   `gorm:"column:descripcion;type:text"`
	Price       float64   `gorm:"column:precio;type:numeric(12,2);not null"` // > 0
	Stock       int       `gorm:"column:stock;not null;default:0"`           // >= 0
	Category    *string   `gorm:"column:categoria;size:50"`
	CreatedAt   time.Time `gorm:"column:fecha_creacion;autoCreateTime"`
}

func (Product) TableName() string { return "productos" }
