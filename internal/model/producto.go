package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto del menú. El catálogo se administra fuera de este servicio; aquí sólo
// se consulta para tomar precio, costo y tasa de impuesto al momento del pedido.
type Producto struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo      string          `gorm:"uniqueIndex;not null"`
	Nombre      string          `gorm:"index;not null"`
	Categoria   string          `gorm:"not null;default:'general'"`
	PrecioCosto decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PrecioVenta decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// TasaImpuesto en porcentaje (19 = 19%)
	TasaImpuesto decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	Activo       bool            `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Producto) TableName() string { return "productos" }
