package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Inventario guarda la existencia de un producto. Cantidad nunca es negativa:
// sólo cambia a través del libro de movimientos.
type Inventario struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID  uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex"`
	Cantidad    decimal.Decimal  `gorm:"type:decimal(12,3);not null;default:0"`
	StockMinimo decimal.Decimal  `gorm:"type:decimal(12,3);not null;default:0"`
	StockMaximo *decimal.Decimal `gorm:"type:decimal(12,3)"`
	Ubicacion   *string
	UpdatedAt   time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (Inventario) TableName() string { return "inventarios" }

// BajoMinimo incluye el caso agotado.
func (i Inventario) BajoMinimo() bool {
	return i.Cantidad.LessThanOrEqual(i.StockMinimo)
}
