package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovimientoStock registra cada cambio de existencia. Se crea al pedir en una
// mesa, al quitar una línea, al vender, al anular y en ajustes manuales.
// Cantidad va siempre en valor absoluto; el signo lo da Tipo.
type MovimientoStock struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Tipo          TipoMovimiento  `gorm:"type:varchar(10);not null"`
	Cantidad      decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	StockAnterior decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	StockNuevo    decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	Motivo        string          `gorm:"not null"`
	ReferenciaID  *uuid.UUID      `gorm:"type:uuid"` // factura_id cuando aplica
	UsuarioID     *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt     time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

// TableName overrides GORM's default pluralization (movimiento_stocks → movimientos_stock).
func (MovimientoStock) TableName() string { return "movimientos_stock" }

// Delta devuelve la variación con signo.
func (m MovimientoStock) Delta() decimal.Decimal {
	if m.Tipo == MovimientoSalida {
		return m.Cantidad.Neg()
	}
	return m.Cantidad
}
