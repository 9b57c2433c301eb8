package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrdenCocina es lo que ve la cocina de cada línea pedida. Todas las órdenes de
// un mismo llamado a "agregar items" comparten Secuencia y OrdenadaEn (un lote).
// Cantidad es lo pedido en ese lote, no el acumulado de la línea.
type OrdenCocina struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MesaID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_orden_mesa_secuencia"`
	FacturaID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	DetalleID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Secuencia      int             `gorm:"not null;index:idx_orden_mesa_secuencia"`
	OrdenadaEn     time.Time       `gorm:"not null"`
	Cantidad       decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	Estado         EstadoCocina    `gorm:"type:varchar(20);not null;default:'pendiente';index"`
	Urgente        bool            `gorm:"not null;default:false"`
	MotivoUrgencia *string
	Notas          *string
	Mesero         string `gorm:"type:varchar(100)"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Mesa    *Mesa           `gorm:"foreignKey:MesaID"`
	Factura *Factura        `gorm:"foreignKey:FacturaID"`
	Detalle *FacturaDetalle `gorm:"foreignKey:DetalleID"`
}

func (OrdenCocina) TableName() string { return "ordenes_cocina" }
