package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Factura es la cuenta de una sesión de mesa (tipo "mesa") o una venta directa.
// Mientras está abierta pertenece a su sesión; al completarse o anularse queda
// como registro histórico.
//
// Total = Subtotal + Impuesto − Descuento + CargoServicio + CargoDomicilio
type Factura struct {
	ID         uuid.UUID     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero     string        `gorm:"type:varchar(50);uniqueIndex;not null"`
	Tipo       TipoFactura   `gorm:"type:varchar(20);not null"`
	ClienteID  *uuid.UUID    `gorm:"type:uuid;index"`
	UsuarioID  uuid.UUID     `gorm:"type:uuid;not null"`
	Estado     EstadoFactura `gorm:"type:varchar(20);not null;index"`
	EstadoPago EstadoPago    `gorm:"type:varchar(20);not null"`
	MetodoPago *MetodoPago   `gorm:"type:varchar(20)"`

	Subtotal         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Impuesto         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Descuento        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DescuentoPct     decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	CargoServicio    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CargoServicioPct decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	CargoDomicilio   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total            decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	MontoRecibido    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Cambio           decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	Notas           *string
	AnuladaPor      *uuid.UUID `gorm:"type:uuid"`
	AnuladaEn       *time.Time
	MotivoAnulacion *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Detalles []FacturaDetalle `gorm:"foreignKey:FacturaID"`
	Cliente  *Cliente         `gorm:"foreignKey:ClienteID"`
}

func (Factura) TableName() string { return "facturas" }

// FacturaDetalle es una línea de la factura. Nombre, costo y tasa de impuesto se
// copian del producto al crear la línea para que editar el producto no altere
// cifras históricas.
type FacturaDetalle struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FacturaID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	NombreProducto string          `gorm:"type:varchar(150);not null"`
	PrecioCosto    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TasaImpuesto   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	Cantidad       decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descuento      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Impuesto       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	// Subtotal = PrecioUnitario × Cantidad − Descuento (sin impuesto)
	Subtotal     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Notas        *string
	EstadoCocina EstadoCocina `gorm:"type:varchar(20);not null;default:'pendiente'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (FacturaDetalle) TableName() string { return "factura_detalles" }
