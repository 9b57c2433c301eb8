package model

import (
	"time"

	"github.com/google/uuid"
)

// Mesa es una mesa física del salón.
// Estado = ocupada ⇔ existe exactamente una SesionMesa abierta que la referencia.
type Mesa struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero      int        `gorm:"uniqueIndex;not null"`
	Nombre      string     `gorm:"type:varchar(50);not null"`
	Capacidad   int        `gorm:"not null;default:4"`
	Zona        ZonaMesa   `gorm:"type:varchar(20);not null;default:'interior'"`
	OrdenVisual int        `gorm:"not null;default:0"`
	Estado      EstadoMesa `gorm:"type:varchar(20);not null;default:'disponible'"`
	Activo      bool       `gorm:"not null;default:true"`

	// Última secuencia de cocina asignada. Sobrevive a la baja de órdenes,
	// así una secuencia nunca se repite.
	UltimaSecuencia int `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Mesa) TableName() string { return "mesas" }

// SesionMesa cubre el uso de una mesa desde la apertura hasta el pago o la liberación.
// Una sesión cerrada nunca se reabre: la siguiente ocupación crea otra sesión.
type SesionMesa struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MesaID     uuid.UUID `gorm:"type:uuid;not null;index"`
	FacturaID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	AbiertaPor uuid.UUID `gorm:"type:uuid;not null"`
	// Mesero es el nombre de quien abrió la mesa, tal como venía en el token.
	Mesero     string       `gorm:"type:varchar(100)"`
	AbiertaEn  time.Time    `gorm:"not null"`
	CerradaPor *uuid.UUID   `gorm:"type:uuid"`
	CerradaEn  *time.Time
	Comensales int          `gorm:"not null;default:1"`
	Notas      *string
	Estado     EstadoSesion `gorm:"type:varchar(20);not null;default:'abierta'"`

	Mesa    *Mesa    `gorm:"foreignKey:MesaID"`
	Factura *Factura `gorm:"foreignKey:FacturaID"`
}

func (SesionMesa) TableName() string { return "sesiones_mesa" }
