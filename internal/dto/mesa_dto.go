package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearMesaRequest struct {
	Numero      int     `json:"numero"       validate:"required,min=1"`
	Nombre      *string `json:"nombre"       validate:"omitempty,min=1,max=50"`
	Capacidad   *int    `json:"capacidad"    validate:"omitempty,min=1,max=50"`
	Zona        *string `json:"zona"`
	OrdenVisual *int    `json:"orden_visual" validate:"omitempty,min=0"`
}

type ActualizarMesaRequest struct {
	Numero      *int    `json:"numero"       validate:"omitempty,min=1"`
	Nombre      *string `json:"nombre"       validate:"omitempty,min=1,max=50"`
	Capacidad   *int    `json:"capacidad"    validate:"omitempty,min=1,max=50"`
	Zona        *string `json:"zona"`
	OrdenVisual *int    `json:"orden_visual" validate:"omitempty,min=0"`
}

// CambiarEstadoMesaRequest: disponible | fuera_de_servicio
type CambiarEstadoMesaRequest struct {
	Estado string `json:"estado" validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MesaResponse struct {
	ID           string         `json:"id"`
	Numero       int            `json:"numero"`
	Nombre       string         `json:"nombre"`
	Capacidad    int            `json:"capacidad"`
	Zona         string         `json:"zona"`
	OrdenVisual  int            `json:"orden_visual"`
	Estado       string         `json:"estado"`
	Activo       bool           `json:"activo"`
	SesionActiva *SesionResumen `json:"sesion_activa"`
}

// SesionResumen is embedded in the floor-plan listing.
type SesionResumen struct {
	ID            string          `json:"id"`
	FacturaID     string          `json:"factura_id"`
	NumeroFactura string          `json:"numero_factura"`
	Mesero        string          `json:"mesero"`
	Comensales    int             `json:"comensales"`
	AbiertaEn     string          `json:"abierta_en"`
	Items         int             `json:"items"`
	Total         decimal.Decimal `json:"total"`
}
