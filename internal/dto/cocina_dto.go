package dto

import "github.com/shopspring/decimal"

type EstadoCocinaRequest struct {
	Estado string `json:"estado" validate:"required"`
}

type UrgenteRequest struct {
	Motivo *string `json:"motivo" validate:"omitempty,max=255"`
}

// OrdenCocinaResponse is one entry of the flat kitchen view (one per order).
type OrdenCocinaResponse struct {
	ID                   string          `json:"id"`
	MesaID               string          `json:"mesa_id"`
	NumeroMesa           int             `json:"numero_mesa"`
	NombreMesa           string          `json:"nombre_mesa"`
	DetalleID            string          `json:"detalle_id"`
	NumeroFactura        string          `json:"numero_factura"`
	Producto             string          `json:"producto"`
	Cantidad             decimal.Decimal `json:"cantidad"`
	Notas                *string         `json:"notas"`
	Estado               string          `json:"estado"`
	Urgente              bool            `json:"urgente"`
	MotivoUrgencia       *string         `json:"motivo_urgencia"`
	Secuencia            int             `json:"secuencia"`
	OrdenadaEn           string          `json:"ordenada_en"`
	MinutosTranscurridos int             `json:"minutos_transcurridos"`
}

type TicketItemResponse struct {
	OrdenID    string          `json:"orden_id"`
	DetalleID  string          `json:"detalle_id"`
	Producto   string          `json:"producto"`
	Cantidad   decimal.Decimal `json:"cantidad"`
	Notas      *string         `json:"notas"`
	Estado     string          `json:"estado"`
	OrdenadaEn string          `json:"ordenada_en"`
}

// TicketCocinaResponse collapses every order of one batch (mesa + secuencia).
type TicketCocinaResponse struct {
	MesaID               string               `json:"mesa_id"`
	NumeroMesa           int                  `json:"numero_mesa"`
	NombreMesa           string               `json:"nombre_mesa"`
	NumeroFactura        string               `json:"numero_factura"`
	Mesero               string               `json:"mesero"`
	Secuencia            int                  `json:"secuencia"`
	Notas                *string              `json:"notas"`
	Urgente              bool                 `json:"urgente"`
	MotivoUrgencia       *string              `json:"motivo_urgencia"`
	OrdenadaEn           string               `json:"ordenada_en"`
	MinutosTranscurridos int                  `json:"minutos_transcurridos"`
	Items                []TicketItemResponse `json:"items"`
}

type MesaCocinaResponse struct {
	MesaID        string                `json:"mesa_id"`
	NumeroMesa    int                   `json:"numero_mesa"`
	NombreMesa    string                `json:"nombre_mesa"`
	TotalOrdenes  int                   `json:"total_ordenes"`
	TieneUrgentes bool                  `json:"tiene_urgentes"`
	Ordenes       []OrdenCocinaResponse `json:"ordenes"`
}
