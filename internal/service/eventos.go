package service

import (
	"comandapos/internal/dto"

	"github.com/shopspring/decimal"
)

// Payloads de los eventos en tiempo real.

type eventoItem struct {
	DetalleID string          `json:"detalle_id"`
	Producto  string          `json:"producto"`
	Cantidad  decimal.Decimal `json:"cantidad"`
	Notas     *string         `json:"notas,omitempty"`
}

type eventoPedido struct {
	MesaID         string          `json:"mesa_id"`
	NumeroMesa     int             `json:"numero_mesa"`
	SesionID       string          `json:"sesion_id"`
	NumeroFactura  string          `json:"numero_factura"`
	Secuencia      int             `json:"secuencia"`
	Mesero         string          `json:"mesero"`
	Urgente        bool            `json:"urgente"`
	MotivoUrgencia *string         `json:"motivo_urgencia,omitempty"`
	Items          []eventoItem    `json:"items"`
	Total          decimal.Decimal `json:"total"`
}

type eventoCocina struct {
	Accion     string `json:"accion"`
	MesaID     string `json:"mesa_id"`
	NumeroMesa int    `json:"numero_mesa"`
	OrdenID    string `json:"orden_id,omitempty"`
	DetalleID  string `json:"detalle_id,omitempty"`
	Producto   string `json:"producto,omitempty"`
	Estado     string `json:"estado,omitempty"`
}

type eventoPago struct {
	MesaID        string          `json:"mesa_id,omitempty"`
	NumeroMesa    int             `json:"numero_mesa,omitempty"`
	FacturaID     string          `json:"factura_id"`
	NumeroFactura string          `json:"numero_factura"`
	Tipo          string          `json:"tipo"`
	MetodoPago    string          `json:"metodo_pago"`
	Total         decimal.Decimal `json:"total"`
}

type eventoAnulacion struct {
	FacturaID     string `json:"factura_id"`
	NumeroFactura string `json:"numero_factura"`
	Motivo        string `json:"motivo"`
	AnuladaPor    string `json:"anulada_por"`
}

// table_update lleva la mesa completa tal como la muestra el plano.
type eventoMesa = dto.MesaResponse
