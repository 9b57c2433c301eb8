package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirMesaRequest struct {
	// Comensales defaults to 1 when omitted
	Comensales *int    `json:"comensales" validate:"omitempty,min=1,max=100"`
	ClienteID  *string `json:"cliente_id" validate:"omitempty,uuid"`
	Notas      *string `json:"notas"      validate:"omitempty,max=500"`
}

// ItemPedidoRequest is one product of an add-items batch or a direct sale.
// PrecioUnitario is optional: when omitted the product's list price is used.
type ItemPedidoRequest struct {
	ProductoID     string           `json:"producto_id"     validate:"required,uuid"`
	Cantidad       decimal.Decimal  `json:"cantidad"        validate:"required,gt=0"`
	PrecioUnitario *decimal.Decimal `json:"precio_unitario" validate:"omitempty,gt=0"`
	Descuento      decimal.Decimal  `json:"descuento"       validate:"min=0"`
	Notas          *string          `json:"notas"           validate:"omitempty,max=255"`
}

// AgregarItemsRequest: every item of one call becomes a single kitchen batch.
type AgregarItemsRequest struct {
	Items          []ItemPedidoRequest `json:"items"           validate:"required,min=1,dive"`
	Urgente        bool                `json:"urgente"`
	MotivoUrgencia *string             `json:"motivo_urgencia" validate:"omitempty,max=255"`
}

type PagarMesaRequest struct {
	MetodoPago       string          `json:"metodo_pago"        validate:"required"`
	MontoRecibido    decimal.Decimal `json:"monto_recibido"     validate:"min=0"`
	DescuentoPct     decimal.Decimal `json:"descuento_pct"      validate:"min=0,max=100"`
	CargoServicioPct decimal.Decimal `json:"cargo_servicio_pct" validate:"min=0,max=100"`
	CargoDomicilio   decimal.Decimal `json:"cargo_domicilio"    validate:"min=0"`
	Notas            *string         `json:"notas"              validate:"omitempty,max=500"`
	// ClienteEmail: optional; when present, the receipt worker mails the PDF.
	ClienteEmail *string `json:"cliente_email" validate:"omitempty,email"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SesionResponse struct {
	ID         string          `json:"id"`
	MesaID     string          `json:"mesa_id"`
	NumeroMesa int             `json:"numero_mesa"`
	NombreMesa string          `json:"nombre_mesa"`
	Estado     string          `json:"estado"`
	Comensales int             `json:"comensales"`
	Notas      *string         `json:"notas"`
	Mesero     string          `json:"mesero"`
	AbiertaEn  string          `json:"abierta_en"`
	CerradaEn  *string         `json:"cerrada_en"`
	Factura    FacturaResponse `json:"factura"`
}
