package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// FacturaFilter is bound from query string of GET /v1/facturas.
type FacturaFilter struct {
	Fecha  string `form:"fecha"`  // YYYY-MM-DD; empty = all dates
	Estado string `form:"estado"` // abierta | completada | anulada | all
	Tipo   string `form:"tipo"`   // mesa | venta_directa
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type FacturaListResponse struct {
	Data  []FacturaResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

// RegistrarVentaRequest is a direct (counter) sale: charged on the spot.
type RegistrarVentaRequest struct {
	ClienteID        *string             `json:"cliente_id"         validate:"omitempty,uuid"`
	MetodoPago       string              `json:"metodo_pago"        validate:"required"`
	MontoRecibido    decimal.Decimal     `json:"monto_recibido"     validate:"min=0"`
	DescuentoPct     decimal.Decimal     `json:"descuento_pct"      validate:"min=0,max=100"`
	CargoServicioPct decimal.Decimal     `json:"cargo_servicio_pct" validate:"min=0,max=100"`
	CargoDomicilio   decimal.Decimal     `json:"cargo_domicilio"    validate:"min=0"`
	Notas            *string             `json:"notas"              validate:"omitempty,max=500"`
	ClienteEmail     *string             `json:"cliente_email"      validate:"omitempty,email"`
	Items            []ItemPedidoRequest `json:"items"              validate:"required,min=1,dive"`
}

type AnularFacturaRequest struct {
	Motivo string `json:"motivo" validate:"required,min=5,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DetalleResponse struct {
	ID             string          `json:"id"`
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Descuento      decimal.Decimal `json:"descuento"`
	Impuesto       decimal.Decimal `json:"impuesto"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Notas          *string         `json:"notas"`
	EstadoCocina   string          `json:"estado_cocina"`
}

type FacturaResponse struct {
	ID               string            `json:"id"`
	Numero           string            `json:"numero"`
	Tipo             string            `json:"tipo"`
	Estado           string            `json:"estado"`
	EstadoPago       string            `json:"estado_pago"`
	MetodoPago       *string           `json:"metodo_pago"`
	ClienteID        *string           `json:"cliente_id"`
	Subtotal         decimal.Decimal   `json:"subtotal"`
	Impuesto         decimal.Decimal   `json:"impuesto"`
	Descuento        decimal.Decimal   `json:"descuento"`
	DescuentoPct     decimal.Decimal   `json:"descuento_pct"`
	CargoServicio    decimal.Decimal   `json:"cargo_servicio"`
	CargoServicioPct decimal.Decimal   `json:"cargo_servicio_pct"`
	CargoDomicilio   decimal.Decimal   `json:"cargo_domicilio"`
	Total            decimal.Decimal   `json:"total"`
	MontoRecibido    decimal.Decimal   `json:"monto_recibido"`
	Cambio           decimal.Decimal   `json:"cambio"`
	Notas            *string           `json:"notas"`
	MotivoAnulacion  *string           `json:"motivo_anulacion"`
	AnuladaEn        *string           `json:"anulada_en"`
	CreatedAt        string            `json:"created_at"`
	Detalles         []DetalleResponse `json:"detalles"`
}
