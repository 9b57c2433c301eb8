package dto

import "github.com/shopspring/decimal"

// AjusteStockRequest: Delta positivo = entrada, negativo = salida.
type AjusteStockRequest struct {
	Delta  decimal.Decimal `json:"delta"  validate:"required"`
	Motivo string          `json:"motivo" validate:"required,min=3,max=255"`
}

type MovimientoFilter struct {
	ProductoID string `form:"producto_id" validate:"omitempty,uuid"`
	Tipo       string `form:"tipo"        validate:"omitempty,oneof=entrada salida"`
	Page       int    `form:"page,default=1"    validate:"min=1"`
	Limit      int    `form:"limit,default=100" validate:"min=1,max=500"`
}

type InventarioResponse struct {
	ProductoID  string           `json:"producto_id"`
	Producto    string           `json:"producto"`
	Cantidad    decimal.Decimal  `json:"cantidad"`
	StockMinimo decimal.Decimal  `json:"stock_minimo"`
	StockMaximo *decimal.Decimal `json:"stock_maximo"`
	Ubicacion   *string          `json:"ubicacion"`
	// Estado: ok | bajo | agotado
	Estado string `json:"estado"`
}

type AlertaStockResponse struct {
	ProductoID  string          `json:"producto_id"`
	Producto    string          `json:"producto"`
	Cantidad    decimal.Decimal `json:"cantidad"`
	StockMinimo decimal.Decimal `json:"stock_minimo"`
	Agotado     bool            `json:"agotado"`
}

type MovimientoStockResponse struct {
	ID            string          `json:"id"`
	ProductoID    string          `json:"producto_id"`
	Producto      string          `json:"producto"`
	Tipo          string          `json:"tipo"`
	Cantidad      decimal.Decimal `json:"cantidad"`
	StockAnterior decimal.Decimal `json:"stock_anterior"`
	StockNuevo    decimal.Decimal `json:"stock_nuevo"`
	Motivo        string          `json:"motivo"`
	ReferenciaID  *string         `json:"referencia_id"`
	CreatedAt     string          `json:"created_at"`
}

type MovimientoListResponse struct {
	Data  []MovimientoStockResponse `json:"data"`
	Total int64                     `json:"total"`
	Page  int                       `json:"page"`
	Limit int                       `json:"limit"`
}
