package service

import (
	"time"

	"comandapos/internal/dto"
	"comandapos/internal/model"

	"github.com/google/uuid"
)

// ── model → dto ───────────────────────────────────────────────────────────────

func fecha(t time.Time) string { return t.Format(time.RFC3339) }

func fechaPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := fecha(*t)
	return &s
}

func uuidPtr(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func mesaToResponse(m *model.Mesa, ses *model.SesionMesa) dto.MesaResponse {
	r := dto.MesaResponse{
		ID:          m.ID.String(),
		Numero:      m.Numero,
		Nombre:      m.Nombre,
		Capacidad:   m.Capacidad,
		Zona:        string(m.Zona),
		OrdenVisual: m.OrdenVisual,
		Estado:      string(m.Estado),
		Activo:      m.Activo,
	}
	if ses != nil {
		r.SesionActiva = sesionResumen(ses)
	}
	return r
}

func sesionResumen(ses *model.SesionMesa) *dto.SesionResumen {
	r := &dto.SesionResumen{
		ID:         ses.ID.String(),
		FacturaID:  ses.FacturaID.String(),
		Mesero:     ses.Mesero,
		Comensales: ses.Comensales,
		AbiertaEn:  fecha(ses.AbiertaEn),
	}
	if ses.Factura != nil {
		r.NumeroFactura = ses.Factura.Numero
		r.Items = len(ses.Factura.Detalles)
		r.Total = ses.Factura.Total
	}
	return r
}

func sesionToResponse(ses *model.SesionMesa) *dto.SesionResponse {
	r := &dto.SesionResponse{
		ID:         ses.ID.String(),
		MesaID:     ses.MesaID.String(),
		Estado:     string(ses.Estado),
		Comensales: ses.Comensales,
		Notas:      ses.Notas,
		Mesero:     ses.Mesero,
		AbiertaEn:  fecha(ses.AbiertaEn),
		CerradaEn:  fechaPtr(ses.CerradaEn),
	}
	if ses.Mesa != nil {
		r.NumeroMesa = ses.Mesa.Numero
		r.NombreMesa = ses.Mesa.Nombre
	}
	if ses.Factura != nil {
		r.Factura = facturaToResponse(ses.Factura)
	}
	return r
}

func facturaToResponse(f *model.Factura) dto.FacturaResponse {
	r := dto.FacturaResponse{
		ID:               f.ID.String(),
		Numero:           f.Numero,
		Tipo:             string(f.Tipo),
		Estado:           string(f.Estado),
		EstadoPago:       string(f.EstadoPago),
		ClienteID:        uuidPtr(f.ClienteID),
		Subtotal:         f.Subtotal,
		Impuesto:         f.Impuesto,
		Descuento:        f.Descuento,
		DescuentoPct:     f.DescuentoPct,
		CargoServicio:    f.CargoServicio,
		CargoServicioPct: f.CargoServicioPct,
		CargoDomicilio:   f.CargoDomicilio,
		Total:            f.Total,
		MontoRecibido:    f.MontoRecibido,
		Cambio:           f.Cambio,
		Notas:            f.Notas,
		MotivoAnulacion:  f.MotivoAnulacion,
		AnuladaEn:        fechaPtr(f.AnuladaEn),
		CreatedAt:        fecha(f.CreatedAt),
		Detalles:         make([]dto.DetalleResponse, 0, len(f.Detalles)),
	}
	if f.MetodoPago != nil {
		m := string(*f.MetodoPago)
		r.MetodoPago = &m
	}
	for i := range f.Detalles {
		r.Detalles = append(r.Detalles, detalleToResponse(&f.Detalles[i]))
	}
	return r
}

func detalleToResponse(d *model.FacturaDetalle) dto.DetalleResponse {
	return dto.DetalleResponse{
		ID:             d.ID.String(),
		ProductoID:     d.ProductoID.String(),
		Producto:       d.NombreProducto,
		Cantidad:       d.Cantidad,
		PrecioUnitario: d.PrecioUnitario,
		Descuento:      d.Descuento,
		Impuesto:       d.Impuesto,
		Subtotal:       d.Subtotal,
		Notas:          d.Notas,
		EstadoCocina:   string(d.EstadoCocina),
	}
}

func nombreProducto(p *model.Producto) string {
	if p == nil {
		return ""
	}
	return p.Nombre
}

func inventarioToResponse(inv *model.Inventario) *dto.InventarioResponse {
	estado := "ok"
	switch {
	case !inv.Cantidad.IsPositive():
		estado = "agotado"
	case inv.BajoMinimo():
		estado = "bajo"
	}
	return &dto.InventarioResponse{
		ProductoID:  inv.ProductoID.String(),
		Producto:    nombreProducto(inv.Producto),
		Cantidad:    inv.Cantidad,
		StockMinimo: inv.StockMinimo,
		StockMaximo: inv.StockMaximo,
		Ubicacion:   inv.Ubicacion,
		Estado:      estado,
	}
}

func alertaToResponse(inv *model.Inventario) dto.AlertaStockResponse {
	return dto.AlertaStockResponse{
		ProductoID:  inv.ProductoID.String(),
		Producto:    nombreProducto(inv.Producto),
		Cantidad:    inv.Cantidad,
		StockMinimo: inv.StockMinimo,
		Agotado:     !inv.Cantidad.IsPositive(),
	}
}

func movimientoToResponse(m *model.MovimientoStock) dto.MovimientoStockResponse {
	return dto.MovimientoStockResponse{
		ID:            m.ID.String(),
		ProductoID:    m.ProductoID.String(),
		Producto:      nombreProducto(m.Producto),
		Tipo:          string(m.Tipo),
		Cantidad:      m.Cantidad,
		StockAnterior: m.StockAnterior,
		StockNuevo:    m.StockNuevo,
		Motivo:        m.Motivo,
		ReferenciaID:  uuidPtr(m.ReferenciaID),
		CreatedAt:     fecha(m.CreatedAt),
	}
}
