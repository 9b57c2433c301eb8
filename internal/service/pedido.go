package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"comandapos/internal/dto"
	"comandapos/internal/model"
	"comandapos/internal/notify"
	"comandapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Resolución de items ───────────────────────────────────────────────────────
// Todo el lote se valida antes de la primera escritura: productos, precios y
// stock agregado por producto. Si algo falla no se toca nada.

type itemResuelto struct {
	producto  *model.Producto
	cantidad  decimal.Decimal
	precio    decimal.Decimal
	descuento decimal.Decimal
	notas     *string
}

type catalogo struct {
	productos  repository.ProductoRepository
	inventario InventarioService
}

func (c catalogo) resolver(ctx context.Context, items []dto.ItemPedidoRequest) ([]itemResuelto, error) {
	if len(items) == 0 {
		return nil, errValidation("el pedido no tiene items")
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		id, err := uuid.Parse(it.ProductoID)
		if err != nil {
			return nil, errValidation("producto_id inválido: %s", it.ProductoID)
		}
		ids = append(ids, id)
	}
	prods, err := c.productos.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]itemResuelto, 0, len(items))
	pedido := make(map[uuid.UUID]decimal.Decimal)
	var orden []uuid.UUID
	for i, it := range items {
		p, ok := prods[ids[i]]
		if !ok {
			return nil, errNotFound("producto %s no encontrado", ids[i])
		}
		if !p.Activo {
			return nil, errValidation("el producto %s está inactivo", p.Nombre)
		}
		if !it.Cantidad.IsPositive() {
			return nil, errValidation("la cantidad de %s debe ser mayor a cero", p.Nombre)
		}
		precio := p.PrecioVenta
		if it.PrecioUnitario != nil {
			precio = *it.PrecioUnitario
		}
		if !precio.IsPositive() {
			return nil, errValidation("el precio de %s debe ser mayor a cero", p.Nombre)
		}
		if it.Descuento.IsNegative() || it.Descuento.GreaterThan(precio.Mul(it.Cantidad)) {
			return nil, errValidation("descuento inválido para %s", p.Nombre)
		}

		if _, visto := pedido[p.ID]; !visto {
			orden = append(orden, p.ID)
		}
		pedido[p.ID] = pedido[p.ID].Add(it.Cantidad)
		out = append(out, itemResuelto{
			producto:  p,
			cantidad:  it.Cantidad,
			precio:    precio,
			descuento: it.Descuento,
			notas:     limpiarNotas(it.Notas),
		})
	}

	for _, id := range orden {
		disponible, err := c.inventario.Disponible(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errNotFound("no hay inventario registrado para %s", prods[id].Nombre)
		}
		if err != nil {
			return nil, err
		}
		if disponible.LessThan(pedido[id]) {
			return nil, errStockInsuficiente(prods[id].Nombre, disponible, pedido[id])
		}
	}
	return out, nil
}

// ── Plan de pedido ────────────────────────────────────────────────────────────
// Un plan es la lista de mutaciones y efectos que produce un agregado o una
// baja de items. Se construye sin tocar la base y se aplica entero dentro de la
// transacción; los eventos salen recién después del commit.

type loteCocina struct {
	secuencia int
	en        time.Time
	urgente   bool
	motivo    *string
	mesero    string
}

type pedidoPlan struct {
	factura      *model.Factura
	nuevas       []*model.FacturaDetalle
	actualizadas []*model.FacturaDetalle
	eliminadas   []uuid.UUID
	ordenes      []*model.OrdenCocina
	ajustes      []AjusteStock
	eventos      []notify.Event
}

// planAgregar fusiona los items en las líneas existentes (una línea por
// producto) y genera una orden de cocina por item con la secuencia del lote.
func planAgregar(ses *model.SesionMesa, items []itemResuelto, lote loteCocina) *pedidoPlan {
	f := ses.Factura
	plan := &pedidoPlan{factura: f}

	lineas := make([]*model.FacturaDetalle, 0, len(f.Detalles)+len(items))
	porProducto := make(map[uuid.UUID]*model.FacturaDetalle)
	for i := range f.Detalles {
		d := f.Detalles[i]
		lineas = append(lineas, &d)
		porProducto[d.ProductoID] = &d
	}

	nueva := make(map[uuid.UUID]bool)
	tocada := make(map[uuid.UUID]bool)
	motivo := fmt.Sprintf("Pedido mesa %d - %s", numeroMesa(ses), f.Numero)
	evItems := make([]eventoItem, 0, len(items))

	for _, it := range items {
		d, ok := porProducto[it.producto.ID]
		if ok {
			d.Cantidad = d.Cantidad.Add(it.cantidad)
			d.Notas = unirNotas(d.Notas, it.notas)
			d.EstadoCocina = model.CocinaPendiente
			recalcularLinea(d)
			if !nueva[d.ID] && !tocada[d.ID] {
				tocada[d.ID] = true
				plan.actualizadas = append(plan.actualizadas, d)
			}
		} else {
			d = &model.FacturaDetalle{
				ID:             uuid.New(),
				FacturaID:      f.ID,
				ProductoID:     it.producto.ID,
				NombreProducto: it.producto.Nombre,
				PrecioCosto:    it.producto.PrecioCosto,
				TasaImpuesto:   it.producto.TasaImpuesto,
				Cantidad:       it.cantidad,
				PrecioUnitario: it.precio,
				Descuento:      it.descuento,
				Notas:          it.notas,
				EstadoCocina:   model.CocinaPendiente,
			}
			recalcularLinea(d)
			nueva[d.ID] = true
			porProducto[d.ProductoID] = d
			lineas = append(lineas, d)
			plan.nuevas = append(plan.nuevas, d)
		}

		orden := &model.OrdenCocina{
			ID:         uuid.New(),
			MesaID:     ses.MesaID,
			FacturaID:  f.ID,
			DetalleID:  d.ID,
			Secuencia:  lote.secuencia,
			OrdenadaEn: lote.en,
			Cantidad:   it.cantidad,
			Estado:     model.CocinaPendiente,
			Urgente:    lote.urgente,
			Notas:      it.notas,
			Mesero:     lote.mesero,
		}
		orden.MotivoUrgencia = motivoUrgencia(lote)
		plan.ordenes = append(plan.ordenes, orden)

		plan.ajustes = append(plan.ajustes, AjusteStock{
			ProductoID:   it.producto.ID,
			Nombre:       it.producto.Nombre,
			Delta:        it.cantidad.Neg(),
			Motivo:       motivo,
			ReferenciaID: &f.ID,
		})
		evItems = append(evItems, eventoItem{
			DetalleID: d.ID.String(), Producto: it.producto.Nombre, Cantidad: it.cantidad, Notas: it.notas,
		})
	}

	recalcularFactura(f, valores(lineas))

	ev := eventoPedido{
		MesaID:         ses.MesaID.String(),
		NumeroMesa:     numeroMesa(ses),
		SesionID:       ses.ID.String(),
		NumeroFactura:  f.Numero,
		Secuencia:      lote.secuencia,
		Mesero:         lote.mesero,
		Urgente:        lote.urgente,
		MotivoUrgencia: motivoUrgencia(lote),
		Items:          evItems,
		Total:          f.Total,
	}
	plan.eventos = append(plan.eventos, notify.New(notify.EventoNuevoPedido, ev, notify.RolesCocina, notify.RolesSalon))
	if lote.urgente {
		plan.eventos = append(plan.eventos, notify.New(notify.EventoPedidoUrgente, ev, notify.RolesCocina))
	}
	return plan
}

// planQuitar elimina la línea, repone su cantidad completa y recalcula los
// totales desde las líneas que quedan.
func planQuitar(ses *model.SesionMesa, detalleID uuid.UUID) (*pedidoPlan, error) {
	f := ses.Factura
	var quitada *model.FacturaDetalle
	restantes := make([]model.FacturaDetalle, 0, len(f.Detalles))
	for i := range f.Detalles {
		if f.Detalles[i].ID == detalleID {
			quitada = &f.Detalles[i]
			continue
		}
		restantes = append(restantes, f.Detalles[i])
	}
	if quitada == nil {
		return nil, errNotFound("el item no pertenece a esta mesa")
	}

	plan := &pedidoPlan{factura: f, eliminadas: []uuid.UUID{quitada.ID}}
	plan.ajustes = append(plan.ajustes, AjusteStock{
		ProductoID:   quitada.ProductoID,
		Nombre:       quitada.NombreProducto,
		Delta:        quitada.Cantidad,
		Motivo:       fmt.Sprintf("Quitado de mesa %d - %s", numeroMesa(ses), f.Numero),
		ReferenciaID: &f.ID,
	})
	recalcularFactura(f, restantes)

	plan.eventos = append(plan.eventos, notify.New(notify.EventoActualizacionCocina, eventoCocina{
		Accion:     "item_eliminado",
		MesaID:     ses.MesaID.String(),
		NumeroMesa: numeroMesa(ses),
		DetalleID:  quitada.ID.String(),
		Producto:   quitada.NombreProducto,
	}, notify.RolesCocina, notify.RolesSalon))
	return plan, nil
}

// aplicarPlan escribe el plan en tx. Las órdenes de cocina van cada una detrás
// de un savepoint: si falla una, se registra y el pedido sigue.
func (s *mesaService) aplicarPlan(tx *gorm.DB, p *pedidoPlan, actor Actor) ([]*model.Inventario, error) {
	for _, id := range p.eliminadas {
		if err := s.cocina.DeletePorDetalleTx(tx, id); err != nil {
			return nil, err
		}
		if err := s.facturas.DeleteDetalleTx(tx, id); err != nil {
			return nil, notFoundOr(err, "item no encontrado")
		}
	}
	for _, d := range p.nuevas {
		if err := s.facturas.CreateDetalleTx(tx, d); err != nil {
			return nil, err
		}
	}
	for _, d := range p.actualizadas {
		if err := s.facturas.UpdateDetalleTx(tx, d); err != nil {
			return nil, err
		}
	}

	invs, err := ajustarEnOrden(tx, s.stock, p.ajustes, actor)
	if err != nil {
		return nil, err
	}

	for i, o := range p.ordenes {
		o := o
		bestEffort(tx, fmt.Sprintf("orden_cocina_%d", i), func() error {
			return s.cocina.CreateTx(tx, o)
		})
	}

	if err := s.facturas.UpdateTx(tx, p.factura); err != nil {
		return nil, err
	}
	return invs, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func motivoUrgencia(l loteCocina) *string {
	if !l.urgente {
		return nil
	}
	return l.motivo
}

func numeroMesa(ses *model.SesionMesa) int {
	if ses.Mesa == nil {
		return 0
	}
	return ses.Mesa.Numero
}

func valores(ds []*model.FacturaDetalle) []model.FacturaDetalle {
	out := make([]model.FacturaDetalle, len(ds))
	for i, d := range ds {
		out[i] = *d
	}
	return out
}

func trimmed(s string) string { return strings.TrimSpace(s) }

func limpiarNotas(n *string) *string {
	if n == nil {
		return nil
	}
	t := trimmed(*n)
	if t == "" {
		return nil
	}
	return &t
}

// unirNotas agrega las notas nuevas a las existentes separadas por " | ".
func unirNotas(actual, nuevas *string) *string {
	switch {
	case nuevas == nil:
		return actual
	case actual == nil || *actual == "":
		return nuevas
	}
	s := *actual + " | " + *nuevas
	return &s
}
