package service

import (
	"context"
	"fmt"
	"time"

	"comandapos/internal/dto"
	"comandapos/internal/model"
	"comandapos/internal/notify"
	"comandapos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// FacturaService cubre la venta directa en caja, la anulación de facturas ya
// cobradas y las consultas de facturas.
type FacturaService interface {
	RegistrarVenta(ctx context.Context, req dto.RegistrarVentaRequest, actor Actor) (*dto.FacturaResponse, error)
	AnularFactura(ctx context.Context, id uuid.UUID, motivo string, actor Actor) (*dto.FacturaResponse, error)
	ObtenerFactura(ctx context.Context, id uuid.UUID) (*dto.FacturaResponse, error)
	ListarFacturas(ctx context.Context, filter dto.FacturaFilter) (*dto.FacturaListResponse, error)
}

type facturaService struct {
	facturas repository.FacturaRepository
	clientes repository.ClienteRepository
	stock    InventarioService
	catalogo catalogo
	notif    Notificador
	jobs     EncoladorComprobantes
	bloqueos *Bloqueos
	ahora    func() time.Time
}

func NewFacturaService(
	facturas repository.FacturaRepository,
	productos repository.ProductoRepository,
	clientes repository.ClienteRepository,
	stock InventarioService,
	notif Notificador,
	jobs EncoladorComprobantes,
	bloqueos *Bloqueos,
) FacturaService {
	if notif == nil {
		notif = sinNotificar{}
	}
	if jobs == nil {
		jobs = sinComprobantes{}
	}
	if bloqueos == nil {
		bloqueos = NewBloqueos()
	}
	return &facturaService{
		facturas: facturas,
		clientes: clientes,
		stock:    stock,
		catalogo: catalogo{productos: productos, inventario: stock},
		notif:    notif,
		jobs:     jobs,
		bloqueos: bloqueos,
		ahora:    time.Now,
	}
}

// ── RegistrarVenta ────────────────────────────────────────────────────────────
//   1. Validar productos y stock de todo el ticket (fuera de la TX)
//   2. Armar líneas y totales, aplicar cargos, validar monto recibido
//   3. BEGIN TX: nextval número, crear factura + líneas, descontar stock
//   4. COMMIT, después eventos y job de comprobante

func (s *facturaService) RegistrarVenta(ctx context.Context, req dto.RegistrarVentaRequest, actor Actor) (*dto.FacturaResponse, error) {
	metodo, err := model.ParseMetodoPago(req.MetodoPago)
	if err != nil {
		return nil, errValidation("%s", err.Error())
	}
	cargos := cargosCierre{
		descuentoPct:     req.DescuentoPct,
		cargoServicioPct: req.CargoServicioPct,
		cargoDomicilio:   req.CargoDomicilio,
	}
	if err := cargos.validar(); err != nil {
		return nil, err
	}

	var clienteID *uuid.UUID
	if req.ClienteID != nil {
		id, err := uuid.Parse(*req.ClienteID)
		if err != nil {
			return nil, errValidation("cliente_id inválido")
		}
		if _, err := s.clientes.FindByID(ctx, id); err != nil {
			return nil, notFoundOr(err, "cliente no encontrado")
		}
		clienteID = &id
	}

	items, err := s.catalogo.resolver(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	f := &model.Factura{
		ID:         uuid.New(),
		Tipo:       model.FacturaVentaDirecta,
		ClienteID:  clienteID,
		UsuarioID:  actor.ID,
		Estado:     model.FacturaCompletada,
		EstadoPago: model.PagoPagado,
		MetodoPago: &metodo,
		Notas:      limpiarNotas(req.Notas),
	}
	for _, it := range items {
		d := model.FacturaDetalle{
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
			EstadoCocina:   model.CocinaEntregado,
		}
		recalcularLinea(&d)
		f.Detalles = append(f.Detalles, d)
	}
	recalcularFactura(f, f.Detalles)
	aplicarCargos(f, cargos)
	if err := registrarCobro(f, metodo, req.MontoRecibido); err != nil {
		return nil, err
	}

	var invs []*model.Inventario
	err = runTx(ctx, s.facturas.DB(), func(tx *gorm.DB) error {
		seq, err := s.facturas.NextNumeroTx(tx)
		if err != nil {
			return err
		}
		f.Numero = numeroFacturaVenta(s.ahora(), seq)
		if err := s.facturas.CreateTx(tx, f); err != nil {
			return err
		}
		ajustes := make([]AjusteStock, 0, len(f.Detalles))
		for _, d := range f.Detalles {
			ajustes = append(ajustes, AjusteStock{
				ProductoID:   d.ProductoID,
				Nombre:       d.NombreProducto,
				Delta:        d.Cantidad.Neg(),
				Motivo:       "Venta directa " + f.Numero,
				ReferenciaID: &f.ID,
			})
		}
		invs, err = ajustarEnOrden(tx, s.stock, ajustes, actor)
		return err
	})
	if err != nil {
		return nil, err
	}

	eventos := []notify.Event{notify.New(notify.EventoPedidoPagado, eventoPago{
		FacturaID:     f.ID.String(),
		NumeroFactura: f.Numero,
		Tipo:          string(f.Tipo),
		MetodoPago:    string(metodo),
		Total:         f.Total,
	}, notify.RolesGerencia, []string{model.RolCajero})}
	s.notif.Emit(ctx, append(eventos, alertasStock(invs)...)...)
	if err := s.jobs.EncolarComprobante(ctx, f.ID, req.ClienteEmail); err != nil {
		log.Warn().Err(err).Str("factura", f.Numero).Msg("no se pudo encolar el comprobante")
	}

	resp := facturaToResponse(f)
	return &resp, nil
}

// ── AnularFactura ─────────────────────────────────────────────────────────────
// Revierte una venta ya cobrada: repone el stock de cada línea original y deja
// la factura anulada. Las facturas abiertas de una mesa se cierran con
// Liberar, no por acá.

func (s *facturaService) AnularFactura(ctx context.Context, id uuid.UUID, motivo string, actor Actor) (*dto.FacturaResponse, error) {
	motivo = trimmed(motivo)
	if motivo == "" {
		return nil, errValidation("el motivo de anulación es obligatorio")
	}

	defer s.bloqueos.Lock(id)()

	var f *model.Factura
	var invs []*model.Inventario
	err := runTx(ctx, s.facturas.DB(), func(tx *gorm.DB) error {
		var err error
		f, err = s.facturas.LockTx(tx, id)
		if err != nil {
			return notFoundOr(err, "factura no encontrada")
		}
		switch f.Estado {
		case model.FacturaAnulada:
			return errConflict("la factura %s ya está anulada", f.Numero)
		case model.FacturaAbierta:
			return errEstado("la factura %s pertenece a una mesa abierta: cobre o libere la mesa", f.Numero)
		}

		ajustes := make([]AjusteStock, 0, len(f.Detalles))
		for _, d := range f.Detalles {
			ajustes = append(ajustes, AjusteStock{
				ProductoID:   d.ProductoID,
				Nombre:       d.NombreProducto,
				Delta:        d.Cantidad,
				Motivo:       fmt.Sprintf("Anulación factura %s: %s", f.Numero, motivo),
				ReferenciaID: &f.ID,
			})
		}
		if invs, err = ajustarEnOrden(tx, s.stock, ajustes, actor); err != nil {
			return err
		}

		ahora := s.ahora()
		f.Estado = model.FacturaAnulada
		f.AnuladaPor = actor.ref()
		f.AnuladaEn = &ahora
		f.MotivoAnulacion = &motivo
		return s.facturas.UpdateTx(tx, f)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("factura", f.Numero).Str("usuario", actor.Nombre).Str("motivo", motivo).Msg("factura anulada")
	eventos := []notify.Event{notify.New(notify.EventoFacturaAnulada, eventoAnulacion{
		FacturaID:     f.ID.String(),
		NumeroFactura: f.Numero,
		Motivo:        motivo,
		AnuladaPor:    actor.Nombre,
	}, notify.RolesGerencia, []string{model.RolCajero})}
	s.notif.Emit(ctx, append(eventos, alertasStock(invs)...)...)

	resp := facturaToResponse(f)
	return &resp, nil
}

func (s *facturaService) ObtenerFactura(ctx context.Context, id uuid.UUID) (*dto.FacturaResponse, error) {
	f, err := s.facturas.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "factura no encontrada")
	}
	resp := facturaToResponse(f)
	return &resp, nil
}

func (s *facturaService) ListarFacturas(ctx context.Context, filter dto.FacturaFilter) (*dto.FacturaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 200 {
		filter.Limit = 50
	}
	facturas, total, err := s.facturas.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.FacturaResponse, 0, len(facturas))
	for i := range facturas {
		data = append(data, facturaToResponse(&facturas[i]))
	}
	return &dto.FacturaListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}
