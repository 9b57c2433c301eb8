package service

import (
	"context"
	"time"

	"comandapos/internal/dto"
	"comandapos/internal/model"
	"comandapos/internal/notify"
	"comandapos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CocinaService expone las vistas de cocina y los cambios de estado. Un cambio
// sobre una orden se refleja también en su línea de factura.
type CocinaService interface {
	ListarOrdenes(ctx context.Context) ([]dto.OrdenCocinaResponse, error)
	ListarTickets(ctx context.Context) ([]dto.TicketCocinaResponse, error)
	ListarPorMesa(ctx context.Context) ([]dto.MesaCocinaResponse, error)
	ActualizarEstadoOrden(ctx context.Context, ordenID uuid.UUID, estado string) (*dto.OrdenCocinaResponse, error)
	ActualizarEstadoDetalle(ctx context.Context, detalleID uuid.UUID, estado string) (*dto.DetalleResponse, error)
	MarcarUrgente(ctx context.Context, ordenID uuid.UUID, motivo *string) (*dto.OrdenCocinaResponse, error)
}

type cocinaService struct {
	cocina   repository.CocinaRepository
	facturas repository.FacturaRepository
	mesas    repository.MesaRepository
	notif    Notificador
	bloqueos *Bloqueos
	ahora    func() time.Time
}

func NewCocinaService(
	cocina repository.CocinaRepository,
	facturas repository.FacturaRepository,
	mesas repository.MesaRepository,
	notif Notificador,
	bloqueos *Bloqueos,
) CocinaService {
	if notif == nil {
		notif = sinNotificar{}
	}
	if bloqueos == nil {
		bloqueos = NewBloqueos()
	}
	return &cocinaService{cocina: cocina, facturas: facturas, mesas: mesas, notif: notif, bloqueos: bloqueos, ahora: time.Now}
}

func (s *cocinaService) ListarOrdenes(ctx context.Context) ([]dto.OrdenCocinaResponse, error) {
	ordenes, err := s.cocina.ListActivas(ctx)
	if err != nil {
		return nil, err
	}
	return vistaPlana(ordenes, s.ahora()), nil
}

func (s *cocinaService) ListarTickets(ctx context.Context) ([]dto.TicketCocinaResponse, error) {
	ordenes, err := s.cocina.ListActivas(ctx)
	if err != nil {
		return nil, err
	}
	return vistaTickets(ordenes, s.ahora()), nil
}

func (s *cocinaService) ListarPorMesa(ctx context.Context) ([]dto.MesaCocinaResponse, error) {
	ordenes, err := s.cocina.ListActivas(ctx)
	if err != nil {
		return nil, err
	}
	return vistaPorMesa(ordenes, s.ahora()), nil
}

// ActualizarEstadoOrden cambia la orden y copia el estado a su línea.
func (s *cocinaService) ActualizarEstadoOrden(ctx context.Context, ordenID uuid.UUID, estado string) (*dto.OrdenCocinaResponse, error) {
	nuevo, err := model.ParseEstadoCocina(estado)
	if err != nil {
		return nil, errValidation("%s", err.Error())
	}
	o, err := s.cocina.FindByID(ctx, ordenID)
	if err != nil {
		return nil, notFoundOr(err, "orden de cocina no encontrada")
	}

	err = s.conMesa(ctx, o.MesaID, func(tx *gorm.DB) error {
		if err := s.exigirCuentaAbierta(tx, o.FacturaID); err != nil {
			return err
		}
		if err := s.cocina.UpdateEstadoTx(tx, o.ID, nuevo); err != nil {
			return err
		}
		return s.facturas.UpdateEstadoCocinaDetalleTx(tx, o.DetalleID, nuevo)
	})
	if err != nil {
		return nil, err
	}
	o.Estado = nuevo
	return s.respuestaOrden(ctx, o, "estado_actualizado")
}

// ActualizarEstadoDetalle cambia la línea y todas sus órdenes de cocina.
func (s *cocinaService) ActualizarEstadoDetalle(ctx context.Context, detalleID uuid.UUID, estado string) (*dto.DetalleResponse, error) {
	nuevo, err := model.ParseEstadoCocina(estado)
	if err != nil {
		return nil, errValidation("%s", err.Error())
	}
	d, err := s.facturas.FindDetalleByID(ctx, detalleID)
	if err != nil {
		return nil, notFoundOr(err, "item no encontrado")
	}
	f, err := s.facturas.FindByID(ctx, d.FacturaID)
	if err != nil {
		return nil, notFoundOr(err, "factura no encontrada")
	}

	apply := func(tx *gorm.DB) error {
		if err := s.exigirCuentaAbierta(tx, d.FacturaID); err != nil {
			return err
		}
		if err := s.facturas.UpdateEstadoCocinaDetalleTx(tx, d.ID, nuevo); err != nil {
			return err
		}
		return s.cocina.UpdateEstadoPorDetalleTx(tx, d.ID, nuevo)
	}
	// Venta directa: no hay mesa que bloquear.
	var mesaID uuid.UUID
	if o := s.mesaDeFactura(ctx, f.ID); o != nil {
		mesaID = *o
		err = s.conMesa(ctx, mesaID, apply)
	} else {
		err = runTx(ctx, s.facturas.DB(), apply)
	}
	if err != nil {
		return nil, err
	}

	d.EstadoCocina = nuevo
	s.notif.Emit(ctx, notify.New(notify.EventoActualizacionCocina, eventoCocina{
		Accion:    "estado_actualizado",
		MesaID:    uuidString(mesaID),
		DetalleID: d.ID.String(),
		Producto:  d.NombreProducto,
		Estado:    string(nuevo),
	}, notify.RolesCocina, notify.RolesSalon))
	resp := detalleToResponse(d)
	return &resp, nil
}

func (s *cocinaService) MarcarUrgente(ctx context.Context, ordenID uuid.UUID, motivo *string) (*dto.OrdenCocinaResponse, error) {
	o, err := s.cocina.FindByID(ctx, ordenID)
	if err != nil {
		return nil, notFoundOr(err, "orden de cocina no encontrada")
	}
	if !o.Estado.Activa() {
		return nil, errEstado("la orden ya fue entregada")
	}
	motivo = limpiarNotas(motivo)
	err = s.conMesa(ctx, o.MesaID, func(tx *gorm.DB) error {
		return s.cocina.UpdateUrgenciaTx(tx, o.ID, motivo)
	})
	if err != nil {
		return nil, err
	}
	o.Urgente = true
	o.MotivoUrgencia = motivo
	return s.respuestaOrden(ctx, o, "urgente")
}

// conMesa serializa con el resto de operaciones de la mesa (pago, pedidos).
func (s *cocinaService) conMesa(ctx context.Context, mesaID uuid.UUID, fn func(tx *gorm.DB) error) error {
	defer s.bloqueos.Lock(mesaID)()
	return runTx(ctx, s.cocina.DB(), func(tx *gorm.DB) error {
		if _, err := s.mesas.LockTx(tx, mesaID); err != nil {
			return notFoundOr(err, "mesa no encontrada")
		}
		return fn(tx)
	})
}

// exigirCuentaAbierta: una cuenta cobrada o anulada ya no cambia de estado en
// cocina, así la mesa no vuelve a la pantalla.
func (s *cocinaService) exigirCuentaAbierta(tx *gorm.DB, facturaID uuid.UUID) error {
	f, err := s.facturas.FindByIDTx(tx, facturaID)
	if err != nil {
		return notFoundOr(err, "factura no encontrada")
	}
	if f.Estado != model.FacturaAbierta {
		return errEstado("la cuenta %s está %s: sus órdenes no cambian de estado", f.Numero, f.Estado)
	}
	return nil
}

func (s *cocinaService) mesaDeFactura(ctx context.Context, facturaID uuid.UUID) *uuid.UUID {
	ses, err := s.mesas.FindSesionByFacturaID(ctx, facturaID)
	if err != nil {
		return nil
	}
	return &ses.MesaID
}

func (s *cocinaService) respuestaOrden(ctx context.Context, o *model.OrdenCocina, accion string) (*dto.OrdenCocinaResponse, error) {
	if o.Mesa == nil {
		if m, err := s.mesas.FindByID(ctx, o.MesaID); err == nil {
			o.Mesa = m
		}
	}
	if o.Detalle == nil {
		if d, err := s.facturas.FindDetalleByID(ctx, o.DetalleID); err == nil {
			o.Detalle = d
		}
	}
	r := ordenToResponse(o, s.ahora())

	evs := []notify.Event{notify.New(notify.EventoActualizacionCocina, eventoCocina{
		Accion:     accion,
		MesaID:     r.MesaID,
		NumeroMesa: r.NumeroMesa,
		OrdenID:    r.ID,
		DetalleID:  r.DetalleID,
		Producto:   r.Producto,
		Estado:     r.Estado,
	}, notify.RolesCocina, notify.RolesSalon)}
	if accion == "urgente" {
		evs = append(evs, notify.New(notify.EventoPedidoUrgente, r, notify.RolesCocina))
	}
	s.notif.Emit(ctx, evs...)
	return &r, nil
}

func uuidString(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return id.String()
}
