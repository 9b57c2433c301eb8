package service

import (
	"context"
	"time"

	"comandapos/internal/dto"
	"comandapos/internal/model"
	"comandapos/internal/notify"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// MotivoLiberacion queda en la factura anulada al liberar una mesa vacía.
const MotivoLiberacion = "Mesa liberada sin pedido"

// ── Pagar ─────────────────────────────────────────────────────────────────────
// Descuento, servicio y domicilio se aplican en ese orden sobre el total que
// va quedando (ver aplicarCargos). Al cobrar se cierra la sesión, se libera la
// mesa y todo lo pendiente en cocina pasa a entregado.

func (s *mesaService) Pagar(ctx context.Context, sesionID uuid.UUID, req dto.PagarMesaRequest, actor Actor) (*dto.FacturaResponse, error) {
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
	if req.MontoRecibido.IsNegative() {
		return nil, errValidation("el monto recibido no puede ser negativo")
	}

	var ses *model.SesionMesa
	err = s.enSesion(ctx, sesionID, func(tx *gorm.DB, actual *model.SesionMesa) error {
		ses = actual
		f := ses.Factura
		if len(f.Detalles) == 0 {
			return errEstado("la mesa %d no tiene items: libérela en lugar de cobrarla", numeroMesa(ses))
		}

		recalcularFactura(f, f.Detalles)
		aplicarCargos(f, cargos)
		if err := registrarCobro(f, metodo, req.MontoRecibido); err != nil {
			return err
		}

		ahora := s.ahora()
		f.Estado = model.FacturaCompletada
		f.EstadoPago = model.PagoPagado
		if n := limpiarNotas(req.Notas); n != nil {
			f.Notas = n
		}
		if err := s.facturas.UpdateTx(tx, f); err != nil {
			return err
		}

		// Todo lo que quedaba en cocina se da por entregado.
		if err := s.facturas.UpdateEstadoCocinaFacturaTx(tx, f.ID, model.CocinaEntregado); err != nil {
			return err
		}
		if err := s.cocina.EntregarPorFacturaTx(tx, f.ID); err != nil {
			return err
		}
		for i := range f.Detalles {
			f.Detalles[i].EstadoCocina = model.CocinaEntregado
		}

		return s.cerrarSesionTx(tx, ses, actor, ahora)
	})
	if err != nil {
		return nil, err
	}

	f := ses.Factura
	s.notif.Emit(ctx,
		notify.New(notify.EventoPedidoPagado, eventoPago{
			MesaID:        ses.MesaID.String(),
			NumeroMesa:    numeroMesa(ses),
			FacturaID:     f.ID.String(),
			NumeroFactura: f.Numero,
			Tipo:          string(f.Tipo),
			MetodoPago:    string(*f.MetodoPago),
			Total:         f.Total,
		}, notify.RolesSalon, notify.RolesCocina),
		notify.New(notify.EventoMesa, mesaToResponse(ses.Mesa, nil), notify.RolesSalon),
	)
	if err := s.jobs.EncolarComprobante(ctx, f.ID, req.ClienteEmail); err != nil {
		log.Warn().Err(err).Str("factura", f.Numero).Msg("no se pudo encolar el comprobante")
	}

	resp := facturaToResponse(f)
	return &resp, nil
}

// ── Liberar ───────────────────────────────────────────────────────────────────
// Sólo para sesiones sin items. No hay movimiento de stock porque nunca se
// descontó nada.

func (s *mesaService) Liberar(ctx context.Context, sesionID uuid.UUID, actor Actor) (*dto.SesionResponse, error) {
	var ses *model.SesionMesa
	err := s.enSesion(ctx, sesionID, func(tx *gorm.DB, actual *model.SesionMesa) error {
		ses = actual
		f := ses.Factura
		if len(f.Detalles) > 0 {
			return errEstado("la mesa %d tiene items: cobre o quite los items antes de liberarla", numeroMesa(ses))
		}

		ahora := s.ahora()
		motivo := MotivoLiberacion
		f.Estado = model.FacturaAnulada
		f.AnuladaPor = actor.ref()
		f.AnuladaEn = &ahora
		f.MotivoAnulacion = &motivo
		if err := s.facturas.UpdateTx(tx, f); err != nil {
			return err
		}
		return s.cerrarSesionTx(tx, ses, actor, ahora)
	})
	if err != nil {
		return nil, err
	}

	s.notif.Emit(ctx, notify.New(notify.EventoMesa, mesaToResponse(ses.Mesa, nil), notify.RolesSalon))
	return sesionToResponse(ses), nil
}

// cerrarSesionTx cierra la sesión y deja la mesa disponible.
func (s *mesaService) cerrarSesionTx(tx *gorm.DB, ses *model.SesionMesa, actor Actor, ahora time.Time) error {
	if err := s.mesas.CerrarSesionTx(tx, ses.ID, actor.ID, ahora); err != nil {
		return err
	}
	if err := s.mesas.UpdateEstadoTx(tx, ses.MesaID, model.MesaDisponible); err != nil {
		return err
	}
	ses.Estado = model.SesionCerrada
	ses.CerradaPor = actor.ref()
	ses.CerradaEn = &ahora
	ses.Mesa.Estado = model.MesaDisponible
	return nil
}
