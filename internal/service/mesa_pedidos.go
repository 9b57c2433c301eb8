package service

import (
	"context"

	"comandapos/internal/dto"
	"comandapos/internal/model"
	"comandapos/internal/notify"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── AgregarItems ──────────────────────────────────────────────────────────────
//   1. Resolver productos y validar stock de todo el lote (sin escribir nada)
//   2. Con la mesa bloqueada: secuencia = máx(secuencia de la mesa) + 1, una
//      sola vez para el lote, y una sola marca de tiempo. El máximo incluye
//      Mesa.UltimaSecuencia para no reutilizar secuencias de órdenes borradas
//   3. Aplicar el plan: líneas nuevas o fusionadas, stock, órdenes de cocina,
//      recálculo completo de la factura
//   4. COMMIT, después eventos

func (s *mesaService) AgregarItems(ctx context.Context, sesionID uuid.UUID, req dto.AgregarItemsRequest, actor Actor) (*dto.SesionResponse, error) {
	items, err := s.catalogo.resolver(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	var plan *pedidoPlan
	var invs []*model.Inventario
	err = s.enSesion(ctx, sesionID, func(tx *gorm.DB, ses *model.SesionMesa) error {
		max, err := s.cocina.MaxSecuenciaTx(tx, ses.MesaID)
		if err != nil {
			return err
		}
		if ses.Mesa.UltimaSecuencia > max {
			max = ses.Mesa.UltimaSecuencia
		}
		if err := s.mesas.UpdateSecuenciaTx(tx, ses.MesaID, max+1); err != nil {
			return err
		}
		ses.Mesa.UltimaSecuencia = max + 1
		lote := loteCocina{
			secuencia: max + 1,
			en:        s.ahora(),
			urgente:   req.Urgente,
			motivo:    limpiarNotas(req.MotivoUrgencia),
			mesero:    actor.Nombre,
		}
		plan = planAgregar(ses, items, lote)
		invs, err = s.aplicarPlan(tx, plan, actor)
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.despuesDePedido(ctx, sesionID, plan, invs)
}

// ── QuitarItem ────────────────────────────────────────────────────────────────

func (s *mesaService) QuitarItem(ctx context.Context, sesionID, detalleID uuid.UUID, actor Actor) (*dto.SesionResponse, error) {
	var plan *pedidoPlan
	var invs []*model.Inventario
	err := s.enSesion(ctx, sesionID, func(tx *gorm.DB, ses *model.SesionMesa) error {
		var err error
		plan, err = planQuitar(ses, detalleID)
		if err != nil {
			return err
		}
		invs, err = s.aplicarPlan(tx, plan, actor)
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.despuesDePedido(ctx, sesionID, plan, invs)
}

func (s *mesaService) despuesDePedido(ctx context.Context, sesionID uuid.UUID, plan *pedidoPlan, invs []*model.Inventario) (*dto.SesionResponse, error) {
	ses, err := s.mesas.FindSesionByID(ctx, sesionID)
	if err != nil {
		return nil, err
	}
	eventos := append(plan.eventos, notify.New(notify.EventoMesa, mesaToResponse(ses.Mesa, ses), notify.RolesSalon))
	eventos = append(eventos, alertasStock(invs)...)
	s.notif.Emit(ctx, eventos...)
	return sesionToResponse(ses), nil
}
