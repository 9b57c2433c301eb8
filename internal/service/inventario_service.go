package service

import (
	"bytes"
	"context"
	"errors"
	"slices"

	"comandapos/internal/dto"
	"comandapos/internal/model"
	"comandapos/internal/notify"
	"comandapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventarioService es el libro de stock: toda variación de existencia pasa por
// AjustarTx y deja su movimiento.
type InventarioService interface {
	// AjustarTx aplica un ajuste dentro de una transacción ajena. Devuelve el
	// movimiento registrado y el inventario resultante.
	AjustarTx(tx *gorm.DB, a AjusteStock, actor Actor) (*model.MovimientoStock, *model.Inventario, error)
	Ajustar(ctx context.Context, productoID uuid.UUID, req dto.AjusteStockRequest, actor Actor) (*dto.InventarioResponse, error)
	ObtenerInventario(ctx context.Context, productoID uuid.UUID) (*dto.InventarioResponse, error)
	ObtenerAlertas(ctx context.Context) ([]dto.AlertaStockResponse, error)
	ListarMovimientos(ctx context.Context, filter dto.MovimientoFilter) (*dto.MovimientoListResponse, error)
	// Disponible devuelve la existencia actual sin bloquear la fila.
	Disponible(ctx context.Context, productoID uuid.UUID) (decimal.Decimal, error)
}

// AjusteStock es una variación con signo: negativa descuenta, positiva repone.
type AjusteStock struct {
	ProductoID   uuid.UUID
	Nombre       string // sólo para mensajes
	Delta        decimal.Decimal
	Motivo       string
	ReferenciaID *uuid.UUID
}

type inventarioService struct {
	repo  repository.InventarioRepository
	movs  repository.MovimientoStockRepository
	notif Notificador
}

func NewInventarioService(repo repository.InventarioRepository, movs repository.MovimientoStockRepository, notif Notificador) InventarioService {
	if notif == nil {
		notif = sinNotificar{}
	}
	return &inventarioService{repo: repo, movs: movs, notif: notif}
}

func (s *inventarioService) AjustarTx(tx *gorm.DB, a AjusteStock, actor Actor) (*model.MovimientoStock, *model.Inventario, error) {
	if a.Delta.IsZero() {
		return nil, nil, errValidation("el ajuste de stock no puede ser cero")
	}
	anterior, inv, err := s.repo.AjustarTx(tx, a.ProductoID, a.Delta)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, nil, errNotFound("no hay inventario registrado para %s", nombreOID(a))
	case errors.Is(err, repository.ErrStockInsuficiente):
		return nil, nil, errStockInsuficiente(nombreOID(a), anterior, a.Delta.Neg())
	case err != nil:
		return nil, nil, err
	}

	mov := &model.MovimientoStock{
		ProductoID:    a.ProductoID,
		Tipo:          model.MovimientoEntrada,
		Cantidad:      a.Delta.Abs(),
		StockAnterior: anterior,
		StockNuevo:    inv.Cantidad,
		Motivo:        a.Motivo,
		ReferenciaID:  a.ReferenciaID,
		UsuarioID:     actor.ref(),
	}
	if a.Delta.IsNegative() {
		mov.Tipo = model.MovimientoSalida
	}
	if err := s.movs.CreateTx(tx, mov); err != nil {
		return nil, nil, err
	}
	if inv.Producto == nil && a.Nombre != "" {
		inv.Producto = &model.Producto{ID: a.ProductoID, Nombre: a.Nombre}
	}
	return mov, inv, nil
}

// ajustarEnOrden aplica los ajustes ordenados por producto. Los locks de
// inventario se toman siempre en ese orden.
func ajustarEnOrden(tx *gorm.DB, stock InventarioService, ajustes []AjusteStock, actor Actor) ([]*model.Inventario, error) {
	ordenados := slices.Clone(ajustes)
	slices.SortStableFunc(ordenados, func(a, b AjusteStock) int {
		return bytes.Compare(a.ProductoID[:], b.ProductoID[:])
	})
	invs := make([]*model.Inventario, 0, len(ordenados))
	for _, a := range ordenados {
		_, inv, err := stock.AjustarTx(tx, a, actor)
		if err != nil {
			return nil, err
		}
		invs = append(invs, inv)
	}
	return invs, nil
}

// ── Ajuste manual ─────────────────────────────────────────────────────────────

func (s *inventarioService) Ajustar(ctx context.Context, productoID uuid.UUID, req dto.AjusteStockRequest, actor Actor) (*dto.InventarioResponse, error) {
	actual, err := s.repo.FindByProductoID(ctx, productoID)
	if err != nil {
		return nil, notFoundOr(err, "inventario no encontrado")
	}
	a := AjusteStock{ProductoID: productoID, Delta: req.Delta, Motivo: req.Motivo}
	if actual.Producto != nil {
		a.Nombre = actual.Producto.Nombre
	}

	var inv *model.Inventario
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		_, inv, err = s.AjustarTx(tx, a, actor)
		return err
	})
	if err != nil {
		return nil, err
	}
	inv.Producto = actual.Producto
	s.notif.Emit(ctx, alertasStock([]*model.Inventario{inv})...)
	return inventarioToResponse(inv), nil
}

func (s *inventarioService) ObtenerInventario(ctx context.Context, productoID uuid.UUID) (*dto.InventarioResponse, error) {
	inv, err := s.repo.FindByProductoID(ctx, productoID)
	if err != nil {
		return nil, notFoundOr(err, "inventario no encontrado")
	}
	return inventarioToResponse(inv), nil
}

func (s *inventarioService) Disponible(ctx context.Context, productoID uuid.UUID) (decimal.Decimal, error) {
	inv, err := s.repo.FindByProductoID(ctx, productoID)
	if err != nil {
		return decimal.Zero, err
	}
	return inv.Cantidad, nil
}

func (s *inventarioService) ObtenerAlertas(ctx context.Context) ([]dto.AlertaStockResponse, error) {
	invs, err := s.repo.ListBajoMinimo(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AlertaStockResponse, 0, len(invs))
	for i := range invs {
		out = append(out, alertaToResponse(&invs[i]))
	}
	return out, nil
}

func (s *inventarioService) ListarMovimientos(ctx context.Context, filter dto.MovimientoFilter) (*dto.MovimientoListResponse, error) {
	f := repository.MovimientoStockFilter{Tipo: filter.Tipo, Page: filter.Page, Limit: filter.Limit}
	if filter.ProductoID != "" {
		id, err := uuid.Parse(filter.ProductoID)
		if err != nil {
			return nil, errValidation("producto_id inválido")
		}
		f.ProductoID = &id
	}
	movs, total, err := s.movs.List(ctx, f)
	if err != nil {
		return nil, err
	}
	data := make([]dto.MovimientoStockResponse, 0, len(movs))
	for i := range movs {
		data = append(data, movimientoToResponse(&movs[i]))
	}
	return &dto.MovimientoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// alertasStock arma un stock_alert por cada producto que quedó en o bajo el
// mínimo. Se emite después del commit.
func alertasStock(invs []*model.Inventario) []notify.Event {
	var evs []notify.Event
	vistos := make(map[uuid.UUID]bool)
	for _, inv := range invs {
		if inv == nil || vistos[inv.ProductoID] || !inv.BajoMinimo() {
			continue
		}
		vistos[inv.ProductoID] = true
		evs = append(evs, notify.New(notify.EventoAlertaStock, alertaToResponse(inv), notify.RolesGerencia, notify.RolesCocina))
	}
	return evs
}

func errStockInsuficiente(nombre string, disponible, solicitado decimal.Decimal) error {
	return newError(KindStockInsuficiente, "Stock insuficiente para %s. Disponible: %s, Solicitado: %s",
		nombre, disponible.String(), solicitado.String())
}

func nombreOID(a AjusteStock) string {
	if a.Nombre != "" {
		return a.Nombre
	}
	return a.ProductoID.String()
}
