package service_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"comandapos/internal/dto"
	"comandapos/internal/model"
	"comandapos/internal/notify"
	"comandapos/internal/repository"
	"comandapos/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Store en memoria ──────────────────────────────────────────────────────────
// Un único store respalda todos los repositorios stub. Los métodos devuelven
// copias, como haría la base: el servicio sólo ve sus cambios después de
// escribirlos. Con tx = nil no hay rollback, así que los tests de rechazo
// verifican que el servicio valida antes de escribir.

type store struct {
	mu sync.Mutex

	mesas      map[uuid.UUID]model.Mesa
	sesiones   map[uuid.UUID]model.SesionMesa
	facturas   map[uuid.UUID]model.Factura
	detalles   map[uuid.UUID]model.FacturaDetalle
	ordenes    map[uuid.UUID]model.OrdenCocina
	productos  map[uuid.UUID]model.Producto
	inventario map[uuid.UUID]model.Inventario
	clientes   map[uuid.UUID]model.Cliente
	movs       []model.MovimientoStock

	// productos en el orden en que AjustarTx tomó su fila
	bloqueosStock []uuid.UUID

	altas      map[uuid.UUID]int // orden de inserción de líneas y órdenes
	contador   int
	numeroSeq  int64
	fallaOrden bool
}

func newStore() *store {
	return &store{
		mesas:      make(map[uuid.UUID]model.Mesa),
		sesiones:   make(map[uuid.UUID]model.SesionMesa),
		facturas:   make(map[uuid.UUID]model.Factura),
		detalles:   make(map[uuid.UUID]model.FacturaDetalle),
		ordenes:    make(map[uuid.UUID]model.OrdenCocina),
		productos:  make(map[uuid.UUID]model.Producto),
		inventario: make(map[uuid.UUID]model.Inventario),
		clientes:   make(map[uuid.UUID]model.Cliente),
		altas:      make(map[uuid.UUID]int),
	}
}

func (s *store) alta(id uuid.UUID) {
	s.contador++
	s.altas[id] = s.contador
}

// factura arma la factura con sus líneas en orden de alta. Requiere s.mu.
func (s *store) factura(id uuid.UUID) (*model.Factura, bool) {
	f, ok := s.facturas[id]
	if !ok {
		return nil, false
	}
	f.Detalles = nil
	for _, d := range s.detalles {
		if d.FacturaID == id {
			f.Detalles = append(f.Detalles, d)
		}
	}
	sort.Slice(f.Detalles, func(i, j int) bool {
		return s.altas[f.Detalles[i].ID] < s.altas[f.Detalles[j].ID]
	})
	if f.ClienteID != nil {
		if c, ok := s.clientes[*f.ClienteID]; ok {
			f.Cliente = &c
		}
	}
	return &f, true
}

// sesion arma la sesión con mesa y factura. Requiere s.mu.
func (s *store) sesion(ses model.SesionMesa) *model.SesionMesa {
	if m, ok := s.mesas[ses.MesaID]; ok {
		ses.Mesa = &m
	}
	if f, ok := s.factura(ses.FacturaID); ok {
		ses.Factura = f
	}
	return &ses
}

// ── Mesas ─────────────────────────────────────────────────────────────────────

type stubMesaRepo struct{ *store }

func (r stubMesaRepo) Create(_ context.Context, m *model.Mesa) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, otra := range r.mesas {
		if otra.Numero == m.Numero {
			return repository.ErrDuplicateKey
		}
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.mesas[m.ID] = *m
	return nil
}

func (r stubMesaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Mesa, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.mesas[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (r stubMesaRepo) FindByNumero(_ context.Context, numero int) (*model.Mesa, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.mesas {
		if m.Numero == numero {
			m := m
			return &m, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r stubMesaRepo) List(_ context.Context, soloActivas bool) ([]model.Mesa, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Mesa
	for _, m := range r.mesas {
		if soloActivas && !m.Activo {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OrdenVisual != out[j].OrdenVisual {
			return out[i].OrdenVisual < out[j].OrdenVisual
		}
		return out[i].Numero < out[j].Numero
	})
	return out, nil
}

func (r stubMesaRepo) Update(_ context.Context, m *model.Mesa) error {
	return r.UpdateTx(nil, m)
}

func (r stubMesaRepo) MaxOrdenVisual(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	max := 0
	for _, m := range r.mesas {
		if m.OrdenVisual > max {
			max = m.OrdenVisual
		}
	}
	return max, nil
}

func (r stubMesaRepo) LockTx(_ *gorm.DB, id uuid.UUID) (*model.Mesa, error) {
	return r.FindByID(context.Background(), id)
}

func (r stubMesaRepo) UpdateTx(_ *gorm.DB, m *model.Mesa) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.mesas[m.ID]; !ok {
		return repository.ErrNotFound
	}
	for _, otra := range r.mesas {
		if otra.ID != m.ID && otra.Numero == m.Numero {
			return repository.ErrDuplicateKey
		}
	}
	r.mesas[m.ID] = *m
	return nil
}

func (r stubMesaRepo) UpdateEstadoTx(_ *gorm.DB, id uuid.UUID, estado model.EstadoMesa) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.mesas[id]
	m.Estado = estado
	r.mesas[id] = m
	return nil
}

func (r stubMesaRepo) UpdateSecuenciaTx(_ *gorm.DB, id uuid.UUID, secuencia int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.mesas[id]
	m.UltimaSecuencia = secuencia
	r.mesas[id] = m
	return nil
}

func (r stubMesaRepo) CreateSesionTx(_ *gorm.DB, ses *model.SesionMesa) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, otra := range r.sesiones {
		if otra.MesaID == ses.MesaID && otra.Estado == model.SesionAbierta {
			return repository.ErrDuplicateKey
		}
	}
	if ses.ID == uuid.Nil {
		ses.ID = uuid.New()
	}
	guardada := *ses
	guardada.Mesa, guardada.Factura = nil, nil
	r.sesiones[ses.ID] = guardada
	return nil
}

func (r stubMesaRepo) FindSesionByID(_ context.Context, id uuid.UUID) (*model.SesionMesa, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ses, ok := r.sesiones[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.sesion(ses), nil
}

func (r stubMesaRepo) FindSesionTx(_ *gorm.DB, id uuid.UUID) (*model.SesionMesa, error) {
	return r.FindSesionByID(context.Background(), id)
}

func (r stubMesaRepo) FindSesionByFacturaID(_ context.Context, facturaID uuid.UUID) (*model.SesionMesa, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ses := range r.sesiones {
		if ses.FacturaID == facturaID {
			return r.sesion(ses), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r stubMesaRepo) FindSesionAbiertaTx(_ *gorm.DB, mesaID uuid.UUID) (*model.SesionMesa, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ses := range r.sesiones {
		if ses.MesaID == mesaID && ses.Estado == model.SesionAbierta {
			return r.sesion(ses), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r stubMesaRepo) ListSesionesAbiertas(_ context.Context) ([]model.SesionMesa, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.SesionMesa
	for _, ses := range r.sesiones {
		if ses.Estado == model.SesionAbierta {
			out = append(out, *r.sesion(ses))
		}
	}
	return out, nil
}

func (r stubMesaRepo) CerrarSesionTx(_ *gorm.DB, id uuid.UUID, cerradaPor uuid.UUID, cerradaEn time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ses, ok := r.sesiones[id]
	if !ok {
		return repository.ErrNotFound
	}
	ses.Estado = model.SesionCerrada
	ses.CerradaPor = &cerradaPor
	ses.CerradaEn = &cerradaEn
	r.sesiones[id] = ses
	return nil
}

func (r stubMesaRepo) DB() *gorm.DB { return nil }

var _ repository.MesaRepository = stubMesaRepo{}

// ── Facturas ──────────────────────────────────────────────────────────────────

type stubFacturaRepo struct{ *store }

func (r stubFacturaRepo) CreateTx(_ *gorm.DB, f *model.Factura) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	for _, d := range f.Detalles {
		r.detalles[d.ID] = d
		r.alta(d.ID)
	}
	cab := *f
	cab.Detalles, cab.Cliente = nil, nil
	r.facturas[f.ID] = cab
	return nil
}

func (r stubFacturaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Factura, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.factura(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return f, nil
}

func (r stubFacturaRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Factura, error) {
	return r.FindByID(context.Background(), id)
}

func (r stubFacturaRepo) LockTx(_ *gorm.DB, id uuid.UUID) (*model.Factura, error) {
	return r.FindByID(context.Background(), id)
}

func (r stubFacturaRepo) UpdateTx(_ *gorm.DB, f *model.Factura) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.facturas[f.ID]; !ok {
		return repository.ErrNotFound
	}
	cab := *f
	cab.Detalles, cab.Cliente = nil, nil
	r.facturas[f.ID] = cab
	return nil
}

func (r stubFacturaRepo) NextNumeroTx(_ *gorm.DB) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.numeroSeq++
	return r.numeroSeq, nil
}

func (r stubFacturaRepo) List(_ context.Context, filter dto.FacturaFilter) ([]model.Factura, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Factura
	for id := range r.facturas {
		f, _ := r.factura(id)
		if filter.Estado != "" && filter.Estado != "all" && string(f.Estado) != filter.Estado {
			continue
		}
		if filter.Tipo != "" && string(f.Tipo) != filter.Tipo {
			continue
		}
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Numero < out[j].Numero })
	return out, int64(len(out)), nil
}

func (r stubFacturaRepo) CreateDetalleTx(_ *gorm.DB, d *model.FacturaDetalle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	r.detalles[d.ID] = *d
	r.alta(d.ID)
	return nil
}

func (r stubFacturaRepo) UpdateDetalleTx(_ *gorm.DB, d *model.FacturaDetalle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.detalles[d.ID]; !ok {
		return repository.ErrNotFound
	}
	r.detalles[d.ID] = *d
	return nil
}

func (r stubFacturaRepo) DeleteDetalleTx(_ *gorm.DB, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.detalles[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.detalles, id)
	return nil
}

func (r stubFacturaRepo) ListDetallesTx(_ *gorm.DB, facturaID uuid.UUID) ([]model.FacturaDetalle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.factura(facturaID)
	if !ok {
		return nil, nil
	}
	return f.Detalles, nil
}

func (r stubFacturaRepo) FindDetalleByID(_ context.Context, id uuid.UUID) (*model.FacturaDetalle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.detalles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &d, nil
}

func (r stubFacturaRepo) UpdateEstadoCocinaDetalleTx(_ *gorm.DB, id uuid.UUID, estado model.EstadoCocina) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.detalles[id]
	if !ok {
		return repository.ErrNotFound
	}
	d.EstadoCocina = estado
	r.detalles[id] = d
	return nil
}

func (r stubFacturaRepo) UpdateEstadoCocinaFacturaTx(_ *gorm.DB, facturaID uuid.UUID, estado model.EstadoCocina) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, d := range r.detalles {
		if d.FacturaID == facturaID {
			d.EstadoCocina = estado
			r.detalles[id] = d
		}
	}
	return nil
}

func (r stubFacturaRepo) DB() *gorm.DB { return nil }

var _ repository.FacturaRepository = stubFacturaRepo{}

// ── Cocina ────────────────────────────────────────────────────────────────────

type stubCocinaRepo struct{ *store }

func (r stubCocinaRepo) CreateTx(_ *gorm.DB, o *model.OrdenCocina) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fallaOrden {
		return errors.New("ordenes_cocina: insert failed")
	}
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	r.ordenes[o.ID] = *o
	r.alta(o.ID)
	return nil
}

func (r stubCocinaRepo) MaxSecuenciaTx(_ *gorm.DB, mesaID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	max := 0
	for _, o := range r.ordenes {
		if o.MesaID == mesaID && o.Secuencia > max {
			max = o.Secuencia
		}
	}
	return max, nil
}

func (r stubCocinaRepo) ListActivas(_ context.Context) ([]model.OrdenCocina, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.OrdenCocina
	for _, o := range r.ordenes {
		if o.Estado == model.CocinaEntregado {
			continue
		}
		if m, ok := r.mesas[o.MesaID]; ok {
			o.Mesa = &m
		}
		if f, ok := r.facturas[o.FacturaID]; ok {
			o.Factura = &f
		}
		if d, ok := r.detalles[o.DetalleID]; ok {
			o.Detalle = &d
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OrdenadaEn.Equal(out[j].OrdenadaEn) {
			return out[i].OrdenadaEn.Before(out[j].OrdenadaEn)
		}
		if out[i].Secuencia != out[j].Secuencia {
			return out[i].Secuencia < out[j].Secuencia
		}
		return r.altas[out[i].ID] < r.altas[out[j].ID]
	})
	return out, nil
}

func (r stubCocinaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.OrdenCocina, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.ordenes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &o, nil
}

func (r stubCocinaRepo) UpdateEstadoTx(_ *gorm.DB, id uuid.UUID, estado model.EstadoCocina) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o := r.ordenes[id]
	o.Estado = estado
	r.ordenes[id] = o
	return nil
}

func (r stubCocinaRepo) UpdateEstadoPorDetalleTx(_ *gorm.DB, detalleID uuid.UUID, estado model.EstadoCocina) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, o := range r.ordenes {
		if o.DetalleID == detalleID {
			o.Estado = estado
			r.ordenes[id] = o
		}
	}
	return nil
}

func (r stubCocinaRepo) UpdateUrgenciaTx(_ *gorm.DB, id uuid.UUID, motivo *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o := r.ordenes[id]
	o.Urgente = true
	o.MotivoUrgencia = motivo
	r.ordenes[id] = o
	return nil
}

func (r stubCocinaRepo) DeletePorDetalleTx(_ *gorm.DB, detalleID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, o := range r.ordenes {
		if o.DetalleID == detalleID {
			delete(r.ordenes, id)
		}
	}
	return nil
}

func (r stubCocinaRepo) EntregarPorFacturaTx(_ *gorm.DB, facturaID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, o := range r.ordenes {
		if o.FacturaID == facturaID {
			o.Estado = model.CocinaEntregado
			r.ordenes[id] = o
		}
	}
	return nil
}

func (r stubCocinaRepo) DB() *gorm.DB { return nil }

var _ repository.CocinaRepository = stubCocinaRepo{}

// ── Inventario / movimientos ──────────────────────────────────────────────────

type stubInventarioRepo struct{ *store }

func (r stubInventarioRepo) Create(_ context.Context, inv *model.Inventario) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	r.inventario[inv.ProductoID] = *inv
	return nil
}

func (r stubInventarioRepo) FindByProductoID(_ context.Context, productoID uuid.UUID) (*model.Inventario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.inventario[productoID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if p, ok := r.productos[productoID]; ok {
		inv.Producto = &p
	}
	return &inv, nil
}

func (r stubInventarioRepo) AjustarTx(_ *gorm.DB, productoID uuid.UUID, delta decimal.Decimal) (decimal.Decimal, *model.Inventario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bloqueosStock = append(r.bloqueosStock, productoID)
	inv, ok := r.inventario[productoID]
	if !ok {
		return decimal.Zero, nil, repository.ErrNotFound
	}
	anterior := inv.Cantidad
	nueva := anterior.Add(delta)
	if nueva.IsNegative() {
		return anterior, &inv, repository.ErrStockInsuficiente
	}
	inv.Cantidad = nueva
	r.inventario[productoID] = inv
	return anterior, &inv, nil
}

func (r stubInventarioRepo) ListBajoMinimo(_ context.Context) ([]model.Inventario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Inventario
	for _, inv := range r.inventario {
		if inv.BajoMinimo() {
			if p, ok := r.productos[inv.ProductoID]; ok {
				inv.Producto = &p
			}
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r stubInventarioRepo) DB() *gorm.DB { return nil }

var _ repository.InventarioRepository = stubInventarioRepo{}

type stubMovimientoRepo struct{ *store }

func (r stubMovimientoRepo) CreateTx(_ *gorm.DB, m *model.MovimientoStock) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movs = append(r.movs, *m)
	return nil
}

func (r stubMovimientoRepo) List(_ context.Context, f repository.MovimientoStockFilter) ([]model.MovimientoStock, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.MovimientoStock
	for _, m := range r.movs {
		if f.ProductoID != nil && m.ProductoID != *f.ProductoID {
			continue
		}
		if f.Tipo != "" && string(m.Tipo) != f.Tipo {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

var _ repository.MovimientoStockRepository = stubMovimientoRepo{}

// ── Catálogo ──────────────────────────────────────────────────────────────────

type stubProductoRepo struct{ *store }

func (r stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = *p
	return nil
}

func (r stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.productos[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r stubProductoRepo) FindByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.Producto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[uuid.UUID]*model.Producto, len(ids))
	for _, id := range ids {
		if p, ok := r.productos[id]; ok {
			p := p
			out[id] = &p
		}
	}
	return out, nil
}

var _ repository.ProductoRepository = stubProductoRepo{}

type stubClienteRepo struct{ *store }

func (r stubClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clientes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

var _ repository.ClienteRepository = stubClienteRepo{}

// ── Notificador y cola ────────────────────────────────────────────────────────

type eventosCapturados struct {
	mu      sync.Mutex
	eventos []notify.Event
}

func (e *eventosCapturados) Emit(_ context.Context, evs ...notify.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.eventos = append(e.eventos, evs...)
}

func (e *eventosCapturados) nombres() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.eventos))
	for _, ev := range e.eventos {
		out = append(out, ev.Name)
	}
	return out
}

func (e *eventosCapturados) reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.eventos = nil
}

var _ service.Notificador = (*eventosCapturados)(nil)

type colaComprobantes struct {
	facturas []uuid.UUID
	emails   []*string
	err      error
}

func (c *colaComprobantes) EncolarComprobante(_ context.Context, id uuid.UUID, email *string) error {
	if c.err != nil {
		return c.err
	}
	c.facturas = append(c.facturas, id)
	c.emails = append(c.emails, email)
	return nil
}

var _ service.EncoladorComprobantes = (*colaComprobantes)(nil)

// ── Entorno ───────────────────────────────────────────────────────────────────

type entorno struct {
	st       *store
	mesas    service.MesaService
	cocina   service.CocinaService
	facturas service.FacturaService
	stock    service.InventarioService
	eventos  *eventosCapturados
	cola     *colaComprobantes
}

var mesero = service.Actor{ID: uuid.New(), Nombre: "ana", Rol: model.RolMesero}

func newEntorno() *entorno {
	st := newStore()
	ev := &eventosCapturados{}
	cola := &colaComprobantes{}
	bloqueos := service.NewBloqueos()

	stock := service.NewInventarioService(stubInventarioRepo{st}, stubMovimientoRepo{st}, ev)
	return &entorno{
		st:       st,
		mesas:    service.NewMesaService(stubMesaRepo{st}, stubFacturaRepo{st}, stubCocinaRepo{st}, stubProductoRepo{st}, stubClienteRepo{st}, stock, ev, cola, bloqueos),
		cocina:   service.NewCocinaService(stubCocinaRepo{st}, stubFacturaRepo{st}, stubMesaRepo{st}, ev, bloqueos),
		facturas: service.NewFacturaService(stubFacturaRepo{st}, stubProductoRepo{st}, stubClienteRepo{st}, stock, ev, cola, bloqueos),
		stock:    stock,
		eventos:  ev,
		cola:     cola,
	}
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

// producto da de alta un producto activo sin impuesto con su inventario.
func (e *entorno) producto(nombre, precio, stock string) uuid.UUID {
	return e.productoConTasa(nombre, precio, "0", stock)
}

func (e *entorno) productoConTasa(nombre, precio, tasa, stock string) uuid.UUID {
	p := &model.Producto{
		ID:           uuid.New(),
		Codigo:       nombre,
		Nombre:       nombre,
		PrecioVenta:  d(precio),
		TasaImpuesto: d(tasa),
		Activo:       true,
	}
	_ = stubProductoRepo{e.st}.Create(context.Background(), p)
	_ = stubInventarioRepo{e.st}.Create(context.Background(), &model.Inventario{
		ProductoID:  p.ID,
		Cantidad:    d(stock),
		StockMinimo: d("2"),
	})
	return p.ID
}

func (e *entorno) mesa(numero int) uuid.UUID {
	m, err := e.mesas.CrearMesa(context.Background(), dto.CrearMesaRequest{Numero: numero})
	if err != nil {
		panic(err)
	}
	return uuid.MustParse(m.ID)
}

func (e *entorno) abrir(mesaID uuid.UUID) *dto.SesionResponse {
	ses, err := e.mesas.AbrirSesion(context.Background(), mesaID, dto.AbrirMesaRequest{Comensales: ptr(2)}, mesero)
	if err != nil {
		panic(err)
	}
	return ses
}

func (e *entorno) stockDe(productoID uuid.UUID) decimal.Decimal {
	e.st.mu.Lock()
	defer e.st.mu.Unlock()
	return e.st.inventario[productoID].Cantidad
}

func (e *entorno) ordenesDe(mesaID uuid.UUID) []model.OrdenCocina {
	e.st.mu.Lock()
	defer e.st.mu.Unlock()
	var out []model.OrdenCocina
	for _, o := range e.st.ordenes {
		if o.MesaID == mesaID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return e.st.altas[out[i].ID] < e.st.altas[out[j].ID] })
	return out
}

func item(productoID uuid.UUID, cantidad string) dto.ItemPedidoRequest {
	return dto.ItemPedidoRequest{ProductoID: productoID.String(), Cantidad: d(cantidad)}
}

func sid(s *dto.SesionResponse) uuid.UUID { return uuid.MustParse(s.ID) }
