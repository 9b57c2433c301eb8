package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"comandapos/internal/dto"
	"comandapos/internal/model"
	"comandapos/internal/notify"
	"comandapos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MesaService orquesta el ciclo de vida de mesa y sesión: apertura, pedidos,
// cobro y liberación. Toda mutación de una mesa corre con el lock de esa mesa
// tomado (Bloqueos + FOR UPDATE sobre la fila).
type MesaService interface {
	CrearMesa(ctx context.Context, req dto.CrearMesaRequest) (*dto.MesaResponse, error)
	ListarMesas(ctx context.Context) ([]dto.MesaResponse, error)
	ObtenerMesa(ctx context.Context, id uuid.UUID) (*dto.MesaResponse, error)
	ActualizarMesa(ctx context.Context, id uuid.UUID, req dto.ActualizarMesaRequest) (*dto.MesaResponse, error)
	DesactivarMesa(ctx context.Context, id uuid.UUID) error
	CambiarEstado(ctx context.Context, id uuid.UUID, estado string) (*dto.MesaResponse, error)

	AbrirSesion(ctx context.Context, mesaID uuid.UUID, req dto.AbrirMesaRequest, actor Actor) (*dto.SesionResponse, error)
	ObtenerSesion(ctx context.Context, id uuid.UUID) (*dto.SesionResponse, error)
	ListarSesionesActivas(ctx context.Context) ([]dto.SesionResponse, error)

	AgregarItems(ctx context.Context, sesionID uuid.UUID, req dto.AgregarItemsRequest, actor Actor) (*dto.SesionResponse, error)
	QuitarItem(ctx context.Context, sesionID, detalleID uuid.UUID, actor Actor) (*dto.SesionResponse, error)

	Pagar(ctx context.Context, sesionID uuid.UUID, req dto.PagarMesaRequest, actor Actor) (*dto.FacturaResponse, error)
	Liberar(ctx context.Context, sesionID uuid.UUID, actor Actor) (*dto.SesionResponse, error)
}

type mesaService struct {
	mesas    repository.MesaRepository
	facturas repository.FacturaRepository
	cocina   repository.CocinaRepository
	clientes repository.ClienteRepository
	stock    InventarioService
	catalogo catalogo
	notif    Notificador
	jobs     EncoladorComprobantes
	bloqueos *Bloqueos
	ahora    func() time.Time
}

func NewMesaService(
	mesas repository.MesaRepository,
	facturas repository.FacturaRepository,
	cocina repository.CocinaRepository,
	productos repository.ProductoRepository,
	clientes repository.ClienteRepository,
	stock InventarioService,
	notif Notificador,
	jobs EncoladorComprobantes,
	bloqueos *Bloqueos,
) MesaService {
	if notif == nil {
		notif = sinNotificar{}
	}
	if jobs == nil {
		jobs = sinComprobantes{}
	}
	if bloqueos == nil {
		bloqueos = NewBloqueos()
	}
	return &mesaService{
		mesas:    mesas,
		facturas: facturas,
		cocina:   cocina,
		clientes: clientes,
		stock:    stock,
		catalogo: catalogo{productos: productos, inventario: stock},
		notif:    notif,
		jobs:     jobs,
		bloqueos: bloqueos,
		ahora:    time.Now,
	}
}

// ── Mesas ─────────────────────────────────────────────────────────────────────

func (s *mesaService) CrearMesa(ctx context.Context, req dto.CrearMesaRequest) (*dto.MesaResponse, error) {
	if _, err := s.mesas.FindByNumero(ctx, req.Numero); err == nil {
		return nil, errConflict("ya existe la mesa número %d", req.Numero)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	m := &model.Mesa{
		Numero:    req.Numero,
		Nombre:    fmt.Sprintf("Mesa %d", req.Numero),
		Capacidad: 4,
		Zona:      model.ZonaInterior,
		Estado:    model.MesaDisponible,
		Activo:    true,
	}
	if req.Nombre != nil {
		m.Nombre = *req.Nombre
	}
	if req.Capacidad != nil {
		m.Capacidad = *req.Capacidad
	}
	if req.Zona != nil {
		z, err := model.ParseZonaMesa(*req.Zona)
		if err != nil {
			return nil, errValidation("%s", err.Error())
		}
		m.Zona = z
	}
	if req.OrdenVisual != nil {
		m.OrdenVisual = *req.OrdenVisual
	} else {
		max, err := s.mesas.MaxOrdenVisual(ctx)
		if err != nil {
			return nil, err
		}
		m.OrdenVisual = max + 1
	}

	if err := s.mesas.Create(ctx, m); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, errConflict("ya existe la mesa número %d", req.Numero)
		}
		return nil, err
	}
	resp := mesaToResponse(m, nil)
	return &resp, nil
}

// ListarMesas devuelve el plano del salón: mesas activas por orden visual con
// el resumen de su sesión abierta.
func (s *mesaService) ListarMesas(ctx context.Context) ([]dto.MesaResponse, error) {
	mesas, err := s.mesas.List(ctx, true)
	if err != nil {
		return nil, err
	}
	sesiones, err := s.mesas.ListSesionesAbiertas(ctx)
	if err != nil {
		return nil, err
	}
	porMesa := make(map[uuid.UUID]*model.SesionMesa, len(sesiones))
	for i := range sesiones {
		porMesa[sesiones[i].MesaID] = &sesiones[i]
	}

	out := make([]dto.MesaResponse, 0, len(mesas))
	for i := range mesas {
		out = append(out, mesaToResponse(&mesas[i], porMesa[mesas[i].ID]))
	}
	return out, nil
}

func (s *mesaService) ObtenerMesa(ctx context.Context, id uuid.UUID) (*dto.MesaResponse, error) {
	m, err := s.mesas.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "mesa no encontrada")
	}
	var ses *model.SesionMesa
	if m.Estado == model.MesaOcupada {
		ses = s.sesionAbierta(ctx, m.ID)
	}
	resp := mesaToResponse(m, ses)
	return &resp, nil
}

func (s *mesaService) ActualizarMesa(ctx context.Context, id uuid.UUID, req dto.ActualizarMesaRequest) (*dto.MesaResponse, error) {
	var zona *model.ZonaMesa
	if req.Zona != nil {
		z, err := model.ParseZonaMesa(*req.Zona)
		if err != nil {
			return nil, errValidation("%s", err.Error())
		}
		zona = &z
	}
	if req.Numero != nil {
		if otra, err := s.mesas.FindByNumero(ctx, *req.Numero); err == nil && otra.ID != id {
			return nil, errConflict("ya existe la mesa número %d", *req.Numero)
		}
	}

	defer s.bloqueos.Lock(id)()

	var m *model.Mesa
	err := runTx(ctx, s.mesas.DB(), func(tx *gorm.DB) error {
		var err error
		m, err = s.mesas.LockTx(tx, id)
		if err != nil {
			return notFoundOr(err, "mesa no encontrada")
		}
		if req.Numero != nil {
			m.Numero = *req.Numero
		}
		if req.Nombre != nil {
			m.Nombre = *req.Nombre
		}
		if req.Capacidad != nil {
			m.Capacidad = *req.Capacidad
		}
		if zona != nil {
			m.Zona = *zona
		}
		if req.OrdenVisual != nil {
			m.OrdenVisual = *req.OrdenVisual
		}
		if err := s.mesas.UpdateTx(tx, m); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				return errConflict("ya existe la mesa número %d", m.Numero)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := mesaToResponse(m, nil)
	s.notif.Emit(ctx, notify.New(notify.EventoMesa, resp, notify.RolesSalon))
	return &resp, nil
}

// DesactivarMesa es una baja lógica; una mesa ocupada no se puede desactivar.
func (s *mesaService) DesactivarMesa(ctx context.Context, id uuid.UUID) error {
	defer s.bloqueos.Lock(id)()

	var m *model.Mesa
	err := runTx(ctx, s.mesas.DB(), func(tx *gorm.DB) error {
		var err error
		m, err = s.mesas.LockTx(tx, id)
		if err != nil {
			return notFoundOr(err, "mesa no encontrada")
		}
		if m.Estado == model.MesaOcupada {
			return errConflict("la mesa %d está ocupada: cierre la sesión primero", m.Numero)
		}
		m.Activo = false
		return s.mesas.UpdateTx(tx, m)
	})
	if err != nil {
		return err
	}
	s.notif.Emit(ctx, notify.New(notify.EventoMesa, mesaToResponse(m, nil), notify.RolesSalon))
	return nil
}

// CambiarEstado sólo alterna disponible ⇄ fuera_de_servicio; "ocupada" se
// asigna únicamente al abrir una sesión.
func (s *mesaService) CambiarEstado(ctx context.Context, id uuid.UUID, estado string) (*dto.MesaResponse, error) {
	nuevo, err := model.ParseEstadoMesa(estado)
	if err != nil {
		return nil, errValidation("%s", err.Error())
	}
	if nuevo == model.MesaOcupada {
		return nil, errValidation("el estado ocupada sólo se asigna al abrir la mesa")
	}

	defer s.bloqueos.Lock(id)()

	var m *model.Mesa
	err = runTx(ctx, s.mesas.DB(), func(tx *gorm.DB) error {
		var err error
		m, err = s.mesas.LockTx(tx, id)
		if err != nil {
			return notFoundOr(err, "mesa no encontrada")
		}
		if m.Estado == model.MesaOcupada {
			return errConflict("la mesa %d está ocupada: cierre la sesión primero", m.Numero)
		}
		m.Estado = nuevo
		return s.mesas.UpdateEstadoTx(tx, m.ID, nuevo)
	})
	if err != nil {
		return nil, err
	}
	resp := mesaToResponse(m, nil)
	s.notif.Emit(ctx, notify.New(notify.EventoMesa, resp, notify.RolesSalon))
	return &resp, nil
}

// ── Sesiones ──────────────────────────────────────────────────────────────────

func (s *mesaService) AbrirSesion(ctx context.Context, mesaID uuid.UUID, req dto.AbrirMesaRequest, actor Actor) (*dto.SesionResponse, error) {
	comensales := 1
	if req.Comensales != nil {
		comensales = *req.Comensales
	}
	if comensales < 1 {
		return nil, errValidation("la cantidad de comensales debe ser al menos 1")
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

	defer s.bloqueos.Lock(mesaID)()

	ahora := s.ahora()
	var ses *model.SesionMesa
	err := runTx(ctx, s.mesas.DB(), func(tx *gorm.DB) error {
		mesa, err := s.mesas.LockTx(tx, mesaID)
		if err != nil {
			return notFoundOr(err, "mesa no encontrada")
		}
		switch {
		case !mesa.Activo:
			return errConflict("la mesa %d está inactiva", mesa.Numero)
		case mesa.Estado == model.MesaOcupada:
			return errConflict("la mesa %d ya está ocupada", mesa.Numero)
		case mesa.Estado == model.MesaFueraDeServicio:
			return errConflict("la mesa %d está fuera de servicio", mesa.Numero)
		}
		if _, err := s.mesas.FindSesionAbiertaTx(tx, mesaID); err == nil {
			return errConflict("la mesa %d ya tiene una sesión abierta", mesa.Numero)
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		seq, err := s.facturas.NextNumeroTx(tx)
		if err != nil {
			return err
		}
		factura := &model.Factura{
			Numero:     numeroFacturaMesa(mesa.Numero, ahora, seq),
			Tipo:       model.FacturaMesa,
			ClienteID:  clienteID,
			UsuarioID:  actor.ID,
			Estado:     model.FacturaAbierta,
			EstadoPago: model.PagoPendiente,
		}
		if err := s.facturas.CreateTx(tx, factura); err != nil {
			return err
		}

		ses = &model.SesionMesa{
			MesaID:     mesaID,
			FacturaID:  factura.ID,
			AbiertaPor: actor.ID,
			Mesero:     actor.Nombre,
			AbiertaEn:  ahora,
			Comensales: comensales,
			Notas:      limpiarNotas(req.Notas),
			Estado:     model.SesionAbierta,
		}
		if err := s.mesas.CreateSesionTx(tx, ses); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				return errConflict("la mesa %d ya tiene una sesión abierta", mesa.Numero)
			}
			return err
		}
		if err := s.mesas.UpdateEstadoTx(tx, mesaID, model.MesaOcupada); err != nil {
			return err
		}
		mesa.Estado = model.MesaOcupada
		ses.Mesa = mesa
		ses.Factura = factura
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notif.Emit(ctx, notify.New(notify.EventoMesa, mesaToResponse(ses.Mesa, ses), notify.RolesSalon))
	return sesionToResponse(ses), nil
}

func (s *mesaService) ObtenerSesion(ctx context.Context, id uuid.UUID) (*dto.SesionResponse, error) {
	ses, err := s.mesas.FindSesionByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "sesión no encontrada")
	}
	return sesionToResponse(ses), nil
}

func (s *mesaService) ListarSesionesActivas(ctx context.Context) ([]dto.SesionResponse, error) {
	sesiones, err := s.mesas.ListSesionesAbiertas(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SesionResponse, 0, len(sesiones))
	for i := range sesiones {
		out = append(out, *sesionToResponse(&sesiones[i]))
	}
	return out, nil
}

// enSesion ejecuta fn con la mesa de la sesión bloqueada y la sesión releída
// dentro de la transacción. Falla si la sesión ya está cerrada.
func (s *mesaService) enSesion(ctx context.Context, sesionID uuid.UUID, fn func(tx *gorm.DB, ses *model.SesionMesa) error) error {
	previa, err := s.mesas.FindSesionByID(ctx, sesionID)
	if err != nil {
		return notFoundOr(err, "sesión no encontrada")
	}
	defer s.bloqueos.Lock(previa.MesaID)()

	return runTx(ctx, s.mesas.DB(), func(tx *gorm.DB) error {
		mesa, err := s.mesas.LockTx(tx, previa.MesaID)
		if err != nil {
			return notFoundOr(err, "mesa no encontrada")
		}
		ses, err := s.mesas.FindSesionTx(tx, sesionID)
		if err != nil {
			return notFoundOr(err, "sesión no encontrada")
		}
		if ses.Estado != model.SesionAbierta {
			return errEstado("la sesión de la mesa %d ya está cerrada", mesa.Numero)
		}
		if ses.Factura == nil {
			return fmt.Errorf("sesión %s sin factura", ses.ID)
		}
		ses.Mesa = mesa
		return fn(tx, ses)
	})
}

func (s *mesaService) sesionAbierta(ctx context.Context, mesaID uuid.UUID) *model.SesionMesa {
	sesiones, err := s.mesas.ListSesionesAbiertas(ctx)
	if err != nil {
		return nil
	}
	for i := range sesiones {
		if sesiones[i].MesaID == mesaID {
			return &sesiones[i]
		}
	}
	return nil
}

// numeroFacturaMesa: M{mesa}-{MMdd}-{secuencia}
func numeroFacturaMesa(mesa int, t time.Time, seq int64) string {
	return fmt.Sprintf("M%d-%s-%04d", mesa, t.Format("0102"), seq)
}

// numeroFacturaVenta: V{MMdd}-{secuencia}
func numeroFacturaVenta(t time.Time, seq int64) string {
	return fmt.Sprintf("V%s-%04d", t.Format("0102"), seq)
}
