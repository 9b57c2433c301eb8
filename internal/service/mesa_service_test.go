package service_test

import (
	"context"
	"testing"

	"comandapos/internal/dto"
	"comandapos/internal/model"
	"comandapos/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}

func TestCrearMesa_Defaults(t *testing.T) {
	e := newEntorno()
	ctx := context.Background()

	m, err := e.mesas.CrearMesa(ctx, dto.CrearMesaRequest{Numero: 12})
	require.NoError(t, err)
	assert.Equal(t, "Mesa 12", m.Nombre)
	assert.Equal(t, 4, m.Capacidad)
	assert.Equal(t, string(model.ZonaInterior), m.Zona)
	assert.Equal(t, string(model.MesaDisponible), m.Estado)
	assert.True(t, m.Activo)
	assert.Equal(t, 1, m.OrdenVisual)

	otra, err := e.mesas.CrearMesa(ctx, dto.CrearMesaRequest{Numero: 13, Zona: ptr("TERRAZA"), Capacidad: ptr(2)})
	require.NoError(t, err)
	assert.Equal(t, string(model.ZonaTerraza), otra.Zona)
	assert.Equal(t, 2, otra.OrdenVisual)
}

func TestCrearMesa_NumeroDuplicado(t *testing.T) {
	e := newEntorno()
	e.mesa(1)

	_, err := e.mesas.CrearMesa(context.Background(), dto.CrearMesaRequest{Numero: 1})
	require.Error(t, err)
	assert.Equal(t, service.KindConflict, service.KindOf(err))
}

func TestCrearMesa_ZonaInvalida(t *testing.T) {
	e := newEntorno()
	_, err := e.mesas.CrearMesa(context.Background(), dto.CrearMesaRequest{Numero: 1, Zona: ptr("sotano")})
	assert.Equal(t, service.KindValidation, service.KindOf(err))
}

func TestActualizarMesa(t *testing.T) {
	e := newEntorno()
	ctx := context.Background()
	uno := e.mesa(1)
	e.mesa(2)

	m, err := e.mesas.ActualizarMesa(ctx, uno, dto.ActualizarMesaRequest{Nombre: ptr("Ventana"), OrdenVisual: ptr(9)})
	require.NoError(t, err)
	assert.Equal(t, "Ventana", m.Nombre)
	assert.Equal(t, 9, m.OrdenVisual)
	assert.Equal(t, 1, m.Numero)

	_, err = e.mesas.ActualizarMesa(ctx, uno, dto.ActualizarMesaRequest{Numero: ptr(2)})
	assert.Equal(t, service.KindConflict, service.KindOf(err))

	_, err = e.mesas.ActualizarMesa(ctx, uuid.New(), dto.ActualizarMesaRequest{Nombre: ptr("x")})
	assert.Equal(t, service.KindNotFound, service.KindOf(err))
}

func TestListarMesas_PlanoConSesionActiva(t *testing.T) {
	e := newEntorno()
	ctx := context.Background()
	cafe := e.producto("Cafe", "2.50", "100")
	uno, dos := e.mesa(1), e.mesa(2)
	baja := e.mesa(3)
	require.NoError(t, e.mesas.DesactivarMesa(ctx, baja))

	ses := e.abrir(dos)
	_, err := e.mesas.AgregarItems(ctx, sid(ses), dto.AgregarItemsRequest{Items: []dto.ItemPedidoRequest{item(cafe, "2")}}, mesero)
	require.NoError(t, err)

	mesas, err := e.mesas.ListarMesas(ctx)
	require.NoError(t, err)
	require.Len(t, mesas, 2, "las mesas inactivas no están en el plano")
	assert.Equal(t, uno.String(), mesas[0].ID)
	assert.Nil(t, mesas[0].SesionActiva)

	activa := mesas[1].SesionActiva
	require.NotNil(t, activa)
	assert.Equal(t, ses.ID, activa.ID)
	assert.Equal(t, "ana", activa.Mesero)
	assert.Equal(t, 2, activa.Comensales)
	assert.Equal(t, 1, activa.Items)
	assert.Equal(t, "5.00", activa.Total.StringFixed(2))

	sesiones, err := e.mesas.ListarSesionesActivas(ctx)
	require.NoError(t, err)
	require.Len(t, sesiones, 1)
	assert.Equal(t, ses.ID, sesiones[0].ID)
}

func TestDesactivarMesa_Ocupada(t *testing.T) {
	e := newEntorno()
	mesa := e.mesa(1)
	e.abrir(mesa)

	err := e.mesas.DesactivarMesa(context.Background(), mesa)
	require.Error(t, err)
	assert.Equal(t, service.KindConflict, service.KindOf(err))
}

func TestCambiarEstado(t *testing.T) {
	e := newEntorno()
	ctx := context.Background()
	mesa := e.mesa(1)

	m, err := e.mesas.CambiarEstado(ctx, mesa, "fuera_de_servicio")
	require.NoError(t, err)
	assert.Equal(t, string(model.MesaFueraDeServicio), m.Estado)

	_, err = e.mesas.AbrirSesion(ctx, mesa, dto.AbrirMesaRequest{}, mesero)
	assert.Equal(t, service.KindConflict, service.KindOf(err))

	m, err = e.mesas.CambiarEstado(ctx, mesa, "disponible")
	require.NoError(t, err)
	assert.Equal(t, string(model.MesaDisponible), m.Estado)

	_, err = e.mesas.CambiarEstado(ctx, mesa, "ocupada")
	assert.Equal(t, service.KindValidation, service.KindOf(err))

	_, err = e.mesas.CambiarEstado(ctx, mesa, "rota")
	assert.Equal(t, service.KindValidation, service.KindOf(err))
}

func TestCambiarEstado_MesaOcupada(t *testing.T) {
	e := newEntorno()
	mesa := e.mesa(1)
	e.abrir(mesa)

	_, err := e.mesas.CambiarEstado(context.Background(), mesa, "fuera_de_servicio")
	assert.Equal(t, service.KindConflict, service.KindOf(err))
}

func TestAbrirSesion(t *testing.T) {
	e := newEntorno()
	ctx := context.Background()
	mesa := e.mesa(4)

	ses, err := e.mesas.AbrirSesion(ctx, mesa, dto.AbrirMesaRequest{Notas: ptr("  cumpleaños ")}, mesero)
	require.NoError(t, err)
	assert.Equal(t, string(model.SesionAbierta), ses.Estado)
	assert.Equal(t, 1, ses.Comensales, "comensales por defecto")
	require.NotNil(t, ses.Notas)
	assert.Equal(t, "cumpleaños", *ses.Notas)
	assert.Equal(t, 4, ses.NumeroMesa)
	assert.Regexp(t, `^M4-\d{4}-0001$`, ses.Factura.Numero)
	assert.Equal(t, string(model.FacturaMesa), ses.Factura.Tipo)
	assert.Equal(t, string(model.FacturaAbierta), ses.Factura.Estado)
	assert.Equal(t, string(model.PagoPendiente), ses.Factura.EstadoPago)
	assert.True(t, ses.Factura.Total.IsZero())

	m, err := e.mesas.ObtenerMesa(ctx, mesa)
	require.NoError(t, err)
	assert.Equal(t, string(model.MesaOcupada), m.Estado)
	require.NotNil(t, m.SesionActiva)
	assert.Equal(t, ses.ID, m.SesionActiva.ID)
}

func TestAbrirSesion_Conflictos(t *testing.T) {
	e := newEntorno()
	ctx := context.Background()
	ocupada := e.mesa(1)
	e.abrir(ocupada)
	inactiva := e.mesa(2)
	require.NoError(t, e.mesas.DesactivarMesa(ctx, inactiva))

	_, err := e.mesas.AbrirSesion(ctx, ocupada, dto.AbrirMesaRequest{}, mesero)
	assert.Equal(t, service.KindConflict, service.KindOf(err))

	_, err = e.mesas.AbrirSesion(ctx, inactiva, dto.AbrirMesaRequest{}, mesero)
	assert.Equal(t, service.KindConflict, service.KindOf(err))

	_, err = e.mesas.AbrirSesion(ctx, uuid.New(), dto.AbrirMesaRequest{}, mesero)
	assert.Equal(t, service.KindNotFound, service.KindOf(err))
}

func TestAbrirSesion_Validaciones(t *testing.T) {
	e := newEntorno()
	ctx := context.Background()
	mesa := e.mesa(1)

	_, err := e.mesas.AbrirSesion(ctx, mesa, dto.AbrirMesaRequest{Comensales: ptr(0)}, mesero)
	assert.Equal(t, service.KindValidation, service.KindOf(err))

	_, err = e.mesas.AbrirSesion(ctx, mesa, dto.AbrirMesaRequest{ClienteID: ptr(uuid.NewString())}, mesero)
	assert.Equal(t, service.KindNotFound, service.KindOf(err))

	_, err = e.mesas.ObtenerSesion(ctx, uuid.New())
	assert.Equal(t, service.KindNotFound, service.KindOf(err))
}

func TestAbrirSesion_ConCliente(t *testing.T) {
	e := newEntorno()
	cliente := model.Cliente{ID: uuid.New(), Nombre: "Laura"}
	e.st.clientes[cliente.ID] = cliente

	ses, err := e.mesas.AbrirSesion(context.Background(), e.mesa(1), dto.AbrirMesaRequest{ClienteID: ptr(cliente.ID.String())}, mesero)
	require.NoError(t, err)
	require.NotNil(t, ses.Factura.ClienteID)
	assert.Equal(t, cliente.ID.String(), *ses.Factura.ClienteID)
}

func TestAbrirSesion_ConcurrentesSoloUnaGana(t *testing.T) {
	e := newEntorno()
	mesa := e.mesa(1)

	const n = 10
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			_, err := e.mesas.AbrirSesion(context.Background(), mesa, dto.AbrirMesaRequest{}, mesero)
			errs <- err
		}()
	}
	ok := 0
	for i := 0; i < n; i++ {
		if err := <-errs; err == nil {
			ok++
		} else {
			assert.Equal(t, service.KindConflict, service.KindOf(err))
		}
	}
	assert.Equal(t, 1, ok)
}
