package service_test

import (
	"context"
	"errors"
	"testing"

	"comandapos/internal/dto"
	"comandapos/internal/model"
	"comandapos/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mesaConCuenta(t *testing.T, precio string) (*entorno, *dto.SesionResponse) {
	t.Helper()
	e := newEntorno()
	plato := e.producto("Plato", precio, "10")
	ses := e.abrir(e.mesa(8))
	_, err := e.mesas.AgregarItems(context.Background(), sid(ses), dto.AgregarItemsRequest{Items: []dto.ItemPedidoRequest{item(plato, "1")}}, mesero)
	require.NoError(t, err)
	return e, ses
}

func TestPagar_CargosSeComponen(t *testing.T) {
	e, ses := mesaConCuenta(t, "100.00")

	f, err := e.mesas.Pagar(context.Background(), sid(ses), dto.PagarMesaRequest{
		MetodoPago:       "debito",
		MontoRecibido:    d("104.00"),
		DescuentoPct:     d("10"),
		CargoServicioPct: d("10"),
		CargoDomicilio:   d("5"),
	}, mesero)
	require.NoError(t, err)

	// 100 − 10% = 90; 90 + 10% = 99; 99 + 5 = 104
	assert.Equal(t, "10.00", f.Descuento.StringFixed(2))
	assert.Equal(t, "9.00", f.CargoServicio.StringFixed(2))
	assert.Equal(t, "5.00", f.CargoDomicilio.StringFixed(2))
	assert.Equal(t, "104.00", f.Total.StringFixed(2))
	assert.True(t, f.Cambio.IsZero())
	require.NotNil(t, f.MetodoPago)
	assert.Equal(t, string(model.PagoDebito), *f.MetodoPago)
}

func TestPagar_MontoInsuficiente(t *testing.T) {
	e, ses := mesaConCuenta(t, "100.00")
	ctx := context.Background()

	_, err := e.mesas.Pagar(ctx, sid(ses), dto.PagarMesaRequest{MetodoPago: "efectivo", MontoRecibido: d("99.99")}, mesero)
	require.Error(t, err)
	assert.Equal(t, service.KindValidation, service.KindOf(err))

	sesion, err := e.mesas.ObtenerSesion(ctx, sid(ses))
	require.NoError(t, err)
	assert.Equal(t, string(model.SesionAbierta), sesion.Estado)
	assert.Equal(t, string(model.FacturaAbierta), sesion.Factura.Estado)
	assert.Empty(t, e.cola.facturas)
}

func TestPagar_Validaciones(t *testing.T) {
	e, ses := mesaConCuenta(t, "100.00")

	casos := map[string]dto.PagarMesaRequest{
		"metodo desconocido":    {MetodoPago: "bitcoin", MontoRecibido: d("200")},
		"descuento mayor a 100": {MetodoPago: "efectivo", MontoRecibido: d("200"), DescuentoPct: d("101")},
		"servicio negativo":     {MetodoPago: "efectivo", MontoRecibido: d("200"), CargoServicioPct: d("-1")},
		"domicilio negativo":    {MetodoPago: "efectivo", MontoRecibido: d("200"), CargoDomicilio: d("-5")},
	}
	for nombre, req := range casos {
		t.Run(nombre, func(t *testing.T) {
			_, err := e.mesas.Pagar(context.Background(), sid(ses), req, mesero)
			require.Error(t, err)
			assert.Equal(t, service.KindValidation, service.KindOf(err))
		})
	}
}

func TestPagar_MesaSinItems(t *testing.T) {
	e := newEntorno()
	ses := e.abrir(e.mesa(3))

	_, err := e.mesas.Pagar(context.Background(), sid(ses), dto.PagarMesaRequest{MetodoPago: "efectivo", MontoRecibido: d("10")}, mesero)
	require.Error(t, err)
	assert.Equal(t, service.KindEstadoInvalido, service.KindOf(err))
}

func TestPagar_DosVeces(t *testing.T) {
	e, ses := mesaConCuenta(t, "20.00")
	ctx := context.Background()
	req := dto.PagarMesaRequest{MetodoPago: "efectivo", MontoRecibido: d("20")}

	_, err := e.mesas.Pagar(ctx, sid(ses), req, mesero)
	require.NoError(t, err)
	_, err = e.mesas.Pagar(ctx, sid(ses), req, mesero)
	require.Error(t, err)
	assert.Equal(t, service.KindEstadoInvalido, service.KindOf(err))
	assert.Len(t, e.cola.facturas, 1)
}

func TestPagar_EncolaComprobanteConEmail(t *testing.T) {
	e, ses := mesaConCuenta(t, "20.00")

	_, err := e.mesas.Pagar(context.Background(), sid(ses), dto.PagarMesaRequest{
		MetodoPago:    "transferencia",
		MontoRecibido: d("20"),
		ClienteEmail:  ptr("cliente@example.com"),
	}, mesero)
	require.NoError(t, err)
	require.Len(t, e.cola.emails, 1)
	require.NotNil(t, e.cola.emails[0])
	assert.Equal(t, "cliente@example.com", *e.cola.emails[0])
}

func TestPagar_FalloDeColaNoRevierteElCobro(t *testing.T) {
	e, ses := mesaConCuenta(t, "20.00")
	e.cola.err = errors.New("redis: connection refused")

	f, err := e.mesas.Pagar(context.Background(), sid(ses), dto.PagarMesaRequest{MetodoPago: "efectivo", MontoRecibido: d("50")}, mesero)
	require.NoError(t, err)
	assert.Equal(t, string(model.FacturaCompletada), f.Estado)
	assert.Equal(t, "30.00", f.Cambio.StringFixed(2))
}

func TestLiberar_PermiteReabrirLaMesa(t *testing.T) {
	e := newEntorno()
	mesa := e.mesa(6)
	ses := e.abrir(mesa)
	ctx := context.Background()

	_, err := e.mesas.Liberar(ctx, sid(ses), mesero)
	require.NoError(t, err)

	otra := e.abrir(mesa)
	assert.NotEqual(t, ses.ID, otra.ID)
	assert.NotEqual(t, ses.Factura.Numero, otra.Factura.Numero)
}

func TestLiberar_TrasQuitarTodosLosItems(t *testing.T) {
	e, ses := mesaConCuenta(t, "20.00")
	ctx := context.Background()

	actual, err := e.mesas.ObtenerSesion(ctx, sid(ses))
	require.NoError(t, err)
	_, err = e.mesas.QuitarItem(ctx, sid(ses), parseID(t, actual.Factura.Detalles[0].ID), mesero)
	require.NoError(t, err)

	resp, err := e.mesas.Liberar(ctx, sid(ses), mesero)
	require.NoError(t, err)
	assert.Equal(t, string(model.FacturaAnulada), resp.Factura.Estado)
}

func TestPagar_SoloElEfectivoExigeCubrirElTotal(t *testing.T) {
	e, ses := mesaConCuenta(t, "100.00")

	f, err := e.mesas.Pagar(context.Background(), sid(ses), dto.PagarMesaRequest{MetodoPago: "transferencia", MontoRecibido: d("40")}, mesero)
	require.NoError(t, err)
	assert.Equal(t, string(model.FacturaCompletada), f.Estado)
	assert.Equal(t, "100.00", f.MontoRecibido.StringFixed(2))
	assert.True(t, f.Cambio.IsZero())
}
