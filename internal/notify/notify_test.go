package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"comandapos/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recibir(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("no llegó el evento")
		return Event{}
	}
}

func vacio(t *testing.T, ch <-chan Event) {
	t.Helper()
	select {
	case ev := <-ch:
		t.Fatalf("evento inesperado: %s", ev.Name)
	default:
	}
}

func TestEvent_VisiblePara(t *testing.T) {
	ev := New(EventoNuevoPedido, nil, RolesCocina)
	assert.True(t, ev.VisiblePara(model.RolCocinero))
	assert.True(t, ev.VisiblePara(model.RolAdministrador))
	assert.False(t, ev.VisiblePara(model.RolCajero))

	todos := New(EventoMesa, nil)
	assert.True(t, todos.VisiblePara(model.RolMesero))
}

func TestHub_FiltraPorRol(t *testing.T) {
	h := NewHub(4)
	cocina, bajaCocina := h.Subscribe(model.RolCocinero)
	defer bajaCocina()
	caja, bajaCaja := h.Subscribe(model.RolCajero)
	defer bajaCaja()
	admin, bajaAdmin := h.Subscribe(model.RolAdministrador)
	defer bajaAdmin()

	require.NoError(t, h.Publish(context.Background(), New(EventoPedidoUrgente, "x", RolesCocina)))

	assert.Equal(t, EventoPedidoUrgente, recibir(t, cocina).Name)
	assert.Equal(t, EventoPedidoUrgente, recibir(t, admin).Name)
	vacio(t, caja)
}

func TestHub_ClienteLentoPierdeEventos(t *testing.T) {
	h := NewHub(1)
	ch, baja := h.Subscribe(model.RolMesero)
	defer baja()

	ctx := context.Background()
	require.NoError(t, h.Publish(ctx, New(EventoMesa, 1)))
	require.NoError(t, h.Publish(ctx, New(EventoMesa, 2)))

	assert.Equal(t, 1, recibir(t, ch).Data)
	vacio(t, ch)
}

func TestHub_BajaCierraElCanal(t *testing.T) {
	h := NewHub(0)
	ch, baja := h.Subscribe(model.RolMesero)
	assert.Equal(t, 1, h.Suscriptores())

	baja()
	baja()
	assert.Equal(t, 0, h.Suscriptores())
	_, abierto := <-ch
	assert.False(t, abierto)
	require.NoError(t, h.Publish(context.Background(), New(EventoMesa, nil)))
}

type sinkFalla struct{ err error }

func (s sinkFalla) Publish(context.Context, Event) error { return s.err }

type sinkPanic struct{}

func (sinkPanic) Publish(context.Context, Event) error { panic("boom") }

func TestBroadcaster_UnSinkCaidoNoFrenaAlResto(t *testing.T) {
	h := NewHub(8)
	ch, baja := h.Subscribe(model.RolSupervisor)
	defer baja()

	b := NewBroadcaster(sinkFalla{errors.New("redis down")}, sinkPanic{}, h)
	assert.NotPanics(t, func() {
		b.Emit(context.Background(),
			New(EventoNuevoPedido, "a", RolesCocina),
			New(EventoPedidoPagado, "b", RolesSalon),
		)
	})

	assert.Equal(t, EventoNuevoPedido, recibir(t, ch).Name)
	assert.Equal(t, EventoPedidoPagado, recibir(t, ch).Name)
}
