package service

import (
	"sync"
	"testing"
	"time"

	"comandapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestMontoLinea(t *testing.T) {
	casos := []struct {
		precio, cantidad, descuento, tasa string
		subtotal, impuesto                string
	}{
		{"10.00", "2", "0", "0", "20.00", "0.00"},
		{"15.50", "2", "1.00", "19", "30.00", "5.70"},
		{"3.33", "3", "0", "8", "9.99", "0.80"},
		{"0.10", "0.5", "0", "0", "0.05", "0.00"},
	}
	for _, c := range casos {
		sub, imp := montoLinea(dec(c.precio), dec(c.cantidad), dec(c.descuento), dec(c.tasa))
		assert.Equal(t, c.subtotal, sub.StringFixed(2), "%+v", c)
		assert.Equal(t, c.impuesto, imp.StringFixed(2), "%+v", c)
	}
}

func TestAplicarCargos_SinCargos(t *testing.T) {
	f := &model.Factura{Subtotal: dec("50"), Impuesto: dec("9.50")}
	aplicarCargos(f, cargosCierre{})
	assert.Equal(t, "59.50", f.Total.StringFixed(2))
	assert.True(t, f.Descuento.IsZero())
	assert.True(t, f.CargoServicio.IsZero())
	assert.True(t, totalFactura(f).Equal(f.Total))
}

func TestAplicarCargos_ServicioSobreTotalDescontado(t *testing.T) {
	f := &model.Factura{Subtotal: dec("200"), Impuesto: dec("0")}
	aplicarCargos(f, cargosCierre{descuentoPct: dec("50"), cargoServicioPct: dec("10")})
	assert.Equal(t, "100.00", f.Descuento.StringFixed(2))
	assert.Equal(t, "10.00", f.CargoServicio.StringFixed(2))
	assert.Equal(t, "110.00", f.Total.StringFixed(2))
	assert.True(t, totalFactura(f).Equal(f.Total))
}

func TestNumerosDeFactura(t *testing.T) {
	en := time.Date(2026, time.March, 7, 21, 0, 0, 0, time.UTC)
	assert.Equal(t, "M12-0307-0042", numeroFacturaMesa(12, en, 42))
	assert.Equal(t, "V0307-12345", numeroFacturaVenta(en, 12345))
}

func TestUnirNotas(t *testing.T) {
	a, b := "sin sal", "bien cocido"
	assert.Nil(t, unirNotas(nil, nil))
	assert.Equal(t, "sin sal", *unirNotas(&a, nil))
	assert.Equal(t, "bien cocido", *unirNotas(nil, &b))
	assert.Equal(t, "sin sal | bien cocido", *unirNotas(&a, &b))
	assert.Nil(t, limpiarNotas(ptrTo("   ")))
}

func ptrTo(s string) *string { return &s }

func TestMinutosDesde(t *testing.T) {
	ahora := time.Now()
	assert.Equal(t, 12, minutosDesde(ahora.Add(-12*time.Minute-30*time.Second), ahora))
	assert.Equal(t, 0, minutosDesde(ahora.Add(time.Minute), ahora), "reloj adelantado no da negativos")
}

func TestBloqueos_SerializaPorClave(t *testing.T) {
	b := NewBloqueos()
	id := uuid.New()

	var mu sync.Mutex
	dentro, maximo := 0, 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer b.Lock(id)()
			mu.Lock()
			dentro++
			if dentro > maximo {
				maximo = dentro
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			dentro--
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maximo)
	assert.Empty(t, b.claves, "las claves sin uso se liberan")
}

func TestBloqueos_ClavesDistintasNoSeBloquean(t *testing.T) {
	b := NewBloqueos()
	liberar := b.Lock(uuid.New())
	defer liberar()

	listo := make(chan struct{})
	go func() {
		b.Lock(uuid.New())()
		close(listo)
	}()
	select {
	case <-listo:
	case <-time.After(time.Second):
		t.Fatal("una clave distinta quedó bloqueada")
	}
}
