package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSMTP = errors.New("smtp: connection refused")

func breakerConReloj(umbral int) (*CircuitBreaker, *time.Time) {
	ahora := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "smtp", FailureThreshold: umbral, SuccessThreshold: 2, OpenTimeout: 30 * time.Second})
	cb.now = func() time.Time { return ahora }
	return cb, &ahora
}

func falla() error { return errSMTP }
func anda() error  { return nil }

func TestCircuitBreaker_AbreTrasFallosSeguidos(t *testing.T) {
	cb, _ := breakerConReloj(3)

	for i := 0; i < 2; i++ {
		assert.ErrorIs(t, cb.Execute(falla), errSMTP)
	}
	assert.Equal(t, CBClosed, cb.State())

	assert.ErrorIs(t, cb.Execute(falla), errSMTP)
	assert.Equal(t, CBOpen, cb.State())

	llamado := false
	err := cb.Execute(func() error { llamado = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, llamado, "con el circuito abierto no se llama a fn")
}

func TestCircuitBreaker_UnExitoReiniciaElConteo(t *testing.T) {
	cb, _ := breakerConReloj(2)

	_ = cb.Execute(falla)
	require.NoError(t, cb.Execute(anda))
	_ = cb.Execute(falla)
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenCierraConExitos(t *testing.T) {
	cb, ahora := breakerConReloj(1)
	_ = cb.Execute(falla)
	require.Equal(t, CBOpen, cb.State())

	*ahora = ahora.Add(31 * time.Second)
	assert.Equal(t, CBHalfOpen, cb.State())

	require.NoError(t, cb.Execute(anda))
	assert.Equal(t, CBHalfOpen, cb.State())
	require.NoError(t, cb.Execute(anda))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenVuelveAAbrirAnteUnFallo(t *testing.T) {
	cb, ahora := breakerConReloj(1)
	_ = cb.Execute(falla)
	*ahora = ahora.Add(time.Minute)

	assert.ErrorIs(t, cb.Execute(falla), errSMTP)
	assert.Equal(t, CBOpen, cb.State())
}

func TestCircuitBreaker_HalfOpenUnaPruebaALaVez(t *testing.T) {
	cb, ahora := breakerConReloj(1)
	_ = cb.Execute(falla)
	*ahora = ahora.Add(time.Minute)

	adentro := make(chan struct{})
	soltar := make(chan struct{})
	go func() {
		_ = cb.Execute(func() error {
			close(adentro)
			<-soltar
			return nil
		})
	}()
	<-adentro
	assert.ErrorIs(t, cb.Execute(anda), ErrCircuitOpen)
	close(soltar)
}

func TestNewCircuitBreaker_Defaults(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "amqp"})
	assert.Equal(t, "amqp", cb.Name())
	assert.Equal(t, DefaultCBConfig("amqp"), cb.cfg)
	assert.Equal(t, "closed", cb.State().String())
}
