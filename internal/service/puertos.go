package service

import (
	"context"

	"comandapos/internal/notify"

	"github.com/google/uuid"
)

// Notificador recibe los eventos ya confirmados. Implementaciones no deben
// bloquear ni fallar hacia el servicio (ver notify.Broadcaster).
type Notificador interface {
	Emit(ctx context.Context, events ...notify.Event)
}

// EncoladorComprobantes encola la generación (y envío opcional) del
// comprobante PDF de una factura cobrada.
type EncoladorComprobantes interface {
	EncolarComprobante(ctx context.Context, facturaID uuid.UUID, email *string) error
}

type sinNotificar struct{}

func (sinNotificar) Emit(context.Context, ...notify.Event) {}

type sinComprobantes struct{}

func (sinComprobantes) EncolarComprobante(context.Context, uuid.UUID, *string) error { return nil }
