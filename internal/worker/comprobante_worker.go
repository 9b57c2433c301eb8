package worker

// comprobante_worker.go
// Genera el PDF de una factura cobrada y, si hay destinatario, encola el mail.

import (
	"context"
	"encoding/json"
	"fmt"

	"comandapos/internal/infra"
	"comandapos/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type ComprobanteJobPayload struct {
	FacturaID string  `json:"factura_id"`
	Email     *string `json:"email,omitempty"`
}

// FacturaReader es el subconjunto del repositorio de facturas que usa el worker.
type FacturaReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Factura, error)
}

// EmailEnqueuer lo implementa *Dispatcher.
type EmailEnqueuer interface {
	EnqueueEmail(ctx context.Context, payload EmailJobPayload) error
}

type ComprobanteWorker struct {
	facturas    FacturaReader
	emails      EmailEnqueuer
	negocio     string
	storagePath string
	mailEnabled bool
	render      func(f *model.Factura, negocio, storagePath string) (string, error)
}

func NewComprobanteWorker(facturas FacturaReader, emails EmailEnqueuer, negocio, storagePath string, mailEnabled bool) *ComprobanteWorker {
	return &ComprobanteWorker{
		facturas:    facturas,
		emails:      emails,
		negocio:     negocio,
		storagePath: storagePath,
		mailEnabled: mailEnabled,
		render:      infra.GenerateComprobantePDF,
	}
}

func (w *ComprobanteWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ComprobanteJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("comprobante_worker: invalid payload")
		return nil
	}
	id, err := uuid.Parse(payload.FacturaID)
	if err != nil {
		log.Error().Str("factura_id", payload.FacturaID).Msg("comprobante_worker: invalid factura_id")
		return nil
	}

	f, err := w.facturas.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("comprobante_worker: load factura: %w", err)
	}
	if f.Estado != model.FacturaCompletada {
		log.Warn().Str("factura", f.Numero).Str("estado", string(f.Estado)).Msg("comprobante_worker: factura no completada, se omite")
		return nil
	}

	path, err := w.render(f, w.negocio, w.storagePath)
	if err != nil {
		return err
	}
	log.Info().Str("factura", f.Numero).Str("path", path).Msg("comprobante_worker: PDF generado")

	to := destinatario(payload.Email, f)
	if to == "" || !w.mailEnabled {
		return nil
	}
	return w.emails.EnqueueEmail(ctx, EmailJobPayload{
		ToEmail: to,
		Subject: fmt.Sprintf("%s - Comprobante %s", w.negocio, f.Numero),
		Body:    fmt.Sprintf("Gracias por su visita. Adjuntamos el comprobante %s por un total de $%s.", f.Numero, f.Total.StringFixed(2)),
		PDFPath: path,
	})
}

// destinatario: el e-mail del pedido tiene prioridad sobre el del cliente.
func destinatario(email *string, f *model.Factura) string {
	if email != nil && *email != "" {
		return *email
	}
	if f.Cliente != nil && f.Cliente.Email != nil {
		return *f.Cliente.Email
	}
	return ""
}
