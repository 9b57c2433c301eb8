package worker

// email_worker.go
// Processes email jobs from QueueEmail: sends the PDF receipt via SMTP.

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	PDFPath string `json:"pdf_path"`
}

// Mailer es lo que el worker necesita de infra.Mailer.
type Mailer interface {
	SendComprobante(to, subject, body, pdfPath string) error
}

type EmailWorker struct {
	mailer Mailer
}

func NewEmailWorker(mailer Mailer) *EmailWorker {
	return &EmailWorker{mailer: mailer}
}

// Process sends an email with the PDF receipt as attachment. Un payload
// inválido no se reintenta.
func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return nil
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email, skipping")
		return nil
	}
	if w.mailer == nil {
		return errors.New("email_worker: mailer not configured")
	}

	if err := w.mailer.SendComprobante(payload.ToEmail, payload.Subject, payload.Body, payload.PDFPath); err != nil {
		return err
	}
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: comprobante sent")
	return nil
}
