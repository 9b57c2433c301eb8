package handler

import (
	"io"
	"net/http"
	"time"

	"comandapos/internal/middleware"
	"comandapos/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Subscriber es lo que necesita el stream SSE; *notify.Hub lo implementa.
type Subscriber interface {
	Subscribe(rol string) (<-chan notify.Event, func())
}

type EventosHandler struct {
	hub       Subscriber
	heartbeat time.Duration
}

func NewEventosHandler(hub Subscriber) *EventosHandler {
	return &EventosHandler{hub: hub, heartbeat: 25 * time.Second}
}

// Stream godoc
// @Summary      Stream de eventos en tiempo real (SSE)
// @Description  Envía "connected" al suscribirse y luego los eventos visibles para el rol del token. Acepta ?token= para EventSource.
// @Tags         eventos
// @Produce      text/event-stream
// @Security     BearerAuth
// @Success      200
// @Router       /v1/eventos [get]
func (h *EventosHandler) Stream(c *gin.Context) {
	rol := ""
	if claims := middleware.GetClaims(c); claims != nil {
		rol = claims.Rol
	}
	ch, unsubscribe := h.hub.Subscribe(rol)
	defer unsubscribe()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	c.SSEvent(notify.EventoConectado, gin.H{"rol": rol, "at": time.Now().UTC().Format(time.RFC3339)})
	c.Writer.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	log.Debug().Str("rol", rol).Msg("sse: cliente conectado")
	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(ev.Name, ev)
			return true
		case <-ticker.C:
			// comentario SSE, mantiene viva la conexión detrás de proxies
			_, err := io.WriteString(w, ": ping\n\n")
			return err == nil
		}
	})
	log.Debug().Str("rol", rol).Msg("sse: cliente desconectado")
}
