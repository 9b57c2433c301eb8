package notify

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Hub mantiene los suscriptores SSE de esta instancia.
type Hub struct {
	mu     sync.RWMutex
	subs   map[*suscripcion]struct{}
	buffer int
}

type suscripcion struct {
	rol string
	ch  chan Event
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 32
	}
	return &Hub{subs: make(map[*suscripcion]struct{}), buffer: buffer}
}

// Subscribe registra un cliente con su rol. La función devuelta lo da de baja
// y cierra el canal.
func (h *Hub) Subscribe(rol string) (<-chan Event, func()) {
	s := &suscripcion{rol: rol, ch: make(chan Event, h.buffer)}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return s.ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, s)
			h.mu.Unlock()
			close(s.ch)
		})
	}
}

// Publish entrega sin bloquear; un cliente lento pierde el evento.
func (h *Hub) Publish(_ context.Context, ev Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.subs {
		if !ev.VisiblePara(s.rol) {
			continue
		}
		select {
		case s.ch <- ev:
		default:
			log.Debug().Str("event", ev.Name).Str("rol", s.rol).Msg("hub: subscriber buffer full, event dropped")
		}
	}
	return nil
}

func (h *Hub) Suscriptores() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
