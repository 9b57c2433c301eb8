package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Sink es un canal de salida concreto (hub local, Redis, RabbitMQ).
type Sink interface {
	Publish(ctx context.Context, ev Event) error
}

// Broadcaster reparte cada evento a todos sus sinks y se traga los errores.
type Broadcaster struct {
	sinks []Sink
}

func NewBroadcaster(sinks ...Sink) *Broadcaster {
	return &Broadcaster{sinks: sinks}
}

// Emit publica los eventos en orden. Nunca devuelve error ni propaga un panic.
func (b *Broadcaster) Emit(ctx context.Context, events ...Event) {
	for _, ev := range events {
		for _, s := range b.sinks {
			if err := publishSafe(ctx, s, ev); err != nil {
				log.Warn().Err(err).Str("event", ev.Name).Str("sink", fmt.Sprintf("%T", s)).Msg("broadcast failed")
			}
		}
	}
}

func publishSafe(ctx context.Context, s Sink, ev Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic publishing %s: %v", ev.Name, r)
		}
	}()
	return s.Publish(ctx, ev)
}
