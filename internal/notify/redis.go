package notify

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisSink publica en un canal pub/sub compartido por todas las instancias.
type RedisSink struct {
	rdb   *redis.Client
	canal string
}

func NewRedisSink(rdb *redis.Client, canal string) *RedisSink {
	return &RedisSink{rdb: rdb, canal: canal}
}

func (s *RedisSink) Publish(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.rdb.Publish(ctx, s.canal, data).Err()
}

// Relay escucha el canal y reenvía cada evento al hub local hasta que ctx se
// cancela. Así los clientes SSE de cualquier instancia ven todos los eventos.
func Relay(ctx context.Context, rdb *redis.Client, canal string, hub *Hub) error {
	sub := rdb.Subscribe(ctx, canal)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	log.Info().Str("channel", canal).Msg("event relay subscribed")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Warn().Err(err).Msg("relay: invalid event payload")
				continue
			}
			_ = hub.Publish(ctx, ev)
		}
	}
}
