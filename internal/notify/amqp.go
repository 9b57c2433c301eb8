package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"comandapos/internal/infra"

	amqp "github.com/rabbitmq/amqp091-go"
)

var errCanalCerrado = errors.New("amqp: channel closed")

// AMQPSink replica cada evento en un exchange fanout para consumidores externos
// (pantallas de cocina dedicadas, impresoras de comandas). Pasa por un circuit
// breaker para no frenar las operaciones cuando el broker está caído.
type AMQPSink struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	cb       *infra.CircuitBreaker
}

func NewAMQPSink(url, exchange string, cb *infra.CircuitBreaker) (*AMQPSink, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(exchange, "fanout", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return &AMQPSink{conn: conn, ch: ch, exchange: exchange, cb: cb}, nil
}

func (s *AMQPSink) Publish(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.cb.Execute(func() error {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.ch.IsClosed() {
			return errCanalCerrado
		}
		return s.ch.PublishWithContext(ctx, s.exchange, ev.Name, false, false, amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Type:         ev.Name,
			Timestamp:    ev.At,
			Body:         body,
		})
	})
}

func (s *AMQPSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ch != nil && !s.ch.IsClosed() {
		_ = s.ch.Close()
	}
	if s.conn != nil && !s.conn.IsClosed() {
		return s.conn.Close()
	}
	return nil
}
