package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueComprobante = "jobs:comprobante"
	QueueEmail       = "jobs:email"

	JobComprobante = "comprobante"
	JobEmail       = "email"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Handler procesa el payload de un job. Un error dispara el reintento.
type Handler func(ctx context.Context, payload json.RawMessage) error

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EncolarComprobante pide el PDF de una factura cobrada; si hay e-mail, el
// worker de comprobantes encola además el envío.
func (d *Dispatcher) EncolarComprobante(ctx context.Context, facturaID uuid.UUID, email *string) error {
	return d.enqueue(ctx, QueueComprobante, JobComprobante, ComprobanteJobPayload{FacturaID: facturaID.String(), Email: email})
}

// EnqueueEmail pushes an email job to Redis.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload EmailJobPayload) error {
	return d.enqueue(ctx, QueueEmail, JobEmail, payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return push(ctx, d.rdb, queue, Job{Type: jobType, Payload: data})
}

func push(ctx context.Context, rdb *redis.Client, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.LPush(ctx, queue, encoded).Err()
}

// ── Pool ──────────────────────────────────────────────────────────────────────

// Pool consume las colas con BRPOP. Un job que falla se reencola con backoff
// hasta MaxAttempts; después va a la DLQ.
type Pool struct {
	rdb         *redis.Client
	handlers    map[string]Handler
	queues      []string
	MaxAttempts int
	Backoff     func(attempt int) time.Duration
	// ErrorPause es la espera de un worker tras un error de Redis.
	ErrorPause time.Duration

	pop func(ctx context.Context) ([]string, error)
}

func NewPool(rdb *redis.Client) *Pool {
	p := &Pool{
		rdb:         rdb,
		handlers:    make(map[string]Handler),
		MaxAttempts: 3,
		Backoff:     func(attempt int) time.Duration { return time.Duration(attempt*attempt) * time.Second },
		ErrorPause:  time.Second,
	}
	p.pop = p.brpop
	return p
}

// brpop espera hasta 5s; sin jobs devuelve redis.Nil.
func (p *Pool) brpop(ctx context.Context) ([]string, error) {
	return p.rdb.BRPop(ctx, 5*time.Second, p.queues...).Result()
}

// Handle registra el handler de un tipo de job y la cola que lo transporta.
func (p *Pool) Handle(queue, jobType string, h Handler) {
	p.handlers[jobType] = h
	for _, q := range p.queues {
		if q == queue {
			return
		}
	}
	p.queues = append(p.queues, queue)
}

// Run lanza numWorkers goroutines y bloquea hasta que ctx se cancela.
func (p *Pool) Run(ctx context.Context, numWorkers int) error {
	if numWorkers < 1 {
		numWorkers = 1
	}
	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			p.runWorker(ctx, id)
		}(i)
	}
	log.Info().Int("workers", numWorkers).Strs("queues", p.queues).Msg("worker pool started")
	wg.Wait()
	return nil
}

func (p *Pool) runWorker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Debug().Int("worker", id).Msg("worker shutting down")
			return
		default:
		}

		result, err := p.pop(ctx)
		switch {
		case errors.Is(err, redis.Nil):
			continue
		case err != nil:
			if ctx.Err() != nil {
				continue
			}
			log.Warn().Err(err).Int("worker", id).Dur("pause", p.ErrorPause).Msg("BRPOP failed")
			select {
			case <-ctx.Done():
			case <-time.After(p.ErrorPause):
			}
			continue
		case len(result) < 2:
			continue
		}
		p.process(ctx, result[0], result[1])
	}
}

func (p *Pool) process(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}
	h, ok := p.handlers[job.Type]
	if !ok {
		SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, "no handler registered", job.Attempts)
		return
	}

	err := runHandler(ctx, h, job.Payload)
	if err == nil {
		log.Debug().Str("type", job.Type).Msg("job processed")
		return
	}

	job.Attempts++
	if job.Attempts >= p.MaxAttempts {
		SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, err.Error(), job.Attempts)
		return
	}
	log.Warn().Err(err).Str("type", job.Type).Int("attempt", job.Attempts).Msg("job failed, retrying")

	select {
	case <-ctx.Done():
	case <-time.After(p.Backoff(job.Attempts)):
	}
	// El reintento sobrevive al apagado: se reencola con un contexto propio.
	rctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := push(rctx, p.rdb, queue, job); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("failed to requeue job")
	}
}

func runHandler(ctx context.Context, h Handler, payload json.RawMessage) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h(ctx, payload)
}
