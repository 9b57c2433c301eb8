package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// bestEffort runs fn behind a SAVEPOINT so a failure is logged and rolled back
// without aborting the surrounding transaction.
func bestEffort(tx *gorm.DB, nombre string, fn func() error) {
	if tx != nil {
		if err := tx.SavePoint(nombre).Error; err != nil {
			log.Warn().Err(err).Str("savepoint", nombre).Msg("savepoint failed, skipping side effect")
			return
		}
	}
	if err := fn(); err != nil {
		log.Warn().Err(err).Str("savepoint", nombre).Msg("best-effort write failed")
		if tx != nil {
			tx.RollbackTo(nombre)
		}
	}
}

// ── Bloqueos ──────────────────────────────────────────────────────────────────
// Exclusión mutua por clave (id de mesa o de factura) dentro del proceso. Se
// combina con el FOR UPDATE de la fila para cubrir varias réplicas.

type Bloqueos struct {
	mu     sync.Mutex
	claves map[uuid.UUID]*bloqueo
}

type bloqueo struct {
	mu   sync.Mutex
	refs int
}

func NewBloqueos() *Bloqueos {
	return &Bloqueos{claves: make(map[uuid.UUID]*bloqueo)}
}

// Lock bloquea la clave y devuelve la función que la libera.
func (b *Bloqueos) Lock(id uuid.UUID) func() {
	b.mu.Lock()
	l, ok := b.claves[id]
	if !ok {
		l = &bloqueo{}
		b.claves[id] = l
	}
	l.refs++
	b.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		b.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(b.claves, id)
		}
		b.mu.Unlock()
	}
}
