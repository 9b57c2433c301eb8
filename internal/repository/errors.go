package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Errores de acceso a datos que los servicios distinguen. Cualquier otro error
// se propaga tal cual y termina como 500.
var (
	ErrNotFound          = errors.New("registro no encontrado")
	ErrDuplicateKey      = errors.New("registro duplicado")
	ErrStockInsuficiente = errors.New("stock insuficiente")
)

const pgUniqueViolation = "23505"

// translate maps driver/GORM errors onto the sentinels above.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDuplicateKey
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateKey
	}
	return err
}

// forUpdate bloquea las filas leídas hasta el fin de la transacción.
func forUpdate() clause.Locking {
	return clause.Locking{Strength: "UPDATE"}
}
