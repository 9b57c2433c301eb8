package service

import (
	"errors"
	"fmt"

	"comandapos/internal/repository"
)

// Kind clasifica los errores de negocio. El handler lo traduce a un código HTTP.
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindConflict          Kind = "conflict"
	KindValidation        Kind = "validation"
	KindStockInsuficiente Kind = "insufficient_stock"
	KindEstadoInvalido    Kind = "illegal_state"
)

// Error es el error de negocio que devuelven todos los servicios. Cualquier otro
// error que salga de un servicio es un fallo de infraestructura.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf devuelve el Kind de err o "" si no es un error de negocio.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

func newError(k Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}

func errNotFound(format string, args ...interface{}) error {
	return newError(KindNotFound, format, args...)
}

func errConflict(format string, args ...interface{}) error {
	return newError(KindConflict, format, args...)
}

func errValidation(format string, args ...interface{}) error {
	return newError(KindValidation, format, args...)
}

func errEstado(format string, args ...interface{}) error {
	return newError(KindEstadoInvalido, format, args...)
}

// notFoundOr convierte repository.ErrNotFound en un error NotFound con msg y
// deja pasar el resto sin tocar.
func notFoundOr(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &Error{Kind: KindNotFound, Msg: msg}
	}
	return err
}
