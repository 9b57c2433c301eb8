package service

import (
	"comandapos/internal/model"

	"github.com/google/uuid"
)

// Actor es quien ejecuta la operación, tomado de los claims del JWT.
type Actor struct {
	ID     uuid.UUID
	Nombre string
	Rol    string
}

func (a Actor) ref() *uuid.UUID {
	if a.ID == uuid.Nil {
		return nil
	}
	id := a.ID
	return &id
}

// Sistema se usa en procesos internos sin usuario (seeds, jobs).
var Sistema = Actor{Nombre: "sistema", Rol: model.RolAdministrador}
