// Package notify lleva los eventos de negocio a las pantallas conectadas
// (cocina, caja, administración). La entrega es best effort: ningún fallo de
// publicación llega a la operación que originó el evento.
package notify

import (
	"time"

	"comandapos/internal/model"
)

// Nombres de evento, tal como los reciben los clientes SSE.
const (
	EventoConectado           = "connected"
	EventoNuevoPedido         = "new_order"
	EventoActualizacionCocina = "kitchen_update"
	EventoPedidoUrgente       = "urgent_order"
	EventoPedidoPagado        = "order_paid"
	EventoMesa                = "table_update"
	EventoAlertaStock         = "stock_alert"
	EventoFacturaAnulada      = "invoice_voided"
)

// Audiencias habituales. El administrador recibe todo siempre.
var (
	RolesCocina   = []string{model.RolCocinero, model.RolSupervisor}
	RolesSalon    = []string{model.RolMesero, model.RolCajero, model.RolSupervisor}
	RolesGerencia = []string{model.RolSupervisor}
)

// Event es el sobre común a todos los canales. Roles vacío = todos.
type Event struct {
	Name  string      `json:"event"`
	Roles []string    `json:"roles,omitempty"`
	Data  interface{} `json:"data"`
	At    time.Time   `json:"at"`
}

// New arma un evento para las audiencias indicadas (roles se concatenan).
func New(name string, data interface{}, roles ...[]string) Event {
	var rs []string
	for _, r := range roles {
		rs = append(rs, r...)
	}
	return Event{Name: name, Roles: rs, Data: data, At: time.Now()}
}

// VisiblePara indica si un suscriptor con ese rol debe recibir el evento.
func (e Event) VisiblePara(rol string) bool {
	if rol == model.RolAdministrador || len(e.Roles) == 0 {
		return true
	}
	for _, r := range e.Roles {
		if r == rol {
			return true
		}
	}
	return false
}
