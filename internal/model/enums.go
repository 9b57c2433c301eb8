package model

import (
	"fmt"
	"strings"
)

// Estados y catálogos cerrados. Todo string que llega desde un request pasa por
// el Parse correspondiente antes de tocar el estado persistido.

// EstadoMesa: "disponible" | "ocupada" | "fuera_de_servicio"
type EstadoMesa string

const (
	MesaDisponible      EstadoMesa = "disponible"
	MesaOcupada         EstadoMesa = "ocupada"
	MesaFueraDeServicio EstadoMesa = "fuera_de_servicio"
)

func (e EstadoMesa) Valid() bool {
	switch e {
	case MesaDisponible, MesaOcupada, MesaFueraDeServicio:
		return true
	}
	return false
}

func ParseEstadoMesa(s string) (EstadoMesa, error) {
	e := EstadoMesa(normalizar(s))
	if !e.Valid() {
		return "", fmt.Errorf("estado de mesa inválido: %q", s)
	}
	return e, nil
}

// ZonaMesa agrupa las mesas en el plano del salón.
type ZonaMesa string

const (
	ZonaInterior ZonaMesa = "interior"
	ZonaTerraza  ZonaMesa = "terraza"
	ZonaVIP      ZonaMesa = "vip"
	ZonaBar      ZonaMesa = "bar"
)

func (z ZonaMesa) Valid() bool {
	switch z {
	case ZonaInterior, ZonaTerraza, ZonaVIP, ZonaBar:
		return true
	}
	return false
}

func ParseZonaMesa(s string) (ZonaMesa, error) {
	z := ZonaMesa(normalizar(s))
	if !z.Valid() {
		return "", fmt.Errorf("zona inválida: %q", s)
	}
	return z, nil
}

type EstadoSesion string

const (
	SesionAbierta EstadoSesion = "abierta"
	SesionCerrada EstadoSesion = "cerrada"
)

type EstadoFactura string

const (
	FacturaAbierta    EstadoFactura = "abierta"
	FacturaCompletada EstadoFactura = "completada"
	FacturaAnulada    EstadoFactura = "anulada"
)

type EstadoPago string

const (
	PagoPendiente EstadoPago = "pendiente"
	PagoPagado    EstadoPago = "pagado"
)

// TipoFactura distingue la cuenta de una mesa de la venta directa en caja.
type TipoFactura string

const (
	FacturaMesa         TipoFactura = "mesa"
	FacturaVentaDirecta TipoFactura = "venta_directa"
)

type MetodoPago string

const (
	PagoEfectivo      MetodoPago = "efectivo"
	PagoDebito        MetodoPago = "debito"
	PagoCredito       MetodoPago = "credito"
	PagoTransferencia MetodoPago = "transferencia"
	PagoNequi         MetodoPago = "nequi"
	PagoDaviplata     MetodoPago = "daviplata"
	PagoMixto         MetodoPago = "mixto"
)

func (m MetodoPago) Valid() bool {
	switch m {
	case PagoEfectivo, PagoDebito, PagoCredito, PagoTransferencia, PagoNequi, PagoDaviplata, PagoMixto:
		return true
	}
	return false
}

func ParseMetodoPago(s string) (MetodoPago, error) {
	m := MetodoPago(normalizar(s))
	if !m.Valid() {
		return "", fmt.Errorf("método de pago inválido: %q", s)
	}
	return m, nil
}

// EstadoCocina es compartido por FacturaDetalle y OrdenCocina.
// Una orden está activa para cocina mientras no esté "entregado".
type EstadoCocina string

const (
	CocinaPendiente     EstadoCocina = "pendiente"
	CocinaEnPreparacion EstadoCocina = "en_preparacion"
	CocinaListo         EstadoCocina = "listo"
	CocinaEntregado     EstadoCocina = "entregado"
)

func (e EstadoCocina) Valid() bool {
	switch e {
	case CocinaPendiente, CocinaEnPreparacion, CocinaListo, CocinaEntregado:
		return true
	}
	return false
}

func (e EstadoCocina) Activa() bool { return e != CocinaEntregado }

func ParseEstadoCocina(s string) (EstadoCocina, error) {
	e := EstadoCocina(normalizar(s))
	if !e.Valid() {
		return "", fmt.Errorf("estado de cocina inválido: %q", s)
	}
	return e, nil
}

// TipoMovimiento: "entrada" suma stock, "salida" lo descuenta.
type TipoMovimiento string

const (
	MovimientoEntrada TipoMovimiento = "entrada"
	MovimientoSalida  TipoMovimiento = "salida"
)

// Roles del JWT.
const (
	RolMesero        = "mesero"
	RolCajero        = "cajero"
	RolCocinero      = "cocinero"
	RolSupervisor    = "supervisor"
	RolAdministrador = "administrador"
)

// normalizar acepta "EN_PREPARACION" o " en_preparacion " indistintamente.
func normalizar(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
