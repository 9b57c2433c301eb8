package service

import (
	"sort"
	"time"

	"comandapos/internal/dto"
	"comandapos/internal/model"

	"github.com/google/uuid"
)

// Las tres vistas de cocina son proyecciones de las mismas filas de
// OrdenCocina; ninguna guarda estado propio.

func minutosDesde(t, ahora time.Time) int {
	m := int(ahora.Sub(t).Minutes())
	if m < 0 {
		return 0
	}
	return m
}

func ordenToResponse(o *model.OrdenCocina, ahora time.Time) dto.OrdenCocinaResponse {
	r := dto.OrdenCocinaResponse{
		ID:                   o.ID.String(),
		MesaID:               o.MesaID.String(),
		DetalleID:            o.DetalleID.String(),
		Cantidad:             o.Cantidad,
		Notas:                o.Notas,
		Estado:               string(o.Estado),
		Urgente:              o.Urgente,
		MotivoUrgencia:       o.MotivoUrgencia,
		Secuencia:            o.Secuencia,
		OrdenadaEn:           fecha(o.OrdenadaEn),
		MinutosTranscurridos: minutosDesde(o.OrdenadaEn, ahora),
	}
	if o.Mesa != nil {
		r.NumeroMesa = o.Mesa.Numero
		r.NombreMesa = o.Mesa.Nombre
	}
	if o.Factura != nil {
		r.NumeroFactura = o.Factura.Numero
	}
	if o.Detalle != nil {
		r.Producto = o.Detalle.NombreProducto
	}
	return r
}

// vistaPlana: una entrada por orden, en el orden recibido.
func vistaPlana(ordenes []model.OrdenCocina, ahora time.Time) []dto.OrdenCocinaResponse {
	out := make([]dto.OrdenCocinaResponse, 0, len(ordenes))
	for i := range ordenes {
		out = append(out, ordenToResponse(&ordenes[i], ahora))
	}
	return out
}

type claveLote struct {
	mesa      uuid.UUID
	secuencia int
}

// vistaTickets colapsa las órdenes de un mismo lote (mesa + secuencia) en un
// ticket. La nota del ticket es la primera no vacía y es urgente si alguna de
// sus órdenes lo es.
func vistaTickets(ordenes []model.OrdenCocina, ahora time.Time) []dto.TicketCocinaResponse {
	idx := make(map[claveLote]int)
	var out []dto.TicketCocinaResponse
	for i := range ordenes {
		o := &ordenes[i]
		k := claveLote{o.MesaID, o.Secuencia}
		pos, ok := idx[k]
		if !ok {
			base := ordenToResponse(o, ahora)
			out = append(out, dto.TicketCocinaResponse{
				MesaID:               base.MesaID,
				NumeroMesa:           base.NumeroMesa,
				NombreMesa:           base.NombreMesa,
				NumeroFactura:        base.NumeroFactura,
				Mesero:               o.Mesero,
				Secuencia:            o.Secuencia,
				OrdenadaEn:           base.OrdenadaEn,
				MinutosTranscurridos: base.MinutosTranscurridos,
			})
			pos = len(out) - 1
			idx[k] = pos
		}
		t := &out[pos]
		if t.Notas == nil && o.Notas != nil && *o.Notas != "" {
			t.Notas = o.Notas
		}
		if o.Urgente {
			t.Urgente = true
			if t.MotivoUrgencia == nil {
				t.MotivoUrgencia = o.MotivoUrgencia
			}
		}
		r := ordenToResponse(o, ahora)
		t.Items = append(t.Items, dto.TicketItemResponse{
			OrdenID:    r.ID,
			DetalleID:  r.DetalleID,
			Producto:   r.Producto,
			Cantidad:   r.Cantidad,
			Notas:      r.Notas,
			Estado:     r.Estado,
			OrdenadaEn: r.OrdenadaEn,
		})
	}
	return out
}

// vistaPorMesa agrupa por mesa, ordenado por número de mesa.
func vistaPorMesa(ordenes []model.OrdenCocina, ahora time.Time) []dto.MesaCocinaResponse {
	idx := make(map[uuid.UUID]int)
	var out []dto.MesaCocinaResponse
	for i := range ordenes {
		r := ordenToResponse(&ordenes[i], ahora)
		pos, ok := idx[ordenes[i].MesaID]
		if !ok {
			out = append(out, dto.MesaCocinaResponse{
				MesaID:     r.MesaID,
				NumeroMesa: r.NumeroMesa,
				NombreMesa: r.NombreMesa,
			})
			pos = len(out) - 1
			idx[ordenes[i].MesaID] = pos
		}
		m := &out[pos]
		m.Ordenes = append(m.Ordenes, r)
		m.TotalOrdenes++
		m.TieneUrgentes = m.TieneUrgentes || r.Urgente
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].NumeroMesa < out[j].NumeroMesa })
	return out
}
