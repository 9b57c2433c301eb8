package handler

import (
	"net/http"

	"comandapos/internal/dto"
	"comandapos/internal/service"

	"github.com/gin-gonic/gin"
)

type CocinaHandler struct{ svc service.CocinaService }

func NewCocinaHandler(svc service.CocinaService) *CocinaHandler {
	return &CocinaHandler{svc: svc}
}

// ListarOrdenes godoc
// @Summary      Órdenes activas de cocina
// @Description  Vista plana: urgentes primero, luego por antigüedad.
// @Tags         cocina
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.OrdenCocinaResponse
// @Router       /v1/cocina/ordenes [get]
func (h *CocinaHandler) ListarOrdenes(c *gin.Context) {
	resp, err := h.svc.ListarOrdenes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarTickets godoc
// @Summary      Tickets de cocina
// @Description  Órdenes agrupadas por lote (mesa + secuencia).
// @Tags         cocina
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.TicketCocinaResponse
// @Router       /v1/cocina/tickets [get]
func (h *CocinaHandler) ListarTickets(c *gin.Context) {
	resp, err := h.svc.ListarTickets(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarPorMesa godoc
// @Summary      Órdenes activas agrupadas por mesa
// @Tags         cocina
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.MesaCocinaResponse
// @Router       /v1/cocina/mesas [get]
func (h *CocinaHandler) ListarPorMesa(c *gin.Context) {
	resp, err := h.svc.ListarPorMesa(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ActualizarOrden godoc
// @Summary      Cambiar estado de una orden
// @Tags         cocina
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                  true "UUID de la orden"
// @Param        body body dto.EstadoCocinaRequest true "pendiente | en_preparacion | listo | entregado"
// @Success      200  {object} dto.OrdenCocinaResponse
// @Failure      404  {object} apierror.APIError
// @Failure      422  {object} apierror.APIError
// @Router       /v1/cocina/ordenes/{id}/estado [put]
func (h *CocinaHandler) ActualizarOrden(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.EstadoCocinaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarEstadoOrden(c.Request.Context(), id, req.Estado)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ActualizarItem godoc
// @Summary      Cambiar estado de cocina de una línea
// @Tags         cocina
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        detalle_id path string                  true "UUID de la línea"
// @Param        body       body dto.EstadoCocinaRequest true "Nuevo estado"
// @Success      200  {object} dto.DetalleResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/cocina/items/{detalle_id}/estado [put]
func (h *CocinaHandler) ActualizarItem(c *gin.Context) {
	id, ok := parseUUIDParam(c, "detalle_id")
	if !ok {
		return
	}
	var req dto.EstadoCocinaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarEstadoDetalle(c.Request.Context(), id, req.Estado)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MarcarUrgente godoc
// @Summary      Marcar orden como urgente
// @Tags         cocina
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string              true  "UUID de la orden"
// @Param        body body dto.UrgenteRequest  false "Motivo"
// @Success      200  {object} dto.OrdenCocinaResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/cocina/ordenes/{id}/urgente [post]
func (h *CocinaHandler) MarcarUrgente(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UrgenteRequest
	if c.Request.ContentLength != 0 && !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.MarcarUrgente(c.Request.Context(), id, req.Motivo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
