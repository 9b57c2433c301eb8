package handler

import (
	"net/http"

	"comandapos/internal/dto"
	"comandapos/internal/service"

	"github.com/gin-gonic/gin"
)

type SesionesHandler struct{ svc service.MesaService }

func NewSesionesHandler(svc service.MesaService) *SesionesHandler {
	return &SesionesHandler{svc: svc}
}

// Obtener godoc
// @Summary      Obtener sesión de mesa
// @Tags         sesiones
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la sesión"
// @Success      200  {object} dto.SesionResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/sesiones/{id} [get]
func (h *SesionesHandler) Obtener(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerSesion(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarActivas godoc
// @Summary      Sesiones abiertas
// @Tags         sesiones
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.SesionResponse
// @Router       /v1/sesiones [get]
func (h *SesionesHandler) ListarActivas(c *gin.Context) {
	resp, err := h.svc.ListarSesionesActivas(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AgregarItems godoc
// @Summary      Agregar items a la mesa
// @Description  Todos los items forman un lote de cocina. Descuenta stock; si un producto no alcanza no se agrega nada.
// @Tags         sesiones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                  true "UUID de la sesión"
// @Param        body body dto.AgregarItemsRequest true "Items del pedido"
// @Success      200  {object} dto.SesionResponse
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/sesiones/{id}/items [post]
func (h *SesionesHandler) AgregarItems(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.AgregarItemsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AgregarItems(c.Request.Context(), id, req, actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// QuitarItem godoc
// @Summary      Quitar item de la mesa
// @Description  Elimina la línea completa, repone stock y avisa a cocina.
// @Tags         sesiones
// @Produce      json
// @Security     BearerAuth
// @Param        id         path string true "UUID de la sesión"
// @Param        detalle_id path string true "UUID de la línea"
// @Success      200  {object} dto.SesionResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/sesiones/{id}/items/{detalle_id} [delete]
func (h *SesionesHandler) QuitarItem(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	detalleID, ok := parseUUIDParam(c, "detalle_id")
	if !ok {
		return
	}
	resp, err := h.svc.QuitarItem(c.Request.Context(), id, detalleID, actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Pagar godoc
// @Summary      Cobrar mesa
// @Description  Aplica descuento y cargos, completa la factura, cierra la sesión y libera la mesa.
// @Tags         sesiones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string               true "UUID de la sesión"
// @Param        body body dto.PagarMesaRequest true "Datos del cobro"
// @Success      200  {object} dto.FacturaResponse
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.APIError
// @Router       /v1/sesiones/{id}/pagar [post]
func (h *SesionesHandler) Pagar(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.PagarMesaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Pagar(c.Request.Context(), id, req, actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Liberar godoc
// @Summary      Liberar mesa sin pedido
// @Description  Sólo si la cuenta no tiene items. Anula la factura vacía.
// @Tags         sesiones
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la sesión"
// @Success      200  {object} dto.SesionResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/sesiones/{id}/liberar [post]
func (h *SesionesHandler) Liberar(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Liberar(c.Request.Context(), id, actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
