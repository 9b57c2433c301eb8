package handler

import (
	"net/http"

	"comandapos/internal/dto"
	"comandapos/internal/service"

	"github.com/gin-gonic/gin"
)

type InventarioHandler struct{ svc service.InventarioService }

func NewInventarioHandler(svc service.InventarioService) *InventarioHandler {
	return &InventarioHandler{svc: svc}
}

func (h *InventarioHandler) Obtener(c *gin.Context) {
	id, ok := parseUUIDParam(c, "producto_id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerInventario(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Ajustar godoc
// @Summary      Ajuste manual de stock
// @Tags         inventario
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        producto_id path string                 true "UUID del producto"
// @Param        body        body dto.AjusteStockRequest true "Delta y motivo"
// @Success      200  {object} dto.InventarioResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/inventario/{producto_id} [patch]
func (h *InventarioHandler) Ajustar(c *gin.Context) {
	id, ok := parseUUIDParam(c, "producto_id")
	if !ok {
		return
	}
	var req dto.AjusteStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Ajustar(c.Request.Context(), id, req, actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventarioHandler) ObtenerAlertas(c *gin.Context) {
	resp, err := h.svc.ObtenerAlertas(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventarioHandler) ListarMovimientos(c *gin.Context) {
	var filter dto.MovimientoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListarMovimientos(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
