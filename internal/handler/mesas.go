package handler

import (
	"net/http"

	"comandapos/internal/dto"
	"comandapos/internal/service"

	"github.com/gin-gonic/gin"
)

type MesasHandler struct{ svc service.MesaService }

func NewMesasHandler(svc service.MesaService) *MesasHandler {
	return &MesasHandler{svc: svc}
}

// Crear godoc
// @Summary      Crear mesa
// @Tags         mesas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearMesaRequest true "Datos de la mesa"
// @Success      201  {object} dto.MesaResponse
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/mesas [post]
func (h *MesasHandler) Crear(c *gin.Context) {
	var req dto.CrearMesaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearMesa(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary      Plano del salón
// @Description  Mesas activas ordenadas por orden_visual, con el resumen de la sesión abierta si la hay.
// @Tags         mesas
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.MesaResponse
// @Router       /v1/mesas [get]
func (h *MesasHandler) Listar(c *gin.Context) {
	resp, err := h.svc.ListarMesas(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary      Obtener mesa
// @Tags         mesas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la mesa"
// @Success      200  {object} dto.MesaResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/mesas/{id} [get]
func (h *MesasHandler) Obtener(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerMesa(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar godoc
// @Summary      Actualizar mesa
// @Tags         mesas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                    true "UUID de la mesa"
// @Param        body body dto.ActualizarMesaRequest true "Campos a modificar"
// @Success      200  {object} dto.MesaResponse
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/mesas/{id} [put]
func (h *MesasHandler) Actualizar(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarMesaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarMesa(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Desactivar godoc
// @Summary      Desactivar mesa
// @Description  Baja lógica. Falla con 409 si la mesa está ocupada.
// @Tags         mesas
// @Security     BearerAuth
// @Param        id path string true "UUID de la mesa"
// @Success      204
// @Failure      409  {object} apierror.APIError
// @Router       /v1/mesas/{id} [delete]
func (h *MesasHandler) Desactivar(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DesactivarMesa(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CambiarEstado godoc
// @Summary      Cambiar estado de la mesa
// @Description  Sólo disponible o fuera_de_servicio; "ocupada" lo maneja la apertura.
// @Tags         mesas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                       true "UUID de la mesa"
// @Param        body body dto.CambiarEstadoMesaRequest true "Nuevo estado"
// @Success      200  {object} dto.MesaResponse
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.APIError
// @Router       /v1/mesas/{id}/estado [patch]
func (h *MesasHandler) CambiarEstado(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.CambiarEstadoMesaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CambiarEstado(c.Request.Context(), id, req.Estado)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Abrir godoc
// @Summary      Abrir mesa
// @Description  Crea la sesión y su factura abierta. La mesa pasa a ocupada.
// @Tags         mesas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string               true  "UUID de la mesa"
// @Param        body body dto.AbrirMesaRequest false "Comensales y notas"
// @Success      201  {object} dto.SesionResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/mesas/{id}/abrir [post]
func (h *MesasHandler) Abrir(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.AbrirMesaRequest
	if c.Request.ContentLength != 0 && !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AbrirSesion(c.Request.Context(), id, req, actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
