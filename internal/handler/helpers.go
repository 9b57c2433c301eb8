package handler

import (
	"net/http"
	"reflect"

	"comandapos/internal/apierror"
	"comandapos/internal/middleware"
	"comandapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.WithCode("bad_request", "JSON invalido: "+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

// bindQuery es bindAndValidate para filtros en query string.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.WithCode("bad_request", "Parametros invalidos: "+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

func validateStruct(c *gin.Context, req interface{}) bool {
	err := validate.Struct(req)
	if err == nil {
		return true
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		c.JSON(http.StatusBadRequest, apierror.WithCode("bad_request", err.Error()))
		return false
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
	return false
}

// statusPorKind traduce los errores de negocio a HTTP.
var statusPorKind = map[service.Kind]int{
	service.KindNotFound:          http.StatusNotFound,
	service.KindConflict:          http.StatusConflict,
	service.KindValidation:        http.StatusUnprocessableEntity,
	service.KindStockInsuficiente: http.StatusConflict,
	service.KindEstadoInvalido:    http.StatusConflict,
}

// respondError escribe err como APIError. Los errores que no son de negocio
// se loguean y salen como 500 sin detalle interno.
func respondError(c *gin.Context, err error) {
	kind := service.KindOf(err)
	status, ok := statusPorKind[kind]
	if !ok {
		log.Error().Err(err).
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("path", c.FullPath()).
			Msg("error interno")
		c.JSON(http.StatusInternalServerError, apierror.WithCode("unknown", "Error interno del servidor"))
		return
	}
	c.JSON(status, apierror.WithCode(string(kind), err.Error()))
}

// parseUUIDParam lee un path param UUID; si es inválido responde 400.
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.WithCode("bad_request", "ID invalido: "+name))
		return uuid.Nil, false
	}
	return id, true
}

// actorFrom arma el Actor a partir de los claims del JWT.
func actorFrom(c *gin.Context) service.Actor {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return service.Actor{}
	}
	a := service.Actor{Nombre: claims.Username, Rol: claims.Rol}
	if id, err := uuid.Parse(claims.UserID); err == nil {
		a.ID = id
	}
	return a
}
