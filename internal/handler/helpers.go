package handler

import (
	"errors"
	"net/http"
	"reflect"

	"cantina/internal/apierror"
	"cantina/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
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
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

// bindFormAndValidate does the same for multipart/form-data bodies.
func bindFormAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBind(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Formulario invalido: "+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

func validateStruct(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// statusFor maps domain sentinel errors to HTTP statuses. Anything not
// recognized is a 400 — business rejections are client errors here.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrSaldoInsuficiente),
		errors.Is(err, service.ErrLimiteDiarioExcedido),
		errors.Is(err, service.ErrStockInsuficiente),
		errors.Is(err, service.ErrSolicitudNoPendiente),
		errors.Is(err, service.ErrCajaOcupada),
		errors.Is(err, service.ErrCajeroConTurno),
		errors.Is(err, service.ErrVentaAnulada):
		return http.StatusConflict
	case errors.Is(err, service.ErrCredencialesInvalidas),
		errors.Is(err, service.ErrSesionExpirada):
		return http.StatusUnauthorized
	default:
		return http.StatusBadRequest
	}
}

func abortWith(c *gin.Context, err error) {
	c.JSON(statusFor(err), apierror.New(err.Error()))
}
