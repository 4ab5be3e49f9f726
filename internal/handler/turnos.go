package handler

import (
	"net/http"

	"cantina/internal/apierror"
	"cantina/internal/dto"
	"cantina/internal/middleware"
	"cantina/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TurnosHandler struct{ svc service.TurnoService }

func NewTurnosHandler(svc service.TurnoService) *TurnosHandler { return &TurnosHandler{svc: svc} }

// Abrir godoc
// @Summary      Abrir turno
// @Description  Abre un turno en la caja indicada. Una caja y un cajero sólo pueden tener un turno activo a la vez.
// @Tags         turnos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.AbrirTurnoRequest true "Caja y monto inicial"
// @Success      201  {object} dto.TurnoResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/turnos/abrir [post]
func (h *TurnosHandler) Abrir(c *gin.Context) {
	var req dto.AbrirTurnoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	cajeroID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Abrir(c.Request.Context(), cajeroID, req)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Cerrar godoc
// @Summary      Cerrar turno
// @Description  Cierra el turno activo del cajero con el efectivo contado; calcula total de ventas y diferencia. Un turno cerrado es terminal.
// @Tags         turnos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CerrarTurnoRequest true "Monto final contado"
// @Success      200  {object} dto.TurnoResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/turnos/cerrar [post]
func (h *TurnosHandler) Cerrar(c *gin.Context) {
	var req dto.CerrarTurnoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	cajeroID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Cerrar(c.Request.Context(), cajeroID, req)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actual godoc
// @Summary      Turno activo del cajero autenticado
// @Tags         turnos
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.TurnoResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/turnos/actual [get]
func (h *TurnosHandler) Actual(c *gin.Context) {
	claims := middleware.GetClaims(c)
	cajeroID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.EstadoActual(c.Request.Context(), cajeroID)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Resumen godoc
// @Summary      Resumen de un turno
// @Description  Cantidad de ventas, totales, desglose por método de pago y efectivo esperado en caja.
// @Tags         turnos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del turno"
// @Success      200 {object} dto.ResumenTurnoResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/turnos/{id}/resumen [get]
func (h *TurnosHandler) Resumen(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Resumen(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Historial godoc
// @Summary      Historial de turnos
// @Tags         turnos
// @Produce      json
// @Security     BearerAuth
// @Param        cajero_id query string false "Filtrar por cajero"
// @Success      200 {array} dto.TurnoResponse
// @Router       /v1/turnos [get]
func (h *TurnosHandler) Historial(c *gin.Context) {
	page, limit := pageParams(c)
	items, total, err := h.svc.Historial(c.Request.Context(), c.Query("cajero_id"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar turnos"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items, "total": total, "pagina": page})
}

// ListCajas godoc
// @Summary      Listar cajas
// @Tags         turnos
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} model.Caja
// @Router       /v1/cajas [get]
func (h *TurnosHandler) ListCajas(c *gin.Context) {
	cajas, err := h.svc.ListCajas(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar cajas"))
		return
	}
	c.JSON(http.StatusOK, cajas)
}

// CrearCaja godoc
// @Summary      Registrar caja
// @Tags         turnos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      201 {object} model.Caja
// @Router       /v1/cajas [post]
func (h *TurnosHandler) CrearCaja(c *gin.Context) {
	var req struct {
		Numero int    `json:"numero" validate:"required,min=1"`
		Nombre string `json:"nombre" validate:"required,max=50"`
	}
	if !bindAndValidate(c, &req) {
		return
	}
	caja, err := h.svc.CrearCaja(c.Request.Context(), req.Numero, req.Nombre)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusCreated, caja)
}
