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

type RecargasHandler struct{ svc service.RecargaService }

func NewRecargasHandler(svc service.RecargaService) *RecargasHandler {
	return &RecargasHandler{svc: svc}
}

// Crear godoc
// @Summary      Solicitar recarga de saldo
// @Description  El padre sube el comprobante de pago (jpg/png/pdf, máx 5MB) junto con el monto. Queda pendiente de aprobación.
// @Tags         recargas
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        alumno_id       formData string true  "UUID del alumno"
// @Param        monto           formData number true  "Monto solicitado"
// @Param        metodo_pago     formData string true  "transferencia | deposito | efectivo"
// @Param        referencia_pago formData string false "Referencia de la operación"
// @Param        comprobante     formData file   true  "Comprobante de pago"
// @Success      201 {object} dto.RecargaResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/recargas [post]
func (h *RecargasHandler) Crear(c *gin.Context) {
	var req dto.CrearRecargaRequest
	if !bindFormAndValidate(c, &req) {
		return
	}
	comprobante, err := c.FormFile("comprobante")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("El comprobante de pago es obligatorio"))
		return
	}

	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Crear(c.Request.Context(), usuarioID, req, comprobante)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Aprobar godoc
// @Summary      Aprobar solicitud de recarga
// @Description  Aprueba y acredita el saldo en una única transacción. Una solicitud procesada no puede reprocesarse.
// @Tags         recargas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID de la solicitud"
// @Param        body body dto.AprobarRecargaRequest true "Monto aprobado opcional"
// @Success      200 {object} dto.RecargaResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/recargas/{id}/aprobar [post]
func (h *RecargasHandler) Aprobar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.AprobarRecargaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	adminID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.AprobarYAcreditar(c.Request.Context(), id, adminID, req)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Rechazar godoc
// @Summary      Rechazar solicitud de recarga
// @Tags         recargas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID de la solicitud"
// @Param        body body dto.RechazarRecargaRequest true "Motivo del rechazo"
// @Success      200 {object} dto.RecargaResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/recargas/{id}/rechazar [post]
func (h *RecargasHandler) Rechazar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.RechazarRecargaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	adminID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Rechazar(c.Request.Context(), id, adminID, req)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary      Listar solicitudes de recarga
// @Tags         recargas
// @Produce      json
// @Security     BearerAuth
// @Param        estado query string false "pendiente | aprobada | rechazada | all"
// @Success      200 {array} dto.RecargaResponse
// @Router       /v1/recargas [get]
func (h *RecargasHandler) List(c *gin.Context) {
	page, limit := pageParams(c)
	items, total, err := h.svc.List(c.Request.Context(), c.Query("estado"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar solicitudes"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items, "total": total, "pagina": page})
}

// MisSolicitudes godoc
// @Summary      Solicitudes del padre autenticado
// @Tags         recargas
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.RecargaResponse
// @Router       /v1/recargas/mias [get]
func (h *RecargasHandler) MisSolicitudes(c *gin.Context) {
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)
	page, limit := pageParams(c)

	items, total, err := h.svc.ListByPadre(c.Request.Context(), usuarioID, page, limit)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items, "total": total, "pagina": page})
}

// Detalle godoc
// @Summary      Detalle de solicitud
// @Tags         recargas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la solicitud"
// @Success      200 {object} dto.RecargaResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/recargas/{id} [get]
func (h *RecargasHandler) Detalle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Detalle(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
