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

type SaldoHandler struct{ svc service.SaldoService }

func NewSaldoHandler(svc service.SaldoService) *SaldoHandler { return &SaldoHandler{svc: svc} }

// ConsultarTarjeta godoc
// @Summary      Consultar saldo por tarjeta
// @Description  Resuelve la tarjeta al alumno y retorna saldo, límite diario y disponible de hoy. Respuesta cacheada en redis (TTL corto).
// @Tags         saldo
// @Produce      json
// @Security     BearerAuth
// @Param        numero path string true "Número de tarjeta"
// @Success      200 {object} dto.SaldoTarjetaResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/saldo/tarjeta/{numero} [get]
func (h *SaldoHandler) ConsultarTarjeta(c *gin.Context) {
	numero := c.Param("numero")
	resp, err := h.svc.ConsultarPorTarjeta(c.Request.Context(), numero)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Historial godoc
// @Summary      Historial de transacciones del alumno
// @Tags         saldo
// @Produce      json
// @Security     BearerAuth
// @Param        id     path  string true  "UUID del alumno"
// @Param        pagina query int    false "Página (default 1)"
// @Param        limite query int    false "Registros por página (default 50)"
// @Success      200 {object} dto.HistorialSaldoResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/alumnos/{id}/transacciones [get]
func (h *SaldoHandler) Historial(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	page, limit := pageParams(c)
	resp, err := h.svc.Historial(c.Request.Context(), id, page, limit)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Ajustar godoc
// @Summary      Ajuste manual de saldo
// @Description  Aplica una corrección con monto firmado (positivo acredita, negativo debita). Sólo administradores.
// @Tags         saldo
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del alumno"
// @Param        body body dto.AjusteSaldoRequest true "Monto firmado y descripción"
// @Success      200 {object} dto.TransaccionResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/alumnos/{id}/saldo/ajuste [post]
func (h *SaldoHandler) Ajustar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.AjusteSaldoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	adminID, _ := uuid.Parse(claims.UserID)

	t, err := h.svc.AjustarSaldo(c.Request.Context(), id, req.Monto, req.Descripcion, adminID)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"transaccion_id":  t.ID.String(),
		"saldo_posterior": t.SaldoPosterior,
	})
}

// Reconciliar godoc
// @Summary      Reconciliar saldos contra el ledger
// @Description  Compara el saldo materializado de cada alumno contra la suma de sus transacciones. Sólo lectura.
// @Tags         saldo
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.ReconciliacionResponse
// @Router       /v1/saldo/reconciliacion [get]
func (h *SaldoHandler) Reconciliar(c *gin.Context) {
	resp, err := h.svc.Reconciliar(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al reconciliar"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
