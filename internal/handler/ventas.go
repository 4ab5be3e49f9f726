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

type VentasHandler struct{ svc service.VentaService }

func NewVentasHandler(svc service.VentaService) *VentasHandler { return &VentasHandler{svc: svc} }

// Procesar godoc
// @Summary      Procesar venta completa
// @Description  Crea, cobra y completa la venta en una llamada ACID: descuenta stock, debita saldo si corresponde y despacha la facturación asíncrona.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.ProcesarVentaRequest true "Items y pagos"
// @Success      201  {object} dto.ProcesarVentaResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/ventas/procesar [post]
func (h *VentasHandler) Procesar(c *gin.Context) {
	var req dto.ProcesarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	cajeroID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.ProcesarVenta(c.Request.Context(), cajeroID, req)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Validar godoc
// @Summary      Validar venta (dry-run)
// @Description  Reporta totales y todos los problemas encontrados sin tocar stock ni saldos.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.ValidarVentaRequest true "Items a validar"
// @Success      200  {object} dto.ValidarVentaResponse
// @Router       /v1/ventas/validar [post]
func (h *VentasHandler) Validar(c *gin.Context) {
	var req dto.ValidarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ValidarPreview(c.Request.Context(), req)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CrearBorrador godoc
// @Summary      Abrir venta pendiente
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearBorradorRequest true "Tarjeta opcional"
// @Success      201  {object} dto.VentaResponse
// @Router       /v1/ventas [post]
func (h *VentasHandler) CrearBorrador(c *gin.Context) {
	var req dto.CrearBorradorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	cajeroID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.CrearBorrador(c.Request.Context(), cajeroID, req)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// AgregarItem godoc
// @Summary      Agregar item a venta pendiente
// @Description  Reserva stock inmediatamente al agregar la línea.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID de la venta"
// @Param        body body dto.AgregarItemRequest true "Producto y cantidad"
// @Success      200  {object} dto.VentaResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/ventas/{id}/items [post]
func (h *VentasHandler) AgregarItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.AgregarItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AgregarItem(c.Request.Context(), id, req)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EliminarItem godoc
// @Summary      Quitar item de venta pendiente
// @Description  Restaura el stock reservado por la línea.
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        id        path string true "UUID de la venta"
// @Param        detalleId path string true "UUID del detalle"
// @Success      200  {object} dto.VentaResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/ventas/{id}/items/{detalleId} [delete]
func (h *VentasHandler) EliminarItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	detalleID, err := uuid.Parse(c.Param("detalleId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de detalle invalido"))
		return
	}
	resp, err := h.svc.EliminarItem(c.Request.Context(), id, detalleID)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Pagar godoc
// @Summary      Cobrar y completar venta pendiente
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID de la venta"
// @Param        body body dto.PagarVentaRequest true "Pagos"
// @Success      200  {object} dto.ProcesarVentaResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/ventas/{id}/pagar [post]
func (h *VentasHandler) Pagar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.PagarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ProcesarPendiente(c.Request.Context(), id, req)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Anular godoc
// @Summary      Anular venta
// @Description  Restaura stock, devuelve saldo debitado y marca la venta como anulada. Sólo administradores.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID de la venta"
// @Param        body body dto.AnularVentaRequest true "Motivo"
// @Success      204
// @Failure      409  {object} apierror.APIError
// @Router       /v1/ventas/{id} [delete]
func (h *VentasHandler) Anular(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.AnularVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	adminID, _ := uuid.Parse(claims.UserID)

	if err := h.svc.AnularVenta(c.Request.Context(), id, adminID, req.Motivo); err != nil {
		abortWith(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Detalle godoc
// @Summary      Detalle de venta
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la venta"
// @Success      200 {object} dto.VentaResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/ventas/{id} [get]
func (h *VentasHandler) Detalle(c *gin.Context) {
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

// List godoc
// @Summary      Listar ventas
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        desde  query string false "Fecha YYYY-MM-DD"
// @Param        hasta  query string false "Fecha YYYY-MM-DD"
// @Param        estado query string false "pendiente | completada | anulada"
// @Success      200 {array} dto.VentaResponse
// @Router       /v1/ventas [get]
func (h *VentasHandler) List(c *gin.Context) {
	var filter dto.ListVentasQuery
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	items, total, err := h.svc.ListVentas(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar ventas"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items, "total": total, "pagina": filter.Pagina})
}
