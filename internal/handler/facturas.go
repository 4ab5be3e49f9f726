package handler

import (
	"net/http"

	"cantina/internal/apierror"
	"cantina/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FacturasHandler struct{ svc service.FacturacionService }

func NewFacturasHandler(svc service.FacturacionService) *FacturasHandler {
	return &FacturasHandler{svc: svc}
}

// List godoc
// @Summary      Listar facturas
// @Tags         facturas
// @Produce      json
// @Security     BearerAuth
// @Param        estado query string false "pendiente | emitida | error | all"
// @Success      200 {array} model.Factura
// @Router       /v1/facturas [get]
func (h *FacturasHandler) List(c *gin.Context) {
	page, limit := pageParams(c)
	items, total, err := h.svc.List(c.Request.Context(), c.Query("estado"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar facturas"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items, "total": total, "pagina": page})
}

// Detalle godoc
// @Summary      Detalle de factura
// @Tags         facturas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la factura"
// @Success      200 {object} model.Factura
// @Failure      404 {object} apierror.APIError
// @Router       /v1/facturas/{id} [get]
func (h *FacturasHandler) Detalle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	factura, err := h.svc.Detalle(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, factura)
}

// PorVenta godoc
// @Summary      Factura de una venta
// @Tags         facturas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la venta"
// @Success      200 {object} model.Factura
// @Failure      404 {object} apierror.APIError
// @Router       /v1/ventas/{id}/factura [get]
func (h *FacturasHandler) PorVenta(c *gin.Context) {
	ventaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	factura, err := h.svc.PorVenta(c.Request.Context(), ventaID)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, factura)
}

// DescargarPDF godoc
// @Summary      Descargar PDF de factura
// @Tags         facturas
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path string true "UUID de la factura"
// @Success      200 {file} binary
// @Failure      409 {object} apierror.APIError
// @Router       /v1/facturas/{id}/pdf [get]
func (h *FacturasHandler) DescargarPDF(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	factura, err := h.svc.Detalle(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Factura no encontrada"))
		return
	}
	if factura.PDFPath == nil {
		c.JSON(http.StatusConflict, apierror.New("La factura aun no fue emitida"))
		return
	}
	c.FileAttachment(*factura.PDFPath, "factura_"+factura.Numero+".pdf")
}

// Reintentar godoc
// @Summary      Reintentar emisión de factura
// @Description  Fuerza un reintento inmediato de una factura en estado pendiente o error.
// @Tags         facturas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la factura"
// @Success      202
// @Failure      409 {object} apierror.APIError
// @Router       /v1/facturas/{id}/reintentar [post]
func (h *FacturasHandler) Reintentar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.Reintentar(c.Request.Context(), id); err != nil {
		abortWith(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}
