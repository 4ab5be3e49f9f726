package handler

import (
	"fmt"
	"net/http"

	"cantina/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportesHandler struct{ svc service.ReporteService }

func NewReportesHandler(svc service.ReporteService) *ReportesHandler {
	return &ReportesHandler{svc: svc}
}

// Diario godoc
// @Summary      Reporte diario de ventas
// @Description  Totales del día: ventas, anulaciones, recargas, consumos, desglose por método de pago y productos más vendidos.
// @Tags         reportes
// @Produce      json
// @Security     BearerAuth
// @Param        fecha query string false "Fecha YYYY-MM-DD (default hoy)"
// @Success      200 {object} dto.ReporteDiarioResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/reportes/diario [get]
func (h *ReportesHandler) Diario(c *gin.Context) {
	resp, err := h.svc.Diario(c.Request.Context(), c.Query("fecha"))
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DiarioXLSX godoc
// @Summary      Reporte diario en Excel
// @Tags         reportes
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        fecha query string false "Fecha YYYY-MM-DD (default hoy)"
// @Success      200 {file} binary
// @Router       /v1/reportes/diario/xlsx [get]
func (h *ReportesHandler) DiarioXLSX(c *gin.Context) {
	data, filename, err := h.svc.DiarioXLSX(c.Request.Context(), c.Query("fecha"))
	if err != nil {
		abortWith(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
