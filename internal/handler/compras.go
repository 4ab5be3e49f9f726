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

type ComprasHandler struct{ svc service.CompraService }

func NewComprasHandler(svc service.CompraService) *ComprasHandler {
	return &ComprasHandler{svc: svc}
}

// CrearProveedor godoc
// @Summary      Registrar proveedor
// @Tags         compras
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearProveedorRequest true "Datos del proveedor"
// @Success      201  {object} dto.ProveedorResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/proveedores [post]
func (h *ComprasHandler) CrearProveedor(c *gin.Context) {
	var req dto.CrearProveedorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearProveedor(c.Request.Context(), req)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ActualizarProveedor godoc
// @Summary      Actualizar proveedor
// @Tags         compras
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del proveedor"
// @Param        body body dto.ActualizarProveedorRequest true "Campos a modificar"
// @Success      200  {object} dto.ProveedorResponse
// @Router       /v1/proveedores/{id} [patch]
func (h *ComprasHandler) ActualizarProveedor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarProveedorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarProveedor(c.Request.Context(), id, req)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListProveedores godoc
// @Summary      Listar proveedores
// @Tags         compras
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.ProveedorResponse
// @Router       /v1/proveedores [get]
func (h *ComprasHandler) ListProveedores(c *gin.Context) {
	page, limit := pageParams(c)
	items, total, err := h.svc.ListProveedores(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar proveedores"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items, "total": total, "pagina": page})
}

// RegistrarCompra godoc
// @Summary      Registrar compra a proveedor
// @Description  Registra la compra y sus líneas en una transacción: suma stock, crea los movimientos y opcionalmente actualiza el costo de cada producto.
// @Tags         compras
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearCompraRequest true "Proveedor y líneas"
// @Success      201  {object} dto.CompraResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/compras [post]
func (h *ComprasHandler) RegistrarCompra(c *gin.Context) {
	var req dto.CrearCompraRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.RegistrarCompra(c.Request.Context(), usuarioID, req)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// DetalleCompra godoc
// @Summary      Detalle de compra
// @Tags         compras
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la compra"
// @Success      200 {object} dto.CompraResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/compras/{id} [get]
func (h *ComprasHandler) DetalleCompra(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.DetalleCompra(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListCompras godoc
// @Summary      Listar compras
// @Tags         compras
// @Produce      json
// @Security     BearerAuth
// @Param        proveedor_id query string false "Filtrar por proveedor"
// @Success      200 {array} dto.CompraResponse
// @Router       /v1/compras [get]
func (h *ComprasHandler) ListCompras(c *gin.Context) {
	page, limit := pageParams(c)
	items, total, err := h.svc.ListCompras(c.Request.Context(), c.Query("proveedor_id"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar compras"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items, "total": total, "pagina": page})
}
