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

type ProductosHandler struct{ svc service.ProductoService }

func NewProductosHandler(svc service.ProductoService) *ProductosHandler {
	return &ProductosHandler{svc: svc}
}

// Crear godoc
// @Summary      Crear producto
// @Tags         productos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearProductoRequest true "Datos del producto"
// @Success      201  {object} dto.ProductoResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/productos [post]
func (h *ProductosHandler) Crear(c *gin.Context) {
	var req dto.CrearProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Actualizar godoc
// @Summary      Actualizar producto
// @Description  Modifica los datos del producto. El stock sólo cambia por ventas, compras o ajustes.
// @Tags         productos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del producto"
// @Param        body body dto.ActualizarProductoRequest true "Campos a modificar"
// @Success      200  {object} dto.ProductoResponse
// @Router       /v1/productos/{id} [patch]
func (h *ProductosHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Detalle godoc
// @Summary      Detalle de producto
// @Tags         productos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del producto"
// @Success      200 {object} dto.ProductoResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/productos/{id} [get]
func (h *ProductosHandler) Detalle(c *gin.Context) {
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
// @Summary      Listar productos
// @Tags         productos
// @Produce      json
// @Security     BearerAuth
// @Param        nombre query string false "Búsqueda por nombre"
// @Param        estado query string false "activo | inactivo | all"
// @Success      200 {array} dto.ProductoResponse
// @Router       /v1/productos [get]
func (h *ProductosHandler) List(c *gin.Context) {
	page, limit := pageParams(c)
	items, total, err := h.svc.List(c.Request.Context(), c.Query("nombre"), c.Query("estado"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar productos"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items, "total": total, "pagina": page})
}

// AjustarStock godoc
// @Summary      Ajuste manual de stock
// @Description  Aplica un ajuste con cantidad firmada bajo bloqueo de fila y registra el movimiento. Sólo administradores.
// @Tags         productos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del producto"
// @Param        body body dto.AjusteStockRequest true "Cantidad firmada y motivo"
// @Success      200  {object} dto.ProductoResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/productos/{id}/ajuste-stock [post]
func (h *ProductosHandler) AjustarStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.AjusteStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	adminID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.AjustarStock(c.Request.Context(), id, adminID, req)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Movimientos godoc
// @Summary      Movimientos de stock de un producto
// @Tags         productos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del producto"
// @Success      200 {array} dto.MovimientoStockResponse
// @Router       /v1/productos/{id}/movimientos [get]
func (h *ProductosHandler) Movimientos(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	page, limit := pageParams(c)
	items, total, err := h.svc.Movimientos(c.Request.Context(), id, page, limit)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items, "total": total, "pagina": page})
}

// StockBajo godoc
// @Summary      Productos con stock en o bajo el mínimo
// @Tags         productos
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.StockBajoResponse
// @Router       /v1/productos/stock-bajo [get]
func (h *ProductosHandler) StockBajo(c *gin.Context) {
	resp, err := h.svc.StockBajo(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al consultar stock"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CrearCategoria godoc
// @Summary      Crear categoría
// @Tags         productos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearCategoriaRequest true "Nombre de la categoría"
// @Success      201  {object} model.Categoria
// @Router       /v1/categorias [post]
func (h *ProductosHandler) CrearCategoria(c *gin.Context) {
	var req dto.CrearCategoriaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	cat, err := h.svc.CrearCategoria(c.Request.Context(), req)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

// ListCategorias godoc
// @Summary      Listar categorías
// @Tags         productos
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} model.Categoria
// @Router       /v1/categorias [get]
func (h *ProductosHandler) ListCategorias(c *gin.Context) {
	cats, err := h.svc.ListCategorias(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar categorias"))
		return
	}
	c.JSON(http.StatusOK, cats)
}
