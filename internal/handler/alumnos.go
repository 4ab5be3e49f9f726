package handler

import (
	"net/http"
	"strconv"

	"cantina/internal/apierror"
	"cantina/internal/dto"
	"cantina/internal/middleware"
	"cantina/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AlumnosHandler struct{ svc service.AlumnoService }

func NewAlumnosHandler(svc service.AlumnoService) *AlumnosHandler {
	return &AlumnosHandler{svc: svc}
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("pagina", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limite", "50"))
	return page, limit
}

// CrearPadre godoc
// @Summary      Registrar padre
// @Tags         alumnos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearPadreRequest true "Datos del padre"
// @Success      201  {object} model.Padre
// @Failure      400  {object} apierror.APIError
// @Router       /v1/padres [post]
func (h *AlumnosHandler) CrearPadre(c *gin.Context) {
	var req dto.CrearPadreRequest
	if !bindAndValidate(c, &req) {
		return
	}
	padre, err := h.svc.CrearPadre(c.Request.Context(), req)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusCreated, padre)
}

// ListPadres godoc
// @Summary      Listar padres
// @Tags         alumnos
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} model.Padre
// @Router       /v1/padres [get]
func (h *AlumnosHandler) ListPadres(c *gin.Context) {
	page, limit := pageParams(c)
	padres, total, err := h.svc.ListPadres(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar padres"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": padres, "total": total, "pagina": page})
}

// Crear godoc
// @Summary      Registrar alumno
// @Description  Crea un alumno con su tarjeta prepaga asociada a un padre.
// @Tags         alumnos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearAlumnoRequest true "Datos del alumno"
// @Success      201  {object} dto.AlumnoResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/alumnos [post]
func (h *AlumnosHandler) Crear(c *gin.Context) {
	var req dto.CrearAlumnoRequest
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
// @Summary      Actualizar alumno
// @Description  Modifica datos del alumno. El saldo no es editable por esta vía.
// @Tags         alumnos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del alumno"
// @Param        body body dto.ActualizarAlumnoRequest true "Campos a modificar"
// @Success      200  {object} dto.AlumnoResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/alumnos/{id} [patch]
func (h *AlumnosHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarAlumnoRequest
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
// @Summary      Detalle de alumno
// @Tags         alumnos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del alumno"
// @Success      200 {object} dto.AlumnoResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/alumnos/{id} [get]
func (h *AlumnosHandler) Detalle(c *gin.Context) {
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
// @Summary      Listar alumnos
// @Tags         alumnos
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.AlumnoResponse
// @Router       /v1/alumnos [get]
func (h *AlumnosHandler) List(c *gin.Context) {
	page, limit := pageParams(c)
	alumnos, total, err := h.svc.List(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar alumnos"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": alumnos, "total": total, "pagina": page})
}

// MisAlumnos godoc
// @Summary      Alumnos del padre autenticado
// @Tags         alumnos
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.AlumnoResponse
// @Router       /v1/padres/mis-alumnos [get]
func (h *AlumnosHandler) MisAlumnos(c *gin.Context) {
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)
	alumnos, err := h.svc.MisAlumnos(c.Request.Context(), usuarioID)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, alumnos)
}
