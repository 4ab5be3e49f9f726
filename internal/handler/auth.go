package handler

import (
	"net/http"
	"strings"

	"cantina/internal/apierror"
	"cantina/internal/dto"
	"cantina/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login godoc
// @Summary      Iniciar sesión
// @Description  Valida credenciales y retorna un JWT con el rol del usuario.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body dto.LoginRequest true "Credenciales"
// @Success      200  {object} dto.LoginResponse
// @Failure      401  {object} apierror.APIError
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh godoc
// @Summary      Renovar token
// @Description  Emite un JWT nuevo a partir del token actual, incluso si acaba de expirar.
// @Tags         auth
// @Produce      json
// @Param        Authorization header string true "Bearer {token}"
// @Success      200  {object} dto.LoginResponse
// @Failure      401  {object} apierror.APIError
// @Router       /v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		c.JSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
		return
	}
	resp, err := h.svc.Refresh(c.Request.Context(), strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegistrarUsuario godoc
// @Summary      Crear usuario del sistema
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegistrarUsuarioRequest true "Datos del usuario"
// @Success      201  {object} map[string]string
// @Failure      400  {object} apierror.APIError
// @Router       /v1/auth/usuarios [post]
func (h *AuthHandler) RegistrarUsuario(c *gin.Context) {
	var req dto.RegistrarUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	usuario, err := h.svc.RegistrarUsuario(c.Request.Context(), req)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":       usuario.ID.String(),
		"username": usuario.Username,
		"rol":      usuario.Rol,
	})
}
