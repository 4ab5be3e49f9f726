package tests

import (
	"context"
	"testing"
	"time"

	"cantina/internal/dto"
	"cantina/internal/middleware"
	"cantina/internal/model"
	"cantina/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const secretoPrueba = "secreto-de-prueba"

func buildAuthSvc() (service.AuthService, *stubUsuarioRepo) {
	repo := newStubUsuarioRepo()
	svc := service.NewAuthService(repo, secretoPrueba, 8, 24)
	return svc, repo
}

func seedUsuario(repo *stubUsuarioRepo, username, password, rol string) *model.Usuario {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := &model.Usuario{
		ID:           uuid.New(),
		Username:     username,
		Nombre:       "Cajero Uno",
		PasswordHash: string(hash),
		Rol:          rol,
		Activo:       true,
	}
	repo.usuarios[u.ID] = u
	return u
}

func parseClaims(t *testing.T, token string) *middleware.JWTClaims {
	t.Helper()
	claims := &middleware.JWTClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secretoPrueba), nil
	})
	require.NoError(t, err)
	return claims
}

func firmarToken(t *testing.T, u *model.Usuario, emitido time.Time, secreto string) string {
	t.Helper()
	claims := middleware.JWTClaims{
		UserID:   u.ID.String(),
		Username: u.Username,
		Rol:      u.Rol,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(emitido),
			ExpiresAt: jwt.NewNumericDate(emitido.Add(8 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secreto))
	require.NoError(t, err)
	return token
}

func TestLogin_EmiteTokenConRol(t *testing.T) {
	svc, repo := buildAuthSvc()
	seedUsuario(repo, "cajero1", "secreta123", "cajero")

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "cajero1", Password: "secreta123"})
	require.NoError(t, err)

	claims := parseClaims(t, resp.Token)
	assert.Equal(t, "cajero", claims.Rol)
	assert.Equal(t, "cajero1", claims.Username)
}

func TestLogin_PasswordIncorrecta(t *testing.T) {
	svc, repo := buildAuthSvc()
	seedUsuario(repo, "cajero1", "secreta123", "cajero")

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "cajero1", Password: "otra"})
	assert.ErrorIs(t, err, service.ErrCredencialesInvalidas)
}

func TestRefresh_EmiteTokenNuevo(t *testing.T) {
	svc, repo := buildAuthSvc()
	u := seedUsuario(repo, "cajero1", "secreta123", "cajero")

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "cajero1", Password: "secreta123"})
	require.NoError(t, err)

	resp, err := svc.Refresh(context.Background(), login.Token)
	require.NoError(t, err)

	claims := parseClaims(t, resp.Token)
	assert.Equal(t, u.ID.String(), claims.UserID)
	assert.Equal(t, "cajero", claims.Rol)
}

func TestRefresh_AceptaTokenExpiradoEnVentana(t *testing.T) {
	svc, repo := buildAuthSvc()
	u := seedUsuario(repo, "cajero1", "secreta123", "cajero")

	// Emitido hace 10 horas: el token de 8h ya venció, pero sigue dentro de
	// la ventana de renovación de 24h.
	viejo := firmarToken(t, u, time.Now().Add(-10*time.Hour), secretoPrueba)
	resp, err := svc.Refresh(context.Background(), viejo)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

func TestRefresh_FueraDeVentana(t *testing.T) {
	svc, repo := buildAuthSvc()
	u := seedUsuario(repo, "cajero1", "secreta123", "cajero")

	viejo := firmarToken(t, u, time.Now().Add(-48*time.Hour), secretoPrueba)
	_, err := svc.Refresh(context.Background(), viejo)
	assert.ErrorIs(t, err, service.ErrSesionExpirada)
}

func TestRefresh_FirmaInvalida(t *testing.T) {
	svc, repo := buildAuthSvc()
	u := seedUsuario(repo, "cajero1", "secreta123", "cajero")

	ajeno := firmarToken(t, u, time.Now(), "otro-secreto")
	_, err := svc.Refresh(context.Background(), ajeno)
	assert.ErrorIs(t, err, service.ErrSesionExpirada)
}

func TestRefresh_UsuarioInactivo(t *testing.T) {
	svc, repo := buildAuthSvc()
	u := seedUsuario(repo, "cajero1", "secreta123", "cajero")

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "cajero1", Password: "secreta123"})
	require.NoError(t, err)

	u.Activo = false
	_, err = svc.Refresh(context.Background(), login.Token)
	assert.ErrorIs(t, err, service.ErrSesionExpirada)
}
