package service

import (
	"context"
	"errors"
	"time"

	"cantina/internal/dto"
	"cantina/internal/middleware"
	"cantina/internal/model"
	"cantina/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrCredencialesInvalidas = errors.New("usuario o contraseña incorrectos")
	ErrSesionExpirada        = errors.New("la sesión expiró, inicie sesión nuevamente")
)

// AuthService issues JWTs and manages system users.
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, tokenStr string) (*dto.LoginResponse, error)
	RegistrarUsuario(ctx context.Context, req dto.RegistrarUsuarioRequest) (*model.Usuario, error)
}

type authService struct {
	repo         repository.UsuarioRepository
	jwtSecret    string
	jwtHoras     int
	refreshHoras int
}

func NewAuthService(repo repository.UsuarioRepository, jwtSecret string, jwtHoras, refreshHoras int) AuthService {
	return &authService{repo: repo, jwtSecret: jwtSecret, jwtHoras: jwtHoras, refreshHoras: refreshHoras}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	usuario, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		// Same error for unknown user and bad password.
		return nil, ErrCredencialesInvalidas
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usuario.PasswordHash), []byte(req.Password)); err != nil {
		log.Warn().Str("username", req.Username).Msg("intento de login fallido")
		return nil, ErrCredencialesInvalidas
	}

	signed, err := s.emitirToken(usuario)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token:    signed,
		UserID:   usuario.ID.String(),
		Username: usuario.Username,
		Nombre:   usuario.Nombre,
		Rol:      usuario.Rol,
	}, nil
}

// Refresh reissues a token. The signature must always verify; an expired token
// is accepted while its issue time is still inside the refresh window.
func (s *authService) Refresh(ctx context.Context, tokenStr string) (*dto.LoginResponse, error) {
	claims := &middleware.JWTClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, ErrSesionExpirada
	}
	if claims.IssuedAt == nil || time.Since(claims.IssuedAt.Time) > time.Duration(s.refreshHoras)*time.Hour {
		return nil, ErrSesionExpirada
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrSesionExpirada
	}
	usuario, err := s.repo.FindByID(ctx, userID)
	if err != nil || !usuario.Activo {
		return nil, ErrSesionExpirada
	}

	signed, err := s.emitirToken(usuario)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token:    signed,
		UserID:   usuario.ID.String(),
		Username: usuario.Username,
		Nombre:   usuario.Nombre,
		Rol:      usuario.Rol,
	}, nil
}

func (s *authService) emitirToken(usuario *model.Usuario) (string, error) {
	claims := middleware.JWTClaims{
		UserID:   usuario.ID.String(),
		Username: usuario.Username,
		Rol:      usuario.Rol,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(s.jwtHoras) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) RegistrarUsuario(ctx context.Context, req dto.RegistrarUsuarioRequest) (*model.Usuario, error) {
	if _, err := s.repo.FindByUsername(ctx, req.Username); err == nil {
		return nil, errors.New("el nombre de usuario ya existe")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	usuario := &model.Usuario{
		Username:     req.Username,
		Nombre:       req.Nombre,
		PasswordHash: string(hash),
		Rol:          req.Rol,
		Activo:       true,
	}
	if req.Email != "" {
		usuario.Email = &req.Email
	}

	if err := s.repo.Create(ctx, usuario); err != nil {
		return nil, err
	}
	return usuario, nil
}
