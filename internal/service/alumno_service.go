package service

import (
	"context"
	"errors"

	"cantina/internal/dto"
	"cantina/internal/model"
	"cantina/internal/repository"

	"github.com/google/uuid"
)

// AlumnoService manages parents and students. Balance is read-only here; it
// moves only through SaldoService.
type AlumnoService interface {
	CrearPadre(ctx context.Context, req dto.CrearPadreRequest) (*model.Padre, error)
	ListPadres(ctx context.Context, page, limit int) ([]model.Padre, int64, error)

	Crear(ctx context.Context, req dto.CrearAlumnoRequest) (*dto.AlumnoResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarAlumnoRequest) (*dto.AlumnoResponse, error)
	Detalle(ctx context.Context, id uuid.UUID) (*dto.AlumnoResponse, error)
	List(ctx context.Context, page, limit int) ([]dto.AlumnoResponse, int64, error)
	MisAlumnos(ctx context.Context, padreUsuarioID uuid.UUID) ([]dto.AlumnoResponse, error)
}

type alumnoService struct {
	repo repository.AlumnoRepository
}

func NewAlumnoService(repo repository.AlumnoRepository) AlumnoService {
	return &alumnoService{repo: repo}
}

func (s *alumnoService) CrearPadre(ctx context.Context, req dto.CrearPadreRequest) (*model.Padre, error) {
	p := &model.Padre{
		Nombre:   req.Nombre,
		Apellido: req.Apellido,
		Email:    req.Email,
	}
	if req.UsuarioID != "" {
		usuarioID, err := uuid.Parse(req.UsuarioID)
		if err != nil {
			return nil, errors.New("usuario_id inválido")
		}
		p.UsuarioID = usuarioID
	}
	if req.Telefono != "" {
		p.Telefono = &req.Telefono
	}
	if req.RazonSocial != "" {
		p.RazonSocial = &req.RazonSocial
	}
	if req.RUC != "" {
		p.RUC = &req.RUC
	}

	if err := s.repo.CreatePadre(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *alumnoService) ListPadres(ctx context.Context, page, limit int) ([]model.Padre, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	return s.repo.ListPadres(ctx, page, limit)
}

func (s *alumnoService) Crear(ctx context.Context, req dto.CrearAlumnoRequest) (*dto.AlumnoResponse, error) {
	padreID, err := uuid.Parse(req.PadreID)
	if err != nil {
		return nil, errors.New("padre_id inválido")
	}
	if _, err := s.repo.FindPadreByID(ctx, padreID); err != nil {
		return nil, errors.New("padre no encontrado")
	}
	if _, err := s.repo.FindByTarjeta(ctx, req.NumeroTarjeta); err == nil {
		return nil, errors.New("el número de tarjeta ya está asignado")
	}

	a := &model.Alumno{
		PadreID:       padreID,
		Nombre:        req.Nombre,
		Apellido:      req.Apellido,
		NumeroTarjeta: req.NumeroTarjeta,
		Estado:        "activo",
	}
	if req.Grado != "" {
		a.Grado = &req.Grado
	}
	if req.LimiteConsumo != nil {
		if req.LimiteConsumo.IsNegative() {
			return nil, errors.New("el límite de consumo no puede ser negativo")
		}
		a.LimiteConsumo = *req.LimiteConsumo
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return alumnoToResponse(a), nil
}

func (s *alumnoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarAlumnoRequest) (*dto.AlumnoResponse, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("alumno no encontrado")
	}

	if req.Nombre != nil {
		a.Nombre = *req.Nombre
	}
	if req.Apellido != nil {
		a.Apellido = *req.Apellido
	}
	if req.NumeroTarjeta != nil && *req.NumeroTarjeta != a.NumeroTarjeta {
		if _, err := s.repo.FindByTarjeta(ctx, *req.NumeroTarjeta); err == nil {
			return nil, errors.New("el número de tarjeta ya está asignado")
		}
		a.NumeroTarjeta = *req.NumeroTarjeta
	}
	if req.Grado != nil {
		a.Grado = req.Grado
	}
	if req.LimiteConsumo != nil {
		if req.LimiteConsumo.IsNegative() {
			return nil, errors.New("el límite de consumo no puede ser negativo")
		}
		a.LimiteConsumo = *req.LimiteConsumo
	}
	if req.Estado != nil {
		a.Estado = *req.Estado
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return alumnoToResponse(a), nil
}

func (s *alumnoService) Detalle(ctx context.Context, id uuid.UUID) (*dto.AlumnoResponse, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("alumno no encontrado")
	}
	return alumnoToResponse(a), nil
}

func (s *alumnoService) List(ctx context.Context, page, limit int) ([]dto.AlumnoResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	alumnos, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	items := make([]dto.AlumnoResponse, 0, len(alumnos))
	for i := range alumnos {
		items = append(items, *alumnoToResponse(&alumnos[i]))
	}
	return items, total, nil
}

func (s *alumnoService) MisAlumnos(ctx context.Context, padreUsuarioID uuid.UUID) ([]dto.AlumnoResponse, error) {
	padre, err := s.repo.FindPadreByUsuarioID(ctx, padreUsuarioID)
	if err != nil {
		return nil, errors.New("padre no registrado")
	}
	alumnos, err := s.repo.FindByPadreID(ctx, padre.ID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AlumnoResponse, 0, len(alumnos))
	for i := range alumnos {
		items = append(items, *alumnoToResponse(&alumnos[i]))
	}
	return items, nil
}

func alumnoToResponse(a *model.Alumno) *dto.AlumnoResponse {
	resp := &dto.AlumnoResponse{
		ID:            a.ID.String(),
		PadreID:       a.PadreID.String(),
		Nombre:        a.Nombre,
		Apellido:      a.Apellido,
		NumeroTarjeta: a.NumeroTarjeta,
		SaldoTarjeta:  a.SaldoTarjeta,
		LimiteConsumo: a.LimiteConsumo,
		Estado:        a.Estado,
	}
	if a.Grado != nil {
		resp.Grado = *a.Grado
	}
	return resp
}
