package repository

import (
	"context"

	"cantina/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MetodoPagoRepository stores the configurable payment methods.
type MetodoPagoRepository interface {
	Create(ctx context.Context, m *model.MetodoPago) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.MetodoPago, error)
	FindByTipo(ctx context.Context, tipo string) (*model.MetodoPago, error)
	ListActivos(ctx context.Context) ([]model.MetodoPago, error)
	Update(ctx context.Context, m *model.MetodoPago) error
}

type metodoPagoRepo struct{ db *gorm.DB }

func NewMetodoPagoRepository(db *gorm.DB) MetodoPagoRepository { return &metodoPagoRepo{db: db} }

func (r *metodoPagoRepo) Create(ctx context.Context, m *model.MetodoPago) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *metodoPagoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.MetodoPago, error) {
	var m model.MetodoPago
	err := r.db.WithContext(ctx).First(&m, id).Error
	return &m, err
}

func (r *metodoPagoRepo) FindByTipo(ctx context.Context, tipo string) (*model.MetodoPago, error) {
	var m model.MetodoPago
	err := r.db.WithContext(ctx).Where("tipo = ? AND activo = true", tipo).First(&m).Error
	return &m, err
}

func (r *metodoPagoRepo) ListActivos(ctx context.Context) ([]model.MetodoPago, error) {
	var metodos []model.MetodoPago
	err := r.db.WithContext(ctx).Where("activo = true").Order("nombre ASC").Find(&metodos).Error
	return metodos, err
}

func (r *metodoPagoRepo) Update(ctx context.Context, m *model.MetodoPago) error {
	return r.db.WithContext(ctx).Save(m).Error
}
