package repository

import (
	"context"

	"cantina/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TurnoRepository stores registers and cashier shifts.
type TurnoRepository interface {
	CreateCaja(ctx context.Context, c *model.Caja) error
	FindCajaByID(ctx context.Context, id uuid.UUID) (*model.Caja, error)
	ListCajas(ctx context.Context) ([]model.Caja, error)

	Create(ctx context.Context, t *model.TurnoCajero) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.TurnoCajero, error)
	FindActivoByCaja(ctx context.Context, cajaID uuid.UUID) (*model.TurnoCajero, error)
	FindActivoByCajero(ctx context.Context, cajeroID uuid.UUID) (*model.TurnoCajero, error)
	List(ctx context.Context, cajeroID string, page, limit int) ([]model.TurnoCajero, int64, error)

	// FindByIDForUpdate locks the shift row during close so a concurrent
	// close or sale sees a consistent state.
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.TurnoCajero, error)
	UpdateTx(tx *gorm.DB, t *model.TurnoCajero) error

	DB() *gorm.DB
}

type turnoRepo struct{ db *gorm.DB }

func NewTurnoRepository(db *gorm.DB) TurnoRepository { return &turnoRepo{db: db} }

func (r *turnoRepo) DB() *gorm.DB { return r.db }

func (r *turnoRepo) CreateCaja(ctx context.Context, c *model.Caja) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *turnoRepo) FindCajaByID(ctx context.Context, id uuid.UUID) (*model.Caja, error) {
	var c model.Caja
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *turnoRepo) ListCajas(ctx context.Context) ([]model.Caja, error) {
	var cajas []model.Caja
	err := r.db.WithContext(ctx).Order("numero ASC").Find(&cajas).Error
	return cajas, err
}

func (r *turnoRepo) Create(ctx context.Context, t *model.TurnoCajero) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *turnoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.TurnoCajero, error) {
	var t model.TurnoCajero
	err := r.db.WithContext(ctx).Preload("Caja").Preload("Cajero").First(&t, id).Error
	return &t, err
}

func (r *turnoRepo) FindActivoByCaja(ctx context.Context, cajaID uuid.UUID) (*model.TurnoCajero, error) {
	var t model.TurnoCajero
	err := r.db.WithContext(ctx).Where("caja_id = ? AND activa = true", cajaID).First(&t).Error
	return &t, err
}

func (r *turnoRepo) FindActivoByCajero(ctx context.Context, cajeroID uuid.UUID) (*model.TurnoCajero, error) {
	var t model.TurnoCajero
	err := r.db.WithContext(ctx).Preload("Caja").Where("cajero_id = ? AND activa = true", cajeroID).First(&t).Error
	return &t, err
}

func (r *turnoRepo) List(ctx context.Context, cajeroID string, page, limit int) ([]model.TurnoCajero, int64, error) {
	var turnos []model.TurnoCajero
	var total int64

	q := r.db.WithContext(ctx).Model(&model.TurnoCajero{})
	if cajeroID != "" {
		q = q.Where("cajero_id = ?", cajeroID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := q.Preload("Caja").Preload("Cajero").
		Order("fecha_inicio DESC").
		Offset(offset).Limit(limit).
		Find(&turnos).Error
	return turnos, total, err
}

func (r *turnoRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.TurnoCajero, error) {
	var t model.TurnoCajero
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&t, id).Error
	return &t, err
}

func (r *turnoRepo) UpdateTx(tx *gorm.DB, t *model.TurnoCajero) error {
	return tx.Save(t).Error
}
