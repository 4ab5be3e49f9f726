package repository

import (
	"context"

	"cantina/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SolicitudRepository stores recharge requests.
type SolicitudRepository interface {
	Create(ctx context.Context, s *model.SolicitudRecarga) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SolicitudRecarga, error)
	List(ctx context.Context, estado string, page, limit int) ([]model.SolicitudRecarga, int64, error)
	FindByPadreID(ctx context.Context, padreID uuid.UUID, page, limit int) ([]model.SolicitudRecarga, int64, error)

	// FindByIDForUpdate locks the row so two admins cannot approve the same
	// request concurrently.
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.SolicitudRecarga, error)
	UpdateTx(tx *gorm.DB, s *model.SolicitudRecarga) error

	DB() *gorm.DB
}

type solicitudRepo struct{ db *gorm.DB }

func NewSolicitudRepository(db *gorm.DB) SolicitudRepository { return &solicitudRepo{db: db} }

func (r *solicitudRepo) DB() *gorm.DB { return r.db }

func (r *solicitudRepo) Create(ctx context.Context, s *model.SolicitudRecarga) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *solicitudRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.SolicitudRecarga, error) {
	var s model.SolicitudRecarga
	err := r.db.WithContext(ctx).Preload("Alumno").Preload("Padre").First(&s, id).Error
	return &s, err
}

func (r *solicitudRepo) List(ctx context.Context, estado string, page, limit int) ([]model.SolicitudRecarga, int64, error) {
	var solicitudes []model.SolicitudRecarga
	var total int64

	q := r.db.WithContext(ctx).Model(&model.SolicitudRecarga{})
	if estado != "" && estado != "all" {
		q = q.Where("estado = ?", estado)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := q.Preload("Alumno").
		Order("fecha_solicitud DESC").
		Offset(offset).Limit(limit).
		Find(&solicitudes).Error
	return solicitudes, total, err
}

func (r *solicitudRepo) FindByPadreID(ctx context.Context, padreID uuid.UUID, page, limit int) ([]model.SolicitudRecarga, int64, error) {
	var solicitudes []model.SolicitudRecarga
	var total int64

	q := r.db.WithContext(ctx).Model(&model.SolicitudRecarga{}).Where("padre_id = ?", padreID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := q.Preload("Alumno").
		Order("fecha_solicitud DESC").
		Offset(offset).Limit(limit).
		Find(&solicitudes).Error
	return solicitudes, total, err
}

func (r *solicitudRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.SolicitudRecarga, error) {
	var s model.SolicitudRecarga
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&s, id).Error
	return &s, err
}

func (r *solicitudRepo) UpdateTx(tx *gorm.DB, s *model.SolicitudRecarga) error {
	return tx.Save(s).Error
}
