package repository

import (
	"context"

	"cantina/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransaccionRepository is the append-only card ledger. There is deliberately
// no Update or Delete: corrections are new rows.
type TransaccionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, t *model.Transaccion) error
	FindByAlumnoID(ctx context.Context, alumnoID uuid.UUID, page, limit int) ([]model.Transaccion, int64, error)

	// SumConsumoDelDia totals today's "consumo" debits for the daily-limit
	// check. The result is returned as a positive magnitude.
	SumConsumoDelDia(ctx context.Context, tx *gorm.DB, alumnoID uuid.UUID) (decimal.Decimal, error)

	// SumByAlumno totals every signed monto for reconciliation against the
	// materialized saldo_tarjeta.
	SumByAlumno(ctx context.Context, alumnoID uuid.UUID) (decimal.Decimal, error)

	SumByTipoAndDate(ctx context.Context, tipo, fecha string) (decimal.Decimal, error)
}

type transaccionRepo struct{ db *gorm.DB }

func NewTransaccionRepository(db *gorm.DB) TransaccionRepository { return &transaccionRepo{db: db} }

func (r *transaccionRepo) Create(ctx context.Context, tx *gorm.DB, t *model.Transaccion) error {
	return tx.WithContext(ctx).Create(t).Error
}

func (r *transaccionRepo) FindByAlumnoID(ctx context.Context, alumnoID uuid.UUID, page, limit int) ([]model.Transaccion, int64, error) {
	var trans []model.Transaccion
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Transaccion{}).Where("alumno_id = ?", alumnoID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&trans).Error
	return trans, total, err
}

func (r *transaccionRepo) SumConsumoDelDia(ctx context.Context, tx *gorm.DB, alumnoID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := tx.WithContext(ctx).Model(&model.Transaccion{}).
		Select("COALESCE(SUM(-monto), 0)").
		Where("alumno_id = ? AND tipo = 'consumo' AND DATE(created_at) = CURRENT_DATE", alumnoID).
		Scan(&sum).Error
	if err != nil || !sum.Valid {
		return decimal.Zero, err
	}
	return sum.Decimal, nil
}

func (r *transaccionRepo) SumByAlumno(ctx context.Context, alumnoID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&model.Transaccion{}).
		Select("COALESCE(SUM(monto), 0)").
		Where("alumno_id = ?", alumnoID).
		Scan(&sum).Error
	if err != nil || !sum.Valid {
		return decimal.Zero, err
	}
	return sum.Decimal, nil
}

func (r *transaccionRepo) SumByTipoAndDate(ctx context.Context, tipo, fecha string) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&model.Transaccion{}).
		Select("COALESCE(SUM(monto), 0)").
		Where("tipo = ? AND DATE(created_at) = ?", tipo, fecha).
		Scan(&sum).Error
	if err != nil || !sum.Valid {
		return decimal.Zero, err
	}
	return sum.Decimal, nil
}
