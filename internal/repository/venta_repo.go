package repository

import (
	"context"

	"cantina/internal/dto"
	"cantina/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VentaRepository stores sales with their lines and payments.
type VentaRepository interface {
	Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	List(ctx context.Context, filter dto.ListVentasQuery) ([]model.Venta, int64, error)
	NextNumeroVenta(ctx context.Context, tx *gorm.DB) (int, error)

	CreateDetalleTx(tx *gorm.DB, d *model.DetalleVenta) error
	DeleteDetalleTx(tx *gorm.DB, id uuid.UUID) error
	CreatePagoTx(tx *gorm.DB, p *model.PagoVenta) error
	UpdateTx(tx *gorm.DB, v *model.Venta) error

	// Shift aggregates
	SumCompletadasByTurno(ctx context.Context, tx *gorm.DB, turnoID uuid.UUID) (decimal.Decimal, error)
	CountByTurno(ctx context.Context, turnoID uuid.UUID, estado string) (int64, error)
	ListByTurno(ctx context.Context, turnoID uuid.UUID) ([]model.Venta, error)

	DB() *gorm.DB
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

func (r *ventaRepo) Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error {
	return tx.WithContext(ctx).Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).
		Preload("Detalles.Producto").
		Preload("Pagos.MetodoPago").
		Preload("Alumno").
		First(&v, id).Error
	return &v, err
}

// NextNumeroVenta uses a PostgreSQL sequence for atomic sale numbering.
func (r *ventaRepo) NextNumeroVenta(ctx context.Context, tx *gorm.DB) (int, error) {
	var num int
	err := tx.WithContext(ctx).Raw("SELECT nextval('ventas_numero_venta_seq')").Scan(&num).Error
	return num, err
}

func (r *ventaRepo) List(ctx context.Context, filter dto.ListVentasQuery) ([]model.Venta, int64, error) {
	var ventas []model.Venta
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Venta{})

	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.CajeroID != "" {
		q = q.Where("cajero_id = ?", filter.CajeroID)
	}
	if filter.AlumnoID != "" {
		q = q.Where("alumno_id = ?", filter.AlumnoID)
	}
	if filter.Desde != "" {
		q = q.Where("DATE(created_at) >= ?", filter.Desde)
	}
	if filter.Hasta != "" {
		q = q.Where("DATE(created_at) <= ?", filter.Hasta)
	}
	if filter.Desde == "" && filter.Hasta == "" {
		// Default: today
		q = q.Where("DATE(created_at) = CURRENT_DATE")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Pagina - 1) * filter.Limite
	err := q.Preload("Detalles.Producto").Preload("Pagos.MetodoPago").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limite).
		Find(&ventas).Error
	return ventas, total, err
}

func (r *ventaRepo) CreateDetalleTx(tx *gorm.DB, d *model.DetalleVenta) error {
	return tx.Create(d).Error
}

func (r *ventaRepo) DeleteDetalleTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.DetalleVenta{}, id).Error
}

func (r *ventaRepo) CreatePagoTx(tx *gorm.DB, p *model.PagoVenta) error {
	return tx.Create(p).Error
}

func (r *ventaRepo) UpdateTx(tx *gorm.DB, v *model.Venta) error {
	return tx.Save(v).Error
}

func (r *ventaRepo) SumCompletadasByTurno(ctx context.Context, tx *gorm.DB, turnoID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := tx.WithContext(ctx).Model(&model.Venta{}).
		Select("COALESCE(SUM(total), 0)").
		Where("turno_id = ? AND estado = 'completada'", turnoID).
		Scan(&sum).Error
	if err != nil || !sum.Valid {
		return decimal.Zero, err
	}
	return sum.Decimal, nil
}

func (r *ventaRepo) ListByTurno(ctx context.Context, turnoID uuid.UUID) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).
		Preload("Pagos.MetodoPago").
		Where("turno_id = ?", turnoID).
		Order("created_at ASC").
		Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) CountByTurno(ctx context.Context, turnoID uuid.UUID, estado string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Venta{}).
		Where("turno_id = ? AND estado = ?", turnoID, estado).
		Count(&count).Error
	return count, err
}
