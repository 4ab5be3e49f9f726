package repository

import (
	"context"
	"time"

	"cantina/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FacturaRepository stores invoices produced for completed sales.
type FacturaRepository interface {
	Create(ctx context.Context, f *model.Factura) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Factura, error)
	FindByVentaID(ctx context.Context, ventaID uuid.UUID) (*model.Factura, error)
	Update(ctx context.Context, f *model.Factura) error
	List(ctx context.Context, estado string, page, limit int) ([]model.Factura, int64, error)

	// ListPendingRetries returns facturas in error whose backoff window has
	// elapsed, for the retry cron.
	ListPendingRetries(ctx context.Context, maxRetries, limit int) ([]model.Factura, error)

	NextNumeroFactura(ctx context.Context) (int64, error)
}

type facturaRepo struct{ db *gorm.DB }

func NewFacturaRepository(db *gorm.DB) FacturaRepository { return &facturaRepo{db: db} }

func (r *facturaRepo) Create(ctx context.Context, f *model.Factura) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *facturaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Factura, error) {
	var f model.Factura
	err := r.db.WithContext(ctx).Preload("Venta.Detalles.Producto").Preload("Venta.Pagos.MetodoPago").First(&f, id).Error
	return &f, err
}

func (r *facturaRepo) FindByVentaID(ctx context.Context, ventaID uuid.UUID) (*model.Factura, error) {
	var f model.Factura
	err := r.db.WithContext(ctx).Where("venta_id = ?", ventaID).First(&f).Error
	return &f, err
}

func (r *facturaRepo) Update(ctx context.Context, f *model.Factura) error {
	return r.db.WithContext(ctx).Save(f).Error
}

func (r *facturaRepo) List(ctx context.Context, estado string, page, limit int) ([]model.Factura, int64, error) {
	var facturas []model.Factura
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Factura{})
	if estado != "" && estado != "all" {
		q = q.Where("estado = ?", estado)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&facturas).Error
	return facturas, total, err
}

func (r *facturaRepo) ListPendingRetries(ctx context.Context, maxRetries, limit int) ([]model.Factura, error) {
	var facturas []model.Factura
	err := r.db.WithContext(ctx).
		Where("estado IN ('pendiente', 'error') AND retry_count < ? AND (next_retry_at IS NULL OR next_retry_at <= ?)",
			maxRetries, time.Now()).
		Order("created_at ASC").
		Limit(limit).
		Find(&facturas).Error
	return facturas, err
}

// NextNumeroFactura uses a PostgreSQL sequence so numbers never collide.
func (r *facturaRepo) NextNumeroFactura(ctx context.Context) (int64, error) {
	var num int64
	err := r.db.WithContext(ctx).Raw("SELECT nextval('facturas_numero_seq')").Scan(&num).Error
	return num, err
}
