package repository

import (
	"context"

	"cantina/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AlumnoRepository defines data access for parents and students.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type AlumnoRepository interface {
	CreatePadre(ctx context.Context, p *model.Padre) error
	FindPadreByID(ctx context.Context, id uuid.UUID) (*model.Padre, error)
	FindPadreByUsuarioID(ctx context.Context, usuarioID uuid.UUID) (*model.Padre, error)
	ListPadres(ctx context.Context, page, limit int) ([]model.Padre, int64, error)

	Create(ctx context.Context, a *model.Alumno) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Alumno, error)
	FindByTarjeta(ctx context.Context, numeroTarjeta string) (*model.Alumno, error)
	FindByPadreID(ctx context.Context, padreID uuid.UUID) ([]model.Alumno, error)
	List(ctx context.Context, page, limit int) ([]model.Alumno, int64, error)
	Update(ctx context.Context, a *model.Alumno) error
	ListAll(ctx context.Context) ([]model.Alumno, error)

	// Used inside transactions — callers must pass the tx instance.
	// FindByIDForUpdate takes a row lock so concurrent balance mutations
	// serialize on the student.
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Alumno, error)
	UpdateSaldoTx(tx *gorm.DB, id uuid.UUID, nuevoSaldo decimal.Decimal) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type alumnoRepo struct{ db *gorm.DB }

func NewAlumnoRepository(db *gorm.DB) AlumnoRepository { return &alumnoRepo{db: db} }

func (r *alumnoRepo) DB() *gorm.DB { return r.db }

func (r *alumnoRepo) CreatePadre(ctx context.Context, p *model.Padre) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *alumnoRepo) FindPadreByID(ctx context.Context, id uuid.UUID) (*model.Padre, error) {
	var p model.Padre
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *alumnoRepo) FindPadreByUsuarioID(ctx context.Context, usuarioID uuid.UUID) (*model.Padre, error) {
	var p model.Padre
	err := r.db.WithContext(ctx).Where("usuario_id = ?", usuarioID).First(&p).Error
	return &p, err
}

func (r *alumnoRepo) ListPadres(ctx context.Context, page, limit int) ([]model.Padre, int64, error) {
	var padres []model.Padre
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Padre{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := q.Order("apellido ASC, nombre ASC").Offset(offset).Limit(limit).Find(&padres).Error
	return padres, total, err
}

func (r *alumnoRepo) Create(ctx context.Context, a *model.Alumno) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *alumnoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Alumno, error) {
	var a model.Alumno
	err := r.db.WithContext(ctx).First(&a, id).Error
	return &a, err
}

func (r *alumnoRepo) FindByTarjeta(ctx context.Context, numeroTarjeta string) (*model.Alumno, error) {
	var a model.Alumno
	err := r.db.WithContext(ctx).Where("numero_tarjeta = ?", numeroTarjeta).First(&a).Error
	return &a, err
}

func (r *alumnoRepo) FindByPadreID(ctx context.Context, padreID uuid.UUID) ([]model.Alumno, error) {
	var alumnos []model.Alumno
	err := r.db.WithContext(ctx).Where("padre_id = ?", padreID).Order("apellido ASC").Find(&alumnos).Error
	return alumnos, err
}

func (r *alumnoRepo) List(ctx context.Context, page, limit int) ([]model.Alumno, int64, error) {
	var alumnos []model.Alumno
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Alumno{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := q.Order("apellido ASC, nombre ASC").Offset(offset).Limit(limit).Find(&alumnos).Error
	return alumnos, total, err
}

func (r *alumnoRepo) Update(ctx context.Context, a *model.Alumno) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *alumnoRepo) ListAll(ctx context.Context) ([]model.Alumno, error) {
	var alumnos []model.Alumno
	err := r.db.WithContext(ctx).Order("numero_tarjeta ASC").Find(&alumnos).Error
	return alumnos, err
}

func (r *alumnoRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Alumno, error) {
	var a model.Alumno
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&a, id).Error
	return &a, err
}

func (r *alumnoRepo) UpdateSaldoTx(tx *gorm.DB, id uuid.UUID, nuevoSaldo decimal.Decimal) error {
	return tx.Model(&model.Alumno{}).Where("id = ?", id).
		Update("saldo_tarjeta", nuevoSaldo).Error
}
