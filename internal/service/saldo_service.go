package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cantina/internal/dto"
	"cantina/internal/model"
	"cantina/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sentinel errors for the card ledger. Handlers map these to HTTP statuses.
var (
	ErrMontoInvalido        = errors.New("el monto debe ser mayor a cero")
	ErrAlumnoInactivo       = errors.New("el alumno está inactivo")
	ErrSaldoInsuficiente    = errors.New("saldo insuficiente")
	ErrLimiteDiarioExcedido = errors.New("límite de consumo diario excedido")
)

// SaldoService owns every mutation of the student prepaid-card balance.
// All writes go through mutarSaldo, which locks the student row, appends an
// immutable Transaccion with before/after snapshots, and updates the
// materialized saldo — in one transaction.
type SaldoService interface {
	CargarSaldo(ctx context.Context, alumnoID uuid.UUID, monto decimal.Decimal, desc string, solicitudID, registradoPor *uuid.UUID) (*model.Transaccion, error)
	ConsumirSaldo(ctx context.Context, alumnoID uuid.UUID, monto decimal.Decimal, desc string, ventaID *uuid.UUID) (*model.Transaccion, error)
	AjustarSaldo(ctx context.Context, alumnoID uuid.UUID, monto decimal.Decimal, desc string, registradoPor uuid.UUID) (*model.Transaccion, error)
	DevolverSaldo(ctx context.Context, alumnoID uuid.UUID, monto decimal.Decimal, desc string, ventaID *uuid.UUID) (*model.Transaccion, error)

	// Tx variants compose into a caller-owned transaction (venta, recarga).
	ConsumirSaldoTx(ctx context.Context, tx *gorm.DB, alumnoID uuid.UUID, monto decimal.Decimal, desc string, ventaID *uuid.UUID) (*model.Transaccion, error)
	CargarSaldoTx(ctx context.Context, tx *gorm.DB, alumnoID uuid.UUID, monto decimal.Decimal, desc string, solicitudID, registradoPor *uuid.UUID) (*model.Transaccion, error)
	DevolverSaldoTx(ctx context.Context, tx *gorm.DB, alumnoID uuid.UUID, monto decimal.Decimal, desc string, ventaID *uuid.UUID) (*model.Transaccion, error)

	ConsultarPorTarjeta(ctx context.Context, numeroTarjeta string) (*dto.SaldoTarjetaResponse, error)
	Historial(ctx context.Context, alumnoID uuid.UUID, page, limit int) (*dto.HistorialSaldoResponse, error)

	// InvalidarTarjeta drops the cached card lookup. Callers that compose the
	// Tx variants into their own transaction must call it after commit; doing
	// it earlier lets a concurrent lookup re-cache the stale balance.
	InvalidarTarjeta(ctx context.Context, numeroTarjeta string)

	// Reconciliar compares every student's materialized balance against the
	// sum of their ledger and reports discrepancies. Read-only.
	Reconciliar(ctx context.Context) (*dto.ReconciliacionResponse, error)
}

type saldoService struct {
	alumnoRepo      repository.AlumnoRepository
	transaccionRepo repository.TransaccionRepository
	rdb             *redis.Client
	limiteEstricto  bool
}

func NewSaldoService(
	alumnoRepo repository.AlumnoRepository,
	transaccionRepo repository.TransaccionRepository,
	rdb *redis.Client,
	limiteEstricto bool,
) SaldoService {
	return &saldoService{
		alumnoRepo:      alumnoRepo,
		transaccionRepo: transaccionRepo,
		rdb:             rdb,
		limiteEstricto:  limiteEstricto,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

const saldoCacheTTL = 30 * time.Second

func saldoCacheKey(numeroTarjeta string) string { return "saldo:tarjeta:" + numeroTarjeta }

// mutarSaldo is the single balance-mutation primitive. monto is the signed
// delta; tipo categorizes the entry. The student row is locked for the whole
// check-and-write so concurrent mutations serialize.
func (s *saldoService) mutarSaldo(
	ctx context.Context,
	tx *gorm.DB,
	alumnoID uuid.UUID,
	tipo string,
	monto decimal.Decimal,
	desc string,
	solicitudID, ventaID, registradoPor *uuid.UUID,
) (*model.Transaccion, error) {
	alumno, err := s.alumnoRepo.FindByIDForUpdate(ctx, tx, alumnoID)
	if err != nil {
		return nil, fmt.Errorf("alumno no encontrado: %w", err)
	}
	if alumno.Estado != "activo" {
		return nil, ErrAlumnoInactivo
	}

	saldoAnterior := alumno.SaldoTarjeta
	saldoPosterior := saldoAnterior.Add(monto)

	if saldoPosterior.IsNegative() {
		return nil, ErrSaldoInsuficiente
	}

	// Daily cap applies only to consumos, and only when the alumno has one.
	if tipo == "consumo" && alumno.LimiteConsumo.IsPositive() && s.limiteEstricto {
		consumoHoy, err := s.transaccionRepo.SumConsumoDelDia(ctx, tx, alumnoID)
		if err != nil {
			return nil, err
		}
		if consumoHoy.Add(monto.Neg()).GreaterThan(alumno.LimiteConsumo) {
			return nil, ErrLimiteDiarioExcedido
		}
	}

	t := &model.Transaccion{
		AlumnoID:       alumnoID,
		Tipo:           tipo,
		Monto:          monto,
		SaldoAnterior:  saldoAnterior,
		SaldoPosterior: saldoPosterior,
		Descripcion:    desc,
		SolicitudID:    solicitudID,
		VentaID:        ventaID,
		RegistradoPor:  registradoPor,
	}
	if err := s.transaccionRepo.Create(ctx, tx, t); err != nil {
		return nil, err
	}
	if err := s.alumnoRepo.UpdateSaldoTx(tx, alumnoID, saldoPosterior); err != nil {
		return nil, err
	}

	t.Alumno = alumno
	return t, nil
}

func (s *saldoService) InvalidarTarjeta(ctx context.Context, numeroTarjeta string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, saldoCacheKey(numeroTarjeta)).Err(); err != nil {
		log.Warn().Err(err).Str("tarjeta", numeroTarjeta).Msg("no se pudo invalidar cache de saldo")
	}
}

// ── Credits ───────────────────────────────────────────────────────────────────

func (s *saldoService) CargarSaldo(ctx context.Context, alumnoID uuid.UUID, monto decimal.Decimal, desc string, solicitudID, registradoPor *uuid.UUID) (*model.Transaccion, error) {
	var t *model.Transaccion
	err := runTx(ctx, s.alumnoRepo.DB(), func(tx *gorm.DB) error {
		var err error
		t, err = s.CargarSaldoTx(ctx, tx, alumnoID, monto, desc, solicitudID, registradoPor)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.InvalidarTarjeta(ctx, t.Alumno.NumeroTarjeta)
	return t, nil
}

func (s *saldoService) CargarSaldoTx(ctx context.Context, tx *gorm.DB, alumnoID uuid.UUID, monto decimal.Decimal, desc string, solicitudID, registradoPor *uuid.UUID) (*model.Transaccion, error) {
	if !monto.IsPositive() {
		return nil, ErrMontoInvalido
	}
	return s.mutarSaldo(ctx, tx, alumnoID, "recarga", monto, desc, solicitudID, nil, registradoPor)
}

func (s *saldoService) DevolverSaldo(ctx context.Context, alumnoID uuid.UUID, monto decimal.Decimal, desc string, ventaID *uuid.UUID) (*model.Transaccion, error) {
	var t *model.Transaccion
	err := runTx(ctx, s.alumnoRepo.DB(), func(tx *gorm.DB) error {
		var err error
		t, err = s.DevolverSaldoTx(ctx, tx, alumnoID, monto, desc, ventaID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.InvalidarTarjeta(ctx, t.Alumno.NumeroTarjeta)
	return t, nil
}

func (s *saldoService) DevolverSaldoTx(ctx context.Context, tx *gorm.DB, alumnoID uuid.UUID, monto decimal.Decimal, desc string, ventaID *uuid.UUID) (*model.Transaccion, error) {
	if !monto.IsPositive() {
		return nil, ErrMontoInvalido
	}
	return s.mutarSaldo(ctx, tx, alumnoID, "devolucion", monto, desc, nil, ventaID, nil)
}

// ── Debits ────────────────────────────────────────────────────────────────────

func (s *saldoService) ConsumirSaldo(ctx context.Context, alumnoID uuid.UUID, monto decimal.Decimal, desc string, ventaID *uuid.UUID) (*model.Transaccion, error) {
	var t *model.Transaccion
	err := runTx(ctx, s.alumnoRepo.DB(), func(tx *gorm.DB) error {
		var err error
		t, err = s.ConsumirSaldoTx(ctx, tx, alumnoID, monto, desc, ventaID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.InvalidarTarjeta(ctx, t.Alumno.NumeroTarjeta)
	return t, nil
}

func (s *saldoService) ConsumirSaldoTx(ctx context.Context, tx *gorm.DB, alumnoID uuid.UUID, monto decimal.Decimal, desc string, ventaID *uuid.UUID) (*model.Transaccion, error) {
	if !monto.IsPositive() {
		return nil, ErrMontoInvalido
	}
	// Stored as a negative delta.
	return s.mutarSaldo(ctx, tx, alumnoID, "consumo", monto.Neg(), desc, nil, ventaID, nil)
}

// AjustarSaldo takes the signed monto as-is: positive credits, negative debits.
func (s *saldoService) AjustarSaldo(ctx context.Context, alumnoID uuid.UUID, monto decimal.Decimal, desc string, registradoPor uuid.UUID) (*model.Transaccion, error) {
	if monto.IsZero() {
		return nil, ErrMontoInvalido
	}
	var t *model.Transaccion
	err := runTx(ctx, s.alumnoRepo.DB(), func(tx *gorm.DB) error {
		var err error
		t, err = s.mutarSaldo(ctx, tx, alumnoID, "ajuste", monto, desc, nil, nil, &registradoPor)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.InvalidarTarjeta(ctx, t.Alumno.NumeroTarjeta)
	return t, nil
}

// ── Queries ───────────────────────────────────────────────────────────────────

// ConsultarPorTarjeta resolves a card for the POS. The response is cached in
// redis with a short TTL; any balance mutation invalidates the key.
func (s *saldoService) ConsultarPorTarjeta(ctx context.Context, numeroTarjeta string) (*dto.SaldoTarjetaResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, saldoCacheKey(numeroTarjeta)).Result(); err == nil {
			var resp dto.SaldoTarjetaResponse
			if jsonErr := unmarshalCached(cached, &resp); jsonErr == nil {
				return &resp, nil
			}
		}
	}

	alumno, err := s.alumnoRepo.FindByTarjeta(ctx, numeroTarjeta)
	if err != nil {
		return nil, fmt.Errorf("tarjeta no registrada: %w", err)
	}

	consumoHoy, err := s.transaccionRepo.SumConsumoDelDia(ctx, s.alumnoRepo.DB(), alumno.ID)
	if err != nil {
		return nil, err
	}

	disponible := alumno.SaldoTarjeta
	if alumno.LimiteConsumo.IsPositive() {
		restante := alumno.LimiteConsumo.Sub(consumoHoy)
		if restante.IsNegative() {
			restante = decimal.Zero
		}
		if restante.LessThan(disponible) {
			disponible = restante
		}
	}

	resp := &dto.SaldoTarjetaResponse{
		AlumnoID:      alumno.ID.String(),
		Nombre:        alumno.Nombre,
		Apellido:      alumno.Apellido,
		NumeroTarjeta: alumno.NumeroTarjeta,
		SaldoTarjeta:  alumno.SaldoTarjeta,
		LimiteConsumo: alumno.LimiteConsumo,
		ConsumoDelDia: consumoHoy,
		DisponibleHoy: disponible,
		Estado:        alumno.Estado,
	}

	if s.rdb != nil {
		if payload, err := marshalCached(resp); err == nil {
			if err := s.rdb.Set(ctx, saldoCacheKey(numeroTarjeta), payload, saldoCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("no se pudo cachear saldo")
			}
		}
	}
	return resp, nil
}

func (s *saldoService) Historial(ctx context.Context, alumnoID uuid.UUID, page, limit int) (*dto.HistorialSaldoResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}

	alumno, err := s.alumnoRepo.FindByID(ctx, alumnoID)
	if err != nil {
		return nil, fmt.Errorf("alumno no encontrado: %w", err)
	}

	trans, total, err := s.transaccionRepo.FindByAlumnoID(ctx, alumnoID, page, limit)
	if err != nil {
		return nil, err
	}

	items := make([]dto.TransaccionResponse, 0, len(trans))
	for _, t := range trans {
		items = append(items, transaccionToResponse(&t))
	}

	return &dto.HistorialSaldoResponse{
		AlumnoID:      alumnoID.String(),
		SaldoActual:   alumno.SaldoTarjeta,
		Transacciones: items,
		Total:         total,
		Pagina:        page,
	}, nil
}

func (s *saldoService) Reconciliar(ctx context.Context) (*dto.ReconciliacionResponse, error) {
	alumnos, err := s.alumnoRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.ReconciliacionResponse{
		Revisados:    len(alumnos),
		Discrepantes: []dto.ReconciliacionItem{},
		GeneradoEn:   time.Now(),
	}

	for _, a := range alumnos {
		ledger, err := s.transaccionRepo.SumByAlumno(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		if !a.SaldoTarjeta.Equal(ledger) {
			resp.Discrepantes = append(resp.Discrepantes, dto.ReconciliacionItem{
				AlumnoID:      a.ID.String(),
				NumeroTarjeta: a.NumeroTarjeta,
				SaldoTarjeta:  a.SaldoTarjeta,
				SaldoLedger:   ledger,
				Diferencia:    a.SaldoTarjeta.Sub(ledger),
			})
		}
	}

	if len(resp.Discrepantes) > 0 {
		log.Warn().Int("discrepantes", len(resp.Discrepantes)).Msg("reconciliación encontró diferencias")
	}
	return resp, nil
}

func transaccionToResponse(t *model.Transaccion) dto.TransaccionResponse {
	resp := dto.TransaccionResponse{
		ID:             t.ID.String(),
		AlumnoID:       t.AlumnoID.String(),
		Tipo:           t.Tipo,
		Monto:          t.Monto,
		SaldoAnterior:  t.SaldoAnterior,
		SaldoPosterior: t.SaldoPosterior,
		Descripcion:    t.Descripcion,
		Fecha:          t.CreatedAt,
	}
	if t.VentaID != nil {
		v := t.VentaID.String()
		resp.VentaID = &v
	}
	if t.SolicitudID != nil {
		sID := t.SolicitudID.String()
		resp.SolicitudID = &sID
	}
	return resp
}
