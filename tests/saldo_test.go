package tests

import (
	"context"
	"testing"

	"cantina/internal/model"
	"cantina/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSaldoSvc(estricto bool) (service.SaldoService, *stubAlumnoRepo, *stubTransaccionRepo) {
	alumnoRepo := newStubAlumnoRepo()
	transRepo := &stubTransaccionRepo{}
	svc := service.NewSaldoService(alumnoRepo, transRepo, nil, estricto)
	return svc, alumnoRepo, transRepo
}

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func TestCargarSaldo_AcreditaYRegistraLedger(t *testing.T) {
	svc, alumnoRepo, transRepo := buildSaldoSvc(true)
	alumno := seedAlumno(alumnoRepo, "T-001", 100, 0)
	admin := uuid.New()

	tr, err := svc.CargarSaldo(context.Background(), alumno.ID, dec(50), "Recarga aprobada", nil, &admin)
	require.NoError(t, err)

	assert.Equal(t, "recarga", tr.Tipo)
	assert.True(t, tr.Monto.Equal(dec(50)))
	assert.True(t, tr.SaldoAnterior.Equal(dec(100)))
	assert.True(t, tr.SaldoPosterior.Equal(dec(150)))
	assert.True(t, alumno.SaldoTarjeta.Equal(dec(150)))
	assert.Len(t, transRepo.transacciones, 1)
}

func TestCargarSaldo_MontoNoPositivo(t *testing.T) {
	svc, alumnoRepo, _ := buildSaldoSvc(true)
	alumno := seedAlumno(alumnoRepo, "T-001", 100, 0)

	_, err := svc.CargarSaldo(context.Background(), alumno.ID, dec(0), "Recarga", nil, nil)
	assert.ErrorIs(t, err, service.ErrMontoInvalido)

	_, err = svc.CargarSaldo(context.Background(), alumno.ID, dec(-10), "Recarga", nil, nil)
	assert.ErrorIs(t, err, service.ErrMontoInvalido)
}

func TestConsumirSaldo_DescuentaConMontoNegativo(t *testing.T) {
	svc, alumnoRepo, transRepo := buildSaldoSvc(true)
	alumno := seedAlumno(alumnoRepo, "T-001", 100, 0)

	tr, err := svc.ConsumirSaldo(context.Background(), alumno.ID, dec(30), "Consumo venta #1", nil)
	require.NoError(t, err)

	assert.Equal(t, "consumo", tr.Tipo)
	assert.True(t, tr.Monto.Equal(dec(-30)), "el consumo se guarda como delta negativo")
	assert.True(t, tr.SaldoPosterior.Equal(dec(70)))
	assert.True(t, alumno.SaldoTarjeta.Equal(dec(70)))
	assert.Len(t, transRepo.transacciones, 1)
}

func TestConsumirSaldo_SaldoInsuficiente(t *testing.T) {
	svc, alumnoRepo, transRepo := buildSaldoSvc(true)
	alumno := seedAlumno(alumnoRepo, "T-001", 10, 0)

	_, err := svc.ConsumirSaldo(context.Background(), alumno.ID, dec(25), "Consumo", nil)
	assert.ErrorIs(t, err, service.ErrSaldoInsuficiente)
	assert.True(t, alumno.SaldoTarjeta.Equal(dec(10)), "el saldo no debe cambiar")
	assert.Empty(t, transRepo.transacciones, "no se registra nada en el ledger")
}

func TestConsumirSaldo_LimiteDiarioExcedido(t *testing.T) {
	svc, alumnoRepo, transRepo := buildSaldoSvc(true)
	alumno := seedAlumno(alumnoRepo, "T-001", 200, 50)

	// Ya consumió 40 hoy; 20 más superaría el límite de 50.
	transRepo.transacciones = append(transRepo.transacciones, model.Transaccion{
		ID:       uuid.New(),
		AlumnoID: alumno.ID,
		Tipo:     "consumo",
		Monto:    dec(-40),
	})

	_, err := svc.ConsumirSaldo(context.Background(), alumno.ID, dec(20), "Consumo", nil)
	assert.ErrorIs(t, err, service.ErrLimiteDiarioExcedido)
	assert.True(t, alumno.SaldoTarjeta.Equal(dec(200)))
}

func TestConsumirSaldo_LimiteNoEstrictoPermiteExceder(t *testing.T) {
	svc, alumnoRepo, transRepo := buildSaldoSvc(false)
	alumno := seedAlumno(alumnoRepo, "T-001", 200, 50)

	transRepo.transacciones = append(transRepo.transacciones, model.Transaccion{
		ID:       uuid.New(),
		AlumnoID: alumno.ID,
		Tipo:     "consumo",
		Monto:    dec(-40),
	})

	_, err := svc.ConsumirSaldo(context.Background(), alumno.ID, dec(20), "Consumo", nil)
	require.NoError(t, err)
	assert.True(t, alumno.SaldoTarjeta.Equal(dec(180)))
}

func TestConsumirSaldo_AlumnoInactivo(t *testing.T) {
	svc, alumnoRepo, _ := buildSaldoSvc(true)
	alumno := seedAlumno(alumnoRepo, "T-001", 100, 0)
	alumno.Estado = "inactivo"

	_, err := svc.ConsumirSaldo(context.Background(), alumno.ID, dec(10), "Consumo", nil)
	assert.ErrorIs(t, err, service.ErrAlumnoInactivo)
}

func TestAjustarSaldo_MontoCero(t *testing.T) {
	svc, alumnoRepo, _ := buildSaldoSvc(true)
	alumno := seedAlumno(alumnoRepo, "T-001", 100, 0)

	_, err := svc.AjustarSaldo(context.Background(), alumno.ID, decimal.Zero, "Ajuste", uuid.New())
	assert.ErrorIs(t, err, service.ErrMontoInvalido)
}

func TestAjustarSaldo_NegativoDescuenta(t *testing.T) {
	svc, alumnoRepo, _ := buildSaldoSvc(true)
	alumno := seedAlumno(alumnoRepo, "T-001", 100, 0)

	tr, err := svc.AjustarSaldo(context.Background(), alumno.ID, dec(-15), "Corrección de carga duplicada", uuid.New())
	require.NoError(t, err)

	assert.Equal(t, "ajuste", tr.Tipo)
	assert.True(t, tr.Monto.Equal(dec(-15)))
	assert.True(t, alumno.SaldoTarjeta.Equal(dec(85)))
}

func TestAjustarSaldo_NoDejaSaldoNegativo(t *testing.T) {
	svc, alumnoRepo, _ := buildSaldoSvc(true)
	alumno := seedAlumno(alumnoRepo, "T-001", 10, 0)

	_, err := svc.AjustarSaldo(context.Background(), alumno.ID, dec(-15), "Ajuste", uuid.New())
	assert.ErrorIs(t, err, service.ErrSaldoInsuficiente)
}

func TestConsultarPorTarjeta_DisponibleHoyRespetaLimite(t *testing.T) {
	svc, alumnoRepo, transRepo := buildSaldoSvc(true)
	alumno := seedAlumno(alumnoRepo, "T-001", 100, 50)

	transRepo.transacciones = append(transRepo.transacciones, model.Transaccion{
		ID:       uuid.New(),
		AlumnoID: alumno.ID,
		Tipo:     "consumo",
		Monto:    dec(-20),
	})

	resp, err := svc.ConsultarPorTarjeta(context.Background(), "T-001")
	require.NoError(t, err)

	assert.True(t, resp.SaldoTarjeta.Equal(dec(100)))
	assert.True(t, resp.ConsumoDelDia.Equal(dec(20)))
	assert.True(t, resp.DisponibleHoy.Equal(dec(30)), "disponible = límite restante, no el saldo")
}

func TestConsultarPorTarjeta_NoRegistrada(t *testing.T) {
	svc, _, _ := buildSaldoSvc(true)

	_, err := svc.ConsultarPorTarjeta(context.Background(), "NO-EXISTE")
	assert.ErrorContains(t, err, "tarjeta no registrada")
}

func TestReconciliar_DetectaDiscrepancia(t *testing.T) {
	svc, alumnoRepo, transRepo := buildSaldoSvc(true)

	sano := seedAlumno(alumnoRepo, "T-001", 30, 0)
	transRepo.transacciones = append(transRepo.transacciones, model.Transaccion{
		ID: uuid.New(), AlumnoID: sano.ID, Tipo: "recarga", Monto: dec(30),
	})

	roto := seedAlumno(alumnoRepo, "T-002", 100, 0)
	transRepo.transacciones = append(transRepo.transacciones, model.Transaccion{
		ID: uuid.New(), AlumnoID: roto.ID, Tipo: "recarga", Monto: dec(80),
	})

	resp, err := svc.Reconciliar(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Revisados)
	require.Len(t, resp.Discrepantes, 1)
	item := resp.Discrepantes[0]
	assert.Equal(t, "T-002", item.NumeroTarjeta)
	assert.True(t, item.Diferencia.Equal(dec(20)))
}

func TestHistorial_IncluyeSaldoActual(t *testing.T) {
	svc, alumnoRepo, _ := buildSaldoSvc(true)
	alumno := seedAlumno(alumnoRepo, "T-001", 100, 0)

	_, err := svc.CargarSaldo(context.Background(), alumno.ID, dec(25), "Recarga", nil, nil)
	require.NoError(t, err)

	resp, err := svc.Historial(context.Background(), alumno.ID, 1, 10)
	require.NoError(t, err)

	assert.True(t, resp.SaldoActual.Equal(dec(125)))
	require.Len(t, resp.Transacciones, 1)
	assert.Equal(t, "recarga", resp.Transacciones[0].Tipo)
}
