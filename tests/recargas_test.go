package tests

import (
	"context"
	"testing"
	"time"

	"cantina/internal/dto"
	"cantina/internal/model"
	"cantina/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recargaDeps struct {
	solicitudRepo *stubSolicitudRepo
	alumnoRepo    *stubAlumnoRepo
	transRepo     *stubTransaccionRepo
}

func buildRecargaSvc() (service.RecargaService, recargaDeps) {
	deps := recargaDeps{
		solicitudRepo: newStubSolicitudRepo(),
		alumnoRepo:    newStubAlumnoRepo(),
		transRepo:     &stubTransaccionRepo{},
	}
	saldoSvc := service.NewSaldoService(deps.alumnoRepo, deps.transRepo, nil, true)
	svc := service.NewRecargaService(
		deps.solicitudRepo, deps.alumnoRepo, saldoSvc, nil, nil,
		decimal.NewFromInt(10), decimal.NewFromInt(1000),
	)
	return svc, deps
}

func seedPadre(repo *stubAlumnoRepo) *model.Padre {
	p := &model.Padre{
		ID:        uuid.New(),
		UsuarioID: uuid.New(),
		Nombre:    "María",
		Apellido:  "González",
		Email:     "maria@example.com",
	}
	repo.padres[p.ID] = p
	return p
}

func seedSolicitudPendiente(repo *stubSolicitudRepo, alumnoID, padreID uuid.UUID, monto float64) *model.SolicitudRecarga {
	sol := &model.SolicitudRecarga{
		ID:              uuid.New(),
		AlumnoID:        alumnoID,
		PadreID:         padreID,
		MontoSolicitado: dec(monto),
		Estado:          "pendiente",
		MetodoPago:      "transferencia",
		ComprobantePath: "comprobantes/abc.jpg",
		FechaSolicitud:  time.Now(),
	}
	repo.solicitudes[sol.ID] = sol
	return sol
}

func TestCrearRecarga_MontoFueraDeRango(t *testing.T) {
	svc, _ := buildRecargaSvc()

	_, err := svc.Crear(context.Background(), uuid.New(), dto.CrearRecargaRequest{
		AlumnoID: uuid.New().String(), Monto: dec(5), MetodoPago: "transferencia",
	}, nil)
	assert.ErrorIs(t, err, service.ErrMontoFueraDeRango)

	_, err = svc.Crear(context.Background(), uuid.New(), dto.CrearRecargaRequest{
		AlumnoID: uuid.New().String(), Monto: dec(2000), MetodoPago: "transferencia",
	}, nil)
	assert.ErrorIs(t, err, service.ErrMontoFueraDeRango)
}

func TestCrearRecarga_AlumnoDeOtroPadre(t *testing.T) {
	svc, deps := buildRecargaSvc()
	padre := seedPadre(deps.alumnoRepo)
	ajeno := seedAlumno(deps.alumnoRepo, "T-001", 0, 0) // PadreID distinto

	_, err := svc.Crear(context.Background(), padre.UsuarioID, dto.CrearRecargaRequest{
		AlumnoID: ajeno.ID.String(), Monto: dec(100), MetodoPago: "transferencia",
	}, nil)
	assert.ErrorContains(t, err, "no pertenece a este padre")
}

func TestCrearRecarga_ComprobanteObligatorio(t *testing.T) {
	svc, deps := buildRecargaSvc()
	padre := seedPadre(deps.alumnoRepo)
	alumno := seedAlumno(deps.alumnoRepo, "T-001", 0, 0)
	alumno.PadreID = padre.ID

	_, err := svc.Crear(context.Background(), padre.UsuarioID, dto.CrearRecargaRequest{
		AlumnoID: alumno.ID.String(), Monto: dec(100), MetodoPago: "transferencia",
	}, nil)
	assert.ErrorContains(t, err, "comprobante")
}

func TestAprobarRecarga_AcreditaYCambiaEstado(t *testing.T) {
	svc, deps := buildRecargaSvc()
	padre := seedPadre(deps.alumnoRepo)
	alumno := seedAlumno(deps.alumnoRepo, "T-001", 50, 0)
	alumno.PadreID = padre.ID
	sol := seedSolicitudPendiente(deps.solicitudRepo, alumno.ID, padre.ID, 100)
	admin := uuid.New()

	resp, err := svc.AprobarYAcreditar(context.Background(), sol.ID, admin, dto.AprobarRecargaRequest{})
	require.NoError(t, err)

	assert.Equal(t, "aprobada", resp.Estado)
	require.NotNil(t, resp.MontoAprobado)
	assert.True(t, resp.MontoAprobado.Equal(dec(100)))
	assert.True(t, alumno.SaldoTarjeta.Equal(dec(150)), "el saldo se acredita en la misma operación")

	require.Len(t, deps.transRepo.transacciones, 1)
	tr := deps.transRepo.transacciones[0]
	assert.Equal(t, "recarga", tr.Tipo)
	require.NotNil(t, tr.SolicitudID)
	assert.Equal(t, sol.ID, *tr.SolicitudID)
	require.NotNil(t, sol.ProcesadoPor)
	assert.Equal(t, admin, *sol.ProcesadoPor)
}

func TestAprobarRecarga_MontoAprobadoDistinto(t *testing.T) {
	svc, deps := buildRecargaSvc()
	padre := seedPadre(deps.alumnoRepo)
	alumno := seedAlumno(deps.alumnoRepo, "T-001", 0, 0)
	alumno.PadreID = padre.ID
	sol := seedSolicitudPendiente(deps.solicitudRepo, alumno.ID, padre.ID, 100)

	aprobado := dec(80)
	resp, err := svc.AprobarYAcreditar(context.Background(), sol.ID, uuid.New(), dto.AprobarRecargaRequest{
		MontoAprobado: &aprobado,
		Observacion:   "transferencia llegó incompleta",
	})
	require.NoError(t, err)

	assert.True(t, resp.MontoAprobado.Equal(dec(80)))
	assert.True(t, alumno.SaldoTarjeta.Equal(dec(80)))
	assert.Equal(t, "transferencia llegó incompleta", resp.Observacion)
}

func TestAprobarRecarga_DobleAprobacion(t *testing.T) {
	svc, deps := buildRecargaSvc()
	padre := seedPadre(deps.alumnoRepo)
	alumno := seedAlumno(deps.alumnoRepo, "T-001", 0, 0)
	alumno.PadreID = padre.ID
	sol := seedSolicitudPendiente(deps.solicitudRepo, alumno.ID, padre.ID, 100)

	_, err := svc.AprobarYAcreditar(context.Background(), sol.ID, uuid.New(), dto.AprobarRecargaRequest{})
	require.NoError(t, err)

	_, err = svc.AprobarYAcreditar(context.Background(), sol.ID, uuid.New(), dto.AprobarRecargaRequest{})
	assert.ErrorIs(t, err, service.ErrSolicitudNoPendiente)
	assert.True(t, alumno.SaldoTarjeta.Equal(dec(100)), "se acredita una sola vez")
}

func TestRechazarRecarga_GuardaMotivoSinAcreditar(t *testing.T) {
	svc, deps := buildRecargaSvc()
	padre := seedPadre(deps.alumnoRepo)
	alumno := seedAlumno(deps.alumnoRepo, "T-001", 0, 0)
	alumno.PadreID = padre.ID
	sol := seedSolicitudPendiente(deps.solicitudRepo, alumno.ID, padre.ID, 100)

	resp, err := svc.Rechazar(context.Background(), sol.ID, uuid.New(), dto.RechazarRecargaRequest{
		Motivo: "comprobante ilegible",
	})
	require.NoError(t, err)

	assert.Equal(t, "rechazada", resp.Estado)
	assert.Equal(t, "comprobante ilegible", resp.Observacion)
	assert.True(t, alumno.SaldoTarjeta.IsZero())
	assert.Empty(t, deps.transRepo.transacciones)

	// Una vez rechazada no se puede aprobar.
	_, err = svc.AprobarYAcreditar(context.Background(), sol.ID, uuid.New(), dto.AprobarRecargaRequest{})
	assert.ErrorIs(t, err, service.ErrSolicitudNoPendiente)
}

func TestAprobarRecarga_AlumnoInactivoRevierte(t *testing.T) {
	svc, deps := buildRecargaSvc()
	padre := seedPadre(deps.alumnoRepo)
	alumno := seedAlumno(deps.alumnoRepo, "T-001", 0, 0)
	alumno.PadreID = padre.ID
	alumno.Estado = "inactivo"
	sol := seedSolicitudPendiente(deps.solicitudRepo, alumno.ID, padre.ID, 100)

	_, err := svc.AprobarYAcreditar(context.Background(), sol.ID, uuid.New(), dto.AprobarRecargaRequest{})
	assert.ErrorIs(t, err, service.ErrAlumnoInactivo)
	assert.True(t, alumno.SaldoTarjeta.IsZero())
}
