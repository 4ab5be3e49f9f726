//go:build integration

package e2e

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cantina/internal/config"
	"cantina/internal/infra"
	"cantina/internal/model"
	"cantina/internal/repository"
	"cantina/internal/router"
	"cantina/internal/worker"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server         *httptest.Server
	token          string // admin JWT
	metodoEfectivo string
	metodoSaldo    string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("cantina_test"),
		tcPostgres.WithUsername("cantina"),
		tcPostgres.WithPassword("cantina"),
		testcontainers.WithWaitStrategy(
			tcPostgres.BasicWaitStrategies()...,
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:                  8000,
		Env:                   "test",
		JWTSecret:             "test-secret-key",
		JWTExpirationHours:    8,
		JWTRefreshHours:       24,
		DatabaseURL:           pgURL,
		RedisURL:              rdURL,
		WorkerPoolSize:        1,
		RecargaMontoMin:       10,
		RecargaMontoMax:       1000000,
		ComprobanteMaxMB:      5,
		ComprobantePath:       t.TempDir(),
		LimiteConsumoEstricto: true,
		PDFStoragePath:        t.TempDir(),
		NombreComercio:        "Cantina E2E",
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	comprobantes, err := infra.NewComprobanteStore(cfg.ComprobantePath, cfg.ComprobanteMaxMB)
	require.NoError(t, err)

	// Seed admin user and payment methods directly through the repositories.
	hash, err := bcrypt.GenerateFromPassword([]byte("cantina-e2e"), bcrypt.DefaultCost)
	require.NoError(t, err)
	usuarioRepo := repository.NewUsuarioRepository(db)
	require.NoError(t, usuarioRepo.Create(ctx, &model.Usuario{
		Username:     "admin@e2e.test",
		Nombre:       "Admin E2E",
		PasswordHash: string(hash),
		Rol:          "administrador",
		Activo:       true,
	}))

	metodoRepo := repository.NewMetodoPagoRepository(db)
	efectivo := &model.MetodoPago{Nombre: "Efectivo", Tipo: "efectivo", Activo: true}
	require.NoError(t, metodoRepo.Create(ctx, efectivo))
	saldo := &model.MetodoPago{Nombre: "Saldo de tarjeta", Tipo: "saldo", Activo: true}
	require.NoError(t, metodoRepo.Create(ctx, saldo))

	r := router.New(cfg, db, rdb, comprobantes, worker.NewDispatcher(rdb))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin@e2e.test", "password": "cantina-e2e"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		Token string `json:"token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.Token)

	return &testEnv{
		server:         srv,
		token:          loginBody.Token,
		metodoEfectivo: efectivo.ID.String(),
		metodoSaldo:    saldo.ID.String(),
	}
}

func (env *testEnv) crearProducto(t *testing.T, nombre, codigo string, precio, stock float64) string {
	t.Helper()
	catResp := do(t, env.server, "POST", "/v1/categorias",
		jsonBody(t, map[string]any{"nombre": "Categoria " + codigo}), env.token)
	require.Equal(t, http.StatusCreated, catResp.StatusCode)
	var cat struct {
		ID string `json:"ID"`
	}
	decodeJSON(t, catResp, &cat)

	prodResp := do(t, env.server, "POST", "/v1/productos",
		jsonBody(t, map[string]any{
			"codigo":       codigo,
			"nombre":       nombre,
			"categoria_id": cat.ID,
			"precio":       precio,
			"costo":        precio / 2,
			"cantidad":     stock,
		}), env.token)
	require.Equal(t, http.StatusCreated, prodResp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, prodResp, &prod)
	return prod.ID
}

func (env *testEnv) abrirTurno(t *testing.T, numeroCaja int, montoInicial float64) string {
	t.Helper()
	cajaResp := do(t, env.server, "POST", "/v1/cajas",
		jsonBody(t, map[string]any{"numero": numeroCaja, "nombre": "Caja e2e"}), env.token)
	require.Equal(t, http.StatusCreated, cajaResp.StatusCode)
	var caja struct {
		ID string `json:"ID"`
	}
	decodeJSON(t, cajaResp, &caja)

	turnoResp := do(t, env.server, "POST", "/v1/turnos/abrir",
		jsonBody(t, map[string]any{"caja_id": caja.ID, "monto_inicial": montoInicial}), env.token)
	require.Equal(t, http.StatusCreated, turnoResp.StatusCode)
	var turno struct {
		ID string `json:"id"`
	}
	decodeJSON(t, turnoResp, &turno)
	return turno.ID
}

// ── Tests ────────────────────────────────────────────────────────────────────

// Full POS cycle: producto → turno → venta → anulación → cierre.
func TestE2E_CicloVentaCompleto(t *testing.T) {
	env := setupTestEnv(t)

	prodID := env.crearProducto(t, "Empanada de carne", "EMP-001", 2500, 20)
	env.abrirTurno(t, 1, 50000)

	ventaResp := do(t, env.server, "POST", "/v1/ventas/procesar",
		jsonBody(t, map[string]any{
			"items": []map[string]any{{"producto_id": prodID, "cantidad": 3}},
			"pagos": []map[string]any{{"metodo_pago_id": env.metodoEfectivo, "monto": 10000}},
		}), env.token)
	require.Equal(t, http.StatusCreated, ventaResp.StatusCode)
	var venta struct {
		VentaID     string  `json:"venta_id"`
		NumeroVenta int     `json:"numero_venta"`
		Total       float64 `json:"total,string"`
		Cambio      float64 `json:"cambio,string"`
	}
	decodeJSON(t, ventaResp, &venta)
	assert.Equal(t, 1, venta.NumeroVenta)
	assert.Equal(t, 7500.0, venta.Total)
	assert.Equal(t, 2500.0, venta.Cambio)

	// Stock bajó de 20 a 17.
	prodDetalle := do(t, env.server, "GET", "/v1/productos/"+prodID, nil, env.token)
	require.Equal(t, http.StatusOK, prodDetalle.StatusCode)
	var prod struct {
		Cantidad float64 `json:"cantidad,string"`
	}
	decodeJSON(t, prodDetalle, &prod)
	assert.Equal(t, 17.0, prod.Cantidad)

	// Anular devuelve el stock.
	anularResp := do(t, env.server, "DELETE", "/v1/ventas/"+venta.VentaID,
		jsonBody(t, map[string]any{"motivo": "venta de prueba"}), env.token)
	require.Equal(t, http.StatusNoContent, anularResp.StatusCode)

	prodDetalle = do(t, env.server, "GET", "/v1/productos/"+prodID, nil, env.token)
	require.Equal(t, http.StatusOK, prodDetalle.StatusCode)
	decodeJSON(t, prodDetalle, &prod)
	assert.Equal(t, 20.0, prod.Cantidad)

	// Cierre de turno: sin ventas completadas, lo contado es lo inicial.
	cerrarResp := do(t, env.server, "POST", "/v1/turnos/cerrar",
		jsonBody(t, map[string]any{"monto_final": 50000}), env.token)
	require.Equal(t, http.StatusOK, cerrarResp.StatusCode)
	var turno struct {
		Activa     bool    `json:"activa"`
		Diferencia float64 `json:"diferencia,string"`
	}
	decodeJSON(t, cerrarResp, &turno)
	assert.False(t, turno.Activa)
	assert.Equal(t, 0.0, turno.Diferencia)
}

// Card balance cycle: alumno → ajuste de saldo → consumo con tarjeta → ledger.
func TestE2E_SaldoTarjeta(t *testing.T) {
	env := setupTestEnv(t)

	padreResp := do(t, env.server, "POST", "/v1/padres",
		jsonBody(t, map[string]any{
			"nombre": "María", "apellido": "González", "documento": "4123456",
			"email": "maria@e2e.test",
		}), env.token)
	require.Equal(t, http.StatusCreated, padreResp.StatusCode)
	var padre struct {
		ID string `json:"ID"`
	}
	decodeJSON(t, padreResp, &padre)

	alumnoResp := do(t, env.server, "POST", "/v1/alumnos",
		jsonBody(t, map[string]any{
			"padre_id": padre.ID, "nombre": "Juan", "apellido": "González",
			"numero_tarjeta": "CARD-9001",
		}), env.token)
	require.Equal(t, http.StatusCreated, alumnoResp.StatusCode)
	var alumno struct {
		ID string `json:"id"`
	}
	decodeJSON(t, alumnoResp, &alumno)

	// Acreditar saldo por ajuste manual.
	ajusteResp := do(t, env.server, "POST", "/v1/alumnos/"+alumno.ID+"/saldo/ajuste",
		jsonBody(t, map[string]any{"monto": 10000, "descripcion": "carga inicial e2e"}), env.token)
	require.Equal(t, http.StatusOK, ajusteResp.StatusCode)

	consultaResp := do(t, env.server, "GET", "/v1/saldo/tarjeta/CARD-9001", nil, env.token)
	require.Equal(t, http.StatusOK, consultaResp.StatusCode)
	var consulta struct {
		SaldoTarjeta decimal.Decimal `json:"saldo_tarjeta"`
	}
	decodeJSON(t, consultaResp, &consulta)
	assert.True(t, consulta.SaldoTarjeta.Equal(decimal.NewFromInt(10000)))

	// Venta pagada con el saldo de la tarjeta.
	prodID := env.crearProducto(t, "Jugo natural", "JUG-001", 3000, 10)
	env.abrirTurno(t, 1, 0)

	ventaResp := do(t, env.server, "POST", "/v1/ventas/procesar",
		jsonBody(t, map[string]any{
			"numero_tarjeta": "CARD-9001",
			"items":          []map[string]any{{"producto_id": prodID, "cantidad": 1}},
			"pagos":          []map[string]any{{"metodo_pago_id": env.metodoSaldo, "monto": 3000}},
		}), env.token)
	require.Equal(t, http.StatusCreated, ventaResp.StatusCode)

	// El saldo bajó y el ledger registró el consumo con snapshots.
	consultaResp = do(t, env.server, "GET", "/v1/saldo/tarjeta/CARD-9001", nil, env.token)
	require.Equal(t, http.StatusOK, consultaResp.StatusCode)
	decodeJSON(t, consultaResp, &consulta)
	assert.True(t, consulta.SaldoTarjeta.Equal(decimal.NewFromInt(7000)))

	historialResp := do(t, env.server, "GET", "/v1/alumnos/"+alumno.ID+"/transacciones", nil, env.token)
	require.Equal(t, http.StatusOK, historialResp.StatusCode)
	var historial struct {
		SaldoActual   decimal.Decimal `json:"saldo_actual"`
		Transacciones []struct {
			Tipo           string          `json:"tipo"`
			Monto          decimal.Decimal `json:"monto"`
			SaldoAnterior  decimal.Decimal `json:"saldo_anterior"`
			SaldoPosterior decimal.Decimal `json:"saldo_posterior"`
		} `json:"transacciones"`
	}
	decodeJSON(t, historialResp, &historial)
	assert.True(t, historial.SaldoActual.Equal(decimal.NewFromInt(7000)))
	require.Len(t, historial.Transacciones, 2)

	// La reconciliación no encuentra diferencias.
	reconResp := do(t, env.server, "GET", "/v1/saldo/reconciliacion", nil, env.token)
	require.Equal(t, http.StatusOK, reconResp.StatusCode)
	var recon struct {
		Revisados    int   `json:"revisados"`
		Discrepantes []any `json:"discrepantes"`
	}
	decodeJSON(t, reconResp, &recon)
	assert.Equal(t, 1, recon.Revisados)
	assert.Empty(t, recon.Discrepantes)
}

// Recharge request lifecycle exercised at the service boundary is covered by
// unit tests; here we only verify the admin listing endpoint is wired.
func TestE2E_ListarRecargasVacio(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "GET", "/v1/recargas", nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
