package tests

import (
	"context"
	"errors"

	"cantina/internal/dto"
	"cantina/internal/model"
	"cantina/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository stubs. Every *gorm.DB parameter is ignored: services
// run their transaction helpers with a nil DB in unit tests, so the stubs
// operate directly on their maps.

// ── Alumnos ───────────────────────────────────────────────────────────────────

type stubAlumnoRepo struct {
	padres     map[uuid.UUID]*model.Padre
	alumnos    map[uuid.UUID]*model.Alumno
	porTarjeta map[string]*model.Alumno
}

func newStubAlumnoRepo() *stubAlumnoRepo {
	return &stubAlumnoRepo{
		padres:     make(map[uuid.UUID]*model.Padre),
		alumnos:    make(map[uuid.UUID]*model.Alumno),
		porTarjeta: make(map[string]*model.Alumno),
	}
}

func (r *stubAlumnoRepo) CreatePadre(_ context.Context, p *model.Padre) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.padres[p.ID] = p
	return nil
}

func (r *stubAlumnoRepo) FindPadreByID(_ context.Context, id uuid.UUID) (*model.Padre, error) {
	p, ok := r.padres[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (r *stubAlumnoRepo) FindPadreByUsuarioID(_ context.Context, usuarioID uuid.UUID) (*model.Padre, error) {
	for _, p := range r.padres {
		if p.UsuarioID == usuarioID {
			return p, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubAlumnoRepo) ListPadres(_ context.Context, _, _ int) ([]model.Padre, int64, error) {
	var out []model.Padre
	for _, p := range r.padres {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubAlumnoRepo) Create(_ context.Context, a *model.Alumno) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.alumnos[a.ID] = a
	r.porTarjeta[a.NumeroTarjeta] = a
	return nil
}

func (r *stubAlumnoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Alumno, error) {
	a, ok := r.alumnos[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return a, nil
}

func (r *stubAlumnoRepo) FindByTarjeta(_ context.Context, numeroTarjeta string) (*model.Alumno, error) {
	a, ok := r.porTarjeta[numeroTarjeta]
	if !ok {
		return nil, errors.New("not found")
	}
	return a, nil
}

func (r *stubAlumnoRepo) FindByPadreID(_ context.Context, padreID uuid.UUID) ([]model.Alumno, error) {
	var out []model.Alumno
	for _, a := range r.alumnos {
		if a.PadreID == padreID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *stubAlumnoRepo) List(_ context.Context, _, _ int) ([]model.Alumno, int64, error) {
	all, _ := r.ListAll(context.Background())
	return all, int64(len(all)), nil
}

func (r *stubAlumnoRepo) Update(_ context.Context, a *model.Alumno) error {
	r.alumnos[a.ID] = a
	r.porTarjeta[a.NumeroTarjeta] = a
	return nil
}

func (r *stubAlumnoRepo) ListAll(_ context.Context) ([]model.Alumno, error) {
	var out []model.Alumno
	for _, a := range r.alumnos {
		out = append(out, *a)
	}
	return out, nil
}

func (r *stubAlumnoRepo) FindByIDForUpdate(_ context.Context, _ *gorm.DB, id uuid.UUID) (*model.Alumno, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubAlumnoRepo) UpdateSaldoTx(_ *gorm.DB, id uuid.UUID, nuevoSaldo decimal.Decimal) error {
	a, ok := r.alumnos[id]
	if !ok {
		return errors.New("not found")
	}
	a.SaldoTarjeta = nuevoSaldo
	return nil
}

func (r *stubAlumnoRepo) DB() *gorm.DB { return nil }

var _ repository.AlumnoRepository = (*stubAlumnoRepo)(nil)

// ── Ledger ────────────────────────────────────────────────────────────────────

type stubTransaccionRepo struct {
	transacciones []model.Transaccion
}

func (r *stubTransaccionRepo) Create(_ context.Context, _ *gorm.DB, t *model.Transaccion) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.transacciones = append(r.transacciones, *t)
	return nil
}

func (r *stubTransaccionRepo) FindByAlumnoID(_ context.Context, alumnoID uuid.UUID, _, _ int) ([]model.Transaccion, int64, error) {
	var out []model.Transaccion
	for _, t := range r.transacciones {
		if t.AlumnoID == alumnoID {
			out = append(out, t)
		}
	}
	return out, int64(len(out)), nil
}

// All stub entries count as "today".
func (r *stubTransaccionRepo) SumConsumoDelDia(_ context.Context, _ *gorm.DB, alumnoID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, t := range r.transacciones {
		if t.AlumnoID == alumnoID && t.Tipo == "consumo" {
			sum = sum.Add(t.Monto.Neg())
		}
	}
	return sum, nil
}

func (r *stubTransaccionRepo) SumByAlumno(_ context.Context, alumnoID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, t := range r.transacciones {
		if t.AlumnoID == alumnoID {
			sum = sum.Add(t.Monto)
		}
	}
	return sum, nil
}

func (r *stubTransaccionRepo) SumByTipoAndDate(_ context.Context, tipo, _ string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, t := range r.transacciones {
		if t.Tipo == tipo {
			sum = sum.Add(t.Monto)
		}
	}
	return sum, nil
}

var _ repository.TransaccionRepository = (*stubTransaccionRepo)(nil)

// ── Productos ─────────────────────────────────────────────────────────────────

type stubProductoRepo struct {
	productos   map[uuid.UUID]*model.Producto
	movimientos []model.MovimientoStock
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) CreateCategoria(_ context.Context, c *model.Categoria) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (r *stubProductoRepo) ListCategorias(_ context.Context) ([]model.Categoria, error) {
	return nil, nil
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (r *stubProductoRepo) FindByCodigo(_ context.Context, codigo string) (*model.Producto, error) {
	for _, p := range r.productos {
		if p.Codigo == codigo {
			return p, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubProductoRepo) List(_ context.Context, _, _ string, _, _ int) ([]model.Producto, int64, error) {
	var out []model.Producto
	for _, p := range r.productos {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) ListStockBajo(_ context.Context) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if p.Cantidad.LessThanOrEqual(p.StockMinimo) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) FindByIDForUpdate(_ context.Context, _ *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubProductoRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	p, ok := r.productos[id]
	if !ok {
		return errors.New("not found")
	}
	p.Cantidad = p.Cantidad.Add(delta)
	return nil
}

func (r *stubProductoRepo) UpdateCostoTx(_ *gorm.DB, id uuid.UUID, nuevoCosto decimal.Decimal) error {
	p, ok := r.productos[id]
	if !ok {
		return errors.New("not found")
	}
	p.PrecioCosto = nuevoCosto
	return nil
}

func (r *stubProductoRepo) CreateMovimientoTx(_ *gorm.DB, m *model.MovimientoStock) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubProductoRepo) ListMovimientos(_ context.Context, productoID uuid.UUID, _, _ int) ([]model.MovimientoStock, int64, error) {
	var out []model.MovimientoStock
	for _, m := range r.movimientos {
		if m.ProductoID == productoID {
			out = append(out, m)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// ── Ventas ────────────────────────────────────────────────────────────────────

// stubVentaRepo attaches MetodoPago to stored pagos from the metodos map, the
// way the real repository preloads them.
type stubVentaRepo struct {
	ventas    map[uuid.UUID]*model.Venta
	metodos   map[uuid.UUID]*model.MetodoPago
	numeroSeq int
}

func newStubVentaRepo(metodos map[uuid.UUID]*model.MetodoPago) *stubVentaRepo {
	return &stubVentaRepo{
		ventas:  make(map[uuid.UUID]*model.Venta),
		metodos: metodos,
	}
}

func (r *stubVentaRepo) Create(_ context.Context, _ *gorm.DB, v *model.Venta) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.ventas[v.ID] = v
	return nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return v, nil
}

func (r *stubVentaRepo) List(_ context.Context, _ dto.ListVentasQuery) ([]model.Venta, int64, error) {
	var out []model.Venta
	for _, v := range r.ventas {
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

func (r *stubVentaRepo) NextNumeroVenta(_ context.Context, _ *gorm.DB) (int, error) {
	r.numeroSeq++
	return r.numeroSeq, nil
}

func (r *stubVentaRepo) CreateDetalleTx(_ *gorm.DB, d *model.DetalleVenta) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	v, ok := r.ventas[d.VentaID]
	if !ok {
		return errors.New("venta not found")
	}
	v.Detalles = append(v.Detalles, *d)
	return nil
}

func (r *stubVentaRepo) DeleteDetalleTx(_ *gorm.DB, id uuid.UUID) error {
	for _, v := range r.ventas {
		for i := range v.Detalles {
			if v.Detalles[i].ID == id {
				out := make([]model.DetalleVenta, 0, len(v.Detalles)-1)
				out = append(out, v.Detalles[:i]...)
				out = append(out, v.Detalles[i+1:]...)
				v.Detalles = out
				return nil
			}
		}
	}
	return errors.New("detalle not found")
}

func (r *stubVentaRepo) CreatePagoTx(_ *gorm.DB, p *model.PagoVenta) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.MetodoPago = r.metodos[p.MetodoPagoID]
	v, ok := r.ventas[p.VentaID]
	if !ok {
		return errors.New("venta not found")
	}
	v.Pagos = append(v.Pagos, *p)
	return nil
}

func (r *stubVentaRepo) UpdateTx(_ *gorm.DB, v *model.Venta) error {
	r.ventas[v.ID] = v
	return nil
}

func (r *stubVentaRepo) SumCompletadasByTurno(_ context.Context, _ *gorm.DB, turnoID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, v := range r.ventas {
		if v.TurnoID == turnoID && v.Estado == "completada" {
			sum = sum.Add(v.Total)
		}
	}
	return sum, nil
}

func (r *stubVentaRepo) CountByTurno(_ context.Context, turnoID uuid.UUID, estado string) (int64, error) {
	var n int64
	for _, v := range r.ventas {
		if v.TurnoID == turnoID && v.Estado == estado {
			n++
		}
	}
	return n, nil
}

func (r *stubVentaRepo) ListByTurno(_ context.Context, turnoID uuid.UUID) ([]model.Venta, error) {
	var out []model.Venta
	for _, v := range r.ventas {
		if v.TurnoID == turnoID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

var _ repository.VentaRepository = (*stubVentaRepo)(nil)

// ── Turnos ────────────────────────────────────────────────────────────────────

type stubTurnoRepo struct {
	cajas  map[uuid.UUID]*model.Caja
	turnos map[uuid.UUID]*model.TurnoCajero
}

func newStubTurnoRepo() *stubTurnoRepo {
	return &stubTurnoRepo{
		cajas:  make(map[uuid.UUID]*model.Caja),
		turnos: make(map[uuid.UUID]*model.TurnoCajero),
	}
}

func (r *stubTurnoRepo) CreateCaja(_ context.Context, c *model.Caja) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.cajas[c.ID] = c
	return nil
}

func (r *stubTurnoRepo) FindCajaByID(_ context.Context, id uuid.UUID) (*model.Caja, error) {
	c, ok := r.cajas[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return c, nil
}

func (r *stubTurnoRepo) ListCajas(_ context.Context) ([]model.Caja, error) {
	var out []model.Caja
	for _, c := range r.cajas {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubTurnoRepo) Create(_ context.Context, t *model.TurnoCajero) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.turnos[t.ID] = t
	return nil
}

func (r *stubTurnoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.TurnoCajero, error) {
	t, ok := r.turnos[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return t, nil
}

func (r *stubTurnoRepo) FindActivoByCaja(_ context.Context, cajaID uuid.UUID) (*model.TurnoCajero, error) {
	for _, t := range r.turnos {
		if t.CajaID == cajaID && t.Activa {
			return t, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubTurnoRepo) FindActivoByCajero(_ context.Context, cajeroID uuid.UUID) (*model.TurnoCajero, error) {
	for _, t := range r.turnos {
		if t.CajeroID == cajeroID && t.Activa {
			return t, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubTurnoRepo) List(_ context.Context, _ string, _, _ int) ([]model.TurnoCajero, int64, error) {
	var out []model.TurnoCajero
	for _, t := range r.turnos {
		out = append(out, *t)
	}
	return out, int64(len(out)), nil
}

func (r *stubTurnoRepo) FindByIDForUpdate(_ context.Context, _ *gorm.DB, id uuid.UUID) (*model.TurnoCajero, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubTurnoRepo) UpdateTx(_ *gorm.DB, t *model.TurnoCajero) error {
	r.turnos[t.ID] = t
	return nil
}

func (r *stubTurnoRepo) DB() *gorm.DB { return nil }

var _ repository.TurnoRepository = (*stubTurnoRepo)(nil)

// ── Métodos de pago ───────────────────────────────────────────────────────────

type stubMetodoPagoRepo struct {
	metodos map[uuid.UUID]*model.MetodoPago
}

func newStubMetodoPagoRepo() *stubMetodoPagoRepo {
	return &stubMetodoPagoRepo{metodos: make(map[uuid.UUID]*model.MetodoPago)}
}

func (r *stubMetodoPagoRepo) Create(_ context.Context, m *model.MetodoPago) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.metodos[m.ID] = m
	return nil
}

func (r *stubMetodoPagoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.MetodoPago, error) {
	m, ok := r.metodos[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return m, nil
}

func (r *stubMetodoPagoRepo) FindByTipo(_ context.Context, tipo string) (*model.MetodoPago, error) {
	for _, m := range r.metodos {
		if m.Tipo == tipo && m.Activo {
			return m, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubMetodoPagoRepo) ListActivos(_ context.Context) ([]model.MetodoPago, error) {
	var out []model.MetodoPago
	for _, m := range r.metodos {
		if m.Activo {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *stubMetodoPagoRepo) Update(_ context.Context, m *model.MetodoPago) error {
	r.metodos[m.ID] = m
	return nil
}

var _ repository.MetodoPagoRepository = (*stubMetodoPagoRepo)(nil)

// ── Solicitudes ───────────────────────────────────────────────────────────────

type stubSolicitudRepo struct {
	solicitudes map[uuid.UUID]*model.SolicitudRecarga
}

func newStubSolicitudRepo() *stubSolicitudRepo {
	return &stubSolicitudRepo{solicitudes: make(map[uuid.UUID]*model.SolicitudRecarga)}
}

func (r *stubSolicitudRepo) Create(_ context.Context, s *model.SolicitudRecarga) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.solicitudes[s.ID] = s
	return nil
}

func (r *stubSolicitudRepo) FindByID(_ context.Context, id uuid.UUID) (*model.SolicitudRecarga, error) {
	s, ok := r.solicitudes[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return s, nil
}

func (r *stubSolicitudRepo) List(_ context.Context, estado string, _, _ int) ([]model.SolicitudRecarga, int64, error) {
	var out []model.SolicitudRecarga
	for _, s := range r.solicitudes {
		if estado == "" || estado == "all" || s.Estado == estado {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubSolicitudRepo) FindByPadreID(_ context.Context, padreID uuid.UUID, _, _ int) ([]model.SolicitudRecarga, int64, error) {
	var out []model.SolicitudRecarga
	for _, s := range r.solicitudes {
		if s.PadreID == padreID {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubSolicitudRepo) FindByIDForUpdate(_ context.Context, _ *gorm.DB, id uuid.UUID) (*model.SolicitudRecarga, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubSolicitudRepo) UpdateTx(_ *gorm.DB, s *model.SolicitudRecarga) error {
	r.solicitudes[s.ID] = s
	return nil
}

func (r *stubSolicitudRepo) DB() *gorm.DB { return nil }

var _ repository.SolicitudRepository = (*stubSolicitudRepo)(nil)

// ── Proveedores ───────────────────────────────────────────────────────────────

type stubProveedorRepo struct {
	proveedores map[uuid.UUID]*model.Proveedor
	compras     map[uuid.UUID]*model.Compra
}

func newStubProveedorRepo() *stubProveedorRepo {
	return &stubProveedorRepo{
		proveedores: make(map[uuid.UUID]*model.Proveedor),
		compras:     make(map[uuid.UUID]*model.Compra),
	}
}

func (r *stubProveedorRepo) Create(_ context.Context, p *model.Proveedor) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.proveedores[p.ID] = p
	return nil
}

func (r *stubProveedorRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Proveedor, error) {
	p, ok := r.proveedores[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (r *stubProveedorRepo) FindByRUC(_ context.Context, ruc string) (*model.Proveedor, error) {
	for _, p := range r.proveedores {
		if p.RUC == ruc {
			return p, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubProveedorRepo) List(_ context.Context, _, _ int) ([]model.Proveedor, int64, error) {
	var out []model.Proveedor
	for _, p := range r.proveedores {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProveedorRepo) Update(_ context.Context, p *model.Proveedor) error {
	r.proveedores[p.ID] = p
	return nil
}

func (r *stubProveedorRepo) CreateCompraTx(_ *gorm.DB, c *model.Compra) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	for i := range c.Detalles {
		if c.Detalles[i].ID == uuid.Nil {
			c.Detalles[i].ID = uuid.New()
		}
		c.Detalles[i].CompraID = c.ID
	}
	r.compras[c.ID] = c
	return nil
}

func (r *stubProveedorRepo) FindCompraByID(_ context.Context, id uuid.UUID) (*model.Compra, error) {
	c, ok := r.compras[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return c, nil
}

func (r *stubProveedorRepo) ListCompras(_ context.Context, _ string, _, _ int) ([]model.Compra, int64, error) {
	var out []model.Compra
	for _, c := range r.compras {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubProveedorRepo) DB() *gorm.DB { return nil }

var _ repository.ProveedorRepository = (*stubProveedorRepo)(nil)

// ── Usuarios ──────────────────────────────────────────────────────────────────

type stubUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Username == username && u.Activo {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	out := make([]model.Usuario, 0, len(r.usuarios))
	for _, u := range r.usuarios {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.usuarios[u.ID] = u
	return nil
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

// ── Facturas ──────────────────────────────────────────────────────────────────

type stubFacturaRepo struct {
	facturas  map[uuid.UUID]*model.Factura
	porVenta  map[uuid.UUID]*model.Factura
	numeroSeq int64
}

func newStubFacturaRepo() *stubFacturaRepo {
	return &stubFacturaRepo{
		facturas: make(map[uuid.UUID]*model.Factura),
		porVenta: make(map[uuid.UUID]*model.Factura),
	}
}

func (r *stubFacturaRepo) Create(_ context.Context, f *model.Factura) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	r.facturas[f.ID] = f
	r.porVenta[f.VentaID] = f
	return nil
}

func (r *stubFacturaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Factura, error) {
	f, ok := r.facturas[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return f, nil
}

func (r *stubFacturaRepo) FindByVentaID(_ context.Context, ventaID uuid.UUID) (*model.Factura, error) {
	f, ok := r.porVenta[ventaID]
	if !ok {
		return nil, errors.New("not found")
	}
	return f, nil
}

func (r *stubFacturaRepo) Update(_ context.Context, f *model.Factura) error {
	r.facturas[f.ID] = f
	r.porVenta[f.VentaID] = f
	return nil
}

func (r *stubFacturaRepo) List(_ context.Context, estado string, _, _ int) ([]model.Factura, int64, error) {
	var out []model.Factura
	for _, f := range r.facturas {
		if estado == "" || estado == "all" || f.Estado == estado {
			out = append(out, *f)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubFacturaRepo) ListPendingRetries(_ context.Context, maxRetries, limit int) ([]model.Factura, error) {
	var out []model.Factura
	for _, f := range r.facturas {
		if (f.Estado == "pendiente" || f.Estado == "error") && f.RetryCount < maxRetries && len(out) < limit {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *stubFacturaRepo) NextNumeroFactura(_ context.Context) (int64, error) {
	r.numeroSeq++
	return r.numeroSeq, nil
}

var _ repository.FacturaRepository = (*stubFacturaRepo)(nil)

// ── Seed helpers ──────────────────────────────────────────────────────────────

func seedAlumno(repo *stubAlumnoRepo, tarjeta string, saldo, limite float64) *model.Alumno {
	a := &model.Alumno{
		ID:            uuid.New(),
		PadreID:       uuid.New(),
		Nombre:        "Juan",
		Apellido:      "Pérez",
		NumeroTarjeta: tarjeta,
		SaldoTarjeta:  decimal.NewFromFloat(saldo),
		LimiteConsumo: decimal.NewFromFloat(limite),
		Estado:        "activo",
	}
	repo.alumnos[a.ID] = a
	repo.porTarjeta[tarjeta] = a
	return a
}

func seedProducto(repo *stubProductoRepo, nombre string, precio, stock float64) *model.Producto {
	p := &model.Producto{
		ID:          uuid.New(),
		Codigo:      uuid.New().String()[:8],
		Nombre:      nombre,
		PrecioCosto: decimal.NewFromFloat(precio).Div(decimal.NewFromInt(2)),
		PrecioVenta: decimal.NewFromFloat(precio),
		Cantidad:    decimal.NewFromFloat(stock),
		StockMinimo: decimal.NewFromInt(5),
		Estado:      "activo",
	}
	repo.productos[p.ID] = p
	return p
}

func seedMetodo(repo *stubMetodoPagoRepo, nombre, tipo string, tasa float64, requiereRef bool) *model.MetodoPago {
	m := &model.MetodoPago{
		ID:                 uuid.New(),
		Nombre:             nombre,
		Tipo:               tipo,
		TasaPct:            decimal.NewFromFloat(tasa),
		RequiereReferencia: requiereRef,
		Activo:             true,
	}
	repo.metodos[m.ID] = m
	return m
}
