package router

import (
	"time"

	"cantina/internal/config"
	"cantina/internal/handler"
	"cantina/internal/infra"
	"cantina/internal/middleware"
	"cantina/internal/repository"
	"cantina/internal/service"
	"cantina/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, comprobantes *infra.ComprobanteStore, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	alumnoRepo := repository.NewAlumnoRepository(db)
	transaccionRepo := repository.NewTransaccionRepository(db)
	solicitudRepo := repository.NewSolicitudRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	turnoRepo := repository.NewTurnoRepository(db)
	metodoPagoRepo := repository.NewMetodoPagoRepository(db)
	proveedorRepo := repository.NewProveedorRepository(db)
	facturaRepo := repository.NewFacturaRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg.JWTSecret, cfg.JWTExpirationHours, cfg.JWTRefreshHours)
	alumnoSvc := service.NewAlumnoService(alumnoRepo)
	saldoSvc := service.NewSaldoService(alumnoRepo, transaccionRepo, rdb, cfg.LimiteConsumoEstricto)
	recargaSvc := service.NewRecargaService(
		solicitudRepo, alumnoRepo, saldoSvc, comprobantes, dispatcher,
		decimal.NewFromInt(cfg.RecargaMontoMin), decimal.NewFromInt(cfg.RecargaMontoMax),
	)
	productoSvc := service.NewProductoService(productoRepo)
	ventaSvc := service.NewVentaService(ventaRepo, productoRepo, alumnoRepo, turnoRepo, metodoPagoRepo, saldoSvc, dispatcher)
	turnoSvc := service.NewTurnoService(turnoRepo, ventaRepo)
	compraSvc := service.NewCompraService(proveedorRepo, productoRepo)
	facturacionSvc := service.NewFacturacionService(facturaRepo, ventaRepo, alumnoRepo, cfg)
	reporteSvc := service.NewReporteService(ventaRepo, transaccionRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	alumnosH := handler.NewAlumnosHandler(alumnoSvc)
	saldoH := handler.NewSaldoHandler(saldoSvc)
	recargasH := handler.NewRecargasHandler(recargaSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)
	turnosH := handler.NewTurnosHandler(turnoSvc)
	comprasH := handler.NewComprasHandler(compraSvc)
	facturasH := handler.NewFacturasHandler(facturacionSvc)
	reportesH := handler.NewReportesHandler(reporteSvc)
	healthH := handler.NewHealthHandler(db, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", healthH.Check)

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: administrador, cajero, padre — declared per-endpoint
		staff := middleware.RequireRole("cajero", "administrador")
		admin := middleware.RequireRole("administrador")
		padre := middleware.RequireRole("padre")

		v1.POST("/auth/registro", admin, authH.RegistrarUsuario)

		// Padres y alumnos
		v1.POST("/padres", admin, alumnosH.CrearPadre)
		v1.GET("/padres", admin, alumnosH.ListPadres)
		v1.GET("/padres/mis-alumnos", padre, alumnosH.MisAlumnos)
		v1.POST("/alumnos", admin, alumnosH.Crear)
		v1.GET("/alumnos", staff, alumnosH.List)
		v1.GET("/alumnos/:id", alumnosH.Detalle)
		v1.PATCH("/alumnos/:id", admin, alumnosH.Actualizar)

		// Saldo y ledger
		v1.GET("/saldo/tarjeta/:numero", staff, saldoH.ConsultarTarjeta)
		v1.GET("/alumnos/:id/transacciones", saldoH.Historial)
		v1.POST("/alumnos/:id/saldo/ajuste", admin, saldoH.Ajustar)
		v1.GET("/saldo/reconciliacion", admin, saldoH.Reconciliar)

		// Recargas — padre solicita, administrador resuelve
		v1.POST("/recargas", padre, recargasH.Crear)
		v1.GET("/recargas/mias", padre, recargasH.MisSolicitudes)
		v1.GET("/recargas", admin, recargasH.List)
		v1.GET("/recargas/:id", recargasH.Detalle)
		v1.POST("/recargas/:id/aprobar", admin, recargasH.Aprobar)
		v1.POST("/recargas/:id/rechazar", admin, recargasH.Rechazar)

		// Ventas (POS)
		v1.POST("/ventas/procesar", staff, ventasH.Procesar)
		v1.POST("/ventas/validar", staff, ventasH.Validar)
		v1.POST("/ventas", staff, ventasH.CrearBorrador)
		v1.GET("/ventas", staff, ventasH.List)
		v1.GET("/ventas/:id", staff, ventasH.Detalle)
		v1.POST("/ventas/:id/items", staff, ventasH.AgregarItem)
		v1.DELETE("/ventas/:id/items/:detalleId", staff, ventasH.EliminarItem)
		v1.POST("/ventas/:id/pagar", staff, ventasH.Pagar)
		v1.DELETE("/ventas/:id", admin, ventasH.Anular)
		v1.GET("/ventas/:id/factura", staff, facturasH.PorVenta)

		// Turnos de caja
		v1.POST("/turnos/abrir", staff, turnosH.Abrir)
		v1.POST("/turnos/cerrar", staff, turnosH.Cerrar)
		v1.GET("/turnos/actual", staff, turnosH.Actual)
		v1.GET("/turnos/:id/resumen", staff, turnosH.Resumen)
		v1.GET("/turnos", admin, turnosH.Historial)
		v1.GET("/cajas", staff, turnosH.ListCajas)
		v1.POST("/cajas", admin, turnosH.CrearCaja)

		// Productos — lectura para staff, escritura sólo administrador
		v1.GET("/productos", staff, productosH.List)
		v1.GET("/productos/stock-bajo", staff, productosH.StockBajo)
		v1.GET("/productos/:id", staff, productosH.Detalle)
		v1.GET("/productos/:id/movimientos", staff, productosH.Movimientos)
		prods := v1.Group("/productos", admin)
		{
			prods.POST("", productosH.Crear)
			prods.PATCH("/:id", productosH.Actualizar)
			prods.POST("/:id/ajuste-stock", productosH.AjustarStock)
		}
		v1.GET("/categorias", staff, productosH.ListCategorias)
		v1.POST("/categorias", admin, productosH.CrearCategoria)

		// Compras y proveedores — administrador
		prov := v1.Group("/proveedores", admin)
		{
			prov.POST("", comprasH.CrearProveedor)
			prov.GET("", comprasH.ListProveedores)
			prov.PATCH("/:id", comprasH.ActualizarProveedor)
		}
		compras := v1.Group("/compras", admin)
		{
			compras.POST("", comprasH.RegistrarCompra)
			compras.GET("", comprasH.ListCompras)
			compras.GET("/:id", comprasH.DetalleCompra)
		}

		// Facturación
		fact := v1.Group("/facturas", admin)
		{
			fact.GET("", facturasH.List)
			fact.GET("/:id", facturasH.Detalle)
			fact.GET("/:id/pdf", facturasH.DescargarPDF)
			fact.POST("/:id/reintentar", facturasH.Reintentar)
		}

		// Reportes
		rep := v1.Group("/reportes", admin)
		{
			rep.GET("/diario", reportesH.Diario)
			rep.GET("/diario/xlsx", reportesH.DiarioXLSX)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
