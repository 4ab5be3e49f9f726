package infra

import (
	"fmt"

	"cantina/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies idempotent SQL patches that GORM
// cannot express (the ventas number sequence and the partial unique index that
// guarantees one active turno per caja).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations applies the schema. NewDatabase calls it on connect; it is
// exported for tools that open the connection some other way.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Padre{},
		&model.Alumno{},
		&model.Transaccion{},
		&model.SolicitudRecarga{},
		&model.Categoria{},
		&model.Proveedor{},
		&model.Producto{},
		&model.MovimientoStock{},
		&model.Caja{},
		&model.TurnoCajero{},
		&model.MetodoPago{},
		&model.Venta{},
		&model.DetalleVenta{},
		&model.PagoVenta{},
		&model.Compra{},
		&model.DetalleCompra{},
		&model.Factura{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}

	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL statements that GORM AutoMigrate
// cannot fully handle on its own. Each statement uses IF NOT EXISTS / guard
// semantics so re-running on an already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Sequence backing Venta.NumeroVenta — nextval is atomic under
		// concurrent sales, unlike a MAX()+1 read.
		`CREATE SEQUENCE IF NOT EXISTS ventas_numero_venta_seq START 1`,
		// Sequence for factura numbering.
		`CREATE SEQUENCE IF NOT EXISTS facturas_numero_seq START 1`,
		// One active turno per caja. The application pre-checks for a nicer
		// error message, but this index is what actually closes the
		// check-then-insert race between concurrent opens.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uni_turnos_cajero_caja_activa') THEN
		    CREATE UNIQUE INDEX uni_turnos_cajero_caja_activa
		        ON turnos_cajero (caja_id)
		        WHERE activa;
		  END IF;
		END $$`,
		// Same guard per cashier: a cashier cannot hold two open turnos.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uni_turnos_cajero_cajero_activa') THEN
		    CREATE UNIQUE INDEX uni_turnos_cajero_cajero_activa
		        ON turnos_cajero (cajero_id)
		        WHERE activa;
		  END IF;
		END $$`,
		// Balance floor at the storage level — the ledger checks this before
		// writing, the constraint catches anything that slips past.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_alumnos_saldo_no_negativo') THEN
		    ALTER TABLE alumnos ADD CONSTRAINT chk_alumnos_saldo_no_negativo CHECK (saldo_tarjeta >= 0);
		  END IF;
		END $$`,
		// Partial index for the factura retry cron query.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_facturas_pending_retry') THEN
		    CREATE INDEX idx_facturas_pending_retry
		        ON facturas (next_retry_at)
		        WHERE estado IN ('pendiente', 'error') AND next_retry_at IS NOT NULL;
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
