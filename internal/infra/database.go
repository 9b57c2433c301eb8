package infra

import (
	"fmt"

	"comandapos/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate and
// then applies the idempotent SQL patches GORM cannot express (partial indexes,
// sequences).
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

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate crea o actualiza el esquema. Se expone aparte para los tests de
// integración, que levantan su propio Postgres.
func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto: %w", err)
	}
	if err := db.AutoMigrate(
		&model.Producto{},
		&model.Cliente{},
		&model.Inventario{},
		&model.MovimientoStock{},
		&model.Mesa{},
		&model.Factura{},
		&model.FacturaDetalle{},
		&model.SesionMesa{},
		&model.OrdenCocina{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches is fully idempotent: every statement is IF NOT EXISTS.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// A lo sumo una sesión abierta por mesa, garantizado por la base.
		{"partial unique idx_sesiones_mesa_abierta",
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_sesiones_mesa_abierta
			   ON sesiones_mesa (mesa_id) WHERE estado = 'abierta'`},
		{"sequence facturas_numero_seq",
			`CREATE SEQUENCE IF NOT EXISTS facturas_numero_seq START 1`},
		{"check inventarios.cantidad >= 0", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_inventarios_cantidad') THEN
    ALTER TABLE inventarios ADD CONSTRAINT chk_inventarios_cantidad CHECK (cantidad >= 0);
  END IF;
END $$`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("%s: %w", p.descr, err)
		}
	}
	return nil
}
