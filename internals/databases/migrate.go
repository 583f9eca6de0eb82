package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migrateMySQL "github.com/golang-migrate/migrate/v4/database/mysql"
	migratePostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"ministryhub_backend/internals/configs"
)

//go:embed migrations/postgres/*.sql migrations/mysql/*.sql
var migrationsFS embed.FS

func newMigrator(db *gorm.DB, driver string) (*migrate.Migrate, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	dir := "migrations/" + driver
	source, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("load migrations %s: %w", dir, err)
	}

	switch driver {
	case configs.DriverMySQL:
		drv, err := migrateMySQL.WithInstance(sqlDB, &migrateMySQL.Config{})
		if err != nil {
			return nil, fmt.Errorf("migrate driver: %w", err)
		}
		return migrate.NewWithInstance("iofs", source, "mysql", drv)
	default:
		drv, err := migratePostgres.WithInstance(sqlDB, &migratePostgres.Config{})
		if err != nil {
			return nil, fmt.Errorf("migrate driver: %w", err)
		}
		return migrate.NewWithInstance("iofs", source, "postgres", drv)
	}
}

// RunMigrations applies every pending up migration for the driver.
func RunMigrations(db *gorm.DB, driver string, log *zap.Logger) error {
	m, err := newMigrator(db, driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	logVersion(m, log)
	return nil
}

// RollbackMigrations reverts the last n migrations.
func RollbackMigrations(db *gorm.DB, driver string, steps int, log *zap.Logger) error {
	if steps <= 0 {
		steps = 1
	}
	m, err := newMigrator(db, driver)
	if err != nil {
		return err
	}
	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down: %w", err)
	}
	logVersion(m, log)
	return nil
}

func logVersion(m *migrate.Migrate, log *zap.Logger) {
	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		log.Info("database has no migrations applied")
	case dirty:
		log.Warn("database migration is dirty", zap.Uint("version", version))
	default:
		log.Info("database migrated", zap.Uint("version", version))
	}
}
