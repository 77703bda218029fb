package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/sirupsen/logrus"

	_ "github.com/go-sql-driver/mysql"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigrateUp applies every pending migration. The DSN must allow
// multiStatements; config.MySQLDSN sets it.
func MigrateUp(dsn string, log logrus.FieldLogger) error {
	m, err := getMigrate(dsn)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("migrate: no new migrations to apply")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, _, _ := m.Version()
	log.WithField("version", version).Info("migrate: schema migrated")
	return nil
}

// MigrateDown rolls back steps migrations.
func MigrateDown(dsn string, steps int, log logrus.FieldLogger) error {
	if steps <= 0 {
		return fmt.Errorf("invalid steps value: %d", steps)
	}
	m, err := getMigrate(dsn)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	err = m.Steps(-steps)
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("migrate: no migrations to roll back")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to roll back migrations: %w", err)
	}

	version, _, _ := m.Version()
	log.WithField("version", version).Info("migrate: rolled back")
	return nil
}

// MigrateStatus reports the applied version. ok is false when nothing has been
// applied yet.
func MigrateStatus(dsn string) (version uint, dirty, ok bool, err error) {
	m, err := getMigrate(dsn)
	if err != nil {
		return 0, false, false, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	version, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, false, nil
	}
	if err != nil {
		return 0, false, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	return version, dirty, true, nil
}

// sourceDriver reads the embedded migration files.
func sourceDriver() (source.Driver, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to create source driver: %w", err)
	}
	return src, nil
}

// getMigrate opens its own pool; m.Close releases it.
func getMigrate(dsn string) (*migrate.Migrate, error) {
	sqlDB, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	driver, err := migratemysql.WithInstance(sqlDB, &migratemysql.Config{})
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to create mysql driver: %w", err)
	}

	src, err := sourceDriver()
	if err != nil {
		driver.Close()
		return nil, err
	}

	m, err := migrate.NewWithInstance("iofs", src, "mysql", driver)
	if err != nil {
		driver.Close()
		return nil, err
	}
	return m, nil
}
