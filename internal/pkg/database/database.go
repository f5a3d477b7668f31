// Package database abre as conexões (PostgreSQL ou SQLite) e aplica as migrações goose.
package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"gotransfer/migrations"
)

// Drivers suportados por DB_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open abre o banco conforme o driver configurado.
func Open(driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverPostgres:
		return NewPostgresDB(dsn)
	case DriverSQLite:
		return NewSQLiteDB(dsn)
	default:
		return nil, fmt.Errorf("driver de banco desconhecido: %q", driver)
	}
}

// GooseDialect traduz o driver para o dialeto do goose.
func GooseDialect(driver string) (goose.Dialect, error) {
	switch driver {
	case DriverPostgres:
		return goose.DialectPostgres, nil
	case DriverSQLite:
		return goose.DialectSQLite3, nil
	default:
		return "", fmt.Errorf("driver de banco desconhecido: %q", driver)
	}
}

// Migrate aplica todas as migrações embutidas pendentes.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	dialect, err := GooseDialect(driver)
	if err != nil {
		return err
	}

	provider, err := goose.NewProvider(dialect, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("falha ao preparar migrações: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("falha ao aplicar migrações: %w", err)
	}
	return nil
}
