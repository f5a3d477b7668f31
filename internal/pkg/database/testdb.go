package database

import (
	"context"
	"database/sql"
	"testing"
)

// NewTestDB cria um banco SQLite em memória com todas as migrações aplicadas.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("falha ao abrir o banco de teste: %v", err)
	}

	if err := Migrate(context.Background(), db, DriverSQLite); err != nil {
		db.Close()
		t.Fatalf("falha ao migrar o banco de teste: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	return db
}
