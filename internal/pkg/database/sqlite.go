package database

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// NewSQLiteDB abre um banco SQLite local (modo filial única) e configura os pragmas.
//
// O pool é limitado a uma conexão: o SQLite serializa escritas de qualquer forma e,
// com uma única conexão, transações concorrentes esperam no pool em vez de falhar com SQLITE_BUSY.
func NewSQLiteDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("falha ao abrir o banco SQLite: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("falha ao aplicar pragma %q: %w", p, err)
		}
	}

	return db, nil
}
