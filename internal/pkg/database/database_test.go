package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gotransfer/internal/pkg/database"
)

func TestNewTestDB_AppliesMigrations(t *testing.T) {
	db := database.NewTestDB(t)

	for _, table := range []string{"branches", "transfer_slips", "staff_credentials", "stock_levels", "stock_movements"} {
		var name string
		err := db.QueryRowContext(context.Background(),
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = $1`, table).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}
}

func TestSlipConstraints(t *testing.T) {
	db := database.NewTestDB(t)
	ctx := context.Background()

	// Origem igual ao destino é rejeitada pelo próprio banco.
	_, err := db.ExecContext(ctx, `INSERT INTO transfer_slips
		(id, transfer_id, product_id, product_name, quantity, from_branch, to_branch, status, requested_at)
		VALUES ('S1', 'T1', 'P1', 'Café', 5, 'B1', 'B1', 'in_transit', CURRENT_TIMESTAMP)`)
	assert.Error(t, err)

	// Quantidade deve ser positiva.
	_, err = db.ExecContext(ctx, `INSERT INTO transfer_slips
		(id, transfer_id, product_id, product_name, quantity, from_branch, to_branch, status, requested_at)
		VALUES ('S2', 'T1', 'P1', 'Café', 0, 'B1', 'B2', 'in_transit', CURRENT_TIMESTAMP)`)
	assert.Error(t, err)

	// Status fora do enum.
	_, err = db.ExecContext(ctx, `INSERT INTO transfer_slips
		(id, transfer_id, product_id, product_name, quantity, from_branch, to_branch, status, requested_at)
		VALUES ('S3', 'T1', 'P1', 'Café', 1, 'B1', 'B2', 'partially_received', CURRENT_TIMESTAMP)`)
	assert.Error(t, err)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := database.Open("mysql", "x")
	assert.Error(t, err)

	_, err = database.GooseDialect("mysql")
	assert.Error(t, err)
}

func TestIsUniqueViolation(t *testing.T) {
	db := database.NewTestDB(t)
	ctx := context.Background()

	insert := `INSERT INTO branches (id, name, created_at, updated_at) VALUES ($1, $2, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`
	_, err := db.ExecContext(ctx, insert, "B1", "Centro")
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, insert, "B1", "Centro de novo")
	require.Error(t, err)
	assert.True(t, database.IsUniqueViolation(err))

	assert.False(t, database.IsUniqueViolation(nil))
	assert.False(t, database.IsUniqueViolation(assert.AnError))
}
