package stockrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gotransfer/internal/domain"
	"gotransfer/internal/errors"
	"gotransfer/internal/pkg/database"
	"gotransfer/internal/pkg/logger"
)

// StockRepository é o adaptador do livro de estoque por filial.
type StockRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewStockRepository cria e retorna uma nova instância do Repositório de Estoque.
func NewStockRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *StockRepository {
	return &StockRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// GetStockLevel busca o nível de estoque de um produto em uma filial.
func (r *StockRepository) GetStockLevel(ctx context.Context, productID, branchID string) (domain.StockLevel, error) {
	r.logger.Debug("Buscando nível de estoque no repositório.", map[string]interface{}{"product_id": productID, "branch_id": branchID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, product_id, branch_id, quantity, version, created_at, updated_at
        FROM stock_levels
        WHERE product_id = $1 AND branch_id = $2`

	var sl domain.StockLevel
	err := r.DB.QueryRowContext(ctxTimeout, query, productID, branchID).Scan(
		&sl.ID, &sl.ProductID, &sl.BranchID, &sl.Quantity, &sl.Version, &sl.CreatedAt, &sl.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		r.logger.Info("Nível de estoque não encontrado.", map[string]interface{}{"product_id": productID, "branch_id": branchID})
		return domain.StockLevel{}, errors.NewNotFoundError(fmt.Sprintf("Estoque do produto %s na filial %s não encontrado.", productID, branchID))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar nível de estoque no DB.", err)
		return domain.StockLevel{}, errors.NewDBError("Falha ao buscar nível de estoque", err)
	}

	r.logger.Debug("Nível de estoque encontrado.", map[string]interface{}{"product_id": productID, "branch_id": branchID, "quantity": sl.Quantity, "version": sl.Version})
	return sl, nil
}

// ApplyIncrement credita a quantidade na filial dentro da transação do chamador.
//
// O movimento é gravado antes do saldo: a chave única (reference, branch_id) recusa um segundo
// crédito da mesma guia, e o saldo só muda se o movimento entrou. Nada é confirmado aqui;
// o commit (ou rollback) pertence a quem abriu a transação.
func (r *StockRepository) ApplyIncrement(ctx context.Context, tx *sql.Tx, inc domain.StockIncrement) error {
	r.logger.Debug("Aplicando crédito no livro de estoque.", map[string]interface{}{
		"product_id": inc.ProductID,
		"branch_id":  inc.BranchID,
		"quantity":   inc.Quantity,
		"reference":  inc.Reference,
	})

	if inc.Quantity <= 0 {
		return errors.NewValidationError("O crédito de estoque deve ser positivo.")
	}
	if inc.ProductID == "" || inc.BranchID == "" || inc.Reference == "" {
		return errors.NewValidationError("Produto, filial e referência são obrigatórios no crédito de estoque.")
	}
	if err := ctx.Err(); err != nil {
		return errors.NewInternalError("Prazo do livro de estoque esgotado antes do crédito", err)
	}

	now := time.Now().UTC()

	queryMovement := `
        INSERT INTO stock_movements (id, product_id, branch_id, delta, reference, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := tx.ExecContext(ctx, queryMovement, uuid.New().String(), inc.ProductID, inc.BranchID, inc.Quantity, inc.Reference, now)
	if err != nil {
		if database.IsUniqueViolation(err) {
			r.logger.Warn("Crédito repetido recusado pelo livro de estoque.", map[string]interface{}{"reference": inc.Reference, "branch_id": inc.BranchID})
			return errors.NewConflictError(fmt.Sprintf("A referência %s já foi creditada na filial %s.", inc.Reference, inc.BranchID))
		}
		r.logger.Error("Falha ao registrar movimento de estoque.", err)
		return errors.NewDBError("Falha ao registrar movimento de estoque", err)
	}

	// Upsert: cria o saldo na primeira entrada, senão soma e incrementa a versão.
	queryUpsert := `
        INSERT INTO stock_levels (id, product_id, branch_id, quantity, version, created_at, updated_at)
        VALUES ($1, $2, $3, $4, 1, $5, $6)
        ON CONFLICT (product_id, branch_id) DO UPDATE
        SET quantity = stock_levels.quantity + excluded.quantity,
            version = stock_levels.version + 1,
            updated_at = excluded.updated_at`

	_, err = tx.ExecContext(ctx, queryUpsert, uuid.New().String(), inc.ProductID, inc.BranchID, inc.Quantity, now, now)
	if err != nil {
		r.logger.Error("Falha ao atualizar nível de estoque.", err)
		return errors.NewDBError("Falha ao atualizar estoque", err)
	}

	r.logger.Info("Crédito aplicado no livro de estoque (aguardando commit).", map[string]interface{}{
		"product_id": inc.ProductID,
		"branch_id":  inc.BranchID,
		"quantity":   inc.Quantity,
		"reference":  inc.Reference,
	})
	return nil
}

// CountMovements devolve quantos créditos uma referência gerou na filial.
func (r *StockRepository) CountMovements(ctx context.Context, reference, branchID string) (int, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var n int
	err := r.DB.QueryRowContext(ctxTimeout,
		`SELECT COUNT(*) FROM stock_movements WHERE reference = $1 AND branch_id = $2`, reference, branchID,
	).Scan(&n)
	if err != nil {
		r.logger.Error("Falha ao contar movimentos de estoque.", err)
		return 0, errors.NewDBError("Falha ao contar movimentos de estoque", err)
	}
	return n, nil
}
