package branchrepo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"gotransfer/internal/domain"
	"gotransfer/internal/errors"
	"gotransfer/internal/pkg/database"
	"gotransfer/internal/pkg/logger"
)

// BranchRepository é o diretório de filiais (somente leitura para a API).
type BranchRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewBranchRepository cria e retorna uma nova instância do Repositório de Filiais.
func NewBranchRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *BranchRepository {
	return &BranchRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// CreateBranch cadastra uma filial. Usado pelo slipctl e pelos testes; a API não expõe escrita.
func (r *BranchRepository) CreateBranch(ctx context.Context, branch domain.Branch) (domain.Branch, error) {
	r.logger.Debug("Iniciando CreateBranch no repositório.", map[string]interface{}{"name": branch.Name})

	if strings.TrimSpace(branch.Name) == "" {
		return domain.Branch{}, errors.NewValidationError("O nome da filial é obrigatório.")
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if branch.ID == "" {
		branch.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	branch.CreatedAt = now
	branch.UpdatedAt = now

	query := `
        INSERT INTO branches (id, name, created_at, updated_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id, name, created_at, updated_at`

	err := r.DB.QueryRowContext(ctxTimeout, query,
		branch.ID, branch.Name, branch.CreatedAt, branch.UpdatedAt,
	).Scan(
		&branch.ID, &branch.Name, &branch.CreatedAt, &branch.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return domain.Branch{}, errors.NewConflictError(fmt.Sprintf("Filial com ID %s já existe.", branch.ID))
		}
		r.logger.Error("Falha ao inserir filial no DB.", err)
		return domain.Branch{}, errors.NewDBError("Falha ao criar filial", err)
	}

	r.logger.Info("Filial criada com sucesso.", map[string]interface{}{"id": branch.ID, "name": branch.Name})
	return branch, nil
}

// GetBranchByID busca uma filial pelo ID.
func (r *BranchRepository) GetBranchByID(ctx context.Context, id string) (domain.Branch, error) {
	r.logger.Debug("Iniciando GetBranchByID no repositório.", map[string]interface{}{"id": id})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, name, created_at, updated_at
        FROM branches
        WHERE id = $1`

	var branch domain.Branch
	err := r.DB.QueryRowContext(ctxTimeout, query, id).Scan(
		&branch.ID, &branch.Name, &branch.CreatedAt, &branch.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		r.logger.Info("Filial não encontrada.", map[string]interface{}{"id": id})
		return domain.Branch{}, errors.NewNotFoundError(fmt.Sprintf("Filial com ID %s não encontrada.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar filial no DB.", err)
		return domain.Branch{}, errors.NewDBError("Falha ao buscar filial", err)
	}

	r.logger.Debug("Filial encontrada.", map[string]interface{}{"id": id, "name": branch.Name})
	return branch, nil
}

// GetAllBranches busca todas as filiais, ordenadas por nome.
func (r *BranchRepository) GetAllBranches(ctx context.Context) ([]domain.Branch, error) {
	r.logger.Debug("Iniciando GetAllBranches no repositório.", nil)

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, name, created_at, updated_at
        FROM branches
        ORDER BY name`

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		r.logger.Error("Falha ao executar GetAllBranches query.", err)
		return nil, errors.NewDBError("Falha ao buscar todas as filiais", err)
	}
	defer rows.Close()

	branches := []domain.Branch{}
	for rows.Next() {
		var branch domain.Branch
		if err := rows.Scan(&branch.ID, &branch.Name, &branch.CreatedAt, &branch.UpdatedAt); err != nil {
			r.logger.Error("Falha ao mapear filial na iteração de GetAllBranches.", err)
			return nil, errors.NewDBError("Falha ao mapear filiais do DB", err)
		}
		branches = append(branches, branch)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Erro após iteração das linhas de filiais.", err)
		return nil, errors.NewDBError("Erro após iteração de filiais", err)
	}

	r.logger.Info("GetAllBranches concluído com sucesso.", map[string]interface{}{"total_branches": len(branches)})
	return branches, nil
}
