package credentialrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gotransfer/internal/domain"
	apperror "gotransfer/internal/errors"
	"gotransfer/internal/pkg/database"
	"gotransfer/internal/pkg/logger"
)

// CredentialRepository guarda o material de credencial (hash do PIN) dos funcionários por filial.
type CredentialRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewCredentialRepository cria uma nova instância do CredentialRepository, injetando o DB.
func NewCredentialRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *CredentialRepository {
	return &CredentialRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// Save cadastra o PIN (já em hash) de um funcionário em uma filial.
func (r *CredentialRepository) Save(ctx context.Context, cred domain.StaffCredential) (domain.StaffCredential, error) {
	r.logger.Debug("Iniciando Save de credencial no repositório.", map[string]interface{}{"branch_id": cred.BranchID, "staff_id": cred.StaffID})

	if cred.BranchID == "" || cred.StaffID == "" || cred.PINHash == "" {
		return domain.StaffCredential{}, apperror.NewValidationError("Filial, funcionário e hash do PIN são obrigatórios.")
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	cred.ID = uuid.NewString()
	cred.CreatedAt = time.Now().UTC()

	query := `
        INSERT INTO staff_credentials (id, branch_id, staff_id, pin_hash, created_at)
        VALUES ($1, $2, $3, $4, $5)`

	_, err := r.DB.ExecContext(ctxTimeout, query, cred.ID, cred.BranchID, cred.StaffID, cred.PINHash, cred.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			r.logger.Info("Funcionário já possui credencial na filial.", map[string]interface{}{"branch_id": cred.BranchID, "staff_id": cred.StaffID})
			return domain.StaffCredential{}, apperror.NewConflictError(fmt.Sprintf("Funcionário %s já possui PIN na filial %s.", cred.StaffID, cred.BranchID))
		}
		r.logger.Error("Falha ao inserir credencial no DB.", err)
		return domain.StaffCredential{}, apperror.NewDBError("Falha ao salvar credencial", err)
	}

	r.logger.Info("Credencial salva com sucesso no repositório.", map[string]interface{}{"credential_id": cred.ID, "branch_id": cred.BranchID, "staff_id": cred.StaffID})
	return cred, nil
}

// FindByBranch devolve todas as credenciais da filial. Lista vazia não é erro.
func (r *CredentialRepository) FindByBranch(ctx context.Context, branchID string) ([]domain.StaffCredential, error) {
	r.logger.Debug("Buscando credenciais da filial.", map[string]interface{}{"branch_id": branchID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, branch_id, staff_id, pin_hash, created_at
        FROM staff_credentials
        WHERE branch_id = $1
        ORDER BY staff_id`

	rows, err := r.DB.QueryContext(ctxTimeout, query, branchID)
	if err != nil {
		r.logger.Error("Falha ao buscar credenciais no DB.", err)
		return nil, apperror.NewDBError("Falha ao buscar credenciais", err)
	}
	defer rows.Close()

	creds := []domain.StaffCredential{}
	for rows.Next() {
		var c domain.StaffCredential
		if err := rows.Scan(&c.ID, &c.BranchID, &c.StaffID, &c.PINHash, &c.CreatedAt); err != nil {
			r.logger.Error("Falha ao mapear credencial.", err)
			return nil, apperror.NewDBError("Falha ao mapear credenciais do DB", err)
		}
		creds = append(creds, c)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Erro após iteração das credenciais.", err)
		return nil, apperror.NewDBError("Erro após iteração de credenciais", err)
	}

	r.logger.Debug("Credenciais carregadas.", map[string]interface{}{"branch_id": branchID, "total": len(creds)})
	return creds, nil
}
