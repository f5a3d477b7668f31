package sliprepo

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"gotransfer/internal/domain"
	apperror "gotransfer/internal/errors"
	"gotransfer/internal/pkg/logger"
)

// Effect é executado dentro da transação da mudança de status. Se devolver erro,
// nem o efeito nem a mudança de status são confirmados.
type Effect func(ctx context.Context, tx *sql.Tx) error

// SlipRepository é o armazenamento durável das guias de transferência.
// CompareAndTransition é o único caminho de escrita do campo status.
type SlipRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewSlipRepository cria e retorna uma nova instância do Repositório de Guias.
func NewSlipRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *SlipRepository {
	return &SlipRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

const slipColumns = `id, transfer_id, product_id, product_name, quantity, from_branch, to_branch,
        status, notes, requested_at, completed_at, received_by, cancelled_at, cancel_reason`

// rowScanner cobre *sql.Row e *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlip(row rowScanner) (domain.TransferSlip, error) {
	var (
		s            domain.TransferSlip
		status       string
		completedAt  sql.NullTime
		receivedBy   sql.NullString
		cancelledAt  sql.NullTime
		cancelReason sql.NullString
	)
	err := row.Scan(
		&s.ID, &s.TransferID, &s.ProductID, &s.ProductName, &s.Quantity, &s.FromBranch, &s.ToBranch,
		&status, &s.Notes, &s.RequestedTimestamp, &completedAt, &receivedBy, &cancelledAt, &cancelReason,
	)
	if err != nil {
		return domain.TransferSlip{}, err
	}

	st, ok := domain.ParseSlipStatus(status)
	if !ok {
		return domain.TransferSlip{}, apperror.NewInternalError("Status de guia desconhecido no banco: "+status, nil)
	}
	s.Status = st
	if completedAt.Valid {
		t := completedAt.Time
		s.CompletedAt = &t
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time
		s.CancelledAt = &t
	}
	s.ReceivedBy = receivedBy.String
	s.CancelReason = cancelReason.String
	return s, nil
}

// Get busca uma guia pelo ID.
func (r *SlipRepository) Get(ctx context.Context, id string) (domain.TransferSlip, error) {
	r.logger.Debug("Buscando guia no repositório.", map[string]interface{}{"slip_id": id})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + slipColumns + ` FROM transfer_slips WHERE id = $1`

	slip, err := scanSlip(r.DB.QueryRowContext(ctxTimeout, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Info("Guia não encontrada.", map[string]interface{}{"slip_id": id})
		return domain.TransferSlip{}, apperror.NewSlipNotFoundError(id)
	}
	if err != nil {
		if _, typed := apperror.AsAppError(err); typed {
			return domain.TransferSlip{}, err
		}
		r.logger.Error("Falha ao buscar guia no DB.", err)
		return domain.TransferSlip{}, apperror.NewDBError("Falha ao buscar guia", err)
	}

	return slip, nil
}

// Create persiste uma nova guia em trânsito (usado pelo fluxo de envio e pelo slipctl).
func (r *SlipRepository) Create(ctx context.Context, slip domain.TransferSlip) (domain.TransferSlip, error) {
	r.logger.Debug("Iniciando criação de guia no repositório.", map[string]interface{}{"transfer_id": slip.TransferID})

	if err := validateNewSlip(slip); err != nil {
		return domain.TransferSlip{}, err
	}

	if slip.ID == "" {
		slip.ID = uuid.NewString()
	}
	if slip.RequestedTimestamp.IsZero() {
		slip.RequestedTimestamp = time.Now().UTC()
	}
	slip.Status = domain.SlipInTransit
	slip.CompletedAt, slip.CancelledAt = nil, nil
	slip.ReceivedBy, slip.CancelReason = "", ""

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        INSERT INTO transfer_slips (id, transfer_id, product_id, product_name, quantity,
            from_branch, to_branch, status, notes, requested_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.DB.ExecContext(ctxTimeout, query,
		slip.ID, slip.TransferID, slip.ProductID, slip.ProductName, slip.Quantity,
		slip.FromBranch, slip.ToBranch, string(slip.Status), slip.Notes, slip.RequestedTimestamp,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir guia no DB.", err)
		return domain.TransferSlip{}, apperror.NewDBError("Falha ao criar guia", err)
	}

	r.logger.Info("Guia criada.", map[string]interface{}{"slip_id": slip.ID, "transfer_id": slip.TransferID, "quantity": slip.Quantity})
	return slip, nil
}

func validateNewSlip(s domain.TransferSlip) error {
	switch {
	case strings.TrimSpace(s.TransferID) == "":
		return apperror.NewValidationError("transferId é obrigatório.")
	case strings.TrimSpace(s.ProductID) == "":
		return apperror.NewValidationError("productId é obrigatório.")
	case s.Quantity <= 0:
		return apperror.NewValidationError("A quantidade da guia deve ser positiva.")
	case s.FromBranch == "" || s.ToBranch == "":
		return apperror.NewValidationError("Filial de origem e de destino são obrigatórias.")
	case s.FromBranch == s.ToBranch:
		return apperror.NewValidationError("A filial de destino deve ser diferente da filial de origem.")
	}
	return nil
}

// CompareAndTransition muda o status de t.From para t.To e aplica o efeito na mesma transação.
//
// O UPDATE condicional trava a linha (PostgreSQL) ou o banco (SQLite) até o commit, então
// recebimentos concorrentes da mesma guia são serializados: o segundo reavalia o WHERE depois
// do commit do primeiro, não encontra mais a guia em t.From e recebe InvalidState.
func (r *SlipRepository) CompareAndTransition(ctx context.Context, t domain.Transition, effect Effect) (domain.TransferSlip, error) {
	r.logger.Debug("Iniciando transição de status da guia.", map[string]interface{}{
		"slip_id": t.SlipID,
		"from":    t.From,
		"to":      t.To,
	})

	if !t.From.CanTransitionTo(t.To) {
		return domain.TransferSlip{}, apperror.NewInternalError("Transição de status não permitida: "+string(t.From)+" -> "+string(t.To), nil)
	}

	at := t.At
	if at.IsZero() {
		at = time.Now().UTC()
	}

	var completedAt, cancelledAt sql.NullTime
	var receivedBy, cancelReason sql.NullString
	switch t.To {
	case domain.SlipCompleted:
		completedAt = sql.NullTime{Time: at, Valid: true}
		receivedBy = sql.NullString{String: t.Actor, Valid: t.Actor != ""}
	case domain.SlipCancelled:
		cancelledAt = sql.NullTime{Time: at, Valid: true}
		cancelReason = sql.NullString{String: t.Reason, Valid: t.Reason != ""}
	case domain.SlipInTransit:
		// Inalcançável: CanTransitionTo nunca volta para in_transit.
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		r.logger.Error("Falha ao iniciar transação da guia.", err)
		return domain.TransferSlip{}, apperror.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback() // Rollback em caso de erro; no-op após o Commit

	queryUpdate := `
        UPDATE transfer_slips
        SET status = $1,
            completed_at = COALESCE($2, completed_at),
            received_by = COALESCE($3, received_by),
            cancelled_at = COALESCE($4, cancelled_at),
            cancel_reason = COALESCE($5, cancel_reason)
        WHERE id = $6 AND status = $7
        RETURNING ` + slipColumns

	slip, err := scanSlip(tx.QueryRowContext(ctxTimeout, queryUpdate,
		string(t.To), completedAt, receivedBy, cancelledAt, cancelReason, t.SlipID, string(t.From),
	))
	if errors.Is(err, sql.ErrNoRows) {
		// Nenhuma linha: a guia não existe ou não está mais no status esperado.
		return domain.TransferSlip{}, r.classifyMiss(ctxTimeout, tx, t.SlipID)
	}
	if err != nil {
		if _, typed := apperror.AsAppError(err); typed {
			return domain.TransferSlip{}, err
		}
		r.logger.Error("Falha ao atualizar status da guia.", err)
		return domain.TransferSlip{}, apperror.NewDBError("Falha ao atualizar status da guia", err)
	}

	if effect != nil {
		if err := effect(ctxTimeout, tx); err != nil {
			r.logger.Warn("Efeito da transição falhou; status da guia preservado.", map[string]interface{}{
				"slip_id": t.SlipID,
				"error":   err.Error(),
			})
			return domain.TransferSlip{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Falha ao commitar transição da guia.", err)
		return domain.TransferSlip{}, apperror.NewDBError("Falha ao commitar transação", err)
	}

	r.logger.Info("Status da guia atualizado.", map[string]interface{}{"slip_id": slip.ID, "status": slip.Status})
	return slip, nil
}

// classifyMiss distingue guia inexistente de guia em outro status.
func (r *SlipRepository) classifyMiss(ctx context.Context, tx *sql.Tx, slipID string) error {
	var status string
	err := tx.QueryRowContext(ctx, `SELECT status FROM transfer_slips WHERE id = $1`, slipID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Info("Guia não encontrada para transição.", map[string]interface{}{"slip_id": slipID})
		return apperror.NewSlipNotFoundError(slipID)
	}
	if err != nil {
		r.logger.Error("Falha ao consultar status atual da guia.", err)
		return apperror.NewDBError("Falha ao consultar status da guia", err)
	}

	r.logger.Info("Transição recusada: guia fora do status esperado.", map[string]interface{}{"slip_id": slipID, "current": status})
	return apperror.NewInvalidStateError(slipID, domain.SlipStatus(status))
}

// ListByDestination lista as guias destinadas a uma filial, mais recentes primeiro.
// status vazio lista todos os status.
func (r *SlipRepository) ListByDestination(ctx context.Context, branchID string, status domain.SlipStatus) ([]domain.TransferSlip, error) {
	r.logger.Debug("Listando guias da filial de destino.", map[string]interface{}{"branch_id": branchID, "status": status})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + slipColumns + ` FROM transfer_slips WHERE to_branch = $1`
	args := []interface{}{branchID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, string(status))
	}
	query += ` ORDER BY requested_at DESC, id`

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao listar guias no DB.", err)
		return nil, apperror.NewDBError("Falha ao listar guias", err)
	}
	defer rows.Close()

	slips := []domain.TransferSlip{}
	for rows.Next() {
		slip, err := scanSlip(rows)
		if err != nil {
			r.logger.Error("Falha ao mapear guia na listagem.", err)
			if _, typed := apperror.AsAppError(err); typed {
				return nil, err
			}
			return nil, apperror.NewDBError("Falha ao mapear guias do DB", err)
		}
		slips = append(slips, slip)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Erro após iteração das guias.", err)
		return nil, apperror.NewDBError("Erro após iteração de guias", err)
	}

	r.logger.Info("Guias listadas.", map[string]interface{}{"branch_id": branchID, "total": len(slips)})
	return slips, nil
}
