package transferservice

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"gotransfer/internal/domain"
	apperror "gotransfer/internal/errors"
	"gotransfer/internal/pkg/logger"
	"gotransfer/internal/repository/sliprepo"
	"gotransfer/internal/slipcode"
)

// DefaultLedgerTimeout é usado quando nenhum prazo é configurado para o livro de estoque.
const DefaultLedgerTimeout = 2 * time.Second

// SlipStore define o contrato que o serviço espera do armazenamento de guias.
type SlipStore interface {
	Get(ctx context.Context, id string) (domain.TransferSlip, error)
	CompareAndTransition(ctx context.Context, t domain.Transition, effect sliprepo.Effect) (domain.TransferSlip, error)
	ListByDestination(ctx context.Context, branchID string, status domain.SlipStatus) ([]domain.TransferSlip, error)
}

// Ledger credita o estoque da filial de destino dentro da transação da guia.
type Ledger interface {
	ApplyIncrement(ctx context.Context, tx *sql.Tx, inc domain.StockIncrement) error
}

// CredentialVerifier valida o PIN do funcionário contra a filial.
type CredentialVerifier interface {
	Verify(ctx context.Context, branchID, pin string) (domain.StaffCredential, error)
}

// AttemptLimiter controla tentativas de PIN por guia.
type AttemptLimiter interface {
	Locked(ctx context.Context, slipID string) bool
	RecordFailure(ctx context.Context, slipID string)
	Reset(ctx context.Context, slipID string)
}

// BranchDirectory resolve o nome das filiais para exibição.
type BranchDirectory interface {
	GetBranchByID(ctx context.Context, id string) (domain.Branch, error)
}

// Service implementa domain.SlipService: a máquina de estados das guias de transferência.
type Service struct {
	slips         SlipStore
	ledger        Ledger
	verifier      CredentialVerifier
	attempts      AttemptLimiter
	branches      BranchDirectory
	ledgerTimeout time.Duration
	logger        logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Transferências.
// attempts e branches podem ser nil (sem bloqueio de PIN / sem nomes de filial).
func NewService(
	slips SlipStore,
	ledger Ledger,
	verifier CredentialVerifier,
	attempts AttemptLimiter,
	branches BranchDirectory,
	ledgerTimeout time.Duration,
	logger logger.Logger,
) *Service {
	if ledgerTimeout <= 0 {
		ledgerTimeout = DefaultLedgerTimeout
	}
	return &Service{
		slips:         slips,
		ledger:        ledger,
		verifier:      verifier,
		attempts:      attempts,
		branches:      branches,
		ledgerTimeout: ledgerTimeout,
		logger:        logger,
	}
}

var _ domain.SlipService = (*Service)(nil)

// Scan interpreta o texto do QR code e devolve a guia referenciada, em qualquer status.
// Não altera nada: ler o mesmo código várias vezes devolve sempre o mesmo resultado.
func (s *Service) Scan(ctx context.Context, token string) (domain.SlipDetail, error) {
	s.logger.Debug("Iniciando leitura de QR code no serviço.", map[string]interface{}{"token_length": len(token)})

	ref, err := slipcode.Decode(token)
	if err != nil {
		s.logger.Info("QR code recusado.", map[string]interface{}{"error": err.Error()})
		return domain.SlipDetail{}, err
	}

	slip, err := s.slips.Get(ctx, ref.SlipID)
	if err != nil {
		return domain.SlipDetail{}, err
	}

	// O token referencia guia e transferência; uma combinação que não existe não aponta para nenhuma guia.
	if slip.TransferID != ref.TransferID {
		s.logger.Warn("QR code com transferência divergente da guia.", map[string]interface{}{
			"slip_id":        ref.SlipID,
			"token_transfer": ref.TransferID,
			"slip_transfer":  slip.TransferID,
		})
		return domain.SlipDetail{}, apperror.NewSlipNotFoundError(ref.SlipID)
	}

	s.logger.Info("Guia lida pelo QR code.", map[string]interface{}{"slip_id": slip.ID, "status": slip.Status})
	return s.detail(ctx, slip), nil
}

// Receive confirma o recebimento da guia na filial de destino e credita o estoque uma única vez.
//
// Ordem das verificações: existência, status, bloqueio de PIN, PIN, transição condicional.
// Uma guia que não está mais em trânsito responde InvalidState mesmo com PIN incorreto.
func (s *Service) Receive(ctx context.Context, slipID, pin string) (domain.SlipDetail, error) {
	s.logger.Debug("Iniciando recebimento de guia no serviço.", map[string]interface{}{"slip_id": slipID})

	slip, err := s.slips.Get(ctx, slipID)
	if err != nil {
		return domain.SlipDetail{}, err
	}

	if slip.Status != domain.SlipInTransit {
		s.logger.Info("Recebimento de guia fora de trânsito.", map[string]interface{}{"slip_id": slipID, "status": slip.Status})
		return domain.SlipDetail{}, apperror.NewInvalidStateError(slipID, slip.Status)
	}

	if s.attempts != nil && s.attempts.Locked(ctx, slipID) {
		s.logger.Warn("Recebimento recusado: guia bloqueada por tentativas de PIN.", map[string]interface{}{"slip_id": slipID})
		return domain.SlipDetail{}, apperror.NewCredentialLockedError(slipID)
	}

	staff, err := s.verifier.Verify(ctx, slip.ToBranch, pin)
	if err != nil {
		var denied *apperror.DeniedCredentialError
		if errors.As(err, &denied) && s.attempts != nil {
			s.attempts.RecordFailure(ctx, slipID)
		}
		return domain.SlipDetail{}, err
	}

	inc := domain.StockIncrement{
		ProductID: slip.ProductID,
		BranchID:  slip.ToBranch,
		Quantity:  slip.Quantity,
		Reference: slip.ID,
	}

	updated, err := s.slips.CompareAndTransition(ctx, domain.Transition{
		SlipID: slipID,
		From:   domain.SlipInTransit,
		To:     domain.SlipCompleted,
		At:     time.Now().UTC(),
		Actor:  staff.StaffID,
	}, s.creditEffect(inc))
	if err != nil {
		return domain.SlipDetail{}, err
	}

	if s.attempts != nil {
		s.attempts.Reset(ctx, slipID)
	}

	s.logger.Info("Guia recebida e estoque creditado.", map[string]interface{}{
		"slip_id":     updated.ID,
		"transfer_id": updated.TransferID,
		"to_branch":   updated.ToBranch,
		"quantity":    updated.Quantity,
		"received_by": updated.ReceivedBy,
	})
	return s.detail(ctx, updated), nil
}

// creditEffect aplica o crédito com prazo próprio. Qualquer falha do livro vira LedgerUnavailable
// e desfaz a transição: a guia continua em trânsito e o recebimento pode ser repetido.
func (s *Service) creditEffect(inc domain.StockIncrement) sliprepo.Effect {
	return func(ctx context.Context, tx *sql.Tx) error {
		ledgerCtx, cancel := context.WithTimeout(ctx, s.ledgerTimeout)
		defer cancel()

		if err := s.ledger.ApplyIncrement(ledgerCtx, tx, inc); err != nil {
			s.logger.Error("Falha no livro de estoque durante o recebimento.", err)
			return apperror.NewLedgerUnavailableError(err)
		}
		if err := ledgerCtx.Err(); err != nil {
			s.logger.Error("Prazo do livro de estoque esgotado durante o recebimento.", err)
			return apperror.NewLedgerUnavailableError(err)
		}
		return nil
	}
}

// Cancel encerra uma guia em trânsito sem movimentar estoque (entrada do cancelamento externo).
func (s *Service) Cancel(ctx context.Context, slipID, reason string) (domain.SlipDetail, error) {
	s.logger.Debug("Iniciando cancelamento de guia no serviço.", map[string]interface{}{"slip_id": slipID})

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return domain.SlipDetail{}, apperror.NewValidationError("O motivo do cancelamento é obrigatório.")
	}

	updated, err := s.slips.CompareAndTransition(ctx, domain.Transition{
		SlipID: slipID,
		From:   domain.SlipInTransit,
		To:     domain.SlipCancelled,
		At:     time.Now().UTC(),
		Reason: reason,
	}, nil)
	if err != nil {
		return domain.SlipDetail{}, err
	}

	s.logger.Info("Guia cancelada.", map[string]interface{}{"slip_id": updated.ID, "reason": reason})
	return s.detail(ctx, updated), nil
}

// ListForBranch lista as guias destinadas à filial, opcionalmente filtradas por status.
func (s *Service) ListForBranch(ctx context.Context, branchID string, status domain.SlipStatus) ([]domain.SlipDetail, error) {
	s.logger.Debug("Listando guias da filial no serviço.", map[string]interface{}{"branch_id": branchID, "status": status})

	if strings.TrimSpace(branchID) == "" {
		return nil, apperror.NewValidationError("O ID da filial é obrigatório.")
	}
	if status != "" && !status.Valid() {
		return nil, apperror.NewValidationError("Status de guia inválido: " + string(status))
	}

	slips, err := s.slips.ListByDestination(ctx, branchID, status)
	if err != nil {
		return nil, err
	}

	names := map[string]string{}
	details := make([]domain.SlipDetail, 0, len(slips))
	for _, slip := range slips {
		details = append(details, domain.SlipDetail{
			TransferSlip:   slip,
			FromBranchName: s.branchName(ctx, slip.FromBranch, names),
			ToBranchName:   s.branchName(ctx, slip.ToBranch, names),
		})
	}
	return details, nil
}

func (s *Service) detail(ctx context.Context, slip domain.TransferSlip) domain.SlipDetail {
	names := map[string]string{}
	return domain.SlipDetail{
		TransferSlip:   slip,
		FromBranchName: s.branchName(ctx, slip.FromBranch, names),
		ToBranchName:   s.branchName(ctx, slip.ToBranch, names),
	}
}

// branchName nunca falha: filial desconhecida ou diretório indisponível resulta em nome vazio.
func (s *Service) branchName(ctx context.Context, id string, seen map[string]string) string {
	if s.branches == nil || id == "" {
		return ""
	}
	if name, ok := seen[id]; ok {
		return name
	}
	branch, err := s.branches.GetBranchByID(ctx, id)
	if err != nil {
		s.logger.Debug("Nome da filial indisponível.", map[string]interface{}{"branch_id": id, "error": err.Error()})
		seen[id] = ""
		return ""
	}
	seen[id] = branch.Name
	return branch.Name
}
