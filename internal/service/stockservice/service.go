package stockservice

import (
	"context"
	"strings"

	"gotransfer/internal/domain"
	apperror "gotransfer/internal/errors"
	"gotransfer/internal/pkg/logger"
)

// StockRepository define o contrato que o Serviço de Estoque espera da camada de Persistência.
// O crédito de estoque não passa por aqui: ele acontece na transação do recebimento da guia.
type StockRepository interface {
	GetStockLevel(ctx context.Context, productID, branchID string) (domain.StockLevel, error)
}

// Service expõe as consultas de saldo por filial.
type Service struct {
	repo   StockRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Estoque.
func NewService(repo StockRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// GetStockLevel busca o saldo de um produto em uma filial.
func (s *Service) GetStockLevel(ctx context.Context, productID, branchID string) (domain.StockLevel, error) {
	s.logger.Debug("Iniciando consulta de estoque no serviço.", map[string]interface{}{
		"product_id": productID,
		"branch_id":  branchID,
	})

	if strings.TrimSpace(productID) == "" || strings.TrimSpace(branchID) == "" {
		s.logger.Warn("Consulta de estoque sem produto ou filial.", map[string]interface{}{"product_id": productID, "branch_id": branchID})
		return domain.StockLevel{}, apperror.NewValidationError("product_id e branch_id são obrigatórios.")
	}

	stockLevel, err := s.repo.GetStockLevel(ctx, productID, branchID)
	if err != nil {
		if _, typed := apperror.AsAppError(err); typed {
			return domain.StockLevel{}, err // NotFoundError ou DBError do repositório
		}
		s.logger.Error("Falha ao consultar estoque no repositório.", err)
		return domain.StockLevel{}, apperror.NewInternalError("Falha interna ao consultar estoque.", err)
	}

	s.logger.Info("Estoque consultado com sucesso.", map[string]interface{}{
		"product_id": stockLevel.ProductID,
		"branch_id":  stockLevel.BranchID,
		"quantity":   stockLevel.Quantity,
		"version":    stockLevel.Version,
	})
	return stockLevel, nil
}
