package branchservice

import (
	"context"
	"strings"

	"gotransfer/internal/domain"
	apperror "gotransfer/internal/errors"
	"gotransfer/internal/pkg/logger"
)

// BranchRepository define o contrato que o Serviço de Filiais espera da camada de Persistência.
type BranchRepository interface {
	GetBranchByID(ctx context.Context, id string) (domain.Branch, error)
	GetAllBranches(ctx context.Context) ([]domain.Branch, error)
}

// Service expõe o diretório de filiais em modo somente leitura.
type Service struct {
	repo   BranchRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Filiais.
func NewService(repo BranchRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// GetBranchByID busca uma filial pelo ID.
func (s *Service) GetBranchByID(ctx context.Context, id string) (domain.Branch, error) {
	s.logger.Debug("Iniciando busca de filial por ID no serviço.", map[string]interface{}{"id": id})

	if strings.TrimSpace(id) == "" {
		return domain.Branch{}, apperror.NewValidationError("O ID da filial é obrigatório.")
	}

	branch, err := s.repo.GetBranchByID(ctx, id)
	if err != nil {
		return domain.Branch{}, err // Erros do repositório já são NotFoundError ou DBError
	}

	s.logger.Info("Filial encontrada com sucesso.", map[string]interface{}{"id": branch.ID, "name": branch.Name})
	return branch, nil
}

// GetAllBranches lista todas as filiais.
func (s *Service) GetAllBranches(ctx context.Context) ([]domain.Branch, error) {
	s.logger.Debug("Iniciando busca de todas as filiais no serviço.", nil)

	branches, err := s.repo.GetAllBranches(ctx)
	if err != nil {
		s.logger.Error("Falha ao buscar todas as filiais no repositório.", err)
		if _, typed := apperror.AsAppError(err); typed {
			return nil, err
		}
		return nil, apperror.NewInternalError("Falha interna ao buscar filiais.", err)
	}

	s.logger.Info("Todas as filiais recuperadas com sucesso.", map[string]interface{}{"count": len(branches)})
	return branches, nil
}
