package branch

import (
	"context"
	"net/http"

	"gotransfer/internal/api/response"
	"gotransfer/internal/domain"
	"gotransfer/internal/pkg/logger"
)

// BranchService define o contrato que o Handler espera da camada de Serviço.
type BranchService interface {
	GetBranchByID(ctx context.Context, id string) (domain.Branch, error)
	GetAllBranches(ctx context.Context) ([]domain.Branch, error)
}

// Handler agrupa os métodos de consulta ao diretório de filiais.
type Handler struct {
	Service BranchService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc BranchService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// GetBranchByIDHandler lida com a requisição GET /v1/branches/{id}.
// @Summary Busca uma filial por ID
// @Tags branches
// @Produce json
// @Param id path string true "ID da filial"
// @Success 200 {object} domain.Branch "Filial encontrada"
// @Failure 404 {object} domain.ErrorResponse "Filial não encontrada"
// @Security BearerAuth
// @Router /v1/branches/{id} [get]
func (h *Handler) GetBranchByIDHandler(w http.ResponseWriter, r *http.Request) {
	branch, err := h.Service.GetBranchByID(r.Context(), r.PathValue("id"))
	response.Handle(w, r, h.Logger, branch, err, http.StatusOK)
}

// GetAllBranchesHandler lida com a requisição GET /v1/branches.
// @Summary Lista todas as filiais
// @Tags branches
// @Produce json
// @Success 200 {array} domain.Branch "Lista de filiais"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Security BearerAuth
// @Router /v1/branches [get]
func (h *Handler) GetAllBranchesHandler(w http.ResponseWriter, r *http.Request) {
	branches, err := h.Service.GetAllBranches(r.Context())
	response.Handle(w, r, h.Logger, branches, err, http.StatusOK)
}
