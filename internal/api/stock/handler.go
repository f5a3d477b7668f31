package stock

import (
	"context"
	"net/http"

	"gotransfer/internal/api/response"
	"gotransfer/internal/domain"
	"gotransfer/internal/pkg/logger"
)

// StockService define o contrato que o Handler espera da camada de Serviço.
type StockService interface {
	GetStockLevel(ctx context.Context, productID, branchID string) (domain.StockLevel, error)
}

// Handler agrupa os métodos de Handler de estoque.
type Handler struct {
	Service StockService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc StockService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// GetStockLevelHandler lida com a requisição GET /v1/stock.
// @Summary Consulta o saldo de um produto em uma filial
// @Tags stock
// @Produce json
// @Param product_id query string true "ID do produto"
// @Param branch_id query string true "ID da filial"
// @Success 200 {object} domain.StockLevel "Saldo atual"
// @Failure 400 {object} domain.ErrorResponse "Parâmetros ausentes"
// @Failure 404 {object} domain.ErrorResponse "Sem saldo para o produto na filial"
// @Security BearerAuth
// @Router /v1/stock [get]
func (h *Handler) GetStockLevelHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	stockLevel, err := h.Service.GetStockLevel(r.Context(), q.Get("product_id"), q.Get("branch_id"))
	response.Handle(w, r, h.Logger, stockLevel, err, http.StatusOK)
}
