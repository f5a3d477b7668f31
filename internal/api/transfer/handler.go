package transfer

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"

	"gotransfer/internal/api/response"
	"gotransfer/internal/domain"
	apperror "gotransfer/internal/errors"
	"gotransfer/internal/pkg/logger"
	"gotransfer/internal/pkg/middleware"
)

// maxBodyBytes limita o corpo das requisições de guia (o token em si tem no máximo 512 bytes).
const maxBodyBytes = 4 << 10

// Handler agrupa os endpoints de leitura, recebimento e cancelamento de guias.
type Handler struct {
	Service domain.SlipService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc domain.SlipService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

func (h *Handler) operatorFields(r *http.Request, fields map[string]interface{}) map[string]interface{} {
	if op, ok := middleware.GetOperatorClaimsFromContext(r.Context()); ok {
		fields["operator_id"] = op.OperatorID
		fields["operator_branch"] = op.BranchID
	}
	return fields
}

// ScanHandler lida com a requisição POST /v1/slips/scan.
// @Summary Lê o QR code de uma guia
// @Description Interpreta o texto lido do QR code e devolve a guia referenciada, em qualquer status. Não altera nada.
// @Tags slips
// @Accept json,plain
// @Produce json
// @Param scan body domain.ScanRequest true "Texto lido do QR code (ou o texto cru com Content-Type text/plain)"
// @Success 200 {object} domain.SlipDetail "Guia encontrada"
// @Failure 400 {object} domain.ErrorResponse "QR code malformado"
// @Failure 404 {object} domain.ErrorResponse "Guia não encontrada"
// @Failure 422 {object} domain.ErrorResponse "QR code de outro tipo"
// @Security BearerAuth
// @Router /v1/slips/scan [post]
func (h *Handler) ScanHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		response.Error(w, r, h.Logger, apperror.NewMalformedTokenError("conteúdo excede o tamanho máximo"))
		return
	}

	tokenText := string(body)
	if !isPlainText(r) {
		var req domain.ScanRequest
		if err := json.Unmarshal(body, &req); err != nil {
			response.Error(w, r, h.Logger, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."))
			return
		}
		tokenText = req.Token
	}

	detail, err := h.Service.Scan(r.Context(), tokenText)
	response.Handle(w, r, h.Logger, detail, err, http.StatusOK)
}

func isPlainText(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "text/plain"
}

// ReceiveHandler lida com a requisição POST /v1/slips/receive.
// @Summary Confirma o recebimento de uma guia
// @Description Valida o PIN de um funcionário da filial de destino, conclui a guia e credita o estoque uma única vez.
// @Tags slips
// @Accept json
// @Produce json
// @Param receive body domain.ReceiveRequest true "ID da guia e PIN de 6 dígitos"
// @Success 200 {object} domain.SlipDetail "Guia recebida"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 403 {object} domain.ErrorResponse "PIN inválido para a filial de destino"
// @Failure 404 {object} domain.ErrorResponse "Guia não encontrada"
// @Failure 409 {object} domain.ErrorResponse "Guia já recebida ou cancelada (informativo)"
// @Failure 429 {object} domain.ErrorResponse "Muitas tentativas de PIN"
// @Failure 503 {object} domain.ErrorResponse "Livro de estoque indisponível; tente novamente"
// @Security BearerAuth
// @Router /v1/slips/receive [post]
func (h *Handler) ReceiveHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.ReceiveRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		response.Error(w, r, h.Logger, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."))
		return
	}
	req.SlipID = strings.TrimSpace(req.SlipID)
	if req.SlipID == "" {
		response.Error(w, r, h.Logger, apperror.NewValidationError("slipId é obrigatório."))
		return
	}

	h.Logger.Debug("Recebimento de guia solicitado.", h.operatorFields(r, map[string]interface{}{"slip_id": req.SlipID}))

	detail, err := h.Service.Receive(r.Context(), req.SlipID, req.PIN)
	if err == nil {
		h.Logger.Info("Recebimento confirmado via API.", h.operatorFields(r, map[string]interface{}{"slip_id": detail.ID}))
	}
	response.Handle(w, r, h.Logger, detail, err, http.StatusOK)
}

// CancelHandler lida com a requisição POST /v1/slips/{id}/cancel.
// @Summary Cancela uma guia em trânsito
// @Description Entrada do fluxo externo de cancelamento. Não movimenta estoque.
// @Tags slips
// @Accept json
// @Produce json
// @Param id path string true "ID da guia"
// @Param cancel body domain.CancelRequest true "Motivo do cancelamento"
// @Success 200 {object} domain.SlipDetail "Guia cancelada"
// @Failure 400 {object} domain.ErrorResponse "Motivo ausente"
// @Failure 403 {object} domain.ErrorResponse "Papel sem permissão"
// @Failure 404 {object} domain.ErrorResponse "Guia não encontrada"
// @Failure 409 {object} domain.ErrorResponse "Guia já encerrada (informativo)"
// @Security BearerAuth
// @Router /v1/slips/{id}/cancel [post]
func (h *Handler) CancelHandler(w http.ResponseWriter, r *http.Request) {
	slipID := r.PathValue("id")

	var req domain.CancelRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		response.Error(w, r, h.Logger, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."))
		return
	}

	h.Logger.Debug("Cancelamento de guia solicitado.", h.operatorFields(r, map[string]interface{}{"slip_id": slipID}))

	detail, err := h.Service.Cancel(r.Context(), slipID, req.Reason)
	response.Handle(w, r, h.Logger, detail, err, http.StatusOK)
}

// ListBranchSlipsHandler lida com a requisição GET /v1/branches/{id}/slips.
// @Summary Lista as guias destinadas a uma filial
// @Description Guias de entrada da filial, mais recentes primeiro, com filtro opcional de status.
// @Tags slips
// @Produce json
// @Param id path string true "ID da filial de destino"
// @Param status query string false "in_transit | completed | cancelled"
// @Success 200 {array} domain.SlipDetail "Guias da filial"
// @Failure 400 {object} domain.ErrorResponse "Status inválido"
// @Security BearerAuth
// @Router /v1/branches/{id}/slips [get]
func (h *Handler) ListBranchSlipsHandler(w http.ResponseWriter, r *http.Request) {
	branchID := r.PathValue("id")
	status := domain.SlipStatus(r.URL.Query().Get("status"))

	details, err := h.Service.ListForBranch(r.Context(), branchID, status)
	response.Handle(w, r, h.Logger, details, err, http.StatusOK)
}
