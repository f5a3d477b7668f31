// Package response escreve as respostas JSON padronizadas da API.
package response

import (
	"encoding/json"
	"fmt"
	"net/http"

	apperror "gotransfer/internal/errors"
	"gotransfer/internal/pkg/logger"
)

// JSON envia data com o status informado.
func JSON(w http.ResponseWriter, log logger.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("Falha ao codificar JSON de resposta", err)
	}
}

// Error traduz o erro para o corpo domain.ErrorResponse e o status HTTP correspondente.
func Error(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	body := apperror.ToErrorResponse(err)

	switch {
	case body.Code >= 500:
		log.Error(fmt.Sprintf("Erro de Servidor: %s", body.Category), err)
	case body.Informational:
		log.Info("Requisição concluída com resultado informativo.", map[string]interface{}{
			"path":           r.URL.Path,
			"category":       body.Category,
			"current_status": body.CurrentStatus,
		})
	default:
		log.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", body.Code, body.Category), map[string]interface{}{"path": r.URL.Path})
	}

	JSON(w, log, body.Code, body)
}

// Handle é o atalho usado pelos handlers: erro vira ErrorResponse, sucesso vira JSON.
func Handle(w http.ResponseWriter, r *http.Request, log logger.Logger, data interface{}, err error, successStatus int) {
	if err != nil {
		Error(w, r, log, err)
		return
	}
	JSON(w, log, successStatus, data)
}
