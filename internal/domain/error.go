package domain

// ErrorResponse é a estrutura padronizada para respostas de erro na API.
// @Description Estrutura padronizada para respostas de erro na API.
type ErrorResponse struct {
	Code     int    `json:"code" example:"409"`
	Category string `json:"category" example:"INVALID_STATE"`
	Message  string `json:"message" example:"Esta transferência já foi concluída."`

	// Informational indica um resultado esperado (ex: guia já recebida), que o cliente
	// deve exibir como aviso e não como falha.
	Informational bool       `json:"informational,omitempty" example:"true"`
	CurrentStatus SlipStatus `json:"currentStatus,omitempty" example:"completed"`
}
