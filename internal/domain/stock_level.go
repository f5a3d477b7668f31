package domain

import "time"

// StockLevel representa o nível de estoque de um produto em uma filial.
// Inclui uma coluna 'version' para controle de concorrência otimista.
type StockLevel struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	BranchID  string    `json:"branch_id"`
	Quantity  int       `json:"quantity"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StockIncrement é o efeito de um recebimento no livro de estoque da filial de destino.
// Reference identifica a origem do crédito (o ID da guia) e é única por filial.
type StockIncrement struct {
	ProductID string
	BranchID  string
	Quantity  int
	Reference string
}
