package domain

import (
	"time"
)

// Branch representa uma filial (loja ou depósito) que envia ou recebe guias.
type Branch struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
