package domain

import "time"

// StaffCredential é o material de credencial (hash do PIN) de um funcionário autorizado
// a receber guias em uma filial.
type StaffCredential struct {
	ID        string    `json:"id"`
	BranchID  string    `json:"branch_id"`
	StaffID   string    `json:"staff_id"`
	PINHash   string    `json:"-"` // Nunca sai na resposta
	CreatedAt time.Time `json:"created_at"`
}
