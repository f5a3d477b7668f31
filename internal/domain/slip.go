package domain

import (
	"context"
	"time"
)

// SlipStatus é o estado de uma guia de transferência entre filiais.
// Os estados terminais (completed, cancelled) nunca mudam.
type SlipStatus string

const (
	SlipInTransit SlipStatus = "in_transit"
	SlipCompleted SlipStatus = "completed"
	SlipCancelled SlipStatus = "cancelled"
)

// ParseSlipStatus converte um texto para SlipStatus, rejeitando valores desconhecidos.
func ParseSlipStatus(s string) (SlipStatus, bool) {
	st := SlipStatus(s)
	return st, st.Valid()
}

// Valid reporta se o status pertence ao enum.
func (s SlipStatus) Valid() bool {
	switch s {
	case SlipInTransit, SlipCompleted, SlipCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reporta se o status não admite mais transições.
func (s SlipStatus) IsTerminal() bool {
	switch s {
	case SlipInTransit:
		return false
	case SlipCompleted, SlipCancelled:
		return true
	default:
		// Status desconhecido é tratado como terminal: nada pode sair dele.
		return true
	}
}

// CanTransitionTo implementa a tabela de transições da guia.
// in_transit -> completed (recebimento) | cancelled (cancelamento externo).
func (s SlipStatus) CanTransitionTo(next SlipStatus) bool {
	switch s {
	case SlipInTransit:
		switch next {
		case SlipCompleted, SlipCancelled:
			return true
		case SlipInTransit:
			return false
		default:
			return false
		}
	case SlipCompleted, SlipCancelled:
		return false
	default:
		return false
	}
}

// TransferSlip é o registro de uma movimentação de estoque entre duas filiais.
type TransferSlip struct {
	ID                 string     `json:"id"`
	TransferID         string     `json:"transferId"`
	ProductID          string     `json:"productId"`
	ProductName        string     `json:"productName"`
	Quantity           int        `json:"quantity"`
	FromBranch         string     `json:"fromBranch"`
	ToBranch           string     `json:"toBranch"`
	Status             SlipStatus `json:"status"`
	RequestedTimestamp time.Time  `json:"requestedTimestamp"`
	Notes              string     `json:"notes,omitempty"`

	// Auditoria do fechamento da guia.
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	ReceivedBy   string     `json:"receivedBy,omitempty"`
	CancelledAt  *time.Time `json:"cancelledAt,omitempty"`
	CancelReason string     `json:"cancelReason,omitempty"`
}

// SlipDetail é a guia acompanhada dos nomes das filiais (resolvidos pelo diretório de filiais).
type SlipDetail struct {
	TransferSlip
	FromBranchName string `json:"fromBranchName,omitempty"`
	ToBranchName   string `json:"toBranchName,omitempty"`
}

// SlipTokenType é o valor fixo do campo "type" do payload do QR code.
const SlipTokenType = "transfer_slip"

// SlipRef é a referência carregada pelo token do QR code.
// Não carrega quantidade nem filiais: esses dados são sempre relidos do repositório.
type SlipRef struct {
	Type       string `json:"type"`
	TransferID string `json:"transferId"`
	SlipID     string `json:"slipId"`
}

// Transition descreve uma mudança de status condicionada ao status esperado.
type Transition struct {
	SlipID string
	From   SlipStatus
	To     SlipStatus
	At     time.Time
	Actor  string // staff que confirmou o recebimento (apenas para completed)
	Reason string // motivo do cancelamento (apenas para cancelled)
}

// ReceiveRequest é o payload do endpoint de recebimento.
type ReceiveRequest struct {
	SlipID string `json:"slipId"`
	PIN    string `json:"pin"`
}

// ScanRequest é o payload do endpoint de leitura do QR code.
type ScanRequest struct {
	Token string `json:"token"`
}

// CancelRequest é o payload do endpoint de cancelamento.
type CancelRequest struct {
	Reason string `json:"reason"`
}

// SlipService define o contrato da máquina de estados das guias, consumido pelo Handler.
type SlipService interface {
	Scan(ctx context.Context, token string) (SlipDetail, error)
	Receive(ctx context.Context, slipID, pin string) (SlipDetail, error)
	Cancel(ctx context.Context, slipID, reason string) (SlipDetail, error)
	ListForBranch(ctx context.Context, branchID string, status SlipStatus) ([]SlipDetail, error)
}
