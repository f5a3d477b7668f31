// Package credential valida o PIN do funcionário que recebe uma guia na filial de destino.
package credential

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/width"

	"gotransfer/internal/domain"
	apperror "gotransfer/internal/errors"
	"gotransfer/internal/pkg/logger"
)

// PINLength é o tamanho fixo do PIN numérico.
const PINLength = 6

// CredentialRepository define o que o verificador precisa da camada de persistência.
type CredentialRepository interface {
	FindByBranch(ctx context.Context, branchID string) ([]domain.StaffCredential, error)
}

// Verifier compara o PIN informado com o material de credencial da filial.
type Verifier struct {
	repo   CredentialRepository
	logger logger.Logger
}

// NewVerifier cria um novo verificador de credenciais.
func NewVerifier(repo CredentialRepository, logger logger.Logger) *Verifier {
	return &Verifier{repo: repo, logger: logger}
}

// Verify aprova o PIN se ele corresponder a algum funcionário autorizado da filial.
// Devolve a credencial correspondente para fins de auditoria (received_by).
func (v *Verifier) Verify(ctx context.Context, branchID, pin string) (domain.StaffCredential, error) {
	pin, ok := NormalizePIN(pin)
	if !ok {
		v.logger.Debug("PIN com formato inválido.", map[string]interface{}{"branch_id": branchID})
		return domain.StaffCredential{}, apperror.NewDeniedCredentialError()
	}

	creds, err := v.repo.FindByBranch(ctx, branchID)
	if err != nil {
		v.logger.Error("Falha ao carregar credenciais da filial.", err)
		if _, typed := apperror.AsAppError(err); typed {
			return domain.StaffCredential{}, err
		}
		return domain.StaffCredential{}, apperror.NewInternalError("Falha ao carregar credenciais.", err)
	}

	// Todas as credenciais são comparadas para que o tempo de resposta não revele qual delas confere.
	var matched domain.StaffCredential
	found := false
	for _, c := range creds {
		if bcrypt.CompareHashAndPassword([]byte(c.PINHash), []byte(pin)) == nil && !found {
			matched = c
			found = true
		}
	}

	if !found {
		v.logger.Info("PIN recusado para a filial.", map[string]interface{}{"branch_id": branchID, "candidates": len(creds)})
		return domain.StaffCredential{}, apperror.NewDeniedCredentialError()
	}

	v.logger.Debug("PIN aprovado.", map[string]interface{}{"branch_id": branchID, "staff_id": matched.StaffID})
	return matched, nil
}

// NormalizePIN converte dígitos de largura total para ASCII e valida o formato (6 dígitos).
func NormalizePIN(pin string) (string, bool) {
	pin = strings.TrimSpace(width.Narrow.String(pin))
	if len(pin) != PINLength {
		return "", false
	}
	for i := 0; i < len(pin); i++ {
		if pin[i] < '0' || pin[i] > '9' {
			return "", false
		}
	}
	return pin, true
}

// HashPIN gera o material de credencial (bcrypt) de um PIN válido.
func HashPIN(pin string, cost int) (string, error) {
	pin, ok := NormalizePIN(pin)
	if !ok {
		return "", apperror.NewValidationError("O PIN deve ter exatamente 6 dígitos.")
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), cost)
	if err != nil {
		return "", apperror.NewInternalError("Falha ao gerar hash do PIN.", err)
	}
	return string(hash), nil
}
