// Package slipcode codifica e decodifica o payload textual embutido no QR code das guias de
// transferência. O token só referencia a guia; quantidade e filiais são sempre relidas do banco.
package slipcode

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode"

	"golang.org/x/text/width"

	"gotransfer/internal/domain"
	apperror "gotransfer/internal/errors"
)

const (
	// MaxTokenLength limita o tamanho do texto aceito e produzido (cabe com folga em um QR versão 10).
	MaxTokenLength = 512
	// MaxIDLength limita cada identificador do token.
	MaxIDLength = 64
)

// wirePayload é o formato do QR. A ordem dos campos define a saída determinística do Encode.
type wirePayload struct {
	Type       string `json:"type"`
	TransferID string `json:"transferId"`
	SlipID     string `json:"slipId"`
}

// decodePayload usa ponteiros para distinguir campo ausente de campo vazio.
// Campos desconhecidos (inclusive quantity e branches) são ignorados.
type decodePayload struct {
	Type       *string `json:"type"`
	TransferID *string `json:"transferId"`
	SlipID     *string `json:"slipId"`
}

// Encode produz o texto do QR code para a referência informada.
func Encode(ref domain.SlipRef) (string, error) {
	if ref.Type != "" && ref.Type != domain.SlipTokenType {
		return "", apperror.NewUnsupportedTokenTypeError(ref.Type)
	}
	if err := validateID("transferId", ref.TransferID); err != nil {
		return "", err
	}
	if err := validateID("slipId", ref.SlipID); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(wirePayload{
		Type:       domain.SlipTokenType,
		TransferID: ref.TransferID,
		SlipID:     ref.SlipID,
	}); err != nil {
		return "", apperror.NewInternalError("Falha ao codificar o token da guia.", err)
	}

	token := strings.TrimSuffix(buf.String(), "\n")
	if len(token) > MaxTokenLength {
		return "", apperror.NewValidationError("Token da guia excede o tamanho máximo do QR code.")
	}
	return token, nil
}

// NewRef monta a referência de uma guia já persistida.
func NewRef(slip domain.TransferSlip) domain.SlipRef {
	return domain.SlipRef{Type: domain.SlipTokenType, TransferID: slip.TransferID, SlipID: slip.ID}
}

// Decode interpreta o texto lido do QR code.
func Decode(text string) (domain.SlipRef, error) {
	// Leitores em modo teclado de alguns layouts emitem pontuação em largura total.
	text = strings.TrimSpace(width.Narrow.String(text))
	if text == "" {
		return domain.SlipRef{}, apperror.NewMalformedTokenError("conteúdo vazio")
	}
	if len(text) > MaxTokenLength {
		return domain.SlipRef{}, apperror.NewMalformedTokenError("conteúdo excede o tamanho máximo")
	}
	if text[0] != '{' {
		return domain.SlipRef{}, apperror.NewMalformedTokenError("conteúdo não é um objeto JSON")
	}

	var p decodePayload
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return domain.SlipRef{}, apperror.NewMalformedTokenError("JSON inválido")
	}

	if p.Type == nil {
		return domain.SlipRef{}, apperror.NewUnsupportedTokenTypeError("")
	}
	if *p.Type != domain.SlipTokenType {
		return domain.SlipRef{}, apperror.NewUnsupportedTokenTypeError(*p.Type)
	}

	if p.TransferID == nil || p.SlipID == nil {
		return domain.SlipRef{}, apperror.NewMalformedTokenError("referência da guia incompleta")
	}
	if err := validateDecodedID(*p.TransferID); err != nil {
		return domain.SlipRef{}, err
	}
	if err := validateDecodedID(*p.SlipID); err != nil {
		return domain.SlipRef{}, err
	}

	return domain.SlipRef{
		Type:       domain.SlipTokenType,
		TransferID: *p.TransferID,
		SlipID:     *p.SlipID,
	}, nil
}

func validateID(field, id string) error {
	if !validID(id) {
		return apperror.NewValidationError(field + " deve ter entre 1 e 64 caracteres imprimíveis.")
	}
	return nil
}

func validateDecodedID(id string) error {
	if !validID(id) {
		return apperror.NewMalformedTokenError("identificador inválido na referência da guia")
	}
	return nil
}

func validID(id string) bool {
	if id == "" || len(id) > MaxIDLength || strings.TrimSpace(id) != id {
		return false
	}
	for _, r := range id {
		if r > unicode.MaxASCII || !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}
