package middleware

import (
	"context"
	"net/http"
	"strings"

	"gotransfer/internal/api/response"
	"gotransfer/internal/domain"
	apperror "gotransfer/internal/errors"
	"gotransfer/internal/pkg/logger"
	"gotransfer/internal/pkg/token"
)

// ContextKey é o tipo das chaves de contexto deste pacote (não exportadas para evitar colisões).
type ContextKey int

const (
	OperatorClaimsKey ContextKey = iota
)

// OperatorClaims são os dados do operador extraídos do JWT e anexados ao contexto.
type OperatorClaims struct {
	OperatorID string
	Role       domain.OperatorRole
	BranchID   string
}

// TokenService define o contrato de validação necessário para o middleware.
type TokenService interface {
	ValidateToken(tokenString string) (*token.CustomClaims, error)
}

// NewAuthMiddleware valida o Bearer token e anexa as claims do operador ao contexto.
func NewAuthMiddleware(tokenSvc TokenService, log logger.Logger) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
			if !found || strings.TrimSpace(tokenString) == "" {
				response.Error(w, r, log, apperror.NewUnauthorizedError("Token de autorização ausente ou malformado."))
				return
			}

			claims, err := tokenSvc.ValidateToken(strings.TrimSpace(tokenString))
			if err != nil {
				log.Debug("Token de operador recusado.", map[string]interface{}{"path": r.URL.Path, "error": err.Error()})
				response.Error(w, r, log, apperror.NewUnauthorizedError("Token inválido ou expirado."))
				return
			}

			operator := OperatorClaims{
				OperatorID: claims.UserID,
				Role:       domain.OperatorRole(claims.Role),
				BranchID:   claims.BranchID,
			}

			ctx := context.WithValue(r.Context(), OperatorClaimsKey, operator)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}

// GetOperatorClaimsFromContext extrai as claims do operador no handler.
func GetOperatorClaimsFromContext(ctx context.Context) (OperatorClaims, bool) {
	claims, ok := ctx.Value(OperatorClaimsKey).(OperatorClaims)
	return claims, ok
}

// PermissionMiddleware restringe a rota aos papéis informados. Deve vir depois do NewAuthMiddleware.
func PermissionMiddleware(log logger.Logger, requiredRoles ...domain.OperatorRole) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetOperatorClaimsFromContext(r.Context())
			if !ok {
				response.Error(w, r, log, apperror.NewUnauthorizedError("Autorização necessária. Token não processado."))
				return
			}

			for _, requiredRole := range requiredRoles {
				if claims.Role == requiredRole {
					next.ServeHTTP(w, r)
					return
				}
			}

			log.Info("Acesso negado por papel do operador.", map[string]interface{}{
				"path":        r.URL.Path,
				"operator_id": claims.OperatorID,
				"role":        claims.Role,
			})
			response.JSON(w, log, http.StatusForbidden, domain.ErrorResponse{
				Code:     http.StatusForbidden,
				Category: "FORBIDDEN",
				Message:  "Acesso negado. Você não tem a permissão necessária.",
			})
		}
	}
}
