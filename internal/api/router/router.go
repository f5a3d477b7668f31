package router

import (
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "gotransfer/docs" // registra o documento OpenAPI servido em /swagger/doc.json
	"gotransfer/internal/api/branch"
	"gotransfer/internal/api/stock"
	"gotransfer/internal/api/transfer"
	"gotransfer/internal/domain"
	"gotransfer/internal/pkg/cache"
	"gotransfer/internal/pkg/logger"
	"gotransfer/internal/pkg/middleware"
)

// Handlers reúne os Handlers já inicializados por injeção de dependências.
type Handlers struct {
	Transfer *transfer.Handler
	Branch   *branch.Handler
	Stock    *stock.Handler
}

// RateLimit configura o limitador aplicado às rotas /v1.
type RateLimit struct {
	MaxRequests int
	Period      time.Duration
}

// NewRouter configura e retorna o roteador HTTP principal.
// Todas as rotas /v1 exigem Bearer token e passam pelo rate limiter.
func NewRouter(h Handlers, tokenSvc middleware.TokenService, cacheClient cache.Client, limit RateLimit, log logger.Logger) http.Handler {
	mux := http.NewServeMux()

	// --- 1. Health check e documentação ---
	mux.HandleFunc("GET /ping", PingHandler)
	mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// --- 2. Rotas protegidas (v1) ---
	auth := middleware.NewAuthMiddleware(tokenSvc, log)
	limiter := middleware.RateLimiter(cacheClient, limit.MaxRequests, limit.Period, log)
	protected := func(hf http.HandlerFunc) http.Handler {
		return limiter(auth(hf))
	}
	logisticsOnly := middleware.PermissionMiddleware(log, domain.RoleLogistics, domain.RoleAdmin)

	// Guias de transferência
	mux.Handle("POST /v1/slips/scan", protected(h.Transfer.ScanHandler))
	mux.Handle("POST /v1/slips/receive", protected(h.Transfer.ReceiveHandler))
	mux.Handle("POST /v1/slips/{id}/cancel", protected(logisticsOnly(h.Transfer.CancelHandler)))

	// Diretório de filiais
	mux.Handle("GET /v1/branches", protected(h.Branch.GetAllBranchesHandler))
	mux.Handle("GET /v1/branches/{id}", protected(h.Branch.GetBranchByIDHandler))
	mux.Handle("GET /v1/branches/{id}/slips", protected(h.Transfer.ListBranchSlipsHandler))

	// Estoque
	mux.Handle("GET /v1/stock", protected(h.Stock.GetStockLevelHandler))

	return mux
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
