package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	// Infraestrutura e utilitários
	"gotransfer/config"
	"gotransfer/internal/pkg/cache"
	"gotransfer/internal/pkg/database"
	"gotransfer/internal/pkg/logger"
	"gotransfer/internal/pkg/token"

	// Camadas para Injeção de Dependências
	"gotransfer/internal/api/branch"
	"gotransfer/internal/api/router"
	"gotransfer/internal/api/stock"
	"gotransfer/internal/api/transfer"
	"gotransfer/internal/credential"
	"gotransfer/internal/repository/branchrepo"
	"gotransfer/internal/repository/credentialrepo"
	"gotransfer/internal/repository/sliprepo"
	"gotransfer/internal/repository/stockrepo"
	"gotransfer/internal/service/branchservice"
	"gotransfer/internal/service/stockservice"
	"gotransfer/internal/service/transferservice"
)

// @title GoTransfer API
// @version 1.0
// @description Recebimento de transferências de estoque entre filiais via QR code.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Configuração e Inicialização
	log.Println("⚡ Inicializando serviço GoTransfer...")
	// O .env é opcional: em Docker as variáveis já vêm do ambiente.
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	appLog := logger.NewLogger(cfg.LogLevel)
	if cfg.Environment == "development" {
		appLog = logger.NewDevelopmentLogger(cfg.LogLevel)
	}
	appLog.Info("Configurações carregadas.", map[string]interface{}{"env": cfg.Environment, "db_driver": cfg.DBDriver})

	// 2. Conexão com Recursos de Infraestrutura

	// A. Banco de Dados
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		appLog.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	appLog.Info("Conexão com o banco estabelecida.", map[string]interface{}{"driver": cfg.DBDriver})

	// No modo filial única o próprio serviço mantém o schema do arquivo SQLite.
	if cfg.DBDriver == database.DriverSQLite {
		migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := database.Migrate(migrateCtx, db, cfg.DBDriver)
		cancel()
		if err != nil {
			appLog.Fatal("Falha ao aplicar migrações no SQLite.", err)
		}
		appLog.Info("Migrações aplicadas.", nil)
	}

	// B. Contadores (Redis ou memória)
	cacheClient, closeCache := newCacheClient(cfg, appLog)
	defer closeCache()

	// 3. INJEÇÃO DE DEPENDÊNCIAS
	// Ordem: Repository -> Service -> Handler

	// A. Repositórios
	slipRepo := sliprepo.NewSlipRepository(db, cfg.DBTimeout, appLog)
	stockRepo := stockrepo.NewStockRepository(db, cfg.DBTimeout, appLog)
	branchRepo := branchrepo.NewBranchRepository(db, cfg.DBTimeout, appLog)
	credentialRepo := credentialrepo.NewCredentialRepository(db, cfg.DBTimeout, appLog)
	appLog.Debug("Repositórios inicializados.", nil)

	// B. Credenciais de funcionário
	verifier := credential.NewVerifier(credentialRepo, appLog)
	lockout := credential.NewLockout(cacheClient, cfg.PINMaxAttempts, cfg.PINLockoutWindow, appLog)

	// C. Serviços
	transferSvc := transferservice.NewService(slipRepo, stockRepo, verifier, lockout, branchRepo, cfg.LedgerTimeout, appLog)
	branchSvc := branchservice.NewService(branchRepo, appLog)
	stockSvc := stockservice.NewService(stockRepo, appLog)
	appLog.Debug("Serviços inicializados.", nil)

	// D. Serviço de Tokens (JWT)
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)
	appLog.Debug("Serviço de Tokens JWT inicializado.", nil)

	// E. Handlers
	handlers := router.Handlers{
		Transfer: transfer.NewHandler(transferSvc, appLog),
		Branch:   branch.NewHandler(branchSvc, appLog),
		Stock:    stock.NewHandler(stockSvc, appLog),
	}

	// 4. Configuração e Início do Roteador/Servidor
	r := router.NewRouter(handlers, tokenSvc, cacheClient, router.RateLimit{
		MaxRequests: cfg.RateLimitMaxRequests,
		Period:      cfg.RateLimitPeriod,
	}, appLog)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		appLog.Info("Servidor GoTransfer ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	appLog.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLog.Error("Desligamento do servidor forçado.", err)
	}

	appLog.Info("Servidor encerrado com sucesso.", nil)
}

// newCacheClient conecta ao Redis quando REDIS_ADDR está definido.
// Sem Redis (ou com o Redis fora do ar) os contadores ficam na memória do processo.
func newCacheClient(cfg *config.Config, appLog logger.Logger) (cache.Client, func()) {
	if cfg.RedisAddr == "" {
		appLog.Info("REDIS_ADDR vazio: contadores em memória.", nil)
		return cache.NewMemoryClient(), func() {}
	}

	redisClient, err := cache.NewRedisClient(cfg.RedisAddr, cfg.CacheTimeout)
	if err != nil {
		appLog.Warn("Redis indisponível: contadores em memória.", map[string]interface{}{"addr": cfg.RedisAddr, "error": err.Error()})
		_ = redisClient.Close()
		return cache.NewMemoryClient(), func() {}
	}

	appLog.Info("Conexão Redis estabelecida.", map[string]interface{}{"addr": cfg.RedisAddr})
	return redisClient, func() { _ = redisClient.Close() }
}
