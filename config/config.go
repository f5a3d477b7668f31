package config

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config armazena todas as configurações do serviço GoTransfer.
type Config struct {
	// Geral
	Port        string
	Environment string
	LogLevel    string

	// Banco de Dados (PostgreSQL ou SQLite em modo filial única)
	DBDriver    string
	DatabaseURL string
	DBTimeout   time.Duration

	// Cache (Redis). Vazio = contadores em memória do processo.
	RedisAddr    string
	CacheTimeout time.Duration

	// Segurança (JWT dos operadores)
	JWTSecretKey string
	TokenExpiry  time.Duration

	// Rate Limiting
	RateLimitMaxRequests int
	RateLimitPeriod      time.Duration

	// Recebimento de guias
	LedgerTimeout    time.Duration
	PINMaxAttempts   int
	PINLockoutWindow time.Duration
	BcryptCost       int
}

// Load lê as configurações das variáveis de ambiente (o .env já deve ter sido carregado pelo godotenv).
// Devolve erro se uma variável obrigatória estiver ausente.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		// 1. Geral
		Port:        v.GetString("PORT"),
		Environment: v.GetString("ENV"),
		LogLevel:    v.GetString("LOG_LEVEL"),

		// 2. Banco de Dados
		DBDriver:    strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseURL: v.GetString("DATABASE_URL"),
		DBTimeout:   time.Duration(getInt(v, "DB_TIMEOUT_SEC", 5)) * time.Second,

		// 3. Cache (Redis)
		RedisAddr:    v.GetString("REDIS_ADDR"),
		CacheTimeout: time.Duration(getInt(v, "CACHE_TIMEOUT_SEC", 10)) * time.Second,

		// 4. Segurança (JWT)
		JWTSecretKey: v.GetString("JWT_SECRET_KEY"),
		TokenExpiry:  time.Duration(getInt(v, "JWT_EXPIRY_MIN", 60)) * time.Minute,

		// 5. Rate Limiting
		RateLimitMaxRequests: getInt(v, "RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitPeriod:      time.Duration(getInt(v, "RATE_LIMIT_PERIOD_MIN", 1)) * time.Minute,

		// 6. Recebimento de guias
		LedgerTimeout:    time.Duration(getInt(v, "LEDGER_TIMEOUT_MS", 2000)) * time.Millisecond,
		PINMaxAttempts:   getInt(v, "PIN_MAX_ATTEMPTS", 5),
		PINLockoutWindow: time.Duration(getInt(v, "PIN_LOCKOUT_WINDOW_MIN", 15)) * time.Minute,
		BcryptCost:       getInt(v, "BCRYPT_COST", 10),
	}

	// O Redis local só é assumido no modo PostgreSQL; o modo filial única roda sem Redis.
	if !v.IsSet("REDIS_ADDR") && cfg.DBDriver == "postgres" {
		cfg.RedisAddr = "localhost:6379"
	}

	var missing []string
	for _, key := range []string{"DATABASE_URL", "JWT_SECRET_KEY"} {
		if strings.TrimSpace(v.GetString(key)) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("variáveis de ambiente obrigatórias ausentes: %s", strings.Join(missing, ", "))
	}

	switch cfg.DBDriver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("DB_DRIVER inválido: %q (use postgres ou sqlite)", cfg.DBDriver)
	}

	return cfg, nil
}

// LoadConfig carrega as configurações e encerra o processo se estiverem incompletas.
// Esta função é chamada no main.go.
func LoadConfig() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("❌ Erro de Configuração: %v", err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", "postgres")
}

// getInt lê uma variável numérica; valor inválido gera aviso e usa o padrão.
func getInt(v *viper.Viper, key string, defaultValue int) int {
	valueStr := strings.TrimSpace(v.GetString(key))
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é um número inteiro válido. Usando padrão (%d).", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
