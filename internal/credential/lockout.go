package credential

import (
	"context"
	"time"

	"gotransfer/internal/pkg/cache"
	"gotransfer/internal/pkg/logger"
)

// Lockout conta PINs incorretos por guia e bloqueia novas tentativas após o limite.
// Falhas do Redis não bloqueiam o recebimento (fail open), apenas são registradas.
type Lockout struct {
	client      cache.Client
	maxAttempts int
	window      time.Duration
	logger      logger.Logger
}

// NewLockout cria o controle de tentativas. maxAttempts <= 0 desativa o bloqueio.
func NewLockout(client cache.Client, maxAttempts int, window time.Duration, logger logger.Logger) *Lockout {
	return &Lockout{client: client, maxAttempts: maxAttempts, window: window, logger: logger}
}

func (l *Lockout) key(slipID string) string {
	return "pin-fail:" + slipID
}

func (l *Lockout) enabled() bool {
	return l != nil && l.client != nil && l.maxAttempts > 0
}

// Locked reporta se a guia atingiu o limite de tentativas na janela atual.
func (l *Lockout) Locked(ctx context.Context, slipID string) bool {
	if !l.enabled() {
		return false
	}
	count, err := l.client.GetInt(ctx, l.key(slipID))
	if err == cache.ErrCacheMiss {
		return false
	}
	if err != nil {
		l.logger.Error("Falha ao consultar contador de tentativas de PIN.", err)
		return false
	}
	return count >= l.maxAttempts
}

// RecordFailure incrementa o contador da guia.
func (l *Lockout) RecordFailure(ctx context.Context, slipID string) {
	if !l.enabled() {
		return
	}
	count, err := l.client.IncrWithTTL(ctx, l.key(slipID), l.window)
	if err != nil {
		l.logger.Error("Falha ao registrar tentativa de PIN incorreta.", err)
		return
	}
	if count >= l.maxAttempts {
		l.logger.Warn("Guia bloqueada por excesso de PINs incorretos.", map[string]interface{}{"slip_id": slipID, "attempts": count})
	}
}

// Reset limpa o contador após um recebimento bem-sucedido.
func (l *Lockout) Reset(ctx context.Context, slipID string) {
	if !l.enabled() {
		return
	}
	if err := l.client.Delete(ctx, l.key(slipID)); err != nil {
		l.logger.Error("Falha ao limpar contador de tentativas de PIN.", err)
	}
}
