package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/yourusername/login-gate/internal/audit"
	"github.com/yourusername/login-gate/internal/config"
	"github.com/yourusername/login-gate/internal/session"
)

const janitorInterval = time.Minute

// setupSessionStore はセッションストアと、その後片付け用の関数を返します。
func setupSessionStore(ctx context.Context, cfg *config.Config) (session.Store, func(), error) {
	policy := session.Policy{
		Lifetime:    cfg.SessionLifetime(),
		IdleTimeout: cfg.SessionIdleTimeout(),
	}

	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		opt, err := redis.ParseURL(cfg.SessionRedisURL)
		if err != nil {
			return nil, nil, err
		}
		client := redis.NewClient(opt)
		closeClient := func() {
			if err := client.Close(); err != nil {
				log.Printf("session redis client close failed: %v", err)
			}
		}
		store := session.NewRedisStore(client, policy)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := store.Ping(pingCtx); err != nil {
			closeClient()
			return nil, nil, err
		}
		return store, closeClient, nil
	default:
		store := session.NewMemoryStore(policy)
		store.StartJanitor(ctx, janitorInterval)
		return store, func() {}, nil
	}
}

// setupAudit は監査イベントの送り先を決めます。
// AUDIT_REDIS_URL が無い場合はその場でログに書き出します。
func setupAudit(cfg *config.Config, logger *log.Logger) (audit.Dispatcher, func(), error) {
	if cfg.AuditRedisURL == "" {
		return audit.NewLogDispatcher(logger), func() {}, nil
	}

	queue, err := audit.NewQueue(cfg.AuditRedisURL, logger)
	if err != nil {
		return nil, nil, err
	}
	queue.StartWorkers()
	shutdown := func() {
		if err := queue.Shutdown(); err != nil {
			logger.Printf("audit queue shutdown failed: %v", err)
		}
	}
	return queue, shutdown, nil
}

// sessionSecret は Cookie 署名鍵を返します。
// 未設定の場合（開発時のみ許可）はプロセスごとの一時的な鍵を生成します。
func sessionSecret(cfg *config.Config) ([]byte, error) {
	if cfg.SessionSecret != "" {
		return []byte(cfg.SessionSecret), nil
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate session secret: %w", err)
	}
	log.Printf("SESSION_SECRET is not set; using a temporary key (sessions end on restart)")
	return buf, nil
}
