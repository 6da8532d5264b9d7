// Package config は環境変数から設定を読み込み、アプリケーション全体で使用する設定を提供します。
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// セッションストアの種類
const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// Config はアプリケーションの設定を保持する構造体です。
type Config struct {
	// サーバー設定
	Port    string // HTTPサーバーのポート番号
	GinMode string // Ginの実行モード (debug, release, test)

	// セッション設定
	SessionSecret          string // セッションCookie署名用の秘密鍵
	SessionBackend         string // memory または redis
	SessionRedisURL        string // SessionBackend=redis のときの接続URL
	SessionLifetimeMinutes int    // ログインからの絶対有効期限（分）
	SessionIdleMinutes     int    // 無操作タイムアウト（分）

	// 認証設定
	CredentialsFile string // ユーザー表のYAMLファイル（空なら組み込みの表）

	// CORS設定
	CORSAllowedOrigins string // CORS許可オリジン（カンマ区切り）

	// 監査・メトリクス
	AuditRedisURL  string // 監査イベント用キューのRedis URL（空ならログ出力のみ）
	MetricsEnabled bool   // /metrics を公開するか
}

// Load は環境変数から設定を読み込みます。
// .env.local ファイルが存在する場合はそこから読み込みます。
func Load() (*Config, error) {
	loadEnvFile()

	config := &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),

		SessionSecret:          getEnv("SESSION_SECRET", ""),
		SessionBackend:         strings.ToLower(getEnv("SESSION_BACKEND", SessionBackendMemory)),
		SessionRedisURL:        getEnv("SESSION_REDIS_URL", ""),
		SessionLifetimeMinutes: getEnvAsInt("SESSION_LIFETIME_MINUTES", 12*60),
		SessionIdleMinutes:     getEnvAsInt("SESSION_IDLE_MINUTES", 30),

		CredentialsFile: getEnv("CREDENTIALS_FILE", ""),

		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:8080"),

		AuditRedisURL:  getEnv("AUDIT_REDIS_URL", ""),
		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func loadEnvFile() {
	if err := godotenv.Load(".env.local"); err == nil {
		return
	}

	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	parent := filepath.Dir(cwd)
	if parent == "" || parent == cwd {
		return
	}

	_ = godotenv.Load(filepath.Join(parent, ".env.local"))
}

// Validate は設定の妥当性を検証します。
func (c *Config) Validate() error {
	switch c.SessionBackend {
	case SessionBackendMemory:
	case SessionBackendRedis:
		if c.SessionRedisURL == "" {
			return fmt.Errorf("SESSION_REDIS_URL is required when SESSION_BACKEND=redis")
		}
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q (memory or redis)", c.SessionBackend)
	}

	if c.SessionLifetimeMinutes < 0 {
		return fmt.Errorf("SESSION_LIFETIME_MINUTES must not be negative")
	}
	if c.SessionIdleMinutes < 0 {
		return fmt.Errorf("SESSION_IDLE_MINUTES must not be negative")
	}

	// ローカル開発では署名鍵は任意（起動時に一時的な鍵を生成する）
	if c.GinMode == "release" && c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required in release mode")
	}

	return nil
}

// SessionLifetime はセッションの絶対有効期限を返します。0 は無期限です。
func (c *Config) SessionLifetime() time.Duration {
	return time.Duration(c.SessionLifetimeMinutes) * time.Minute
}

// SessionIdleTimeout は無操作タイムアウトを返します。0 は無効です。
func (c *Config) SessionIdleTimeout() time.Duration {
	return time.Duration(c.SessionIdleMinutes) * time.Minute
}

// getEnv は環境変数を取得し、存在しない場合はデフォルト値を返します。
func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt は環境変数を整数として取得します。
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
