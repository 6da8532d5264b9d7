// Package main はログインゲートのHTTPサーバーのエントリーポイントです。
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yourusername/login-gate/internal/auth"
	"github.com/yourusername/login-gate/internal/config"
	"github.com/yourusername/login-gate/internal/credentials"
	"github.com/yourusername/login-gate/internal/metrics"
	"github.com/yourusername/login-gate/internal/views"
)

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	gin.SetMode(cfg.GinMode)

	table, err := credentials.LoadFile(cfg.CredentialsFile)
	if err != nil {
		log.Fatalf("Failed to load credentials: %v", err)
	}

	// SIGINT / SIGTERM で停止する
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := setupSessionStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to set up session store: %v", err)
	}
	defer closeStore()

	dispatcher, shutdownAudit, err := setupAudit(cfg, log.Default())
	if err != nil {
		log.Fatalf("Failed to set up audit queue: %v", err)
	}
	defer shutdownAudit()

	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector, err = metrics.New(prometheus.DefaultRegisterer)
		if err != nil {
			log.Fatalf("Failed to register metrics: %v", err)
		}
	}

	verifier := credentials.NewVerifier(table)
	authManager := auth.NewManager(verifier, store, auth.Options{
		Audit:   dispatcher,
		Metrics: collector,
		Logger:  log.Default(),
	})

	// Ginルーターの初期化（デフォルトミドルウェア: Logger, Recovery）
	router := gin.Default()
	router.SetHTMLTemplate(views.MustLoad())

	// Cookie には署名済みのセッショントークンだけを載せる
	secret, err := sessionSecret(cfg)
	if err != nil {
		log.Fatalf("Failed to prepare session secret: %v", err)
	}
	cookieStore := cookie.NewStore(secret)
	cookieStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionLifetime().Seconds()),
		HttpOnly: true,
		Secure:   cfg.GinMode == gin.ReleaseMode,
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions(auth.SessionCookieName, cookieStore))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.CORSAllowedOrigins, ",")
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	setupRoutes(router, cfg, authManager)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting login gate on %s (mode: %s, sessions: %s, users: %d)",
			server.Addr, cfg.GinMode, cfg.SessionBackend, verifier.Len())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("Shutdown signal received, stopping server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown failed: %v", err)
	}
}

// handleHealth はヘルスチェックエンドポイントのハンドラーです。
func handleHealth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":         "ok",
			"service":        "login-gate",
			"sessionBackend": cfg.SessionBackend,
		})
	}
}

// setupRoutes は認証まわりとヘルスチェック・メトリクスの配線を行います。
func setupRoutes(router *gin.Engine, cfg *config.Config, authManager *auth.Manager) {
	router.GET("/health", handleHealth(cfg))
	if cfg.MetricsEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, auth.WelcomePath)
	})

	authManager.RegisterRoutes(router)
}
