package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/login-gate/internal/audit"
	"github.com/yourusername/login-gate/internal/metrics"
	"github.com/yourusername/login-gate/internal/session"
)

const (
	SessionCookieName = "lg_session"
	sessionKeyToken   = "token"
)

// ルート
const (
	LoginPath   = "/login"
	LogoutPath  = "/logout"
	WelcomePath = "/welcome"
)

// ContextUserKey は、ハンドラー間でログイン済みユーザー名を共有するためのキーです。
const ContextUserKey = "auth.user"

// Verifier はユーザー名とパスワードの組を照合します。
type Verifier interface {
	Verify(username, password *string) bool
}

// Options は Manager の任意の依存です。
type Options struct {
	Audit   audit.Dispatcher
	Metrics *metrics.Collector
	Logger  *log.Logger
}

// Manager はログイン状態（匿名／認証済み）の遷移を管理します。
// セッションの保存先は注入された session.Store だけで、グローバルな状態は持ちません。
type Manager struct {
	verifier Verifier
	store    session.Store
	audit    audit.Dispatcher
	metrics  *metrics.Collector
	logger   *log.Logger
}

// NewManager は認証マネージャーを作成します。
func NewManager(verifier Verifier, store session.Store, opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{
		verifier: verifier,
		store:    store,
		audit:    opts.Audit,
		metrics:  opts.Metrics,
		logger:   logger,
	}
}

// Authenticate は資格情報を照合し、一致すればセッションを作成してトークンを返します。
// 失敗時はセッションを作りません。
func (m *Manager) Authenticate(ctx context.Context, username, password *string) (string, error) {
	if username == nil || password == nil {
		return "", ErrMissingField
	}
	if !m.verifier.Verify(username, password) {
		return "", ErrInvalidCredentials
	}

	token, err := m.store.Create(ctx, &session.Session{Username: *username})
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return token, nil
}

// Resolve はトークンに対応するセッションを返します。無い場合は ErrNoSession です。
func (m *Manager) Resolve(ctx context.Context, token string) (*session.Session, error) {
	if token == "" {
		return nil, ErrNoSession
	}
	sess, err := m.store.Get(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	return sess, nil
}

// SignOut はセッションを破棄します。
func (m *Manager) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return m.store.Destroy(ctx, token)
}

// record は監査イベントを送ります。送信失敗はログに残すだけで処理は続けます。
func (m *Manager) record(c *gin.Context, event audit.Event) {
	if m.audit == nil {
		return
	}
	event.ClientIP = c.ClientIP()
	if event.At.IsZero() {
		event.At = time.Now()
	}
	if err := m.audit.Dispatch(c.Request.Context(), event); err != nil {
		m.logger.Printf("failed to dispatch audit event type=%s: %v", event.Type, err)
	}
}
