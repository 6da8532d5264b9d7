// Package auth は認証・認可機能を提供します。
package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/login-gate/internal/audit"
	"github.com/yourusername/login-gate/internal/metrics"
	"github.com/yourusername/login-gate/internal/views"
)

// RegisterRoutes はログイン・ようこそ・ログアウトのルートを登録します。
func (m *Manager) RegisterRoutes(router gin.IRouter) {
	router.GET(LoginPath, m.LoginPage)
	router.POST(LoginPath, m.Login)
	router.GET(LogoutPath, m.Logout)
	router.GET(WelcomePath, m.RequireLogin(), m.Welcome)
}

// LoginPage は GET /login のハンドラーです。
func (m *Manager) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, views.LoginPage, views.LoginData{})
}

// Login は POST /login のハンドラーです。
func (m *Manager) Login(c *gin.Context) {
	ctx := c.Request.Context()
	username := formValue(c, "username")
	password := formValue(c, "password")

	session := sessions.Default(c)
	previous := tokenFrom(session)

	// 直前のセッションは成否にかかわらず破棄する。破棄できなければ新しいセッションも作らない
	if previous != "" {
		if err := m.store.Destroy(ctx, previous); err != nil {
			m.failLogin(c, session, fmt.Errorf("failed to destroy previous session: %w", err))
			return
		}
	}

	token, err := m.Authenticate(ctx, username, password)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingField):
			m.rejectLogin(c, session, metrics.ResultMissingField, MessageMissingField, username)
		case errors.Is(err, ErrInvalidCredentials):
			m.rejectLogin(c, session, metrics.ResultInvalidCredentials, MessageInvalidCredentials, username)
		default:
			m.failLogin(c, session, err)
		}
		return
	}

	session.Set(sessionKeyToken, token)
	if err := session.Save(); err != nil {
		if destroyErr := m.store.Destroy(ctx, token); destroyErr != nil {
			m.logger.Printf("failed to destroy unsaved session: %v", destroyErr)
		}
		m.failLogin(c, session, fmt.Errorf("failed to save session cookie: %w", err))
		return
	}

	m.metrics.ObserveLogin(metrics.ResultSuccess)
	m.record(c, audit.Event{Type: audit.EventLoginSucceeded, Username: *username})
	c.Redirect(http.StatusFound, WelcomePath)
}

// Logout は GET /logout のハンドラーです。
func (m *Manager) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	session := sessions.Default(c)
	token := tokenFrom(session)

	if token != "" {
		var username string
		if sess, err := m.Resolve(ctx, token); err == nil {
			username = sess.Username
		}
		if err := m.SignOut(ctx, token); err != nil {
			m.logger.Printf("logout failed: %v", err)
			c.String(http.StatusInternalServerError, MessageInternalError)
			return
		}
		m.metrics.ObserveLogout()
		m.record(c, audit.Event{Type: audit.EventLogout, Username: username})
	}

	clearSession(session)
	c.Redirect(http.StatusFound, LoginPath)
}

// Welcome は GET /welcome のハンドラーです。RequireLogin の後ろで使います。
func (m *Manager) Welcome(c *gin.Context) {
	c.HTML(http.StatusOK, views.WelcomePage, views.WelcomeData{Username: c.GetString(ContextUserKey)})
}

// failLogin はストア障害などでログイン処理を完了できなかったときの応答です。
func (m *Manager) failLogin(c *gin.Context, session sessions.Session, err error) {
	m.logger.Printf("login failed: %v", err)
	m.metrics.ObserveLogin(metrics.ResultError)
	clearSession(session)
	c.HTML(http.StatusInternalServerError, views.LoginPage, views.LoginData{Error: MessageInternalError})
}

func (m *Manager) rejectLogin(c *gin.Context, session sessions.Session, result, message string, username *string) {
	m.metrics.ObserveLogin(result)

	event := audit.Event{Type: audit.EventLoginFailed, Reason: result}
	if username != nil {
		event.Username = *username
	}
	m.record(c, event)

	clearSession(session)
	c.HTML(http.StatusOK, views.LoginPage, views.LoginData{Error: message})
}

// formValue はフォーム項目を返します。項目自体が無い場合は nil です。
func formValue(c *gin.Context, key string) *string {
	value, ok := c.GetPostForm(key)
	if !ok {
		return nil
	}
	return &value
}

func tokenFrom(session sessions.Session) string {
	token, _ := session.Get(sessionKeyToken).(string)
	return token
}

// clearSession はセッションCookieを削除します。
func clearSession(session sessions.Session) {
	if tokenFrom(session) == "" {
		return
	}
	session.Clear()
	session.Options(sessions.Options{
		Path:   "/",
		MaxAge: -1,
	})
	_ = session.Save()
}
