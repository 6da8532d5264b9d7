package auth

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/login-gate/internal/audit"
)

// RequireLogin はセッションを検証するミドルウェアを返します。
// セッションが無い場合はログイン画面へリダイレクトし、以降のハンドラーを実行しません。
func (m *Manager) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		token := tokenFrom(session)

		sess, err := m.Resolve(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, ErrNoSession) {
				m.logger.Printf("session lookup failed: %v", err)
				c.String(http.StatusInternalServerError, MessageInternalError)
				c.Abort()
				return
			}

			clearSession(session)
			m.metrics.ObserveAccessDenied()
			m.record(c, audit.Event{Type: audit.EventAccessDenied, Reason: c.Request.URL.Path})
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, sess.Username)
		c.Next()
	}
}
