// Package audit はログイン・ログアウトなどの認証イベントを記録します。
package audit

import (
	"context"
	"time"
)

// EventType は監査イベントの種類です。
type EventType string

const (
	EventLoginSucceeded EventType = "login_succeeded"
	EventLoginFailed    EventType = "login_failed"
	EventLogout         EventType = "logout"
	EventAccessDenied   EventType = "access_denied"
)

// Event は1件の監査イベントです。
type Event struct {
	Type     EventType `json:"type"`
	Username string    `json:"username,omitempty"`
	Reason   string    `json:"reason,omitempty"`
	ClientIP string    `json:"clientIp,omitempty"`
	At       time.Time `json:"at"`
}

// Dispatcher は監査イベントの送り先です。
type Dispatcher interface {
	Dispatch(ctx context.Context, event Event) error
}
