// Package session はログイン済みユーザーのサーバー側セッションを保存します。
//
// 呼び出し側が保持するのは不透明なトークンだけで、内容はこのパッケージの
// Store 実装（メモリまたは Redis）が管理します。
package session

import (
	"time"

	"github.com/google/uuid"
)

// Session はトークンに紐づくログイン情報です。
type Session struct {
	Username     string    `json:"username"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActiveAt time.Time `json:"lastActiveAt"`
}

// Policy はセッションの有効期限ルールです。0 の項目は無効として扱います。
type Policy struct {
	Lifetime    time.Duration // ログインからの絶対有効期限
	IdleTimeout time.Duration // 最終アクセスからの無操作タイムアウト
}

// Deadline は createdAt に作成され lastActive に最後に使われたセッションの失効時刻を返します。
// 期限が無い場合はゼロ値です。
func (p Policy) Deadline(createdAt, lastActive time.Time) time.Time {
	var deadline time.Time
	if p.Lifetime > 0 {
		deadline = createdAt.Add(p.Lifetime)
	}
	if p.IdleTimeout > 0 {
		idle := lastActive.Add(p.IdleTimeout)
		if deadline.IsZero() || idle.Before(deadline) {
			deadline = idle
		}
	}
	return deadline
}

// Expired は now の時点でセッションが失効しているかを返します。
func (p Policy) Expired(sess *Session, now time.Time) bool {
	deadline := p.Deadline(sess.CreatedAt, sess.LastActiveAt)
	if deadline.IsZero() {
		return false
	}
	return !now.Before(deadline)
}

// ttl は now から失効までの残り時間を返します。期限が無い場合は 0 です。
func (p Policy) ttl(sess *Session, now time.Time) (time.Duration, bool) {
	deadline := p.Deadline(sess.CreatedAt, sess.LastActiveAt)
	if deadline.IsZero() {
		return 0, true
	}
	remaining := deadline.Sub(now)
	return remaining, remaining > 0
}

// NewToken はセッション用の推測困難なトークンを生成します。
func NewToken() string {
	return uuid.NewString()
}
