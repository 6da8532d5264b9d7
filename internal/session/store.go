package session

import (
	"context"
	"errors"
)

// ErrNotFound はトークンに対応する有効なセッションが無いことを表します。
var ErrNotFound = errors.New("session not found")

// ErrUnavailable はセッションストアにアクセスできないことを表します。
var ErrUnavailable = errors.New("session store unavailable")

// Store はセッションの保存先です。
// 同一トークンに対する書き込みは、その後の読み取りに必ず反映されなければなりません。
type Store interface {
	// Create はセッションを保存し、新しいトークンを返します。
	Create(ctx context.Context, sess *Session) (string, error)
	// Get は有効なセッションを返します。無効または期限切れなら ErrNotFound です。
	Get(ctx context.Context, token string) (*Session, error)
	// Destroy はセッションを削除します。存在しない場合もエラーにしません。
	Destroy(ctx context.Context, token string) error
}
