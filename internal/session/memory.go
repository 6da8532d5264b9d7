package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore はプロセス内のマップにセッションを保持します。
type MemoryStore struct {
	policy Policy
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]Session
}

// NewMemoryStore は MemoryStore を作成します。
func NewMemoryStore(policy Policy) *MemoryStore {
	return &MemoryStore{
		policy:   policy,
		now:      time.Now,
		sessions: make(map[string]Session),
	}
}

// Create はセッションを保存します。
func (s *MemoryStore) Create(ctx context.Context, sess *Session) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	record := prepare(sess, s.now())
	token := NewToken()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = record
	return token, nil
}

// Get はセッションを取得し、最終アクセス時刻を更新します。
func (s *MemoryStore) Get(ctx context.Context, token string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if token == "" {
		return nil, ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.sessions[token]
	if !ok {
		return nil, ErrNotFound
	}
	now := s.now()
	if s.policy.Expired(&record, now) {
		delete(s.sessions, token)
		return nil, ErrNotFound
	}
	record.LastActiveAt = now
	s.sessions[token] = record

	out := record
	return &out, nil
}

// Destroy はセッションを削除します。
func (s *MemoryStore) Destroy(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

// Sweep は期限切れのセッションを削除し、削除件数を返します。
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for token, record := range s.sessions {
		if s.policy.Expired(&record, now) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

// Len は保持しているセッション数を返します（期限切れを含む）。
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// StartJanitor は ctx が終了するまで interval ごとに Sweep を実行します。
func (s *MemoryStore) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
}

// prepare は保存用のコピーを作り、未設定の時刻を埋めます。
func prepare(sess *Session, now time.Time) Session {
	var record Session
	if sess != nil {
		record = *sess
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	if record.LastActiveAt.IsZero() {
		record.LastActiveAt = now
	}
	return record
}
