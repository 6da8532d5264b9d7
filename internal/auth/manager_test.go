package auth

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/yourusername/login-gate/internal/credentials"
	"github.com/yourusername/login-gate/internal/session"
)

func strPtr(s string) *string { return &s }

func newTestManager(table credentials.Table, store session.Store, dispatcher *recordingDispatcher) *Manager {
	opts := Options{Logger: log.New(io.Discard, "", 0)}
	if dispatcher != nil {
		opts.Audit = dispatcher
	}
	return NewManager(credentials.NewVerifier(table), store, opts)
}

func TestAuthenticateSuccess(t *testing.T) {
	store := session.NewMemoryStore(session.Policy{})
	m := newTestManager(credentials.DefaultTable(), store, nil)

	token, err := m.Authenticate(context.Background(), strPtr("admin"), strPtr("1234"))
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}

	sess, err := m.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if sess.Username != "admin" {
		t.Fatalf("unexpected username: %s", sess.Username)
	}
}

func TestAuthenticateFailures(t *testing.T) {
	cases := []struct {
		name     string
		username *string
		password *string
		want     error
	}{
		{"wrong password", strPtr("admin"), strPtr("wrong"), ErrInvalidCredentials},
		{"unknown user", strPtr("ghost"), strPtr("1234"), ErrInvalidCredentials},
		{"empty fields", strPtr(""), strPtr(""), ErrInvalidCredentials},
		{"missing username", nil, strPtr("1234"), ErrMissingField},
		{"missing password", strPtr("admin"), nil, ErrMissingField},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := session.NewMemoryStore(session.Policy{})
			m := newTestManager(credentials.DefaultTable(), store, nil)

			for i := 0; i < 3; i++ {
				token, err := m.Authenticate(context.Background(), tc.username, tc.password)
				if !errors.Is(err, tc.want) {
					t.Fatalf("attempt %d: err=%v, want %v", i, err, tc.want)
				}
				if token != "" {
					t.Fatalf("attempt %d: unexpected token %q", i, token)
				}
			}
			if store.Len() != 0 {
				t.Fatalf("failed attempts must not create sessions, Len=%d", store.Len())
			}
		})
	}
}

func TestResolveWithoutSession(t *testing.T) {
	m := newTestManager(credentials.DefaultTable(), session.NewMemoryStore(session.Policy{}), nil)

	for _, token := range []string{"", "unknown"} {
		if _, err := m.Resolve(context.Background(), token); !errors.Is(err, ErrNoSession) {
			t.Fatalf("Resolve(%q) err=%v, want ErrNoSession", token, err)
		}
	}
}

func TestSignOut(t *testing.T) {
	store := session.NewMemoryStore(session.Policy{})
	m := newTestManager(credentials.DefaultTable(), store, nil)

	token, err := m.Authenticate(context.Background(), strPtr("user1"), strPtr("user1pass"))
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if err := m.SignOut(context.Background(), token); err != nil {
		t.Fatalf("SignOut returned error: %v", err)
	}
	if _, err := m.Resolve(context.Background(), token); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession after sign out, got %v", err)
	}
}

func TestAuthenticateStoreFailure(t *testing.T) {
	m := newTestManager(credentials.DefaultTable(), failingStore{}, nil)

	_, err := m.Authenticate(context.Background(), strPtr("admin"), strPtr("1234"))
	if !errors.Is(err, session.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
