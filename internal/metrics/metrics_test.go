package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	c.ObserveLogin(ResultSuccess)
	c.ObserveLogin(ResultInvalidCredentials)
	c.ObserveLogin(ResultInvalidCredentials)
	c.ObserveLogout()
	c.ObserveAccessDenied()

	if got := testutil.ToFloat64(c.loginAttempts.WithLabelValues(ResultInvalidCredentials)); got != 2 {
		t.Fatalf("invalid_credentials = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.loginAttempts.WithLabelValues(ResultSuccess)); got != 1 {
		t.Fatalf("success = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.logouts); got != 1 {
		t.Fatalf("logouts = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.accessDenied); got != 1 {
		t.Fatalf("access denied = %v, want 1", got)
	}
}

func TestCollectorDoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := New(reg); err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := New(reg); err == nil {
		t.Fatal("expected error when registering twice")
	}
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	c.ObserveLogin(ResultSuccess)
	c.ObserveLogout()
	c.ObserveAccessDenied()
}
