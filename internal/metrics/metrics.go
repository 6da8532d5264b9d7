// Package metrics はログインゲートの Prometheus メトリクスを提供します。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ログイン試行の結果ラベル
const (
	ResultSuccess            = "success"
	ResultInvalidCredentials = "invalid_credentials"
	ResultMissingField       = "missing_field"
	ResultError              = "error"
)

// Collector はログインゲートのカウンターをまとめたものです。
// nil の Collector に対する呼び出しは何もしません。
type Collector struct {
	loginAttempts *prometheus.CounterVec
	logouts       prometheus.Counter
	accessDenied  prometheus.Counter
}

// New はカウンターを作成し reg に登録します。
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		loginAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "login_gate_login_attempts_total",
				Help: "Login form submissions by result.",
			},
			[]string{"result"},
		),
		logouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "login_gate_logouts_total",
			Help: "Sessions destroyed by explicit logout.",
		}),
		accessDenied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "login_gate_access_denied_total",
			Help: "Protected page requests redirected for lack of a session.",
		}),
	}

	for _, collector := range []prometheus.Collector{c.loginAttempts, c.logouts, c.accessDenied} {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ObserveLogin はログイン試行を1件数えます。
func (c *Collector) ObserveLogin(result string) {
	if c == nil {
		return
	}
	c.loginAttempts.WithLabelValues(result).Inc()
}

// ObserveLogout はログアウトを1件数えます。
func (c *Collector) ObserveLogout() {
	if c == nil {
		return
	}
	c.logouts.Inc()
}

// ObserveAccessDenied はセッション無しのアクセスを1件数えます。
func (c *Collector) ObserveAccessDenied() {
	if c == nil {
		return
	}
	c.accessDenied.Inc()
}
