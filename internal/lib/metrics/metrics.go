// Package metrics содержит счётчики Prometheus для операций аутентификации.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Результаты операций, используемые как значение метки result.
const (
	ResultSuccess     = "success"
	ResultInvalid     = "invalid"
	ResultConflict    = "conflict"
	ResultUnavailable = "unavailable"
)

// Auth объединяет счётчики регистраций и входов.
type Auth struct {
	registrations *prometheus.CounterVec
	logins        *prometheus.CounterVec
}

// NewAuth создаёт счётчики и регистрирует их в reg.
func NewAuth(reg prometheus.Registerer) *Auth {
	m := &Auth{
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bank_portal",
			Name:      "registrations_total",
			Help:      "Number of registration attempts by result.",
		}, []string{"result"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bank_portal",
			Name:      "logins_total",
			Help:      "Number of login attempts by result.",
		}, []string{"result"}),
	}
	if reg != nil {
		reg.MustRegister(m.registrations, m.logins)
	}
	return m
}

// Registration увеличивает счётчик регистраций с указанным результатом.
func (m *Auth) Registration(result string) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(result).Inc()
}

// Login увеличивает счётчик входов с указанным результатом.
func (m *Auth) Login(result string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(result).Inc()
}
