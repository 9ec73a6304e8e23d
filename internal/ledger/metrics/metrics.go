package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	dErrors "custodia/pkg/domain-errors"
)

// Metrics exposes ledger operation counters. A nil *Metrics is a no-op so
// tests can run services without touching the global registry.
type Metrics struct {
	OperationsTotal  *prometheus.CounterVec
	CreditedTotal    prometheus.Counter
	DebitedTotal     prometheus.Counter
	RegisteredUsers  prometheus.Gauge
	DeploymentsTotal prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		OperationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "custodia_ledger_operations_total",
			Help: "Ledger operations by name and outcome",
		}, []string{"op", "outcome"}),
		CreditedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "custodia_ledger_credited_units_total",
			Help: "Total units credited across all users",
		}),
		DebitedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "custodia_ledger_debited_units_total",
			Help: "Total units debited across all users",
		}),
		RegisteredUsers: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "custodia_ledger_registered_users",
			Help: "Current number of registered users",
		}),
		DeploymentsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "custodia_ledger_deployments_total",
			Help: "Total depositable contracts deployed",
		}),
	}
}

func (m *Metrics) RecordOperation(op string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = string(dErrors.CodeOf(err))
	}
	m.OperationsTotal.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) AddCredited(amount uint64) {
	if m == nil {
		return
	}
	m.CreditedTotal.Add(float64(amount))
}

func (m *Metrics) AddDebited(amount uint64) {
	if m == nil {
		return
	}
	m.DebitedTotal.Add(float64(amount))
}

func (m *Metrics) IncRegisteredUsers() {
	if m == nil {
		return
	}
	m.RegisteredUsers.Inc()
}

func (m *Metrics) IncDeployments() {
	if m == nil {
		return
	}
	m.DeploymentsTotal.Inc()
}
