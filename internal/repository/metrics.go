package repository

import (
	"github.com/prometheus/client_golang/prometheus"
)

type storeMetrics struct {
	transactions *prometheus.CounterVec
}

func newStoreMetrics(reg prometheus.Registerer) *storeMetrics {
	transactions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "usergroups",
		Subsystem: "store",
		Name:      "transactions_total",
		Help:      "Transactions run by the repositories, by operation and outcome.",
	}, []string{"operation", "outcome"})

	if reg != nil {
		reg.MustRegister(transactions)
	}

	return &storeMetrics{transactions: transactions}
}

func (m *storeMetrics) observe(op string, err error) {
	outcome := "committed"
	if err != nil {
		outcome = "rolled_back"
	}
	m.transactions.WithLabelValues(op, outcome).Inc()
}
