package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pricewidget"

const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics groups the widget's collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	quoteFetches    *prometheus.CounterVec
	staleDiscards   prometheus.Counter
	selectionWrites *prometheus.CounterVec
	intents         *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		quoteFetches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_fetches_total",
			Help:      "Quote fetches by asset and result.",
		}, []string{"asset", "result"}),
		staleDiscards: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_quote_discards_total",
			Help:      "Fetch results dropped because a newer fetch superseded them.",
		}),
		selectionWrites: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selection_writes_total",
			Help:      "Selection persistence writes by result.",
		}, []string{"result"}),
		intents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intents_total",
			Help:      "Presentation intents handled by the price state.",
		}, []string{"intent", "result"}),
	}
}

func result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}

func (m *Metrics) QuoteFetched(asset string, err error) {
	if m == nil {
		return
	}
	m.quoteFetches.WithLabelValues(asset, result(err)).Inc()
}

func (m *Metrics) StaleDiscarded() {
	if m == nil {
		return
	}
	m.staleDiscards.Inc()
}

func (m *Metrics) SelectionWritten(err error) {
	if m == nil {
		return
	}
	m.selectionWrites.WithLabelValues(result(err)).Inc()
}

func (m *Metrics) Intent(name string, err error) {
	if m == nil {
		return
	}
	m.intents.WithLabelValues(name, result(err)).Inc()
}
