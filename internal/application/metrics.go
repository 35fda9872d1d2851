package application

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Validation outcomes recorded in devhub_validations_total.
const (
	OutcomeStored    = "stored"
	OutcomeConflict  = "conflict"
	OutcomeCompared  = "compared"
	OutcomeMalformed = "malformed"
	OutcomeError     = "error"
)

// Metrics holds the pipeline counters.
type Metrics struct {
	Validations        *prometheus.CounterVec
	MessagesMatched    prometheus.Counter
	MessagesTruncated  prometheus.Counter
	AnnotationsSkipped prometheus.Counter
}

// NewMetrics registers the pipeline counters on reg. Passing a fresh
// prometheus.NewRegistry() keeps tests isolated from the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Validations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "devhub_validations_total",
			Help: "Total validations processed by outcome",
		}, []string{"outcome"}),
		MessagesMatched: factory.NewCounter(prometheus.CounterOpts{
			Name: "devhub_messages_matched_total",
			Help: "Total messages matched against a previous validation",
		}),
		MessagesTruncated: factory.NewCounter(prometheus.CounterOpts{
			Name: "devhub_messages_truncated_total",
			Help: "Total messages dropped by the display limit",
		}),
		AnnotationsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "devhub_annotations_skipped_total",
			Help: "Total stored annotations skipped because their key could not be decoded",
		}),
	}
}
