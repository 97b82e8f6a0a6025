// Package metrics provides Prometheus metrics for validation and encoding
// outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	og "github.com/reoring/optgrammar"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "optgrammar"

// ResultOK is the result label of a successful validation.
const ResultOK = "ok"

// Recorder holds the collectors.
type Recorder struct {
	Validations *prometheus.CounterVec
	Params      *prometheus.CounterVec
}

// New registers the collectors on the default registry.
func New() *Recorder {
	return NewWithRegistry(prometheus.DefaultRegisterer, DefaultNamespace)
}

// NewWithRegistry registers the collectors on reg under namespace
// (DefaultNamespace when empty).
func NewWithRegistry(reg prometheus.Registerer, namespace string) *Recorder {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	factory := promauto.With(reg)
	return &Recorder{
		Validations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validations_total",
				Help:      "Option validations by operation and result (ok or error code)",
			},
			[]string{"operation", "result"},
		),
		Params: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "params_total",
				Help:      "Wire params produced by operation",
			},
			[]string{"operation"},
		),
	}
}

// Observe records one Validate or RequestParams call. params is the
// number of params produced (0 for a plain validation). A nil Recorder
// records nothing.
func (r *Recorder) Observe(operation string, params int, err error) {
	if r == nil {
		return
	}
	r.Validations.WithLabelValues(operation, Result(err)).Inc()
	if err == nil && params > 0 {
		r.Params.WithLabelValues(operation).Add(float64(params))
	}
}

// Result maps an error to its result label.
func Result(err error) string {
	if err == nil {
		return ResultOK
	}
	if e, ok := og.AsError(err); ok {
		return e.Code
	}
	return "error"
}
