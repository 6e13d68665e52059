package storage

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// InstrumentedKV decorates a KV with latency, size and error metrics.
type InstrumentedKV struct {
	next     KV
	backend  string
	duration *prometheus.HistogramVec
	bytes    *prometheus.GaugeVec
	errs     *prometheus.CounterVec
}

// Compile-time check that *InstrumentedKV satisfies KV.
var _ KV = (*InstrumentedKV)(nil)

// NewInstrumentedKV wraps next. A nil registerer keeps metrics unregistered.
// PRE: next is non-nil; backend names the wrapped implementation
// POST: Every Get/Put is observed under the backend label
func NewInstrumentedKV(next KV, backend string, reg prometheus.Registerer) *InstrumentedKV {
	factory := promauto.With(reg)
	return &InstrumentedKV{
		next:    next,
		backend: backend,
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "artcor_kv_op_duration_seconds",
			Help:    "Blob store call latency by backend and operation.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"backend", "op"}),
		bytes: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "artcor_kv_blob_bytes",
			Help: "Size of the most recently read or written blob per key.",
		}, []string{"key"}),
		errs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "artcor_kv_errors_total",
			Help: "Blob store failures by backend and operation.",
		}, []string{"backend", "op"}),
	}
}

// Get delegates to the wrapped store. A missing key is not counted as an error.
func (k *InstrumentedKV) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	v, err := k.next.Get(ctx, key)
	k.duration.WithLabelValues(k.backend, "get").Observe(time.Since(start).Seconds())
	switch {
	case err == nil:
		k.bytes.WithLabelValues(key).Set(float64(len(v)))
	case !errors.Is(err, ErrKeyNotFound):
		k.errs.WithLabelValues(k.backend, "get").Inc()
	}
	return v, err
}

// Put delegates to the wrapped store.
func (k *InstrumentedKV) Put(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := k.next.Put(ctx, key, value)
	k.duration.WithLabelValues(k.backend, "put").Observe(time.Since(start).Seconds())
	if err != nil {
		k.errs.WithLabelValues(k.backend, "put").Inc()
		return err
	}
	k.bytes.WithLabelValues(key).Set(float64(len(value)))
	return nil
}

// Close closes the wrapped store.
func (k *InstrumentedKV) Close() error {
	return k.next.Close()
}
