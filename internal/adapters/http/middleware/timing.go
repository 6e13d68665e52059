package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// DefaultSlowRequestMs is the default threshold for slow request warnings.
const DefaultSlowRequestMs = 200

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

// WriteHeader captures the status code and delegates to the underlying ResponseWriter.
// PRE: code is a valid HTTP status code
// POST: status stored, header written to underlying ResponseWriter
func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

// statusWriterPool reduces allocations on the hot path.
var statusWriterPool = sync.Pool{
	New: func() any {
		return &statusWriter{}
	},
}

// Timing measures request duration.
type Timing struct {
	threshold time.Duration
	duration  *prometheus.HistogramVec
}

// NewTiming registers the request histogram on reg; a nil reg keeps it
// unregistered. slowRequestMs <= 0 selects DefaultSlowRequestMs.
func NewTiming(reg prometheus.Registerer, slowRequestMs int) *Timing {
	if slowRequestMs <= 0 {
		slowRequestMs = DefaultSlowRequestMs
	}
	return &Timing{
		threshold: time.Duration(slowRequestMs) * time.Millisecond,
		duration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "artcor_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "code"}),
	}
}

// Middleware logs and observes every request except /static/ assets.
// Normal requests log at DEBUG; slow requests (above threshold) log at WARN.
func (t *Timing) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if strings.HasPrefix(path, "/static/") {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		sw := statusWriterPool.Get().(*statusWriter)
		sw.ResponseWriter = w
		sw.status = http.StatusOK
		defer func() {
			elapsed := time.Since(start)
			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			t.duration.WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).Observe(elapsed.Seconds())

			fields := []zap.Field{
				zap.String("request_id", GetRequestID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", path),
				zap.Int("status", sw.status),
				zap.Float64("duration_ms", float64(elapsed.Microseconds())/1000.0),
			}
			if elapsed >= t.threshold {
				zap.L().Warn("slow_request", fields...)
			} else {
				zap.L().Debug("request", fields...)
			}

			sw.ResponseWriter = nil
			statusWriterPool.Put(sw)
		}()

		next.ServeHTTP(sw, r)
	})
}
