package web

import (
	"crypto/rand"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"artcor/internal/adapters/http/middleware"
	"artcor/internal/application/tracker"
)

// Options configures the HTTP surface.
type Options struct {
	StaticDir          string
	CSRFKey            []byte // 32 bytes; random per process when empty
	SecureCookies      bool
	TrustedOrigins     []string
	RateLimitPerSecond int // 0 disables rate limiting
	SlowRequestMs      int
	Tutorial           bool
	Registerer         prometheus.Registerer
	Gatherer           prometheus.Gatherer // serves /metrics when set
}

// Server holds handler dependencies.
type Server struct {
	tracker  *tracker.Tracker
	validate *validator.Validate
	tutorial bool
}

// NewMux wires HTTP handlers for the app.
func NewMux(t *tracker.Tracker, opts Options) http.Handler {
	s := &Server{
		tracker:  t,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		tutorial: opts.Tutorial,
	}

	mux := http.NewServeMux()
	if opts.StaticDir != "" {
		mux.Handle("GET /", http.FileServer(http.Dir(opts.StaticDir)))
	}
	if opts.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	s.registerRoutes(mux)

	csrfKey := opts.CSRFKey
	if len(csrfKey) == 0 {
		csrfKey = make([]byte, 32)
		if _, err := rand.Read(csrfKey); err != nil {
			zap.L().Fatal("csrf_key_generation_failed", zap.Error(err))
		}
		zap.L().Warn("csrf_key_ephemeral", zap.String("hint", "set csrfKey to keep form tokens valid across restarts"))
	}

	timing := middleware.NewTiming(opts.Registerer, opts.SlowRequestMs)

	// Outermost last: RateLimit -> SecurityHeaders -> CSRF -> RequestID -> Timing -> Recover -> Mux
	chain := []func(http.Handler) http.Handler{
		middleware.Recover,
		timing.Middleware,
		middleware.RequestID,
		middleware.CSRF(csrfKey, opts.SecureCookies, opts.TrustedOrigins),
		middleware.SecurityHeaders,
	}
	if opts.RateLimitPerSecond > 0 {
		chain = append(chain, middleware.RateLimit(middleware.NewRateLimiter(opts.RateLimitPerSecond, time.Second)))
	}
	return middleware.Chain(mux, chain...)
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("GET /api/members", s.handleListMembers)
	mux.HandleFunc("POST /api/members", s.handleAddMember)
	mux.HandleFunc("GET /api/members/{id}", s.handleGetMember)
	mux.HandleFunc("PUT /api/members/{id}", s.handleUpdateMember)
	mux.HandleFunc("DELETE /api/members/{id}", s.handleDeleteMember)

	mux.HandleFunc("GET /api/events", s.handleListEvents)
	mux.HandleFunc("POST /api/events", s.handleAddEvent)
	mux.HandleFunc("GET /api/events/years", s.handleEventYears)
	mux.HandleFunc("GET /api/events/{id}", s.handleGetEvent)
	mux.HandleFunc("PUT /api/events/{id}", s.handleUpdateEvent)
	mux.HandleFunc("DELETE /api/events/{id}", s.handleDeleteEvent)

	mux.HandleFunc("GET /api/tree", s.handleTree)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("POST /api/import/ics", s.handleImportICS)

	mux.HandleFunc("GET /tutorial", s.handleTutorial)
}
