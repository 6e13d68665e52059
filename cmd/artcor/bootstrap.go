package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"artcor/internal/adapters/storage"
	"artcor/internal/adapters/storage/badgerkv"
	"artcor/internal/application/tracker"
	"artcor/internal/config"
	"artcor/internal/domain/calendar"
	"artcor/internal/domain/event"
)

// session is one opened store plus the tracker over it.
type session struct {
	cfg      *config.Config
	kv       storage.KV
	tracker  *tracker.Tracker
	registry *prometheus.Registry
}

// openSession opens the configured backend and loads the tracker.
// PRE: cfg is validated
// POST: Caller closes the session
func openSession(ctx context.Context, cfg *config.Config) (*session, error) {
	if cfg == nil {
		return nil, errors.New("no config found in context")
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	kv, err := openKV(ctx, cfg, reg)
	if err != nil {
		return nil, err
	}
	t, err := tracker.New(ctx, kv, tracker.Options{
		MembersKey:  cfg.MembersKey,
		EventsKey:   cfg.EventsKey,
		UniqueNames: cfg.UniqueMemberNames,
		Policy:      event.Policy{AllowEmptyName: cfg.AllowEmptyEventName},
		Locale:      calendar.Locale(cfg.Locale),
		Registerer:  reg,
	})
	if err != nil {
		kv.Close()
		return nil, fmt.Errorf("failed to load data: %w", err)
	}
	zap.L().Debug("session_opened",
		zap.String("backend", cfg.Backend),
		zap.Int("next_id", t.NextID()),
	)
	return &session{cfg: cfg, kv: kv, tracker: t, registry: reg}, nil
}

// openKV returns the configured backend wrapped with metrics.
func openKV(ctx context.Context, cfg *config.Config, reg prometheus.Registerer) (storage.KV, error) {
	var kv storage.KV
	switch cfg.Backend {
	case config.BackendSQLite:
		db, err := storage.OpenSQLite(cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		if err := storage.InitDB(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		kv = storage.NewSQLiteKV(storage.NewTimedDB(db, reg, cfg.SlowQueryMs))
	case config.BackendBadger:
		b, err := badgerkv.Open(filepath.Join(cfg.DataDir, "badger"), zap.L())
		if err != nil {
			return nil, err
		}
		kv = b
	case config.BackendMemory:
		kv = storage.NewMemoryKV()
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	return storage.NewInstrumentedKV(kv, cfg.Backend, reg), nil
}

func (s *session) Close() error {
	return s.kv.Close()
}

// withSession runs fn against a freshly opened session and closes it.
func withSession(ctx context.Context, fn func(*session) error) error {
	s, err := openSession(ctx, config.FromContext(ctx))
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			zap.L().Warn("session_close_failed", zap.Error(err))
		}
	}()
	return fn(s)
}
