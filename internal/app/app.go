// Package app wires config, logging, metrics and the sync engine for the
// command line tools.
package app

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"roster-sync/internal/config"
	"roster-sync/internal/domain"
	"roster-sync/internal/draft"
	"roster-sync/internal/logger"
	"roster-sync/internal/metrics"
	"roster-sync/internal/notify"
	"roster-sync/internal/remote"
	"roster-sync/internal/roster"
	rsync "roster-sync/internal/sync"
)

// SampleEmployee seeds the memory backend for demos.
var SampleEmployee = domain.Employee{ID: 1, Name: "Joe", Age: 45, IsActive: 1}

type Options struct {
	// Notifier receives user-facing messages in addition to the log.
	Notifier notify.Notifier
	// Seed is loaded into the memory backend; ignored for http.
	Seed []domain.Employee
}

type App struct {
	Config     config.Config
	Log        logger.Logger
	Registry   *prometheus.Registry
	Metrics    *metrics.Recorder
	Collection remote.Collection
	Engine     *rsync.Engine
}

func New(cfg config.Config, log logger.Logger, opts Options) (*App, error) {
	if log == nil {
		log = logger.Discard()
	}
	coll, err := NewCollection(cfg, opts.Seed)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	rec := metrics.New(reg)

	var notifier notify.Notifier = notify.LogNotifier{Log: log}
	if opts.Notifier != nil {
		notifier = notify.Multi{notifier, opts.Notifier}
	}

	engine := rsync.NewEngine(coll, roster.NewStore(), draft.NewStore(), rsync.Options{
		Notifier: notifier,
		Logger:   log,
		Metrics:  rec,
	})

	log.Debug("app: ready", "backend", cfg.Backend, "base_url", cfg.BaseURL)
	return &App{
		Config:     cfg,
		Log:        log,
		Registry:   reg,
		Metrics:    rec,
		Collection: coll,
		Engine:     engine,
	}, nil
}

// NewCollection picks the remote variant named by cfg.Backend.
func NewCollection(cfg config.Config, seed []domain.Employee) (remote.Collection, error) {
	switch cfg.Backend {
	case config.BackendHTTP, "":
		return remote.NewHTTPCollection(cfg.BaseURL, cfg.HTTPTimeout), nil
	case config.BackendMemory:
		return remote.NewMemoryCollection(seed...).WithLatency(cfg.MemoryLatency), nil
	default:
		return nil, fmt.Errorf("app: unknown backend %q", cfg.Backend)
	}
}

// WriteMetrics dumps the registry in the Prometheus text format.
func (a *App) WriteMetrics(w io.Writer) error {
	families, err := a.Registry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
