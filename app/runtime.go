package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kilianp07/trainyard/api/trains"
	"github.com/kilianp07/trainyard/config"
	"github.com/kilianp07/trainyard/core/events"
	"github.com/kilianp07/trainyard/core/journal"
	coremetrics "github.com/kilianp07/trainyard/core/metrics"
	coremon "github.com/kilianp07/trainyard/core/monitoring"
	"github.com/kilianp07/trainyard/core/tickets"
	"github.com/kilianp07/trainyard/infra/logger"
	"github.com/kilianp07/trainyard/infra/metrics"
	"github.com/kilianp07/trainyard/infra/monitoring"
	"github.com/kilianp07/trainyard/infra/mqtt"
	"github.com/kilianp07/trainyard/internal/eventbus"
)

// busBuffer leaves room for the collector and announcer to fall behind a few cycles.
const busBuffer = 64

// Runtime owns the service and the background components built from config.
type Runtime struct {
	Config    *config.Config
	Service   *Service
	Bus       *eventbus.Bus[events.Event]
	Journal   journal.Store
	Sink      coremetrics.Sink
	Announcer *mqtt.Announcer

	log     logger.Logger
	cancel  context.CancelFunc
	subs    sync.WaitGroup
	servers sync.WaitGroup
}

// Build wires every component described by cfg. Nothing runs until Start.
func Build(cfg *config.Config) (*Runtime, error) {
	logger.SetLevel(cfg.Logging.Level)
	log := logger.New("runtime")

	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(mon)

	cat, err := cfg.Catalog.Build()
	if err != nil {
		return nil, err
	}
	store, err := journal.Open(cfg.Journal)
	if err != nil {
		return nil, fmt.Errorf("journal: %w", err)
	}
	sink, err := coremetrics.NewSink(cfg.Metrics.Sinks)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("metrics: %w", err)
	}
	var ann *mqtt.Announcer
	if cfg.MQTT.Enabled() {
		if ann, err = mqtt.NewAnnouncer(cfg.MQTT); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("mqtt: %w", err)
		}
	}

	bus := eventbus.New[events.Event](busBuffer)
	svc, err := NewService(Options{
		Catalog:   cat,
		Generator: tickets.NewGenerator(tickets.NewRandSource(cfg.Tickets.Seed)),
		Range:     cfg.Tickets.Range(),
		Journal:   store,
		Bus:       bus,
		Logger:    logger.New("dispatch"),
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	log.Debugw("runtime built", map[string]any{
		"classes": cat.ClassNames(),
		"journal": cfg.Journal.Backend,
		"sinks":   len(cfg.Metrics.Sinks),
		"mqtt":    cfg.MQTT.Enabled(),
		"api":     cfg.API.Addr,
	})
	return &Runtime{
		Config:    cfg,
		Service:   svc,
		Bus:       bus,
		Journal:   store,
		Sink:      sink,
		Announcer: ann,
		log:       log,
	}, nil
}

// Start launches the metrics collector, the announcer and the HTTP servers.
// The servers stop when ctx is canceled or Close is called.
func (r *Runtime) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)
	r.wait(metrics.StartEventCollector(ctx, r.Bus, r.Sink))
	if r.Announcer != nil {
		r.wait(r.Announcer.Run(ctx, r.Bus))
	}
	if addr := r.Config.Metrics.PrometheusAddr; addr != "" {
		r.goServe("prometheus", func() error { return metrics.StartPromServer(ctx, addr) })
	}
	if r.Config.API.Enabled() {
		h := r.apiHandler()
		r.goServe("api", func() error { return trains.Serve(ctx, r.Config.API, h, logger.New("api")) })
	}
}

// apiHandler leaves the journal unset when no backend is configured so the
// API reports it as disabled.
func (r *Runtime) apiHandler() *trains.Handler {
	h := &trains.Handler{Source: r.Service}
	if r.Config.Journal.Backend != "none" {
		h.Journal = r.Journal
	}
	return h
}

func (r *Runtime) wait(done <-chan struct{}) {
	r.subs.Add(1)
	go func() {
		defer r.subs.Done()
		<-done
	}()
}

func (r *Runtime) goServe(name string, serve func() error) {
	r.servers.Add(1)
	go func() {
		defer r.servers.Done()
		defer coremon.Recover()
		if err := serve(); err != nil {
			r.log.Errorf("%s server: %v", name, err)
			coremon.CaptureException(err, map[string]string{"component": name})
		}
	}()
}

// Close closes the bus, lets the collector and announcer finish the events
// still queued, then stops the servers and releases resources.
func (r *Runtime) Close() error {
	r.Bus.Close()
	r.waitFor("event subscribers", &r.subs)
	if r.cancel != nil {
		r.cancel()
	}
	r.waitFor("servers", &r.servers)
	if r.Announcer != nil {
		r.Announcer.Close()
	}
	var errs []error
	if c, ok := r.Sink.(interface{ Close() }); ok {
		c.Close()
	}
	if err := r.Journal.Close(); err != nil {
		errs = append(errs, fmt.Errorf("journal close: %w", err))
	}
	coremon.Flush(2 * time.Second)
	return errors.Join(errs...)
}

func (r *Runtime) waitFor(what string, wg *sync.WaitGroup) {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		r.log.Warnf("%s did not stop in time", what)
	}
}
