package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/trainyard/core/catalog"
	"github.com/kilianp07/trainyard/core/composition"
	"github.com/kilianp07/trainyard/core/events"
	"github.com/kilianp07/trainyard/core/journal"
	"github.com/kilianp07/trainyard/core/ledger"
	"github.com/kilianp07/trainyard/core/model"
	"github.com/kilianp07/trainyard/core/monitoring"
	"github.com/kilianp07/trainyard/core/tickets"
	"github.com/kilianp07/trainyard/infra/logger"
	"github.com/kilianp07/trainyard/internal/eventbus"
)

// Result is the outcome of one dispatch cycle.
type Result struct {
	Train model.Train
	Sales model.TicketSales
}

// Options wires a Service. Only Catalog is required.
type Options struct {
	Catalog   *catalog.Catalog
	Generator *tickets.Generator
	Range     tickets.Range
	Ledger    *ledger.MemoryLedger
	Journal   journal.Store
	Bus       *eventbus.Bus[events.Event]
	Logger    logger.Logger
	Clock     func() time.Time
	NewID     func() string
}

// Service runs dispatch cycles: draw sales, compose the train, record it.
// Cycles are serialized.
type Service struct {
	catalog *catalog.Catalog
	gen     *tickets.Generator
	rng     tickets.Range
	ledger  *ledger.MemoryLedger
	journal journal.Store
	bus     *eventbus.Bus[events.Event]
	log     logger.Logger
	now     func() time.Time
	newID   func() string

	mu   sync.Mutex
	sold map[string]int
}

// NewService validates opts and fills the optional collaborators.
func NewService(opts Options) (*Service, error) {
	if opts.Catalog == nil {
		return nil, fmt.Errorf("service: catalog is required")
	}
	if opts.Range == (tickets.Range{}) {
		opts.Range = tickets.DefaultRange
	}
	if err := opts.Range.Validate(); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if opts.Generator == nil {
		opts.Generator = tickets.NewGenerator(nil)
	}
	if opts.Ledger == nil {
		opts.Ledger = ledger.NewMemoryLedger()
	}
	if opts.Journal == nil {
		opts.Journal = journal.NopStore{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.NopLogger{}
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &Service{
		catalog: opts.Catalog,
		gen:     opts.Generator,
		rng:     opts.Range,
		ledger:  opts.Ledger,
		journal: opts.Journal,
		bus:     opts.Bus,
		log:     opts.Logger,
		now:     opts.Clock,
		newID:   opts.NewID,
		sold:    make(map[string]int),
	}, nil
}

// DispatchRoute validates the station names and runs a cycle.
func (s *Service) DispatchRoute(ctx context.Context, departure, arrival string) (Result, error) {
	route, err := model.NewRoute(departure, arrival)
	if err != nil {
		return Result{}, err
	}
	return s.Dispatch(ctx, route)
}

// Dispatch draws ticket sales for every catalog class and dispatches a train
// sized for them.
func (s *Service) Dispatch(ctx context.Context, route model.Route) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	sales, err := s.gen.Generate(s.catalog.ClassNames(), s.rng)
	if err != nil {
		return Result{}, s.fail(route, fmt.Errorf("generate sales: %w", err))
	}
	return s.DispatchWithSales(ctx, route, sales)
}

// DispatchWithSales composes and records a train for the given sales.
func (s *Service) DispatchWithSales(ctx context.Context, route model.Route, sales model.TicketSales) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	s.publish(events.SalesGenerated{Route: route, Sales: sales, Time: s.now()})

	wagons, err := composition.Compose(sales, s.catalog)
	if err != nil {
		return Result{}, s.fail(route, fmt.Errorf("compose train: %w", err))
	}

	s.mu.Lock()
	train := model.NewTrain(s.newID(), route, wagons, s.now())
	s.ledger.Append(train)
	size := s.ledger.Len()
	for _, cs := range sales.Entries() {
		s.sold[cs.Class] += cs.Sold
	}
	s.mu.Unlock()

	if err := s.journal.Append(ctx, journal.NewRecord(train, sales)); err != nil {
		s.log.Warnf("journal append %s: %v", train.ID, err)
		monitoring.CaptureException(err, map[string]string{"component": "journal", "train_id": train.ID})
	}
	s.log.Infow("train dispatched", map[string]any{
		"train_id":    train.ID,
		"route":       route.String(),
		"wagons":      train.WagonCount(),
		"capacity":    train.TotalCapacity(),
		"sold":        sales.Total(),
		"ledger_size": size,
	})
	s.publish(events.TrainDispatched{Train: train, Sales: sales, LedgerSize: size})
	return Result{Train: train, Sales: sales}, nil
}

func (s *Service) fail(route model.Route, err error) error {
	s.log.Errorf("dispatch %s: %v", route, err)
	monitoring.CaptureException(err, map[string]string{"component": "dispatch", "route": route.String()})
	return err
}

func (s *Service) publish(ev events.Event) {
	if s.bus != nil {
		s.bus.Publish(ev)
	}
}

// Trains lists the ledger in dispatch order, optionally filtered.
func (s *Service) Trains(f ledger.Filter) []model.Train {
	return s.ledger.List(f)
}

// SoldByClass returns cumulative tickets sold per class since start.
func (s *Service) SoldByClass() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.sold))
	for k, v := range s.sold {
		out[k] = v
	}
	return out
}

// Ledger exposes the in-memory ledger.
func (s *Service) Ledger() ledger.Ledger { return s.ledger }

// Catalog returns the wagon catalog the service composes from.
func (s *Service) Catalog() *catalog.Catalog { return s.catalog }
