package metrics

import (
	"context"

	"github.com/kilianp07/trainyard/core/events"
	coremetrics "github.com/kilianp07/trainyard/core/metrics"
	"github.com/kilianp07/trainyard/infra/logger"
	"github.com/kilianp07/trainyard/internal/eventbus"
)

// StartEventCollector subscribes to the dispatch bus and records metrics for
// each event. It stops when the context is canceled or the bus is closed;
// events already buffered at that point are still recorded. The returned
// channel is closed once the collector has exited.
func StartEventCollector(ctx context.Context, bus *eventbus.Bus[events.Event], sink coremetrics.Sink) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || sink == nil {
		close(done)
		return done
	}
	log := logger.New("metrics-collector")
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				for {
					select {
					case ev, ok := <-sub:
						if !ok {
							return
						}
						consume(log, sink, ev)
					default:
						return
					}
				}
			case ev, ok := <-sub:
				if !ok {
					return
				}
				consume(log, sink, ev)
			}
		}
	}()
	return done
}

func consume(log logger.Logger, sink coremetrics.Sink, ev events.Event) {
	if err := record(sink, ev); err != nil {
		log.Warnf("record %T: %v", ev, err)
	}
}

func record(sink coremetrics.Sink, ev events.Event) error {
	switch e := ev.(type) {
	case events.SalesGenerated:
		return sink.RecordTicketSales(coremetrics.SalesEvent{
			Route: e.Route,
			Sales: e.Sales.Entries(),
			Time:  e.Time,
		})
	case events.TrainDispatched:
		if err := sink.RecordTrainDispatched(coremetrics.NewDispatchEvent(e.Train, e.Sales)); err != nil {
			return err
		}
		if r, ok := sink.(coremetrics.LedgerSizeRecorder); ok && e.LedgerSize > 0 {
			return r.RecordLedgerSize(e.LedgerSize)
		}
	}
	return nil
}
