package metrics

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordTicketSales forwards the event to all sinks, returning the first error encountered.
func (m *MultiSink) RecordTicketSales(ev SalesEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordTicketSales(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordTrainDispatched forwards the event to all sinks, returning the first error encountered.
func (m *MultiSink) RecordTrainDispatched(ev DispatchEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordTrainDispatched(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordLedgerSize forwards the size when supported by the sink.
func (m *MultiSink) RecordLedgerSize(size int) error {
	for _, s := range m.Sinks {
		if r, ok := s.(LedgerSizeRecorder); ok {
			if err := r.RecordLedgerSize(size); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close closes every child sink that holds resources.
func (m *MultiSink) Close() {
	for _, s := range m.Sinks {
		if c, ok := s.(interface{ Close() }); ok {
			c.Close()
		}
	}
}
