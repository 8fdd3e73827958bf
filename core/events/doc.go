// Package events defines the dispatch events emitted on the event bus.
//
// Available event types:
//   - SalesGenerated: ticket sales drawn for a route
//   - TrainDispatched: a train was composed and recorded in the ledger
package events
