// Package events carries child output to whoever is watching.
//
// Publishers only see the Sink interface. Delivery is best-effort: a slow
// or absent watcher never blocks a publisher.
package events

import "github.com/zebras-launcher/backend/internal/shared/types"

// Sink accepts log events
type Sink interface {
	Publish(event types.LogEvent)
}

// Nop discards every event
type Nop struct{}

// Publish does nothing
func (Nop) Publish(types.LogEvent) {}

// Func adapts a function to Sink
type Func func(event types.LogEvent)

// Publish calls f(event)
func (f Func) Publish(event types.LogEvent) {
	f(event)
}

// Multi publishes to every sink in order
type Multi []Sink

// Publish forwards event to each sink
func (m Multi) Publish(event types.LogEvent) {
	for _, s := range m {
		if s != nil {
			s.Publish(event)
		}
	}
}
