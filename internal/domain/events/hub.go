package events

import (
	"errors"
	"sync"

	"github.com/zebras-launcher/backend/internal/shared/id"
	"github.com/zebras-launcher/backend/internal/shared/types"
	"go.uber.org/zap"
)

// DefaultBuffer is the per-subscriber queue length
const DefaultBuffer = 256

// ErrHubClosed is returned when subscribing to a closed hub
var ErrHubClosed = errors.New("event hub is closed")

// Hub fans events out to subscribers. A full subscriber queue drops its
// oldest event so publishers never block.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[id.SubscriberID]chan types.LogEvent
	closed      bool
	logger      *zap.Logger
}

// NewHub creates an empty hub
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		subscribers: make(map[id.SubscriberID]chan types.LogEvent),
		logger:      logger,
	}
}

// Subscribe registers a new subscriber with the given queue length
func (h *Hub) Subscribe(buffer int) (id.SubscriberID, <-chan types.LogEvent, error) {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return "", nil, ErrHubClosed
	}

	subID := id.NewSubscriberID()
	ch := make(chan types.LogEvent, buffer)
	h.subscribers[subID] = ch

	h.logger.Debug("Subscriber added", zap.String("subscriber_id", subID.String()))
	return subID, ch, nil
}

// Unsubscribe removes a subscriber and closes its channel
func (h *Hub) Unsubscribe(subID id.SubscriberID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch, ok := h.subscribers[subID]
	if !ok {
		return
	}
	delete(h.subscribers, subID)
	close(ch)

	h.logger.Debug("Subscriber removed", zap.String("subscriber_id", subID.String()))
}

// Publish delivers event to every subscriber without blocking
func (h *Hub) Publish(event types.LogEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for subID, ch := range h.subscribers {
		select {
		case ch <- event:
			continue
		default:
		}

		// Queue full: drop the oldest event and retry once
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- event:
		default:
			h.logger.Debug("Dropped event for slow subscriber", zap.String("subscriber_id", subID.String()))
		}
	}
}

// Count returns the number of subscribers
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Close closes every subscriber channel and rejects new subscribers
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for subID, ch := range h.subscribers {
		close(ch)
		delete(h.subscribers, subID)
	}
}
