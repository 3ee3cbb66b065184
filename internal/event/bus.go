package event

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Event type names emitted on state transitions
const (
	RequestSubmitted = "request.submitted"
	RequestAccepted  = "request.accepted"
	RequestRejected  = "request.rejected"
	RequestExpired   = "request.expired"
	ChannelCreated   = "channel.created"
	ChannelExtended  = "channel.extended"
	ChannelClosed    = "channel.closed"
	ChannelExpired   = "channel.expired"
	MessageFlagged   = "message.flagged"
	MessageApproved  = "message.approved"
	MessageRejected  = "message.rejected"
	ReportFiled      = "report.filed"
	ReportResolved   = "report.resolved"
	ReportDismissed  = "report.dismissed"
	ProfileSuspended = "profile.suspended"
)

// Event is the domain event consumed by the notification layer. The
// engine does not depend on how it is delivered.
type Event struct {
	Type      string                 `json:"type"`
	EntityID  string                 `json:"entity_id"`
	Timestamp time.Time              `json:"timestamp"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
}

// Handler processes one event
type Handler func(event Event)

// Bus is an in-process publish/subscribe dispatcher. Subscribing to "*"
// receives every event.
type Bus struct {
	subscribers map[string][]Handler
	mu          sync.RWMutex
	logger      zerolog.Logger
}

// NewBus creates a new Bus
func NewBus(logger zerolog.Logger) *Bus {
	return &Bus{
		subscribers: make(map[string][]Handler),
		logger:      logger,
	}
}

// Subscribe registers a handler for the given event type
func (b *Bus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish dispatches synchronously to all handlers for the type plus the
// wildcard subscribers. A panicking handler never takes down the caller.
func (b *Bus) Publish(eventType, entityID string, payload map[string]interface{}) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subscribers[eventType])+len(b.subscribers["*"]))
	handlers = append(handlers, b.subscribers[eventType]...)
	handlers = append(handlers, b.subscribers["*"]...)
	b.mu.RUnlock()

	if len(handlers) == 0 {
		return
	}

	event := Event{
		Type:      eventType,
		EntityID:  entityID,
		Timestamp: time.Now(),
		Payload:   payload,
	}

	for _, h := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					b.logger.Error().
						Str("event_type", eventType).
						Str("entity_id", entityID).
						Interface("panic", r).
						Msg("event handler panicked")
				}
			}()
			h(event)
		}()
	}
}

// PublishAsync dispatches in a background goroutine
func (b *Bus) PublishAsync(eventType, entityID string, payload map[string]interface{}) {
	go b.Publish(eventType, entityID, payload)
}
