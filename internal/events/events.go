package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// EventSource identifies this service on the bus
	EventSource = "feedback-form-service"

	// EventVersion is the envelope schema version
	EventVersion = "1.0"
)

// Event types emitted by the service
const (
	EventFormCreated       = "form.created"
	EventFormDeleted       = "form.deleted"
	EventResponseSubmitted = "response.submitted"
	EventUserRegistered    = "user.registered"
	EventUserPasswordReset = "user.password_reset"
)

// Event is the envelope published for every domain event
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Source    string                 `json:"source"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Data      map[string]interface{} `json:"data"`
}

// NewEvent builds an envelope with a fresh id and the current time
func NewEvent(eventType string, data map[string]interface{}) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    EventSource,
		Timestamp: time.Now().UTC(),
		Version:   EventVersion,
		Data:      data,
	}
}

// EventPublisher publishes domain events to the bus
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NoopEventPublisher logs events and discards them. It is the
// production publisher when Kafka is disabled; nothing is retained.
type NoopEventPublisher struct {
	logger *slog.Logger
}

func NewNoopEventPublisher(logger *slog.Logger) *NoopEventPublisher {
	return &NoopEventPublisher{logger: logger}
}

func (p *NoopEventPublisher) Publish(ctx context.Context, event Event) error {
	if p.logger != nil {
		p.logger.Debug("Event dropped, publishing disabled", "type", event.Type, "id", event.ID)
	}
	return nil
}

func (p *NoopEventPublisher) Close() error {
	return nil
}

// MockEventPublisher records events in memory for tests
type MockEventPublisher struct {
	mu     sync.Mutex
	events []Event
	logger *slog.Logger
}

func NewMockEventPublisher(logger *slog.Logger) *MockEventPublisher {
	return &MockEventPublisher{logger: logger}
}

func (p *MockEventPublisher) Publish(ctx context.Context, event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, event)
	if p.logger != nil {
		p.logger.Debug("Mock event published", "type", event.Type, "id", event.ID)
	}
	return nil
}

func (p *MockEventPublisher) Close() error {
	return nil
}

// GetPublishedEvents returns a copy of the recorded events
func (p *MockEventPublisher) GetPublishedEvents() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}

// ClearEvents drops all recorded events
func (p *MockEventPublisher) ClearEvents() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = nil
}
