package events

import (
	"context"
	"log/slog"
	"os"
	"testing"
)

func TestNewEvent(t *testing.T) {
	event := NewEvent(EventFormCreated, map[string]interface{}{"form_id": uint(7)})

	if event.ID == "" {
		t.Error("event ID should not be empty")
	}
	if event.Type != EventFormCreated {
		t.Errorf("expected type %s, got %s", EventFormCreated, event.Type)
	}
	if event.Source != EventSource {
		t.Errorf("expected source %s, got %s", EventSource, event.Source)
	}
	if event.Version != EventVersion {
		t.Errorf("expected version %s, got %s", EventVersion, event.Version)
	}
	if event.Timestamp.IsZero() {
		t.Error("event timestamp should not be zero")
	}
	if event.Data["form_id"] != uint(7) {
		t.Errorf("unexpected data: %v", event.Data)
	}

	other := NewEvent(EventFormCreated, nil)
	if other.ID == event.ID {
		t.Error("event IDs should be unique")
	}
}

func TestMockEventPublisher(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	publisher := NewMockEventPublisher(logger)
	ctx := context.Background()

	t.Run("records published events", func(t *testing.T) {
		if err := publisher.Publish(ctx, NewEvent(EventResponseSubmitted, map[string]interface{}{"response_id": uint(1)})); err != nil {
			t.Fatalf("Publish failed: %v", err)
		}
		if err := publisher.Publish(ctx, NewEvent(EventFormDeleted, nil)); err != nil {
			t.Fatalf("Publish failed: %v", err)
		}

		recorded := publisher.GetPublishedEvents()
		if len(recorded) != 2 {
			t.Fatalf("expected 2 events, got %d", len(recorded))
		}
		if recorded[0].Type != EventResponseSubmitted || recorded[1].Type != EventFormDeleted {
			t.Errorf("unexpected order: %s, %s", recorded[0].Type, recorded[1].Type)
		}
	})

	t.Run("returned slice is a copy", func(t *testing.T) {
		recorded := publisher.GetPublishedEvents()
		recorded[0].Type = "mutated"
		if publisher.GetPublishedEvents()[0].Type == "mutated" {
			t.Error("GetPublishedEvents must not expose internal state")
		}
	})

	t.Run("clear drops everything", func(t *testing.T) {
		publisher.ClearEvents()
		if n := len(publisher.GetPublishedEvents()); n != 0 {
			t.Errorf("expected 0 events after clear, got %d", n)
		}
	})
}

func TestNoopEventPublisher(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	publisher := NewNoopEventPublisher(logger)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := publisher.Publish(ctx, NewEvent(EventResponseSubmitted, map[string]interface{}{"response_id": uint(i)})); err != nil {
			t.Fatalf("Publish failed: %v", err)
		}
	}
	if err := publisher.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	t.Run("nil logger is fine", func(t *testing.T) {
		publisher := NewNoopEventPublisher(nil)
		if err := publisher.Publish(ctx, NewEvent(EventFormDeleted, nil)); err != nil {
			t.Fatalf("Publish failed: %v", err)
		}
	})
}

// Integration test example (would require actual Kafka)
func TestKafkaEventPublisher_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	brokers := os.Getenv("KAFKA_TEST_BROKERS")
	if brokers == "" {
		t.Skip("KAFKA_TEST_BROKERS not set")
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	publisher, err := NewKafkaEventPublisher([]string{brokers}, "feedback-form-events-test", logger)
	if err != nil {
		t.Fatalf("failed to create publisher: %v", err)
	}
	defer publisher.Close()

	event := NewEvent(EventFormCreated, map[string]interface{}{"form_id": uint(1)})
	if err := publisher.Publish(context.Background(), event); err != nil {
		t.Fatalf("failed to publish: %v", err)
	}
}

func BenchmarkMockEventPublisher_Publish(b *testing.B) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	publisher := NewMockEventPublisher(logger)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		event := NewEvent(EventResponseSubmitted, map[string]interface{}{"response_id": uint(i)})
		if err := publisher.Publish(ctx, event); err != nil {
			b.Fatalf("Publish failed: %v", err)
		}
	}
}
