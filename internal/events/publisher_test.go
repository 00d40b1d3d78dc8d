package events

import (
	"context"
	"io"
	"log/slog"
	"testing"
)

func TestNoOpPublisherDoesNotError(t *testing.T) {
	p, err := NewPublisher("", slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewPublisher: %v", err)
	}
	defer p.Close()

	if err := p.Publish(context.Background(), WorkerAddedEvent{WorkerAddress: "10.0.0.1:50051"}); err != nil {
		t.Fatalf("Publish (no-op): %v", err)
	}
}

func TestEventMetaCoversEveryDomainEvent(t *testing.T) {
	cases := []any{
		WorkerAddedEvent{},
		WorkerRemovedEvent{},
		WorkerHealthChangedEvent{},
		RequestFailedEvent{},
	}
	for _, e := range cases {
		typeName, exchange := eventMeta(e)
		if typeName == "urn:message:Unknown" || exchange == "Unknown" {
			t.Fatalf("eventMeta(%T) fell through to the Unknown default", e)
		}
	}
}
