package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/google/uuid"
)

// massTransitEnvelope wraps an event for compatibility with C#
// MassTransit consumers, matching the wire shape expected by the
// domain layer's downstream analytics consumers.
type massTransitEnvelope struct {
	MessageID   string            `json:"messageId"`
	MessageType []string          `json:"messageType"`
	Headers     map[string]string `json:"headers"`
	Message     any               `json:"message"`
	SentTime    time.Time         `json:"sentTime"`
	Host        massTransitHost   `json:"host"`
}

type massTransitHost struct {
	MachineName     string `json:"machineName"`
	ProcessName     string `json:"processName"`
	Assembly        string `json:"assembly"`
	AssemblyVersion string `json:"assemblyVersion"`
}

// Publisher sends proving-service domain events to RabbitMQ in
// MassTransit-compatible envelope format. If constructed with an empty
// URL it is a no-op publisher that only logs, so events are an optional
// concern the proxy runs correctly without (see SPEC_FULL.md §4).
type Publisher struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	logger *slog.Logger
}

// NewPublisher creates a Publisher connected to the given AMQP URL, or a
// no-op publisher if url is empty.
func NewPublisher(url string, logger *slog.Logger) (*Publisher, error) {
	if url == "" {
		logger.Info("events AMQP URL not configured, using no-op publisher")
		return &Publisher{logger: logger}, nil
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}

	return &Publisher{conn: conn, ch: ch, logger: logger}, nil
}

// Publish sends event to the fanout exchange matching its type.
func (p *Publisher) Publish(ctx context.Context, event any) error {
	typeName, exchangeName := eventMeta(event)

	envelope := massTransitEnvelope{
		MessageID:   uuid.NewString(),
		MessageType: []string{typeName},
		Headers:     map[string]string{},
		Message:     event,
		SentTime:    time.Now().UTC(),
		Host: massTransitHost{
			MachineName:     "proving-proxy",
			ProcessName:     "proxy",
			Assembly:        "miden-proving-service",
			AssemblyVersion: "1.0.0",
		},
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if p.ch == nil {
		p.logger.Info("event published (no-op)", "type", typeName, "exchange", exchangeName)
		return nil
	}

	if err := p.ch.ExchangeDeclare(exchangeName, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", exchangeName, err)
	}

	return p.ch.PublishWithContext(ctx, exchangeName, "", false, false, amqp.Publishing{
		ContentType: "application/vnd.masstransit+json",
		Body:        body,
	})
}

// Close cleanly shuts down the AMQP connection.
func (p *Publisher) Close() error {
	if p.ch != nil {
		p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

func eventMeta(event any) (typeName, exchangeName string) {
	switch event.(type) {
	case WorkerAddedEvent:
		return "urn:message:MidenProving.Events:WorkerAddedEvent", "MidenProving.Events:WorkerAddedEvent"
	case WorkerRemovedEvent:
		return "urn:message:MidenProving.Events:WorkerRemovedEvent", "MidenProving.Events:WorkerRemovedEvent"
	case WorkerHealthChangedEvent:
		return "urn:message:MidenProving.Events:WorkerHealthChangedEvent", "MidenProving.Events:WorkerHealthChangedEvent"
	case RequestFailedEvent:
		return "urn:message:MidenProving.Events:RequestFailedEvent", "MidenProving.Events:RequestFailedEvent"
	default:
		return "urn:message:Unknown", "Unknown"
	}
}
