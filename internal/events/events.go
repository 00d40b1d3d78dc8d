// Package events defines the proving-service's domain events and a
// MassTransit-compatible RabbitMQ publisher for them.
package events

import "time"

// WorkerAddedEvent is published when a worker is added to the registry.
type WorkerAddedEvent struct {
	EventID        string   `json:"eventId"`
	Timestamp      time.Time `json:"timestamp"`
	WorkerAddress  string    `json:"workerAddress"`
}

// WorkerRemovedEvent is published when a worker is fully removed from
// the registry (after any in-flight call it held has completed).
type WorkerRemovedEvent struct {
	EventID       string    `json:"eventId"`
	Timestamp     time.Time `json:"timestamp"`
	WorkerAddress string    `json:"workerAddress"`
}

// WorkerHealthChangedEvent is published when a worker's health
// transitions, per the Health Prober's state machine (spec.md §4.2).
type WorkerHealthChangedEvent struct {
	EventID         string    `json:"eventId"`
	Timestamp       time.Time `json:"timestamp"`
	WorkerAddress   string    `json:"workerAddress"`
	PreviousStatus  string    `json:"previousStatus"`
	CurrentStatus   string    `json:"currentStatus"`
}

// RequestFailedEvent is published when a proof request resolves with a
// terminal failure, for offline analysis of upstream error rates.
type RequestFailedEvent struct {
	EventID     string    `json:"eventId"`
	Timestamp   time.Time `json:"timestamp"`
	RequestID   string    `json:"requestId"`
	ProofKind   string    `json:"proofKind"`
	Reason      string    `json:"reason"`
}
