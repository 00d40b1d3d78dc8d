// Package registry implements the Worker Registry: the single piece of
// shared mutable state in the proxy. It holds the current set of proving
// workers, their health and capability, and the exclusive-mutation
// discipline that keeps "in_flight" reservations race-free.
package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sort"
	"sync"
	"time"

	"github.com/miden-protocol/proving-service/internal/types"
)

// maxBackoffExponent bounds the health-probe backoff at 2^9 seconds.
const maxBackoffExponent = 9

// ErrInvalidAddress is returned by Add when the given address is malformed.
var ErrInvalidAddress = errors.New("registry: invalid worker address")

// ErrUnknownWorker is returned by operations referencing an address the
// registry has no record of.
var ErrUnknownWorker = errors.New("registry: unknown worker")

// worker is the registry's internal, mutable record. All field access is
// guarded by Registry.mu; no field is ever read or written outside a
// registry method.
type worker struct {
	address         string
	supported       map[types.ProofKind]struct{}
	health          types.HealthStatus
	consecutiveFail int
	nextProbeAt     time.Time
	inFlight        bool
	draining        bool
	requestCount    int64
}

// Worker is an immutable snapshot of a single worker's state, safe to
// read and retain after the call that produced it returns.
type Worker struct {
	Address              string
	SupportedProofs      []types.ProofKind
	Health               types.HealthStatus
	ConsecutiveFailures  int
	NextProbeAt          time.Time
	InFlight             bool
	Draining             bool
	RequestCount         int64
}

// Outcome classifies how a reserved call ended, for Release.
type Outcome int

const (
	// OutcomeSuccess means the call completed and the worker behaved.
	OutcomeSuccess Outcome = iota
	// OutcomeTransportFailure means the call failed at the transport
	// level (connection reset, Unavailable, etc). Per §4.1, the worker is
	// marked Unhealthy immediately and scheduled for an immediate probe.
	OutcomeTransportFailure
)

// LifecycleNotifier receives worker add/remove events for optional
// external publishing (e.g. as WorkerAddedEvent/WorkerRemovedEvent). A
// nil notifier on the Registry is a no-op.
type LifecycleNotifier interface {
	NotifyWorkerAdded(address string)
	NotifyWorkerRemoved(address string)
}

// Registry holds the live worker set and exposes the operations the
// Dispatcher, Health Prober, and Control Plane use to read and mutate it.
type Registry struct {
	logger   *slog.Logger
	notifier LifecycleNotifier

	mu      sync.RWMutex
	workers map[string]*worker

	wakeMu sync.Mutex
	wake   chan struct{}
}

// New creates an empty Worker Registry.
func New(logger *slog.Logger) *Registry {
	return &Registry{
		logger:  logger,
		workers: make(map[string]*worker),
		wake:    make(chan struct{}),
	}
}

// SetNotifier registers an optional sink for worker lifecycle events.
// Call it once during startup wiring, before the registry is shared with
// other goroutines.
func (r *Registry) SetNotifier(n LifecycleNotifier) {
	r.notifier = n
}

// Wake returns a channel that closes the next time the registry's
// observable state changes (a worker added/removed, health transitions,
// or a reservation releases). Callers must call Wake again after the
// channel closes to keep watching. This replaces the teacher's cyclic
// registry<->dispatcher back-reference with a one-way broadcast, per
// the redesign in spec.md §9.
func (r *Registry) Wake() <-chan struct{} {
	r.wakeMu.Lock()
	defer r.wakeMu.Unlock()
	return r.wake
}

func (r *Registry) signal() {
	r.wakeMu.Lock()
	defer r.wakeMu.Unlock()
	close(r.wake)
	r.wake = make(chan struct{})
}

// Add registers a worker, or resets an existing one. Re-adding an
// existing (host, port) resets health to Unknown and schedules an
// immediate probe, per §4.1.
func (r *Registry) Add(address string, supported []types.ProofKind) error {
	if !validAddress(address) {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}

	set := make(map[types.ProofKind]struct{}, len(supported))
	for _, k := range supported {
		set[k] = struct{}{}
	}

	r.mu.Lock()
	if w, ok := r.workers[address]; ok {
		w.supported = set
		w.health = types.HealthUnknown
		w.consecutiveFail = 0
		w.nextProbeAt = time.Time{} // due immediately
		w.draining = false
	} else {
		r.workers[address] = &worker{
			address:     address,
			supported:   set,
			health:      types.HealthUnknown,
			nextProbeAt: time.Time{},
		}
	}
	r.mu.Unlock()

	r.logger.Info("worker added", "worker_address", address)
	if r.notifier != nil {
		r.notifier.NotifyWorkerAdded(address)
	}
	r.signal()
	return nil
}

// Remove deregisters a worker. Per §4.1 this is eventual: an in-flight
// worker is flagged draining and physically removed when its active call
// releases; an idle worker is removed immediately.
func (r *Registry) Remove(address string) error {
	r.mu.Lock()
	w, ok := r.workers[address]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownWorker, address)
	}

	removedNow := !w.inFlight
	if removedNow {
		delete(r.workers, address)
	} else {
		w.draining = true
	}
	r.mu.Unlock()

	if removedNow {
		r.logger.Info("worker removed", "worker_address", address)
		if r.notifier != nil {
			r.notifier.NotifyWorkerRemoved(address)
		}
	} else {
		r.logger.Info("worker draining", "worker_address", address)
	}
	r.signal()
	return nil
}

// ListEligible returns the workers eligible to serve proofKind — Healthy,
// idle, not draining, and supporting the kind — ordered least-recently-used
// by request_count and tie-broken by address (§4.1), so load spreads
// uniformly and selection is deterministic for tests.
func (r *Registry) ListEligible(kind types.ProofKind) []Worker {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Worker, 0, len(r.workers))
	for _, w := range r.workers {
		if w.draining || w.inFlight || w.health != types.HealthHealthy {
			continue
		}
		if _, ok := w.supported[kind]; !ok {
			continue
		}
		out = append(out, snapshot(w))
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].RequestCount != out[j].RequestCount {
			return out[i].RequestCount < out[j].RequestCount
		}
		return out[i].Address < out[j].Address
	})
	return out
}

// AnyHealthyForKind reports whether any non-draining worker currently
// Healthy supports kind, regardless of whether it is busy. The
// Dispatcher uses this to distinguish "every capable worker is just
// busy" (wait) from "no capable worker exists" (fail the request with
// Unavailable per spec.md §7) when ListEligible comes back empty.
func (r *Registry) AnyHealthyForKind(kind types.ProofKind) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, w := range r.workers {
		if w.draining || w.health != types.HealthHealthy {
			continue
		}
		if _, ok := w.supported[kind]; ok {
			return true
		}
	}
	return false
}

// TryReserve atomically checks that the worker is idle and healthy and,
// if so, flips in_flight. Returns false if another dispatcher won the
// race, the worker went unhealthy, or it no longer exists.
func (r *Registry) TryReserve(address string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.workers[address]
	if !ok || w.draining || w.inFlight || w.health != types.HealthHealthy {
		return false
	}
	w.inFlight = true
	return true
}

// Release ends a reservation, updates counters, and — for transport
// failures — marks the worker Unhealthy and due for an immediate probe.
// If the worker was draining, it is removed from the registry now that
// its active call has completed.
func (r *Registry) Release(address string, outcome Outcome) {
	r.mu.Lock()
	w, ok := r.workers[address]
	if !ok {
		r.mu.Unlock()
		return
	}

	w.inFlight = false
	w.requestCount++

	if outcome == OutcomeTransportFailure {
		w.health = types.HealthUnhealthy
		w.nextProbeAt = time.Time{} // immediate re-probe
	}

	drainComplete := w.draining
	if drainComplete {
		delete(r.workers, address)
	}
	r.mu.Unlock()

	if drainComplete {
		r.logger.Info("draining worker removed after call completed", "worker_address", address)
		if r.notifier != nil {
			r.notifier.NotifyWorkerRemoved(address)
		}
	}
	r.signal()
}

// DueProbes returns the workers whose next health probe is due at or
// before now, for the Health Prober's poll loop to pick up. Draining
// workers are still probed (their health still matters until they're
// actually removed).
func (r *Registry) DueProbes(now time.Time) []Worker {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Worker
	for _, w := range r.workers {
		if !w.nextProbeAt.After(now) {
			out = append(out, snapshot(w))
		}
	}
	return out
}

// UpdateHealth applies the outcome of a health probe per the state
// machine in spec.md §4.2. It is the sole writer of health,
// consecutive_failures, and next_probe_at outside of Add/Release.
func (r *Registry) UpdateHealth(address string, success bool, supported []types.ProofKind, baseInterval time.Duration, now time.Time) {
	r.mu.Lock()
	w, ok := r.workers[address]
	if !ok {
		r.mu.Unlock()
		return
	}

	if success {
		w.health = types.HealthHealthy
		w.consecutiveFail = 0
		set := make(map[types.ProofKind]struct{}, len(supported))
		for _, k := range supported {
			set[k] = struct{}{}
		}
		w.supported = set
		w.nextProbeAt = now.Add(baseInterval)
	} else {
		w.consecutiveFail++
		w.health = types.HealthUnhealthy
		w.nextProbeAt = now.Add(backoff(w.consecutiveFail))
	}
	r.mu.Unlock()
	r.signal()
}

// backoff computes the §4.2 exponential probe delay.
func backoff(consecutiveFailures int) time.Duration {
	exp := consecutiveFailures
	if exp > maxBackoffExponent {
		exp = maxBackoffExponent
	}
	return time.Duration(1<<uint(exp)) * time.Second
}

// Snapshot returns every worker's current state, for metrics and the
// Control Plane's Status RPC.
func (r *Registry) Snapshot() []Worker {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Worker, 0, len(r.workers))
	for _, w := range r.workers {
		out = append(out, snapshot(w))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out
}

// Count returns the number of workers currently registered (including
// draining ones, which are still "present" until their call completes).
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.workers)
}

func snapshot(w *worker) Worker {
	kinds := make([]types.ProofKind, 0, len(w.supported))
	for k := range w.supported {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	return Worker{
		Address:             w.address,
		SupportedProofs:     kinds,
		Health:              w.health,
		ConsecutiveFailures: w.consecutiveFail,
		NextProbeAt:         w.nextProbeAt,
		InFlight:            w.inFlight,
		Draining:            w.draining,
		RequestCount:        w.requestCount,
	}
}

func validAddress(address string) bool {
	if address == "" {
		return false
	}
	_, port, err := net.SplitHostPort(address)
	return err == nil && port != ""
}
