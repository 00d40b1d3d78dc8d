// Package dispatcher implements the Dispatcher (C5) and Retry Controller
// (C6): it pairs queued requests with eligible workers, forwards the
// proof call, and reinjects transient failures for retry.
package dispatcher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/miden-protocol/proving-service/internal/metrics"
	"github.com/miden-protocol/proving-service/internal/queue"
	"github.com/miden-protocol/proving-service/internal/registry"
	"github.com/miden-protocol/proving-service/internal/types"
	"github.com/miden-protocol/proving-service/pkg/proverpb"
)

// ErrNoCapableWorker is surfaced as Unavailable when the registry has no
// Healthy worker for the requested proof kind.
var ErrNoCapableWorker = errors.New("dispatcher: no healthy worker supports this proof kind")

// FailureNotifier receives terminal request failures for optional
// external publishing (e.g. as a RequestFailedEvent). A nil notifier is
// a no-op.
type FailureNotifier interface {
	NotifyRequestFailed(requestID string, kind types.ProofKind, reason string)
}

func notifyFailed(n FailureNotifier, req *queue.Request, reason string) {
	if n == nil {
		return
	}
	n.NotifyRequestFailed(req.RequestID, req.ProofKind, reason)
}

// Config controls dispatch concurrency and per-worker transport circuit
// breaking. The breaker is distinct from the Health Prober's own backoff
// state machine (§4.2): it protects against transport flakiness between
// two successful or failed health probes, within a single call.
type Config struct {
	// Workers is the number of concurrent dispatch loops — "cooperative
	// tasks" per spec.md §4.5 — competing to drain the queue.
	Workers int
	// BreakerMaxRequests is gobreaker's half-open trial budget.
	BreakerMaxRequests uint32
	// BreakerInterval is how often gobreaker resets failure counts in
	// the closed state.
	BreakerInterval time.Duration
	// BreakerTimeout is how long an open breaker stays open before
	// trying a half-open probe.
	BreakerTimeout time.Duration
	// BreakerFailureThreshold trips the breaker after this many
	// consecutive failures.
	BreakerFailureThreshold uint32
}

// Dispatcher runs the dispatch loop described in spec.md §4.5.
type Dispatcher struct {
	registry *registry.Registry
	queue    *queue.Queue
	metrics  *metrics.Sink
	logger   *slog.Logger
	cfg      Config
	retry    *RetryController

	mu       sync.Mutex
	conns    map[string]*grpc.ClientConn
	breakers map[string]*gobreaker.CircuitBreaker

	failureNotifier FailureNotifier
}

// SetFailureNotifier registers an optional sink for terminal request
// failures. It must be called before Run starts dispatching, since it
// is not safe to mutate concurrently with dispatch.
func (d *Dispatcher) SetFailureNotifier(n FailureNotifier) {
	d.failureNotifier = n
	d.retry.failureNotifier = n
}

// New creates a Dispatcher. The caller starts its Run loops with Go.
func New(reg *registry.Registry, q *queue.Queue, sink *metrics.Sink, cfg Config, logger *slog.Logger) *Dispatcher {
	d := &Dispatcher{
		registry: reg,
		queue:    q,
		metrics:  sink,
		logger:   logger,
		cfg:      cfg,
		conns:    make(map[string]*grpc.ClientConn),
		breakers: make(map[string]*gobreaker.CircuitBreaker),
	}
	d.retry = &RetryController{registry: reg, queue: q, metrics: sink, logger: logger}
	return d
}

// Run starts cfg.Workers cooperative dispatch loops and blocks until ctx
// is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	n := d.cfg.Workers
	if n < 1 {
		n = 1
	}

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.loop(ctx)
		}()
	}
	wg.Wait()
}

// loop is a single dispatch task: it repeatedly tries to pair a queued
// request with an eligible worker, and otherwise waits for a registry or
// queue state change before trying again.
func (d *Dispatcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		dispatched := d.tryDispatchOne(ctx)
		if dispatched {
			continue
		}

		// Nothing to do right now — wait for a worker release, health
		// transition, or new enqueue before re-scanning the queue.
		select {
		case <-ctx.Done():
			return
		case <-d.registry.Wake():
		case <-time.After(50 * time.Millisecond):
			// Bounded poll: a push onto the queue doesn't close the
			// registry's wake channel, so we still need to notice it.
		}
	}
}

// tryDispatchOne implements steps 1-3 of §4.5's algorithm: find a
// head-of-kind request with an eligible worker, reserve one, and pop it
// from the queue only once a reservation is secured (so a lost race
// leaves the request at the head, preserving FIFO).
func (d *Dispatcher) tryDispatchOne(ctx context.Context) bool {
	for _, kind := range types.AllProofKinds() {
		if !d.queue.HasKind(kind) {
			continue
		}

		eligible := d.registry.ListEligible(kind)
		if len(eligible) == 0 {
			if !d.registry.AnyHealthyForKind(kind) {
				if d.failNoCapableWorker(kind) {
					return true
				}
			}
			continue
		}

		for _, w := range eligible {
			if !d.registry.TryReserve(w.Address) {
				continue
			}

			req := d.queue.PopMatching(func(r *queue.Request) bool { return r.ProofKind == kind })
			if req == nil {
				// Lost the request to a timeout reaper between the
				// eligibility scan and the reservation; give the
				// worker back.
				d.registry.Release(w.Address, registry.OutcomeSuccess)
				continue
			}

			go d.proxyCall(ctx, req, w.Address)
			return true
		}
	}
	return false
}

// failNoCapableWorker pops one queued request of kind, if any, and
// resolves it Unavailable per spec.md §7's "no capable worker" row —
// the registry has no Healthy worker supporting kind at all, so waiting
// for a worker to free up would never help. Returns true if a request
// was resolved this way.
func (d *Dispatcher) failNoCapableWorker(kind types.ProofKind) bool {
	req := d.queue.PopMatching(func(r *queue.Request) bool { return r.ProofKind == kind })
	if req == nil {
		return false
	}
	d.metrics.RequestFailureCount.Inc()
	notifyFailed(d.failureNotifier, req, "no capable worker")
	req.Resolve(nil, status.Errorf(codes.Unavailable, "%v: proof kind %s", ErrNoCapableWorker, kind))
	return true
}

// proxyCall forwards req to the reserved worker and resolves it per
// §4.5 steps 4-5, handing transient failures to the Retry Controller.
func (d *Dispatcher) proxyCall(ctx context.Context, req *queue.Request, workerAddress string) {
	d.metrics.QueueLatency.Observe(time.Since(req.EnqueuedAt).Seconds())

	breaker := d.breakerFor(workerAddress)
	result, err := breaker.Execute(func() (interface{}, error) {
		return d.forward(ctx, workerAddress, req)
	})

	if err == nil {
		d.registry.Release(workerAddress, registry.OutcomeSuccess)
		d.metrics.WorkerRequestCount.WithLabelValues(workerAddress).Inc()
		req.Resolve(result.([]byte), nil)
		return
	}

	class := classify(err)
	if class == types.FailureTransient {
		d.registry.Release(workerAddress, registry.OutcomeTransportFailure)
		d.retry.Handle(req, err)
		return
	}

	d.registry.Release(workerAddress, registry.OutcomeSuccess)
	d.metrics.RequestFailureCount.Inc()
	notifyFailed(d.failureNotifier, req, err.Error())
	req.Resolve(nil, err)
}

func (d *Dispatcher) forward(ctx context.Context, workerAddress string, req *queue.Request) ([]byte, error) {
	conn, err := d.connFor(workerAddress)
	if err != nil {
		return nil, err
	}

	resp, err := proverpb.NewProverClient(conn).Prove(ctx, &proverpb.ProveRequest{
		ProofType: toWireProofKind(req.ProofKind),
		Payload:   req.Payload,
	})
	if err != nil {
		return nil, err
	}
	return resp.GetPayload(), nil
}

func (d *Dispatcher) connFor(address string) (*grpc.ClientConn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if conn, ok := d.conns[address]; ok {
		return conn, nil
	}
	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	d.conns[address] = conn
	return conn, nil
}

func (d *Dispatcher) breakerFor(address string) *gobreaker.CircuitBreaker {
	d.mu.Lock()
	defer d.mu.Unlock()

	if b, ok := d.breakers[address]; ok {
		return b
	}

	b := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        address,
		MaxRequests: d.cfg.BreakerMaxRequests,
		Interval:    d.cfg.BreakerInterval,
		Timeout:     d.cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= d.cfg.BreakerFailureThreshold
		},
	})
	d.breakers[address] = b
	return b
}

// classify maps a forwarding error to the transient/terminal taxonomy in
// spec.md §7. Transient = {transport reset, upstream Unavailable,
// upstream ResourceExhausted}; anything else is terminal.
func classify(err error) types.FailureClass {
	if err == nil {
		return types.FailureNone
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return types.FailureTransient
	}
	st, ok := status.FromError(err)
	if !ok {
		return types.FailureTransient // raw transport error, no gRPC status attached
	}
	switch st.Code() {
	case codes.Unavailable, codes.ResourceExhausted:
		return types.FailureTransient
	default:
		return types.FailureTerminal
	}
}

func toWireProofKind(k types.ProofKind) proverpb.ProofKind {
	switch k {
	case types.ProofKindTransaction:
		return proverpb.ProofKind_PROOF_KIND_TRANSACTION
	case types.ProofKindBatch:
		return proverpb.ProofKind_PROOF_KIND_BATCH
	case types.ProofKindBlock:
		return proverpb.ProofKind_PROOF_KIND_BLOCK
	default:
		return proverpb.ProofKind_PROOF_KIND_TRANSACTION
	}
}
