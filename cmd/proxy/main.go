// Command proxy runs the proving-service load balancer: it accepts
// client Prove/Status RPCs over gRPC, admits and queues requests, and
// dispatches them to a fleet of worker processes reachable as opaque
// gRPC endpoints.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/miden-protocol/proving-service/internal/config"
	"github.com/miden-protocol/proving-service/internal/controlplane"
	"github.com/miden-protocol/proving-service/internal/discovery"
	"github.com/miden-protocol/proving-service/internal/dispatcher"
	"github.com/miden-protocol/proving-service/internal/events"
	"github.com/miden-protocol/proving-service/internal/healthprobe"
	"github.com/miden-protocol/proving-service/internal/metrics"
	"github.com/miden-protocol/proving-service/internal/queue"
	"github.com/miden-protocol/proving-service/internal/ratelimit"
	"github.com/miden-protocol/proving-service/internal/registry"
	"github.com/miden-protocol/proving-service/internal/types"
	"github.com/miden-protocol/proving-service/pkg/proverpb"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if err := run(logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load(envOr("PROXY_CONFIG_PATH", ""))
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	reg := registry.New(logger)
	for _, w := range cfg.Workers {
		if err := reg.Add(w.Address(), types.AllProofKinds()); err != nil {
			return fmt.Errorf("seed worker %s: %w", w.Address(), err)
		}
	}

	sink := metrics.New()
	q := queue.New(cfg.MaxQueueSize)
	limiter := ratelimit.New(float64(cfg.MaxReqPerSec), 10*time.Minute)

	publisher, err := events.NewPublisher(cfg.EventsAMQPURL, logger)
	if err != nil {
		return fmt.Errorf("events publisher: %w", err)
	}
	defer publisher.Close()

	healthNotifier := &healthEventNotifier{publisher: publisher, logger: logger}
	prober := healthprobe.New(reg, healthprobe.Config{
		PollInterval: time.Second,
		BaseInterval: cfg.HealthCheckInterval(),
		ProbeTimeout: 5 * time.Second,
	}, logger, healthNotifier)

	reg.SetNotifier(&lifecycleEventNotifier{publisher: publisher, logger: logger})

	disp := dispatcher.New(reg, q, sink, dispatcher.Config{
		Workers:                 4,
		BreakerMaxRequests:      1,
		BreakerInterval:         time.Minute,
		BreakerTimeout:          30 * time.Second,
		BreakerFailureThreshold: 5,
	}, logger)
	disp.SetFailureNotifier(&failureEventNotifier{publisher: publisher, logger: logger})

	control := controlplane.New(reg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go prober.Run(ctx)
	go disp.Run(ctx)
	go reapExpired(ctx, q, sink, cfg.TimeoutDuration())
	go sampleGauges(ctx, reg, q, sink)
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				limiter.EvictIdle(now)
			}
		}
	}()

	if cfg.ConsulAddress != "" {
		rec, err := discovery.New(cfg.ConsulAddress, cfg.ConsulTag, 10*time.Second, reg, logger)
		if err != nil {
			return fmt.Errorf("consul discovery: %w", err)
		}
		go rec.Run(ctx)
	}

	grpcServer := grpc.NewServer()
	proverpb.RegisterProverServer(grpcServer, &proverServer{
		queue:          q,
		metrics:        sink,
		limiter:        limiter,
		maxRetries:     cfg.MaxRetriesPerRequest,
		requestTimeout: cfg.TimeoutDuration(),
	})
	proverpb.RegisterStatusServer(grpcServer, control)

	healthSvc := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSvc)
	healthSvc.SetServingStatus("miden.proving.v1.Prover", healthpb.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.ListenAddress())
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", sink.Handler())
	mux.Handle("/", control.ControlHandler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.MetricsPort),
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down proxy")
		grpcServer.GracefulStop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	go func() {
		logger.Info("control/metrics http server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", "error", err)
		}
	}()

	logger.Info("proxy starting", "addr", cfg.ListenAddress(), "workers", len(cfg.Workers))
	if err := grpcServer.Serve(lis); err != nil {
		return fmt.Errorf("grpc server: %w", err)
	}
	return nil
}

// proverServer implements proverpb.ProverServer: the client-facing entry
// point that runs admission (rate limit -> queue) before the Dispatcher
// picks the request up.
type proverServer struct {
	proverpb.UnimplementedProverServer

	queue          *queue.Queue
	metrics        *metrics.Sink
	limiter        *ratelimit.Limiter
	maxRetries     int
	requestTimeout time.Duration
}

func (s *proverServer) Prove(ctx context.Context, req *proverpb.ProveRequest) (*proverpb.ProveResponse, error) {
	// request_count is incremented once per incoming RPC, unconditionally,
	// so every later disposition (success, failure, rate-limited,
	// queue-dropped) is a mutually exclusive partition of it per
	// spec.md §8 property 10.
	s.metrics.RequestCount.Inc()

	clientID := clientIdentity(ctx)

	if !s.limiter.Admit(clientID) {
		s.metrics.RateLimitedRequests.Inc()
		s.metrics.RateLimitViolations.Inc()
		return nil, status.Errorf(codes.ResourceExhausted, "rate limit exceeded for client %s", clientID)
	}

	kind := fromWireProofKind(req.GetProofType())
	pending := queue.NewRequest(kind, req.GetPayload(), clientID, s.maxRetries+1)

	if err := s.queue.Push(pending); err != nil {
		s.metrics.QueueDropCount.Inc()
		return nil, status.Errorf(codes.ResourceExhausted, "too many requests in the queue")
	}

	deadline := time.Now().Add(s.requestTimeout)
	if s.requestTimeout <= 0 {
		deadline = time.Time{}
	}

	select {
	case <-pending.Done:
		s.metrics.RequestLatency.Observe(time.Since(pending.EnqueuedAt).Seconds())
		if pending.Err != nil {
			return nil, pending.Err
		}
		return &proverpb.ProveResponse{Payload: pending.Result}, nil
	case <-ctx.Done():
		return nil, status.Errorf(codes.DeadlineExceeded, "client cancelled before response")
	case <-timeAfterOrNever(deadline):
		return nil, status.Errorf(codes.DeadlineExceeded, "request exceeded its deadline")
	}
}

func timeAfterOrNever(deadline time.Time) <-chan time.Time {
	if deadline.IsZero() {
		return nil
	}
	return time.After(time.Until(deadline))
}

func clientIdentity(ctx context.Context) string {
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		if host, _, err := net.SplitHostPort(p.Addr.String()); err == nil {
			return host
		}
		return p.Addr.String()
	}
	return "unknown"
}

func fromWireProofKind(k proverpb.ProofKind) types.ProofKind {
	switch k {
	case proverpb.ProofKind_PROOF_KIND_BATCH:
		return types.ProofKindBatch
	case proverpb.ProofKind_PROOF_KIND_BLOCK:
		return types.ProofKindBlock
	default:
		return types.ProofKindTransaction
	}
}

// reapExpired periodically evicts queue entries that exceeded
// max_queue_wait, per spec.md §4.4.
func reapExpired(ctx context.Context, q *queue.Queue, sink *metrics.Sink, maxWait time.Duration) {
	if maxWait <= 0 {
		return
	}
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, req := range q.ReapExpired(maxWait, time.Now()) {
				// A timed-out queue wait is a drop, not a dispatch
				// failure — request_failure_count is reserved for
				// terminal dispatch outcomes per spec.md §4.6.
				sink.QueueDropCount.Inc()
				req.Resolve(nil, status.Errorf(codes.DeadlineExceeded, "queue wait exceeded timeout"))
			}
		}
	}
}

// sampleGauges periodically refreshes the registry/queue-derived gauges,
// since gauges (unlike counters) need an explicit poll rather than an
// increment at the point of the event.
func sampleGauges(ctx context.Context, reg *registry.Registry, q *queue.Queue, sink *metrics.Sink) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap := reg.Snapshot()
			busy := 0
			for _, w := range snap {
				if w.InFlight {
					busy++
				}
			}
			sink.WorkerCount.Set(float64(len(snap)))
			sink.WorkerBusy.Set(float64(busy))
			sink.QueueSize.Set(float64(q.Len()))
			for _, kind := range types.AllProofKinds() {
				sink.QueueDepthByKind.WithLabelValues(kind.String()).Set(float64(q.LenByKind(kind)))
			}
		}
	}
}

// healthEventNotifier bridges the Health Prober to the event publisher,
// so health transitions become WorkerHealthChangedEvent messages without
// the prober depending on the events package directly.
type healthEventNotifier struct {
	publisher *events.Publisher
	logger    *slog.Logger
}

func (n *healthEventNotifier) NotifyHealthChanged(address string, previous, current types.HealthStatus) {
	err := n.publisher.Publish(context.Background(), events.WorkerHealthChangedEvent{
		EventID:        uuid.NewString(),
		WorkerAddress:  address,
		PreviousStatus: previous.String(),
		CurrentStatus:  current.String(),
		Timestamp:      time.Now().UTC(),
	})
	if err != nil {
		n.logger.Warn("failed to publish health change event", "error", err)
	}
}

// lifecycleEventNotifier bridges the Worker Registry to the event
// publisher, so worker add/remove become WorkerAddedEvent /
// WorkerRemovedEvent messages without the registry depending on the
// events package directly.
type lifecycleEventNotifier struct {
	publisher *events.Publisher
	logger    *slog.Logger
}

func (n *lifecycleEventNotifier) NotifyWorkerAdded(address string) {
	err := n.publisher.Publish(context.Background(), events.WorkerAddedEvent{
		EventID:       uuid.NewString(),
		WorkerAddress: address,
		Timestamp:     time.Now().UTC(),
	})
	if err != nil {
		n.logger.Warn("failed to publish worker added event", "error", err)
	}
}

func (n *lifecycleEventNotifier) NotifyWorkerRemoved(address string) {
	err := n.publisher.Publish(context.Background(), events.WorkerRemovedEvent{
		EventID:       uuid.NewString(),
		WorkerAddress: address,
		Timestamp:     time.Now().UTC(),
	})
	if err != nil {
		n.logger.Warn("failed to publish worker removed event", "error", err)
	}
}

// failureEventNotifier bridges the Dispatcher/Retry Controller to the
// event publisher, so terminal request failures become
// RequestFailedEvent messages without the dispatcher depending on the
// events package directly.
type failureEventNotifier struct {
	publisher *events.Publisher
	logger    *slog.Logger
}

func (n *failureEventNotifier) NotifyRequestFailed(requestID string, kind types.ProofKind, reason string) {
	err := n.publisher.Publish(context.Background(), events.RequestFailedEvent{
		EventID:   uuid.NewString(),
		RequestID: requestID,
		ProofKind: kind.String(),
		Reason:    reason,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		n.logger.Warn("failed to publish request failed event", "error", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
