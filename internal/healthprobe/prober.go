// Package healthprobe implements the Health Prober (C2): a background
// loop that periodically calls each worker's WorkerStatus RPC and feeds
// the result back into the Worker Registry's state machine.
package healthprobe

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/miden-protocol/proving-service/internal/registry"
	"github.com/miden-protocol/proving-service/internal/types"
	"github.com/miden-protocol/proving-service/pkg/proverpb"
)

// Notifier is told about worker health transitions, decoupling the
// prober from any particular downstream consumer (metrics, events).
type Notifier interface {
	NotifyHealthChanged(address string, previous, current types.HealthStatus)
}

// Prober runs the periodic WorkerStatus probe loop.
type Prober struct {
	registry     *registry.Registry
	logger       *slog.Logger
	pollInterval time.Duration
	probeTimeout time.Duration
	baseInterval time.Duration
	notifier     Notifier

	mu    sync.Mutex
	conns map[string]*grpc.ClientConn
}

// Config controls probe cadence and timeouts.
type Config struct {
	// PollInterval is how often the prober checks the registry for due
	// probes. It should be small relative to BaseInterval so probes fire
	// close to when they become due.
	PollInterval time.Duration
	// BaseInterval is the steady-state re-probe delay for a Healthy
	// worker, per spec.md §4.2.
	BaseInterval time.Duration
	// ProbeTimeout bounds a single WorkerStatus RPC.
	ProbeTimeout time.Duration
}

// New creates a Prober. notifier may be nil.
func New(reg *registry.Registry, cfg Config, logger *slog.Logger, notifier Notifier) *Prober {
	return &Prober{
		registry:     reg,
		logger:       logger,
		pollInterval: cfg.PollInterval,
		probeTimeout: cfg.ProbeTimeout,
		baseInterval: cfg.BaseInterval,
		notifier:     notifier,
		conns:        make(map[string]*grpc.ClientConn),
	}
}

// Run blocks, probing due workers on every tick, until ctx is cancelled.
func (p *Prober) Run(ctx context.Context) {
	p.logger.Info("health prober starting",
		"poll_interval", p.pollInterval,
		"base_interval", p.baseInterval,
	)

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	p.probeDue(ctx)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("health prober stopping")
			p.closeAll()
			return
		case <-ticker.C:
			p.probeDue(ctx)
		}
	}
}

func (p *Prober) probeDue(ctx context.Context) {
	due := p.registry.DueProbes(time.Now())
	if len(due) == 0 {
		return
	}

	var wg sync.WaitGroup
	for _, w := range due {
		wg.Add(1)
		go func(w registry.Worker) {
			defer wg.Done()
			p.probeOne(ctx, w)
		}(w)
	}
	wg.Wait()
}

func (p *Prober) probeOne(ctx context.Context, w registry.Worker) {
	probeCtx, cancel := context.WithTimeout(ctx, p.probeTimeout)
	defer cancel()

	conn, err := p.connFor(w.Address)
	if err != nil {
		p.logger.Warn("health probe dial failed", "worker_address", w.Address, "error", err)
		p.registry.UpdateHealth(w.Address, false, nil, p.baseInterval, time.Now())
		p.notify(w.Address, w.Health, types.HealthUnhealthy)
		return
	}

	resp, err := proverpb.NewWorkerStatusClient(conn).WorkerStatus(probeCtx, &proverpb.StatusRequest{})
	if err != nil || !resp.GetReady() {
		if err != nil {
			p.logger.Warn("health probe failed", "worker_address", w.Address, "error", err)
		} else {
			p.logger.Warn("health probe reported not ready", "worker_address", w.Address)
		}
		p.registry.UpdateHealth(w.Address, false, nil, p.baseInterval, time.Now())
		p.notify(w.Address, w.Health, types.HealthUnhealthy)
		return
	}

	supported := supportedKinds(resp.GetSupportedProofTypes())
	p.registry.UpdateHealth(w.Address, true, supported, p.baseInterval, time.Now())
	p.notify(w.Address, w.Health, types.HealthHealthy)
}

func (p *Prober) notify(address string, previous, current types.HealthStatus) {
	if p.notifier == nil || previous == current {
		return
	}
	p.notifier.NotifyHealthChanged(address, previous, current)
}

func (p *Prober) connFor(address string) (*grpc.ClientConn, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if conn, ok := p.conns[address]; ok {
		return conn, nil
	}

	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	p.conns[address] = conn
	return conn, nil
}

func (p *Prober) closeAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for addr, conn := range p.conns {
		_ = conn.Close()
		delete(p.conns, addr)
	}
}

func supportedKinds(sp *proverpb.SupportedProofTypes) []types.ProofKind {
	if sp == nil {
		return nil
	}
	var out []types.ProofKind
	if sp.GetTransaction() {
		out = append(out, types.ProofKindTransaction)
	}
	if sp.GetBatch() {
		out = append(out, types.ProofKindBatch)
	}
	if sp.GetBlock() {
		out = append(out, types.ProofKindBlock)
	}
	return out
}
