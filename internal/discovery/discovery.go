// Package discovery implements the optional Consul-backed worker
// discovery loop (C9 in SPEC_FULL.md). It repurposes the teacher's
// Consul polling pattern from "whole routing backend" to "worker-set
// bootstrap/reconciliation source": when enabled, it periodically lists
// instances tagged for proving work and reconciles them into the Worker
// Registry via Add/Remove, exactly as if they'd arrived through the
// HTTP control endpoint. This does not create durable state (spec.md's
// Non-goals still hold). Only workers this reconciler itself added are
// removed when they leave Consul; workers from the static config or the
// control endpoint are left untouched.
package discovery

import (
	"context"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/hashicorp/consul/api"

	"github.com/miden-protocol/proving-service/internal/registry"
)

// Reconciler polls Consul and reconciles the discovered instance set
// into the Worker Registry.
type Reconciler struct {
	client   *api.Client
	registry *registry.Registry
	tag      string
	interval time.Duration
	logger   *slog.Logger

	known map[string]struct{}
}

// New creates a Reconciler against the given Consul address. tag filters
// the catalog query to instances advertising proving capability.
func New(consulAddress, tag string, interval time.Duration, reg *registry.Registry, logger *slog.Logger) (*Reconciler, error) {
	cfg := api.DefaultConfig()
	if consulAddress != "" {
		cfg.Address = consulAddress
	}

	client, err := api.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	return &Reconciler{
		client:   client,
		registry: reg,
		tag:      tag,
		interval: interval,
		logger:   logger,
		known:    make(map[string]struct{}),
	}, nil
}

// Run polls Consul on a ticker and reconciles the worker set until ctx
// is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	r.logger.Info("consul worker discovery starting", "tag", r.tag, "interval", r.interval)

	r.reconcile()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("consul worker discovery stopping")
			return
		case <-ticker.C:
			r.reconcile()
		}
	}
}

func (r *Reconciler) reconcile() {
	entries, _, err := r.client.Health().ServiceMultipleTags("", []string{r.tag}, true, nil)
	if err != nil {
		r.logger.Error("consul discovery query failed", "error", err)
		return
	}

	discovered := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		address := serviceAddress(entry.Service)
		discovered[address] = struct{}{}

		if _, ok := r.known[address]; !ok {
			if err := r.registry.Add(address, nil); err != nil {
				r.logger.Error("discovery add failed", "worker_address", address, "error", err)
				continue
			}
			r.known[address] = struct{}{}
		}
	}

	for address := range r.known {
		if _, ok := discovered[address]; !ok {
			if err := r.registry.Remove(address); err != nil {
				r.logger.Error("discovery remove failed", "worker_address", address, "error", err)
			}
			delete(r.known, address)
		}
	}
}

func serviceAddress(svc *api.AgentService) string {
	host := svc.Address
	if host == "" {
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, strconv.Itoa(svc.Port))
}
