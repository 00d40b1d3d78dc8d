// Package controlplane implements the Control Plane (C7): the gRPC
// Status service and the HTTP add/remove-worker control endpoint.
// Mutations serialize against the Worker Registry; they never race each
// other because the registry itself takes the exclusive lock for the
// minimum span needed per operation (spec.md §5).
package controlplane

import (
	"context"
	"net/http"
	"strconv"

	"github.com/miden-protocol/proving-service/internal/registry"
	"github.com/miden-protocol/proving-service/internal/types"
	"github.com/miden-protocol/proving-service/pkg/proverpb"
)

// Version is the proxy's build version, reported on the Status RPC. It
// is a package variable rather than a constant so a release build can
// overwrite it with -ldflags, matching how the original CLI surfaces a
// version string (see SPEC_FULL.md §5).
var Version = "dev"

// Server implements proverpb.StatusServer and the HTTP control
// endpoint described in spec.md §6.
type Server struct {
	proverpb.UnimplementedStatusServer

	registry *registry.Registry
}

// New creates a Control Plane server over the given registry.
func New(reg *registry.Registry) *Server {
	return &Server{registry: reg}
}

// Status returns the union of currently-Healthy workers' capabilities,
// per spec.md §4.7.
func (s *Server) Status(ctx context.Context, _ *proverpb.StatusRequest) (*proverpb.StatusResponse, error) {
	snap := s.registry.Snapshot()

	supported := &proverpb.SupportedProofTypes{}
	ready := false
	for _, w := range snap {
		if w.Health != types.HealthHealthy {
			continue
		}
		ready = true
		for _, k := range w.SupportedProofs {
			switch k {
			case types.ProofKindTransaction:
				supported.Transaction = true
			case types.ProofKindBatch:
				supported.Batch = true
			case types.ProofKindBlock:
				supported.Block = true
			}
		}
	}

	return &proverpb.StatusResponse{
		Ready:               ready,
		Version:             Version,
		SupportedProofTypes: supported,
	}, nil
}

// ControlHandler serves GET /?action=add|remove&workers=host:port[&workers=...]
// per spec.md §6. On success it writes X-Workers-Amount with the
// resulting worker count; on rejection it writes a 4xx with
// X-Error-Message.
func (s *Server) ControlHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		action := r.URL.Query().Get("action")
		addresses := r.URL.Query()["workers"]

		if len(addresses) == 0 {
			writeError(w, http.StatusBadRequest, "at least one workers= parameter is required")
			return
		}

		switch action {
		case "add":
			for _, addr := range addresses {
				if err := s.registry.Add(addr, nil); err != nil {
					writeError(w, http.StatusBadRequest, err.Error())
					return
				}
			}
		case "remove":
			for _, addr := range addresses {
				if err := s.registry.Remove(addr); err != nil {
					writeError(w, http.StatusBadRequest, err.Error())
					return
				}
			}
		default:
			writeError(w, http.StatusBadRequest, "action must be add or remove")
			return
		}

		w.Header().Set("X-Workers-Amount", strconv.Itoa(s.registry.Count()))
		w.WriteHeader(http.StatusOK)
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("X-Error-Message", message)
	w.WriteHeader(status)
}
