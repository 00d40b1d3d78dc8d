package controlplane

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/miden-protocol/proving-service/internal/registry"
	"github.com/miden-protocol/proving-service/internal/types"
	"github.com/miden-protocol/proving-service/pkg/proverpb"
)

func testRegistry() *registry.Registry {
	return registry.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestStatusReportsUnionOfHealthyWorkerCapabilities(t *testing.T) {
	reg := testRegistry()
	reg.Add("a:1", []types.ProofKind{types.ProofKindTransaction})
	reg.Add("b:2", []types.ProofKind{types.ProofKindBatch})
	reg.Add("c:3", []types.ProofKind{types.ProofKindBlock}) // left Unknown, excluded

	reg.UpdateHealth("a:1", true, []types.ProofKind{types.ProofKindTransaction}, time.Minute, time.Now())
	reg.UpdateHealth("b:2", true, []types.ProofKind{types.ProofKindBatch}, time.Minute, time.Now())

	srv := New(reg)
	resp, err := srv.Status(context.Background(), &proverpb.StatusRequest{})
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !resp.Ready {
		t.Fatal("expected ready=true with two healthy workers")
	}
	if !resp.SupportedProofTypes.Transaction || !resp.SupportedProofTypes.Batch {
		t.Fatalf("supported types = %+v, want transaction and batch set", resp.SupportedProofTypes)
	}
	if resp.SupportedProofTypes.Block {
		t.Fatal("block worker is Unknown, should not contribute to the union")
	}
}

func TestStatusNotReadyWithNoHealthyWorkers(t *testing.T) {
	srv := New(testRegistry())
	resp, err := srv.Status(context.Background(), &proverpb.StatusRequest{})
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if resp.Ready {
		t.Fatal("expected ready=false with an empty registry")
	}
}

func TestControlHandlerAddReportsWorkerCount(t *testing.T) {
	reg := testRegistry()
	srv := New(reg)

	req := httptest.NewRequest(http.MethodGet, "/?action=add&workers=10.0.0.1:50051&workers=10.0.0.2:50051", nil)
	rec := httptest.NewRecorder()
	srv.ControlHandler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("X-Workers-Amount"); got != "2" {
		t.Fatalf("X-Workers-Amount = %q, want 2", got)
	}
}

func TestControlHandlerRemoveUnknownWorkerReturns4xxWithMessage(t *testing.T) {
	srv := New(testRegistry())

	req := httptest.NewRequest(http.MethodGet, "/?action=remove&workers=10.0.0.9:50051", nil)
	rec := httptest.NewRecorder()
	srv.ControlHandler().ServeHTTP(rec, req)

	if rec.Code < 400 || rec.Code >= 500 {
		t.Fatalf("status = %d, want 4xx", rec.Code)
	}
	if rec.Header().Get("X-Error-Message") == "" {
		t.Fatal("expected X-Error-Message header on rejection")
	}
}

func TestControlHandlerRejectsUnknownAction(t *testing.T) {
	srv := New(testRegistry())

	req := httptest.NewRequest(http.MethodGet, "/?action=bogus&workers=10.0.0.1:50051", nil)
	rec := httptest.NewRecorder()
	srv.ControlHandler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestControlHandlerRequiresWorkersParam(t *testing.T) {
	srv := New(testRegistry())

	req := httptest.NewRequest(http.MethodGet, "/?action=add", nil)
	rec := httptest.NewRecorder()
	srv.ControlHandler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
