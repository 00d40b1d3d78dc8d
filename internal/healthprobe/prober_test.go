package healthprobe

import (
	"context"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"github.com/miden-protocol/proving-service/internal/registry"
	"github.com/miden-protocol/proving-service/internal/types"
	"github.com/miden-protocol/proving-service/pkg/proverpb"
)

// stubWorkerStatusServer is a hand-rolled fake, not a mocking-framework
// generated one, matching the teacher's test style.
type stubWorkerStatusServer struct {
	proverpb.UnimplementedWorkerStatusServer
	ready   atomic.Bool
	calls   atomic.Int64
}

func (s *stubWorkerStatusServer) WorkerStatus(ctx context.Context, req *proverpb.StatusRequest) (*proverpb.StatusResponse, error) {
	s.calls.Add(1)
	return &proverpb.StatusResponse{
		Ready:   s.ready.Load(),
		Version: "test",
		SupportedProofTypes: &proverpb.SupportedProofTypes{
			Transaction: true,
		},
	}, nil
}

func startStubWorker(t *testing.T, srv *stubWorkerStatusServer) (address string, dial func(context.Context, string) (net.Conn, error), stop func()) {
	t.Helper()
	lis := bufconn.Listen(1024 * 1024)
	gs := grpc.NewServer()
	proverpb.RegisterWorkerStatusServer(gs, srv)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = gs.Serve(lis)
	}()

	dialer := func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}
	return "bufnet", dialer, func() {
		gs.Stop()
		wg.Wait()
	}
}

func TestProberMarksWorkerHealthyOnSuccessfulProbe(t *testing.T) {
	srv := &stubWorkerStatusServer{}
	srv.ready.Store(true)
	_, dialer, stop := startStubWorker(t, srv)
	defer stop()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithContextDialer(dialer),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	reg := registry.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := reg.Add("10.0.0.1:50051", nil); err != nil {
		t.Fatalf("Add: %v", err)
	}

	p := New(reg, Config{PollInterval: time.Millisecond, BaseInterval: time.Minute, ProbeTimeout: time.Second},
		slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	p.mu.Lock()
	p.conns["10.0.0.1:50051"] = conn
	p.mu.Unlock()

	p.probeOne(context.Background(), registry.Worker{Address: "10.0.0.1:50051", Health: types.HealthUnknown})

	snap := reg.Snapshot()
	if len(snap) != 1 || snap[0].Health != types.HealthHealthy {
		t.Fatalf("snapshot = %+v, want Healthy", snap)
	}
	if snap[0].ConsecutiveFailures != 0 {
		t.Fatalf("consecutive failures = %d, want 0", snap[0].ConsecutiveFailures)
	}
}

func TestProberMarksWorkerUnhealthyWhenNotReady(t *testing.T) {
	srv := &stubWorkerStatusServer{}
	srv.ready.Store(false)
	_, dialer, stop := startStubWorker(t, srv)
	defer stop()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithContextDialer(dialer),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	reg := registry.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := reg.Add("10.0.0.1:50051", nil); err != nil {
		t.Fatalf("Add: %v", err)
	}

	p := New(reg, Config{PollInterval: time.Millisecond, BaseInterval: time.Minute, ProbeTimeout: time.Second},
		slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	p.mu.Lock()
	p.conns["10.0.0.1:50051"] = conn
	p.mu.Unlock()

	p.probeOne(context.Background(), registry.Worker{Address: "10.0.0.1:50051", Health: types.HealthHealthy})

	snap := reg.Snapshot()
	if len(snap) != 1 || snap[0].Health != types.HealthUnhealthy {
		t.Fatalf("snapshot = %+v, want Unhealthy", snap)
	}
	if snap[0].ConsecutiveFailures != 1 {
		t.Fatalf("consecutive failures = %d, want 1", snap[0].ConsecutiveFailures)
	}
}

type notifyRecorder struct {
	mu     sync.Mutex
	events []string
}

func (n *notifyRecorder) NotifyHealthChanged(address string, previous, current types.HealthStatus) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, address+":"+previous.String()+"->"+current.String())
}

func TestProberNotifiesOnlyOnTransition(t *testing.T) {
	srv := &stubWorkerStatusServer{}
	srv.ready.Store(true)
	_, dialer, stop := startStubWorker(t, srv)
	defer stop()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithContextDialer(dialer),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	reg := registry.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	rec := &notifyRecorder{}
	p := New(reg, Config{PollInterval: time.Millisecond, BaseInterval: time.Minute, ProbeTimeout: time.Second},
		slog.New(slog.NewTextHandler(io.Discard, nil)), rec)
	p.mu.Lock()
	p.conns["10.0.0.1:50051"] = conn
	p.mu.Unlock()

	p.probeOne(context.Background(), registry.Worker{Address: "10.0.0.1:50051", Health: types.HealthUnknown})
	p.probeOne(context.Background(), registry.Worker{Address: "10.0.0.1:50051", Health: types.HealthHealthy})

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.events) != 1 {
		t.Fatalf("events = %v, want exactly one transition notification", rec.events)
	}
}
