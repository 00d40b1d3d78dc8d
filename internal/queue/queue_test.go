package queue

import (
	"testing"
	"time"

	"github.com/miden-protocol/proving-service/internal/types"
)

func TestPushRejectsWhenFull(t *testing.T) {
	q := New(1)
	if err := q.Push(NewRequest(types.ProofKindTransaction, nil, "c1", 1)); err != nil {
		t.Fatalf("first push: %v", err)
	}
	if err := q.Push(NewRequest(types.ProofKindTransaction, nil, "c1", 1)); err != ErrFull {
		t.Fatalf("second push error = %v, want ErrFull", err)
	}
}

func TestPopMatchingPreservesFIFOAmongUnmatched(t *testing.T) {
	q := New(10)
	a := NewRequest(types.ProofKindTransaction, nil, "c1", 1)
	b := NewRequest(types.ProofKindBatch, nil, "c1", 1)
	c := NewRequest(types.ProofKindTransaction, nil, "c1", 1)
	for _, r := range []*Request{a, b, c} {
		if err := q.Push(r); err != nil {
			t.Fatalf("push: %v", err)
		}
	}

	got := q.PopMatching(func(r *Request) bool { return r.ProofKind == types.ProofKindTransaction })
	if got != a {
		t.Fatal("expected to pop the head-of-queue transaction request (a), not a later one")
	}

	got = q.PopMatching(func(r *Request) bool { return r.ProofKind == types.ProofKindTransaction })
	if got != c {
		t.Fatal("expected second transaction pop to return c, preserving FIFO order")
	}

	if q.Len() != 1 {
		t.Fatalf("remaining queue length = %d, want 1 (only b left)", q.Len())
	}
}

func TestPopMatchingReturnsNilWhenNoneMatch(t *testing.T) {
	q := New(10)
	q.Push(NewRequest(types.ProofKindBatch, nil, "c1", 1))
	if got := q.PopMatching(func(r *Request) bool { return r.ProofKind == types.ProofKindBlock }); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestReapExpiredRemovesOnlyOldEntries(t *testing.T) {
	q := New(10)
	old := NewRequest(types.ProofKindTransaction, nil, "c1", 1)
	old.EnqueuedAt = time.Now().Add(-time.Hour)
	fresh := NewRequest(types.ProofKindTransaction, nil, "c1", 1)

	q.Push(old)
	q.Push(fresh)

	expired := q.ReapExpired(time.Minute, time.Now())
	if len(expired) != 1 || expired[0] != old {
		t.Fatalf("expired = %+v, want only the old request", expired)
	}
	if q.Len() != 1 {
		t.Fatalf("queue length after reap = %d, want 1", q.Len())
	}
}

func TestLenByKindCountsOnlyMatchingEntries(t *testing.T) {
	q := New(10)
	q.Push(NewRequest(types.ProofKindTransaction, nil, "c1", 1))
	q.Push(NewRequest(types.ProofKindTransaction, nil, "c1", 1))
	q.Push(NewRequest(types.ProofKindBatch, nil, "c1", 1))

	if got := q.LenByKind(types.ProofKindTransaction); got != 2 {
		t.Fatalf("LenByKind(transaction) = %d, want 2", got)
	}
	if got := q.LenByKind(types.ProofKindBlock); got != 0 {
		t.Fatalf("LenByKind(block) = %d, want 0", got)
	}
}

func TestHasKind(t *testing.T) {
	q := New(10)
	if q.HasKind(types.ProofKindTransaction) {
		t.Fatal("empty queue should have no kind")
	}
	q.Push(NewRequest(types.ProofKindTransaction, nil, "c1", 1))
	if !q.HasKind(types.ProofKindTransaction) {
		t.Fatal("expected HasKind(transaction) true after push")
	}
}

func TestResolveUnblocksDone(t *testing.T) {
	req := NewRequest(types.ProofKindTransaction, []byte("p"), "c1", 1)
	done := make(chan struct{})
	go func() {
		<-req.Done
		close(done)
	}()
	req.Resolve([]byte("result"), nil)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Resolve did not unblock waiters")
	}
	if string(req.Result) != "result" {
		t.Fatalf("Result = %q, want %q", req.Result, "result")
	}
}
