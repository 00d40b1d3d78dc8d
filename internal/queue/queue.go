// Package queue implements the Admission Queue (C4): a bounded FIFO of
// pending proof requests, ordered by arrival, with timeout reaping.
package queue

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/miden-protocol/proving-service/internal/types"
)

// ErrFull is returned by Push when the queue is at max_queue_size.
var ErrFull = errors.New("queue: full")

// Request is a PendingRequest per spec.md §3. It carries everything the
// Dispatcher and Retry Controller need without re-reading from the
// client connection.
type Request struct {
	RequestID          string
	ProofKind          types.ProofKind
	Payload            []byte
	ClientID           string
	EnqueuedAt         time.Time
	AttemptsRemaining  int

	// Done is closed exactly once, by whichever component resolves the
	// request (dispatcher success, terminal failure, or timeout reaper).
	// Result and Err are set before Done closes.
	Done   chan struct{}
	Result []byte
	Err    error
}

// NewRequest builds a Request with a fresh UUID request ID and the given
// retry budget, ready to Push.
func NewRequest(kind types.ProofKind, payload []byte, clientID string, maxAttempts int) *Request {
	return &Request{
		RequestID:         uuid.NewString(),
		ProofKind:         kind,
		Payload:           payload,
		ClientID:          clientID,
		EnqueuedAt:        time.Now(),
		AttemptsRemaining: maxAttempts,
		Done:              make(chan struct{}),
	}
}

// Resolve delivers a final result (success or terminal failure) and
// unblocks the waiting client handler. Safe to call at most once.
func (r *Request) Resolve(result []byte, err error) {
	r.Result = result
	r.Err = err
	close(r.Done)
}

// Queue is a bounded FIFO guarded by a plain mutex; Push/PopMatching
// never suspend while holding it, per the concurrency model's
// requirement that queue operations be non-blocking arithmetic.
type Queue struct {
	mu       sync.Mutex
	items    []*Request
	capacity int
}

// New creates a Queue with the given maximum size.
func New(capacity int) *Queue {
	return &Queue{
		items:    make([]*Request, 0, capacity),
		capacity: capacity,
	}
}

// Push appends req to the tail. Returns ErrFull if the queue is
// saturated; the caller (the Prove handler or the Retry Controller) is responsible for
// surfacing ResourceExhausted to the client in that case.
func (q *Queue) Push(req *Request) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) >= q.capacity {
		return ErrFull
	}
	q.items = append(q.items, req)
	return nil
}

// PopMatching removes and returns the first entry for which pred holds,
// preserving FIFO order among all other entries. Returns nil if no entry
// matches.
func (q *Queue) PopMatching(pred func(*Request) bool) *Request {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, req := range q.items {
		if pred(req) {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return req
		}
	}
	return nil
}

// ReapExpired removes and returns every entry that has waited longer
// than maxWait, for the caller to resolve with a deadline-exceeded
// failure.
func (q *Queue) ReapExpired(maxWait time.Duration, now time.Time) []*Request {
	q.mu.Lock()
	defer q.mu.Unlock()

	var expired []*Request
	kept := q.items[:0]
	for _, req := range q.items {
		if now.Sub(req.EnqueuedAt) > maxWait {
			expired = append(expired, req)
		} else {
			kept = append(kept, req)
		}
	}
	q.items = kept
	return expired
}

// Len reports the current queue depth, for the queue_size gauge.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// LenByKind reports the current depth for a single proof kind, for the
// supplemented queue_depth_by_kind gauge (see SPEC_FULL.md §5).
func (q *Queue) LenByKind(kind types.ProofKind) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := 0
	for _, req := range q.items {
		if req.ProofKind == kind {
			n++
		}
	}
	return n
}

// HasKind reports whether any queued request is of kind, without
// removing it — used by the Dispatcher to decide whether
// it's worth asking the registry for eligible workers.
func (q *Queue) HasKind(kind types.ProofKind) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, req := range q.items {
		if req.ProofKind == kind {
			return true
		}
	}
	return false
}
