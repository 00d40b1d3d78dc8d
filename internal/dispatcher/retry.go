package dispatcher

import (
	"fmt"
	"log/slog"

	"github.com/miden-protocol/proving-service/internal/metrics"
	"github.com/miden-protocol/proving-service/internal/queue"
	"github.com/miden-protocol/proving-service/internal/registry"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// RetryController implements C6: on transient failure it re-enqueues to
// the tail of the queue, up to the request's attempt budget.
type RetryController struct {
	registry *registry.Registry
	queue    *queue.Queue
	metrics  *metrics.Sink
	logger   *slog.Logger

	failureNotifier FailureNotifier
}

// Handle is called by the Dispatcher after a transient failure. If
// attempts remain, the request is decremented and pushed to the tail
// (§4.6); otherwise it resolves with Internal.
func (rc *RetryController) Handle(req *queue.Request, cause error) {
	req.AttemptsRemaining--

	if req.AttemptsRemaining <= 0 {
		rc.metrics.RequestFailureCount.Inc()
		notifyFailed(rc.failureNotifier, req, fmt.Sprintf("retries exhausted: %v", cause))
		req.Resolve(nil, status.Errorf(codes.Internal, "proof request failed after exhausting retries: %v", cause))
		return
	}

	if err := rc.queue.Push(req); err != nil {
		// The queue filled up while this retry was in flight. This is a
		// capacity drop, not a terminal dispatch failure, so only
		// queue_drop_count fires (request_failure_count stays reserved
		// for terminal dispatch outcomes, per spec.md §8 property 10).
		rc.metrics.QueueDropCount.Inc()
		notifyFailed(rc.failureNotifier, req, "queue full while retrying")
		req.Resolve(nil, status.Errorf(codes.ResourceExhausted, "too many requests in the queue"))
		return
	}

	rc.metrics.RequestRetries.Inc()
	rc.logger.Warn("retrying proof request",
		"request_id", req.RequestID,
		"attempts_remaining", req.AttemptsRemaining,
		"cause", cause,
	)
}
