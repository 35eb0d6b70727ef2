package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"voteguard/internal/domain"
)

// DefaultBulkConcurrency bounds concurrent backend calls in a bulk approve or reject
const DefaultBulkConcurrency = 4

// Decision is an organizer's verdict on a request
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// decider is the slice of ParticipationBackend the queue calls
type decider interface {
	ApproveRequest(ctx context.Context, ownerID, electionID, voterID string) error
	RejectRequest(ctx context.Context, ownerID, electionID, voterID string) error
}

// ItemOutcome is the result of one call within a batch
type ItemOutcome struct {
	VoterID   domain.ID `json:"voter_id"`
	Succeeded bool      `json:"succeeded"`
	Error     string    `json:"error,omitempty"`
}

// BatchResult reports a bulk decision item by item
type BatchResult struct {
	Decision  Decision      `json:"decision"`
	Outcomes  []ItemOutcome `json:"outcomes"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
}

// Queue is the pending participation requests of one election, in arrival order.
// An item leaves the queue only when its own backend call succeeded.
type Queue struct {
	mu          sync.Mutex
	backend     decider
	ownerID     string
	electionID  string
	pending     []domain.ParticipationRequest
	query       string
	concurrency int
	logger      *zap.Logger
}

// NewQueue creates a queue over requests, which must already be in backend order
func NewQueue(backend decider, ownerID, electionID string, requests []domain.ParticipationRequest, concurrency int, logger *zap.Logger) *Queue {
	if concurrency < 1 {
		concurrency = DefaultBulkConcurrency
	}
	pending := make([]domain.ParticipationRequest, 0, len(requests))
	for _, r := range requests {
		if state := r.State.Normalize(); state == "" || state == domain.RequestPending {
			pending = append(pending, r)
		}
	}
	return &Queue{
		backend:     backend,
		ownerID:     ownerID,
		electionID:  electionID,
		pending:     pending,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Pending returns a copy of every pending request
func (q *Queue) Pending() []domain.ParticipationRequest {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]domain.ParticipationRequest(nil), q.pending...)
}

// Filter sets the visible-subset query. The pending list is not touched.
func (q *Queue) Filter(query string) {
	q.mu.Lock()
	q.query = strings.TrimSpace(query)
	q.mu.Unlock()
}

// Visible returns the pending requests matching the current filter
func (q *Queue) Visible() []domain.ParticipationRequest {
	q.mu.Lock()
	defer q.mu.Unlock()
	return filterRequests(q.pending, q.query)
}

// View snapshots the queue for display
func (q *Queue) View() *RequestQueueView {
	q.mu.Lock()
	defer q.mu.Unlock()
	return &RequestQueueView{
		ElectionID:   q.electionID,
		Query:        q.query,
		TotalPending: len(q.pending),
		Requests:     filterRequests(q.pending, q.query),
	}
}

// Approve approves one pending request
func (q *Queue) Approve(ctx context.Context, voterID string) error {
	return q.decideOne(ctx, DecisionApprove, voterID)
}

// Reject rejects one pending request
func (q *Queue) Reject(ctx context.Context, voterID string) error {
	return q.decideOne(ctx, DecisionReject, voterID)
}

// ApproveAll approves every visible request
func (q *Queue) ApproveAll(ctx context.Context) (*BatchResult, error) {
	return q.decideVisible(ctx, DecisionApprove)
}

// RejectAll rejects every visible request
func (q *Queue) RejectAll(ctx context.Context) (*BatchResult, error) {
	return q.decideVisible(ctx, DecisionReject)
}

func (q *Queue) decideOne(ctx context.Context, d Decision, voterID string) error {
	if !q.contains(voterID) {
		return fmt.Errorf("voter %s has no pending request: %w", voterID, errNoPendingRequest)
	}
	if err := q.call(ctx, d, voterID); err != nil {
		return err
	}
	q.remove(voterID)
	return nil
}

func (q *Queue) decideVisible(ctx context.Context, d Decision) (*BatchResult, error) {
	items := q.Visible()
	outcomes := make([]ItemOutcome, len(items))
	errs := make([]error, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(q.concurrency)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			voterID := item.VoterID.String()
			outcomes[i] = ItemOutcome{VoterID: item.VoterID}
			if err := q.call(gctx, d, voterID); err != nil {
				errs[i] = fmt.Errorf("%s voter %s: %w", d, voterID, err)
				outcomes[i].Error = err.Error()
				return nil
			}
			q.remove(voterID)
			outcomes[i].Succeeded = true
			return nil
		})
	}
	// Items never fail the group, so Wait only returns once every call finished.
	_ = g.Wait()

	result := &BatchResult{Decision: d, Outcomes: outcomes}
	for _, o := range outcomes {
		if o.Succeeded {
			result.Succeeded++
		} else {
			result.Failed++
		}
	}

	q.logger.Info("Bulk decision finished",
		zap.String("election_id", q.electionID),
		zap.String("decision", string(d)),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed))

	return result, multierr.Combine(errs...)
}

func (q *Queue) call(ctx context.Context, d Decision, voterID string) error {
	if d == DecisionApprove {
		return q.backend.ApproveRequest(ctx, q.ownerID, q.electionID, voterID)
	}
	return q.backend.RejectRequest(ctx, q.ownerID, q.electionID, voterID)
}

func (q *Queue) contains(voterID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, r := range q.pending {
		if r.VoterID.String() == voterID {
			return true
		}
	}
	return false
}

// remove drops voterID by identity, so completion order never matters
func (q *Queue) remove(voterID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	kept := q.pending[:0]
	for _, r := range q.pending {
		if r.VoterID.String() != voterID {
			kept = append(kept, r)
		}
	}
	q.pending = kept
}

// filterRequests keeps requests whose first name, last name or email contains query,
// ignoring case. An empty query keeps everything.
func filterRequests(requests []domain.ParticipationRequest, query string) []domain.ParticipationRequest {
	out := make([]domain.ParticipationRequest, 0, len(requests))
	needle := strings.ToLower(strings.TrimSpace(query))
	for _, r := range requests {
		if needle == "" ||
			strings.Contains(strings.ToLower(r.FirstName), needle) ||
			strings.Contains(strings.ToLower(r.LastName), needle) ||
			strings.Contains(strings.ToLower(r.Email), needle) {
			out = append(out, r)
		}
	}
	return out
}
