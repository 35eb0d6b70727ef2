package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"math"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"voteguard/internal/backend"
	"voteguard/internal/domain"
	"voteguard/internal/lifecycle"
	apperrors "voteguard/pkg/errors"
)

// ErrResultNotAvailable is returned when no result has been generated for an election yet
var ErrResultNotAvailable = apperrors.NewNotFoundError("result not available")

// electionGetter is the slice of ElectionBackend the presenter needs for the phase check
type electionGetter interface {
	GetElection(ctx context.Context, ownerID, electionID string) (*domain.Election, error)
}

// ResultPresenter fetches, generates and formats election results
type ResultPresenter struct {
	backend   ResultBackend
	elections electionGetter
	cache     *CacheService
	inflight  InflightGuard
	clock     clockwork.Clock
	logger    *zap.Logger
}

// NewResultPresenter creates a new result presenter
func NewResultPresenter(backend ResultBackend, elections electionGetter, cache *CacheService, inflight InflightGuard, clock clockwork.Clock, logger *zap.Logger) *ResultPresenter {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if inflight == nil {
		inflight = NewLocalInflight()
	}
	return &ResultPresenter{
		backend:   backend,
		elections: elections,
		cache:     cache,
		inflight:  inflight,
		clock:     clock,
		logger:    logger,
	}
}

// Request returns the stored result for an election, or ErrResultNotAvailable
func (p *ResultPresenter) Request(ctx context.Context, electionID string) (*ResultView, error) {
	result, err := p.cache.GetResultWithCache(ctx, electionID, func(ctx context.Context) (*domain.Result, error) {
		return p.fetch(ctx, electionID)
	})
	if err != nil {
		return nil, err
	}
	return NewResultView(*result), nil
}

// Lookup is Request with "not available" reported as a nil view instead of an error
func (p *ResultPresenter) Lookup(ctx context.Context, electionID string) (*ResultView, error) {
	view, err := p.Request(ctx, electionID)
	if stderrors.Is(err, ErrResultNotAvailable) {
		return nil, nil
	}
	return view, err
}

// Generate asks the election API to tally a closed election. Once a result exists it is
// returned as is, so repeating the call is harmless.
func (p *ResultPresenter) Generate(ctx context.Context, ownerID, electionID string) (*ResultView, error) {
	election, err := p.elections.GetElection(ctx, ownerID, electionID)
	if err != nil {
		return nil, err
	}

	phase := lifecycle.ElectionPhase(p.clock.Now(), election)
	if phase != domain.PhaseClosed {
		return nil, apperrors.NewValidationError("results can only be generated after the election has ended", map[string]interface{}{
			"phase": phase,
		})
	}

	existing, err := p.Lookup(ctx, electionID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	release, err := p.inflight.Acquire(ctx, "results", electionID)
	if err != nil {
		return nil, err
	}
	defer release()

	tally, err := p.backend.GenerateResult(ctx, ownerID, electionID)
	if err != nil {
		p.logger.Warn("Result generation failed",
			zap.String("election_id", electionID),
			zap.Error(err))
		return nil, err
	}

	var result *domain.Result
	if tally != nil {
		r := Present(tally)
		result = &r
	} else {
		// The API only acknowledged the generation; read the stored tally back.
		if result, err = p.fetch(ctx, electionID); err != nil {
			return nil, err
		}
	}

	p.cache.CacheResult(ctx, result)
	p.logger.Info("Result generated",
		zap.String("election_id", electionID),
		zap.Int("total_votes", result.TotalVotes))

	return NewResultView(*result), nil
}

// Generating reports whether a Generate call for the election is in flight. Lock lookup
// failures count as not generating; Generate itself still refuses duplicates.
func (p *ResultPresenter) Generating(ctx context.Context, electionID string) bool {
	held, err := p.inflight.Held(ctx, "results", electionID)
	if err != nil {
		p.logger.Warn("Failed to check result generation lock",
			zap.String("election_id", electionID),
			zap.Error(err))
		return false
	}
	return held
}

// Forget drops any cached result for an election
func (p *ResultPresenter) Forget(ctx context.Context, electionID string) {
	p.cache.InvalidateResult(ctx, electionID)
}

func (p *ResultPresenter) fetch(ctx context.Context, electionID string) (*domain.Result, error) {
	tally, err := p.backend.GetResult(ctx, electionID)
	if err != nil {
		if backend.StatusOf(err) == http.StatusNotFound {
			return nil, ErrResultNotAvailable
		}
		return nil, err
	}
	if tally == nil {
		return nil, ErrResultNotAvailable
	}
	result := Present(tally)
	return &result, nil
}

// Present floors the tally's percentages for display
func Present(t *domain.Tally) domain.Result {
	return domain.Result{
		ElectionID:     t.ElectionID,
		WinnerName:     t.WinnerName,
		TotalVotes:     t.TotalVotes,
		WinningPercent: floorPercent(t.WinningPercent),
		Participation:  floorPercent(t.Participation),
	}
}

func floorPercent(v float64) int {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return int(math.Floor(v))
}

// NewResultView attaches display strings to a result
func NewResultView(r domain.Result) *ResultView {
	votes := "votes"
	if r.TotalVotes == 1 {
		votes = "vote"
	}
	return &ResultView{
		Result:             r,
		TotalVotesText:     fmt.Sprintf("%s %s", humanize.Comma(int64(r.TotalVotes)), votes),
		WinningPercentText: fmt.Sprintf("%d%%", r.WinningPercent),
		ParticipationText:  fmt.Sprintf("%d%%", r.Participation),
	}
}
