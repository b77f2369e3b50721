package updater

import (
	"context"
	"errors"
	"time"

	"github.com/golang/glog"
	"github.com/google/uuid"

	"github.com/atcwiz/xrp-dashboard/internal/domain"
	"github.com/atcwiz/xrp-dashboard/internal/usecase/status"
)

// DefaultInterval is the pause between cycles in continuous mode
const DefaultInterval = 15 * time.Minute

// UpdaterService runs the fetch → persist cycle
type UpdaterService struct {
	Fetcher       domain.QuoteFetcher
	DashboardRepo domain.DashboardRepository
	Cache         domain.QuoteCache // optional
	Tracker       *status.Tracker   // optional

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// NewUpdaterService creates a new UpdaterService instance.
// cache and tracker may be nil.
func NewUpdaterService(
	fetcher domain.QuoteFetcher,
	dashboardRepo domain.DashboardRepository,
	cache domain.QuoteCache,
	tracker *status.Tracker,
) *UpdaterService {
	return &UpdaterService{
		Fetcher:       fetcher,
		DashboardRepo: dashboardRepo,
		Cache:         cache,
		Tracker:       tracker,
		sleep:         sleepContext,
		now:           time.Now,
	}
}

// RunOnce performs a single fetch → persist cycle.
// Logic:
//   - Fetch the quote (one attempt); on failure the document is not touched
//   - Replace the market metrics in the dashboard document
//   - Publish the quote to the cache if one is configured (failure is only logged)
func (s *UpdaterService) RunOnce(ctx context.Context) (*domain.Quote, error) {
	quote, err := s.Fetcher.FetchQuote(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.DashboardRepo.UpdateMarketMetrics(ctx, quote); err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if err := s.Cache.SetLatest(ctx, quote); err != nil {
			glog.Warningf("Quote cache not updated: %v", err)
		}
	}

	return quote, nil
}

// RunContinuous repeats RunOnce every interval until ctx is cancelled or maxCycles
// cycles have run (0 means no limit). A failed cycle is logged and recorded; the loop
// carries on with the next tick. Returns ctx.Err() when interrupted.
func (s *UpdaterService) RunContinuous(ctx context.Context, interval time.Duration, maxCycles int) error {
	if interval <= 0 {
		return errors.New("update interval must be positive")
	}

	glog.Infof("Starting continuous update mode (every %s)", interval)

	for cycle := 1; ; cycle++ {
		s.runCycle(ctx, cycle)

		if maxCycles > 0 && cycle >= maxCycles {
			return nil
		}

		glog.Infof("Next update in %s", interval)
		if err := s.sleep(ctx, interval); err != nil {
			return err
		}
	}
}

func (s *UpdaterService) runCycle(ctx context.Context, cycle int) status.CycleResult {
	result := status.CycleResult{
		RunID:     uuid.New(),
		Cycle:     cycle,
		StartedAt: s.now(),
	}

	quote, err := s.RunOnce(ctx)
	result.FinishedAt = s.now()
	result.Quote = quote
	result.Err = err

	if err != nil {
		glog.Errorf("Update cycle %d (run %s) failed: %v", cycle, result.RunID, err)
	} else {
		glog.Infof("Update cycle %d (run %s): price %s %s, 24h %s%%",
			cycle, result.RunID, quote.Price, quote.VsCurrency, quote.PercentChange24h.StringFixed(2))
	}

	if s.Tracker != nil {
		s.Tracker.Record(result)
	}

	return result
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
