package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/spot-stats/pkg/adapters"
	"github.com/de-tools/spot-stats/pkg/models/api"
	"github.com/de-tools/spot-stats/pkg/models/domain"
	"github.com/de-tools/spot-stats/pkg/models/store"
	"github.com/de-tools/spot-stats/pkg/services/pricing"
	"github.com/de-tools/spot-stats/pkg/store/artifact"
	"github.com/de-tools/spot-stats/pkg/store/sqlite/history"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Collector is satisfied by *pricing.Fleet.
type Collector interface {
	Collect(ctx context.Context) (*pricing.Report, error)
}

// Runner performs one collection run: collect, encode, persist.
type Runner struct {
	collector Collector
	sinks     []artifact.Sink
	history   history.Store
	now       func() time.Time
	newID     func() string
}

type RunSummary struct {
	ID            string
	Regions       int
	FailedRegions []domain.Region
	Records       int
	Locations     []string
	Duration      time.Duration
}

type Option func(*Runner)

// WithHistory also records every run in the history store.
func WithHistory(store history.Store) Option {
	return func(r *Runner) {
		r.history = store
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(r *Runner) {
		r.newID = newID
	}
}

func NewRunner(collector Collector, sinks []artifact.Sink, opts ...Option) *Runner {
	r := &Runner{
		collector: collector,
		sinks:     sinks,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run collects the fleet and writes the sorted artifact to every sink. Any
// failure stops the run; sinks after a failing one are not written.
func (r *Runner) Run(ctx context.Context) (*RunSummary, error) {
	started := r.now()
	runID := r.newID()
	logger := zerolog.Ctx(ctx).With().Str("run_id", runID).Logger()
	ctx = logger.WithContext(ctx)

	report, err := r.collector.Collect(ctx)
	if err != nil {
		return nil, err
	}

	stats := adapters.MapSpotRecordsDomainToApi(report.Records)
	data, err := artifact.Encode(stats)
	if err != nil {
		return nil, err
	}

	summary := &RunSummary{
		ID:      runID,
		Regions: len(report.Regions),
		Records: len(stats),
	}
	for _, failed := range report.Failed {
		summary.FailedRegions = append(summary.FailedRegions, failed.Region)
	}

	for _, sink := range r.sinks {
		if err := sink.Write(ctx, data); err != nil {
			return nil, err
		}
		summary.Locations = append(summary.Locations, sink.Location())
		logger.Info().Str("location", sink.Location()).Int("bytes", len(data)).Msg("artifact written")
	}

	if r.history != nil {
		if err := r.record(ctx, runID, started, stats); err != nil {
			return nil, err
		}
	}

	summary.Duration = r.now().Sub(started)
	logger.Info().
		Int("regions", summary.Regions).
		Int("records", summary.Records).
		Int("failed_regions", len(summary.FailedRegions)).
		Dur("duration", summary.Duration).
		Msg("run finished")
	return summary, nil
}

func (r *Runner) record(ctx context.Context, runID string, started time.Time, stats []api.SpotStat) error {
	rows := make([]store.SpotPriceRow, 0, len(stats))
	for _, stat := range stats {
		rows = append(rows, adapters.MapSpotStatApiToStoreRow(runID, stat))
	}
	run := store.Run{ID: runID, CollectedAt: started, RecordCount: len(rows)}
	if err := r.history.Add(ctx, run, rows); err != nil {
		return fmt.Errorf("failed to record run history: %w", err)
	}
	return nil
}
