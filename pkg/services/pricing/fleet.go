package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/de-tools/spot-stats/pkg/models/domain"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"
)

const DefaultWorkers = 16

// ErrNoRegionCollected is returned when skipping failed regions would leave
// nothing to publish.
var ErrNoRegionCollected = errors.New("failed to collect spot prices in every region")

type FailurePolicy int

const (
	// AbortOnError fails the whole collection when any region fails.
	AbortOnError FailurePolicy = iota
	// SkipFailedRegions drops failed regions and reports them in Report.Failed.
	// The run still fails when no region succeeds.
	SkipFailedRegions
)

type Settings struct {
	Concurrent bool
	Workers    int
	Policy     FailurePolicy
	// OnRegionDone is called from the collecting goroutine once per
	// successful region, in completion order.
	OnRegionDone func(region domain.Region, records int)
}

// RegionResult is what one region worker hands back to the aggregator.
type RegionResult struct {
	Region  domain.Region
	Records []domain.SpotRecord
	Err     error
}

type Report struct {
	Regions []domain.Region
	Records []domain.SpotRecord // sorted, see SortRecords
	Failed  []RegionResult
}

type Fleet struct {
	source    Source
	collector *RegionCollector
	settings  Settings
}

func NewFleet(source Source, settings Settings) *Fleet {
	if settings.Workers <= 0 {
		settings.Workers = DefaultWorkers
	}
	return &Fleet{
		source:    source,
		collector: NewRegionCollector(source),
		settings:  settings,
	}
}

// Collect lists the regions, collects every one of them and returns the
// concatenated records sorted cheapest first.
func (f *Fleet) Collect(ctx context.Context) (*Report, error) {
	logger := zerolog.Ctx(ctx)

	regions, err := f.source.ListRegions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list regions: %w", err)
	}
	logger.Info().Int("regions", len(regions)).Bool("concurrent", f.settings.Concurrent).Msg("collecting spot prices")

	var results []RegionResult
	if f.settings.Concurrent {
		results, err = f.collectConcurrent(ctx, regions)
	} else {
		results, err = f.collectSequential(ctx, regions)
	}
	if err != nil {
		return nil, err
	}

	report := &Report{Regions: regions}
	for _, res := range results {
		if res.Err != nil {
			report.Failed = append(report.Failed, res)
			continue
		}
		report.Records = append(report.Records, res.Records...)
	}
	if len(regions) > 0 && len(report.Failed) == len(regions) {
		errs := make([]error, 0, len(report.Failed))
		for _, res := range report.Failed {
			errs = append(errs, res.Err)
		}
		return nil, fmt.Errorf("%w: %w", ErrNoRegionCollected, errors.Join(errs...))
	}
	SortRecords(report.Records)

	for _, res := range report.Failed {
		logger.Warn().Err(res.Err).Str("region", string(res.Region)).Msg("region skipped")
	}
	return report, nil
}

func (f *Fleet) collectSequential(ctx context.Context, regions []domain.Region) ([]RegionResult, error) {
	results := make([]RegionResult, 0, len(regions))
	for _, region := range regions {
		res := f.collectRegion(ctx, region)
		if err := f.accept(res); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

type indexedResult struct {
	index int
	RegionResult
}

// collectConcurrent fans the regions out over a bounded pool. Workers only
// send on the results channel; the slice is filled by this goroutine alone.
func (f *Fleet) collectConcurrent(ctx context.Context, regions []domain.Region) ([]RegionResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pool, err := ants.NewPool(f.settings.Workers)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	out := make(chan indexedResult, len(regions))
	submitted := 0
	for i, region := range regions {
		task := func() {
			defer func() {
				if r := recover(); r != nil {
					out <- indexedResult{index: i, RegionResult: RegionResult{
						Region: region,
						Err:    &RegionError{Region: region, Err: fmt.Errorf("worker panic: %v", r)},
					}}
				}
			}()
			if err := ctx.Err(); err != nil {
				out <- indexedResult{index: i, RegionResult: RegionResult{Region: region, Err: err}}
				return
			}
			out <- indexedResult{index: i, RegionResult: f.collectRegion(ctx, region)}
		}
		if err := pool.Submit(task); err != nil {
			return nil, fmt.Errorf("failed to schedule region %s: %w", region, err)
		}
		submitted++
	}

	results := make([]RegionResult, len(regions))
	for range submitted {
		res := <-out
		if err := f.accept(res.RegionResult); err != nil {
			return nil, err
		}
		results[res.index] = res.RegionResult
	}
	return results, nil
}

func (f *Fleet) collectRegion(ctx context.Context, region domain.Region) RegionResult {
	records, err := f.collector.Collect(ctx, region)
	return RegionResult{Region: region, Records: records, Err: err}
}

// accept applies the failure policy to one result and reports progress.
func (f *Fleet) accept(res RegionResult) error {
	if res.Err != nil {
		if f.settings.Policy == AbortOnError {
			return fmt.Errorf("failed to collect spot prices: %w", res.Err)
		}
		return nil
	}
	if f.settings.OnRegionDone != nil {
		f.settings.OnRegionDone(res.Region, len(res.Records))
	}
	return nil
}
