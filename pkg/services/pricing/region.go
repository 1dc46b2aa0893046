package pricing

import (
	"context"
	"fmt"

	"github.com/de-tools/spot-stats/pkg/models/domain"
	"github.com/rs/zerolog"
)

// Source is the slice of the cloud API the collector depends on.
type Source interface {
	ListRegions(ctx context.Context) ([]domain.Region, error)
	FetchCatalog(ctx context.Context, region domain.Region) (domain.Catalog, error)
	FetchSpotPrices(ctx context.Context, region domain.Region) ([]domain.SpotPriceQuote, error)
}

// RegionError identifies the region whose collection failed.
type RegionError struct {
	Region domain.Region
	Err    error
}

func (e *RegionError) Error() string {
	return fmt.Sprintf("region %s: %v", e.Region, e.Err)
}

func (e *RegionError) Unwrap() error {
	return e.Err
}

type RegionCollector struct {
	source Source
}

func NewRegionCollector(source Source) *RegionCollector {
	return &RegionCollector{source: source}
}

// Collect fetches the catalog and the current spot prices of one region and
// joins them. Nothing is returned for the region if any step fails.
func (c *RegionCollector) Collect(ctx context.Context, region domain.Region) ([]domain.SpotRecord, error) {
	logger := zerolog.Ctx(ctx).With().Str("region", string(region)).Logger()

	catalog, err := c.source.FetchCatalog(ctx, region)
	if err != nil {
		return nil, &RegionError{Region: region, Err: fmt.Errorf("failed to fetch instance types: %w", err)}
	}

	quotes, err := c.source.FetchSpotPrices(ctx, region)
	if err != nil {
		return nil, &RegionError{Region: region, Err: fmt.Errorf("failed to fetch spot prices: %w", err)}
	}

	records := make([]domain.SpotRecord, 0, len(quotes))
	for _, quote := range quotes {
		record, err := Join(quote, catalog)
		if err != nil {
			return nil, &RegionError{Region: region, Err: err}
		}
		records = append(records, record)
	}

	logger.Debug().
		Int("instance_types", len(catalog)).
		Int("quotes", len(quotes)).
		Msg("region collected")

	return records, nil
}
