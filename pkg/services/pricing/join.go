package pricing

import (
	"errors"
	"fmt"

	"github.com/de-tools/spot-stats/pkg/models/domain"
)

// ErrUnknownInstanceType is returned when a quote names an instance type that
// is missing from the region's catalog.
var ErrUnknownInstanceType = errors.New("instance type not found in catalog")

// Join enriches a spot quote with its instance type profile and derives the
// per-vCPU, per-dollar and power metrics.
func Join(quote domain.SpotPriceQuote, catalog domain.Catalog) (domain.SpotRecord, error) {
	spec, ok := catalog[quote.InstanceType]
	if !ok {
		return domain.SpotRecord{}, fmt.Errorf("%w: %s in %s", ErrUnknownInstanceType, quote.InstanceType, quote.Region)
	}

	memoryGiB := spec.MemoryGiB()
	vcpus := spec.DefaultVCPUs

	return domain.SpotRecord{
		InstanceType:          quote.InstanceType,
		DollarsPerHour:        quote.DollarsPerHour,
		Region:                quote.Region,
		AvailabilityZone:      quote.AvailabilityZone,
		CurrentGeneration:     spec.CurrentGeneration,
		Architecture:          spec.Architecture(),
		VCPUs:                 vcpus,
		MemoryGiB:             memoryGiB,
		LastUpdateEpochTimeMs: domain.EpochMillis(quote.ObservedAt),
		MemoryGiBPerVCPU:      memoryGiB / float64(vcpus),
		MemoryGiBPerDollar:    memoryGiB / quote.DollarsPerHour,
		VCPUsPerDollar:        float64(vcpus) / quote.DollarsPerHour,
		Power:                 Power(quote.InstanceType, vcpus, memoryGiB),
	}, nil
}
