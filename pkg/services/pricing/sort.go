package pricing

import (
	"sort"

	"github.com/de-tools/spot-stats/pkg/models/domain"
)

// ArtifactPrecision is the number of decimal places kept in the artifact.
const ArtifactPrecision = 4

// SortRecords orders records by hourly price ascending, then power
// descending. Keys are compared at artifact precision so the published order
// agrees with the published values. The sort is stable.
func SortRecords(records []domain.SpotRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return less(records[i], records[j])
	})
}

func less(a, b domain.SpotRecord) bool {
	priceA := domain.Round(a.DollarsPerHour, ArtifactPrecision)
	priceB := domain.Round(b.DollarsPerHour, ArtifactPrecision)
	if priceA != priceB {
		return priceA < priceB
	}
	return domain.Round(a.Power, ArtifactPrecision) > domain.Round(b.Power, ArtifactPrecision)
}
