package adapters

import (
	"github.com/de-tools/spot-stats/pkg/models/api"
	"github.com/de-tools/spot-stats/pkg/models/domain"
	"github.com/de-tools/spot-stats/pkg/models/store"
)

const precision = 4

func MapSpotRecordDomainToApi(record domain.SpotRecord) api.SpotStat {
	return api.SpotStat{
		InstanceType:          record.InstanceType,
		DollarsPerHour:        domain.Round(record.DollarsPerHour, precision),
		Region:                string(record.Region),
		AvailabilityZone:      record.AvailabilityZone,
		CurrentGeneration:     record.CurrentGeneration,
		Architecture:          string(record.Architecture),
		VCPUs:                 record.VCPUs,
		MemoryGiB:             domain.Round(record.MemoryGiB, precision),
		LastUpdateEpochTimeMs: record.LastUpdateEpochTimeMs,
		MemoryGiBPerVCPU:      domain.Round(record.MemoryGiBPerVCPU, precision),
		MemoryGiBPerDollar:    domain.Round(record.MemoryGiBPerDollar, precision),
		VCPUsPerDollar:        domain.Round(record.VCPUsPerDollar, precision),
		Power:                 domain.Round(record.Power, precision),
	}
}

// MapSpotRecordsDomainToApi never returns nil so an empty run still encodes
// as an empty JSON array.
func MapSpotRecordsDomainToApi(records []domain.SpotRecord) []api.SpotStat {
	stats := make([]api.SpotStat, 0, len(records))
	for _, record := range records {
		stats = append(stats, MapSpotRecordDomainToApi(record))
	}
	return stats
}

func MapSpotStatApiToStoreRow(runID string, stat api.SpotStat) store.SpotPriceRow {
	return store.SpotPriceRow{
		RunID:                 runID,
		InstanceType:          stat.InstanceType,
		Region:                stat.Region,
		AvailabilityZone:      stat.AvailabilityZone,
		DollarsPerHour:        stat.DollarsPerHour,
		CurrentGeneration:     stat.CurrentGeneration,
		Architecture:          stat.Architecture,
		VCPUs:                 stat.VCPUs,
		MemoryGiB:             stat.MemoryGiB,
		Power:                 stat.Power,
		LastUpdateEpochTimeMs: stat.LastUpdateEpochTimeMs,
	}
}
