package store

import "time"

type Run struct {
	ID          string
	CollectedAt time.Time
	RecordCount int
}

type SpotPriceRow struct {
	RunID                 string
	InstanceType          string
	Region                string
	AvailabilityZone      string
	DollarsPerHour        float64
	CurrentGeneration     bool
	Architecture          string
	VCPUs                 int
	MemoryGiB             float64
	Power                 float64
	LastUpdateEpochTimeMs int64
}
