package api

// SpotStat is one row of the published spot pricing artifact. Field order
// matches the JSON document consumed by the site.
type SpotStat struct {
	InstanceType          string  `json:"instance_type"`
	DollarsPerHour        float64 `json:"dollars_per_hour"`
	Region                string  `json:"region"`
	AvailabilityZone      string  `json:"availability_zone"`
	CurrentGeneration     bool    `json:"current_generation"`
	Architecture          string  `json:"architecture"`
	VCPUs                 int     `json:"vcpus"`
	MemoryGiB             float64 `json:"memory_gib"`
	LastUpdateEpochTimeMs int64   `json:"last_update_epoch_time_ms"`
	MemoryGiBPerVCPU      float64 `json:"memory_gib_per_vcpu"`
	MemoryGiBPerDollar    float64 `json:"memory_gib_per_dollar"`
	VCPUsPerDollar        float64 `json:"vcpus_per_dollar"`
	Power                 float64 `json:"power"`
}

type StatsMeta struct {
	Records               int     `json:"records"`
	Regions               int     `json:"regions"`
	LastUpdateEpochTimeMs int64   `json:"last_update_epoch_time_ms"`
	UpdatedMinutesAgo     int64   `json:"updated_minutes_ago"`
	CheapestDollarsPerHr  float64 `json:"cheapest_dollars_per_hour"`
}

type QueryRow struct {
	SpotStat
	DollarsPerDay float64 `json:"dollars_per_day"`
	PowerClass    int     `json:"power_class"`
}
