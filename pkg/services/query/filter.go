package query

import (
	"fmt"
	"math"
	"regexp"
	"time"

	"github.com/de-tools/spot-stats/pkg/models/api"
	"github.com/de-tools/spot-stats/pkg/models/domain"
)

const (
	DefaultLimit    = 20
	AnyArchitecture = "any"
	powerClasses    = 5
)

// Filter selects artifact rows the way the pricing page does. Zero values
// disable a criterion.
type Filter struct {
	MinMemoryGiB      float64
	MinVCPUs          int
	MinMemoryPerVCPU  float64
	InstanceType      string // case-insensitive regular expression
	CurrentGeneration bool   // only current generation types when set
	Region            string
	Architecture      string // arm64, x86_64 or any
	Limit             int
}

// Apply returns at most Limit rows matching f, in artifact order, together
// with their power class and daily price.
func Apply(stats []api.SpotStat, f Filter) ([]api.QueryRow, error) {
	typeRe, err := regexp.Compile("(?i)" + f.InstanceType)
	if err != nil {
		return nil, fmt.Errorf("invalid instance type pattern %q: %w", f.InstanceType, err)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows := make([]api.QueryRow, 0, limit)
	for _, stat := range stats {
		if len(rows) == limit {
			break
		}
		if !f.matches(stat, typeRe) {
			continue
		}
		rows = append(rows, api.QueryRow{
			SpotStat:      stat,
			DollarsPerDay: domain.Round(stat.DollarsPerHour*24, 4),
		})
	}

	classes := PowerClasses(rows)
	for i := range rows {
		rows[i].PowerClass = classes[i]
	}
	return rows, nil
}

func (f Filter) matches(stat api.SpotStat, typeRe *regexp.Regexp) bool {
	if stat.MemoryGiB < f.MinMemoryGiB {
		return false
	}
	if stat.VCPUs < f.MinVCPUs {
		return false
	}
	if stat.MemoryGiBPerVCPU < f.MinMemoryPerVCPU {
		return false
	}
	if !typeRe.MatchString(stat.InstanceType) {
		return false
	}
	if f.CurrentGeneration && !stat.CurrentGeneration {
		return false
	}
	if f.Region != "" && f.Region != stat.Region {
		return false
	}
	if f.Architecture != "" && f.Architecture != AnyArchitecture && f.Architecture != stat.Architecture {
		return false
	}
	return true
}

// PowerClasses buckets power linearly between the smallest and largest value
// of rows into classes 0..4. Rows all get class 2 when power does not vary.
func PowerClasses(rows []api.QueryRow) []int {
	classes := make([]int, len(rows))
	if len(rows) == 0 {
		return classes
	}

	minPower, maxPower := math.Inf(1), math.Inf(-1)
	for _, row := range rows {
		minPower = math.Min(minPower, row.Power)
		maxPower = math.Max(maxPower, row.Power)
	}

	for i, row := range rows {
		if minPower >= maxPower {
			classes[i] = powerClasses / 2
			continue
		}
		index := (row.Power - minPower) / (maxPower - minPower)
		classes[i] = min(int(math.Floor(index*powerClasses)), powerClasses-1)
	}
	return classes
}

// Meta summarizes an artifact.
func Meta(stats []api.SpotStat, now time.Time) api.StatsMeta {
	meta := api.StatsMeta{Records: len(stats)}
	regions := make(map[string]struct{})
	for _, stat := range stats {
		regions[stat.Region] = struct{}{}
		if stat.LastUpdateEpochTimeMs > meta.LastUpdateEpochTimeMs {
			meta.LastUpdateEpochTimeMs = stat.LastUpdateEpochTimeMs
		}
	}
	meta.Regions = len(regions)
	if len(stats) > 0 {
		meta.CheapestDollarsPerHr = stats[0].DollarsPerHour
		meta.UpdatedMinutesAgo = UpdatedMinutesAgo(meta.LastUpdateEpochTimeMs, now)
	}
	return meta
}

// UpdatedMinutesAgo rounds the age of the artifact to whole minutes.
func UpdatedMinutesAgo(lastUpdateEpochTimeMs int64, now time.Time) int64 {
	elapsed := now.Sub(time.UnixMilli(lastUpdateEpochTimeMs))
	return int64(math.Round(elapsed.Minutes()))
}
